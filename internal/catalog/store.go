// Package catalog stores games, engines and genres and enforces the
// referential rules of the game<->genre association on every write.
package catalog

import (
	"context"

	"gamecatalog/backend/internal/apperr"
	"gamecatalog/backend/internal/database"
	"gamecatalog/backend/internal/models"

	"github.com/samber/oops"
	"gorm.io/gorm"
)

// Store is the catalog's persistence layer. Every write runs in a single transaction.
type Store struct {
	db *gorm.DB
}

// NewStore creates a Store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// CreateGenre adds a genre. A taken name yields apperr.ErrConflict.
func (s *Store) CreateGenre(ctx context.Context, name string) (*models.Genre, error) {
	genre := models.Genre{Name: name}
	if err := s.db.WithContext(ctx).Create(&genre).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, conflict("genre", name)
		}
		return nil, err
	}
	return &genre, nil
}

// ListGenres returns all genres ordered by id.
func (s *Store) ListGenres(ctx context.Context) ([]models.Genre, error) {
	genres := []models.Genre{}
	if err := s.db.WithContext(ctx).Order("id").Find(&genres).Error; err != nil {
		return nil, err
	}
	return genres, nil
}

// CreateEngine adds an engine. A taken name yields apperr.ErrConflict.
func (s *Store) CreateEngine(ctx context.Context, name string) (*models.Engine, error) {
	engine := models.Engine{Name: name}
	if err := s.db.WithContext(ctx).Create(&engine).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, conflict("engine", name)
		}
		return nil, err
	}
	return &engine, nil
}

// ListEngines returns all engines ordered by id.
func (s *Store) ListEngines(ctx context.Context) ([]models.Engine, error) {
	engines := []models.Engine{}
	if err := s.db.WithContext(ctx).Order("id").Find(&engines).Error; err != nil {
		return nil, err
	}
	return engines, nil
}

func conflict(entity, name string) error {
	return oops.Code("NAME_CONFLICT").
		With("entity", entity).
		With("name", name).
		Wrapf(apperr.ErrConflict, "%s %q", entity, name)
}

func gameNotFound(id uint) error {
	return oops.Code("GAME_NOT_FOUND").
		With("game_id", id).
		Wrapf(apperr.ErrNotFound, "game %d", id)
}
