package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"gamecatalog/backend/internal/apperr"
	"gamecatalog/backend/internal/models"

	"github.com/samber/oops"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GameInput is the full state of a game as supplied by a create or update.
type GameInput struct {
	Name        string
	ReleaseYear int
	EngineID    *uint
	GenreIDs    []uint
}

// GameFilter narrows ListGames. Zero values mean "no filter"; Limit 0 returns every match.
type GameFilter struct {
	Query   string
	GenreID uint
	Offset  int
	Limit   int
}

// likeEscaper makes a name query match literally under LIKE ... ESCAPE '\'.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// CreateGame inserts a game and its genre links. If the engine or any genre
// does not exist, nothing is written and apperr.ErrInvalidReference is returned.
func (s *Store) CreateGame(ctx context.Context, in GameInput) (*models.Game, error) {
	genreIDs := uniqueIDs(in.GenreIDs)

	var game models.Game
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkReferences(tx, in.EngineID, genreIDs); err != nil {
			return err
		}

		created := models.Game{
			Name:        in.Name,
			ReleaseYear: in.ReleaseYear,
			EngineID:    in.EngineID,
		}
		if err := tx.Omit(clause.Associations).Create(&created).Error; err != nil {
			return err
		}
		if err := linksOf(tx).insert(created.ID, genreIDs...); err != nil {
			return err
		}

		return withRelations(tx).First(&game, created.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &game, nil
}

// UpdateGame replaces name, release year, engine and the whole genre set of a game.
// The genre set afterwards is exactly in.GenreIDs.
func (s *Store) UpdateGame(ctx context.Context, id uint, in GameInput) (*models.Game, error) {
	genreIDs := uniqueIDs(in.GenreIDs)

	var game models.Game
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Game
		if err := tx.Select("id").First(&existing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return gameNotFound(id)
			}
			return err
		}

		if err := checkReferences(tx, in.EngineID, genreIDs); err != nil {
			return err
		}

		err := tx.Model(&existing).
			Select("name", "release_year", "engine_id", "updated_at").
			Updates(models.Game{
				Name:        in.Name,
				ReleaseYear: in.ReleaseYear,
				EngineID:    in.EngineID,
				UpdatedAt:   time.Now(),
			}).Error
		if err != nil {
			return err
		}
		if err := linksOf(tx).replace(id, genreIDs); err != nil {
			return err
		}

		return withRelations(tx).First(&game, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &game, nil
}

// DeleteGame removes a game's genre links and then the game itself, atomically.
func (s *Store) DeleteGame(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := linksOf(tx).deleteAll(id); err != nil {
			return err
		}

		result := tx.Delete(&models.Game{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gameNotFound(id)
		}
		return nil
	})
}

// GetGame returns a game with its engine and genres.
func (s *Store) GetGame(ctx context.Context, id uint) (*models.Game, error) {
	var game models.Game
	if err := withRelations(s.db.WithContext(ctx)).First(&game, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gameNotFound(id)
		}
		return nil, err
	}
	return &game, nil
}

// ListGames returns the games matching filter, ordered by id, and the total
// number of matches before Offset/Limit are applied.
func (s *Store) ListGames(ctx context.Context, filter GameFilter) ([]models.Game, int64, error) {
	db := s.db.WithContext(ctx)

	var restrictTo []uint
	if filter.GenreID != 0 {
		ids, err := linksOf(db).gameIDs(filter.GenreID)
		if err != nil {
			return nil, 0, err
		}
		if len(ids) == 0 {
			return []models.Game{}, 0, nil
		}
		restrictTo = ids
	}

	// Built twice since a gorm chain is consumed by Count.
	query := func() *gorm.DB {
		q := db.Model(&models.Game{})
		if filter.Query != "" {
			q = q.Where(`LOWER(games.name) LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(strings.ToLower(filter.Query))+"%")
		}
		if restrictTo != nil {
			q = q.Where("games.id IN ?", restrictTo)
		}
		return q
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := withRelations(query()).Order("games.id")
	if filter.Limit > 0 {
		page = page.Offset(filter.Offset).Limit(filter.Limit)
	}

	games := []models.Game{}
	if err := page.Find(&games).Error; err != nil {
		return nil, 0, err
	}
	return games, total, nil
}

func withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Engine").Preload("Genres", func(db *gorm.DB) *gorm.DB {
		return db.Order("genres.id")
	})
}

// checkReferences verifies the engine and the full genre set exist before any
// row is written. On PostgreSQL the referenced rows are share-locked until commit.
func checkReferences(tx *gorm.DB, engineID *uint, genreIDs []uint) error {
	if engineID != nil {
		var found []uint
		if err := lockShared(tx.Model(&models.Engine{})).Where("id = ?", *engineID).Limit(1).Pluck("id", &found).Error; err != nil {
			return err
		}
		if len(found) == 0 {
			return oops.Code("INVALID_REFERENCE").
				With("engine_id", *engineID).
				Wrapf(apperr.ErrInvalidReference, "engine %d does not exist", *engineID)
		}
	}

	if len(genreIDs) == 0 {
		return nil
	}

	var found []uint
	if err := lockShared(tx.Model(&models.Genre{})).Where("id IN ?", genreIDs).Pluck("id", &found).Error; err != nil {
		return err
	}
	if len(found) != len(genreIDs) {
		missing := missingIDs(genreIDs, found)
		return oops.Code("INVALID_REFERENCE").
			With("genre_ids", missing).
			Wrapf(apperr.ErrInvalidReference, "genre ids %v do not exist", missing)
	}
	return nil
}

// lockShared adds FOR SHARE where the dialect supports row locks.
func lockShared(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "SHARE"})
	}
	return tx
}

// uniqueIDs drops repeated ids, keeping first-seen order. A genre set cannot hold duplicates.
func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func missingIDs(requested, found []uint) []uint {
	present := make(map[uint]bool, len(found))
	for _, id := range found {
		present[id] = true
	}
	var missing []uint
	for _, id := range requested {
		if !present[id] {
			missing = append(missing, id)
		}
	}
	return missing
}
