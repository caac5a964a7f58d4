package catalog

import (
	"context"

	"gamecatalog/backend/internal/models"
)

// GenrePopularity is the genre linked to the most games. Genre is nil when no game has a genre.
type GenrePopularity struct {
	Genre     *models.Genre
	GameCount int64
}

// CountGames returns the number of games in the catalog.
func (s *Store) CountGames(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Game{}).Count(&count).Error
	return count, err
}

// MostPopularGenre returns the genre with the most linked games.
// Ties go to the lowest genre id so repeated calls agree.
func (s *Store) MostPopularGenre(ctx context.Context) (GenrePopularity, error) {
	var row struct {
		ID        uint
		Name      string
		GameCount int64
	}

	err := s.db.WithContext(ctx).
		Table("genres").
		Select("genres.id AS id, genres.name AS name, COUNT(game_genres.game_id) AS game_count").
		Joins("JOIN game_genres ON game_genres.genre_id = genres.id").
		Group("genres.id, genres.name").
		Order("game_count DESC").
		Order("genres.id ASC").
		Limit(1).
		Scan(&row).Error
	if err != nil {
		return GenrePopularity{}, err
	}

	if row.ID == 0 {
		return GenrePopularity{}, nil
	}
	return GenrePopularity{
		Genre:     &models.Genre{ID: row.ID, Name: row.Name},
		GameCount: row.GameCount,
	}, nil
}
