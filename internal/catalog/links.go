package catalog

import (
	"gamecatalog/backend/internal/models"

	"gorm.io/gorm"
)

// genreLinks is the game_genres link table. Rows have no identity beyond
// their (game, genre) pair, so every operation is expressed in pairs.
type genreLinks struct {
	tx *gorm.DB
}

func linksOf(tx *gorm.DB) genreLinks {
	return genreLinks{tx: tx}
}

// genreIDs returns the genres linked to a game.
func (l genreLinks) genreIDs(gameID uint) ([]uint, error) {
	var ids []uint
	err := l.tx.Model(&models.GameGenre{}).Where("game_id = ?", gameID).Order("genre_id").Pluck("genre_id", &ids).Error
	return ids, err
}

// gameIDs returns the games linked to a genre.
func (l genreLinks) gameIDs(genreID uint) ([]uint, error) {
	var ids []uint
	err := l.tx.Model(&models.GameGenre{}).Where("genre_id = ?", genreID).Order("game_id").Pluck("game_id", &ids).Error
	return ids, err
}

func (l genreLinks) insert(gameID uint, genreIDs ...uint) error {
	if len(genreIDs) == 0 {
		return nil
	}
	rows := make([]models.GameGenre, 0, len(genreIDs))
	for _, genreID := range genreIDs {
		rows = append(rows, models.GameGenre{GameID: gameID, GenreID: genreID})
	}
	return l.tx.Create(&rows).Error
}

func (l genreLinks) delete(gameID uint, genreIDs ...uint) error {
	if len(genreIDs) == 0 {
		return nil
	}
	return l.tx.Where("game_id = ? AND genre_id IN ?", gameID, genreIDs).Delete(&models.GameGenre{}).Error
}

func (l genreLinks) deleteAll(gameID uint) error {
	return l.tx.Where("game_id = ?", gameID).Delete(&models.GameGenre{}).Error
}

// replace makes the linked set of gameID exactly genreIDs, touching only the pairs that change.
func (l genreLinks) replace(gameID uint, genreIDs []uint) error {
	current, err := l.genreIDs(gameID)
	if err != nil {
		return err
	}

	wanted := make(map[uint]bool, len(genreIDs))
	for _, id := range genreIDs {
		wanted[id] = true
	}

	var removed []uint
	have := make(map[uint]bool, len(current))
	for _, id := range current {
		have[id] = true
		if !wanted[id] {
			removed = append(removed, id)
		}
	}

	var added []uint
	for _, id := range genreIDs {
		if !have[id] {
			added = append(added, id)
		}
	}

	if err := l.delete(gameID, removed...); err != nil {
		return err
	}
	return l.insert(gameID, added...)
}
