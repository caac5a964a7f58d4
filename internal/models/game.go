package models

import "time"

// Game represents a game in the catalog.
type Game struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:255;not null;index"`
	ReleaseYear int    `gorm:"not null"`
	EngineID    *uint  `gorm:"index"` // Nullable, a game may have no engine
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Engine *Engine  `gorm:"foreignKey:EngineID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Genres []*Genre `gorm:"many2many:game_genres;"`
}

// GameGenre is a single row of the game<->genre link table.
// The primary key is the (GameID, GenreID) pair, so a pair can only be linked once.
type GameGenre struct {
	GameID  uint `gorm:"primaryKey"`
	GenreID uint `gorm:"primaryKey;index"`
}

// TableName pins the link table name shared with the many2many tag on Game.
func (GameGenre) TableName() string {
	return "game_genres"
}
