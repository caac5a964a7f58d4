package models

import "time"

// Genre represents a game genre (e.g., "RPG", "Metroidvania").
type Genre struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;uniqueIndex;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
