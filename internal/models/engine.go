package models

import "time"

// Engine represents a game engine (e.g., "Unity", "Godot").
type Engine struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:255;uniqueIndex;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
