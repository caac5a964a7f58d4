package catalog

import (
	"context"
	"log/slog"

	"gamecatalog/backend/internal/models"

	"gorm.io/gorm"
)

// PredefinedGenres are inserted by Seed when missing.
var PredefinedGenres = []string{
	"Action", "Adventure", "RPG", "Strategy", "Simulation",
	"Puzzle", "Platformer", "Shooter (FPS/TPS)", "Fighting",
	"Horror", "Survival", "Indie", "MMORPG", "Sandbox",
	"Roguelike", "Metroidvania",
}

// PredefinedEngines are inserted by Seed when missing.
var PredefinedEngines = []string{
	"Unreal Engine", "Unity", "Godot", "Source Engine", "REDengine",
	"CryEngine", "GameMaker", "RPG Maker", "Ren'Py", "Fox Engine",
	"Not Specified",
}

type exampleGame struct {
	name   string
	year   int
	engine string
	genres []string
}

var exampleGames = []exampleGame{
	{name: "Hollow Knight", year: 2017, engine: "Unity", genres: []string{"Action", "Adventure", "Indie", "Metroidvania"}},
	{name: "Celeste", year: 2018, engine: "Not Specified", genres: []string{"Adventure", "Indie", "Platformer"}},
	{name: "The Witcher 3", year: 2015, engine: "REDengine", genres: []string{"Action", "Adventure", "RPG"}},
}

// SeedResult reports what Seed inserted.
type SeedResult struct {
	Genres  int
	Engines int
	Games   int
}

// Seed inserts the predefined genres and engines that are missing and, if the
// catalog has no games yet, a few example games. Running it again is a no-op.
func (s *Store) Seed(ctx context.Context, logger *slog.Logger) (SeedResult, error) {
	var result SeedResult
	db := s.db.WithContext(ctx)

	for _, name := range PredefinedGenres {
		created, err := createMissing(db, &models.Genre{Name: name}, name)
		if err != nil {
			return result, err
		}
		if created {
			result.Genres++
		}
	}
	logger.Info("seeded genres", "added", result.Genres)

	for _, name := range PredefinedEngines {
		created, err := createMissing(db, &models.Engine{Name: name}, name)
		if err != nil {
			return result, err
		}
		if created {
			result.Engines++
		}
	}
	logger.Info("seeded engines", "added", result.Engines)

	count, err := s.CountGames(ctx)
	if err != nil {
		return result, err
	}
	if count > 0 {
		return result, nil
	}

	for _, example := range exampleGames {
		in, err := s.resolveExample(ctx, example)
		if err != nil {
			return result, err
		}
		if _, err := s.CreateGame(ctx, in); err != nil {
			return result, err
		}
		result.Games++
	}
	logger.Info("seeded example games", "added", result.Games)

	return result, nil
}

// createMissing inserts row unless a row of the same model already has name.
func createMissing[T any](db *gorm.DB, row *T, name string) (bool, error) {
	var count int64
	if err := db.Model(new(T)).Where("name = ?", name).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if err := db.Create(row).Error; err != nil {
		return false, err
	}
	return true, nil
}

// resolveExample turns names into ids; names that are not in the catalog are skipped.
func (s *Store) resolveExample(ctx context.Context, example exampleGame) (GameInput, error) {
	in := GameInput{Name: example.name, ReleaseYear: example.year}
	db := s.db.WithContext(ctx)

	var engineIDs []uint
	if err := db.Model(&models.Engine{}).Where("name = ?", example.engine).Pluck("id", &engineIDs).Error; err != nil {
		return in, err
	}
	if len(engineIDs) > 0 {
		in.EngineID = &engineIDs[0]
	}

	if err := db.Model(&models.Genre{}).Where("name IN ?", example.genres).Order("id").Pluck("id", &in.GenreIDs).Error; err != nil {
		return in, err
	}
	return in, nil
}
