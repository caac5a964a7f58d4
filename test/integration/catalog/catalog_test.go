//go:build integration

package catalog_test

import (
	"context"
	"io"
	"log/slog"
	"sync"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"gamecatalog/backend/internal/apperr"
	"gamecatalog/backend/internal/auth"
	"gamecatalog/backend/internal/catalog"
	"gamecatalog/backend/internal/models"
)

func genreIDsOf(game *models.Game) []uint {
	ids := make([]uint, 0, len(game.Genres))
	for _, g := range game.Genres {
		ids = append(ids, g.ID)
	}
	return ids
}

func countOf(model any) int64 {
	var n int64
	Expect(env.db.Model(model).Count(&n).Error).To(Succeed())
	return n
}

var _ = Describe("Catalog Store", func() {
	var (
		ctx   context.Context
		store *catalog.Store
	)

	BeforeEach(func() {
		ctx = context.Background()
		truncateAll()
		store = catalog.NewStore(env.db)
	})

	mustGenre := func(name string) *models.Genre {
		g, err := store.CreateGenre(ctx, name)
		Expect(err).NotTo(HaveOccurred())
		return g
	}

	Describe("names", func() {
		It("maps a unique violation to a conflict", func() {
			mustGenre("Indie")
			_, err := store.CreateGenre(ctx, "Indie")
			Expect(err).To(MatchError(apperr.ErrConflict))

			_, err = store.CreateEngine(ctx, "Unity")
			Expect(err).NotTo(HaveOccurred())
			_, err = store.CreateEngine(ctx, "Unity")
			Expect(err).To(MatchError(apperr.ErrConflict))
		})
	})

	Describe("CreateGame", func() {
		It("writes nothing when one genre id is missing", func() {
			action := mustGenre("Action")

			_, err := store.CreateGame(ctx, catalog.GameInput{
				Name:        "Foo",
				ReleaseYear: 2020,
				GenreIDs:    []uint{action.ID, action.ID + 50},
			})
			Expect(err).To(MatchError(apperr.ErrInvalidReference))
			Expect(countOf(&models.Game{})).To(BeZero())
			Expect(countOf(&models.GameGenre{})).To(BeZero())
		})

		It("rejects an unknown engine", func() {
			engineID := uint(404)
			_, err := store.CreateGame(ctx, catalog.GameInput{Name: "Foo", ReleaseYear: 2020, EngineID: &engineID})
			Expect(err).To(MatchError(apperr.ErrInvalidReference))
		})
	})

	Describe("UpdateGame", func() {
		It("leaves exactly the requested genre set", func() {
			a, b, c := mustGenre("A"), mustGenre("B"), mustGenre("C")
			game, err := store.CreateGame(ctx, catalog.GameInput{Name: "Foo", ReleaseYear: 2020, GenreIDs: []uint{a.ID, c.ID}})
			Expect(err).NotTo(HaveOccurred())

			updated, err := store.UpdateGame(ctx, game.ID, catalog.GameInput{Name: "Foo", ReleaseYear: 2020, GenreIDs: []uint{a.ID, b.ID}})
			Expect(err).NotTo(HaveOccurred())
			Expect(genreIDsOf(updated)).To(Equal([]uint{a.ID, b.ID}))
		})

		It("ends in one of two concurrent states, never a merge", func() {
			a, b, c, d := mustGenre("A"), mustGenre("B"), mustGenre("C"), mustGenre("D")
			game, err := store.CreateGame(ctx, catalog.GameInput{Name: "Foo", ReleaseYear: 2020})
			Expect(err).NotTo(HaveOccurred())

			first := []uint{a.ID, b.ID}
			second := []uint{c.ID, d.ID}

			var wg sync.WaitGroup
			for _, ids := range [][]uint{first, second} {
				wg.Add(1)
				go func(ids []uint) {
					defer GinkgoRecover()
					defer wg.Done()
					// Serialization failures are acceptable; a partial state is not.
					_, _ = store.UpdateGame(ctx, game.ID, catalog.GameInput{Name: "Foo", ReleaseYear: 2020, GenreIDs: ids})
				}(ids)
			}
			wg.Wait()

			got, err := store.GetGame(ctx, game.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(genreIDsOf(got)).To(Or(Equal(first), Equal(second)))
		})

		It("reports a missing game", func() {
			_, err := store.UpdateGame(ctx, 999, catalog.GameInput{Name: "Foo", ReleaseYear: 2020})
			Expect(err).To(MatchError(apperr.ErrNotFound))
		})
	})

	Describe("DeleteGame", func() {
		It("removes the game and its links", func() {
			a := mustGenre("A")
			game, err := store.CreateGame(ctx, catalog.GameInput{Name: "Foo", ReleaseYear: 2020, GenreIDs: []uint{a.ID}})
			Expect(err).NotTo(HaveOccurred())

			Expect(store.DeleteGame(ctx, game.ID)).To(Succeed())
			Expect(countOf(&models.GameGenre{})).To(BeZero())

			_, err = store.GetGame(ctx, game.ID)
			Expect(err).To(MatchError(apperr.ErrNotFound))
		})
	})

	Describe("MostPopularGenre", func() {
		It("returns no genre on an empty catalog", func() {
			popular, err := store.MostPopularGenre(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(popular.Genre).To(BeNil())
			Expect(popular.GameCount).To(BeZero())
		})

		It("counts linked games", func() {
			action, rpg := mustGenre("Action"), mustGenre("RPG")
			for _, ids := range [][]uint{{action.ID}, {action.ID}, {action.ID, rpg.ID}} {
				_, err := store.CreateGame(ctx, catalog.GameInput{Name: "Game", ReleaseYear: 2000, GenreIDs: ids})
				Expect(err).NotTo(HaveOccurred())
			}

			popular, err := store.MostPopularGenre(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(popular.Genre.Name).To(Equal("Action"))
			Expect(popular.GameCount).To(BeEquivalentTo(3))
		})
	})

	Describe("Seed", func() {
		It("is idempotent", func() {
			logger := slog.New(slog.NewTextHandler(io.Discard, nil))

			_, err := store.Seed(ctx, logger)
			Expect(err).NotTo(HaveOccurred())
			again, err := store.Seed(ctx, logger)
			Expect(err).NotTo(HaveOccurred())
			Expect(again).To(Equal(catalog.SeedResult{}))

			Expect(countOf(&models.Genre{})).To(BeEquivalentTo(len(catalog.PredefinedGenres)))
			Expect(countOf(&models.Game{})).To(BeEquivalentTo(3))
		})
	})
})

var _ = Describe("Credential Store", func() {
	var credentials *auth.CredentialStore

	BeforeEach(func() {
		truncateAll()
		hasher, err := auth.NewBcryptHasher(4)
		Expect(err).NotTo(HaveOccurred())
		credentials, err = auth.NewCredentialStore(auth.NewGormUserStore(env.db), hasher)
		Expect(err).NotTo(HaveOccurred())
	})

	It("rejects a second registration of the same email", func() {
		ctx := context.Background()
		_, err := credentials.Register(ctx, "a@x.com", "pw123")
		Expect(err).NotTo(HaveOccurred())

		_, err = credentials.Register(ctx, "a@x.com", "other")
		Expect(err).To(MatchError(apperr.ErrDuplicateIdentity))

		ok, err := credentials.Verify(ctx, "a@x.com", "pw123")
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
	})

	It("maps a unique violation on insert to a duplicate identity", func() {
		users := auth.NewGormUserStore(env.db)
		ctx := context.Background()
		Expect(users.CreateUser(ctx, &models.User{Email: "b@x.com", PasswordHash: "x", IsActive: true})).To(Succeed())

		err := users.CreateUser(ctx, &models.User{Email: "b@x.com", PasswordHash: "y", IsActive: true})
		Expect(err).To(MatchError(apperr.ErrDuplicateIdentity))
	})
})
