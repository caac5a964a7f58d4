package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gamecatalog/backend/docs"
	"gamecatalog/backend/internal/auth"
	"gamecatalog/backend/internal/catalog"
	"gamecatalog/backend/internal/config"
	"gamecatalog/backend/internal/handler"
	"gamecatalog/backend/internal/hub"
	"gamecatalog/backend/internal/logging"
	"gamecatalog/backend/internal/observability"
	"gamecatalog/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API (default)",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	db, err := connect(cfg, logger)
	if err != nil {
		return err
	}

	router, err := newRouter(cfg, db, logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "swagger", "/swagger/index.html", "cors_origins", cfg.CORSOrigins)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return oops.Code("SERVER_FAILED").With("addr", srv.Addr).Wrap(err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return oops.Code("SHUTDOWN_FAILED").Wrap(err)
	}
	return nil
}

// newRouter wires the stores, the access gate and every route onto a gin engine,
// behind the CORS policy for cfg.CORSOrigins.
func newRouter(cfg *config.Config, db *gorm.DB, logger *slog.Logger) (http.Handler, error) {
	gin.SetMode(cfg.GinMode)

	hasher, err := auth.NewBcryptHasher(cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	credentials, err := auth.NewCredentialStore(auth.NewGormUserStore(db), hasher)
	if err != nil {
		return nil, err
	}
	issuer := jwt.NewIssuer(cfg.JWTSecret, cfg.AccessTokenTTL)
	gate := auth.NewGate(issuer, credentials)
	metrics := observability.NewMetrics()

	router := gin.New()
	router.Use(gin.Recovery(), logging.RequestLogger(logger), metrics.Middleware())

	// Swagger route, served for whatever host the request came in on
	docs.SwaggerInfo.Host = ""
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	router.GET("/prometheus", metrics.Handler())

	handler.New(handler.Deps{
		Catalog:     catalog.NewStore(db),
		Credentials: credentials,
		Tokens:      issuer,
		Hub:         hub.NewHub(logger),
		Metrics:     metrics,
		Logger:      logger,
	}).RegisterRoutes(router, gate)

	// An empty AllowedOrigins means "*" to cors, so no origins means no CORS at all.
	if len(cfg.CORSOrigins) == 0 {
		return router, nil
	}
	return allowOrigins(cfg.CORSOrigins)(router), nil
}

// allowOrigins answers preflights and tags responses for the given browser origins.
func allowOrigins(origins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{handler.TotalCountHeader},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
