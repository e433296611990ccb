package main

import (
	"database/sql"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/medbotlabs/medbot-backend/internal/config"
	appmiddleware "github.com/medbotlabs/medbot-backend/internal/middleware"
	"github.com/medbotlabs/medbot-backend/internal/migrations"
	"github.com/medbotlabs/medbot-backend/internal/modules/auth"
	"github.com/medbotlabs/medbot-backend/internal/modules/catalog"
	"github.com/medbotlabs/medbot-backend/internal/modules/customer"
	"github.com/medbotlabs/medbot-backend/internal/modules/order"
	"github.com/medbotlabs/medbot-backend/internal/modules/pharmacy"
	"github.com/medbotlabs/medbot-backend/internal/modules/session"
	"github.com/medbotlabs/medbot-backend/internal/modules/user"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}

	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatal("ping database", zap.Error(err))
	}

	if err := migrations.Run(db); err != nil {
		logger.Fatal("apply migrations", zap.Error(err))
	}

	userRepo := user.NewPostgresRepository(db)
	userService := user.NewService(userRepo)
	authService := auth.NewService(userRepo, cfg.JWTSecret)
	staffOnly := auth.RequireToken(authService)

	catalogService := catalog.NewService(catalog.NewPostgresRepository(db), cfg)
	pharmacyService := pharmacy.NewService(pharmacy.NewPostgresRepository(db))
	customerService := customer.NewService(customer.NewPostgresRepository(db))
	orderService := order.NewService(order.NewPostgresRepository(db), customerService, cfg, logger)
	sessionService := session.NewService(session.NewPostgresRepository(db), logger)

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.Recoverer)
	router.Use(appmiddleware.RequestLogger(logger))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","service":"` + cfg.SiteTitle + `"}`))
	})

	auth.NewHandler(authService, userService).RegisterRoutes(router)
	catalog.NewHandler(catalogService).RegisterRoutes(router, staffOnly)
	pharmacy.NewHandler(pharmacyService).RegisterRoutes(router, staffOnly)
	customer.NewHandler(customerService).RegisterRoutes(router)
	order.NewHandler(orderService).RegisterRoutes(router, staffOnly)
	session.NewHandler(sessionService).RegisterRoutes(router)

	logger.Info("server starting", zap.String("port", cfg.HTTPPort))
	if err := http.ListenAndServe(":"+cfg.HTTPPort, router); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
