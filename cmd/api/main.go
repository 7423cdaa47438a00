package main

import (
	"context"
	"log"
	"net/http"

	"fitfinder-backend/config"
	"fitfinder-backend/internal/clock"
	"fitfinder-backend/internal/handler"
	"fitfinder-backend/internal/places"
	"fitfinder-backend/internal/redis"
	"fitfinder-backend/internal/repository"
	"fitfinder-backend/internal/server"
	"fitfinder-backend/internal/services"
	"fitfinder-backend/pkg/database"
	"fitfinder-backend/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	mode := logger.DevelopmentMode
	if cfg.IsRelease() {
		mode = logger.ProductionMode
	}
	l := logger.New(mode)
	logger.SetGlobalLogger(l)
	defer l.Sync()

	ctx := context.Background()

	db, err := database.Connect(ctx, cfg)
	if err != nil {
		l.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if cfg.AutoMigrate {
		if err := database.ApplyMigrations(ctx, db, l); err != nil {
			l.Logger.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	checks := []server.HealthCheck{{
		Name:  "database",
		Check: func(ctx context.Context) error { return database.HealthCheck(ctx, db) },
	}}

	var nearbyCache services.NearbyCache
	redisCfg := redis.Config{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB}
	if redisCfg.Enabled() {
		client := redis.NewClient(redisCfg)
		defer client.Close()
		if err := redis.Ping(ctx, client); err != nil {
			l.Warnf("Redis at %s unreachable, nearby cache disabled until it recovers: %s", cfg.RedisAddr, err)
		}
		cache := redis.NewNearbyCache(client, cfg.NearbyCacheTTL)
		nearbyCache = cache
		checks = append(checks, server.HealthCheck{Name: "redis", Check: cache.Ping})
	}

	if cfg.GooglePlacesAPIKey == "" {
		l.Warnf("GOOGLE_PLACES_API_KEY is not set; nearby-gyms searches will fail upstream")
	}

	tokens, err := services.NewTokenIssuer(cfg.SecretKey, cfg.JWTAlgorithm, cfg.AccessTokenTTL(), clock.New())
	if err != nil {
		l.Logger.Fatal("Failed to create token issuer", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(db)
	placeRepo := repository.NewPlaceRepository(db)
	provider := places.NewGoogleClient(cfg.GooglePlacesAPIKey, cfg.PlacesBaseURL, &http.Client{Timeout: cfg.PlacesTimeout})

	authService := services.NewAuthService(userRepo, tokens)
	placesService := services.NewPlacesService(placeRepo, provider, nearbyCache, l)

	srv := server.New(cfg, l)
	srv.SetupRoutes(&server.Handlers{
		Auth: handler.NewAuthHandler(authService, handler.CookieConfig{
			Secure:   cfg.CookieSecure,
			SameSite: cfg.SameSite(),
			Domain:   cfg.CookieDomain,
		}),
		User:   handler.NewUserHandler(),
		Places: handler.NewPlacesHandler(placesService),
	}, authService, checks...)

	if err := srv.Start(); err != nil {
		l.Errorf("Server exited with error: %s", err)
	}
}
