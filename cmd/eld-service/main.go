package main

import (
	"fmt"
	"os"

	"eld-trip-service/internal/auth"
	"eld-trip-service/internal/config"
	"eld-trip-service/internal/db"
	httphandler "eld-trip-service/internal/http"
	"eld-trip-service/internal/http/middleware"
	"eld-trip-service/internal/logger"
	"eld-trip-service/internal/repository"
	"eld-trip-service/internal/route"
	"eld-trip-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	tripRepo := repository.NewTripRepository(database)

	estimator := route.NewEstimator()
	estimator.AverageSpeedMph = cfg.Routing.AverageSpeedMph
	estimator.RoadFactor = cfg.Routing.RoadFactor

	tripService := service.NewTripService(tripRepo, estimator, log)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)

	handler := httphandler.NewHandler(tripService, log)
	router := httphandler.NewRouter(handler, middleware.Auth(tokenParser), cfg, database)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting eld trip service")

	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
