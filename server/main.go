package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/utkarsh-90/Axum-Chat-Service/server/adaptor"
	"github.com/utkarsh-90/Axum-Chat-Service/server/auth"
	"github.com/utkarsh-90/Axum-Chat-Service/server/config"
	"github.com/utkarsh-90/Axum-Chat-Service/server/domain"
	"github.com/utkarsh-90/Axum-Chat-Service/server/repository"
	"github.com/utkarsh-90/Axum-Chat-Service/server/usecase"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := sql.Open("sqlite3", cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open db")
	}
	defer db.Close()
	if err := repository.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate db")
	}

	tokens := auth.NewJWTManager(auth.JWTConfig{
		SecretKey:     cfg.JWTSecret,
		TokenDuration: cfg.TokenDuration,
		Issuer:        cfg.JWTIssuer,
	})

	rp := repository.NewRepository(db)
	hub := domain.NewHub()
	authUC := usecase.NewAuthUsecase(rp, tokens)
	roomUC := usecase.NewRoomUsecase(rp)
	streamUC := usecase.NewStreamUsecase(rp, hub)
	ad := adaptor.NewAdaptor(authUC, roomUC, streamUC, tokens)

	gin.SetMode(cfg.Mode)
	r := gin.New()
	r.Use(gin.Recovery())
	ad.Register(r)

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Info().Str("addr", addr).Msg("server is running")
	if err := r.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
