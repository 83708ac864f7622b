package main

import (
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/veselink1/quick-draw/crypto"
	"github.com/veselink1/quick-draw/server"
	"github.com/veselink1/quick-draw/shared/configs"
	"github.com/veselink1/quick-draw/shared/logger"
)

func main() {
	lgr := logger.New(configs.Envs.LOG_LEVEL)

	if len(configs.Envs.JWT_KEY) == 0 {
		log.Fatal("Missing jwt signing key")
	}
	if configs.Envs.GIN_MODE != "" {
		gin.SetMode(configs.Envs.GIN_MODE)
	}

	var allowedOrigins []string
	if configs.Envs.FRONTEND_ORIGIN != "" {
		allowedOrigins = strings.Split(configs.Envs.FRONTEND_ORIGIN, ",")
	}

	tokenManager := crypto.NewJWTManager(string(configs.Envs.JWT_KEY), 24*time.Hour)
	svc := server.NewService(server.NewStore(), tokenManager, lgr)
	r := server.NewRouter(svc, allowedOrigins)

	port := configs.Envs.PORT
	if port == "" {
		port = "8080"
	}

	go func() {
		if err := r.Run(":" + port); err != nil {
			lgr.Fatal().Err(err).Msg("couldn't start server")
		}
	}()
	lgr.Info().Str("port", port).Msg("server started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, os.Interrupt)
	<-sigCh
	lgr.Info().Msg("shutting down")
}
