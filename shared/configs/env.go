package configs

import "os"

var Envs = struct {
	FRONTEND_ORIGIN string
	JWT_KEY         []byte
	PORT            string
	LOG_LEVEL       string
	GIN_MODE        string
}{
	FRONTEND_ORIGIN: os.Getenv("FRONTEND_ORIGIN"),
	JWT_KEY:         []byte(os.Getenv("JWT_KEY")),
	PORT:            os.Getenv("PORT"),
	LOG_LEVEL:       os.Getenv("LOG_LEVEL"),
	GIN_MODE:        os.Getenv("GIN_MODE"),
}
