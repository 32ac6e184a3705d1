package main

import (
	"errors"
	stdLog "log"
	"os"
	"time"

	"github.com/Astemirdum/library-issue-service/library/app"
	"github.com/Astemirdum/library-issue-service/library/config"
	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

// @title        Library issue service API
// @version      1.0
// @BasePath     /api/v1
// @securityDefinitions.apikey Bearer
// @in           header
// @name         Authorization
func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		stdLog.Fatal("load envs from .env ", err)
	}
	cfg := config.NewConfig(
		config.WithLogLevel(zapcore.DebugLevel),
		config.WithWriteTimeout(time.Minute),
	)

	app.Run(cfg)
}
