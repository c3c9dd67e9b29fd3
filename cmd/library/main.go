package main

import (
	stdLog "log"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"

	"github.com/chanotai/library-lending/app"
	"github.com/chanotai/library-lending/config"
	_ "github.com/chanotai/library-lending/docs"
)

// @title Library Lending API
// @version 1.0
// @description REST backend for a small library lending system: users, books, borrow/return transactions.

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	if err := godotenv.Load(); err != nil {
		stdLog.Print("no .env file, reading environment")
	}
	cfg := config.NewConfig(
		config.WithLogLevel(zapcore.DebugLevel),
		config.WithWriteTimeout(time.Minute),
	)

	app.Run(cfg)
}
