package main

import (
	"context"
	stdLog "log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/chanotai/library-lending/config"
	"github.com/chanotai/library-lending/internal/model"
	"github.com/chanotai/library-lending/internal/repository"
	"github.com/chanotai/library-lending/migrations"
	"github.com/chanotai/library-lending/pkg/logger"
	"github.com/chanotai/library-lending/pkg/postgres"
)

var users = []model.RegisterRequest{
	{Username: "admin", Password: "admin123", Role: model.RoleAdmin},
	{Username: "member", Password: "member123", Role: model.RoleMember},
}

var books = []model.Book{
	{
		Title:       "The Great Gatsby",
		Author:      "F. Scott Fitzgerald",
		Quantity:    5,
		Category:    "Fiction",
		Description: "The story of the mysteriously wealthy Jay Gatsby and his love for the beautiful Daisy Buchanan.",
	},
	{
		Title:       "To Kill a Mockingbird",
		Author:      "Harper Lee",
		Quantity:    3,
		Category:    "Fiction",
		Description: "The story of a young girl growing up in the 1930s in the deep South.",
	},
	{
		Title:       "1984",
		Author:      "George Orwell",
		Quantity:    10,
		Category:    "Science Fiction",
		Description: "A dystopian social science fiction novel and cautionary tale.",
	},
}

func main() {
	if err := godotenv.Load(); err != nil {
		stdLog.Print("no .env file, reading environment")
	}
	cfg := config.NewConfig()
	log := logger.NewLogger(cfg.Log, "seed")

	ctx := context.Background()
	db, err := postgres.NewPostgresDB(ctx, &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		log.Fatal("db init", zap.Error(err))
	}
	defer db.Close()

	repo, err := repository.NewRepository(db, log)
	if err != nil {
		log.Fatal("repo", zap.Error(err))
	}

	if _, err := db.ExecContext(ctx, `truncate transactions, books, users`); err != nil {
		log.Fatal("truncate", zap.Error(err))
	}
	log.Info("cleared existing data")

	for _, u := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal("hash password", zap.Error(err))
		}
		if _, err := repo.CreateUser(ctx, u.Username, string(hash), u.Role); err != nil {
			log.Fatal("create user", zap.String("username", u.Username), zap.Error(err))
		}
	}
	log.Info("created users (admin/admin123, member/member123)")

	for _, b := range books {
		if _, err := repo.CreateBook(ctx, b); err != nil {
			log.Fatal("create book", zap.String("title", b.Title), zap.Error(err))
		}
	}
	log.Info("created initial books")

	log.Info("database seeded")
}
