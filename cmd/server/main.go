package main

import (
	"log"

	"github.com/edushare/backend/internal/config"
	"github.com/edushare/backend/internal/model"
	"github.com/edushare/backend/internal/server"
	"github.com/edushare/backend/pkg/database"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	db := database.Connect()
	if err := migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Printf("invalid REDIS_URL, running without cache: %v", err)
		} else {
			redisClient = redis.NewClient(opts)
		}
	}

	srv := server.NewServer(cfg, db, redisClient)
	defer srv.Stop()

	log.Printf("starting server on port %s", cfg.Port)
	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Follow{},
		&model.Post{},
		&model.PostLike{},
		&model.Comment{},
		&model.CommentLike{},
		&model.Resource{},
		&model.SystemState{},
	)
}
