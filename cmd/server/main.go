package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/Thanhbi2612/Dreamlens/internal/config"
	"github.com/Thanhbi2612/Dreamlens/internal/models"
	"github.com/Thanhbi2612/Dreamlens/internal/router"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

func main() {
	configFile := flag.String("config", os.Getenv("DREAMLENS_CONFIG"), "path to config.yaml (default: search . and ./config)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.Warnf("unknown log level %q, using info", cfg.Log.Level)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	db, err := models.OpenDB(&cfg.Database)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}

	// without Redis, generation slots are counted in process
	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.GetAddress(),
			DB:       cfg.Redis.DB,
			Password: cfg.Redis.Password,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.WithError(err).Warn("redis is unreachable, generation requests will fail until it recovers")
		}
		cancel()
	}

	up := router.NewUpstreams(cfg)
	if up.Analyzer == nil {
		logger.Warn("analysis.api_key is not set, dream analysis is disabled")
	}
	if cfg.Image.Token == "" {
		logger.Warn("image.token is not set, image generation will be rejected upstream")
	}

	r := router.SetupRouter(cfg, logger, db, redisClient, up)

	addr := cfg.Server.GetAddress()
	logger.WithFields(logrus.Fields{
		"addr":        addr,
		"db_driver":   cfg.Database.Driver,
		"image_model": cfg.Image.Model,
		"redis":       cfg.Redis.Enabled(),
		"google":      cfg.Google.Enabled(),
	}).Info("dreamlens backend starting")

	if err := r.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
