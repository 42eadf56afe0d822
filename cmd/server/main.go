package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"astrologer-service/internal/config"
	"astrologer-service/internal/db"
	"astrologer-service/internal/delivery/handler"
	"astrologer-service/internal/infrastructure"
	"astrologer-service/internal/messaging"
	"astrologer-service/internal/repository"
	"astrologer-service/internal/usecase"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	client, err := db.Connect(cfg.MongoURI)
	if err != nil {
		log.Fatal("❌ Failed to connect to MongoDB:", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
	}()
	log.Println("✅ Connected to MongoDB")

	database := client.Database(cfg.MongoDatabase)

	cache := infrastructure.NewRedisService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer cache.Close()

	events, err := messaging.Connect(cfg.NatsURL)
	if err != nil {
		log.Fatal("❌ Failed to connect to NATS:", err)
	}
	defer events.Close()

	jwtService := infrastructure.NewJWTService(cfg.JWTSecret)
	mailer := infrastructure.NewMailer(cfg.EmailAPIKey, cfg.EmailSender)

	users := usecase.NewUserUsecase(repository.NewUserRepo(database), cache, jwtService, events, cfg.CacheTTL)
	astros := usecase.NewAstrologerUsecase(repository.NewAstrologerRepo(database), cache, events, cfg.CacheTTL)
	appts := usecase.NewAppointmentUsecase(repository.NewAppointmentRepo(database), cache, events, mailer, cfg.CacheTTL)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	h := handler.New(users, astros, appts, jwtService)
	h.RegisterRoutes(e)

	go func() {
		log.Println("🚀 Server running on :" + cfg.Port)
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal("❌ Server stopped:", err)
		}
	}()

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	log.Println("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Println("shutdown:", err)
	}
}
