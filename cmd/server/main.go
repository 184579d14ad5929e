package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/adityarawat/newsroom/internal/config"
	"github.com/adityarawat/newsroom/internal/database"
	"github.com/adityarawat/newsroom/internal/handler"
	"github.com/adityarawat/newsroom/internal/mailer"
	"github.com/adityarawat/newsroom/internal/push"
	"github.com/adityarawat/newsroom/internal/queue"
	"github.com/adityarawat/newsroom/internal/repository"
	"github.com/adityarawat/newsroom/internal/router"
	"github.com/adityarawat/newsroom/internal/storage"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs the token revocation set and reset tickets; when it is
	// unreachable both stores degrade to process-local memory.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, using in-memory revocation and ticket stores")
	}

	uploads, err := storage.New(cfg.UploadDir, cfg.MaxUploadBytes)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}

	users := repository.NewUserRepo(db)
	news := repository.NewNewsRepo(db)
	revoked := repository.NewRevocationStore(rdb)
	tickets := repository.NewResetTicketStore(rdb)
	mail := mailer.New(cfg.MailAPIURL, cfg.MailAPIKey, cfg.MailFrom)

	authHandler := handler.NewAuthHandler(cfg, users, revoked, tickets, mail, uploads)
	newsHandler := handler.NewNewsHandler(news, uploads)

	// Background relay: broadcasts queued by /send-notification are
	// delivered to the push provider.
	go queue.StartPushConsumer(push.New(cfg.PushAPIURL, cfg.PushAppID, cfg.PushAPIKey))

	e := echo.New()
	router.Register(e, cfg, authHandler, newsHandler, users, revoked)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
