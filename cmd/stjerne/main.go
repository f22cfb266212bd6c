package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/haukeland/stjerne/internal/app"
	"github.com/haukeland/stjerne/internal/backup"
	"github.com/haukeland/stjerne/internal/database"
	"github.com/haukeland/stjerne/internal/logging"
	"github.com/haukeland/stjerne/internal/model"
	"github.com/haukeland/stjerne/internal/server"
	"github.com/haukeland/stjerne/internal/store"
	ws "github.com/haukeland/stjerne/internal/websocket"
)

func main() {
	port := envOr("STJERNE_PORT", "8080")
	dbPath := envOr("STJERNE_DB_PATH", "stjerne.db")

	logger := logging.Setup(os.Getenv("STJERNE_LOG_LEVEL"))

	lang := model.LangNorwegian
	if os.Getenv("STJERNE_LANG") == "en" {
		lang = model.LangEnglish
	}

	resetInterval := 100 * time.Millisecond
	if raw := os.Getenv("STJERNE_RESET_INTERVAL_MS"); raw != "" {
		if ms, err := strconv.Atoi(raw); err == nil && ms > 0 {
			resetInterval = time.Duration(ms) * time.Millisecond
		}
	}

	db, err := database.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	snapshots := store.NewSnapshotStore(db)
	backups := store.NewBackupStore(db)
	hub := ws.NewHub(logger.With("component", "websocket"))

	state, err := app.Load(snapshots, hub, lang, logger.With("component", "state"))
	if err != nil {
		log.Fatalf("failed to load snapshot: %v", err)
	}

	backupCfg := backup.Config{
		S3: backup.S3Config{
			Endpoint:  os.Getenv("STJERNE_S3_ENDPOINT"),
			Bucket:    os.Getenv("STJERNE_S3_BUCKET"),
			Region:    envOr("STJERNE_S3_REGION", "auto"),
			AccessKey: os.Getenv("STJERNE_S3_ACCESS_KEY"),
			SecretKey: os.Getenv("STJERNE_S3_SECRET_KEY"),
		},
		ScheduleHour:  envInt("STJERNE_BACKUP_HOUR", 3),
		RetentionDays: envInt("STJERNE_BACKUP_RETENTION_DAYS", 30),
	}

	srv := server.New(state, hub, backups, snapshots, backupCfg, resetInterval, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	srv.Start(ctx)

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		fmt.Printf("Stjerne running at http://localhost:%s\n", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down...")
	cancel()
	srv.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
