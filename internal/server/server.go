package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/haukeland/stjerne/internal/app"
	"github.com/haukeland/stjerne/internal/backup"
	"github.com/haukeland/stjerne/internal/handler"
	"github.com/haukeland/stjerne/internal/middleware"
	"github.com/haukeland/stjerne/internal/store"
	ws "github.com/haukeland/stjerne/internal/websocket"
)

// pinAttemptLimit caps PIN-bearing requests per client IP per window.
const (
	pinAttemptLimit  = 5
	pinAttemptWindow = time.Minute
)

type Server struct {
	state       *app.State
	hub         *ws.Hub
	childH      *handler.ChildHandler
	taskH       *handler.TaskHandler
	rewardH     *handler.RewardHandler
	settingsH   *handler.SettingsHandler
	syncH       *handler.SyncHandler
	backupH     *handler.BackupHandler
	rateLimiter *middleware.RateLimiter
	backupMgr   *backup.Manager
	logger      *slog.Logger

	resetInterval time.Duration
}

// New wires the application state, handlers, websocket hub, and backup
// manager.
func New(state *app.State, hub *ws.Hub, backups *store.BackupStore, snapshots *store.SnapshotStore, backupCfg backup.Config, resetInterval time.Duration, logger *slog.Logger) *Server {
	backupMgr := backup.NewManager(backupCfg, state, backups, snapshots, func(st backup.Status) {
		hub.Broadcast(ws.Message{
			Type:   "backup_status",
			Entity: "backup",
			Action: string(st.State),
			Extra: map[string]any{
				"in_progress": st.InProgress,
				"error":       st.Error,
			},
		})
	}, logger.With("component", "backup"))

	return &Server{
		state:         state,
		hub:           hub,
		childH:        handler.NewChildHandler(state, logger.With("component", "child")),
		taskH:         handler.NewTaskHandler(state, logger.With("component", "task")),
		rewardH:       handler.NewRewardHandler(state, logger.With("component", "reward")),
		settingsH:     handler.NewSettingsHandler(state, logger.With("component", "settings")),
		syncH:         handler.NewSyncHandler(state, logger.With("component", "sync")),
		backupH:       handler.NewBackupHandler(state, backupMgr, backups, logger.With("component", "backup_handler")),
		rateLimiter:   middleware.NewRateLimiter(),
		backupMgr:     backupMgr,
		logger:        logger,
		resetInterval: resetInterval,
	}
}

// Start launches the auto-reset ticker and the backup scheduler. The
// ticker interval is short so that children with the 24-hour window
// disabled see their items reset promptly.
func (s *Server) Start(ctx context.Context) {
	s.backupMgr.Start(ctx)

	go func() {
		ticker := time.NewTicker(s.resetInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case t := <-ticker.C:
				s.state.Tick(t.UnixMilli())
			}
		}
	}()

	go func() {
		cleanup := time.NewTicker(5 * time.Minute)
		defer cleanup.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-cleanup.C:
				s.rateLimiter.Cleanup()
			}
		}
	}()
}

// Stop shuts down background work.
func (s *Server) Stop() {
	s.backupMgr.Stop()
}

// pinRateKey buckets PIN attempts per client IP.
func pinRateKey(r *http.Request) string {
	return "pin:" + middleware.RemoteIP(r)
}

// rateLimited guards a PIN-bearing route against brute forcing.
func (s *Server) rateLimited(next http.HandlerFunc) http.HandlerFunc {
	return middleware.RateLimit(s.rateLimiter, pinRateKey, pinAttemptLimit, pinAttemptWindow)(next).ServeHTTP
}

// parentOnly additionally requires a valid parent PIN in the request
// header.
func (s *Server) parentOnly(next http.HandlerFunc) http.HandlerFunc {
	return s.rateLimited(func(w http.ResponseWriter, r *http.Request) {
		if !s.state.VerifyPin(r.Header.Get("X-Parent-Pin")) {
			http.Error(w, `{"error":"incorrect PIN"}`, http.StatusForbidden)
			return
		}
		next(w, r)
	})
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status":"ok","clients":%d}`, s.hub.ClientCount())
}

// Router builds the full route table.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.logger.With("component", "websocket")))

	// Child-facing routes
	mux.HandleFunc("GET /api/children", s.childH.List)
	mux.HandleFunc("GET /api/children/{id}/activities", s.childH.Activities)
	mux.HandleFunc("POST /api/children/{child_id}/tasks/{id}/complete", s.taskH.Complete)
	mux.HandleFunc("POST /api/children/{child_id}/rewards/{id}/purchase", s.rewardH.Purchase)

	// Sync
	mux.HandleFunc("GET /api/sync/export", s.syncH.Export)
	mux.HandleFunc("POST /api/sync/import", s.syncH.Import)

	// Parent mode
	mux.HandleFunc("POST /api/pin/verify", s.rateLimited(s.settingsH.VerifyPin))
	mux.HandleFunc("GET /api/settings", s.settingsH.Get)
	mux.HandleFunc("PUT /api/settings", s.rateLimited(s.settingsH.Update))
	mux.HandleFunc("POST /api/reset-all", s.rateLimited(s.settingsH.ResetAll))

	mux.HandleFunc("POST /api/children", s.parentOnly(s.childH.Create))
	mux.HandleFunc("DELETE /api/children/{id}", s.parentOnly(s.childH.Delete))
	mux.HandleFunc("POST /api/children/{id}/points", s.parentOnly(s.childH.AdjustPoints))
	mux.HandleFunc("PUT /api/children/{id}/reset-toggle", s.parentOnly(s.childH.SetResetEnabled))

	mux.HandleFunc("POST /api/children/{child_id}/tasks", s.parentOnly(s.taskH.Create))
	mux.HandleFunc("DELETE /api/children/{child_id}/tasks/{id}", s.parentOnly(s.taskH.Delete))
	mux.HandleFunc("POST /api/children/{child_id}/tasks/{id}/reset", s.parentOnly(s.taskH.Reset))
	mux.HandleFunc("POST /api/children/{child_id}/tasks/reset", s.parentOnly(s.taskH.ResetAll))

	mux.HandleFunc("POST /api/children/{child_id}/rewards", s.parentOnly(s.rewardH.Create))
	mux.HandleFunc("DELETE /api/children/{child_id}/rewards/{id}", s.parentOnly(s.rewardH.Delete))
	mux.HandleFunc("POST /api/children/{child_id}/rewards/{id}/reset", s.parentOnly(s.rewardH.Reset))
	mux.HandleFunc("POST /api/children/{child_id}/rewards/reset", s.parentOnly(s.rewardH.ResetAll))

	// Backups
	mux.HandleFunc("GET /api/backups", s.parentOnly(s.backupH.List))
	mux.HandleFunc("GET /api/backups/status", s.parentOnly(s.backupH.Status))
	mux.HandleFunc("POST /api/backups/configure", s.parentOnly(s.backupH.Configure))
	mux.HandleFunc("POST /api/backups/run", s.parentOnly(s.backupH.Run))
	mux.HandleFunc("POST /api/backups/{id}/restore", s.parentOnly(s.backupH.Restore))

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}
