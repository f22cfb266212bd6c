// Package app owns the single in-memory snapshot. Every mutation runs an
// engine function against the current snapshot, persists the result, and
// broadcasts a change notification; the engines themselves stay pure.
package app

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/haukeland/stjerne/internal/engine"
	"github.com/haukeland/stjerne/internal/migrate"
	"github.com/haukeland/stjerne/internal/model"
	"github.com/haukeland/stjerne/internal/store"
	"github.com/haukeland/stjerne/internal/websocket"
)

// State is the single-writer owner of the household snapshot. All access
// goes through its methods; callers never hold a reference they can
// mutate.
type State struct {
	mu        sync.Mutex
	data      *model.AppData
	snapshots *store.SnapshotStore
	hub       *websocket.Hub
	lang      model.Language
	logger    *slog.Logger
}

// Load reads the persisted snapshot (sanitizing whatever is found),
// applies one auto-reset pass, and persists the result.
func Load(snapshots *store.SnapshotStore, hub *websocket.Hub, lang model.Language, logger *slog.Logger) (*State, error) {
	raw, err := snapshots.Load(store.SnapshotKey)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	var data *model.AppData
	if raw == nil {
		data = model.DefaultData()
	} else {
		data = migrate.TranslateDefaults(migrate.Sanitize(raw, lang), lang)
	}
	data = engine.AutoReset(data, nowMillis())

	s := &State{
		data:      data,
		snapshots: snapshots,
		hub:       hub,
		lang:      lang,
		logger:    logger,
	}
	if err := s.persistLocked(); err != nil {
		return nil, err
	}
	return s, nil
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

// Language returns the configured household language.
func (s *State) Language() model.Language { return s.lang }

// Snapshot returns a deep copy of the current snapshot for read-only use.
func (s *State) Snapshot() *model.AppData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Clone()
}

// ExportSnapshot returns the current snapshot as JSON. Implements
// backup.SnapshotSource.
func (s *State) ExportSnapshot() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := json.Marshal(s.data)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return b, nil
}

// VerifyPin checks the submitted PIN against the stored parent PIN.
func (s *State) VerifyPin(pin string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pin != "" && pin == s.data.Settings.ParentPin
}

// RequirePinForPurchase reports the purchase-gate toggle.
func (s *State) RequirePinForPurchase() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Settings.RequirePinForPurchase
}

// persistLocked writes the current snapshot. Callers hold s.mu.
func (s *State) persistLocked() error {
	b, err := json.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := s.snapshots.Save(store.SnapshotKey, b); err != nil {
		return err
	}
	return nil
}

func (s *State) broadcast(entity, action, childID string, extra map[string]any) {
	if s.hub != nil {
		s.hub.Broadcast(websocket.NewMessage(entity, action, childID, extra))
	}
}

// apply swaps in next when it differs from the current snapshot, persists,
// and broadcasts. A pointer-identical next means nothing changed.
func (s *State) apply(next *model.AppData, entity, action, childID string, extra map[string]any) error {
	if next == s.data {
		return nil
	}
	s.data = next
	if err := s.persistLocked(); err != nil {
		return err
	}
	s.broadcast(entity, action, childID, extra)
	return nil
}

// Tick runs one auto-reset scan. Persistence and broadcast are skipped
// when the scan returns the identical snapshot.
func (s *State) Tick(now int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := engine.AutoReset(s.data, now)
	if err := s.apply(next, "snapshot", "auto_reset", "", nil); err != nil {
		s.logger.Error("persist after auto-reset", "error", err)
	}
}

// CompleteTask marks a task done for the child and records the activity
// and any bonus.
func (s *State) CompleteTask(childID, taskID string) (engine.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, res := engine.CompleteTask(s.data, childID, taskID, nowMillis())
	if !res.OK() {
		return res, nil
	}
	extra := map[string]any{"points": res.Points}
	if res.BonusAwarded {
		extra["bonus"] = engine.BonusPoints
	}
	return res, s.apply(next, "task", "completed", childID, extra)
}

// PurchaseReward spends the child's points on a reward.
func (s *State) PurchaseReward(childID, rewardID string) (engine.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, res := engine.PurchaseReward(s.data, childID, rewardID, nowMillis())
	if !res.OK() {
		return res, nil
	}
	return res, s.apply(next, "reward", "purchased", childID, map[string]any{"points": res.Points})
}

// AddChild creates a child with the default task and reward sets.
func (s *State) AddChild(name, avatar string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, id := engine.AddChild(s.data, name, avatar, s.lang)
	return id, s.apply(next, "child", "created", id, nil)
}

// DeleteChild removes a child.
func (s *State) DeleteChild(childID string) (engine.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, res := engine.DeleteChild(s.data, childID)
	if !res.OK() {
		return res, nil
	}
	return res, s.apply(next, "child", "deleted", childID, nil)
}

// AddTask adds a task to a child.
func (s *State) AddTask(childID, name, icon string, points int) (engine.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, res := engine.AddTask(s.data, childID, name, icon, points)
	if !res.OK() {
		return res, nil
	}
	return res, s.apply(next, "task", "created", childID, nil)
}

// DeleteTask removes a task from a child.
func (s *State) DeleteTask(childID, taskID string) (engine.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, res := engine.DeleteTask(s.data, childID, taskID)
	if !res.OK() {
		return res, nil
	}
	return res, s.apply(next, "task", "deleted", childID, nil)
}

// AddReward adds a reward to a child.
func (s *State) AddReward(childID, name, icon string, cost int) (engine.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, res := engine.AddReward(s.data, childID, name, icon, cost)
	if !res.OK() {
		return res, nil
	}
	return res, s.apply(next, "reward", "created", childID, nil)
}

// DeleteReward removes a reward from a child.
func (s *State) DeleteReward(childID, rewardID string) (engine.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, res := engine.DeleteReward(s.data, childID, rewardID)
	if !res.OK() {
		return res, nil
	}
	return res, s.apply(next, "reward", "deleted", childID, nil)
}

// ResetTask reverts one task to not-completed.
func (s *State) ResetTask(childID, taskID string) (engine.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, res := engine.ResetTask(s.data, childID, taskID)
	if !res.OK() {
		return res, nil
	}
	return res, s.apply(next, "task", "reset", childID, nil)
}

// ResetTasks reverts all of a child's tasks.
func (s *State) ResetTasks(childID string) (engine.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, res := engine.ResetTasks(s.data, childID)
	if !res.OK() {
		return res, nil
	}
	return res, s.apply(next, "task", "reset", childID, nil)
}

// ResetReward reverts one reward to not-purchased.
func (s *State) ResetReward(childID, rewardID string) (engine.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, res := engine.ResetReward(s.data, childID, rewardID)
	if !res.OK() {
		return res, nil
	}
	return res, s.apply(next, "reward", "reset", childID, nil)
}

// ResetRewards reverts all of a child's rewards.
func (s *State) ResetRewards(childID string) (engine.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, res := engine.ResetRewards(s.data, childID)
	if !res.OK() {
		return res, nil
	}
	return res, s.apply(next, "reward", "reset", childID, nil)
}

// AdjustPoints applies a signed parent adjustment.
func (s *State) AdjustPoints(childID string, delta int) (engine.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, res := engine.AdjustPoints(s.data, childID, delta)
	if !res.OK() {
		return res, nil
	}
	return res, s.apply(next, "child", "points_adjusted", childID, map[string]any{"points": res.Points})
}

// SetChildResetEnabled flips a child's 24-hour reset override.
func (s *State) SetChildResetEnabled(childID string, enabled bool) (engine.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, res := engine.SetChildResetEnabled(s.data, childID, enabled)
	if !res.OK() {
		return res, nil
	}
	return res, s.apply(next, "child", "updated", childID, nil)
}

// Import merges a snapshot received from another device into the local
// one. The payload has already been sanitized by the sync decoder. Default
// items carried in from a device running the other language are renamed to
// the local one.
func (s *State) Import(remote *model.AppData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := migrate.TranslateDefaults(engine.Merge(s.data, remote), s.lang)
	return s.apply(next, "snapshot", "merged", "", nil)
}

// UpdateSettings replaces the household settings. PIN format validation
// happens at the edge.
func (s *State) UpdateSettings(settings model.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.data.Clone()
	next.Settings = settings
	return s.apply(next, "settings", "updated", "", nil)
}

// ResetAll discards everything: the persisted snapshot is deleted and the
// in-memory one reverts to factory defaults. The next mutation persists a
// fresh snapshot, so a restart in between also comes up factory-fresh.
func (s *State) ResetAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.snapshots.Delete(store.SnapshotKey); err != nil {
		return err
	}
	s.data = model.DefaultData()
	s.broadcast("snapshot", "reset", "", nil)
	return nil
}
