package engine

import (
	"sort"

	"github.com/haukeland/stjerne/internal/model"
)

const (
	// BonusWindowMillis is the rolling window for both bonus counting and
	// bonus cooldown.
	BonusWindowMillis int64 = 24 * 60 * 60 * 1000
	// BonusTaskTarget is the number of task completions inside the window
	// that triggers the bonus.
	BonusTaskTarget = 3
	// BonusPoints is the fixed bonus award.
	BonusPoints = 5
)

// RecentActivityLimit is the display default for activity feeds. Storage
// keeps the full log.
const RecentActivityLimit = 10

// CompleteTask marks the task completed at now, credits its points, and
// appends a task activity. If the completion is the child's
// BonusTaskTarget-th task inside the rolling window and the bonus cooldown
// has elapsed, a fixed bonus is credited as well and logged as its own
// activity.
//
// Completing an already-completed task is a no-op, not an error: the input
// pointer comes back with CodeAlreadyCompleted. The input is never mutated.
func CompleteTask(data *model.AppData, childID, taskID string, now int64) (*model.AppData, Result) {
	child := data.Child(childID)
	if child == nil {
		return data, Result{Code: CodeChildNotFound}
	}
	task := child.Task(taskID)
	if task == nil {
		return data, Result{Code: CodeTaskNotFound, Points: child.Points}
	}
	if task.Completed {
		return data, Result{Code: CodeAlreadyCompleted, Points: child.Points}
	}

	out := data.Clone()
	child = out.Child(childID)
	task = child.Task(taskID)

	task.Completed = true
	task.CompletedAt = model.Int64Ptr(now)
	child.Points += task.Points
	child.Activities = append(child.Activities, model.Activity{
		ID:        model.NewID(),
		Type:      model.ActivityTask,
		Name:      task.Name,
		Icon:      task.Icon,
		Points:    task.Points,
		Timestamp: now,
	})

	res := Result{Code: CodeOK}
	if bonusEligible(child, now) {
		child.Points += BonusPoints
		child.BonusLastAwardedAt = model.Int64Ptr(now)
		child.Activities = append(child.Activities, model.Activity{
			ID:        model.NewID(),
			Type:      model.ActivityTask,
			Name:      "Bonus",
			Icon:      "🌟",
			Points:    BonusPoints,
			Timestamp: now,
		})
		res.BonusAwarded = true
	}
	res.Points = child.Points
	return out, res
}

// bonusEligible counts task activities in [now-window, now], including the
// one appended just before the call. The bonus fires once per window: a
// fresh award needs the full window to have elapsed since the previous
// award, not since the window start.
func bonusEligible(child *model.Child, now int64) bool {
	if child.BonusLastAwardedAt != nil && now-*child.BonusLastAwardedAt <= BonusWindowMillis {
		return false
	}
	count := 0
	for _, a := range child.Activities {
		if a.Type == model.ActivityTask && a.Timestamp >= now-BonusWindowMillis && a.Timestamp <= now {
			count++
		}
	}
	return count >= BonusTaskTarget
}

// PurchaseReward marks the reward purchased at now, deducts its cost, and
// appends a reward activity with negative points. Rejected purchases
// (already purchased, balance short) return the input pointer untouched;
// CodeInsufficientPoints carries the exact shortfall for the caller's
// message. Points never go negative.
func PurchaseReward(data *model.AppData, childID, rewardID string, now int64) (*model.AppData, Result) {
	child := data.Child(childID)
	if child == nil {
		return data, Result{Code: CodeChildNotFound}
	}
	reward := child.Reward(rewardID)
	if reward == nil {
		return data, Result{Code: CodeRewardNotFound, Points: child.Points}
	}
	if reward.Purchased {
		return data, Result{Code: CodeAlreadyPurchased, Points: child.Points}
	}
	if child.Points < reward.Cost {
		return data, Result{
			Code:      CodeInsufficientPoints,
			Points:    child.Points,
			Shortfall: reward.Cost - child.Points,
		}
	}

	out := data.Clone()
	child = out.Child(childID)
	reward = child.Reward(rewardID)

	reward.Purchased = true
	reward.PurchasedAt = model.Int64Ptr(now)
	child.Points -= reward.Cost
	child.Activities = append(child.Activities, model.Activity{
		ID:        model.NewID(),
		Type:      model.ActivityReward,
		Name:      reward.Name,
		Icon:      reward.Icon,
		Points:    -reward.Cost,
		Timestamp: now,
	})
	return out, Result{Code: CodeOK, Points: child.Points}
}

// RecentActivities returns the newest n activities sorted by timestamp
// descending. This is the display policy; the stored log is unbounded.
func RecentActivities(child *model.Child, n int) []model.Activity {
	out := make([]model.Activity, len(child.Activities))
	copy(out, child.Activities)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp > out[j].Timestamp
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
