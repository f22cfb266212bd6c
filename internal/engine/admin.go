package engine

import "github.com/haukeland/stjerne/internal/model"

// Parent-mode operations. Like the rest of the engine these never mutate
// their input; not-found preconditions hand the input pointer back with a
// reason code.

// AddChild appends a new child with zero points and the language's default
// task and reward sets. The new child's id is returned alongside the
// snapshot.
func AddChild(data *model.AppData, name, avatar string, lang model.Language) (*model.AppData, string) {
	out := data.Clone()
	child := model.Child{
		ID:      model.NewID(),
		Name:    name,
		Avatar:  avatar,
		Tasks:   model.DefaultTasks(lang),
		Rewards: model.DefaultRewards(lang),
	}
	out.Children = append(out.Children, child)
	return out, child.ID
}

// DeleteChild removes the child and everything it owns. Keeping at least
// one child is the caller's policy, not enforced here.
func DeleteChild(data *model.AppData, childID string) (*model.AppData, Result) {
	if data.Child(childID) == nil {
		return data, Result{Code: CodeChildNotFound}
	}
	out := data.Clone()
	children := out.Children[:0]
	for _, c := range out.Children {
		if c.ID != childID {
			children = append(children, c)
		}
	}
	out.Children = children
	return out, Result{Code: CodeOK}
}

// AddTask appends a task to the child. Points must be validated by the
// caller (field-level validation lives at the edge).
func AddTask(data *model.AppData, childID, name, icon string, points int) (*model.AppData, Result) {
	child := data.Child(childID)
	if child == nil {
		return data, Result{Code: CodeChildNotFound}
	}
	out := data.Clone()
	child = out.Child(childID)
	child.Tasks = append(child.Tasks, model.Task{
		ID:     model.NewID(),
		Name:   name,
		Icon:   icon,
		Points: points,
	})
	return out, Result{Code: CodeOK, Points: child.Points}
}

// DeleteTask removes a task from the child.
func DeleteTask(data *model.AppData, childID, taskID string) (*model.AppData, Result) {
	child := data.Child(childID)
	if child == nil {
		return data, Result{Code: CodeChildNotFound}
	}
	if child.Task(taskID) == nil {
		return data, Result{Code: CodeTaskNotFound, Points: child.Points}
	}
	out := data.Clone()
	child = out.Child(childID)
	tasks := child.Tasks[:0]
	for _, t := range child.Tasks {
		if t.ID != taskID {
			tasks = append(tasks, t)
		}
	}
	child.Tasks = tasks
	return out, Result{Code: CodeOK, Points: child.Points}
}

// AddReward appends a reward to the child.
func AddReward(data *model.AppData, childID, name, icon string, cost int) (*model.AppData, Result) {
	child := data.Child(childID)
	if child == nil {
		return data, Result{Code: CodeChildNotFound}
	}
	out := data.Clone()
	child = out.Child(childID)
	child.Rewards = append(child.Rewards, model.Reward{
		ID:   model.NewID(),
		Name: name,
		Icon: icon,
		Cost: cost,
	})
	return out, Result{Code: CodeOK, Points: child.Points}
}

// DeleteReward removes a reward from the child.
func DeleteReward(data *model.AppData, childID, rewardID string) (*model.AppData, Result) {
	child := data.Child(childID)
	if child == nil {
		return data, Result{Code: CodeChildNotFound}
	}
	if child.Reward(rewardID) == nil {
		return data, Result{Code: CodeRewardNotFound, Points: child.Points}
	}
	out := data.Clone()
	child = out.Child(childID)
	rewards := child.Rewards[:0]
	for _, r := range child.Rewards {
		if r.ID != rewardID {
			rewards = append(rewards, r)
		}
	}
	child.Rewards = rewards
	return out, Result{Code: CodeOK, Points: child.Points}
}

// ResetTask reverts one task to not-completed regardless of its age.
func ResetTask(data *model.AppData, childID, taskID string) (*model.AppData, Result) {
	child := data.Child(childID)
	if child == nil {
		return data, Result{Code: CodeChildNotFound}
	}
	if child.Task(taskID) == nil {
		return data, Result{Code: CodeTaskNotFound, Points: child.Points}
	}
	out := data.Clone()
	child = out.Child(childID)
	task := child.Task(taskID)
	task.Completed = false
	task.CompletedAt = nil
	return out, Result{Code: CodeOK, Points: child.Points}
}

// ResetTasks reverts all of the child's tasks to not-completed.
func ResetTasks(data *model.AppData, childID string) (*model.AppData, Result) {
	child := data.Child(childID)
	if child == nil {
		return data, Result{Code: CodeChildNotFound}
	}
	out := data.Clone()
	child = out.Child(childID)
	for i := range child.Tasks {
		child.Tasks[i].Completed = false
		child.Tasks[i].CompletedAt = nil
	}
	return out, Result{Code: CodeOK, Points: child.Points}
}

// ResetReward reverts one reward to not-purchased regardless of its age.
// Spent points are not refunded, matching the parent-mode contract.
func ResetReward(data *model.AppData, childID, rewardID string) (*model.AppData, Result) {
	child := data.Child(childID)
	if child == nil {
		return data, Result{Code: CodeChildNotFound}
	}
	if child.Reward(rewardID) == nil {
		return data, Result{Code: CodeRewardNotFound, Points: child.Points}
	}
	out := data.Clone()
	child = out.Child(childID)
	reward := child.Reward(rewardID)
	reward.Purchased = false
	reward.PurchasedAt = nil
	return out, Result{Code: CodeOK, Points: child.Points}
}

// ResetRewards reverts all of the child's rewards to not-purchased.
func ResetRewards(data *model.AppData, childID string) (*model.AppData, Result) {
	child := data.Child(childID)
	if child == nil {
		return data, Result{Code: CodeChildNotFound}
	}
	out := data.Clone()
	child = out.Child(childID)
	for i := range child.Rewards {
		child.Rewards[i].Purchased = false
		child.Rewards[i].PurchasedAt = nil
	}
	return out, Result{Code: CodeOK, Points: child.Points}
}

// AdjustPoints applies a signed parent adjustment, clamped so the balance
// never drops below zero. No activity is logged for adjustments.
func AdjustPoints(data *model.AppData, childID string, delta int) (*model.AppData, Result) {
	child := data.Child(childID)
	if child == nil {
		return data, Result{Code: CodeChildNotFound}
	}
	out := data.Clone()
	child = out.Child(childID)
	child.Points += delta
	if child.Points < 0 {
		child.Points = 0
	}
	return out, Result{Code: CodeOK, Points: child.Points}
}

// SetChildResetEnabled flips the child's 24-hour reset override.
func SetChildResetEnabled(data *model.AppData, childID string, enabled bool) (*model.AppData, Result) {
	child := data.Child(childID)
	if child == nil {
		return data, Result{Code: CodeChildNotFound}
	}
	out := data.Clone()
	child = out.Child(childID)
	child.Enable24hReset = model.BoolPtr(enabled)
	return out, Result{Code: CodeOK, Points: child.Points}
}
