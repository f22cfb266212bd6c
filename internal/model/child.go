package model

// ActivityType discriminates log entries.
type ActivityType string

const (
	ActivityTask   ActivityType = "task"
	ActivityReward ActivityType = "reward"
)

// Activity is an append-only log entry recording a point-affecting event.
// Points is positive for task completions and negative for reward purchases.
// Timestamp is Unix milliseconds, matching the wire format of existing
// snapshots.
type Activity struct {
	ID        string       `json:"id"`
	Type      ActivityType `json:"type"`
	Name      string       `json:"name"`
	Icon      string       `json:"icon"`
	Points    int          `json:"points"`
	Timestamp int64        `json:"timestamp"`
}

// Task belongs to exactly one child. CompletedAt is set when Completed
// transitions false to true and cleared on the reverse transition; a nil
// CompletedAt on a completed task means the completion time is unknown
// (legacy data) and the task never auto-resets.
type Task struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Points      int    `json:"points"`
	Completed   bool   `json:"completed"`
	CompletedAt *int64 `json:"completedAt,omitempty"`
}

// Reward belongs to exactly one child, with the same timestamp lifecycle
// as Task (Purchased/PurchasedAt).
type Reward struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Cost        int    `json:"cost"`
	Purchased   bool   `json:"purchased"`
	PurchasedAt *int64 `json:"purchasedAt,omitempty"`
}

// Child holds one child's tasks, rewards, and activity log. Points never
// goes negative. Enable24hReset overrides the household-wide setting when
// non-nil.
type Child struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Avatar             string     `json:"avatar"`
	Points             int        `json:"points"`
	Tasks              []Task     `json:"tasks"`
	Rewards            []Reward   `json:"rewards"`
	Activities         []Activity `json:"activities,omitempty"`
	BonusLastAwardedAt *int64     `json:"bonusLastAwardedAt,omitempty"`
	Enable24hReset     *bool      `json:"enable24hReset,omitempty"`
}

// Task returns the task with the given id, or nil.
func (c *Child) Task(id string) *Task {
	for i := range c.Tasks {
		if c.Tasks[i].ID == id {
			return &c.Tasks[i]
		}
	}
	return nil
}

// Reward returns the reward with the given id, or nil.
func (c *Child) Reward(id string) *Reward {
	for i := range c.Rewards {
		if c.Rewards[i].ID == id {
			return &c.Rewards[i]
		}
	}
	return nil
}
