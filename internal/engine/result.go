package engine

// Code classifies the outcome of a snapshot operation. Precondition
// failures are ordinary results, never errors or panics; the caller maps
// them to user-visible messages.
type Code int

const (
	CodeOK Code = iota
	CodeChildNotFound
	CodeTaskNotFound
	CodeRewardNotFound
	CodeAlreadyCompleted
	CodeAlreadyPurchased
	CodeInsufficientPoints
)

func (c Code) String() string {
	switch c {
	case CodeOK:
		return "ok"
	case CodeChildNotFound:
		return "child_not_found"
	case CodeTaskNotFound:
		return "task_not_found"
	case CodeRewardNotFound:
		return "reward_not_found"
	case CodeAlreadyCompleted:
		return "already_completed"
	case CodeAlreadyPurchased:
		return "already_purchased"
	case CodeInsufficientPoints:
		return "insufficient_points"
	default:
		return "unknown"
	}
}

// Result reports the outcome of a mutating operation.
type Result struct {
	Code         Code
	Points       int  // child's balance after the operation (when the child exists)
	BonusAwarded bool // true when CompleteTask also awarded the streak bonus
	Shortfall    int  // cost minus balance on CodeInsufficientPoints
}

// OK reports whether the operation changed the snapshot.
func (r Result) OK() bool { return r.Code == CodeOK }
