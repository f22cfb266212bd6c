package model

import "github.com/google/uuid"

// Language selects the default task/reward set for new children and for
// snapshots missing their own items.
type Language string

const (
	LangEnglish   Language = "en"
	LangNorwegian Language = "no"
)

// DefaultPin is the factory parent PIN.
const DefaultPin = "1234"

// NewID returns a fresh entity id.
func NewID() string {
	return uuid.NewString()
}

// DefaultTasks returns the starter task set for the language.
func DefaultTasks(lang Language) []Task {
	if lang == LangNorwegian {
		return []Task{
			{ID: "1", Name: "Rydd rommet", Icon: "🧹", Points: 5},
			{ID: "2", Name: "Puss tennene", Icon: "🪥", Points: 2},
			{ID: "3", Name: "Lek ute", Icon: "⚽", Points: 3},
		}
	}
	return []Task{
		{ID: "1", Name: "Clean your room", Icon: "🧹", Points: 5},
		{ID: "2", Name: "Brush your teeth", Icon: "🪥", Points: 2},
		{ID: "3", Name: "Play outside", Icon: "⚽", Points: 3},
	}
}

// DefaultRewards returns the starter reward set for the language.
func DefaultRewards(lang Language) []Reward {
	if lang == LangNorwegian {
		return []Reward{
			{ID: "1", Name: "Is på lørdag", Icon: "🍦", Cost: 30},
			{ID: "2", Name: "10 min ekstra skjermtid", Icon: "📱", Cost: 10},
			{ID: "3", Name: "Familieutflukt", Icon: "🎠", Cost: 100},
		}
	}
	return []Reward{
		{ID: "1", Name: "Ice cream on Saturday", Icon: "🍦", Cost: 30},
		{ID: "2", Name: "10 extra minutes screen time", Icon: "📱", Cost: 10},
		{ID: "3", Name: "Family outing", Icon: "🎠", Cost: 100},
	}
}

// DefaultData returns a fresh snapshot: no children, factory settings.
func DefaultData() *AppData {
	return &AppData{
		Children: []Child{},
		Settings: Settings{
			ParentPin:      DefaultPin,
			Enable24hReset: BoolPtr(true),
		},
	}
}
