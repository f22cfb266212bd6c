package migrate

import (
	"testing"

	"github.com/haukeland/stjerne/internal/model"
)

func TestTranslateDefaults(t *testing.T) {
	data := &model.AppData{
		Children: []model.Child{{
			ID: "c1", Name: "Ola",
			Tasks:   model.DefaultTasks(model.LangEnglish),
			Rewards: model.DefaultRewards(model.LangEnglish),
		}},
	}

	got := TranslateDefaults(data, model.LangNorwegian)
	child := got.Children[0]
	if child.Tasks[0].Name != "Rydd rommet" {
		t.Errorf("task name = %q, want %q", child.Tasks[0].Name, "Rydd rommet")
	}
	if child.Rewards[0].Name != "Is på lørdag" {
		t.Errorf("reward name = %q, want %q", child.Rewards[0].Name, "Is på lørdag")
	}
	if data.Children[0].Tasks[0].Name != "Clean your room" {
		t.Error("input snapshot was mutated")
	}
}

func TestTranslateDefaultsKeepsCustomNames(t *testing.T) {
	data := &model.AppData{
		Children: []model.Child{{
			ID: "c1", Name: "Ola",
			Tasks: []model.Task{
				// Default icon but a parent-chosen name.
				{ID: "t1", Name: "Rydd kjellerstua", Icon: "🧹", Points: 5},
				// Custom item with no translation entry.
				{ID: "t2", Name: "Feed the cat", Icon: "🐱", Points: 3},
			},
			Rewards: []model.Reward{
				{ID: "r1", Name: "Kino med pappa", Icon: "🎠", Cost: 100},
			},
		}},
	}

	got := TranslateDefaults(data, model.LangEnglish)
	child := got.Children[0]
	if child.Tasks[0].Name != "Rydd kjellerstua" {
		t.Errorf("renamed default was translated: %q", child.Tasks[0].Name)
	}
	if child.Tasks[1].Name != "Feed the cat" {
		t.Errorf("custom item was translated: %q", child.Tasks[1].Name)
	}
	if child.Rewards[0].Name != "Kino med pappa" {
		t.Errorf("renamed reward was translated: %q", child.Rewards[0].Name)
	}
}

func TestTranslateDefaultsUnknownLanguage(t *testing.T) {
	data := &model.AppData{
		Children: []model.Child{{
			ID:    "c1",
			Tasks: model.DefaultTasks(model.LangEnglish),
		}},
	}

	got := TranslateDefaults(data, model.Language("sv"))
	if got.Children[0].Tasks[0].Name != "Clean your room" {
		t.Errorf("unknown language must leave names alone, got %q", got.Children[0].Tasks[0].Name)
	}
}
