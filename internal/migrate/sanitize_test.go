package migrate

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/haukeland/stjerne/internal/model"
)

func TestSanitizeGarbageYieldsDefaults(t *testing.T) {
	inputs := [][]byte{
		[]byte("not json"),
		[]byte("null"),
		[]byte("42"),
		[]byte(`"hello"`),
		[]byte("[1,2,3]"),
		[]byte("{}"),
	}
	for _, raw := range inputs {
		got := Sanitize(raw, model.LangEnglish)
		if got == nil {
			t.Fatalf("Sanitize(%q) returned nil", raw)
		}
		if len(got.Children) != 0 {
			t.Errorf("Sanitize(%q): children = %d, want 0", raw, len(got.Children))
		}
		if got.Settings.ParentPin != model.DefaultPin {
			t.Errorf("Sanitize(%q): parentPin = %q, want %q", raw, got.Settings.ParentPin, model.DefaultPin)
		}
	}
}

func TestSanitizeCleanSnapshotUnchanged(t *testing.T) {
	data := &model.AppData{
		Children: []model.Child{{
			ID: "c1", Name: "Ola", Avatar: "🦊", Points: 12,
			Tasks: []model.Task{{
				ID: "t1", Name: "Clean your room", Icon: "🧹", Points: 5,
				Completed: true, CompletedAt: model.Int64Ptr(1_000),
			}},
			Rewards: []model.Reward{{
				ID: "r1", Name: "Ice cream on Saturday", Icon: "🍦", Cost: 30,
			}},
			Activities: []model.Activity{{
				ID: "a1", Type: model.ActivityTask, Name: "Clean your room",
				Icon: "🧹", Points: 5, Timestamp: 1_000,
			}},
			Enable24hReset: model.BoolPtr(true),
		}},
		Settings: model.Settings{
			ParentPin:      "4321",
			Enable24hReset: model.BoolPtr(true),
		},
	}
	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatal(err)
	}

	got := Sanitize(raw, model.LangEnglish)
	if !reflect.DeepEqual(got, data) {
		t.Errorf("clean snapshot changed:\ngot  %+v\nwant %+v", got, data)
	}
}

func TestSanitizeLegacyFlatShape(t *testing.T) {
	raw := []byte(`{
		"children": [
			{"id": "c1", "name": "Ola", "points": 10},
			{"id": "c2", "name": "Kari", "points": 3}
		],
		"tasks": [
			{"id": "t1", "name": "Clean your room", "icon": "🧹", "points": 5, "completed": true}
		],
		"rewards": [
			{"id": "r1", "name": "Ice cream on Saturday", "icon": "🍦", "cost": 30}
		],
		"settings": {"parentPin": "1234"}
	}`)

	got := Sanitize(raw, model.LangEnglish)
	if len(got.Children) != 2 {
		t.Fatalf("children = %d, want 2", len(got.Children))
	}
	for _, child := range got.Children {
		if len(child.Tasks) != 1 || child.Tasks[0].ID != "t1" {
			t.Errorf("child %s did not inherit the root task list: %+v", child.ID, child.Tasks)
		}
		if len(child.Rewards) != 1 || child.Rewards[0].ID != "r1" {
			t.Errorf("child %s did not inherit the root reward list: %+v", child.ID, child.Rewards)
		}
	}
	// Completed with no timestamp survives as never-expiring.
	task := got.Children[0].Tasks[0]
	if !task.Completed || task.CompletedAt != nil {
		t.Errorf("legacy completion mishandled: %+v", task)
	}
}

func TestSanitizeChildWithoutItemsGetsDefaults(t *testing.T) {
	raw := []byte(`{"children": [{"id": "c1", "name": "Kari"}]}`)

	got := Sanitize(raw, model.LangNorwegian)
	child := got.Children[0]
	if len(child.Tasks) != 3 || child.Tasks[0].Name != "Rydd rommet" {
		t.Errorf("expected Norwegian default tasks, got %+v", child.Tasks)
	}
	if len(child.Rewards) != 3 || child.Rewards[0].Name != "Is på lørdag" {
		t.Errorf("expected Norwegian default rewards, got %+v", child.Rewards)
	}
}

func TestSanitizeClampsNegativePoints(t *testing.T) {
	raw := []byte(`{"children": [{"id": "c1", "name": "Ola", "points": -7, "tasks": [], "rewards": []}]}`)

	got := Sanitize(raw, model.LangEnglish)
	if got.Children[0].Points != 0 {
		t.Errorf("points = %d, want 0", got.Children[0].Points)
	}
}

func TestSanitizeDropsMalformedEntries(t *testing.T) {
	raw := []byte(`{
		"children": [
			"not an object",
			{"id": "c1", "name": "Ola",
				"tasks": [42, {"id": "t1", "name": "Do homework", "icon": "📚", "points": 10}],
				"rewards": [null],
				"activities": [{"id": "a1", "type": "banana", "name": "x", "points": 1, "timestamp": 5}]
			}
		]
	}`)

	got := Sanitize(raw, model.LangEnglish)
	if len(got.Children) != 1 {
		t.Fatalf("children = %d, want 1", len(got.Children))
	}
	child := got.Children[0]
	if len(child.Tasks) != 1 || child.Tasks[0].ID != "t1" {
		t.Errorf("unexpected tasks %+v", child.Tasks)
	}
	if len(child.Rewards) != 0 {
		t.Errorf("unexpected rewards %+v", child.Rewards)
	}
	if len(child.Activities) != 1 || child.Activities[0].Type != model.ActivityTask {
		t.Errorf("unknown activity type should fall back to task: %+v", child.Activities)
	}
}

func TestSanitizeResetInheritance(t *testing.T) {
	raw := []byte(`{
		"children": [
			{"id": "c1", "name": "Ola", "tasks": [], "rewards": [], "enable24hReset": false},
			{"id": "c2", "name": "Kari", "tasks": [], "rewards": []}
		],
		"settings": {"parentPin": "1234", "enable24hReset": true}
	}`)

	got := Sanitize(raw, model.LangEnglish)
	if en := got.Children[0].Enable24hReset; en == nil || *en {
		t.Errorf("c1 enable24hReset = %v, want false", en)
	}
	if en := got.Children[1].Enable24hReset; en == nil || !*en {
		t.Errorf("c2 enable24hReset = %v, want inherited true", en)
	}
}

func TestSanitizeEmptyActivityLog(t *testing.T) {
	raw := []byte(`{"children": [{"id": "c1", "name": "Ola", "tasks": [], "rewards": [], "activities": []}]}`)

	got := Sanitize(raw, model.LangEnglish)
	if got.Children[0].Activities != nil {
		t.Errorf("activities = %#v, want nil", got.Children[0].Activities)
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	raw := []byte(`{
		"children": [
			{"id": "c1", "name": "Ola", "points": -2, "activities": [],
				"tasks": [{"id": "t1", "name": "x", "icon": "⭐", "points": 1, "completed": true}]}
		],
		"tasks": [], "rewards": []
	}`)

	once := Sanitize(raw, model.LangEnglish)
	reencoded, err := json.Marshal(once)
	if err != nil {
		t.Fatal(err)
	}
	twice := Sanitize(reencoded, model.LangEnglish)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("sanitize is not idempotent:\nonce  %+v\ntwice %+v", once, twice)
	}
}
