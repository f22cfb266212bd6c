package engine

import (
	"testing"

	"github.com/haukeland/stjerne/internal/model"
)

func TestAddChild(t *testing.T) {
	data := testData()

	got, id := AddChild(data, "Kari", "🦊", model.LangNorwegian)
	if id == "" {
		t.Fatal("expected a generated child id")
	}
	if len(got.Children) != 1 {
		t.Fatalf("children = %d, want 1", len(got.Children))
	}
	child := got.Children[0]
	if child.Name != "Kari" || child.Avatar != "🦊" || child.Points != 0 {
		t.Errorf("unexpected child %+v", child)
	}
	if len(child.Tasks) == 0 || len(child.Rewards) == 0 {
		t.Error("new child should start with the default task and reward sets")
	}
	if child.Tasks[0].Name != "Rydd rommet" {
		t.Errorf("task name = %q, want Norwegian default", child.Tasks[0].Name)
	}
	if len(data.Children) != 0 {
		t.Error("input snapshot was mutated")
	}
}

func TestDeleteChild(t *testing.T) {
	data := testData(
		model.Child{ID: "c1", Name: "Ola"},
		model.Child{ID: "c2", Name: "Kari"},
	)

	got, res := DeleteChild(data, "c1")
	if !res.OK() {
		t.Fatalf("code = %q, want %q", res.Code, CodeOK)
	}
	if len(got.Children) != 1 || got.Children[0].ID != "c2" {
		t.Errorf("unexpected children after delete: %+v", got.Children)
	}

	if _, res := DeleteChild(data, "nope"); res.Code != CodeChildNotFound {
		t.Errorf("code = %q, want %q", res.Code, CodeChildNotFound)
	}
}

func TestAddDeleteTask(t *testing.T) {
	data := testData(model.Child{ID: "c1", Name: "Ola"})

	got, res := AddTask(data, "c1", "Water the plants", "🪴", 5)
	if !res.OK() {
		t.Fatalf("code = %q, want %q", res.Code, CodeOK)
	}
	tasks := got.Children[0].Tasks
	if len(tasks) != 1 || tasks[0].Name != "Water the plants" || tasks[0].Points != 5 {
		t.Fatalf("unexpected tasks %+v", tasks)
	}

	got, res = DeleteTask(got, "c1", tasks[0].ID)
	if !res.OK() || len(got.Children[0].Tasks) != 0 {
		t.Errorf("task not deleted, code = %q", res.Code)
	}

	if _, res := DeleteTask(got, "c1", "nope"); res.Code != CodeTaskNotFound {
		t.Errorf("code = %q, want %q", res.Code, CodeTaskNotFound)
	}
}

func TestAddDeleteReward(t *testing.T) {
	data := testData(model.Child{ID: "c1", Name: "Ola"})

	got, res := AddReward(data, "c1", "Movie night", "🎬", 40)
	if !res.OK() {
		t.Fatalf("code = %q, want %q", res.Code, CodeOK)
	}
	rewards := got.Children[0].Rewards
	if len(rewards) != 1 || rewards[0].Cost != 40 {
		t.Fatalf("unexpected rewards %+v", rewards)
	}

	got, res = DeleteReward(got, "c1", rewards[0].ID)
	if !res.OK() || len(got.Children[0].Rewards) != 0 {
		t.Errorf("reward not deleted, code = %q", res.Code)
	}

	if _, res := DeleteReward(got, "c1", "nope"); res.Code != CodeRewardNotFound {
		t.Errorf("code = %q, want %q", res.Code, CodeRewardNotFound)
	}
}

func TestResetTaskAndTasks(t *testing.T) {
	now := int64(1_000_000)
	data := testData(model.Child{
		ID: "c1", Name: "Ola",
		Tasks: []model.Task{
			completedTask("t1", now),
			completedTask("t2", now),
		},
	})

	got, res := ResetTask(data, "c1", "t1")
	if !res.OK() {
		t.Fatalf("code = %q, want %q", res.Code, CodeOK)
	}
	if got.Children[0].Tasks[0].Completed {
		t.Error("t1 should have reset")
	}
	if !got.Children[0].Tasks[1].Completed {
		t.Error("t2 should be untouched")
	}

	got, res = ResetTasks(data, "c1")
	if !res.OK() {
		t.Fatalf("code = %q, want %q", res.Code, CodeOK)
	}
	for _, task := range got.Children[0].Tasks {
		if task.Completed || task.CompletedAt != nil {
			t.Errorf("task %s not reset", task.ID)
		}
	}
}

func TestResetRewardKeepsSpentPoints(t *testing.T) {
	data := testData(model.Child{
		ID: "c1", Name: "Ola", Points: 10,
		Rewards: []model.Reward{{
			ID: "r1", Name: "Extra screen time", Icon: "📱", Cost: 30,
			Purchased: true, PurchasedAt: model.Int64Ptr(500),
		}},
	})

	got, res := ResetReward(data, "c1", "r1")
	if !res.OK() {
		t.Fatalf("code = %q, want %q", res.Code, CodeOK)
	}
	reward := got.Children[0].Rewards[0]
	if reward.Purchased || reward.PurchasedAt != nil {
		t.Error("reward should have reset")
	}
	if got.Children[0].Points != 10 {
		t.Errorf("points = %d, want 10 (no refund)", got.Children[0].Points)
	}
}

func TestAdjustPoints(t *testing.T) {
	data := testData(model.Child{ID: "c1", Name: "Ola", Points: 10})

	got, res := AdjustPoints(data, "c1", 5)
	if res.Points != 15 || got.Children[0].Points != 15 {
		t.Errorf("points = %d, want 15", res.Points)
	}

	got, res = AdjustPoints(got, "c1", -100)
	if res.Points != 0 || got.Children[0].Points != 0 {
		t.Errorf("points = %d, want 0 (clamped)", res.Points)
	}
	if len(got.Children[0].Activities) != 0 {
		t.Error("adjustments must not log activities")
	}
}

func TestSetChildResetEnabled(t *testing.T) {
	data := testData(model.Child{ID: "c1", Name: "Ola"})

	got, res := SetChildResetEnabled(data, "c1", false)
	if !res.OK() {
		t.Fatalf("code = %q, want %q", res.Code, CodeOK)
	}
	child := &got.Children[0]
	if child.Enable24hReset == nil || *child.Enable24hReset {
		t.Errorf("enable24hReset = %v, want false", child.Enable24hReset)
	}
	if got.ResetEnabled(child) {
		t.Error("resolved reset flag should be false")
	}
}
