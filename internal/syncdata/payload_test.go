package syncdata

import (
	"reflect"
	"strings"
	"testing"

	"github.com/haukeland/stjerne/internal/model"
)

func sampleData() *model.AppData {
	return &model.AppData{
		Children: []model.Child{{
			ID: "c1", Name: "Ola", Avatar: "🦊", Points: 25,
			Tasks: []model.Task{{
				ID: "t1", Name: "Clean your room", Icon: "🧹", Points: 5,
				Completed: true, CompletedAt: model.Int64Ptr(1_000),
			}},
			Rewards: []model.Reward{{
				ID: "r1", Name: "Ice cream on Saturday", Icon: "🍦", Cost: 30,
			}},
			Activities:     []model.Activity{},
			Enable24hReset: model.BoolPtr(true),
		}},
		Settings: model.Settings{
			ParentPin:      "4321",
			Enable24hReset: model.BoolPtr(true),
		},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	data := sampleData()

	payload, err := Encode(data)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(payload, model.LangEnglish)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Settings.ParentPin != "4321" {
		t.Errorf("parentPin = %q, want %q", got.Settings.ParentPin, "4321")
	}
	if len(got.Children) != 1 || got.Children[0].Points != 25 {
		t.Errorf("unexpected children %+v", got.Children)
	}
	task := got.Children[0].Tasks[0]
	if !task.Completed || task.CompletedAt == nil || *task.CompletedAt != 1_000 {
		t.Errorf("task completion lost in transit: %+v", task)
	}
}

func TestURLParamRoundTrip(t *testing.T) {
	data := sampleData()

	param, err := EncodeURLParam(data)
	if err != nil {
		t.Fatalf("EncodeURLParam: %v", err)
	}
	if strings.ContainsAny(param, "{}\" ") {
		t.Errorf("param not percent-encoded: %q", param)
	}

	got, err := DecodeURLParam(param, model.LangEnglish)
	if err != nil {
		t.Fatalf("DecodeURLParam: %v", err)
	}
	want, _ := Decode(mustEncode(t, data), model.LangEnglish)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("URL round trip diverged:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestDecodeInvalidPayload(t *testing.T) {
	got, err := Decode([]byte("corrupted{{{"), model.LangEnglish)
	if err == nil {
		t.Error("expected a decode error for invalid JSON")
	}
	if got == nil {
		t.Fatal("invalid payload must still yield a usable snapshot")
	}
	if got.Settings.ParentPin != model.DefaultPin {
		t.Errorf("parentPin = %q, want factory default", got.Settings.ParentPin)
	}
}

func TestDecodeURLParamBadEscape(t *testing.T) {
	got, err := DecodeURLParam("%zz", model.LangEnglish)
	if err == nil {
		t.Error("expected an unescape error")
	}
	if got == nil || len(got.Children) != 0 {
		t.Errorf("bad escape must yield the default snapshot, got %+v", got)
	}
}

func TestSize(t *testing.T) {
	data := sampleData()
	payload := mustEncode(t, data)

	report, err := Size(data)
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if report.Bytes != len(payload) {
		t.Errorf("bytes = %d, want %d", report.Bytes, len(payload))
	}
	if !report.FitsQR || !report.FitsSMS || !report.FitsEmail {
		t.Errorf("small snapshot should fit every channel: %+v", report)
	}
}

func TestSizeLargeSnapshot(t *testing.T) {
	data := sampleData()
	child := &data.Children[0]
	for i := 0; i < 200; i++ {
		child.Activities = append(child.Activities, model.Activity{
			ID: model.NewID(), Type: model.ActivityTask,
			Name: "Clean your room", Icon: "🧹", Points: 5,
			Timestamp: int64(i),
		})
	}

	report, err := Size(data)
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if report.FitsSMS {
		t.Error("a long activity log should not fit an SMS")
	}
	if !report.FitsEmail {
		t.Error("payload should still fit an email body")
	}
}

func mustEncode(t *testing.T, data *model.AppData) []byte {
	t.Helper()
	b, err := Encode(data)
	if err != nil {
		t.Fatal(err)
	}
	return b
}
