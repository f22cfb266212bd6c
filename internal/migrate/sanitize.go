// Package migrate normalizes arbitrary persisted or imported JSON into the
// current snapshot shape. Sanitization is total: any input, however
// malformed, degrades to safe defaults instead of failing, and sanitizing
// already-clean data changes nothing.
package migrate

import (
	"encoding/json"

	"github.com/haukeland/stjerne/internal/model"
)

// Sanitize parses raw JSON and normalizes it. Unparseable input yields the
// default snapshot.
func Sanitize(raw []byte, lang model.Language) *model.AppData {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return model.DefaultData()
	}
	return SanitizeValue(v, lang)
}

// SanitizeValue normalizes already-decoded JSON. The shape variant (legacy
// flat tasks/rewards at the root vs. per-child) is resolved once, up
// front, before any per-child rules run.
func SanitizeValue(v any, lang model.Language) *model.AppData {
	obj, ok := v.(map[string]any)
	if !ok {
		return model.DefaultData()
	}

	legacyTasks, legacyRewards, isLegacy := legacyShape(obj)

	settings := sanitizeSettings(obj["settings"])

	rawChildren, _ := obj["children"].([]any)
	children := make([]model.Child, 0, len(rawChildren))
	for _, rc := range rawChildren {
		co, ok := rc.(map[string]any)
		if !ok {
			continue
		}
		children = append(children, sanitizeChild(co, legacyTasks, legacyRewards, isLegacy, settings, lang))
	}

	return &model.AppData{Children: children, Settings: settings}
}

// legacyShape detects the pre-per-child snapshot variant: task and reward
// arrays at the root rather than on each child.
func legacyShape(obj map[string]any) (tasks, rewards []any, ok bool) {
	t, tok := obj["tasks"].([]any)
	r, rok := obj["rewards"].([]any)
	if !tok || !rok {
		return nil, nil, false
	}
	return t, r, true
}

func sanitizeSettings(v any) model.Settings {
	obj, ok := v.(map[string]any)
	if !ok {
		return model.Settings{
			ParentPin:      model.DefaultPin,
			Enable24hReset: model.BoolPtr(true),
		}
	}
	s := model.Settings{ParentPin: model.DefaultPin}
	if pin, ok := obj["parentPin"].(string); ok && pin != "" {
		s.ParentPin = pin
	}
	if req, ok := obj["requirePinForPurchase"].(bool); ok {
		s.RequirePinForPurchase = req
	}
	if en, ok := obj["enable24hReset"].(bool); ok {
		s.Enable24hReset = model.BoolPtr(en)
	} else {
		s.Enable24hReset = model.BoolPtr(true)
	}
	return s
}

func sanitizeChild(obj map[string]any, legacyTasks, legacyRewards []any, isLegacy bool, settings model.Settings, lang model.Language) model.Child {
	c := model.Child{
		ID:     asString(obj["id"]),
		Name:   asString(obj["name"]),
		Avatar: asString(obj["avatar"]),
		Points: asInt(obj["points"]),
	}
	if c.Points < 0 {
		c.Points = 0
	}

	if rawTasks, ok := obj["tasks"].([]any); ok {
		c.Tasks = sanitizeTasks(rawTasks)
	} else if isLegacy {
		c.Tasks = sanitizeTasks(legacyTasks)
	} else {
		c.Tasks = model.DefaultTasks(lang)
	}

	if rawRewards, ok := obj["rewards"].([]any); ok {
		c.Rewards = sanitizeRewards(rawRewards)
	} else if isLegacy {
		c.Rewards = sanitizeRewards(legacyRewards)
	} else {
		c.Rewards = model.DefaultRewards(lang)
	}

	if rawActs, ok := obj["activities"].([]any); ok {
		c.Activities = sanitizeActivities(rawActs)
	}

	if ts, ok := asMillis(obj["bonusLastAwardedAt"]); ok {
		c.BonusLastAwardedAt = model.Int64Ptr(ts)
	}

	if en, ok := obj["enable24hReset"].(bool); ok {
		c.Enable24hReset = model.BoolPtr(en)
	} else if settings.Enable24hReset != nil {
		c.Enable24hReset = model.BoolPtr(*settings.Enable24hReset)
	} else {
		c.Enable24hReset = model.BoolPtr(true)
	}

	return c
}

func sanitizeTasks(raw []any) []model.Task {
	out := make([]model.Task, 0, len(raw))
	for _, rv := range raw {
		obj, ok := rv.(map[string]any)
		if !ok {
			continue
		}
		t := model.Task{
			ID:        asString(obj["id"]),
			Name:      asString(obj["name"]),
			Icon:      asString(obj["icon"]),
			Points:    asInt(obj["points"]),
			Completed: obj["completed"] == true,
		}
		// A completed item without a usable timestamp stays timestamp-less:
		// it never auto-resets, so imported legacy data cannot lose points
		// unexpectedly.
		if t.Completed {
			if ts, ok := asMillis(obj["completedAt"]); ok {
				t.CompletedAt = model.Int64Ptr(ts)
			}
		}
		out = append(out, t)
	}
	return out
}

func sanitizeRewards(raw []any) []model.Reward {
	out := make([]model.Reward, 0, len(raw))
	for _, rv := range raw {
		obj, ok := rv.(map[string]any)
		if !ok {
			continue
		}
		r := model.Reward{
			ID:        asString(obj["id"]),
			Name:      asString(obj["name"]),
			Icon:      asString(obj["icon"]),
			Cost:      asInt(obj["cost"]),
			Purchased: obj["purchased"] == true,
		}
		if r.Purchased {
			if ts, ok := asMillis(obj["purchasedAt"]); ok {
				r.PurchasedAt = model.Int64Ptr(ts)
			}
		}
		out = append(out, r)
	}
	return out
}

// sanitizeActivities returns nil rather than an empty slice when nothing
// survives, so an empty log round-trips through the wire shape (which
// omits empty logs) to the same value.
func sanitizeActivities(raw []any) []model.Activity {
	var out []model.Activity
	for _, rv := range raw {
		obj, ok := rv.(map[string]any)
		if !ok {
			continue
		}
		a := model.Activity{
			ID:     asString(obj["id"]),
			Name:   asString(obj["name"]),
			Icon:   asString(obj["icon"]),
			Points: asInt(obj["points"]),
		}
		switch asString(obj["type"]) {
		case string(model.ActivityReward):
			a.Type = model.ActivityReward
		default:
			a.Type = model.ActivityTask
		}
		if ts, ok := asMillis(obj["timestamp"]); ok {
			a.Timestamp = ts
		}
		out = append(out, a)
	}
	return out
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt(v any) int {
	f, ok := v.(float64)
	if !ok {
		return 0
	}
	return int(f)
}

func asMillis(v any) (int64, bool) {
	f, ok := v.(float64)
	if !ok {
		return 0, false
	}
	return int64(f), true
}
