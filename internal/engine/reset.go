package engine

import "github.com/haukeland/stjerne/internal/model"

// ResetWindowMillis is the 24-hour auto-reset threshold.
const ResetWindowMillis int64 = 24 * 60 * 60 * 1000

// AutoReset reverts completed tasks and purchased rewards whose timestamps
// have aged past the child's effective threshold. The threshold is the
// 24-hour window when the child's reset toggle (or the household setting
// it falls back to) is on, and zero otherwise, meaning the item reverts on
// the very next scan.
//
// Items flagged completed/purchased with no timestamp are left alone; they
// come from legacy snapshots and must not silently reset.
//
// AutoReset never mutates its input. It returns the identical pointer when
// nothing expired, so callers can skip persistence and broadcast by
// comparing pointers. Calling on a short interval approximates real-time
// reset for zero-threshold children.
func AutoReset(data *model.AppData, now int64) *model.AppData {
	if !anyExpired(data, now) {
		return data
	}

	out := data.Clone()
	for ci := range out.Children {
		child := &out.Children[ci]
		threshold := thresholdFor(out, child)
		for ti := range child.Tasks {
			t := &child.Tasks[ti]
			if t.Completed && t.CompletedAt != nil && now-*t.CompletedAt >= threshold {
				t.Completed = false
				t.CompletedAt = nil
			}
		}
		for ri := range child.Rewards {
			r := &child.Rewards[ri]
			if r.Purchased && r.PurchasedAt != nil && now-*r.PurchasedAt >= threshold {
				r.Purchased = false
				r.PurchasedAt = nil
			}
		}
	}
	return out
}

func anyExpired(data *model.AppData, now int64) bool {
	for ci := range data.Children {
		child := &data.Children[ci]
		threshold := thresholdFor(data, child)
		for ti := range child.Tasks {
			t := &child.Tasks[ti]
			if t.Completed && t.CompletedAt != nil && now-*t.CompletedAt >= threshold {
				return true
			}
		}
		for ri := range child.Rewards {
			r := &child.Rewards[ri]
			if r.Purchased && r.PurchasedAt != nil && now-*r.PurchasedAt >= threshold {
				return true
			}
		}
	}
	return false
}

func thresholdFor(data *model.AppData, child *model.Child) int64 {
	if data.ResetEnabled(child) {
		return ResetWindowMillis
	}
	return 0
}
