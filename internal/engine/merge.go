package engine

import "github.com/haukeland/stjerne/internal/model"

// Merge combines two independently evolved snapshots: the device's own
// data and one imported from another device. For children present on both
// sides (matched by id) points are summed, tasks and rewards are unioned
// by id with completed/purchased OR-ed across sides, and local values win
// for everything else. Children known to only one side are carried over
// whole. Settings are always local: an import never changes the parent
// PIN or toggles.
//
// Summing points assumes the two snapshots diverged from a common baseline
// and are merged once; merging the same remote again double-counts. That
// is the documented contract, the caller merges each remote at most once.
func Merge(local, remote *model.AppData) *model.AppData {
	out := local.Clone()

	for ci := range out.Children {
		child := &out.Children[ci]
		remoteChild := remote.Child(child.ID)
		if remoteChild == nil {
			continue
		}

		child.Points += remoteChild.Points
		child.Tasks = mergeTasks(child.Tasks, remoteChild.Tasks)
		child.Rewards = mergeRewards(child.Rewards, remoteChild.Rewards)
	}

	for _, remoteChild := range remote.Children {
		if out.Child(remoteChild.ID) == nil {
			out.Children = append(out.Children, remoteChild.Clone())
		}
	}

	return out
}

func mergeTasks(local, remote []model.Task) []model.Task {
	seen := make(map[string]int, len(local))
	for i, t := range local {
		seen[t.ID] = i
	}
	for _, rt := range remote {
		i, ok := seen[rt.ID]
		if !ok {
			rt.CompletedAt = copyTimestamp(rt.CompletedAt)
			local = append(local, rt)
			seen[rt.ID] = len(local) - 1
			continue
		}
		lt := &local[i]
		if rt.Completed && !lt.Completed {
			lt.Completed = true
			lt.CompletedAt = copyTimestamp(rt.CompletedAt)
		}
	}
	return local
}

func mergeRewards(local, remote []model.Reward) []model.Reward {
	seen := make(map[string]int, len(local))
	for i, r := range local {
		seen[r.ID] = i
	}
	for _, rr := range remote {
		i, ok := seen[rr.ID]
		if !ok {
			rr.PurchasedAt = copyTimestamp(rr.PurchasedAt)
			local = append(local, rr)
			seen[rr.ID] = len(local) - 1
			continue
		}
		lr := &local[i]
		if rr.Purchased && !lr.Purchased {
			lr.Purchased = true
			lr.PurchasedAt = copyTimestamp(rr.PurchasedAt)
		}
	}
	return local
}

func copyTimestamp(p *int64) *int64 {
	if p == nil {
		return nil
	}
	return model.Int64Ptr(*p)
}
