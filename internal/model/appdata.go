package model

// Settings holds household-wide configuration carried inside the snapshot.
// ParentPin is a 4-digit string; it gates the parent admin mode.
type Settings struct {
	ParentPin             string `json:"parentPin"`
	RequirePinForPurchase bool   `json:"requirePinForPurchase,omitempty"`
	Enable24hReset        *bool  `json:"enable24hReset,omitempty"`
}

// AppData is the root snapshot: the unit persisted to storage and
// exchanged between devices during sync.
type AppData struct {
	Children []Child  `json:"children"`
	Settings Settings `json:"settings"`
}

// Child returns the child with the given id, or nil.
func (d *AppData) Child(id string) *Child {
	for i := range d.Children {
		if d.Children[i].ID == id {
			return &d.Children[i]
		}
	}
	return nil
}

// ResetEnabled reports whether the 24-hour reset window applies to the
// child, falling back to the household setting. The default is on; only
// an explicit false disables it.
func (d *AppData) ResetEnabled(c *Child) bool {
	if c.Enable24hReset != nil {
		return *c.Enable24hReset
	}
	if d.Settings.Enable24hReset != nil {
		return *d.Settings.Enable24hReset
	}
	return true
}

// Clone returns a deep copy. Engine functions take snapshots by pointer
// but must never mutate their input; mutating operations clone first.
func (d *AppData) Clone() *AppData {
	out := &AppData{
		Children: make([]Child, len(d.Children)),
		Settings: d.Settings,
	}
	out.Settings.Enable24hReset = cloneBool(d.Settings.Enable24hReset)
	for i := range d.Children {
		out.Children[i] = d.Children[i].Clone()
	}
	return out
}

// Clone returns a deep copy of the child.
func (c Child) Clone() Child {
	out := c
	out.Tasks = make([]Task, len(c.Tasks))
	for i, t := range c.Tasks {
		t.CompletedAt = cloneInt64(t.CompletedAt)
		out.Tasks[i] = t
	}
	out.Rewards = make([]Reward, len(c.Rewards))
	for i, r := range c.Rewards {
		r.PurchasedAt = cloneInt64(r.PurchasedAt)
		out.Rewards[i] = r
	}
	if c.Activities != nil {
		out.Activities = make([]Activity, len(c.Activities))
		copy(out.Activities, c.Activities)
	}
	out.BonusLastAwardedAt = cloneInt64(c.BonusLastAwardedAt)
	out.Enable24hReset = cloneBool(c.Enable24hReset)
	return out
}

func cloneInt64(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneBool(p *bool) *bool {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Int64Ptr returns a pointer to v.
func Int64Ptr(v int64) *int64 { return &v }

// BoolPtr returns a pointer to v.
func BoolPtr(v bool) *bool { return &v }
