package store

import (
	"testing"

	"github.com/haukeland/stjerne/internal/database"
)

func setupSnapshotTestDB(t *testing.T) *SnapshotStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSnapshotStore(db)
}

func TestSnapshotLoadEmpty(t *testing.T) {
	ss := setupSnapshotTestDB(t)

	data, err := ss.Load(SnapshotKey)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if data != nil {
		t.Errorf("expected nil for an unwritten key, got %q", data)
	}
}

func TestSnapshotSaveAndLoad(t *testing.T) {
	ss := setupSnapshotTestDB(t)

	want := `{"children":[],"settings":{"parentPin":"1234"}}`
	if err := ss.Save(SnapshotKey, []byte(want)); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := ss.Load(SnapshotKey)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(got) != want {
		t.Errorf("data = %q, want %q", got, want)
	}
}

func TestSnapshotSaveOverwrites(t *testing.T) {
	ss := setupSnapshotTestDB(t)

	if err := ss.Save(SnapshotKey, []byte(`{"v":1}`)); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := ss.Save(SnapshotKey, []byte(`{"v":2}`)); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := ss.Load(SnapshotKey)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(got) != `{"v":2}` {
		t.Errorf("data = %q, want %q", got, `{"v":2}`)
	}
}

func TestSnapshotKeysIndependent(t *testing.T) {
	ss := setupSnapshotTestDB(t)

	if err := ss.Save(SnapshotKey, []byte(`{"v":1}`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := ss.Save("other_key", []byte("abc")); err != nil {
		t.Fatalf("save other: %v", err)
	}

	got, err := ss.Load("other_key")
	if err != nil {
		t.Fatalf("load other: %v", err)
	}
	if string(got) != "abc" {
		t.Errorf("data = %q, want %q", got, "abc")
	}
}

func TestSnapshotDelete(t *testing.T) {
	ss := setupSnapshotTestDB(t)

	if err := ss.Save(SnapshotKey, []byte(`{}`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := ss.Delete(SnapshotKey); err != nil {
		t.Fatalf("delete: %v", err)
	}

	got, err := ss.Load(SnapshotKey)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil after delete, got %q", got)
	}

	// Deleting a missing key is not an error.
	if err := ss.Delete(SnapshotKey); err != nil {
		t.Errorf("delete missing key: %v", err)
	}
}
