package store

import (
	"errors"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveLoad(t *testing.T) {
	s := openTestStore(t)

	doc := []byte(`{"places": [], "transitions": [], "arcs": []}`)
	id, err := s.SaveNet("vending", doc)
	if err != nil {
		t.Fatalf("SaveNet failed: %v", err)
	}
	if id == "" {
		t.Fatal("SaveNet should return an id")
	}

	got, err := s.LoadNet("vending")
	if err != nil {
		t.Fatalf("LoadNet failed: %v", err)
	}
	if string(got) != string(doc) {
		t.Errorf("loaded data differs: %s", got)
	}

	byID, err := s.LoadByID(id)
	if err != nil {
		t.Fatalf("LoadByID failed: %v", err)
	}
	if string(byID) != string(doc) {
		t.Errorf("LoadByID data differs: %s", byID)
	}
}

func TestSaveOverwriteKeepsID(t *testing.T) {
	s := openTestStore(t)

	id1, err := s.SaveNet("net", []byte(`{"v": 1}`))
	if err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	id2, err := s.SaveNet("net", []byte(`{"v": 2}`))
	if err != nil {
		t.Fatalf("second save failed: %v", err)
	}
	if id1 != id2 {
		t.Errorf("overwriting should keep the id: %s vs %s", id1, id2)
	}

	got, err := s.LoadNet("net")
	if err != nil {
		t.Fatalf("LoadNet failed: %v", err)
	}
	if string(got) != `{"v": 2}` {
		t.Errorf("expected the newer version, got %s", got)
	}

	infos, err := s.ListNets()
	if err != nil {
		t.Fatalf("ListNets failed: %v", err)
	}
	if len(infos) != 1 {
		t.Errorf("overwriting should not add a row, got %d", len(infos))
	}
}

func TestLoadMissing(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.LoadNet("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.LoadByID("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListNets(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.SaveNet("alpha", []byte(`{}`)); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SaveNet("beta", []byte(`{"bigger": true}`)); err != nil {
		t.Fatal(err)
	}

	infos, err := s.ListNets()
	if err != nil {
		t.Fatalf("ListNets failed: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("expected 2 nets, got %d", len(infos))
	}
	names := map[string]bool{}
	for _, info := range infos {
		names[info.Name] = true
		if info.ID == "" || info.Size == 0 || info.UpdatedAt.IsZero() {
			t.Errorf("incomplete listing entry: %+v", info)
		}
	}
	if !names["alpha"] || !names["beta"] {
		t.Errorf("missing nets in listing: %v", infos)
	}
}

func TestDeleteNet(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.SaveNet("doomed", []byte(`{}`)); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteNet("doomed"); err != nil {
		t.Fatalf("DeleteNet failed: %v", err)
	}
	if _, err := s.LoadNet("doomed"); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted net should be gone, got %v", err)
	}
	if err := s.DeleteNet("doomed"); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleting twice should report ErrNotFound, got %v", err)
	}
}

func TestLastNet(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.LastNet(); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound before any saves, got %v", err)
	}

	if _, err := s.SaveNet("first", []byte(`{}`)); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SaveNet("second", []byte(`{}`)); err != nil {
		t.Fatal(err)
	}
	if last, _ := s.LastNet(); last != "second" {
		t.Errorf("expected second, got %q", last)
	}

	// Loading touches the marker too.
	if _, err := s.LoadNet("first"); err != nil {
		t.Fatal(err)
	}
	if last, _ := s.LastNet(); last != "first" {
		t.Errorf("expected first after loading it, got %q", last)
	}

	// Deleting the last-used net clears the marker.
	if err := s.DeleteNet("first"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.LastNet(); !errors.Is(err, ErrNotFound) {
		t.Errorf("marker should clear with the net, got %v", err)
	}
}

func TestConfig(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.GetConfig("theme"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := s.SetConfig("theme", "dark"); err != nil {
		t.Fatalf("SetConfig failed: %v", err)
	}
	if got, err := s.GetConfig("theme"); err != nil || got != "dark" {
		t.Errorf("expected dark, got %q (%v)", got, err)
	}
	if err := s.SetConfig("theme", "light"); err != nil {
		t.Fatalf("SetConfig overwrite failed: %v", err)
	}
	if got, _ := s.GetConfig("theme"); got != "light" {
		t.Errorf("expected light, got %q", got)
	}
}
