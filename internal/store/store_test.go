package store

import (
	"context"
	"reflect"
	"testing"

	"codeatlas/internal/analyzer"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func sampleSet() *analyzer.AnalysisSet {
	set := analyzer.NewAnalysisSet()

	api := analyzer.NewFactRecord("src/api.py")
	api.Classes = []string{"Search"}
	api.FunctionNames = analyzer.NewStringSet("Search.fit", "preprocess")
	api.Imports = []string{"os", "sklearn.neighbors.NearestNeighbors"}
	api.CallCounts = map[string]int{"fit": 2}
	api.NodeKindCounts = map[string]int{"module": 1, "call": 2}
	set.Insert(api)

	app := analyzer.NewFactRecord("src/app.py")
	app.FunctionNames = analyzer.NewStringSet("ask")
	app.Imports = []string{"json"}
	set.Insert(app)

	return set
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	runID, err := db.SaveRun(ctx, "./src", sampleSet())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Fatal("expected a run ID")
	}

	loaded, err := db.LoadRun(ctx, runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if !reflect.DeepEqual(loaded.Paths(), []string{"src/api.py", "src/app.py"}) {
		t.Errorf("expected insertion order preserved, got %v", loaded.Paths())
	}

	rec, ok := loaded.Get("src/api.py")
	if !ok {
		t.Fatal("api.py missing after load")
	}
	if !reflect.DeepEqual(rec.Classes, []string{"Search"}) {
		t.Errorf("classes lost: %v", rec.Classes)
	}
	if !rec.FunctionNames.Has("Search.fit") || !rec.FunctionNames.Has("preprocess") {
		t.Errorf("function names lost: %v", rec.FunctionNames.Sorted())
	}
	if rec.CallCounts["fit"] != 2 {
		t.Errorf("call counts lost: %v", rec.CallCounts)
	}
	if rec.NodeKindCounts["call"] != 2 {
		t.Errorf("node kind counts lost: %v", rec.NodeKindCounts)
	}
}

func TestLatestRun(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	_, found, err := db.LatestRun(ctx, "./src")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if found {
		t.Fatal("expected no run before saving")
	}

	runID, err := db.SaveRun(ctx, "./src", sampleSet())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	run, found, err := db.LatestRun(ctx, "./src")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if !found {
		t.Fatal("expected the saved run to be found")
	}
	if run.ID != runID {
		t.Errorf("expected run %s, got %s", runID, run.ID)
	}
	if run.FileCount != 2 {
		t.Errorf("expected file count 2, got %d", run.FileCount)
	}
}

func TestLoadUnknownRunYieldsEmptySet(t *testing.T) {
	db := openTestDB(t)

	set, err := db.LoadRun(context.Background(), "no-such-run")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.Len() != 0 {
		t.Errorf("expected empty set, got %d records", set.Len())
	}
}

func TestReopenExistingStore(t *testing.T) {
	dir := t.TempDir()

	db, err := Open(dir, nil)
	if err != nil {
		t.Fatalf("first open failed: %v", err)
	}
	runID, err := db.SaveRun(context.Background(), ".", sampleSet())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	_ = db.Close()

	db2, err := Open(dir, nil)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer db2.Close()

	set, err := db2.LoadRun(context.Background(), runID)
	if err != nil {
		t.Fatalf("load after reopen failed: %v", err)
	}
	if set.Len() != 2 {
		t.Errorf("expected 2 records after reopen, got %d", set.Len())
	}
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	if Exists(dir) {
		t.Error("Exists should be false before any store is created")
	}

	db, err := Open(dir, nil)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	_ = db.Close()

	if !Exists(dir) {
		t.Error("Exists should be true after Open created the store")
	}
}
