package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"codeatlas/internal/analyzer"
	"codeatlas/internal/config"
	"codeatlas/internal/logging"
	"codeatlas/internal/store"
)

func setRootFlag(t *testing.T, root string) {
	t.Helper()
	oldRoot := rootFlag
	rootFlag = root
	t.Cleanup(func() { rootFlag = oldRoot })
}

func TestResolveFactSetAnalyzesFreshWithoutStore(t *testing.T) {
	root := t.TempDir()
	source := []byte("def main():\n    pass\n")
	if err := os.WriteFile(filepath.Join(root, "app.py"), source, 0644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	setRootFlag(t, root)

	set, _, err := resolveFactSet(context.Background(), config.DefaultConfig(), logging.NewDiscardLogger())
	if err != nil {
		t.Fatalf("resolveFactSet: %v", err)
	}
	if set.Len() != 1 {
		t.Fatalf("expected 1 record from fresh analysis, got %d", set.Len())
	}
	rec, ok := set.Get(filepath.Join(root, "app.py"))
	if !ok || !rec.FunctionNames.Has("main") {
		t.Errorf("fresh analysis did not pick up app.py: %+v", rec)
	}
}

func TestResolveFactSetReusesSavedRun(t *testing.T) {
	root := t.TempDir()
	setRootFlag(t, root)

	// A saved run whose facts no longer match the (empty) tree on disk:
	// resolveFactSet must come back with the saved facts, not re-analyze.
	db, err := store.Open(root, nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	rec := analyzer.NewFactRecord("archived.py")
	rec.FunctionNames = analyzer.NewStringSet("legacy")
	saved := analyzer.NewAnalysisSet()
	saved.Insert(rec)
	if _, err := db.SaveRun(context.Background(), root, saved); err != nil {
		t.Fatalf("save run: %v", err)
	}
	db.Close()

	set, _, err := resolveFactSet(context.Background(), config.DefaultConfig(), logging.NewDiscardLogger())
	if err != nil {
		t.Fatalf("resolveFactSet: %v", err)
	}
	got, ok := set.Get("archived.py")
	if !ok || !got.FunctionNames.Has("legacy") {
		t.Errorf("expected the saved run's record, got %+v", got)
	}
}

func TestResolveFactSetFreshFlagSkipsStore(t *testing.T) {
	root := t.TempDir()
	setRootFlag(t, root)

	db, err := store.Open(root, nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	rec := analyzer.NewFactRecord("archived.py")
	saved := analyzer.NewAnalysisSet()
	saved.Insert(rec)
	if _, err := db.SaveRun(context.Background(), root, saved); err != nil {
		t.Fatalf("save run: %v", err)
	}
	db.Close()

	promptFresh = true
	defer func() { promptFresh = false }()

	set, _, err := resolveFactSet(context.Background(), config.DefaultConfig(), logging.NewDiscardLogger())
	if err != nil {
		t.Fatalf("resolveFactSet: %v", err)
	}
	if _, ok := set.Get("archived.py"); ok {
		t.Error("--fresh must ignore the saved run")
	}
}
