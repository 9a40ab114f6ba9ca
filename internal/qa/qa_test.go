package qa

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"codeatlas/internal/aggregate"
	"codeatlas/internal/analyzer"
	atlaserr "codeatlas/internal/errors"
)

func sessionWithFiles(t *testing.T) *Session {
	t.Helper()

	set := analyzer.NewAnalysisSet()

	api := analyzer.NewFactRecord("./src/api.py")
	api.Classes = []string{"SemanticSearch"}
	api.FunctionNames = analyzer.NewStringSet("SemanticSearch.fit", "preprocess")
	api.Imports = []string{"os", "numpy"}
	set.Insert(api)

	app := analyzer.NewFactRecord("./src/app.py")
	app.FunctionNames = analyzer.NewStringSet("ask_api")
	set.Insert(app)

	return &Session{
		Set: set,
		Comparison: aggregate.Comparison{
			Sufficient: true,
			FileA:      "./src/api.py",
			FileB:      "./src/app.py",
			Common:     []string{},
		},
		OutputDir: t.TempDir(),
	}
}

func TestMatchFileBySubstring(t *testing.T) {
	s := sessionWithFiles(t)

	rec, err := s.MatchFile("What does app.py do?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Path != "./src/app.py" {
		t.Errorf("expected app.py matched, got %s", rec.Path)
	}
}

func TestMatchFileCaseInsensitive(t *testing.T) {
	s := sessionWithFiles(t)

	rec, err := s.MatchFile("Explain API.PY please")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Path != "./src/api.py" {
		t.Errorf("expected api.py matched, got %s", rec.Path)
	}
}

func TestMatchFileNoReference(t *testing.T) {
	s := sessionWithFiles(t)

	_, err := s.MatchFile("What is the meaning of life?")
	if !atlaserr.HasCode(err, atlaserr.KeyNotFound) {
		t.Errorf("expected KEY_NOT_FOUND, got %v", err)
	}
}

func TestBuildPromptContents(t *testing.T) {
	s := sessionWithFiles(t)
	rec, _ := s.Set.Get("./src/api.py")

	prompt := BuildPrompt(rec, s.Comparison, "What does api.py import?")

	for _, want := range []string{
		"'api.py'",
		"Classes: SemanticSearch",
		"SemanticSearch.fit, preprocess",
		"Imports: os, numpy",
		"Question: What does api.py import?",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
	if !strings.Contains(prompt, "no common functions") {
		t.Errorf("expected empty intersection wording, got:\n%s", prompt)
	}
}

func TestBuildPromptPlaceholders(t *testing.T) {
	rec := analyzer.NewFactRecord("empty.py")

	prompt := BuildPrompt(rec, aggregate.Comparison{}, "anything about empty.py")

	for _, want := range []string{"No classes", "No functions/methods", "No imports", "Not enough files"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing placeholder %q:\n%s", want, prompt)
		}
	}
}

func TestAskWithoutCompleterReturnsPrompt(t *testing.T) {
	s := sessionWithFiles(t)

	outcome, err := s.Ask(context.Background(), "Summarize api.py")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Answered {
		t.Error("expected no answer without a completer")
	}
	if outcome.Prompt == "" {
		t.Error("expected the built prompt to be returned")
	}
}

type fakeCompleter struct {
	answer string
}

func (f *fakeCompleter) Complete(_ context.Context, _ string) (string, error) {
	return f.answer, nil
}

func TestAskPersistsNumberedRecords(t *testing.T) {
	s := sessionWithFiles(t)
	s.Completer = &fakeCompleter{answer: "It searches."}

	first, err := s.Ask(context.Background(), "What does api.py do?")
	if err != nil {
		t.Fatalf("first ask failed: %v", err)
	}
	second, err := s.Ask(context.Background(), "And app.py?")
	if err != nil {
		t.Fatalf("second ask failed: %v", err)
	}

	if first.Record.Number != 1 || second.Record.Number != 2 {
		t.Errorf("expected sequential numbering, got %d then %d",
			first.Record.Number, second.Record.Number)
	}
	if filepath.Base(second.RecordPath) != "question_2.json" {
		t.Errorf("unexpected record path %s", second.RecordPath)
	}

	data, err := os.ReadFile(first.RecordPath)
	if err != nil {
		t.Fatalf("record not written: %v", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		t.Fatalf("record is not valid JSON: %v", err)
	}
	if rec.Answer != "It searches." {
		t.Errorf("expected persisted answer, got %q", rec.Answer)
	}
	if rec.ID == "" {
		t.Error("expected a record ID")
	}
}
