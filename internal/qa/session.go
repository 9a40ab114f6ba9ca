package qa

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"codeatlas/internal/aggregate"
	"codeatlas/internal/analyzer"
	atlaserr "codeatlas/internal/errors"
	"codeatlas/internal/paths"
)

// Completer is the external completion service. Implementations live
// outside this module; a Session works without one, returning the built
// prompt unanswered.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Record is one persisted question/answer pair
type Record struct {
	ID        string `json:"id"`
	Number    int    `json:"number"`
	File      string `json:"file"`
	Question  string `json:"question"`
	Answer    string `json:"answer,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// Session answers questions about an analyzed tree
type Session struct {
	Set        *analyzer.AnalysisSet
	Comparison aggregate.Comparison
	Completer  Completer
	OutputDir  string
}

// Outcome is the result of asking one question
type Outcome struct {
	// Prompt is the assembled prompt sent to (or intended for) the
	// completion service
	Prompt string

	// Answered is true when a completer produced an answer
	Answered bool

	// Record is set when the answer was persisted
	Record *Record

	// RecordPath is the persisted record's file path
	RecordPath string
}

// MatchFile finds the analyzed file whose base name appears in the
// question, in set order. Questions must refer to a file by name.
func (s *Session) MatchFile(question string) (*analyzer.FactRecord, error) {
	lowered := strings.ToLower(question)
	for _, path := range s.Set.Paths() {
		if strings.Contains(lowered, strings.ToLower(paths.BaseName(path))) {
			rec, _ := s.Set.Get(path)
			return rec, nil
		}
	}
	return nil, atlaserr.New(atlaserr.KeyNotFound,
		"the question does not refer to any analyzed file by name", nil)
}

// Ask matches the question to a file, builds the prompt, and, when a
// completer is configured, obtains and persists the answer.
func (s *Session) Ask(ctx context.Context, question string) (*Outcome, error) {
	rec, err := s.MatchFile(question)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{
		Prompt: BuildPrompt(rec, s.Comparison, question),
	}

	if s.Completer == nil {
		return outcome, nil
	}

	answer, err := s.Completer.Complete(ctx, outcome.Prompt)
	if err != nil {
		return nil, fmt.Errorf("completion failed: %w", err)
	}
	outcome.Answered = true

	record := &Record{
		ID:        uuid.New().String(),
		File:      rec.Path,
		Question:  question,
		Answer:    answer,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	path, err := s.saveRecord(record)
	if err != nil {
		return nil, err
	}
	outcome.Record = record
	outcome.RecordPath = path

	return outcome, nil
}

// saveRecord writes the record as the next numbered question_N.json
// under the output directory.
func (s *Session) saveRecord(record *Record) (string, error) {
	dir := s.OutputDir
	if dir == "" {
		dir = "output"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	record.Number = nextRecordNumber(dir)

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal record: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("question_%d.json", record.Number))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write record: %w", err)
	}
	return path, nil
}

// nextRecordNumber finds the highest existing question number and
// returns the next one.
func nextRecordNumber(dir string) int {
	highest := 0
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 1
	}
	for _, entry := range entries {
		var n int
		if _, err := fmt.Sscanf(entry.Name(), "question_%d.json", &n); err == nil && n > highest {
			highest = n
		}
	}
	return highest + 1
}
