// Package analyzer extracts structural facts from source files: declared
// classes, class-qualified function names, imported symbols, call-site
// frequencies, and syntax-node-kind frequencies.
package analyzer

import (
	"encoding/json"
	"sort"
	"sync"
)

// StringSet is a set of strings that serializes as a sorted JSON array.
type StringSet map[string]bool

// NewStringSet creates a set from the given members
func NewStringSet(members ...string) StringSet {
	s := make(StringSet, len(members))
	for _, m := range members {
		s[m] = true
	}
	return s
}

// Add inserts a member into the set
func (s StringSet) Add(member string) {
	s[member] = true
}

// Has reports whether member is in the set
func (s StringSet) Has(member string) bool {
	return s[member]
}

// Sorted returns the members in lexical order
func (s StringSet) Sorted() []string {
	members := make([]string, 0, len(s))
	for m := range s {
		members = append(members, m)
	}
	sort.Strings(members)
	return members
}

// Intersect returns the members present in both sets
func (s StringSet) Intersect(other StringSet) StringSet {
	result := make(StringSet)
	for m := range s {
		if other[m] {
			result[m] = true
		}
	}
	return result
}

// MarshalJSON serializes the set as a sorted array
func (s StringSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON deserializes the set from an array
func (s *StringSet) UnmarshalJSON(data []byte) error {
	var members []string
	if err := json.Unmarshal(data, &members); err != nil {
		return err
	}
	*s = NewStringSet(members...)
	return nil
}

// FactRecord is the structured extraction result for one source file.
// It is created fresh per file, mutated only during that file's analysis
// pass, and never mutated after insertion into an AnalysisSet.
type FactRecord struct {
	// Path is the analyzed file path as discovered by the walker
	Path string `json:"path"`

	// Classes are the class names declared in the file, in declaration
	// order. Redeclared names appear once per declaration.
	Classes []string `json:"classes"`

	// FunctionNames holds bare function names and class-qualified method
	// names ("Class.method") after reconciliation.
	FunctionNames StringSet `json:"functionNames"`

	// Imports are the imported symbols in source order: plain imports as
	// the module name, from-imports as "module.name".
	Imports []string `json:"imports"`

	// CallCounts maps a called terminal name to its occurrence count
	CallCounts map[string]int `json:"callCounts"`

	// NodeKindCounts maps a syntax-node kind to its occurrence count.
	// Diagnostic only; the diagram synthesizer does not consume it.
	NodeKindCounts map[string]int `json:"nodeKindCounts"`
}

// NewFactRecord creates an empty record for the given path
func NewFactRecord(path string) *FactRecord {
	return &FactRecord{
		Path:           path,
		Classes:        []string{},
		FunctionNames:  make(StringSet),
		Imports:        []string{},
		CallCounts:     make(map[string]int),
		NodeKindCounts: make(map[string]int),
	}
}

// QualifiedBy returns the unqualified names of functions qualified by the
// given class, sorted lexically.
func (r *FactRecord) QualifiedBy(class string) []string {
	prefix := class + "."
	var members []string
	for name := range r.FunctionNames {
		if len(name) > len(prefix) && name[:len(prefix)] == prefix {
			members = append(members, name[len(prefix):])
		}
	}
	sort.Strings(members)
	return members
}

// Standalone returns the function names with no class qualifier, sorted
// lexically.
func (r *FactRecord) Standalone() []string {
	var names []string
	for name := range r.FunctionNames {
		if !containsDot(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func containsDot(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			return true
		}
	}
	return false
}

// AnalysisSet is the ordered mapping from file path to FactRecord for an
// analyzed tree. Insertion order is traversal order; a path appears at
// most once, and re-insertion overwrites the record in place. Inserts are
// safe for concurrent use; the set is read-only once aggregation finishes.
type AnalysisSet struct {
	mu      sync.RWMutex
	order   []string
	records map[string]*FactRecord
}

// NewAnalysisSet creates an empty analysis set
func NewAnalysisSet() *AnalysisSet {
	return &AnalysisSet{
		records: make(map[string]*FactRecord),
	}
}

// Insert adds a record, overwriting any prior record for the same path.
// The original insertion position is kept on overwrite.
func (s *AnalysisSet) Insert(rec *FactRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[rec.Path]; !exists {
		s.order = append(s.order, rec.Path)
	}
	s.records[rec.Path] = rec
}

// Get returns the record for a path
func (s *AnalysisSet) Get(path string) (*FactRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[path]
	return rec, ok
}

// Paths returns the file paths in insertion order
func (s *AnalysisSet) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	paths := make([]string, len(s.order))
	copy(paths, s.order)
	return paths
}

// Len returns the number of records
func (s *AnalysisSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Each calls fn for every record in insertion order
func (s *AnalysisSet) Each(fn func(rec *FactRecord)) {
	for _, path := range s.Paths() {
		if rec, ok := s.Get(path); ok {
			fn(rec)
		}
	}
}
