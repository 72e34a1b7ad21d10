// internal/hitset/hitset.go

// Package hitset tracks which sequences have been claimed by a cascade
// stage. It is pure set algebra: no IO, no side effects, and Difference is
// idempotent for a fixed claimed set.
package hitset

import (
	"path/filepath"
	"sort"

	"r2dt/internal/hits"
)

// Set is a set of sequence IDs.
type Set map[string]struct{}

func New(ids ...string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s Set) Add(id string)           { s[id] = struct{}{} }
func (s Set) Contains(id string) bool { _, ok := s[id]; return ok }
func (s Set) Len() int                { return len(s) }

// Union returns a new set with the members of both s and other.
func (s Set) Union(other Set) Set {
	out := make(Set, len(s)+len(other))
	for id := range s {
		out[id] = struct{}{}
	}
	for id := range other {
		out[id] = struct{}{}
	}
	return out
}

// Difference returns the members of s not present in claimed.
func (s Set) Difference(claimed Set) Set {
	out := make(Set)
	for id := range s {
		if _, ok := claimed[id]; !ok {
			out[id] = struct{}{}
		}
	}
	return out
}

// Sorted returns the members in lexical order for deterministic output.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Claimed extracts the set of sequence IDs from a stage's hit records.
func Claimed(recs []hits.Record) Set {
	s := make(Set, len(recs))
	for _, r := range recs {
		s[r.SequenceID] = struct{}{}
	}
	return s
}

// FromStageDir reads the stage's hits artifact and returns the claimed IDs.
// A stage that never produced the artifact claimed nothing.
func FromStageDir(dir string) (Set, error) {
	recs, err := hits.ReadFile(filepath.Join(dir, hits.FileName))
	if err != nil {
		return nil, err
	}
	return Claimed(recs), nil
}
