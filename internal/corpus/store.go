// Package corpus holds the statute documents the retriever searches. A Store is
// built once at startup and never mutated, so concurrent readers need no locking.
package corpus

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Section is one named unit of statute text, e.g. "Section 379".
type Section struct {
	ID   string
	Text string
}

// Document is one corpus act (IPC, CrPC, ...) with its sections in file order.
type Document struct {
	ID       string
	Sections []Section
}

// Store maps document ids to documents, remembering load order.
type Store struct {
	docs []*Document
	byID map[string]*Document
}

// NewStore builds a store from in-memory documents. A repeated id keeps the first.
func NewStore(docs ...Document) *Store {
	s := &Store{byID: make(map[string]*Document, len(docs))}
	for i := range docs {
		s.add(docs[i])
	}
	return s
}

func (s *Store) add(doc Document) {
	if _, dup := s.byID[doc.ID]; dup {
		return
	}
	// A repeated section id keeps its first occurrence.
	seen := make(map[string]struct{}, len(doc.Sections))
	sections := make([]Section, 0, len(doc.Sections))
	for _, sec := range doc.Sections {
		if _, dup := seen[sec.ID]; dup {
			continue
		}
		seen[sec.ID] = struct{}{}
		sections = append(sections, sec)
	}
	d := &Document{ID: doc.ID, Sections: sections}
	s.docs = append(s.docs, d)
	s.byID[d.ID] = d
}

// Load reads every *.json file in dir as one document. Files are visited in
// name order. A file that fails to read or decode is skipped and reported in the
// returned error; the store is never nil.
func Load(dir string) (*Store, error) {
	s := NewStore()

	entries, err := os.ReadDir(dir)
	if err != nil {
		return s, fmt.Errorf("read corpus dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		doc, err := loadDocument(filepath.Join(dir, name))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		s.add(doc)
	}

	return s, errors.Join(errs...)
}

func loadDocument(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}

	sections := orderedmap.New[string, string]()
	if err := json.Unmarshal(data, sections); err != nil {
		return Document{}, fmt.Errorf("decode sections: %w", err)
	}

	doc := Document{
		ID:       strings.TrimSuffix(filepath.Base(path), ".json"),
		Sections: make([]Section, 0, sections.Len()),
	}
	for pair := sections.Oldest(); pair != nil; pair = pair.Next() {
		doc.Sections = append(doc.Sections, Section{ID: pair.Key, Text: pair.Value})
	}
	return doc, nil
}

// Get returns the document with the given id.
func (s *Store) Get(id string) (*Document, bool) {
	d, ok := s.byID[id]
	return d, ok
}

// Documents returns all documents in load order.
func (s *Store) Documents() []*Document {
	return s.docs
}

// Subset returns the documents named by ids, in the order of ids. Unknown and
// repeated ids are skipped.
func (s *Store) Subset(ids []string) []*Document {
	out := make([]*Document, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if d, ok := s.byID[id]; ok {
			out = append(out, d)
		}
	}
	return out
}

func (s *Store) Len() int {
	return len(s.docs)
}

// SectionCount is the total number of sections across all documents.
func (s *Store) SectionCount() int {
	n := 0
	for _, d := range s.docs {
		n += len(d.Sections)
	}
	return n
}
