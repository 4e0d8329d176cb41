// Package catalogue manages a persistent collection of parsed bill
// documents. Each document's records are stored as an NDJSON file next
// to a manifest that tracks what has been processed, so batch runs can
// skip bills already on disk.
package catalogue

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/coolbeans/navette/pkg/reference"
	"github.com/coolbeans/navette/pkg/texte"
)

const (
	manifestFileName = "catalogue.json"
	manifestVersion  = "1.0.0"
)

// Status indicates whether a document was parsed successfully.
type Status string

const (
	StatusReady  Status = "ready"
	StatusFailed Status = "failed"
)

// Entry describes one processed document in the manifest.
type Entry struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	Chamber     string    `json:"chamber"`
	Numero      int       `json:"numero"`
	Status      Status    `json:"status"`
	Records     int       `json:"records,omitempty"`
	File        string    `json:"file,omitempty"`
	Error       string    `json:"error,omitempty"`
	ProcessedAt time.Time `json:"processed_at"`
}

// Manifest is the on-disk index of the catalogue.
type Manifest struct {
	Version   string    `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Documents []*Entry  `json:"documents"`
}

// Stats holds aggregate counts across the catalogue.
type Stats struct {
	TotalDocuments int
	TotalRecords   int
	ByStatus       map[string]int
	ByChamber      map[string]int
}

// Catalogue manages parsed documents under a single directory.
type Catalogue struct {
	mu       sync.RWMutex
	dir      string
	manifest *Manifest
}

// Open loads the catalogue at the given directory, creating it if needed.
func Open(dir string) (*Catalogue, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create catalogue directory: %w", err)
	}

	manifestPath := filepath.Join(dir, manifestFileName)
	data, err := os.ReadFile(manifestPath)
	if os.IsNotExist(err) {
		manifest := &Manifest{
			Version:   manifestVersion,
			CreatedAt: time.Now().UTC(),
			UpdatedAt: time.Now().UTC(),
			Documents: []*Entry{},
		}
		cat := &Catalogue{dir: dir, manifest: manifest}
		if err := cat.saveManifest(); err != nil {
			return nil, fmt.Errorf("failed to save manifest: %w", err)
		}
		return cat, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read catalogue manifest: %w", err)
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse catalogue manifest: %w", err)
	}

	return &Catalogue{dir: dir, manifest: &manifest}, nil
}

// Has reports whether a document with the given source URL has already
// been processed successfully.
func (cat *Catalogue) Has(source string) bool {
	cat.mu.RLock()
	defer cat.mu.RUnlock()

	for _, entry := range cat.manifest.Documents {
		if entry.Source == source && entry.Status == StatusReady {
			return true
		}
	}
	return false
}

// Get returns the entry for a document ID, or nil if absent.
func (cat *Catalogue) Get(id string) *Entry {
	cat.mu.RLock()
	defer cat.mu.RUnlock()
	return cat.findUnsafe(id)
}

// Add stores the parsed records for a document and registers it in the
// manifest. Records are written as NDJSON to <id>.jsonl in the
// catalogue directory.
func (cat *Catalogue) Add(ref *reference.Reference, records []any) (*Entry, error) {
	cat.mu.Lock()
	defer cat.mu.Unlock()

	if ref == nil || ref.ID == "" {
		return nil, fmt.Errorf("document reference is required")
	}

	fileName := ref.ID + ".jsonl"
	file, err := os.Create(filepath.Join(cat.dir, fileName))
	if err != nil {
		return nil, fmt.Errorf("failed to create document file: %w", err)
	}
	defer file.Close()

	emitter := texte.NewJSONEmitter(file)
	for _, record := range records {
		if err := emitter.Emit(record); err != nil {
			return nil, fmt.Errorf("failed to write record for %s: %w", ref.ID, err)
		}
	}

	entry := &Entry{
		ID:          ref.ID,
		Source:      ref.Source,
		Chamber:     string(ref.Chamber),
		Numero:      ref.Numero,
		Status:      StatusReady,
		Records:     len(records),
		File:        fileName,
		ProcessedAt: time.Now().UTC(),
	}
	cat.upsertEntry(entry)

	if err := cat.saveManifest(); err != nil {
		return nil, fmt.Errorf("failed to save manifest: %w", err)
	}

	return entry, nil
}

// RecordFailure registers a document that could not be processed.
// The source URL stands in for the ID when resolution itself failed.
func (cat *Catalogue) RecordFailure(source string, cause error) error {
	cat.mu.Lock()
	defer cat.mu.Unlock()

	entry := &Entry{
		ID:          source,
		Source:      source,
		Status:      StatusFailed,
		Error:       cause.Error(),
		ProcessedAt: time.Now().UTC(),
	}
	cat.upsertEntry(entry)

	return cat.saveManifest()
}

// List returns all entries, sorted by ID.
func (cat *Catalogue) List() []*Entry {
	cat.mu.RLock()
	defer cat.mu.RUnlock()

	result := make([]*Entry, len(cat.manifest.Documents))
	copy(result, cat.manifest.Documents)

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Stats returns aggregate counts across all entries.
func (cat *Catalogue) Stats() *Stats {
	cat.mu.RLock()
	defer cat.mu.RUnlock()

	stats := &Stats{
		ByStatus:  make(map[string]int),
		ByChamber: make(map[string]int),
	}

	for _, entry := range cat.manifest.Documents {
		stats.TotalDocuments++
		stats.TotalRecords += entry.Records
		stats.ByStatus[string(entry.Status)]++
		if entry.Chamber != "" {
			stats.ByChamber[entry.Chamber]++
		}
	}

	return stats
}

// Dir returns the catalogue's root directory.
func (cat *Catalogue) Dir() string {
	return cat.dir
}

func (cat *Catalogue) findUnsafe(id string) *Entry {
	for _, entry := range cat.manifest.Documents {
		if entry.ID == id {
			return entry
		}
	}
	return nil
}

func (cat *Catalogue) upsertEntry(entry *Entry) {
	for i, existing := range cat.manifest.Documents {
		if existing.ID == entry.ID {
			cat.manifest.Documents[i] = entry
			cat.manifest.UpdatedAt = time.Now().UTC()
			return
		}
	}
	cat.manifest.Documents = append(cat.manifest.Documents, entry)
	cat.manifest.UpdatedAt = time.Now().UTC()
}

func (cat *Catalogue) saveManifest() error {
	manifestPath := filepath.Join(cat.dir, manifestFileName)
	data, err := json.MarshalIndent(cat.manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return os.WriteFile(manifestPath, data, 0o644)
}
