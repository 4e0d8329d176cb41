package catalogue

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/coolbeans/navette/pkg/reference"
	"github.com/coolbeans/navette/pkg/texte"
)

func testRef() *reference.Reference {
	return &reference.Reference{
		Chamber: reference.ChamberSenat,
		ID:      "S06-042",
		Numero:  42,
		Source:  "http://www.senat.fr/leg/pjl06-042.html",
	}
}

func TestOpenCreatesManifest(t *testing.T) {
	dir := t.TempDir()

	cat, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if got := len(cat.List()); got != 0 {
		t.Errorf("new catalogue has %d entries, want 0", got)
	}
	if _, err := os.Stat(filepath.Join(dir, "catalogue.json")); err != nil {
		t.Errorf("manifest not written: %v", err)
	}
}

func TestAddAndReopen(t *testing.T) {
	dir := t.TempDir()

	cat, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	records := []any{
		&texte.Texte{ID: "S06-042", Source: testRef().Source, Titre: "Projet de loi", Type: texte.TypeTexte},
		&texte.Article{Alineas: map[string]string{"001": "Premier alinéa."}, Order: 1, Titre: "1er", Type: texte.TypeArticle},
	}

	entry, err := cat.Add(testRef(), records)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if entry.Status != StatusReady {
		t.Errorf("status = %q, want %q", entry.Status, StatusReady)
	}
	if entry.Records != 2 {
		t.Errorf("records = %d, want 2", entry.Records)
	}

	data, err := os.ReadFile(filepath.Join(dir, "S06-042.jsonl"))
	if err != nil {
		t.Fatalf("document file not written: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d NDJSON lines, want 2", len(lines))
	}
	if !strings.Contains(lines[0], `"type":"texte"`) {
		t.Errorf("first line = %q, want texte record", lines[0])
	}

	// Reopen from disk and check the entry survived.
	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if !reopened.Has(testRef().Source) {
		t.Error("reopened catalogue does not have the processed source")
	}
	got := reopened.Get("S06-042")
	if got == nil {
		t.Fatal("entry not found after reopen")
	}
	if got.Chamber != "senat" || got.Numero != 42 {
		t.Errorf("entry = %+v", got)
	}
}

func TestHasIgnoresFailures(t *testing.T) {
	cat, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	source := "http://www.senat.fr/leg/pjl06-099.html"
	if err := cat.RecordFailure(source, errors.New("fetch failed")); err != nil {
		t.Fatalf("RecordFailure failed: %v", err)
	}

	if cat.Has(source) {
		t.Error("Has reported true for a failed document")
	}
	entry := cat.Get(source)
	if entry == nil || entry.Status != StatusFailed {
		t.Fatalf("entry = %+v, want failed entry", entry)
	}
	if entry.Error != "fetch failed" {
		t.Errorf("error = %q", entry.Error)
	}
}

func TestAddOverwritesFailure(t *testing.T) {
	cat, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	ref := testRef()
	if err := cat.RecordFailure(ref.Source, errors.New("temporary")); err != nil {
		t.Fatalf("RecordFailure failed: %v", err)
	}
	if _, err := cat.Add(ref, []any{&texte.Texte{ID: ref.ID, Type: texte.TypeTexte}}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if !cat.Has(ref.Source) {
		t.Error("Has should report true after successful retry")
	}

	stats := cat.Stats()
	if stats.TotalDocuments != 2 {
		t.Errorf("total documents = %d, want 2 (retry keys by ID, failure by source)", stats.TotalDocuments)
	}
	if stats.ByStatus["ready"] != 1 || stats.ByStatus["failed"] != 1 {
		t.Errorf("by status = %v", stats.ByStatus)
	}
}

func TestListSorted(t *testing.T) {
	cat, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	refs := []*reference.Reference{
		{Chamber: reference.ChamberSenat, ID: "S06-100", Numero: 100, Source: "http://www.senat.fr/leg/pjl06-100.html"},
		{Chamber: reference.ChamberAssemblee, ID: "A13-269", Numero: 269, Source: "http://www.assemblee-nationale.fr/13/projets/pl0269.asp"},
	}
	for _, ref := range refs {
		if _, err := cat.Add(ref, nil); err != nil {
			t.Fatalf("Add(%s) failed: %v", ref.ID, err)
		}
	}

	entries := cat.List()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].ID != "A13-269" || entries[1].ID != "S06-100" {
		t.Errorf("order = %s, %s", entries[0].ID, entries[1].ID)
	}

	stats := cat.Stats()
	if stats.ByChamber["senat"] != 1 || stats.ByChamber["assemblee"] != 1 {
		t.Errorf("by chamber = %v", stats.ByChamber)
	}
}
