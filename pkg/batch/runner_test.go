package batch

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const billHTML = `<html>
<head><title>Projet de loi relatif aux transports</title></head>
<body>
<p><b>PROJET DE LOI</b></p>
<p align="center"><b>Article 1er</b></p>
<p>Le premier alinéa.</p>
<p align="center"><b>Article 2</b></p>
<p>Le second alinéa.</p>
</body>
</html>`

func testConfig(t *testing.T) Config {
	t.Helper()
	config := DefaultConfig()
	config.CatalogueDir = t.TempDir()
	config.RateLimitMS = 1
	return config
}

func TestRunProcessesAndSkips(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/leg/pjl06-042.html" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(billHTML))
	}))
	defer server.Close()

	runner, err := NewRunner(testConfig(t))
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}

	urls := []string{server.URL + "/leg/pjl06-042.html"}

	report := runner.Run(urls)
	if report.Processed != 1 || report.Failed != 0 || report.Skipped != 0 {
		t.Fatalf("first run: %+v", report)
	}
	item := report.Items[0]
	if item.ID != "S06-042" {
		t.Errorf("item ID = %q, want S06-042", item.ID)
	}
	if item.Records != 3 {
		t.Errorf("records = %d, want 3 (texte + 2 articles)", item.Records)
	}

	entry := runner.Catalogue().Get("S06-042")
	if entry == nil {
		t.Fatal("document not catalogued")
	}
	data, err := os.ReadFile(filepath.Join(runner.Catalogue().Dir(), entry.File))
	if err != nil {
		t.Fatalf("document file not written: %v", err)
	}
	if !strings.Contains(string(data), "Projet de loi relatif aux transports") {
		t.Errorf("document file missing page title: %s", data)
	}

	// A second run over the same list skips the document.
	report = runner.Run(urls)
	if report.Skipped != 1 || report.Processed != 0 {
		t.Errorf("second run: %+v", report)
	}
}

func TestRunContinuesAfterFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/leg/pjl06-042.html" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(billHTML))
	}))
	defer server.Close()

	runner, err := NewRunner(testConfig(t))
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}

	urls := []string{
		server.URL + "/unrecognized/page.html",
		server.URL + "/leg/pjl06-099.html",
		server.URL + "/leg/pjl06-042.html",
	}

	report := runner.Run(urls)
	if report.Failed != 2 {
		t.Errorf("failed = %d, want 2 (bad URL shape, 404)", report.Failed)
	}
	if report.Processed != 1 {
		t.Errorf("processed = %d, want 1", report.Processed)
	}
	if report.Items[0].Error == "" || report.Items[1].Error == "" {
		t.Error("failed items should carry an error message")
	}

	stats := runner.Catalogue().Stats()
	if stats.ByStatus["failed"] != 2 {
		t.Errorf("catalogue failed = %d, want 2", stats.ByStatus["failed"])
	}
}

func TestRunOrdered(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(billHTML))
	}))
	defer server.Close()

	config := testConfig(t)
	config.Ordered = true
	runner, err := NewRunner(config)
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}

	report := runner.Run([]string{
		server.URL + "/leg/pjl06-042.html",
		server.URL + "/leg/tas06-042.html",
	})
	if report.Processed != 2 {
		t.Fatalf("report: %+v", report)
	}
	if report.Items[0].ID != "00_S06-042" {
		t.Errorf("first ID = %q, want 00_S06-042", report.Items[0].ID)
	}
	if report.Items[1].ID != "01_S06-ta042" {
		t.Errorf("second ID = %q, want 01_S06-ta042", report.Items[1].ID)
	}
}

func TestReportSummary(t *testing.T) {
	report := NewReport()
	report.RecordItem(&Item{URL: "http://www.senat.fr/leg/pjl06-042.html", ID: "S06-042", Status: ItemProcessed, Records: 3})
	report.RecordItem(&Item{URL: "http://www.senat.fr/leg/pjl06-099.html", Status: ItemFailed, Error: "unexpected status code 404"})
	report.Finish()

	var buf bytes.Buffer
	report.PrintSummary(&buf)
	out := buf.String()

	for _, want := range []string{"Processed: 1", "Failed:    1", "S06-042", "unexpected status code 404"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.yaml")
	content := "urls_file: bills.txt\ncatalogue_dir: out\nrate_limit_ms: 100\nordered: true\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if config.URLsFile != "bills.txt" || config.CatalogueDir != "out" || !config.Ordered {
		t.Errorf("config = %+v", config)
	}
	if config.RateLimit() != 100*time.Millisecond {
		t.Errorf("rate limit = %s", config.RateLimit())
	}
	if config.TimeoutSec != 30 {
		t.Errorf("timeout default = %d, want 30", config.TimeoutSec)
	}
}

func TestReadURLList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bills.txt")
	content := "# première lecture\nhttp://www.senat.fr/leg/pjl06-042.html\n\nhttp://www.assemblee-nationale.fr/13/projets/pl0269.asp\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	urls, err := ReadURLList(path)
	if err != nil {
		t.Fatalf("ReadURLList failed: %v", err)
	}
	if len(urls) != 2 {
		t.Fatalf("got %d URLs, want 2: %v", len(urls), urls)
	}
	if urls[0] != "http://www.senat.fr/leg/pjl06-042.html" {
		t.Errorf("first URL = %q", urls[0])
	}
}
