package batch

import (
	"bufio"
	"bytes"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/coolbeans/navette/pkg/catalogue"
	"github.com/coolbeans/navette/pkg/fetch"
	"github.com/coolbeans/navette/pkg/page"
	"github.com/coolbeans/navette/pkg/reference"
	"github.com/coolbeans/navette/pkg/texte"
)

// Runner executes batch runs against one catalogue.
type Runner struct {
	client  *fetch.Client
	cat     *catalogue.Catalogue
	parser  *texte.Parser
	ordered bool
}

// NewRunner creates a runner from the given configuration.
func NewRunner(config Config) (*Runner, error) {
	fetchConfig := fetch.DefaultConfig()
	fetchConfig.HTTPClient = &http.Client{Timeout: config.Timeout()}
	fetchConfig.RateLimit = config.RateLimit()
	fetchConfig.CacheDir = config.CacheDir
	if config.UserAgent != "" {
		fetchConfig.UserAgent = config.UserAgent
	}

	client, err := fetch.NewClient(fetchConfig)
	if err != nil {
		return nil, err
	}

	cat, err := catalogue.Open(config.CatalogueDir)
	if err != nil {
		return nil, err
	}

	return &Runner{
		client:  client,
		cat:     cat,
		parser:  texte.NewParser(),
		ordered: config.Ordered,
	}, nil
}

// Catalogue returns the catalogue this runner files documents into.
func (r *Runner) Catalogue() *catalogue.Catalogue {
	return r.cat
}

// Run processes each URL in order. Failures are recorded and the run
// continues; the report covers every URL.
func (r *Runner) Run(urls []string) *Report {
	report := NewReport()

	for i, url := range urls {
		report.RecordItem(r.processOne(url, i))
	}

	report.Finish()
	return report
}

// processOne fetches, parses and files a single document.
func (r *Runner) processOne(url string, index int) *Item {
	order := -1
	if r.ordered {
		order = index
	}

	ref, err := reference.Resolve(url, order)
	if err != nil {
		return r.fail(url, err)
	}

	if r.cat.Has(ref.Source) {
		return &Item{URL: url, ID: ref.ID, Status: ItemSkipped}
	}

	body, err := r.client.Get(ref.Source)
	if err != nil {
		return r.fail(url, err)
	}

	doc, err := page.Parse(bytes.NewReader(body))
	if err != nil {
		return r.fail(url, err)
	}

	sink := &texte.RecordSink{}
	input := texte.Input{
		Source: ref.Source,
		Titre:  doc.Title,
		ID:     ref.ID,
		Numero: ref.Numero,
	}
	if err := r.parser.Parse(input, doc.Blocks, sink); err != nil {
		return r.fail(url, err)
	}

	entry, err := r.cat.Add(ref, sink.Records)
	if err != nil {
		return r.fail(url, err)
	}

	return &Item{
		URL:     url,
		ID:      entry.ID,
		Status:  ItemProcessed,
		Records: entry.Records,
	}
}

func (r *Runner) fail(url string, cause error) *Item {
	if err := r.cat.RecordFailure(url, cause); err != nil {
		cause = fmt.Errorf("%v (additionally failed to record: %v)", cause, err)
	}
	return &Item{URL: url, Status: ItemFailed, Error: cause.Error()}
}

// ReadURLList reads a URL list file: one URL per line, blank lines and
// lines starting with '#' ignored.
func ReadURLList(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open URL list %s: %w", path, err)
	}
	defer file.Close()

	urls := make([]string, 0)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read URL list %s: %w", path, err)
	}

	return urls, nil
}
