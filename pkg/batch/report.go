package batch

import (
	"fmt"
	"io"
	"time"
)

// ItemStatus indicates the outcome for one URL in a batch run.
type ItemStatus string

const (
	ItemProcessed ItemStatus = "processed"
	ItemSkipped   ItemStatus = "skipped"
	ItemFailed    ItemStatus = "failed"
)

// Item is the result for one URL in a batch run.
type Item struct {
	URL     string     `json:"url"`
	ID      string     `json:"id,omitempty"`
	Status  ItemStatus `json:"status"`
	Records int        `json:"records,omitempty"`
	Error   string     `json:"error,omitempty"`
}

// Report contains the results and statistics of a completed batch run.
type Report struct {
	// Processed is the number of documents parsed and catalogued.
	Processed int `json:"processed"`

	// Skipped is the number of documents already in the catalogue.
	Skipped int `json:"skipped"`

	// Failed is the number of documents that could not be processed.
	Failed int `json:"failed"`

	// Items contains the individual URL results, in input order.
	Items []*Item `json:"items"`

	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// NewReport creates a new empty report stamped with the current time.
func NewReport() *Report {
	return &Report{
		Items:     make([]*Item, 0),
		StartedAt: time.Now().UTC(),
	}
}

// RecordItem adds a URL result to the report.
func (report *Report) RecordItem(item *Item) {
	report.Items = append(report.Items, item)

	switch item.Status {
	case ItemProcessed:
		report.Processed++
	case ItemSkipped:
		report.Skipped++
	case ItemFailed:
		report.Failed++
	}
}

// Finish stamps the report's end time.
func (report *Report) Finish() {
	report.FinishedAt = time.Now().UTC()
}

// PrintSummary renders the report as a human-readable table.
func (report *Report) PrintSummary(w io.Writer) {
	fmt.Fprintf(w, "=== Batch Report ===\n\n")
	fmt.Fprintf(w, "Summary:\n")
	fmt.Fprintf(w, "  Processed: %d\n", report.Processed)
	fmt.Fprintf(w, "  Skipped:   %d\n", report.Skipped)
	fmt.Fprintf(w, "  Failed:    %d\n", report.Failed)
	if !report.FinishedAt.IsZero() {
		fmt.Fprintf(w, "  Duration:  %s\n", report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond))
	}
	fmt.Fprintf(w, "\n")

	if len(report.Items) == 0 {
		return
	}

	fmt.Fprintf(w, "Documents:\n")
	fmt.Fprintf(w, "  %-20s %-10s %-8s %s\n", "Document ID", "Status", "Records", "URL")
	fmt.Fprintf(w, "  %-20s %-10s %-8s %s\n", "-----------", "------", "-------", "---")
	for _, item := range report.Items {
		id := item.ID
		if id == "" {
			id = "-"
		}
		fmt.Fprintf(w, "  %-20s %-10s %-8d %s\n", id, item.Status, item.Records, item.URL)
		if item.Error != "" {
			fmt.Fprintf(w, "  %-20s   %s\n", "", item.Error)
		}
	}
}
