package page

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	const html = `<html>
<head><title> Projet de loi - Sénat </title></head>
<body>
<div>ignoré</div>
<p><b>Projet de loi</b> de finances</p>
<p align="center"><b>Article 1er</b></p>
<p>Premier alinéa.</p>
</body>
</html>`

	page, err := Parse(strings.NewReader(html))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if page.Title != "Projet de loi - Sénat" {
		t.Errorf("title = %q", page.Title)
	}
	if len(page.Blocks) != 3 {
		t.Fatalf("got %d blocks, want 3: %#v", len(page.Blocks), page.Blocks)
	}
	if !strings.Contains(page.Blocks[0], "<b>Projet de loi</b>") {
		t.Errorf("block 0 = %q, want inline markup preserved", page.Blocks[0])
	}
	if !strings.Contains(page.Blocks[1], `align="center"`) {
		t.Errorf("block 1 = %q, want attributes preserved", page.Blocks[1])
	}
	if !strings.HasPrefix(page.Blocks[2], "<p>") {
		t.Errorf("block 2 = %q, want outer paragraph tags", page.Blocks[2])
	}
}

func TestParseMalformed(t *testing.T) {
	// Legacy pages frequently have unclosed tags; extraction still works.
	const html = `<title>Texte</title><p><b>Article 1er<p>Alinéa un.`

	page, err := Parse(strings.NewReader(html))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if page.Title != "Texte" {
		t.Errorf("title = %q", page.Title)
	}
	if len(page.Blocks) != 2 {
		t.Fatalf("got %d blocks, want 2: %#v", len(page.Blocks), page.Blocks)
	}
}
