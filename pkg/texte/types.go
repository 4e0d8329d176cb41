package texte

// Record type tags carried in the "type" field of every emitted record.
const (
	TypeTexte   = "texte"
	TypeSection = "section"
	TypeArticle = "article"
	TypeEchec   = "echec"
)

// Struct fields are declared in alphabetical json-key order so the encoded
// objects come out with sorted keys, matching what the cataloguing tools
// index on.

// Texte is the document header record. It is emitted at most once per input
// page, the first time a title-marker line is recognized.
type Texte struct {
	// Expose holds the exposé des motifs. This parser leaves it empty; it
	// is populated by a separate collector.
	Expose string `json:"expose"`

	// ID is the canonical bill identifier derived from the source URL.
	ID string `json:"id"`

	// Source is the cleaned source URL of the page.
	Source string `json:"source"`

	// Titre is the raw page title.
	Titre string `json:"titre"`

	Type string `json:"type"`
}

// Section is a structural division above articles: a titre, chapitre,
// sous-section, volume, livre or tome.
type Section struct {
	// ID is the composite hierarchical identifier, e.g. "T1C2" for
	// chapitre II under titre Ier.
	ID string `json:"id"`

	// Titre is the division's heading text, read from the line that
	// follows the division marker.
	Titre string `json:"titre"`

	Type string `json:"type"`

	// TypeSection is the lower-cased division word ("titre", "chapitre", ...).
	TypeSection string `json:"type_section"`
}

// Article is the primary content unit of a bill.
type Article struct {
	// Alineas maps zero-padded 1-based indexes ("001", "002", ...) to the
	// cleaned paragraph text, in document order.
	Alineas map[string]string `json:"alineas"`

	// Order is the article's sequence number within the document,
	// starting at 1.
	Order int `json:"order"`

	// Section references the enclosing section's ID, when one is active.
	Section string `json:"section,omitempty"`

	// Statut is the adoption status: "none" unless a parenthetical
	// qualifier on the heading or an in-body status line overrides it.
	Statut string `json:"statut"`

	// Titre is the article's number label, e.g. "3" or "1er".
	Titre string `json:"titre"`

	Type string `json:"type"`
}

// Echec is the terminal record emitted when the document states that the
// commission, or the commission mixte paritaire, failed to agree on a text.
// No further records follow it.
type Echec struct {
	// Texte is the cleaned failure sentence.
	Texte string `json:"texte"`

	Type string `json:"type"`
}
