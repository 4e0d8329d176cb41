package texte

import (
	"regexp"
	"strings"
)

// htmlReplacement is one ordered substitution of the line normalizer.
type htmlReplacement struct {
	pattern *regexp.Regexp
	repl    string
}

// htmlReplacements canonicalizes one raw block element into a single cleaned
// line. Order matters: later rules assume earlier ones ran (tag attributes
// are gone before tags are renamed, whitespace is collapsed before empty tag
// pairs are dropped). The surviving markup vocabulary is <b> and <i> only.
var htmlReplacements = []htmlReplacement{
	{regexp.MustCompile(" "), " "},
	{regexp.MustCompile(`(?i)œ`), "oe"},
	{regexp.MustCompile(`«\s+|\s+»`), `"`},
	{regexp.MustCompile(`[«»“”„‟❝❞＂〟〞〝]`), `"`},
	{regexp.MustCompile(`[’＇ߴ՚ʼ❛❜]`), "'"},
	{regexp.MustCompile(`[‒–—―⁓‑‐⁃⏤]`), "-"},
	{regexp.MustCompile(`(</?\w+)[^>]*>`), "$1>"},
	{regexp.MustCompile(`(?i)(</?)em>`), "${1}i>"},
	{regexp.MustCompile(`(?i)(</?)strong>`), "${1}b>"},
	{regexp.MustCompile(`(?i)<(![^>]*|/?(p|br/?|span))>`), ""},
	{regexp.MustCompile(`\s*\n+\s*`), " "},
	{regexp.MustCompile(`\s+`), " "},
	{regexp.MustCompile(`<[^>]*></[^>]*>`), ""},
	{regexp.MustCompile(`(?i)^<b><i>`), "<i><b>"},
	{regexp.MustCompile(`(?i)</?sup>`), ""},
}

// upperLeadPattern catches a quoted all-uppercase leading word, a small-caps
// rendering artifact of the source pages.
var upperLeadPattern = regexp.MustCompile(`^((<[^>]*>)*"[A-Z])([A-ZÉ]+ )`)

// NormalizeLine turns one raw block-level HTML fragment into a cleaned line:
// glyph variants canonicalized, markup reduced to bare <b>/<i> tags,
// whitespace collapsed. Re-applying it to its own output changes nothing.
func NormalizeLine(raw string) string {
	line := raw
	for _, r := range htmlReplacements {
		line = r.pattern.ReplaceAllString(line, r.repl)
	}
	line = upperLeadPattern.ReplaceAllStringFunc(line, func(match string) string {
		m := upperLeadPattern.FindStringSubmatch(match)
		return m[1] + strings.ToLower(m[3])
	})
	return strings.TrimSpace(line)
}
