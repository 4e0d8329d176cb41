// Package texte implements the single-pass parser that reconstructs the
// structure of a French legislative bill (titre/chapitre divisions,
// articles and their numbered alineas, adoption statuses) from the rendered
// HTML of an Assemblée nationale or Sénat page. The sources carry no stable
// schema: structure is recovered from visual formatting cues, so every
// classification is a pattern match over a normalized line with a closed
// <b>/<i> markup vocabulary.
package texte

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// readMode tracks what the state machine expects from upcoming lines.
type readMode int

const (
	// modeDescription is a one-way latch: once the exposé des motifs is
	// announced, all remaining lines are ignored.
	modeDescription readMode = -1

	// modeMetadata reads header/metadata lines between structural units.
	modeMetadata readMode = 0

	// modeSectionTitle means a division marker was just seen and the next
	// bold line is that division's title.
	modeSectionTitle readMode = 1

	// modeAlinea accumulates numbered paragraphs into the open article.
	modeAlinea readMode = 2
)

// Input identifies the document being parsed. ID and Numero come from
// reference resolution of the source URL.
type Input struct {
	// Source is the cleaned source URL, carried into the Texte record.
	Source string

	// Titre is the raw page title.
	Titre string

	// ID is the canonical bill identifier.
	ID string

	// Numero is the chamber-assigned reference number, used to locate this
	// bill inside a joint-committee document bundling several texts.
	Numero int
}

// Parser classifies normalized lines against an ordered set of structural
// patterns. A Parser holds only compiled patterns and is safe for concurrent
// use; all per-document state lives in Parse.
type Parser struct {
	sectionPattern       *regexp.Regexp
	articlePattern       *regexp.Regexp
	draftTitlePattern    *regexp.Regexp
	commissionPattern    *regexp.Regexp
	exposePattern        *regexp.Regexp
	endPattern           *regexp.Regexp
	dotsPattern          *regexp.Regexp
	statusPattern        *regexp.Regexp
	newQualifierPattern  *regexp.Regexp
	numeralDotPattern    *regexp.Regexp
	leadingGapPattern    *regexp.Regexp
	conformePattern      *regexp.Regexp
	supprimePattern      *regexp.Regexp
	echecCommission      *regexp.Regexp
	echecCMP             *regexp.Regexp
	rosterPattern        *regexp.Regexp
	rosterEtPattern      *regexp.Regexp
	rosterJunkPattern    *regexp.Regexp
	separatorPattern     *regexp.Regexp
	articleUniquePattern *regexp.Regexp
	boldLeadPattern      *regexp.Regexp
	bisterPattern        *regexp.Regexp
	ordinalOnePattern    *regexp.Regexp
	multiTitlePattern    *regexp.Regexp
	tagPattern           *regexp.Regexp
	parenPattern         *regexp.Regexp
	nonDigitLead         *regexp.Regexp
}

// NewParser compiles the classification patterns.
func NewParser() *Parser {
	return &Parser{
		sectionPattern:       regexp.MustCompile(`(?i)^((chap|t)itre|volume|livre|tome|(sous-)?section)\s+(.+)e?r?`),
		articlePattern:       regexp.MustCompile(`(?i)^articles?\s+([^(]*)(\([^)]*\))?$`),
		draftTitlePattern:    regexp.MustCompile(`(?i)^(<b>)?pro.* loi`),
		commissionPattern:    regexp.MustCompile(`^\s*<b>\s*TEXTES?\s*DE\s*LA\s*COMMISSION`),
		exposePattern:        regexp.MustCompile(`(?i)^(<b>)?expos[eé]`),
		endPattern:           regexp.MustCompile(`(?i)^(<i>Délibéré|Fait à .*, le|\s*©|\s*N.?B.?\s*:)`),
		dotsPattern:          regexp.MustCompile(`^[.…]+$`),
		statusPattern:        regexp.MustCompile(`(?i)^<i>\(?(non\s?-?)?(conform|modif|suppr|nouveau)`),
		newQualifierPattern:  regexp.MustCompile(`(?i)\s*\(no(n[-\s]modifié|uveau)\s*\)\s*`),
		numeralDotPattern:    regexp.MustCompile(`^([IVXLCDM0-9]+)\s*\.\s*`),
		leadingGapPattern:    regexp.MustCompile(`^\s*"?\s+`),
		conformePattern:      regexp.MustCompile(`(?i)^\s*\((conforme|non-?modifi..?)s?\)\s*$`),
		supprimePattern:      regexp.MustCompile(`(?i)\(suppr(ession|im..?s?)\s*(conforme|maintenue|par la commission mixte paritaire)?\)["\s]*$`),
		echecCommission:      regexp.MustCompile(`(?i) la commission n'a pas adopté de texte `),
		echecCMP:             regexp.MustCompile(`(?i) ne .* parvenir à élaborer un texte commun`),
		rosterPattern:        regexp.MustCompile(`(?i)^[\s<>/aimg]*N[°\s]*\d+\s*(,|et)\s*[N°\s]*\d+`),
		rosterEtPattern:      regexp.MustCompile(`(?i)\s*et\s*`),
		rosterJunkPattern:    regexp.MustCompile(`(?i)[^,\d]`),
		separatorPattern:     regexp.MustCompile(`(?i)^\s*<b>\s*(article|titre|chapitre|tome|volume|livre)\s*(I|unique|liminaire|(1|prem)i?e?r?)\s*</b>\s*$`),
		articleUniquePattern: regexp.MustCompile(`(?i)^\s*article\s*unique\s*$`),
		boldLeadPattern:      regexp.MustCompile(`^(<i>)?<b>`),
		bisterPattern:        regexp.MustCompile(`(?i)(un|duo|tre|bis|qua|quint|quinqu|sex|oct|nov|non|dec|ter|ies)+|pr..?liminaire`),
		ordinalOnePattern:    regexp.MustCompile(`(?i)(premier|unique?)`),
		multiTitlePattern:    regexp.MustCompile(`(?i)(,|\s+et)\s+`),
		tagPattern:           regexp.MustCompile(`<[^>]+>`),
		parenPattern:         regexp.MustCompile(`[()]`),
		nonDigitLead:         regexp.MustCompile(`^\D`),
	}
}

// Parse consumes the document's block elements in order and streams
// completed records to the emitter. It is total over line shapes: a line
// that matches no pattern is metadata and is ignored. The only error paths
// are emitter failures.
func (p *Parser) Parse(input Input, blocks []string, emitter Emitter) error {
	doc := Texte{
		ID:     input.ID,
		Source: input.Source,
		Titre:  input.Titre,
		Type:   TypeTexte,
	}
	docEmitted := false

	mode := modeMetadata
	artNum, aliNum := 0, 0
	section := Section{Type: TypeSection}
	var article *Article

	// indexText is this bill's position inside a joint-committee roster
	// (-1: not a joint document); curText is the sub-text currently being
	// read. Content is demultiplexed by comparing the two.
	indexText, curText := -1, -1

scan:
	for _, block := range blocks {
		line := NormalizeLine(block)

		if indexText != -1 && p.separatorPattern.MatchString(line) {
			curText++
		}

		switch {
		case p.rosterPattern.MatchString(line):
			// A roster line ("Nos 12 et 34") fixes where this bill sits
			// inside the combined document.
			list := p.tagPattern.ReplaceAllString(line, "")
			list = p.rosterEtPattern.ReplaceAllString(list, ",")
			list = p.rosterJunkPattern.ReplaceAllString(list, "")
			for _, tok := range strings.Split(list, ",") {
				indexText++
				if n, err := strconv.Atoi(tok); err == nil && n == input.Numero {
					break
				}
			}

		case p.draftTitlePattern.MatchString(line) || p.commissionPattern.MatchString(line):
			mode = modeMetadata
			if !docEmitted {
				if err := emitter.Emit(doc); err != nil {
					return err
				}
				docEmitted = true
			}

		case p.exposePattern.MatchString(line):
			mode = modeDescription

		case mode == modeDescription || (indexText != -1 && curText != indexText):
			// Description latch, or content belonging to another bill of
			// the bundle.

		case mode != modeMetadata && p.sectionPattern.MatchString(line):
			m := p.sectionPattern.FindStringSubmatch(line)
			mode = modeSectionTitle
			section.TypeSection = strings.ToLower(m[1])
			sectionType := strings.ToUpper(m[1][:1])
			if m[3] != "" {
				sectionType += "S"
			}
			num := p.ordinalOnePattern.ReplaceAllString(strings.TrimSpace(m[4]), "1")
			if p.nonDigitLead.MatchString(num) {
				num = strconv.Itoa(ParseRoman(num))
			}
			// Entering a division of a given type resets the hierarchy
			// path from that type down.
			parent := regexp.MustCompile(sectionType+`\d.*$`).ReplaceAllString(section.ID, "")
			section.ID = parent + sectionType + num

		case p.echecCMP.MatchString(line) || p.echecCommission.MatchString(line):
			echec := Echec{
				Texte: strings.TrimSpace(p.tagPattern.ReplaceAllString(line, "")),
				Type:  TypeEchec,
			}
			if err := emitter.Emit(echec); err != nil {
				return err
			}
			article = nil
			break scan

		case p.boldLeadPattern.MatchString(line) || p.articleUniquePattern.MatchString(line):
			text := strings.TrimSpace(p.tagPattern.ReplaceAllString(line, ""))
			if m := p.articlePattern.FindStringSubmatch(text); m != nil {
				if article != nil {
					if err := p.emitArticle(emitter, article); err != nil {
						return err
					}
				}
				mode = modeAlinea
				artNum++
				aliNum = 0
				article = &Article{
					Alineas: map[string]string{},
					Order:   artNum,
					Statut:  "none",
					Titre:   p.ordinalOnePattern.ReplaceAllString(strings.TrimSpace(m[1]), "1er"),
					Type:    TypeArticle,
				}
				if m[2] != "" {
					article.Statut = strings.TrimSpace(p.parenPattern.ReplaceAllString(strings.ToLower(m[2]), ""))
				}
				if section.ID != "" {
					article.Section = section.ID
				}
			} else if mode == modeSectionTitle {
				section.Titre = text
				if article != nil {
					if err := p.emitArticle(emitter, article); err != nil {
						return err
					}
					article = nil
				}
				if err := emitter.Emit(section); err != nil {
					return err
				}
				mode = modeMetadata
			}

		case mode == modeAlinea:
			if p.endPattern.MatchString(line) {
				// End-of-document boilerplate: stop without flushing.
				article = nil
				break scan
			}
			if p.statusPattern.MatchString(line) {
				statut := strings.TrimSpace(p.parenPattern.ReplaceAllString(strings.ToLower(line), ""))
				article.Statut = p.tagPattern.ReplaceAllString(statut, "")
				continue
			}
			if p.dotsPattern.MatchString(line) {
				continue
			}
			text := p.tagPattern.ReplaceAllString(line, "")
			text = strings.TrimSpace(p.newQualifierPattern.ReplaceAllString(text, " "))
			text = p.numeralDotPattern.ReplaceAllString(text, "${1}. ")
			text = p.leadingGapPattern.ReplaceAllString(text, "")
			text = p.bisterPattern.ReplaceAllStringFunc(text, strings.ToLower)
			text = p.supprimePattern.ReplaceAllString(text, "(Supprimé)")
			text = p.conformePattern.ReplaceAllString(text, "(Non modifié)")
			if aliNum == 0 && strings.HasPrefix(text, "(Texte d") {
				// Provenance comment preceding the first real alinea.
				continue
			}
			aliNum++
			article.Alineas[fmt.Sprintf("%03d", aliNum)] = text

		default:
			// Plain metadata line.
		}
	}

	if article != nil {
		return p.emitArticle(emitter, article)
	}
	return nil
}

// emitArticle applies the cleanup pass and emits the article, fanning out
// one record per sub-item when the title names several articles.
func (p *Parser) emitArticle(emitter Emitter, article *Article) error {
	if len(article.Alineas) == 1 && strings.HasPrefix(article.Alineas["001"], "(Supprimé)") {
		article.Alineas = map[string]string{"001": ""}
	} else if strings.HasPrefix(article.Statut, "conforme") && len(article.Alineas) == 0 {
		article.Alineas = map[string]string{"001": "(Non modifié)"}
	}

	titles := strings.Split(p.multiTitlePattern.ReplaceAllString(article.Titre, ","), ",")
	if len(titles) > 1 {
		for _, titre := range titles {
			split := *article
			split.Titre = titre
			if err := emitter.Emit(split); err != nil {
				return err
			}
		}
		return nil
	}
	return emitter.Emit(*article)
}
