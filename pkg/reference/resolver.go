// Package reference derives a bill's canonical identifier and chamber
// reference number from the URL of its published text. Both chambers encode
// the legislature/session and the text number in the filename; nothing else
// about the pages is machine-readable, so the URL is the only stable key the
// cataloguing tools can deduplicate on.
package reference

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Chamber identifies which house of parliament published the text.
type Chamber string

const (
	// ChamberAssemblee is the lower chamber (Assemblée nationale).
	ChamberAssemblee Chamber = "assemblee"

	// ChamberSenat is the upper chamber (Sénat).
	ChamberSenat Chamber = "senat"
)

// Reference is the resolved identity of one bill text.
type Reference struct {
	// Chamber is the publishing chamber, detected from the URL host path.
	Chamber Chamber

	// ID is the canonical identifier: [ORDER_]A<legislature>-[ta]<number>
	// for the lower chamber, [ORDER_]S<yy>-[ta]<number3> for the upper.
	ID string

	// Numero is the chamber-assigned reference number of the text.
	Numero int

	// Source is the cleaned source URL (upstream path prefixes and
	// percent-encoding artifacts undone).
	Source string
}

var (
	pathPrefixPattern = regexp.MustCompile(`^.*/http`)
	assembleePattern  = regexp.MustCompile(`assemblee-?nationale`)
	assembleeFile     = regexp.MustCompile(`/(\d+)/.+/(ta)?[\w\-]*(\d{4})[.\-]`)
	senatFile         = regexp.MustCompile(`(ta)?s?(\d\d)-(\d{1,3})\.`)
)

// Resolve parses the raw source URL into a Reference. The raw value may be a
// cache path embedding the URL; any leading path up to "http" is stripped
// and %2F/%3A escapes are undone first. An order of zero or more adds a
// zero-padded "NN_" prefix to the ID, used when several related texts are
// processed as an ordered batch; pass a negative order for none.
//
// Resolution is all-or-nothing for a document: a URL matching neither
// chamber's filename convention is an error, and the caller decides whether
// the surrounding batch continues.
func Resolve(rawURL string, order int) (*Reference, error) {
	url := pathPrefixPattern.ReplaceAllString(rawURL, "http")
	url = strings.ReplaceAll(url, "%2F", "/")
	url = strings.ReplaceAll(url, "%3A", ":")

	prefix := ""
	if order >= 0 {
		prefix = fmt.Sprintf("%02d_", order)
	}

	if assembleePattern.MatchString(url) {
		m := assembleeFile.FindStringSubmatch(url)
		if m == nil {
			return nil, fmt.Errorf("unrecognized assemblée nationale URL: %s", url)
		}
		numero, err := strconv.Atoi(m[3])
		if err != nil {
			return nil, fmt.Errorf("invalid text number in URL %s: %w", url, err)
		}
		return &Reference{
			Chamber: ChamberAssemblee,
			ID:      prefix + "A" + m[1] + "-" + m[2] + strconv.Itoa(numero),
			Numero:  numero,
			Source:  url,
		}, nil
	}

	m := senatFile.FindStringSubmatch(url)
	if m == nil {
		return nil, fmt.Errorf("unrecognized bill URL: %s", url)
	}
	numero, err := strconv.Atoi(m[3])
	if err != nil {
		return nil, fmt.Errorf("invalid text number in URL %s: %w", url, err)
	}
	return &Reference{
		Chamber: ChamberSenat,
		ID:      prefix + "S" + m[2] + "-" + m[1] + fmt.Sprintf("%03d", numero),
		Numero:  numero,
		Source:  url,
	}, nil
}
