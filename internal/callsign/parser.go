// Package callsign derives the candidate route callsigns for a flight.
// Feeds are inconsistent about zero padding and about whether the spoken
// airline code matches the filed one, so route lookups try an ordered list
// of permutations rather than one exact string.
package callsign

import (
	"strings"
)

// Parser generates candidate route callsigns for a flown callsign
type Parser struct{}

// NewParser creates a callsign parser
func NewParser() *Parser {
	return &Parser{}
}

// AllRouteCallsigns returns the ordered list of callsigns to try when
// resolving a route. The exact callsign comes first, followed by
// zero-padding variants and, when the aircraft's operator code is known,
// the same variants with the operator code substituted for the alpha prefix.
// The result is deduplicated preserving order; an empty callsign yields nil.
// Callers try candidates in order and stop at the first route hit.
func (p *Parser) AllRouteCallsigns(callsign, operatorCode string) []string {
	cs := strings.ToUpper(strings.TrimSpace(callsign))
	if cs == "" {
		return nil
	}
	operatorCode = strings.ToUpper(strings.TrimSpace(operatorCode))

	prefix, suffix := splitCallsign(cs)

	candidates := []string{cs}
	if prefix != "" && suffix != "" {
		for _, s := range suffixVariants(suffix) {
			candidates = append(candidates, prefix+s)
		}
		if operatorCode != "" && operatorCode != prefix {
			candidates = append(candidates, operatorCode+suffix)
			for _, s := range suffixVariants(suffix) {
				candidates = append(candidates, operatorCode+s)
			}
		}
	}

	return dedupe(candidates)
}

// splitCallsign splits a callsign into its leading alpha code and the
// remainder. "BAW0123" -> ("BAW", "0123"). Callsigns that do not start with
// letters have no prefix.
func splitCallsign(cs string) (prefix, suffix string) {
	i := 0
	for i < len(cs) && cs[i] >= 'A' && cs[i] <= 'Z' {
		i++
	}
	if i == 0 || i > 3 {
		// Registrations like "N12345" split badly; more than 3 leading
		// letters is not an airline code either way.
		if i != len(cs) {
			return "", ""
		}
	}
	return cs[:i], cs[i:]
}

// suffixVariants returns the zero-padding permutations of a flight number
// suffix, excluding the suffix itself
func suffixVariants(suffix string) []string {
	var variants []string

	stripped := strings.TrimLeft(suffix, "0")
	if stripped != "" && stripped != suffix {
		variants = append(variants, stripped)
	}

	// Pad the numeric part back up to four digits, the most common filed form
	digits := 0
	for digits < len(suffix) && suffix[digits] >= '0' && suffix[digits] <= '9' {
		digits++
	}
	if digits > 0 && digits < 4 {
		padded := strings.Repeat("0", 4-digits) + suffix
		variants = append(variants, padded)
	}

	return variants
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
