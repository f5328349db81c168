package classify

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks removes combining diacritic marks so accented vendor strings
// match plain-ASCII synonym entries.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var dashReplacer = strings.NewReplacer(
	"–", "-", // en dash
	"—", "-", // em dash
	"‐", "-", // hyphen
	"−", "-", // minus sign
	"&", " and ",
)

// CanonicalizeToken normalizes a raw publication-type or MeSH token for
// synonym-table lookup: lower-case, unified dashes, folded diacritics,
// bracketed noise removed, punctuation collapsed to single spaces.
func CanonicalizeToken(token string) string {
	lowered := strings.ToLower(strings.TrimSpace(token))
	lowered = dashReplacer.Replace(lowered)
	if folded, _, err := transform.String(stripMarks, lowered); err == nil {
		lowered = folded
	}
	lowered = stripBracketed(lowered)

	var b strings.Builder
	b.Grow(len(lowered))
	pendingSpace := false
	for _, r := range lowered {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteRune(r)
			pendingSpace = false
			continue
		}
		pendingSpace = true
	}
	return b.String()
}

// stripBracketed removes complete "(...)" spans; unbalanced brackets fall
// through to the punctuation pass.
func stripBracketed(s string) string {
	for {
		open := strings.IndexByte(s, '(')
		if open < 0 {
			return s
		}
		rest := strings.IndexByte(s[open:], ')')
		if rest < 0 {
			return s
		}
		s = s[:open] + " " + s[open+rest+1:]
	}
}

// SynonymSet is one source's raw synonym configuration: the tokens that
// signal a review and the tokens that signal non-review content.
type SynonymSet struct {
	Review    []string
	NonReview []string
}

type synonymTable map[string]Label

// compileSynonyms canonicalizes a source's synonym lists into a lookup
// table, rejecting tokens that map to more than one canonical label.
func compileSynonyms(source string, set SynonymSet) (synonymTable, error) {
	table := make(synonymTable, len(set.Review)+len(set.NonReview))
	add := func(raw string, label Label) error {
		token := CanonicalizeToken(raw)
		if token == "" {
			return fmt.Errorf("%w: source %q: synonym entry %q canonicalizes to nothing", ErrConfiguration, source, raw)
		}
		if existing, ok := table[token]; ok && existing != label {
			return fmt.Errorf("%w: source %q: token %q maps to both %s and %s", ErrConfiguration, source, token, existing, label)
		}
		table[token] = label
		return nil
	}
	for _, raw := range set.Review {
		if err := add(raw, LabelReview); err != nil {
			return nil, err
		}
	}
	for _, raw := range set.NonReview {
		if err := add(raw, LabelNonReview); err != nil {
			return nil, err
		}
	}
	return table, nil
}

// TokenMatch is one canonical token that matched a synonym entry.
type TokenMatch struct {
	Token string `json:"token"`
	Label Label  `json:"label"`
}

// Normalizer maps raw publication-type fields to canonical labels using
// per-source synonym tables.
type Normalizer struct {
	delimiters map[rune]struct{}
	tables     map[string]synonymTable
}

// NewNormalizer compiles per-source synonym tables. Delimiters is the set
// of characters that separate values in multi-valued fields.
func NewNormalizer(delimiters string, synonyms map[string]SynonymSet) (*Normalizer, error) {
	if strings.TrimSpace(delimiters) == "" {
		return nil, fmt.Errorf("%w: delimiters must not be empty", ErrConfiguration)
	}
	delims := make(map[rune]struct{}, len(delimiters))
	for _, r := range delimiters {
		delims[r] = struct{}{}
	}
	tables := make(map[string]synonymTable, len(synonyms))
	for source, set := range synonyms {
		table, err := compileSynonyms(source, set)
		if err != nil {
			return nil, err
		}
		tables[source] = table
	}
	return &Normalizer{delimiters: delims, tables: tables}, nil
}

// Normalize splits one source's raw publication-type field, canonicalizes
// each token, and returns the synonym matches in order of first appearance.
// Unmapped tokens are dropped; an empty or missing field yields no matches.
func (n *Normalizer) Normalize(source, raw string) []TokenMatch {
	table, ok := n.tables[source]
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		_, isDelim := n.delimiters[r]
		return isDelim
	})
	seen := make(map[string]struct{}, len(fields))
	matches := make([]TokenMatch, 0, len(fields))
	for _, field := range fields {
		token := CanonicalizeToken(field)
		if token == "" {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		if label, mapped := table[token]; mapped {
			matches = append(matches, TokenMatch{Token: token, Label: label})
		}
	}
	return matches
}
