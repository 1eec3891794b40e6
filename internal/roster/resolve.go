package roster

import (
	"regexp"
	"strings"
)

// embeddedEmailPattern matches a local-part@domain shape embedded in free
// text. Both sides are runs of non-whitespace, non-bracket characters
// with exactly one @ between them, so an address inside (...) or <...>
// matches without capturing the brackets. Trailing punctuation attached
// to the address (e.g. "bob@sample.org,") is captured and removed by the
// cleanup transforms below.
var embeddedEmailPattern = regexp.MustCompile(`[^\s()<>@]+@[^\s()<>@]+`)

// nameCutPattern marks the start of trailing descriptive text after a
// name: the first comma, or a dash surrounded by whitespace. Hyphenated
// names like "Mary-Jane" are not cut.
var nameCutPattern = regexp.MustCompile(`,|\s+-\s+`)

// nonAlnumPattern matches characters removed from name components before
// composing a local part.
var nonAlnumPattern = regexp.MustCompile(`[^a-z0-9]+`)

// emailCleanup is the ordered transform pipeline applied to a raw
// embedded-email candidate. Each transform is pure; the order is
// strip enclosing brackets, trim trailing punctuation, lower-case.
var emailCleanup = []func(string) string{
	stripEnclosing,
	trimTrailingPunct,
	strings.ToLower,
}

// Resolve produces exactly one lower-cased email for a contact record.
// An email embedded in the record wins; otherwise one is synthesized
// from the apparent name and the fallback domain. The second return is
// false when no email is derivable (the record is pure punctuation or
// empty after stripping) — callers skip such records rather than fail.
func Resolve(record, domain string) (string, bool) {
	if email, ok := ExtractEmbedded(record); ok {
		return email, true
	}
	return Synthesize(record, domain)
}

// ExtractEmbedded scans the record for an embedded email address and
// returns it lower-cased. When several candidates match, the first
// occurrence left-to-right wins. A candidate that collapses to an
// invalid shape after cleanup (empty local part or domain) is skipped.
func ExtractEmbedded(record string) (string, bool) {
	for _, candidate := range embeddedEmailPattern.FindAllString(record, -1) {
		for _, transform := range emailCleanup {
			candidate = transform(candidate)
		}
		local, dom, ok := strings.Cut(candidate, "@")
		if ok && local != "" && dom != "" {
			return candidate, true
		}
	}
	return "", false
}

// Synthesize builds first.last@domain from the apparent name in the
// record. Descriptive text after the first comma or whitespace-wrapped
// dash is discarded, the remainder is tokenized on whitespace, and each
// token is lower-cased with non-alphanumerics removed. Tokens that clean
// to nothing are dropped. A single surviving token is used alone as the
// local part; with two or more, the first and last tokens form the local
// part and middle tokens are discarded.
func Synthesize(record, domain string) (string, bool) {
	name := record
	if loc := nameCutPattern.FindStringIndex(name); loc != nil {
		name = name[:loc[0]]
	}

	var parts []string
	for _, token := range strings.Fields(name) {
		if cleaned := cleanNamePart(token); cleaned != "" {
			parts = append(parts, cleaned)
		}
	}

	var local string
	switch len(parts) {
	case 0:
		return "", false
	case 1:
		local = parts[0]
	default:
		local = parts[0] + "." + parts[len(parts)-1]
	}

	return strings.ToLower(local + "@" + domain), true
}

// cleanNamePart lower-cases a name token and strips everything outside
// [a-z0-9].
func cleanNamePart(token string) string {
	return nonAlnumPattern.ReplaceAllString(strings.ToLower(token), "")
}

// stripEnclosing removes one layer of surrounding parentheses or angle
// brackets left attached to a candidate.
func stripEnclosing(s string) string {
	s = strings.Trim(s, "()<>")
	return s
}

// trimTrailingPunct removes trailing separators that free text attaches
// to an address: semicolons, commas, and periods.
func trimTrailingPunct(s string) string {
	return strings.TrimRight(s, ";,.")
}
