package ops

import (
	"crypto/rand"
	"os"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"

	"github.com/tessling/rostermap/internal/config"
	"github.com/tessling/rostermap/internal/errors"
	"github.com/tessling/rostermap/internal/roster"
)

// Format selects how roster input is split into sections.
type Format string

const (
	FormatText     Format = "text"     // default: colon-terminated title lines
	FormatMarkdown Format = "markdown" // ATX headings as title lines
)

// domainPattern is a basic shape check for the fallback domain:
// name.tld with at least two trailing letters. Not a deliverability
// check.
var domainPattern = regexp.MustCompile(`^[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// resolveDomain picks the effective fallback domain: the explicit value
// wins, then the configured default. Absence or a malformed value is a
// configuration error, caught here at the boundary rather than inside
// the resolver.
func resolveDomain(cfg *config.Config, domain string) (string, error) {
	d := strings.TrimSpace(domain)
	if d == "" {
		d = strings.TrimSpace(cfg.DefaultDomain)
	}
	if d == "" {
		return "", errors.NewInvalidRequest("domain is required (set --domain or " + config.EnvDomain + ")")
	}
	if !domainPattern.MatchString(d) {
		return "", errors.NewInvalidRequest("invalid domain format: " + d)
	}
	return d, nil
}

// parseRoster splits roster text into sections according to format.
func parseRoster(text string, format Format) ([]roster.Section, error) {
	switch format {
	case "", FormatText:
		return roster.ParseText(text), nil
	case FormatMarkdown:
		return roster.ParseMarkdown(text), nil
	default:
		return nil, errors.NewInvalidRequest("format must be one of: text, markdown")
	}
}

// readRoster reads the input file and enforces the configured size
// limit. A missing or unreadable file is a NOT_FOUND configuration
// error.
func readRoster(cfg *config.Config, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.NewNotFound(path)
	}
	text := string(data)
	if chars := utf8.RuneCountInString(text); chars > cfg.MaxInputChars {
		return "", errors.NewInputTooLarge(cfg.MaxInputChars, chars)
	}
	return text, nil
}

// newRunID generates a new ULID for a conversion run.
func newRunID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
