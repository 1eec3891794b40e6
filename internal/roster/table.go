package roster

import (
	"encoding/csv"
	"io"
	"sort"
	"strings"
)

// Header is the CSV header row of the output table.
var Header = []string{"List", "Email"}

// Row is one resolved (list title, email) output pair.
type Row struct {
	List  string `json:"list"`
	Email string `json:"email"`
}

// Table collects resolved emails with per-title set semantics. Sections
// sharing identical trimmed title text merge into one dedup scope; the
// same email under two different titles is kept independently.
type Table struct {
	order []string                       // titles in first-appearance order
	seen  map[string]map[string]struct{} // title → set of emails
}

// NewTable returns an empty output table.
func NewTable() *Table {
	return &Table{seen: make(map[string]map[string]struct{})}
}

// Add records an email under a title. It returns false when the email
// was already present under that title (the duplicate is dropped).
func (t *Table) Add(title, email string) bool {
	title = strings.TrimSpace(title)
	emails, ok := t.seen[title]
	if !ok {
		emails = make(map[string]struct{})
		t.seen[title] = emails
		t.order = append(t.order, title)
	}
	if _, dup := emails[email]; dup {
		return false
	}
	emails[email] = struct{}{}
	return true
}

// Rows materializes the table: title groups in first-appearance order,
// emails sorted lexicographically within each group.
func (t *Table) Rows() []Row {
	var rows []Row
	for _, title := range t.order {
		emails := make([]string, 0, len(t.seen[title]))
		for email := range t.seen[title] {
			emails = append(emails, email)
		}
		sort.Strings(emails)
		for _, email := range emails {
			rows = append(rows, Row{List: title, Email: email})
		}
	}
	return rows
}

// WriteCSV serializes the table to w: the header row, then one row per
// resolved email. Quoting follows encoding/csv, so titles containing
// commas round-trip per standard CSV rules.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, row := range t.Rows() {
		if err := cw.Write([]string{row.List, row.Email}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
