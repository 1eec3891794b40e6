package roster

import "strings"

// SplitRecords splits one content line into individual contact records.
// Pasted address-book exports often place several records on one line
// separated by semicolons. Fragments that are empty after trimming are
// dropped, so a trailing semicolon never produces an empty record. A
// line without any semicolon yields exactly one record, trimmed.
func SplitRecords(line string) []string {
	parts := strings.Split(line, ";")
	records := make([]string, 0, len(parts))
	for _, p := range parts {
		r := strings.TrimSpace(p)
		if r != "" {
			records = append(records, r)
		}
	}
	return records
}
