package roster

import "strings"

// Section is one titled group of raw contact lines from the input.
type Section struct {
	Title string   // trimmed title text with the trailing colon removed
	Lines []string // content lines in input order
}

// IsTitleLine reports whether a raw input line is a section title.
// A title line is non-empty after trimming and its last non-whitespace
// character is a colon.
func IsTitleLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed != "" && strings.HasSuffix(trimmed, ":")
}

// TitleOf extracts the section title from a title line: surrounding
// whitespace and the trailing colon are removed, then the remainder is
// trimmed again so "  LIST ONE :  " yields "LIST ONE".
func TitleOf(line string) string {
	trimmed := strings.TrimSpace(line)
	trimmed = strings.TrimSuffix(trimmed, ":")
	return strings.TrimSpace(trimmed)
}

// ParseText folds the input lines into an ordered sequence of sections.
// Each line is classified as a title line, a blank line, or a content
// line. Blank lines are discarded and do not reset the active section.
// Content lines before the first title line are discarded. A recurring
// title yields a distinct Section; merging by title text happens later
// in the output table, not here.
func ParseText(text string) []Section {
	var sections []Section
	active := -1 // index into sections, -1 until the first title line

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if IsTitleLine(line) {
			sections = append(sections, Section{Title: TitleOf(line)})
			active = len(sections) - 1
			continue
		}

		if active < 0 {
			// Stray content before the first title line.
			continue
		}
		sections[active].Lines = append(sections[active].Lines, trimmed)
	}

	return sections
}
