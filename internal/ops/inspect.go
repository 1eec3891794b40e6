package ops

import (
	"github.com/tessling/rostermap/internal/config"
	"github.com/tessling/rostermap/internal/errors"
	"github.com/tessling/rostermap/internal/roster"
)

// Resolution sources reported per record.
const (
	SourceEmbedded    = "embedded"    // address was present in the record
	SourceSynthesized = "synthesized" // address built from the name + domain
	SourceSkipped     = "skipped"     // no email derivable
)

// InspectInput contains parameters for the Inspect operation. Exactly
// one of InputPath or RosterText must be provided.
type InspectInput struct {
	InputPath  string
	RosterText string
	Domain     string
	Format     Format
}

// InspectOutput contains the result of the Inspect operation.
type InspectOutput struct {
	RunID   string       `json:"run_id"`
	Lists   []ListReport `json:"lists"`
	Records int          `json:"records"`
	Skipped int          `json:"skipped"`
}

// ListReport describes one section of the roster.
type ListReport struct {
	Title   string         `json:"title"`
	Records []RecordReport `json:"records"`
}

// RecordReport describes how a single contact record resolved.
type RecordReport struct {
	Record string `json:"record"`
	Email  string `json:"email,omitempty"`
	Source string `json:"source"`
}

// Inspect parses a roster without writing anything, reporting section
// structure and how each record would resolve. Read-only diagnostic
// behind the CLI inspect command and the roster_inspect MCP tool.
func Inspect(cfg *config.Config, input InspectInput) (*InspectOutput, error) {
	domain, err := resolveDomain(cfg, input.Domain)
	if err != nil {
		return nil, err
	}

	text := input.RosterText
	if input.InputPath != "" {
		if text != "" {
			return nil, errors.NewInvalidRequest("cannot specify both input path and roster text")
		}
		text, err = readRoster(cfg, input.InputPath)
		if err != nil {
			return nil, err
		}
	}

	sections, err := parseRoster(text, input.Format)
	if err != nil {
		return nil, err
	}

	out := &InspectOutput{RunID: newRunID(), Lists: []ListReport{}}
	for _, section := range sections {
		report := ListReport{Title: section.Title, Records: []RecordReport{}}
		for _, line := range section.Lines {
			for _, record := range roster.SplitRecords(line) {
				out.Records++
				rr := inspectRecord(record, domain)
				if rr.Source == SourceSkipped {
					out.Skipped++
				}
				report.Records = append(report.Records, rr)
			}
		}
		out.Lists = append(out.Lists, report)
	}

	return out, nil
}

// inspectRecord resolves one record and labels where the email came
// from.
func inspectRecord(record, domain string) RecordReport {
	if email, ok := roster.ExtractEmbedded(record); ok {
		return RecordReport{Record: record, Email: email, Source: SourceEmbedded}
	}
	if email, ok := roster.Synthesize(record, domain); ok {
		return RecordReport{Record: record, Email: email, Source: SourceSynthesized}
	}
	return RecordReport{Record: record, Source: SourceSkipped}
}
