package ops

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tessling/rostermap/internal/config"
	"github.com/tessling/rostermap/internal/errors"
	"github.com/tessling/rostermap/internal/roster"
)

// ConvertInput contains parameters for the Convert operation.
type ConvertInput struct {
	InputPath  string
	OutputPath string
	Domain     string // falls back to cfg.DefaultDomain; required overall
	Format     Format // default: FormatText
}

// ConvertOutput contains the result of the Convert operation.
type ConvertOutput struct {
	Path        string `json:"path"`
	RunID       string `json:"run_id"`
	Lists       int    `json:"lists"`
	Rows        int    `json:"rows"`
	Records     int    `json:"records"`
	Skipped     int    `json:"skipped"`
	ConvertedAt int64  `json:"converted_at"`
}

// ConvertTextInput contains parameters for the ConvertText operation.
type ConvertTextInput struct {
	RosterText string
	Domain     string
	Format     Format
}

// ConvertTextOutput contains the result of the ConvertText operation.
type ConvertTextOutput struct {
	RunID   string       `json:"run_id"`
	Rows    []roster.Row `json:"rows"`
	CSV     string       `json:"csv"`
	Lists   int          `json:"lists"`
	Records int          `json:"records"`
	Skipped int          `json:"skipped"`
}

// Convert reads a roster file, runs the extraction pipeline, and writes
// the deduplicated List,Email CSV. Zero resolvable contacts still
// succeeds with a header-only file. The CSV is written to a temp file
// and renamed into place so a failed run leaves nothing behind.
func Convert(cfg *config.Config, input ConvertInput) (*ConvertOutput, error) {
	domain, err := resolveDomain(cfg, input.Domain)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.OutputPath) == "" {
		return nil, errors.NewInvalidRequest("output path is required")
	}

	text, err := readRoster(cfg, input.InputPath)
	if err != nil {
		return nil, err
	}

	table, records, skipped, err := runPipeline(text, input.Format, domain)
	if err != nil {
		return nil, err
	}

	rows := table.Rows()
	if err := writeCSV(input.OutputPath, table); err != nil {
		return nil, err
	}

	out := &ConvertOutput{
		Path:        input.OutputPath,
		RunID:       newRunID(),
		Lists:       countLists(rows),
		Rows:        len(rows),
		Records:     records,
		Skipped:     skipped,
		ConvertedAt: time.Now().Unix(),
	}

	logrus.WithFields(logrus.Fields{
		"run_id":  out.RunID,
		"lists":   out.Lists,
		"rows":    out.Rows,
		"records": out.Records,
		"skipped": out.Skipped,
	}).Debug("roster converted")

	return out, nil
}

// ConvertText runs the extraction pipeline over an in-memory roster and
// returns the rows inline along with the rendered CSV. Backs the MCP
// tools, which have no filesystem surface.
func ConvertText(cfg *config.Config, input ConvertTextInput) (*ConvertTextOutput, error) {
	domain, err := resolveDomain(cfg, input.Domain)
	if err != nil {
		return nil, err
	}

	table, records, skipped, err := runPipeline(input.RosterText, input.Format, domain)
	if err != nil {
		return nil, err
	}

	var buf strings.Builder
	if err := table.WriteCSV(&buf); err != nil {
		return nil, errors.NewInternal(err)
	}

	rows := table.Rows()
	return &ConvertTextOutput{
		RunID:   newRunID(),
		Rows:    rows,
		CSV:     buf.String(),
		Lists:   countLists(rows),
		Records: records,
		Skipped: skipped,
	}, nil
}

// runPipeline is the shared core: sections → records → resolved emails →
// deduplicated table. Returns the table plus record and skip counts.
// A record with no derivable email is counted as skipped, never fatal.
func runPipeline(text string, format Format, domain string) (*roster.Table, int, int, error) {
	sections, err := parseRoster(text, format)
	if err != nil {
		return nil, 0, 0, err
	}

	table := roster.NewTable()
	records, skipped := 0, 0
	for _, section := range sections {
		for _, line := range section.Lines {
			for _, record := range roster.SplitRecords(line) {
				records++
				email, ok := roster.Resolve(record, domain)
				if !ok {
					skipped++
					logrus.WithField("record", record).Debug("no email derivable, skipping")
					continue
				}
				table.Add(section.Title, email)
			}
		}
	}

	return table, records, skipped, nil
}

// writeCSV writes the table to path via a temp file and atomic rename,
// preserving any existing file on failure.
func writeCSV(path string, table *roster.Table) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to create output directory: %w", err))
	}

	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := path + "." + hex.EncodeToString(randBytes) + ".tmp"

	file, err := os.OpenFile(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return errors.NewInternal(fmt.Errorf("failed to create output file: %w", err))
	}

	success := false
	defer func() {
		if file != nil {
			file.Close()
		}
		if !success {
			os.Remove(tempPath)
		}
	}()

	if err := table.WriteCSV(file); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to write output: %w", err))
	}
	if err := file.Close(); err != nil {
		file = nil
		return errors.NewInternal(err)
	}
	file = nil

	if err := os.Rename(tempPath, path); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to finalize output: %w", err))
	}
	success = true
	return nil
}

// countLists counts distinct titles in rows. Rows are grouped by title,
// so counting transitions is enough.
func countLists(rows []roster.Row) int {
	lists := 0
	for i, row := range rows {
		if i == 0 || row.List != rows[i-1].List {
			lists++
		}
	}
	return lists
}
