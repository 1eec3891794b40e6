package ops

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tessling/rostermap/internal/config"
	"github.com/tessling/rostermap/internal/errors"
)

func writeInput(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "roster.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write input: %v", err)
	}
	return path
}

func TestConvert_HappyPath(t *testing.T) {
	tmpDir := t.TempDir()
	inPath := writeInput(t, tmpDir, "LIST ONE:\n\nJohn Doe (john.doe@example.com)\nJane Smith\n")
	outPath := filepath.Join(tmpDir, "out.csv")

	output, err := Convert(config.DefaultConfig(), ConvertInput{
		InputPath:  inPath,
		OutputPath: outPath,
		Domain:     "mybusiness.com",
	})
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	if output.Path != outPath {
		t.Errorf("Path = %q, want %q", output.Path, outPath)
	}
	if output.Rows != 2 {
		t.Errorf("Rows = %d, want 2", output.Rows)
	}
	if output.Lists != 1 {
		t.Errorf("Lists = %d, want 1", output.Lists)
	}
	if output.Records != 2 {
		t.Errorf("Records = %d, want 2", output.Records)
	}
	if output.Skipped != 0 {
		t.Errorf("Skipped = %d, want 0", output.Skipped)
	}
	if output.RunID == "" {
		t.Error("RunID should be set")
	}
	if output.ConvertedAt == 0 {
		t.Error("ConvertedAt should be set")
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	want := "List,Email\nLIST ONE,jane.smith@mybusiness.com\nLIST ONE,john.doe@example.com\n"
	if string(data) != want {
		t.Errorf("output = %q, want %q", string(data), want)
	}
}

func TestConvert_Idempotent(t *testing.T) {
	tmpDir := t.TempDir()
	inPath := writeInput(t, tmpDir, "LIST ONE:\nJohn Doe; Jane Smith\nPeter Jones <peter.jones@sample.org>\n")
	outPath := filepath.Join(tmpDir, "out.csv")

	cfg := config.DefaultConfig()
	input := ConvertInput{InputPath: inPath, OutputPath: outPath, Domain: "mybusiness.com"}

	if _, err := Convert(cfg, input); err != nil {
		t.Fatalf("first Convert failed: %v", err)
	}
	first, _ := os.ReadFile(outPath)

	if _, err := Convert(cfg, input); err != nil {
		t.Fatalf("second Convert failed: %v", err)
	}
	second, _ := os.ReadFile(outPath)

	if string(first) != string(second) {
		t.Errorf("output not byte-identical across runs:\n%q\n%q", first, second)
	}
}

func TestConvert_RecurringTitleMerged(t *testing.T) {
	tmpDir := t.TempDir()
	inPath := writeInput(t, tmpDir,
		"LIST TWO:\nJohn Doe\nLIST ONE:\nJane Smith\nLIST TWO:\nJohn Doe\nBob Brown\n")
	outPath := filepath.Join(tmpDir, "out.csv")

	output, err := Convert(config.DefaultConfig(), ConvertInput{
		InputPath:  inPath,
		OutputPath: outPath,
		Domain:     "mybusiness.com",
	})
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	// John Doe appears twice under LIST TWO across the recurrence; the
	// duplicate is dropped in the merged scope.
	if output.Rows != 3 {
		t.Errorf("Rows = %d, want 3", output.Rows)
	}
	if output.Lists != 2 {
		t.Errorf("Lists = %d, want 2", output.Lists)
	}

	data, _ := os.ReadFile(outPath)
	want := "List,Email\n" +
		"LIST TWO,bob.brown@mybusiness.com\n" +
		"LIST TWO,john.doe@mybusiness.com\n" +
		"LIST ONE,jane.smith@mybusiness.com\n"
	if string(data) != want {
		t.Errorf("output = %q, want %q", string(data), want)
	}
}

func TestConvert_SkipsUnresolvableRecords(t *testing.T) {
	tmpDir := t.TempDir()
	inPath := writeInput(t, tmpDir, "LIST ONE:\n-;\nJane Smith\n")
	outPath := filepath.Join(tmpDir, "out.csv")

	output, err := Convert(config.DefaultConfig(), ConvertInput{
		InputPath:  inPath,
		OutputPath: outPath,
		Domain:     "mybusiness.com",
	})
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if output.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", output.Skipped)
	}
	if output.Rows != 1 {
		t.Errorf("Rows = %d, want 1", output.Rows)
	}
}

func TestConvert_EmptyRosterWritesHeaderOnly(t *testing.T) {
	tmpDir := t.TempDir()
	inPath := writeInput(t, tmpDir, "no titles here\n")
	outPath := filepath.Join(tmpDir, "out.csv")

	output, err := Convert(config.DefaultConfig(), ConvertInput{
		InputPath:  inPath,
		OutputPath: outPath,
		Domain:     "mybusiness.com",
	})
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if output.Rows != 0 {
		t.Errorf("Rows = %d, want 0", output.Rows)
	}

	data, _ := os.ReadFile(outPath)
	if string(data) != "List,Email\n" {
		t.Errorf("output = %q, want header only", string(data))
	}
}

func TestConvert_MarkdownFormat(t *testing.T) {
	tmpDir := t.TempDir()
	inPath := writeInput(t, tmpDir, "## LIST ONE\n\nJane Smith\n")
	outPath := filepath.Join(tmpDir, "out.csv")

	_, err := Convert(config.DefaultConfig(), ConvertInput{
		InputPath:  inPath,
		OutputPath: outPath,
		Domain:     "mybusiness.com",
		Format:     FormatMarkdown,
	})
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	data, _ := os.ReadFile(outPath)
	want := "List,Email\nLIST ONE,jane.smith@mybusiness.com\n"
	if string(data) != want {
		t.Errorf("output = %q, want %q", string(data), want)
	}
}

func TestConvert_MissingInputFile(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := Convert(config.DefaultConfig(), ConvertInput{
		InputPath:  filepath.Join(tmpDir, "missing.txt"),
		OutputPath: filepath.Join(tmpDir, "out.csv"),
		Domain:     "mybusiness.com",
	})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(tmpDir, "out.csv")); statErr == nil {
		t.Error("output file should not exist after failed conversion")
	}
}

func TestConvert_MissingDomain(t *testing.T) {
	tmpDir := t.TempDir()
	inPath := writeInput(t, tmpDir, "LIST ONE:\nJane Smith\n")

	_, err := Convert(config.DefaultConfig(), ConvertInput{
		InputPath:  inPath,
		OutputPath: filepath.Join(tmpDir, "out.csv"),
	})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("expected INVALID_REQUEST, got %v", err)
	}
}

func TestConvert_ConfigDefaultDomain(t *testing.T) {
	tmpDir := t.TempDir()
	inPath := writeInput(t, tmpDir, "LIST ONE:\nJane Smith\n")
	outPath := filepath.Join(tmpDir, "out.csv")

	cfg := config.DefaultConfig()
	cfg.DefaultDomain = "fallback.org"

	if _, err := Convert(cfg, ConvertInput{InputPath: inPath, OutputPath: outPath}); err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	data, _ := os.ReadFile(outPath)
	if !strings.Contains(string(data), "jane.smith@fallback.org") {
		t.Errorf("output should use configured default domain, got %q", string(data))
	}
}

func TestConvert_InvalidDomain(t *testing.T) {
	tmpDir := t.TempDir()
	inPath := writeInput(t, tmpDir, "LIST ONE:\nJane Smith\n")

	_, err := Convert(config.DefaultConfig(), ConvertInput{
		InputPath:  inPath,
		OutputPath: filepath.Join(tmpDir, "out.csv"),
		Domain:     "not a domain",
	})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("expected INVALID_REQUEST, got %v", err)
	}
}

func TestConvert_InputTooLarge(t *testing.T) {
	tmpDir := t.TempDir()
	inPath := writeInput(t, tmpDir, "LIST ONE:\nJane Smith\n")

	cfg := config.DefaultConfig()
	cfg.MaxInputChars = 5

	_, err := Convert(cfg, ConvertInput{
		InputPath:  inPath,
		OutputPath: filepath.Join(tmpDir, "out.csv"),
		Domain:     "mybusiness.com",
	})
	if !errors.Is(err, errors.ErrInputTooLarge) {
		t.Errorf("expected INPUT_TOO_LARGE, got %v", err)
	}
}

func TestConvert_UnknownFormat(t *testing.T) {
	tmpDir := t.TempDir()
	inPath := writeInput(t, tmpDir, "LIST ONE:\nJane Smith\n")

	_, err := Convert(config.DefaultConfig(), ConvertInput{
		InputPath:  inPath,
		OutputPath: filepath.Join(tmpDir, "out.csv"),
		Domain:     "mybusiness.com",
		Format:     Format("yaml"),
	})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("expected INVALID_REQUEST, got %v", err)
	}
}

func TestConvert_NoTempFileLeftBehind(t *testing.T) {
	tmpDir := t.TempDir()
	inPath := writeInput(t, tmpDir, "LIST ONE:\nJane Smith\n")
	outPath := filepath.Join(tmpDir, "out.csv")

	if _, err := Convert(config.DefaultConfig(), ConvertInput{
		InputPath:  inPath,
		OutputPath: outPath,
		Domain:     "mybusiness.com",
	}); err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestConvert_UnwritableOutputLeavesNothing(t *testing.T) {
	tmpDir := t.TempDir()
	inPath := writeInput(t, tmpDir, "LIST ONE:\nJane Smith\n")

	// A regular file where the output directory should be makes the
	// write fail before anything lands on disk.
	blocker := filepath.Join(tmpDir, "blocker")
	if err := os.WriteFile(blocker, []byte("not a directory"), 0o644); err != nil {
		t.Fatalf("failed to write blocker file: %v", err)
	}
	outPath := filepath.Join(blocker, "out.csv")

	_, err := Convert(config.DefaultConfig(), ConvertInput{
		InputPath:  inPath,
		OutputPath: outPath,
		Domain:     "mybusiness.com",
	})
	if !errors.Is(err, errors.ErrInternal) {
		t.Fatalf("expected INTERNAL, got %v", err)
	}

	// Stat'ing a path under a regular file yields ENOTDIR, not ENOENT,
	// so check only that the stat did not succeed.
	if _, statErr := os.Stat(outPath); statErr == nil {
		t.Errorf("output file should not exist")
	}
	entries, readErr := os.ReadDir(tmpDir)
	if readErr != nil {
		t.Fatalf("ReadDir failed: %v", readErr)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestConvertText(t *testing.T) {
	output, err := ConvertText(config.DefaultConfig(), ConvertTextInput{
		RosterText: "LIST ONE:\nJohn Doe (john.doe@example.com)\nJane Smith\n",
		Domain:     "mybusiness.com",
	})
	if err != nil {
		t.Fatalf("ConvertText failed: %v", err)
	}

	if len(output.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(output.Rows))
	}
	if output.Rows[0].Email != "jane.smith@mybusiness.com" {
		t.Errorf("first row email = %q, want jane.smith@mybusiness.com", output.Rows[0].Email)
	}
	want := "List,Email\nLIST ONE,jane.smith@mybusiness.com\nLIST ONE,john.doe@example.com\n"
	if output.CSV != want {
		t.Errorf("CSV = %q, want %q", output.CSV, want)
	}
	if output.RunID == "" {
		t.Error("RunID should be set")
	}
}
