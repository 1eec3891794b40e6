package roster

import (
	"reflect"
	"strings"
	"testing"
)

func TestTable_DedupWithinTitle(t *testing.T) {
	table := NewTable()
	if !table.Add("LIST ONE", "john@example.com") {
		t.Error("first add should report inserted")
	}
	if table.Add("LIST ONE", "john@example.com") {
		t.Error("duplicate add should report dropped")
	}

	rows := table.Rows()
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
}

func TestTable_SameEmailUnderDifferentTitles(t *testing.T) {
	table := NewTable()
	table.Add("LIST ONE", "john@example.com")
	table.Add("LIST TWO", "john@example.com")

	rows := table.Rows()
	want := []Row{
		{List: "LIST ONE", Email: "john@example.com"},
		{List: "LIST TWO", Email: "john@example.com"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("Rows() = %#v, want %#v", rows, want)
	}
}

func TestTable_RecurringTitleMergesScope(t *testing.T) {
	// Two sections with identical title text share one dedup scope and
	// one output group, anchored at the title's first appearance.
	table := NewTable()
	table.Add("LIST TWO", "a@example.com")
	table.Add("LIST ONE", "b@example.com")
	table.Add("LIST TWO", "a@example.com") // dup across recurrence
	table.Add("LIST TWO", "c@example.com")

	rows := table.Rows()
	want := []Row{
		{List: "LIST TWO", Email: "a@example.com"},
		{List: "LIST TWO", Email: "c@example.com"},
		{List: "LIST ONE", Email: "b@example.com"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("Rows() = %#v, want %#v", rows, want)
	}
}

func TestTable_EmailsSortedWithinTitle(t *testing.T) {
	table := NewTable()
	table.Add("LIST ONE", "zoe@example.com")
	table.Add("LIST ONE", "adam@example.com")
	table.Add("LIST ONE", "mia@example.com")

	rows := table.Rows()
	emails := make([]string, len(rows))
	for i, r := range rows {
		emails[i] = r.Email
	}
	want := []string{"adam@example.com", "mia@example.com", "zoe@example.com"}
	if !reflect.DeepEqual(emails, want) {
		t.Errorf("emails = %v, want %v", emails, want)
	}
}

func TestTable_WriteCSV(t *testing.T) {
	table := NewTable()
	table.Add("LIST ONE", "john.doe@example.com")
	table.Add("LIST ONE", "jane.smith@mybusiness.com")

	var buf strings.Builder
	if err := table.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	want := "List,Email\nLIST ONE,jane.smith@mybusiness.com\nLIST ONE,john.doe@example.com\n"
	if buf.String() != want {
		t.Errorf("WriteCSV output = %q, want %q", buf.String(), want)
	}
}

func TestTable_WriteCSV_Empty(t *testing.T) {
	var buf strings.Builder
	if err := NewTable().WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}
	if buf.String() != "List,Email\n" {
		t.Errorf("empty table output = %q, want header only", buf.String())
	}
}

func TestTable_WriteCSV_QuotesCommaInTitle(t *testing.T) {
	table := NewTable()
	table.Add("Sales, EMEA", "a@example.com")

	var buf strings.Builder
	if err := table.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}
	want := "List,Email\n\"Sales, EMEA\",a@example.com\n"
	if buf.String() != want {
		t.Errorf("WriteCSV output = %q, want %q", buf.String(), want)
	}
}
