package csvtable_test

import (
	"reflect"
	"testing"

	"prepdeck/internal/platform/csvtable"
)

func TestParseHeadersAndRows(t *testing.T) {
	t.Parallel()
	res := csvtable.Parse(" ID , Name \n1,Two Sum\n2,\"Add, Two\"\n")
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	want := []csvtable.Row{
		csvtable.NewRow("ID", "1", "Name", "Two Sum"),
		csvtable.NewRow("ID", "2", "Name", "Add, Two"),
	}
	if !reflect.DeepEqual(res.Rows, want) {
		t.Fatalf("headers should be trimmed, got %+v", res.Rows)
	}
}

func TestParseBOMAndLeadingBlankLinesAreIgnored(t *testing.T) {
	t.Parallel()
	plain := "ID,Name\n1,Two Sum\n"
	noisy := "\uFEFF\n,,\n" + plain
	a := csvtable.Parse(plain)
	b := csvtable.Parse(noisy)
	if !reflect.DeepEqual(a.Rows, b.Rows) {
		t.Fatalf("noisy input parsed differently: %+v vs %+v", a.Rows, b.Rows)
	}
	if len(b.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", b.Errors)
	}
}

func TestParseDetectsSemicolonAndTab(t *testing.T) {
	t.Parallel()
	res := csvtable.Parse("System Question;Familiarity\nDesign a cache;high\n")
	if len(res.Rows) != 1 || res.Rows[0].Value("Familiarity") != "high" {
		t.Fatalf("semicolon input not split: %+v", res.Rows)
	}
	res = csvtable.Parse("a\tb\n1\t2\n")
	if len(res.Rows) != 1 || res.Rows[0].Value("b") != "2" {
		t.Fatalf("tab input not split: %+v", res.Rows)
	}
}

func TestDetectDelimiter(t *testing.T) {
	t.Parallel()
	cases := map[string]rune{
		"a,b,c":         ',',
		"a;b;c,d":       ';',
		"a\tb\tc;d":     '\t',
		"single":        ',',
		"a,b;c\nx;y;z;": ',',
	}
	for in, want := range cases {
		if got := csvtable.DetectDelimiter(in); got != want {
			t.Fatalf("DetectDelimiter(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseDropsBlankRows(t *testing.T) {
	t.Parallel()
	res := csvtable.Parse("a,b\n1,2\n,\n  ,  \n\n3,4\n")
	if len(res.Rows) != 2 {
		t.Fatalf("expected blank rows to be dropped, got %+v", res.Rows)
	}
	if len(res.Errors) != 0 {
		t.Fatalf("blank rows should not be reported: %v", res.Errors)
	}
}

func TestParseShortRowKeepsPartialValuesAndReportsError(t *testing.T) {
	t.Parallel()
	res := csvtable.Parse("a,b,c\n1,2\n4,5,6\n")
	if len(res.Rows) != 2 {
		t.Fatalf("expected both rows, got %d", len(res.Rows))
	}
	if _, ok := res.Rows[0].Get("c"); ok {
		t.Fatalf("missing trailing field must be absent")
	}
	if res.Rows[0].Value("c") != "" {
		t.Fatalf("absent key should read as empty")
	}
	if len(res.Errors) != 1 || res.Errors[0] != "row 1: too few fields: expected 3 fields but parsed 2" {
		t.Fatalf("unexpected errors: %q", res.Errors)
	}
}

func TestParseStrayQuoteKeepsRow(t *testing.T) {
	t.Parallel()
	res := csvtable.Parse("ID,Name,Status\n1,Two \"Sum\" variant,red\n2,Add Two,green\n")
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	if len(res.Rows) != 2 {
		t.Fatalf("expected both rows, got %+v", res.Rows)
	}
	if got := res.Rows[0].Value("Name"); got != `Two "Sum" variant` {
		t.Fatalf("stray quotes must stay in the value, got %q", got)
	}
	if res.Rows[0].Value("Status") != "red" || res.Rows[1].Value("ID") != "2" {
		t.Fatalf("unexpected rows: %+v", res.Rows)
	}
}

func TestParseDuplicateHeadersAreSuffixed(t *testing.T) {
	t.Parallel()
	res := csvtable.Parse("Name,Name\nx,y\n")
	if len(res.Rows) != 1 || res.Rows[0].Value("Name") != "x" || res.Rows[0].Value("Name_1") != "y" {
		t.Fatalf("unexpected rows: %+v", res.Rows)
	}
}

func TestParseEmptyInput(t *testing.T) {
	t.Parallel()
	for _, in := range []string{"", "\uFEFF", "\n\n", ",,\n;;"} {
		res := csvtable.Parse(in)
		if len(res.Rows) != 0 || len(res.Errors) != 0 {
			t.Fatalf("Parse(%q) = %+v", in, res)
		}
	}
}

func TestFromRecordsIgnoresShortRecords(t *testing.T) {
	t.Parallel()
	res := csvtable.FromRecords([][]string{{" ID", "Name "}, {"7"}, {"", ""}})
	if len(res.Errors) != 0 || len(res.Rows) != 1 || res.Rows[0].Value("ID") != "7" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestFromRecordsSkipsLeadingBlankRecords(t *testing.T) {
	t.Parallel()
	res := csvtable.FromRecords([][]string{nil, {"", "  "}, {"ID", "Name"}, {"1", "Two Sum"}})
	if len(res.Rows) != 1 || res.Rows[0].Value("ID") != "1" || res.Rows[0].Value("Name") != "Two Sum" {
		t.Fatalf("header must come from the first non-blank record, got %+v", res.Rows)
	}
}
