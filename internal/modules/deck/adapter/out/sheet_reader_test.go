package out_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	deckout "prepdeck/internal/modules/deck/adapter/out"
	apperrors "prepdeck/internal/platform/errors"
)

func writeXLSX(t *testing.T, path, sheet string, rows [][]any) {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	if sheet != "Sheet1" {
		if _, err := f.NewSheet(sheet); err != nil {
			t.Fatalf("new sheet: %v", err)
		}
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save xlsx: %v", err)
	}
}

func TestFileSheetReaderCSV(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "deck.csv")
	if err := os.WriteFile(path, []byte("\uFEFFID;Name\n1;1. Two Sum\n"), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	res, err := deckout.NewFileSheetReader("").ReadSheet(context.Background(), path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(res.Rows) != 1 || res.Rows[0].Value("Name") != "1. Two Sum" {
		t.Fatalf("unexpected rows %+v", res.Rows)
	}
}

func TestFileSheetReaderXLSX(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "deck.xlsx")
	writeXLSX(t, path, "Sheet1", [][]any{
		{" System Question ", "Familiarity", "Key Points"},
		{"Design a URL shortener", "low", "ids - SEPARATOR - storage"},
		{"", "", ""},
		{"Design a rate limiter"},
	})

	res, err := deckout.NewFileSheetReader("").ReadSheet(context.Background(), path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(res.Errors) != 0 {
		t.Fatalf("short spreadsheet rows are not errors: %v", res.Errors)
	}
	if len(res.Rows) != 2 {
		t.Fatalf("expected blank row dropped, got %d rows", len(res.Rows))
	}
	if res.Rows[0].Value("System Question") != "Design a URL shortener" || res.Rows[1].Value("Familiarity") != "" {
		t.Fatalf("unexpected rows %+v", res.Rows)
	}
}

func TestFileSheetReaderXLSXHeaderBelowBlankRow(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "deck.xlsx")
	writeXLSX(t, path, "Sheet1", [][]any{
		{" ", ""},
		{"ID", "Name"},
		{"1", "1. Two Sum"},
	})

	res, err := deckout.NewFileSheetReader("").ReadSheet(context.Background(), path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(res.Rows) != 1 || res.Rows[0].Value("ID") != "1" || res.Rows[0].Value("Name") != "1. Two Sum" {
		t.Fatalf("expected the header on row 2 to be used, got %d rows", len(res.Rows))
	}
}

func TestFileSheetReaderNamedSheetAndErrors(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "deck.xlsx")
	writeXLSX(t, path, "Coding", [][]any{{"ID", "Name"}, {"7", "7. Reverse Integer"}})

	res, err := deckout.NewFileSheetReader("Coding").ReadSheet(context.Background(), path)
	if err != nil || len(res.Rows) != 1 || res.Rows[0].Value("ID") != "7" {
		t.Fatalf("unexpected named sheet read %+v %v", res, err)
	}
	if _, err := deckout.NewFileSheetReader("Missing").ReadSheet(context.Background(), path); err == nil {
		t.Fatalf("expected missing sheet error")
	}
	if _, err := deckout.NewFileSheetReader("").ReadSheet(context.Background(), filepath.Join(dir, "deck.json")); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected unsupported format, got %v", err)
	}
}
