package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	deckout "prepdeck/internal/modules/deck/port/out"
	"prepdeck/internal/platform/csvtable"
	apperrors "prepdeck/internal/platform/errors"
)

// FileSheetReader reads local sheet exports. CSV goes through the same parser
// as downloaded sheets; XLSX reads one worksheet with excelize.
type FileSheetReader struct {
	sheet string
}

// NewFileSheetReader reads the named worksheet of XLSX files, or the first
// one when sheet is empty.
func NewFileSheetReader(sheet string) deckout.SheetReader {
	return FileSheetReader{sheet: strings.TrimSpace(sheet)}
}

func (r FileSheetReader) ReadSheet(_ context.Context, path string) (csvtable.Result, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv", ".txt":
		data, err := os.ReadFile(path)
		if err != nil {
			return csvtable.Result{}, fmt.Errorf("read sheet %s: %w", path, err)
		}
		return csvtable.Parse(string(data)), nil
	case ".xlsx", ".xlsm":
		return r.readXLSX(path)
	default:
		return csvtable.Result{}, fmt.Errorf("%w: unsupported sheet format %q", apperrors.ErrInvalidInput, filepath.Ext(path))
	}
}

func (r FileSheetReader) readXLSX(path string) (csvtable.Result, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return csvtable.Result{}, fmt.Errorf("open xlsx %q: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	sheet := r.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return csvtable.Result{}, fmt.Errorf("xlsx %q: no sheets", filepath.Base(path))
		}
		sheet = sheets[0]
	} else if idx, _ := f.GetSheetIndex(sheet); idx == -1 {
		return csvtable.Result{}, fmt.Errorf("xlsx %q: missing sheet %q", filepath.Base(path), sheet)
	}

	records, err := f.GetRows(sheet)
	if err != nil {
		return csvtable.Result{}, fmt.Errorf("read %s rows: %w", sheet, err)
	}
	return csvtable.FromRecords(records), nil
}
