package views

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// Column maps a row to one exported cell.
type Column[T any] struct {
	Label string
	Value func(T) string
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// ExportCSV renders rows as CSV. Every field is quoted, rows keep their input
// order and are joined by "\n" with no trailing newline.
func ExportCSV[T any](rows []T, cols []Column[T]) string {
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = quote(c.Label)
	}

	lines := make([]string, len(rows))
	fields := make([]string, len(cols))
	for r, row := range rows {
		for i, c := range cols {
			fields[i] = quote(c.Value(row))
		}
		lines[r] = strings.Join(fields, ",")
	}
	return strings.Join(header, ",") + "\n" + strings.Join(lines, "\n")
}

// Sheet is one worksheet of an XLSX workbook.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]string
}

// NewSheet evaluates cols over rows into a worksheet.
func NewSheet[T any](name string, rows []T, cols []Column[T]) Sheet {
	s := Sheet{Name: name, Header: make([]string, len(cols)), Rows: make([][]string, len(rows))}
	for i, c := range cols {
		s.Header[i] = c.Label
	}
	for r, row := range rows {
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = c.Value(row)
		}
		s.Rows[r] = cells
	}
	return s
}

// ExportXLSX writes sheets as a workbook in the given order.
func ExportXLSX(w io.Writer, sheets ...Sheet) error {
	if len(sheets) == 0 {
		return errors.New("no sheets to export")
	}
	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.Name); err != nil {
				return errors.Wrapf(err, "rename sheet %q", s.Name)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			return errors.Wrapf(err, "create sheet %q", s.Name)
		}
		if err := writeRow(f, s.Name, 1, s.Header); err != nil {
			return err
		}
		for r, row := range s.Rows {
			if err := writeRow(f, s.Name, r+2, row); err != nil {
				return err
			}
		}
	}
	f.SetActiveSheet(0)
	return errors.Wrap(f.Write(w), "write workbook")
}

func writeRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return errors.WithStack(err)
	}
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return errors.Wrapf(f.SetSheetRow(sheet, cell, &cells), "write %s row %d", sheet, row)
}
