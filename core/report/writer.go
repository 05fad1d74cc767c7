package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet name of xlsx reports.
const SheetName = "Mismatch Records"

// Format is a report encoding.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat accepts xlsx, csv or json in any case. Empty means xlsx.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatXLSX, nil
	case FormatXLSX, FormatCSV, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown report format %q", s)
	}
}

// ContentType returns the MIME type used when publishing or serving the format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatJSON:
		return "application/json"
	default:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
}

// Encode renders the sheet to memory in the given format.
func Encode(format Format, sheet *Sheet) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case FormatXLSX:
		err = WriteXLSX(&buf, sheet)
	case FormatCSV:
		err = WriteCSV(&buf, sheet)
	case FormatJSON:
		err = WriteJSON(&buf, sheet)
	default:
		err = fmt.Errorf("unknown report format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteXLSX writes a workbook with a single "Mismatch Records" sheet.
func WriteXLSX(w io.Writer, sheet *Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := setRow(f, 1, sheet.Header); err != nil {
		return err
	}
	for i, row := range sheet.Rows {
		if err := setRow(f, i+2, row); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, n int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return err
	}
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
		return fmt.Errorf("failed to write row %d: %w", n, err)
	}
	return nil
}

// WriteCSV writes the header and rows as comma-separated values.
func WriteCSV(w io.Writer, sheet *Sheet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(sheet.Header); err != nil {
		return err
	}
	if err := cw.WriteAll(sheet.Rows); err != nil {
		return err
	}
	return cw.Error()
}

// WriteJSON writes the sheet as {"header": [...], "rows": [[...]]}.
func WriteJSON(w io.Writer, sheet *Sheet) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sheet)
}
