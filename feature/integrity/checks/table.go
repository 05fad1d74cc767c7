package checks

import (
	"fmt"

	"procdiff/core/database"
	"procdiff/core/reconcile"

	"gorm.io/gorm"
)

// TableReport is the result of checking a snapshot table's columns.
type TableReport struct {
	Table   string   `json:"table"`
	Matched bool     `json:"matched"`
	Columns []string `json:"columns"`
	Missing []string `json:"missing_columns"`
	Status  string   `json:"status"` // "ok", "error"
}

// CheckTable verifies that table exposes every required column. Names match
// case-insensitively, as they do when the table is read as a snapshot.
func CheckTable(db *gorm.DB, table string, required []string) (*TableReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	columns, err := database.GetTableColumns(db, table)
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s not found or has no columns", table)
	}

	report := &TableReport{
		Table:   table,
		Columns: database.ColumnNames(columns),
		Missing: []string{},
		Status:  "ok",
		Matched: true,
	}
	if missing := reconcile.MatchColumns(report.Columns, required); len(missing) > 0 {
		report.Missing = missing
		report.Matched = false
		report.Status = "error"
	}
	return report, nil
}
