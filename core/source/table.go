package source

import (
	"context"
	"fmt"

	"procdiff/core/database"
	"procdiff/core/utils"

	"gorm.io/gorm"
)

// ReadTable loads every row of a database table. Column names form the header and
// cell values are converted to strings (NULL becomes "").
func ReadTable(ctx context.Context, db *gorm.DB, table string) (*Table, error) {
	if err := database.ValidateTableName(table); err != nil {
		return nil, err
	}

	// Query all rows using raw SQL so arbitrary layouts scan into generic values
	query := fmt.Sprintf("SELECT * FROM %s", table)
	dbRows, err := db.WithContext(ctx).Raw(query).Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer dbRows.Close()

	columns, err := dbRows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	out := &Table{Header: columns}
	for dbRows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := dbRows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make([]string, len(columns))
		for i, v := range values {
			row[i] = utils.ToString(v)
		}
		out.Rows = append(out.Rows, row)
	}
	if err := dbRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", table, err)
	}

	return out, nil
}
