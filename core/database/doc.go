// Package database opens the optional database that backs db:// snapshot sources.
//
// Connect wraps GORM with either the MySQL or the SQLite driver. GetTableColumns
// inspects a table's columns so integrity checks can confirm a fee schedule table
// exposes every column the comparison needs.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "fee_schedule")
package database
