// Package source reads tabular snapshots and rule sheets.
//
// A source is addressed by URI:
//
//   - a local path, e.g. "data/Lastweekfile.xlsx"
//   - an object in a storage bucket, e.g. "s3://compare/snapshots/2024-06-01.csv"
//   - a database table, e.g. "db://fee_schedule"
//
// Files and objects are decoded by extension (.xlsx, .csv). Only the first sheet of a
// workbook is read. The result is a Table: a header row plus data rows, with cell text
// left untouched; trimming and column matching happen when a snapshot is built.
//
// # Usage
//
//	opener := source.NewOpener(storageClient, db)
//	table, err := opener.Open(ctx, "s3://compare/snapshots/current.xlsx")
package source
