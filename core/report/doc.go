// Package report lays out a reconcile plan as a flat sheet and writes it.
//
// The sheet header is the schema's output columns, then "Differences", "Scrub" and
// "Rule Description", then one column per diff label in the order the plan fixed
// them. Each row carries the reported record's output values, its classification
// text, its scrub flag and rule description, and its diff values under their label
// columns.
//
// Reports are encoded to memory first and only then published, so a failed run
// never leaves a partial file behind.
//
// # Usage
//
//	sheet := report.Assemble(plan, schema)
//	data, err := report.Encode(report.FormatXLSX, sheet)
//	name := report.FileName(report.DefaultPrefix, time.Now(), report.FormatXLSX)
//	location, err := report.NewPublisher(client).Publish(ctx, "s3://compare/reports", name, report.FormatXLSX, data)
package report
