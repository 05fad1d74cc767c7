package report

import (
	"procdiff/core/reconcile"
)

const (
	// ColDifferences holds the classification text.
	ColDifferences = "Differences"
	// ColScrub holds "Yes" for scrubbed records.
	ColScrub = "Scrub"
	// ColRuleDescription holds the matching rule's description.
	ColRuleDescription = "Rule Description"
)

// Sheet is an assembled report: one header row and one row per classified record.
type Sheet struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// Assemble lays out the plan. Label values land under their label column and every
// other label cell of the row stays empty.
func Assemble(plan *reconcile.Plan, schema reconcile.Schema) *Sheet {
	fixed := len(schema.OutputColumns) + 3

	header := make([]string, 0, fixed+len(plan.Labels))
	header = append(header, schema.OutputColumns...)
	header = append(header, ColDifferences, ColScrub, ColRuleDescription)
	header = append(header, plan.Labels...)

	position := make(map[string]int, len(plan.Labels))
	for i, label := range plan.Labels {
		position[label] = fixed + i
	}

	sheet := &Sheet{Header: header, Rows: make([][]string, 0, len(plan.Records))}
	for _, rec := range plan.Records {
		row := make([]string, len(header))
		for i, col := range schema.OutputColumns {
			row[i] = rec.Record[col]
		}
		row[fixed-3] = rec.Label()
		row[fixed-2] = rec.ScrubFlag()
		row[fixed-1] = rec.RuleDescription()

		for _, d := range rec.Diffs {
			if idx, ok := position[d.Label]; ok {
				row[idx] = d.Value
			}
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet
}
