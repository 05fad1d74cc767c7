package reconcile

import "strings"

// Diff label prefixes.
const (
	PreviousPrefix = "Previous."
	CurrentPrefix  = "Current."
)

// FieldDiff holds the differing compared columns of a (previous, current) pair.
type FieldDiff struct {
	// Columns lists differing columns in compared-column order.
	Columns []string

	// Values holds "Previous.<col>" then "Current.<col>" for each differing column.
	Values []LabeledValue
}

// Diff compares previous and current over columns using exact string equality.
func Diff(columns []string, previous, current Record) FieldDiff {
	var d FieldDiff
	for _, col := range columns {
		oldValue := previous[col]
		newValue := current[col]
		if oldValue == newValue {
			continue
		}
		d.Columns = append(d.Columns, col)
		d.Values = append(d.Values,
			LabeledValue{Label: PreviousPrefix + col, Value: oldValue},
			LabeledValue{Label: CurrentPrefix + col, Value: newValue},
		)
	}
	return d
}

// Empty reports whether no column differs.
func (d FieldDiff) Empty() bool {
	return len(d.Columns) == 0
}

// Summary returns the differing columns joined by ", ".
func (d FieldDiff) Summary() string {
	return strings.Join(d.Columns, ", ")
}

// Apply returns a copy of previous with every "Current." value written back onto its
// column. Applied to the matched previous record it reproduces the current record's
// compared values.
func (d FieldDiff) Apply(previous Record) Record {
	out := previous.Clone()
	for _, v := range d.Values {
		if col, ok := strings.CutPrefix(v.Label, CurrentPrefix); ok {
			out[col] = v.Value
		}
	}
	return out
}
