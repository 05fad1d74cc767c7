package reconcile

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// Default column names used by the weekly procedure-code files.
const (
	ColProcCode      = "Proc_code"
	ColModifiers     = "Modifiers"
	ColCMSAdd        = "CMSAdd"
	ColCMSTerm       = "CMSTerm"
	ColService       = "Service"
	ColServiceDesc   = "Service desc"
	ColRateType      = "RateType"
	ColPricingMethod = "Pricing Method"
	ColRateEff       = "Rate Eff"
	ColRateTerm      = "Rate Term"
	ColMaxFee        = "MAxFee"
)

// ErrMissingColumn is matched by MissingColumnError via errors.Is.
var ErrMissingColumn = errors.New("missing column")

// ErrInvalidSchema indicates a schema without key or compared columns.
var ErrInvalidSchema = errors.New("invalid schema")

// MissingColumnError reports required columns absent from a snapshot's header.
type MissingColumnError struct {
	Snapshot string
	Columns  []string
}

// Error implements the error interface
func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("snapshot %s is missing required columns: %s", e.Snapshot, strings.Join(e.Columns, ", "))
}

// Is implements errors.Is support
func (e *MissingColumnError) Is(target error) bool {
	return target == ErrMissingColumn
}

// Schema names the columns the engine works with.
type Schema struct {
	// KeyColumns build the cross-snapshot identity key.
	KeyColumns []string `json:"key_columns"`

	// CompareColumns determine equality and modification, in diff order.
	CompareColumns []string `json:"compare_columns"`

	// OutputColumns are always emitted in the report, in this order.
	OutputColumns []string `json:"output_columns"`
}

// DefaultSchema returns the column layout of the weekly procedure-code files.
func DefaultSchema() Schema {
	return Schema{
		KeyColumns: []string{ColProcCode, ColModifiers},
		CompareColumns: []string{
			ColProcCode, ColModifiers, ColCMSAdd, ColCMSTerm, ColService, ColServiceDesc,
			ColRateType, ColPricingMethod, ColRateEff, ColRateTerm, ColMaxFee,
		},
		OutputColumns: []string{
			ColProcCode, ColModifiers, ColCMSAdd, ColCMSTerm, ColRateEff, ColRateTerm, ColMaxFee,
		},
	}
}

// Validate checks that the schema has key and compared columns.
func (s Schema) Validate() error {
	if len(s.KeyColumns) == 0 {
		return fmt.Errorf("%w: no key columns", ErrInvalidSchema)
	}
	if len(s.CompareColumns) == 0 {
		return fmt.Errorf("%w: no compared columns", ErrInvalidSchema)
	}
	return nil
}

// Required returns the ordered union of key, compared and output columns.
func (s Schema) Required() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, group := range [][]string{s.KeyColumns, s.CompareColumns, s.OutputColumns} {
		for _, col := range group {
			if _, ok := seen[col]; ok {
				continue
			}
			seen[col] = struct{}{}
			out = append(out, col)
		}
	}
	return out
}

// KeyOf derives the identity key of a record.
func (s Schema) KeyOf(r Record) Key {
	return Key(s.join(s.KeyColumns, r))
}

// signature joins every compared value; two records are exact matches iff their
// signatures are equal.
func (s Schema) signature(r Record) string {
	return s.join(s.CompareColumns, r)
}

func (s Schema) join(columns []string, r Record) string {
	var b strings.Builder
	for i, col := range columns {
		if i > 0 {
			b.WriteString(keySeparator)
		}
		b.WriteString(r[col])
	}
	return b.String()
}

// NewSnapshot builds a snapshot from a header row and data rows.
//
// Header names are matched against the schema case-insensitively and records are keyed
// by the schema's spelling. Only required columns are kept. Values are trimmed, short
// rows are padded with "", and rows with no non-blank cell are skipped.
func NewSnapshot(name string, schema Schema, header []string, rows [][]string) (*Snapshot, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}

	required := schema.Required()
	positions, missing := resolveColumns(header, required)
	if len(missing) > 0 {
		return nil, &MissingColumnError{Snapshot: name, Columns: missing}
	}

	snapshot := &Snapshot{Name: name, Records: make([]Record, 0, len(rows))}
	for _, row := range rows {
		if isBlankRow(row) {
			continue
		}
		rec := make(Record, len(required))
		for _, col := range required {
			idx := positions[col]
			if idx < len(row) {
				rec[col] = strings.TrimSpace(row[idx])
			} else {
				rec[col] = ""
			}
		}
		snapshot.Records = append(snapshot.Records, rec)
	}

	return snapshot, nil
}

// resolveColumns maps each wanted column to its header position. The first matching
// header cell wins.
func resolveColumns(header []string, wanted []string) (map[string]int, []string) {
	fold := cases.Fold()
	byName := make(map[string]int, len(header))
	for i, h := range header {
		name := fold.String(strings.TrimSpace(h))
		if _, exists := byName[name]; !exists {
			byName[name] = i
		}
	}

	positions := make(map[string]int, len(wanted))
	var missing []string
	for _, col := range wanted {
		idx, ok := byName[fold.String(col)]
		if !ok {
			missing = append(missing, col)
			continue
		}
		positions[col] = idx
	}
	return positions, missing
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// MatchColumns reports which wanted columns a header lacks, using the same
// case-insensitive matching as NewSnapshot.
func MatchColumns(header []string, wanted []string) (missing []string) {
	_, missing = resolveColumns(header, wanted)
	return missing
}
