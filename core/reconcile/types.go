package reconcile

import "strings"

// Classification describes a record's status relative to the previous snapshot.
type Classification string

const (
	// ClassNew marks a key present in the current snapshot only.
	ClassNew Classification = "New"
	// ClassTermed marks a key present in the previous snapshot only.
	ClassTermed Classification = "Termed"
	// ClassModified marks a key present in both snapshots with at least one changed compared column.
	ClassModified Classification = "Modified"
	// ClassUnchanged marks a record matched exactly in the previous snapshot. Never emitted.
	ClassUnchanged Classification = "Unchanged"
)

const (
	// LabelNewCode is the Differences text for New records.
	LabelNewCode = "New code"
	// LabelTermedCode is the Differences text for Termed records.
	LabelTermedCode = "Termed code"
	// ScrubYes is the Scrub flag for records matched by a scrub rule.
	ScrubYes = "Yes"
)

// Record maps a column name to its trimmed string value.
type Record map[string]string

// Value returns the value of column and whether the record carries it at all.
func (r Record) Value(column string) (string, bool) {
	v, ok := r[column]
	return v, ok
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// keySeparator joins key parts. It is the ASCII unit separator, which never appears
// in spreadsheet text.
const keySeparator = "\x1f"

// Key identifies the same logical entry across snapshots, built from the schema's
// key columns (Proc_code, Modifiers by default).
type Key string

// Parts returns the individual key column values.
func (k Key) Parts() []string {
	return strings.Split(string(k), keySeparator)
}

// String renders the key for logs, e.g. "A1|26".
func (k Key) String() string {
	return strings.Join(k.Parts(), "|")
}

// Snapshot is one versioned capture of tabular records, in sheet order.
type Snapshot struct {
	// Name labels the snapshot in errors and logs (e.g. "previous").
	Name string `json:"name"`

	// Records holds the rows in their original order.
	Records []Record `json:"records"`
}

// Len returns the number of records in the snapshot.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Records)
}

// LabeledValue is one entry of a record's diff mapping, e.g. "Previous.Rate Eff" -> "2024-01-01".
type LabeledValue struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// ClassifiedRecord is the reconciliation output for a single reported row.
type ClassifiedRecord struct {
	// Key is the record's identity key.
	Key Key `json:"key"`

	// Record is the row being reported: the current record for New and Modified,
	// the previous record for Termed.
	Record Record `json:"record"`

	// Previous is the matched previous record. Only set for Modified.
	Previous Record `json:"previous,omitempty"`

	// Classification is the record's status.
	Classification Classification `json:"classification"`

	// ChangedColumns lists the differing compared columns in schema order. Modified only.
	ChangedColumns []string `json:"changed_columns,omitempty"`

	// Diffs holds the ordered Previous./Current. label values. Modified only.
	Diffs []LabeledValue `json:"diffs,omitempty"`

	// ScrubMatch is the description of the first matching scrub rule, nil if none matched.
	ScrubMatch *string `json:"scrub_match,omitempty"`
}

// Label returns the Differences text: "New code", "Termed code", or the comma-joined
// changed columns for Modified.
func (c ClassifiedRecord) Label() string {
	switch c.Classification {
	case ClassNew:
		return LabelNewCode
	case ClassTermed:
		return LabelTermedCode
	default:
		return strings.Join(c.ChangedColumns, ", ")
	}
}

// ScrubFlag returns "Yes" when a scrub rule matched, otherwise "".
func (c ClassifiedRecord) ScrubFlag() string {
	if c.ScrubMatch != nil {
		return ScrubYes
	}
	return ""
}

// RuleDescription returns the matching rule's description or "".
func (c ClassifiedRecord) RuleDescription() string {
	if c.ScrubMatch != nil {
		return *c.ScrubMatch
	}
	return ""
}

// Plan contains the classified records of one run plus the label layout and counts.
type Plan struct {
	// Records holds New/Modified in current order followed by Termed in previous order.
	Records []ClassifiedRecord `json:"records"`

	// Labels is the diff label order fixed at first occurrence across Records.
	Labels []string `json:"labels"`

	// Summary provides aggregate counts.
	Summary Summary `json:"summary"`
}

// Summary provides aggregate statistics for a reconcile plan.
type Summary struct {
	// Previous is the number of records in the previous snapshot.
	Previous int `json:"previous"`

	// Current is the number of records in the current snapshot.
	Current int `json:"current"`

	// New counts keys only present in the current snapshot.
	New int `json:"new"`

	// Modified counts current records with changed compared columns.
	Modified int `json:"modified"`

	// Termed counts previous records whose key vanished.
	Termed int `json:"termed"`

	// Unchanged counts current records removed by exact-match elimination.
	Unchanged int `json:"unchanged"`

	// DroppedZeroDiff counts key matches that reported no changed column.
	DroppedZeroDiff int `json:"dropped_zero_diff"`

	// Scrubbed counts records flagged by a scrub rule.
	Scrubbed int `json:"scrubbed"`
}
