package reconcile

import "fmt"

// Reconcile classifies every record across previous and current.
//
// Current records that exactly match a previous record (all compared columns equal)
// are Unchanged and consume that previous record, so duplicates are matched one for
// one. The remaining current records are New when their key is absent from previous,
// otherwise Modified against the first previous record with that key. Previous records
// whose key is absent from current are Termed. New and Termed are reported per row, so
// a key repeated within one snapshot and absent from the other yields one row each.
//
// Records are returned New/Modified in current order, then Termed in previous order.
func Reconcile(schema Schema, previous, current *Snapshot) (*Plan, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	if previous == nil || current == nil {
		return nil, fmt.Errorf("reconcile requires both snapshots")
	}

	plan := &Plan{
		Records: []ClassifiedRecord{},
		Summary: Summary{
			Previous: previous.Len(),
			Current:  current.Len(),
		},
	}

	// Build indices
	previousIndex := NewIndex(schema, previous)
	currentIndex := NewIndex(schema, current)

	diffSet := eliminateExactMatches(schema, previous, current)
	plan.Summary.Unchanged = current.Len() - len(diffSet)

	labels := NewLabelRegistry()

	for _, rec := range diffSet {
		key := schema.KeyOf(rec)
		prevRec, found := previousIndex.Lookup(key)
		if !found {
			plan.Records = append(plan.Records, ClassifiedRecord{
				Key:            key,
				Record:         rec,
				Classification: ClassNew,
			})
			plan.Summary.New++
			continue
		}

		d := Diff(schema.CompareColumns, prevRec, rec)
		if d.Empty() {
			// A duplicate of an already consumed exact match; nothing to report.
			plan.Summary.DroppedZeroDiff++
			continue
		}
		for _, v := range d.Values {
			labels.Register(v.Label)
		}
		plan.Records = append(plan.Records, ClassifiedRecord{
			Key:            key,
			Record:         rec,
			Previous:       prevRec,
			Classification: ClassModified,
			ChangedColumns: d.Columns,
			Diffs:          d.Values,
		})
		plan.Summary.Modified++
	}

	for _, rec := range previous.Records {
		key := schema.KeyOf(rec)
		if currentIndex.Contains(key) {
			continue
		}
		plan.Records = append(plan.Records, ClassifiedRecord{
			Key:            key,
			Record:         rec,
			Classification: ClassTermed,
		})
		plan.Summary.Termed++
	}

	plan.Labels = labels.Labels()
	return plan, nil
}

// eliminateExactMatches returns the current records left after removing, one for one,
// those with a value-identical previous record. Order is preserved.
func eliminateExactMatches(schema Schema, previous, current *Snapshot) []Record {
	remaining := make(map[string]int, previous.Len())
	for _, rec := range previous.Records {
		remaining[schema.signature(rec)]++
	}

	diffSet := make([]Record, 0, current.Len())
	for _, rec := range current.Records {
		sig := schema.signature(rec)
		if remaining[sig] > 0 {
			remaining[sig]--
			continue
		}
		diffSet = append(diffSet, rec)
	}
	return diffSet
}
