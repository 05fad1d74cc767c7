package reconcile

// Index gives average O(1) lookup of records by Key within one snapshot.
// When a key repeats, the first record in snapshot order wins.
type Index struct {
	records   []Record
	positions map[Key]int
}

// NewIndex builds an index over the snapshot's records.
func NewIndex(schema Schema, snapshot *Snapshot) *Index {
	idx := &Index{positions: make(map[Key]int, snapshot.Len())}
	if snapshot == nil {
		return idx
	}

	idx.records = snapshot.Records
	for i, rec := range snapshot.Records {
		key := schema.KeyOf(rec)
		if _, exists := idx.positions[key]; exists {
			continue
		}
		idx.positions[key] = i
	}
	return idx
}

// Lookup returns the first record carrying key.
func (i *Index) Lookup(key Key) (Record, bool) {
	pos, ok := i.positions[key]
	if !ok {
		return nil, false
	}
	return i.records[pos], true
}

// Contains reports whether any record carries key.
func (i *Index) Contains(key Key) bool {
	_, ok := i.positions[key]
	return ok
}

// Len returns the number of distinct keys.
func (i *Index) Len() int {
	return len(i.positions)
}
