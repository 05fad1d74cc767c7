package reconcile

// LabelRegistry fixes the position of each diff label at its first occurrence.
// Later occurrences reuse the recorded position.
type LabelRegistry struct {
	labels    []string
	positions map[string]int
}

// NewLabelRegistry creates an empty registry.
func NewLabelRegistry() *LabelRegistry {
	return &LabelRegistry{positions: make(map[string]int)}
}

// Register returns the label's position, appending it if unseen.
func (r *LabelRegistry) Register(label string) int {
	if pos, ok := r.positions[label]; ok {
		return pos
	}
	pos := len(r.labels)
	r.labels = append(r.labels, label)
	r.positions[label] = pos
	return pos
}

// Position returns the label's position if registered.
func (r *LabelRegistry) Position(label string) (int, bool) {
	pos, ok := r.positions[label]
	return pos, ok
}

// Labels returns the registered labels in position order.
func (r *LabelRegistry) Labels() []string {
	out := make([]string, len(r.labels))
	copy(out, r.labels)
	return out
}

// Len returns the number of registered labels.
func (r *LabelRegistry) Len() int {
	return len(r.labels)
}
