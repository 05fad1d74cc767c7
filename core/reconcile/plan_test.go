package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// matcherFunc adapts a function to the Matcher interface.
type matcherFunc func(Record) (string, bool)

func (f matcherFunc) Evaluate(r Record) (string, bool) { return f(r) }

func TestAnnotate(t *testing.T) {
	previous := snap("previous",
		rec("A1", "", "2024-01-01", "10"),
		rec("T1", "", "2024-01-01", "10"),
	)
	current := snap("current",
		rec("A1", "", "2024-02-01", "10"),
		rec("N1", "", "2024-01-01", "10"),
	)

	plan, err := Reconcile(testSchema(), previous, current)
	require.NoError(t, err)

	var evaluated []string
	matcher := matcherFunc(func(r Record) (string, bool) {
		evaluated = append(evaluated, r[ColProcCode]+"@"+r[ColRateEff])
		if r[ColProcCode] == "T1" || r[ColProcCode] == "A1" {
			return "drop " + r[ColProcCode], true
		}
		return "", false
	})

	Annotate(plan, matcher)

	// Modified is evaluated against the current record, Termed against the previous one.
	assert.Equal(t, []string{"A1@2024-02-01", "N1@2024-01-01", "T1@2024-01-01"}, evaluated)

	assert.Equal(t, ScrubYes, plan.Records[0].ScrubFlag())
	assert.Equal(t, "drop A1", plan.Records[0].RuleDescription())
	assert.Equal(t, "", plan.Records[1].ScrubFlag())
	assert.Equal(t, "", plan.Records[1].RuleDescription())
	assert.Nil(t, plan.Records[1].ScrubMatch)
	assert.Equal(t, "drop T1", plan.Records[2].RuleDescription())
	assert.Equal(t, 2, plan.Summary.Scrubbed)
}

func TestAnnotate_NilMatcher(t *testing.T) {
	plan := &Plan{Records: []ClassifiedRecord{{Classification: ClassNew}}}
	Annotate(plan, nil)
	assert.Nil(t, plan.Records[0].ScrubMatch)
	Annotate(nil, matcherFunc(func(Record) (string, bool) { return "", true }))
}

func TestLabelRegistry(t *testing.T) {
	r := NewLabelRegistry()
	assert.Equal(t, 0, r.Register("Previous.MAxFee"))
	assert.Equal(t, 1, r.Register("Current.MAxFee"))
	assert.Equal(t, 0, r.Register("Previous.MAxFee"), "reused, not re-inserted")
	assert.Equal(t, 2, r.Register("Previous.CMSAdd"))

	pos, ok := r.Position("Current.MAxFee")
	assert.True(t, ok)
	assert.Equal(t, 1, pos)
	_, ok = r.Position("Current.CMSAdd")
	assert.False(t, ok)

	labels := r.Labels()
	assert.Equal(t, []string{"Previous.MAxFee", "Current.MAxFee", "Previous.CMSAdd"}, labels)
	labels[0] = "mutated"
	assert.Equal(t, "Previous.MAxFee", r.Labels()[0])
	assert.Equal(t, 3, r.Len())
}
