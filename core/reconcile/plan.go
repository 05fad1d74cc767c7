package reconcile

// Matcher evaluates scrub rules against a record. It returns the description of the
// first matching rule.
type Matcher interface {
	Evaluate(rec Record) (description string, ok bool)
}

// Annotate evaluates matcher once per classified record, against the record being
// reported, and records the first match. A nil matcher leaves the plan untouched.
func Annotate(plan *Plan, matcher Matcher) {
	if plan == nil || matcher == nil {
		return
	}

	plan.Summary.Scrubbed = 0
	for i := range plan.Records {
		rec := &plan.Records[i]
		rec.ScrubMatch = nil
		if desc, ok := matcher.Evaluate(rec.Record); ok {
			d := desc
			rec.ScrubMatch = &d
			plan.Summary.Scrubbed++
		}
	}
}

// Count returns how many records carry the given classification.
func (p *Plan) Count(class Classification) int {
	n := 0
	for _, rec := range p.Records {
		if rec.Classification == class {
			n++
		}
	}
	return n
}
