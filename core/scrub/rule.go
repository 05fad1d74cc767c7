package scrub

import (
	"sort"
	"strings"

	"procdiff/core/reconcile"
)

// Rule flags records whose columns equal every condition.
type Rule struct {
	// Conditions maps a column name to its expected value. Never empty in a RuleSet.
	Conditions map[string]string `json:"conditions" yaml:"conditions"`

	// Description is the human-readable reason reported for matched records.
	Description string `json:"description" yaml:"description"`
}

// Matches reports whether every condition equals the record's value exactly.
// A column the record does not carry never matches, not even an empty expectation.
func (r Rule) Matches(rec reconcile.Record) bool {
	for col, expected := range r.Conditions {
		actual, ok := rec.Value(col)
		if !ok || actual != expected {
			return false
		}
	}
	return true
}

// String renders the rule's conditions in column order for logs and listings.
func (r Rule) String() string {
	cols := make([]string, 0, len(r.Conditions))
	for col := range r.Conditions {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	parts := make([]string, 0, len(cols))
	for _, col := range cols {
		parts = append(parts, col+"="+r.Conditions[col])
	}
	return strings.Join(parts, " AND ")
}

// RuleSet is an ordered list of rules. Declaration order is evaluation priority.
type RuleSet struct {
	rules   []Rule
	dropped int
}

// NewRuleSet keeps the rules in order and silently drops those without conditions.
func NewRuleSet(rules ...Rule) *RuleSet {
	rs := &RuleSet{rules: make([]Rule, 0, len(rules))}
	for _, r := range rules {
		if len(r.Conditions) == 0 {
			rs.dropped++
			continue
		}
		rs.rules = append(rs.rules, r)
	}
	return rs
}

// Evaluate returns the description of the first matching rule.
func (rs *RuleSet) Evaluate(rec reconcile.Record) (string, bool) {
	if rs == nil {
		return "", false
	}
	for _, r := range rs.rules {
		if r.Matches(rec) {
			return r.Description, true
		}
	}
	return "", false
}

// Rules returns the kept rules in evaluation order.
func (rs *RuleSet) Rules() []Rule {
	if rs == nil {
		return nil
	}
	out := make([]Rule, len(rs.rules))
	copy(out, rs.rules)
	return out
}

// Len returns the number of kept rules.
func (rs *RuleSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.rules)
}

// Dropped returns how many rules were excluded for having no conditions.
func (rs *RuleSet) Dropped() int {
	if rs == nil {
		return 0
	}
	return rs.dropped
}
