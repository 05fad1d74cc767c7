// Package scrub evaluates ordered scrub rules against procedure-code records.
//
// A rule is a set of column conditions plus a description. Rules are evaluated in
// declaration order and the first rule whose conditions all equal the record's values
// wins. Rules without conditions are dropped when the rule set is built.
//
// Rules are read either from a spreadsheet (description in column B, conditions in
// columns C..F named by the header row) or from a YAML document.
package scrub
