// Package reconcile compares two time-ordered snapshots of procedure-code records
// and classifies every record as New, Termed, Modified or Unchanged.
//
// The engine is pure and in-memory. Sources, rule files and report layout live in
// sibling packages (core/source, core/scrub, core/report) and only exchange plain
// Records with this package.
//
// # Architecture
//
// The reconcile system consists of four main components:
//
// 1. Record model: a Schema names the key, compared and output columns. Snapshots are
// built from a header and raw rows, trimming values and failing with a
// MissingColumnError when a required column is absent.
//
// 2. Index: hash lookup by Key within one snapshot. The first occurrence of a key wins.
//
// 3. Engine: removes exact matches (multiset semantics), classifies the remaining
// current records as New or Modified by key lookup, and every unmatched previous
// key as Termed. Output order is New/Modified in current order followed by Termed in
// previous order.
//
// 4. Label registry: assigns every "Previous.<col>" / "Current.<col>" label a stable
// position at its first occurrence so the report assembler can lay out columns.
//
// # Usage Example
//
//	schema := reconcile.DefaultSchema()
//	previous, err := reconcile.NewSnapshot("previous", schema, header, rows)
//	current, err := reconcile.NewSnapshot("current", schema, header2, rows2)
//
//	plan, err := reconcile.Reconcile(schema, previous, current)
//	reconcile.Annotate(plan, ruleSet)
//
//	for _, rec := range plan.Records {
//	    fmt.Println(rec.Label(), rec.ScrubFlag(), rec.RuleDescription())
//	}
package reconcile
