// Package tables classifies a report's results tables and walks their rows
// into outcome, arm, measure and comparison records.
//
// # Buckets
//
// [Classify] splits the results section at the subgroup-analyses marker and
// sorts every continuous and dichotomous results table into one of eight
// [Bucket] values: main or subgroup, continuous or dichotomous, two-arm or
// multi-arm.
//
// # Schemas
//
// Each bucket has a [Schema] describing its column layout. Schemas are
// registered globally and retrieved by bucket:
//
//	s := tables.Lookup(tables.MainTwoContinuous)
//	steps, cur, err := tables.Walk(grid, s, tables.Cursor{})
//
// # Walking
//
// [Schema.Next] is a pure function of the [Cursor] and one data row. It
// returns the [Step] the row contributes and the cursor for the next row.
// Two row rules exist:
//
//   - Paired tables alternate an opening row (even index) with a second-arm
//     row (odd index) that continues it.
//   - Other tables open a new outcome whenever the title cell is filled and
//     continue the previous one when it is blank.
//
// A [Writer] executes steps against a [store.Repository], resolving titles
// through a [resolver.Resolver].
package tables
