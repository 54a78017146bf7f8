// Package resolver matches outcome and arm labels from report tables to the
// records already created for a study.
//
// Report text often rephrases the same outcome from one table to the next,
// so outcomes are resolved in three steps:
//
//  1. an exact, case-insensitive title match ([Found]);
//  2. otherwise the existing outcome with the highest word-overlap score,
//     earliest created winning ties ([Ambiguous]);
//  3. otherwise a new outcome with a default timepoint ([Created]), reported
//     to the [Recorder] for manual review.
//
// Arms match by case-insensitive prefix and are created with the next
// display number when nothing matches.
//
//	res := resolver.New(tx, studyID, resolver.WithExtractionForm(194))
//	r, err := res.Outcome(ctx, "Bone mineral density", "g/cm2", model.OutcomeContinuous)
//	if r.Kind == resolver.Created { ... }
package resolver
