// Package reconcile compares a school's stored lessons against its externally
// maintained roster and aligns stored lessons to roster rows on request.
//
// # Architecture
//
// The package consists of four parts:
//
// 1. Sources: InternalSource and ExternalSource fetch the two record sets. Fetch
//    issues both concurrently and fails the whole comparison if either fails.
//
// 2. Engine: Compare normalizes identities (NormalizeName, NormalizeDate) and runs
//    two greedy rounds, exact then partial. A round visits stored lessons in order,
//    gathers unpaired roster rows satisfying the round's predicate and breaks ties
//    by teacher, then by start date, then by roster order. Leftovers on either side
//    become missing-in-internal / missing-in-external.
//
// 3. Differences: each pair is diffed field by field (student, duration, subject,
//    teacher, start date). Exact pairs without differences are matched; every other
//    pair is mismatched.
//
// 4. Aligner: CheckConflicts resolves the roster's teacher and subject and refuses
//    alignments that would make the current teacher's day overlap. Align writes the
//    roster values onto the stored lesson.
//
// # Determinism
//
// Pairing is order dependent: when two stored lessons contend for the same roster
// row, the earlier lesson wins. Re-running on the same inputs yields the same
// buckets and difference text.
//
// # Usage Example
//
//	engine := reconcile.NewEngine(logger)
//	result, err := engine.Run(ctx, schoolID, store, roster)
//
//	aligner := reconcile.NewAligner(store, store, store, logger)
//	if report := aligner.CheckConflicts(ctx, schoolID, pair.Internal, pair.External); report.Success {
//	    res := aligner.Align(ctx, schoolID, pair.Internal, pair.External)
//	}
package reconcile
