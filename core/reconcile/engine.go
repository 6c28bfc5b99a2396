package reconcile

import (
	"context"

	"go.uber.org/zap"
)

// Engine pairs a school's stored lessons with its roster rows.
// It keeps no state between calls and is safe for concurrent use.
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates an engine that reports diagnostics to logger.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// Run fetches both sources for a school concurrently and compares them.
// A failure of either fetch aborts the comparison.
func (e *Engine) Run(ctx context.Context, schoolID string, internal InternalSource, external ExternalSource) (*ComparisonResult, error) {
	internalLessons, externalLessons, err := Fetch(ctx, schoolID, internal, external)
	if err != nil {
		return nil, err
	}
	return e.Compare(internalLessons, externalLessons), nil
}

// Compare classifies every valid record into exactly one bucket.
//
// Round 1 pairs records satisfying exactMatch, round 2 pairs the remainder
// satisfying partialMatch, and whatever is left is missing on the other side.
// Internal lessons are visited in input order, so an earlier lesson wins a
// contested roster row.
func (e *Engine) Compare(internal []InternalLesson, external []ExternalLesson) *ComparisonResult {
	result := &ComparisonResult{
		Matched:           []MatchedPair{},
		Mismatched:        []MismatchedPair{},
		MissingInInternal: []ExternalLesson{},
		MissingInExternal: []InternalLesson{},
	}

	ins := e.prepareInternal(internal, &result.Summary)
	exs := e.prepareExternal(external, &result.Summary)

	inDone := make([]bool, len(ins))
	exDone := make([]bool, len(exs))

	e.matchRound(RoundExact, exactMatch, ins, exs, inDone, exDone, result)
	e.matchRound(RoundPartial, partialMatch, ins, exs, inDone, exDone, result)

	for i, ex := range exs {
		if !exDone[i] {
			result.MissingInInternal = append(result.MissingInInternal, ex.lesson)
		}
	}
	for i, in := range ins {
		if !inDone[i] {
			result.MissingInExternal = append(result.MissingInExternal, in.lesson)
		}
	}

	result.Summary.Matched = len(result.Matched)
	result.Summary.Mismatched = len(result.Mismatched)
	result.Summary.MissingInInternal = len(result.MissingInInternal)
	result.Summary.MissingInExternal = len(result.MissingInExternal)

	return result
}

// matchRound runs one greedy pass. Pairs from the partial round always land
// in Mismatched, even without field differences.
func (e *Engine) matchRound(
	round Round,
	match predicate,
	ins []*internalEntry,
	exs []*externalEntry,
	inDone, exDone []bool,
	result *ComparisonResult,
) {
	index := make(map[*externalEntry]int, len(exs))
	for j, ex := range exs {
		index[ex] = j
	}

	for i, in := range ins {
		if inDone[i] {
			continue
		}

		var candidates []*externalEntry
		for j, ex := range exs {
			if !exDone[j] && match(in, ex) {
				candidates = append(candidates, ex)
			}
		}
		if len(candidates) == 0 {
			continue
		}

		chosen := breakTie(in, candidates)
		inDone[i] = true
		exDone[index[chosen]] = true

		diffs := compareFields(in, chosen)
		if round == RoundExact && len(diffs) == 0 {
			result.Matched = append(result.Matched, MatchedPair{
				Internal: in.lesson,
				External: chosen.lesson,
				Round:    round,
			})
			continue
		}

		result.Mismatched = append(result.Mismatched, MismatchedPair{
			Internal:    in.lesson,
			External:    chosen.lesson,
			Round:       round,
			Differences: diffs,
		})
	}
}

func (e *Engine) prepareInternal(lessons []InternalLesson, summary *Summary) []*internalEntry {
	entries := make([]*internalEntry, 0, len(lessons))
	for _, l := range lessons {
		name := NormalizeName(l.StudentName)
		if name == "" {
			summary.ExcludedInternal++
			e.logger.Debug("Excluding internal lesson without student name", zap.String("lesson_id", l.ID))
			continue
		}

		var raw string
		if l.StartDate != nil {
			raw = *l.StartDate
		}
		date, ok := NormalizeDate(raw)
		if !ok {
			e.logger.Warn("Unrecognised start date on internal lesson",
				zap.String("lesson_id", l.ID),
				zap.String("start_date", raw),
			)
		}

		entries = append(entries, &internalEntry{lesson: l, name: name, date: date})
	}
	return entries
}

func (e *Engine) prepareExternal(lessons []ExternalLesson, summary *Summary) []*externalEntry {
	entries := make([]*externalEntry, 0, len(lessons))
	for _, l := range lessons {
		name := NormalizeName(l.StudentName)
		if name == "" {
			summary.ExcludedExternal++
			e.logger.Debug("Excluding roster row without student name", zap.Int("source_row", l.SourceRow))
			continue
		}

		date, ok := NormalizeDate(l.StartDate)
		if !ok {
			e.logger.Warn("Unrecognised start date on roster row",
				zap.Int("source_row", l.SourceRow),
				zap.String("start_date", l.StartDate),
			)
		}

		entries = append(entries, &externalEntry{lesson: l, name: name, date: date})
	}
	return entries
}
