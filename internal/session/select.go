package session

import (
	"fmt"

	"github.com/jaspervw/fastrec/internal/domain"
	"github.com/jaspervw/fastrec/internal/kb"
	"github.com/jaspervw/fastrec/internal/match"
)

// SelectNextQuestion picks the question to ask next, or nil when the
// conversation is done. Selection proceeds in stages:
//
//  1. Unanswered mandatory questions go first, in catalog order.
//  2. With one candidate or fewer left there is nothing to narrow down.
//  3. Remaining questions are kept only if they apply to a surviving
//     category, their ask_if preconditions hold, and their possible
//     answers differ in how many candidates would survive.
//  4. Each kept question is scored by its expected elimination power,
//     normalized so an even split over all answers scores 1.0.
//  5. While several categories survive, questions spanning more than
//     one of them are preferred over single-category ones.
//
// Scoring simulates every possible answer on a deep copy of the
// session, so selection never disturbs the live state.
func (s *Session) SelectNextQuestion() (*kb.Question, error) {
	if _, err := s.Infer(); err != nil {
		return nil, err
	}

	for _, id := range s.cat.KB.MandatoryQuestions {
		if _, answered := s.facts[id]; !answered {
			return s.cat.KB.Question(id)
		}
	}

	remaining := match.Filter(s.cat.KB.Fasteners, s.task)
	if len(remaining) <= 1 {
		return nil, nil
	}
	remainingCategories := match.Categories(remaining)

	type candidate struct {
		q        *kb.Question
		coverage int
		score    float64
	}
	var candidates []candidate

	for i := range s.cat.KB.Questions {
		q := &s.cat.KB.Questions[i]
		if s.asked[q.ID] {
			continue
		}
		coverage := categoryCoverage(q, remainingCategories)
		if coverage == 0 {
			continue
		}
		ok, err := s.preconditionsHold(q)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		counts, err := s.simulateAnswers(q, remaining)
		if err != nil {
			return nil, err
		}
		if !discriminates(counts) {
			continue
		}

		candidates = append(candidates, candidate{
			q:        q,
			coverage: coverage,
			score:    eliminationScore(counts, len(remaining)),
		})
	}

	if len(candidates) == 0 {
		return nil, nil
	}

	if len(remainingCategories) > 1 {
		var multi []candidate
		for _, c := range candidates {
			if c.coverage > 1 {
				multi = append(multi, c)
			}
		}
		if len(multi) > 0 {
			candidates = multi
		}
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.score > best.score {
			best = c
		}
	}

	// A question confined to one of several surviving categories would
	// steer the session into that category prematurely; stop instead.
	if best.coverage == 1 && len(remainingCategories) > 1 {
		for _, c := range candidates {
			if c.coverage > 1 {
				return nil, nil
			}
		}
	}

	return best.q, nil
}

// preconditionsHold evaluates a question's ask_if map against the task:
// every path must currently hold one of the expected values.
func (s *Session) preconditionsHold(q *kb.Question) (bool, error) {
	for path, expected := range q.AskIf {
		f, err := s.cat.Schema.Field(path)
		if err != nil {
			return false, fmt.Errorf("question %q ask_if: %w", q.ID, err)
		}
		got := normalizeValue(f.Get(s.task))
		matched := false
		for _, e := range expectedValues(expected) {
			if got == e {
				matched = true
				break
			}
		}
		if !matched {
			return false, nil
		}
	}
	return true, nil
}

// simulateAnswers counts, per possible answer, how many of the current
// candidates would survive if that answer were given. Each answer runs
// on its own clone of the session.
func (s *Session) simulateAnswers(q *kb.Question, subset []domain.Fastener) ([]int, error) {
	answers := q.Answers()
	counts := make([]int, 0, len(answers))
	for _, a := range answers {
		c := s.clone()
		if err := c.Answer(q.ID, a); err != nil {
			return nil, fmt.Errorf("simulating %q=%v: %w", q.ID, a, err)
		}
		if _, err := c.Infer(); err != nil {
			return nil, fmt.Errorf("simulating %q=%v: %w", q.ID, a, err)
		}
		n := 0
		for _, f := range subset {
			if match.Matches(f, c.task) {
				n++
			}
		}
		counts = append(counts, n)
	}
	return counts, nil
}

// discriminates reports whether the answers differ in how many
// candidates survive. A question whose every answer leaves the same
// count cannot tell the candidates apart.
func discriminates(counts []int) bool {
	for _, n := range counts[1:] {
		if n != counts[0] {
			return true
		}
	}
	return false
}

// eliminationScore normalizes the expected reduction of the candidate
// set: 0 means no answer eliminates anything, 1 means the answers
// partition the candidates evenly.
func eliminationScore(counts []int, total int) float64 {
	k := len(counts)
	if total <= 1 || k == 0 {
		return 0
	}
	sum := 0
	for _, n := range counts {
		sum += n
	}
	expected := float64(sum) / float64(k)
	maxReduction := float64(total) - float64(total)/float64(k)
	if maxReduction == 0 {
		return 0
	}
	return (float64(total) - expected) / maxReduction
}

// categoryCoverage counts the surviving categories a question applies
// to. An empty applicability list means the question applies to all.
func categoryCoverage(q *kb.Question, remaining map[domain.Category]bool) int {
	if len(q.ApplicableTo) == 0 {
		return len(remaining)
	}
	n := 0
	for _, c := range q.ApplicableTo {
		if remaining[c] {
			n++
		}
	}
	return n
}

func normalizeValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func expectedValues(expected any) []string {
	if list, ok := expected.([]any); ok {
		out := make([]string, len(list))
		for i, e := range list {
			out[i] = normalizeValue(e)
		}
		return out
	}
	return []string{normalizeValue(expected)}
}
