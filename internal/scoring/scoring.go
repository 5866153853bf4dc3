// Package scoring computes per-question correctness and the aggregate score
// for a quiz submission. It is a pure computation: no I/O, no shared state,
// safe for concurrent use.
package scoring

import (
	"fmt"
	"math"
	"strings"

	"quizhub_backend/internal/model"
)

// Question is the minimal view of a stored question needed for scoring.
type Question struct {
	ID      string
	Text    string
	Type    model.QuestionType
	Options []Option
}

type Option struct {
	ID        string
	Text      string
	IsCorrect bool
}

// Answer is one submitted answer. Exactly one of SelectedOptionIDs and
// TextAnswer is set; the validation gate enforces that before scoring.
type Answer struct {
	QuestionID        string
	SelectedOptionIDs []string
	TextAnswer        string
}

// AnswerResult is the verdict for a single submitted answer. CorrectAnswer
// carries the canonical answer text for single-choice and text questions,
// CorrectAnswers the option texts (in option order) for multiple-choice.
type AnswerResult struct {
	QuestionID     string   `json:"questionId"`
	IsCorrect      bool     `json:"isCorrect"`
	CorrectAnswer  string   `json:"correctAnswer,omitempty"`
	CorrectAnswers []string `json:"correctAnswers,omitempty"`
}

type Result struct {
	Results    []AnswerResult `json:"results"`
	Score      int            `json:"score"`
	Total      int            `json:"total"`
	Percentage int            `json:"percentage"`
}

// UnknownQuestionError reports an answer referencing a question that does not
// belong to the quiz being scored. It aborts the whole submission.
type UnknownQuestionError struct {
	QuestionID string
}

func (e *UnknownQuestionError) Error() string {
	return fmt.Sprintf("answer references unknown question %q", e.QuestionID)
}

// Score grades answers against questions. Total counts every question in the
// quiz, answered or not; unanswered questions simply contribute nothing to
// Score. A question is credited at most once, so Score never exceeds Total
// even when answers repeat a question. Results come back in submission order.
// The only error condition is an answer naming a question outside the given
// set - partial results are never returned.
func Score(questions []Question, answers []Answer) (*Result, error) {
	byID := make(map[string]*Question, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}

	results := make([]AnswerResult, 0, len(answers))
	credited := make(map[string]struct{}, len(questions))
	correct := 0

	for _, ans := range answers {
		q, ok := byID[ans.QuestionID]
		if !ok {
			return nil, &UnknownQuestionError{QuestionID: ans.QuestionID}
		}

		var res AnswerResult
		switch q.Type {
		case model.Text:
			res = scoreText(q, ans)
		case model.SingleChoice:
			res = scoreSingleChoice(q, ans)
		case model.MultipleChoice:
			res = scoreMultipleChoice(q, ans)
		default:
			// Unknown stored type: marked incorrect rather than aborting.
			res = AnswerResult{QuestionID: q.ID}
		}

		if res.IsCorrect {
			if _, seen := credited[q.ID]; !seen {
				credited[q.ID] = struct{}{}
				correct++
			}
		}
		results = append(results, res)
	}

	total := len(questions)
	return &Result{
		Results:    results,
		Score:      correct,
		Total:      total,
		Percentage: percentage(correct, total),
	}, nil
}

// scoreText compares the submitted text with the question's canonical answer,
// ignoring case and leading/trailing whitespace. Internal whitespace counts.
func scoreText(q *Question, ans Answer) AnswerResult {
	res := AnswerResult{QuestionID: q.ID}

	answerKey, ok := firstCorrectOption(q)
	if !ok {
		return res
	}
	res.CorrectAnswer = answerKey.Text

	if ans.TextAnswer == "" {
		return res
	}
	res.IsCorrect = strings.EqualFold(
		strings.TrimSpace(ans.TextAnswer),
		strings.TrimSpace(answerKey.Text),
	)
	return res
}

// scoreSingleChoice requires exactly one selected option matching the single
// correct one. A malformed question with zero or several correct options is
// never correct; create/update validation is the enforcement point for that
// invariant, not the engine.
func scoreSingleChoice(q *Question, ans Answer) AnswerResult {
	res := AnswerResult{QuestionID: q.ID}

	if key, ok := firstCorrectOption(q); ok {
		res.CorrectAnswer = key.Text
	}

	correctIDs := correctOptionIDs(q)
	if len(correctIDs) != 1 || len(ans.SelectedOptionIDs) != 1 {
		return res
	}
	res.IsCorrect = ans.SelectedOptionIDs[0] == correctIDs[0]
	return res
}

// scoreMultipleChoice holds iff the selected set equals the correct set.
// Order is irrelevant and duplicate selections collapse; an extra or missing
// selection is simply wrong.
func scoreMultipleChoice(q *Question, ans Answer) AnswerResult {
	res := AnswerResult{QuestionID: q.ID}

	correctSet := make(map[string]struct{})
	for _, opt := range q.Options {
		if opt.IsCorrect {
			correctSet[opt.ID] = struct{}{}
			res.CorrectAnswers = append(res.CorrectAnswers, opt.Text)
		}
	}

	selectedSet := make(map[string]struct{}, len(ans.SelectedOptionIDs))
	for _, id := range ans.SelectedOptionIDs {
		selectedSet[id] = struct{}{}
	}

	res.IsCorrect = len(correctSet) > 0 && setEqual(correctSet, selectedSet)
	return res
}

func firstCorrectOption(q *Question) (Option, bool) {
	for _, opt := range q.Options {
		if opt.IsCorrect {
			return opt, true
		}
	}
	return Option{}, false
}

func correctOptionIDs(q *Question) []string {
	var ids []string
	for _, opt := range q.Options {
		if opt.IsCorrect {
			ids = append(ids, opt.ID)
		}
	}
	return ids
}

func setEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

// percentage rounds half away from zero, so 12.5% reports as 13.
func percentage(score, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(score) / float64(total)))
}
