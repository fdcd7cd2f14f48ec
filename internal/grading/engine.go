package grading

import "github.com/mind-engage/archquiz/internal/bank"

// Unanswered marks a question with no selection.
const Unanswered = -1

// Result is the outcome of grading a whole exam.
type Result struct {
	Correct     int    `json:"correct"`
	Total       int    `json:"total"`
	PerQuestion []bool `json:"per_question"` // credited or not, by session position
}

// Credit reports whether a single selection earns the question's point: the
// selected answer must exist and be flagged correct. A question with several
// correct answers is credited by picking any one of them.
func Credit(answers []bank.Answer, selected int) bool {
	if selected == Unanswered || selected < 0 || selected >= len(answers) {
		return false
	}
	return answers[selected].Correct
}

// Tally grades every question against its selection. Missing selections
// count as unanswered.
func Tally(questions []bank.Question, selections []int) Result {
	res := Result{Total: len(questions), PerQuestion: make([]bool, len(questions))}
	for i, q := range questions {
		sel := Unanswered
		if i < len(selections) {
			sel = selections[i]
		}
		if Credit(q.Answers, sel) {
			res.PerQuestion[i] = true
			res.Correct++
		}
	}
	return res
}
