package bank

import (
	"fmt"
	"sync/atomic"
)

type Problem string

const (
	ProblemNoAnswers       Problem = "no answers"
	ProblemNoCorrect       Problem = "no correct answer"
	ProblemMultipleCorrect Problem = "more than one correct answer"
	ProblemMissingImage    Problem = "missing image"
	ProblemMissingDocument Problem = "missing document"
)

type Issue struct {
	Where   string  `json:"where"`
	Problem Problem `json:"problem"`
	Detail  string  `json:"detail,omitempty"`
}

func (i Issue) String() string {
	if i.Detail == "" {
		return fmt.Sprintf("%s: %s", i.Where, i.Problem)
	}
	return fmt.Sprintf("%s: %s (%s)", i.Where, i.Problem, i.Detail)
}

// Validate inspects content for problems that would make a question
// unscorable or an asset unreachable. Either lookup may be nil to skip that
// check.
func Validate(b *Bank, imageExists, docExists func(key string) bool) []Issue {
	if b == nil {
		return nil
	}
	var out []Issue
	for _, qz := range b.Quizzes {
		for i, q := range qz.Questions {
			where := fmt.Sprintf("%s#%d", qz.ID, i+1)
			switch n := q.CorrectCount(); {
			case len(q.Answers) == 0:
				out = append(out, Issue{Where: where, Problem: ProblemNoAnswers})
			case n == 0:
				out = append(out, Issue{Where: where, Problem: ProblemNoCorrect})
			case n > 1:
				out = append(out, Issue{Where: where, Problem: ProblemMultipleCorrect, Detail: fmt.Sprintf("%d correct", n)})
			}
			out = append(out, missingImages(where, q.Images, imageExists)...)
		}
	}
	for _, lab := range b.Labs {
		for i, ex := range lab.Exercises {
			out = append(out, missingImages(fmt.Sprintf("%s#%d", lab.ID, i+1), ex.Images, imageExists)...)
		}
	}
	if docExists != nil {
		for _, d := range b.Documents {
			if !docExists(d.File) {
				out = append(out, Issue{Where: d.Title, Problem: ProblemMissingDocument, Detail: d.File})
			}
		}
	}
	return out
}

func missingImages(where string, keys ImageSet, exists func(string) bool) []Issue {
	if exists == nil {
		return nil
	}
	var out []Issue
	for _, k := range keys {
		if !exists(k) {
			out = append(out, Issue{Where: where, Problem: ProblemMissingImage, Detail: k})
		}
	}
	return out
}

// Holder publishes the current bank; Swap replaces it for subsequent readers
// without disturbing sessions already sampled from the old one.
type Holder struct {
	p atomic.Pointer[Bank]
}

func NewHolder(b *Bank) *Holder {
	h := &Holder{}
	h.Swap(b)
	return h
}

func (h *Holder) Load() *Bank {
	if b := h.p.Load(); b != nil {
		return b
	}
	return &Bank{}
}

func (h *Holder) Swap(b *Bank) {
	if b == nil {
		b = &Bank{}
	}
	h.p.Store(b)
}
