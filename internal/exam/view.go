package exam

// Mark is how an answer is shown for the displayed question.
type Mark string

const (
	MarkSelected          Mark = "selected"
	MarkUnselected        Mark = "unselected"
	MarkCorrect           Mark = "correct"
	MarkIncorrectlyChosen Mark = "incorrectly-chosen"
	MarkOther             Mark = "other"
)

// Clickable reports whether an answer with this mark accepts a selection.
func (m Mark) Clickable() bool { return m == MarkSelected || m == MarkUnselected }

// Classify marks answer i of the displayed question. Before finishing only
// the selection is distinguished; afterwards correct answers and a wrong
// pick are revealed. Indexes outside the question yield "".
func (s *Session) Classify(i int) Mark {
	q, ok := s.Current()
	if !ok || i < 0 || i >= len(q.Answers) {
		return ""
	}
	picked := s.selected[s.index] == i
	if !s.finished {
		if picked {
			return MarkSelected
		}
		return MarkUnselected
	}
	switch {
	case q.Answers[i].Correct:
		return MarkCorrect
	case picked:
		return MarkIncorrectlyChosen
	default:
		return MarkOther
	}
}

// Marks classifies every answer of the displayed question.
func (s *Session) Marks() []Mark {
	q, ok := s.Current()
	if !ok {
		return nil
	}
	out := make([]Mark, len(q.Answers))
	for i := range q.Answers {
		out[i] = s.Classify(i)
	}
	return out
}

type AnswerView struct {
	Index     int    `json:"index"`
	Text      string `json:"text"`
	Mark      Mark   `json:"mark"`
	Clickable bool   `json:"clickable"`
}

// View is a render-ready snapshot of the session.
type View struct {
	SessionID string       `json:"session_id"`
	Empty     bool         `json:"empty"`
	Index     int          `json:"index"`
	Total     int          `json:"total"`
	Prompt    string       `json:"prompt,omitempty"`
	Solution  string       `json:"solution,omitempty"` // revealed after finishing
	Images    []string     `json:"images,omitempty"`
	Answers   []AnswerView `json:"answers"`
	Selected  *int         `json:"selected"`
	Answered  int          `json:"answered"`
	IsFirst   bool         `json:"is_first"`
	IsLast    bool         `json:"is_last"`
	CanFinish bool         `json:"can_finish"`
	Finished  bool         `json:"finished"`
	Score     *int         `json:"score"`
}

func (s *Session) View() View {
	v := View{
		SessionID: s.id,
		Empty:     s.Empty(),
		Index:     s.index,
		Total:     len(s.questions),
		Answers:   []AnswerView{},
		Answered:  s.Answered(),
		IsFirst:   s.IsFirst(),
		IsLast:    s.IsLast(),
		CanFinish: !s.finished && !s.Empty(),
		Finished:  s.finished,
	}
	if score, ok := s.Score(); ok {
		v.Score = &score
	}
	q, ok := s.Current()
	if !ok {
		return v
	}
	v.Prompt = q.Prompt
	v.Images = append([]string(nil), q.Images...)
	if s.finished {
		v.Solution = q.Solution
	}
	if sel := s.Selection(); sel != Unanswered {
		v.Selected = &sel
	}
	for i, a := range q.Answers {
		m := s.Classify(i)
		v.Answers = append(v.Answers, AnswerView{Index: i, Text: a.Text, Mark: m, Clickable: m.Clickable()})
	}
	return v
}
