package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/archquiz/internal/assets"
	"github.com/mind-engage/archquiz/internal/bank"
)

type quizSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Questions   int    `json:"questions"`
}

type questionOut struct {
	Question string          `json:"question"`
	Solution string          `json:"solution,omitempty"`
	Answers  []bank.Answer   `json:"answers"`
	Images   []assets.Handle `json:"images"`
}

type quizOut struct {
	quizSummary
	Items []questionOut `json:"items"`
}

// GET /quizzes
func ListQuizzesHandler(h *bank.Holder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b := h.Load()
		out := make([]quizSummary, 0, len(b.Quizzes))
		for _, q := range b.Quizzes {
			out = append(out, quizSummary{ID: q.ID, Title: q.Title, Description: q.Description, Questions: len(q.Questions)})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// GET /quizzes/{id}
func GetQuizHandler(h *bank.Holder, res *assets.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := h.Load().Quiz(chi.URLParam(r, "id"))
		if errors.Is(err, bank.ErrNotFound) {
			http.Error(w, "quiz not found", http.StatusNotFound)
			return
		}
		out := quizOut{
			quizSummary: quizSummary{ID: q.ID, Title: q.Title, Description: q.Description, Questions: len(q.Questions)},
			Items:       make([]questionOut, 0, len(q.Questions)),
		}
		for _, item := range q.Questions {
			out.Items = append(out.Items, questionOut{
				Question: item.Prompt,
				Solution: item.Solution,
				Answers:  item.Answers,
				Images:   res.Images(r.Context(), item.Images),
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

type labSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Number      string `json:"number"`
	Description string `json:"description"`
	Exercises   int    `json:"exercises"`
}

type exerciseOut struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Question string          `json:"question,omitempty"`
	Solution string          `json:"solution,omitempty"`
	Images   []assets.Handle `json:"images"`
}

// GET /labs
func ListLabsHandler(h *bank.Holder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b := h.Load()
		out := make([]labSummary, 0, len(b.Labs))
		for _, l := range b.Labs {
			out = append(out, labSummary{ID: l.ID, Title: l.Title, Number: l.Number, Description: l.Description, Exercises: len(l.Exercises)})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// GET /labs/{id}
func GetLabHandler(h *bank.Holder, res *assets.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l, err := h.Load().Lab(chi.URLParam(r, "id"))
		if errors.Is(err, bank.ErrNotFound) {
			http.Error(w, "lab not found", http.StatusNotFound)
			return
		}
		out := struct {
			labSummary
			Items []exerciseOut `json:"items"`
		}{
			labSummary: labSummary{ID: l.ID, Title: l.Title, Number: l.Number, Description: l.Description, Exercises: len(l.Exercises)},
			Items:      make([]exerciseOut, 0, len(l.Exercises)),
		}
		for _, ex := range l.Exercises {
			out.Items = append(out.Items, exerciseOut{
				ID:       ex.ID,
				Title:    ex.Title,
				Question: ex.Question,
				Solution: ex.Solution,
				Images:   res.Images(r.Context(), ex.Images),
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// GET /documents
func ListDocumentsHandler(h *bank.Holder, res *assets.Resolver) http.HandlerFunc {
	type docOut struct {
		Title     string `json:"title"`
		File      string `json:"file"`
		URL       string `json:"url,omitempty"`
		Available bool   `json:"available"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		docs := h.Load().Documents
		out := make([]docOut, 0, len(docs))
		for _, d := range docs {
			o := docOut{Title: d.Title, File: d.File}
			if hd, ok := res.Document(r.Context(), d.File); ok {
				o.URL, o.Available = hd.URL, true
			}
			out = append(out, o)
		}
		writeJSON(w, http.StatusOK, out)
	}
}
