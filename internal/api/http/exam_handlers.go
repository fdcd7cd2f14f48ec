package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mind-engage/archquiz/internal/assets"
	"github.com/mind-engage/archquiz/internal/exam"
	"github.com/mind-engage/archquiz/internal/record"
	syncx "github.com/mind-engage/archquiz/internal/sync"
)

// ExamDeps is what the exam handlers share.
type ExamDeps struct {
	Sessions      *exam.Manager
	Assets        *assets.Resolver
	Records       record.Store     // optional server-side copy of the record
	Events        *syncx.EventRepo // optional
	SecureCookies bool
	Logger        *slog.Logger
}

func (d ExamDeps) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

// recordWriter fans the finished record out to the browser and, when
// configured, to the server-side store and event log.
func (d ExamDeps) recordWriter(w http.ResponseWriter, client string) record.Writer {
	ws := []record.Writer{record.CookieWriter{W: w, Secure: d.SecureCookies}}
	if d.Records != nil {
		ws = append(ws, record.StoreWriter{Store: d.Records, Scope: client})
	}
	if d.Events != nil {
		ws = append(ws, d.Events.Writer(client))
	}
	return record.Tee(ws...)
}

type examViewOut struct {
	exam.View
	Image   *assets.Handle  `json:"image"`
	Handles []assets.Handle `json:"image_handles"`
}

func (d ExamDeps) render(w http.ResponseWriter, r *http.Request, status int, v exam.View) {
	out := examViewOut{View: v, Handles: d.Assets.Images(r.Context(), v.Images)}
	if len(out.Handles) > 0 {
		out.Image = &out.Handles[0]
	}
	writeJSON(w, status, out)
}

// act runs fn on the caller's session and renders the resulting view.
func (d ExamDeps) act(fn func(w http.ResponseWriter, r *http.Request, s *exam.Session)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		client, ok := clientID(w, r)
		if !ok {
			return
		}
		var v exam.View
		err := d.Sessions.With(client, func(s *exam.Session) error {
			fn(w, r, s)
			v = s.View()
			return nil
		})
		if errors.Is(err, exam.ErrNoSession) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		d.render(w, r, http.StatusOK, v)
	}
}

type indexReq struct {
	Index *int `json:"index"`
}

func decodeIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	var req indexReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Index == nil {
		http.Error(w, "index required", http.StatusBadRequest)
		return 0, false
	}
	return *req.Index, true
}

// POST /exam
func OpenExamHandler(d ExamDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		client, ok := clientID(w, r)
		if !ok {
			return
		}
		d.render(w, r, http.StatusCreated, d.Sessions.Open(client))
	}
}

// GET /exam
func GetExamHandler(d ExamDeps) http.HandlerFunc {
	return d.act(func(http.ResponseWriter, *http.Request, *exam.Session) {})
}

// POST /exam/answer {"index": n}
func AnswerHandler(d ExamDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		i, ok := decodeIndex(w, r)
		if !ok {
			return
		}
		d.act(func(_ http.ResponseWriter, _ *http.Request, s *exam.Session) { s.SelectAnswer(i) })(w, r)
	}
}

// POST /exam/goto {"index": n}
func GoToHandler(d ExamDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		i, ok := decodeIndex(w, r)
		if !ok {
			return
		}
		d.act(func(_ http.ResponseWriter, _ *http.Request, s *exam.Session) { s.GoTo(i) })(w, r)
	}
}

// POST /exam/next
func NextHandler(d ExamDeps) http.HandlerFunc {
	return d.act(func(_ http.ResponseWriter, _ *http.Request, s *exam.Session) { s.Next() })
}

// POST /exam/previous
func PreviousHandler(d ExamDeps) http.HandlerFunc {
	return d.act(func(_ http.ResponseWriter, _ *http.Request, s *exam.Session) { s.Previous() })
}

// POST /exam/finish
func FinishHandler(d ExamDeps) http.HandlerFunc {
	return d.act(func(w http.ResponseWriter, r *http.Request, s *exam.Session) {
		if s.Finished() {
			return
		}
		client, _ := clientID(w, r)
		score := s.Finish(r.Context(), d.recordWriter(w, client))
		if s.Finished() {
			d.logger().Info("exam finished", "client", client, "session", s.ID(), "score", score, "total", s.Len())
		}
	})
}

// DELETE /exam
func CloseExamHandler(d ExamDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		client, ok := clientID(w, r)
		if !ok {
			return
		}
		d.Sessions.Close(client)
		w.WriteHeader(http.StatusNoContent)
	}
}

// GET /exam/last-result
func LastResultHandler(d ExamDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		client, ok := clientID(w, r)
		if !ok {
			return
		}
		if rec, ok := record.FromRequest(r); ok {
			writeJSON(w, http.StatusOK, rec)
			return
		}
		if d.Records != nil {
			rec, ok, err := record.Latest(r.Context(), d.Records, client)
			if err != nil {
				d.logger().Warn("exam record read failed", "client", client, "err", err)
			}
			if ok {
				writeJSON(w, http.StatusOK, rec)
				return
			}
		}
		http.Error(w, "no exam record", http.StatusNotFound)
	}
}
