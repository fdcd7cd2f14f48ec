// Package record persists the outcome of a finished exam: the score and the
// moment it was taken, kept for a year.
package record

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

const (
	KeyScore = "examScore"
	KeyDate  = "examDate"

	TTL = 365 * 24 * time.Hour

	// DateLayout matches the ISO-8601 form browsers produce for Date.toISOString.
	DateLayout = "2006-01-02T15:04:05.000Z07:00"
)

type Record struct {
	Score int       `json:"score"`
	Date  time.Time `json:"date"`
}

func (r Record) scoreText() string { return strconv.Itoa(r.Score) }
func (r Record) dateText() string  { return r.Date.UTC().Format(DateLayout) }

func parse(score, date string) (Record, error) {
	n, err := strconv.Atoi(score)
	if err != nil {
		return Record{}, fmt.Errorf("score %q: %w", score, err)
	}
	t, err := time.Parse(time.RFC3339Nano, date)
	if err != nil {
		return Record{}, fmt.Errorf("date %q: %w", date, err)
	}
	return Record{Score: n, Date: t}, nil
}

// Writer persists a record. Implementations are best-effort; callers log
// failures and move on.
type Writer interface {
	Write(ctx context.Context, r Record) error
}

type WriterFunc func(ctx context.Context, r Record) error

func (f WriterFunc) Write(ctx context.Context, r Record) error { return f(ctx, r) }

type tee []Writer

// Tee writes to every non-nil writer in turn; one failing does not stop the
// others.
func Tee(ws ...Writer) Writer {
	out := make(tee, 0, len(ws))
	for _, w := range ws {
		if w != nil {
			out = append(out, w)
		}
	}
	return out
}

func (t tee) Write(ctx context.Context, r Record) error {
	var errs []error
	for _, w := range t {
		if err := w.Write(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// CookieWriter stores the record in the browser as two cookies.
type CookieWriter struct {
	W      http.ResponseWriter
	Secure bool
}

func (c CookieWriter) Write(_ context.Context, r Record) error {
	exp := r.Date.Add(TTL)
	for _, kv := range [][2]string{{KeyScore, r.scoreText()}, {KeyDate, r.dateText()}} {
		http.SetCookie(c.W, &http.Cookie{
			Name:     kv[0],
			Value:    kv[1],
			Path:     "/",
			Expires:  exp,
			MaxAge:   int(TTL / time.Second),
			Secure:   c.Secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return nil
}

// FromRequest reads a record previously set by CookieWriter.
func FromRequest(r *http.Request) (Record, bool) {
	s, err := r.Cookie(KeyScore)
	if err != nil {
		return Record{}, false
	}
	d, err := r.Cookie(KeyDate)
	if err != nil {
		return Record{}, false
	}
	rec, err := parse(s.Value, d.Value)
	if err != nil {
		return Record{}, false
	}
	return rec, true
}
