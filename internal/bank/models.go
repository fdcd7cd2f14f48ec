package bank

import (
	"encoding/json"
	"errors"
	"strings"
)

var ErrNotFound = errors.New("not found")

type Answer struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

type Question struct {
	Prompt   string   `json:"question"`
	Solution string   `json:"solution,omitempty"`
	Images   ImageSet `json:"image,omitempty"`
	Answers  []Answer `json:"answers"`
}

// CorrectCount reports how many answers are flagged correct.
func (q Question) CorrectCount() int {
	n := 0
	for _, a := range q.Answers {
		if a.Correct {
			n++
		}
	}
	return n
}

type Quiz struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Questions   []Question `json:"questions"`
}

type Exercise struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Question string   `json:"question,omitempty"`
	Solution string   `json:"solution,omitempty"`
	Images   ImageSet `json:"image,omitempty"`
}

type Lab struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Number      string     `json:"number"`
	Description string     `json:"description"`
	Exercises   []Exercise `json:"exercises"`
}

type Document struct {
	Title string `json:"title"`
	File  string `json:"file"`
}

// ImageSet holds asset keys. The bundled data writes a lone key as a plain
// string and several keys as an array; both decode here.
type ImageSet []string

func (s *ImageSet) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	switch {
	case raw == "null":
		*s = nil
		return nil
	case strings.HasPrefix(raw, "["):
		var keys []string
		if err := json.Unmarshal(b, &keys); err != nil {
			return err
		}
		*s = compact(keys)
		return nil
	default:
		var key string
		if err := json.Unmarshal(b, &key); err != nil {
			return err
		}
		*s = compact([]string{key})
		return nil
	}
}

func compact(keys []string) ImageSet {
	out := make(ImageSet, 0, len(keys))
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Bank is the full read-only content set.
type Bank struct {
	Quizzes   []Quiz     `json:"quizzes"`
	Labs      []Lab      `json:"labs"`
	Documents []Document `json:"documents"`
}

// Pool flattens every quiz's questions, in quiz order, into the exam pool.
// Labs are not part of the pool.
func (b *Bank) Pool() []Question {
	if b == nil {
		return nil
	}
	n := 0
	for _, q := range b.Quizzes {
		n += len(q.Questions)
	}
	out := make([]Question, 0, n)
	for _, q := range b.Quizzes {
		out = append(out, q.Questions...)
	}
	return out
}

func (b *Bank) Quiz(id string) (Quiz, error) {
	if b != nil {
		for _, q := range b.Quizzes {
			if q.ID == id {
				return q, nil
			}
		}
	}
	return Quiz{}, ErrNotFound
}

func (b *Bank) Lab(id string) (Lab, error) {
	if b != nil {
		for _, l := range b.Labs {
			if l.ID == id {
				return l, nil
			}
		}
	}
	return Lab{}, ErrNotFound
}
