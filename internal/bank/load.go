package bank

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const ManifestName = "manifest.json"

// ErrBadPath is returned for manifest entries that point outside the
// content directory.
var ErrBadPath = errors.New("path escapes content directory")

type manifest struct {
	Quizzes []struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		Description string `json:"description"`
		File        string `json:"file"`
	} `json:"quizzes"`
	Labs []struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		Number      string `json:"number"`
		Description string `json:"description"`
		File        string `json:"file"`
	} `json:"labs"`
	Documents []Document `json:"documents"`
}

// LoadDir reads dir/manifest.json and every collection file it references.
// Questions without answers are dropped and reported as issues; anything
// unreadable is an error.
func LoadDir(dir string) (*Bank, []Issue, error) {
	raw, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if err != nil {
		return nil, nil, fmt.Errorf("read manifest: %w", err)
	}
	var m manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("parse manifest: %w", err)
	}

	b := &Bank{Documents: m.Documents}
	var issues []Issue

	for _, mq := range m.Quizzes {
		var qs []Question
		if err := readJSON(dir, mq.File, &qs); err != nil {
			return nil, nil, fmt.Errorf("quiz %s: %w", mq.ID, err)
		}
		kept := qs[:0]
		for i, q := range qs {
			if len(q.Answers) == 0 {
				issues = append(issues, Issue{Where: fmt.Sprintf("%s#%d", mq.ID, i+1), Problem: ProblemNoAnswers})
				continue
			}
			kept = append(kept, q)
		}
		b.Quizzes = append(b.Quizzes, Quiz{
			ID:          mq.ID,
			Title:       mq.Title,
			Description: mq.Description,
			Questions:   kept,
		})
	}

	for _, ml := range m.Labs {
		var ex []Exercise
		if err := readJSON(dir, ml.File, &ex); err != nil {
			return nil, nil, fmt.Errorf("lab %s: %w", ml.ID, err)
		}
		b.Labs = append(b.Labs, Lab{
			ID:          ml.ID,
			Title:       ml.Title,
			Number:      ml.Number,
			Description: ml.Description,
			Exercises:   ex,
		})
	}
	return b, issues, nil
}

func readJSON(dir, file string, v any) error {
	if file == "" {
		return fmt.Errorf("missing file")
	}
	rel := filepath.FromSlash(file)
	if !filepath.IsLocal(rel) {
		return fmt.Errorf("%s: %w", file, ErrBadPath)
	}
	raw, err := os.ReadFile(filepath.Join(dir, rel))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("parse %s: %w", file, err)
	}
	return nil
}
