// Package file loads question sets from JSON or YAML files on disk.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"timed-quiz-service/internal/domain"
)

var extensions = []string{".json", ".yaml", ".yml"}

// QuestionLoader resolves a set id to <dir>/<setID>.{json,yaml,yml}.
type QuestionLoader struct {
	dir string
}

func NewQuestionLoader(dir string) *QuestionLoader {
	return &QuestionLoader{dir: dir}
}

func (l *QuestionLoader) LoadQuestions(_ context.Context, setID string) ([]domain.Question, error) {
	if setID == "" || filepath.Base(setID) != setID || strings.HasPrefix(setID, ".") {
		return nil, domain.ErrQuestionSetNotFound
	}
	for _, ext := range extensions {
		path := filepath.Join(l.dir, setID+ext)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, domain.ErrQuestionSetNotFound
}

// Sets lists the set ids available in the directory.
func (l *QuestionLoader) Sets() ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, err
	}
	var sets []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		for _, known := range extensions {
			if ext == known {
				sets = append(sets, strings.TrimSuffix(e.Name(), ext))
				break
			}
		}
	}
	return sets, nil
}

// LoadFile reads, validates and converts one question file. Every failure is a *domain.LoadError.
func LoadFile(path string) ([]domain.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &domain.LoadError{Source: path, Err: fmt.Errorf("%w: %v", domain.ErrQuestionSetNotFound, err)}
		}
		return nil, &domain.LoadError{Source: path, Err: err}
	}
	questions, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return nil, &domain.LoadError{Source: path, Err: err}
	}
	return questions, nil
}

// Decode parses a question document. ext selects YAML for ".yaml"/".yml" and JSON otherwise.
func Decode(data []byte, ext string) ([]domain.Question, error) {
	unmarshal := json.Unmarshal
	if ext == ".yaml" || ext == ".yml" {
		unmarshal = yaml.Unmarshal
	}

	var doc interface{}
	if err := unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if list, ok := doc.([]interface{}); ok && len(list) == 0 {
		return nil, domain.ErrEmptyQuestionSet
	}
	if err := questionSetSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	var records []domain.QuestionRecord
	if err := unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return domain.QuestionsFromRecords(records)
}
