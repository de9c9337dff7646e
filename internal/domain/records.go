package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Wire option identifiers used by question files, snapshots and the WebSocket protocol.
var wireKeys = [4]string{"opt1", "opt2", "opt3", "opt4"}

// Wire returns the "optN" identifier for k, or "" for OptionNone.
// Keys outside A..D are passed through unchanged.
func (k OptionKey) Wire() string {
	if i := k.index(); i >= 0 {
		return wireKeys[i]
	}
	return string(k)
}

// ParseWireKey converts "opt1".."opt4" to an option key.
func ParseWireKey(raw string) (OptionKey, error) {
	for i, w := range wireKeys {
		if w == raw {
			return OptionKeys[i], nil
		}
	}
	return OptionNone, &UnknownOptionKeyError{Key: raw}
}

// OptionKeyFromWire is the lenient form of ParseWireKey used for stored data:
// unknown identifiers survive as invalid keys so the renderer can report them.
func OptionKeyFromWire(raw string) OptionKey {
	if k, err := ParseWireKey(raw); err == nil {
		return k
	}
	return OptionKey(raw)
}

// QuestionRecord is the on-disk shape of a question.
type QuestionRecord struct {
	Question string `json:"question" yaml:"question"`
	Op1      string `json:"op1" yaml:"op1"`
	Op2      string `json:"op2" yaml:"op2"`
	Op3      string `json:"op3" yaml:"op3"`
	Op4      string `json:"op4" yaml:"op4"`
	Correct  string `json:"Correct" yaml:"Correct"`
}

// ToQuestion converts a record, rejecting unknown correct keys.
func (r QuestionRecord) ToQuestion() (Question, error) {
	key, err := ParseWireKey(r.Correct)
	if err != nil {
		return Question{}, err
	}
	return Question{
		Text:    r.Question,
		Options: [4]string{r.Op1, r.Op2, r.Op3, r.Op4},
		Correct: key,
	}, nil
}

// RecordFromQuestion is the inverse of ToQuestion.
func RecordFromQuestion(q Question) QuestionRecord {
	return QuestionRecord{
		Question: q.Text,
		Op1:      q.Options[0],
		Op2:      q.Options[1],
		Op3:      q.Options[2],
		Op4:      q.Options[3],
		Correct:  q.Correct.Wire(),
	}
}

// QuestionsFromRecords converts a whole set; the error names the offending position.
func QuestionsFromRecords(records []QuestionRecord) ([]Question, error) {
	questions := make([]Question, 0, len(records))
	for i, r := range records {
		q, err := r.ToQuestion()
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		questions = append(questions, q)
	}
	return questions, nil
}

// RecordsFromQuestions converts a set to its on-disk shape.
func RecordsFromQuestions(questions []Question) []QuestionRecord {
	records := make([]QuestionRecord, len(questions))
	for i, q := range questions {
		records[i] = RecordFromQuestion(q)
	}
	return records
}

// Snapshot field names in the player's key-value store.
const (
	FieldScore          = "score"
	FieldTotalQuestions = "totalQuestions"
	FieldPercentage     = "percentage"
	FieldUserAnswers    = "userAnswers"
	FieldQuestions      = "questions"
)

// SnapshotFields lists every field written and cleared as a group.
var SnapshotFields = []string{FieldScore, FieldTotalQuestions, FieldPercentage, FieldUserAnswers, FieldQuestions}

// EncodeSnapshot flattens a snapshot into its persisted key-value form.
func EncodeSnapshot(s Snapshot) (map[string]string, error) {
	answers := make([]*string, len(s.Answers))
	for i, a := range s.Answers {
		if a == OptionNone {
			continue
		}
		w := a.Wire()
		answers[i] = &w
	}
	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return nil, fmt.Errorf("encode answers: %w", err)
	}
	questionsJSON, err := json.Marshal(RecordsFromQuestions(s.Questions))
	if err != nil {
		return nil, fmt.Errorf("encode questions: %w", err)
	}
	return map[string]string{
		FieldScore:          strconv.Itoa(s.Score),
		FieldTotalQuestions: strconv.Itoa(s.Total),
		FieldPercentage:     strconv.Itoa(s.Percentage),
		FieldUserAnswers:    string(answersJSON),
		FieldQuestions:      string(questionsJSON),
	}, nil
}

// DecodeSnapshot rebuilds a snapshot from its persisted form. Option keys are
// decoded leniently; the renderer rejects the ones that resolve to nothing.
func DecodeSnapshot(fields map[string]string) (Snapshot, error) {
	if len(fields) == 0 {
		return Snapshot{}, ErrSnapshotNotFound
	}
	var s Snapshot
	var err error
	if s.Score, err = intField(fields, FieldScore); err != nil {
		return Snapshot{}, err
	}
	if s.Total, err = intField(fields, FieldTotalQuestions); err != nil {
		return Snapshot{}, err
	}
	if s.Percentage, err = intField(fields, FieldPercentage); err != nil {
		return Snapshot{}, err
	}

	var answers []*string
	if raw := fields[FieldUserAnswers]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &answers); err != nil {
			return Snapshot{}, fmt.Errorf("decode %s: %w", FieldUserAnswers, err)
		}
	}
	s.Answers = make([]OptionKey, len(answers))
	for i, a := range answers {
		if a != nil {
			s.Answers[i] = OptionKeyFromWire(*a)
		}
	}

	var records []QuestionRecord
	if raw := fields[FieldQuestions]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &records); err != nil {
			return Snapshot{}, fmt.Errorf("decode %s: %w", FieldQuestions, err)
		}
	}
	s.Questions = make([]Question, len(records))
	for i, r := range records {
		s.Questions[i] = Question{
			Text:    r.Question,
			Options: [4]string{r.Op1, r.Op2, r.Op3, r.Op4},
			Correct: OptionKeyFromWire(r.Correct),
		}
	}
	return s, nil
}

func intField(fields map[string]string, name string) (int, error) {
	raw, ok := fields[name]
	if !ok || raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("decode %s: %w", name, err)
	}
	return v, nil
}
