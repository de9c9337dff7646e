// Package results turns a finished quiz snapshot into the data of a results page:
// score summary, performance tier and a per-question review.
package results

import (
	"fmt"

	"timed-quiz-service/internal/domain"
)

// NoAnswerSelected is reported for unanswered slots.
const NoAnswerSelected = "no answer selected"

// Tier is a qualitative performance band.
type Tier string

const (
	TierOutstanding  Tier = "Outstanding"
	TierGreatJob     Tier = "Great Job"
	TierGoodWork     Tier = "Good Work"
	TierKeepLearning Tier = "Keep Learning"
	TierDontGiveUp   Tier = "Don't Give Up"
)

// Performance is the tier of a percentage with its headline and message.
type Performance struct {
	Tier    Tier   `json:"tier"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

type band struct {
	min         int
	performance Performance
}

// bands are checked top-down; the first minimum not above the percentage wins.
var bands = []band{
	{90, Performance{TierOutstanding, "🏆 Outstanding!", "Excellent work! You've mastered this topic with flying colors. Your dedication to learning shows!"}},
	{80, Performance{TierGreatJob, "🌟 Great Job!", "Well done! You have a solid understanding of the material. Keep up the excellent work!"}},
	{70, Performance{TierGoodWork, "👍 Good Work!", "Nice effort! You're on the right track. A little more practice and you'll be perfect!"}},
	{60, Performance{TierKeepLearning, "📚 Keep Learning!", "You're making progress! Review the topics you missed and try again. Every attempt makes you better!"}},
}

var fallback = Performance{TierDontGiveUp, "💪 Don't Give Up!", "Learning is a journey! Take some time to review the material and come back stronger. You've got this!"}

// ComputePerformanceTier maps a percentage onto its band.
func ComputePerformanceTier(percentage int) Performance {
	for _, b := range bands {
		if percentage >= b.min {
			return b.performance
		}
	}
	return fallback
}

// ReviewLine compares one recorded answer with the correct one.
type ReviewLine struct {
	Number            int    `json:"number"`
	QuestionText      string `json:"questionText"`
	UserAnswerText    string `json:"userAnswerText"`
	CorrectAnswerText string `json:"correctAnswerText"`
	IsCorrect         bool   `json:"isCorrect"`
}

// Review builds the line for one question. Keys that resolve to none of the
// four options fail with *domain.UnknownOptionKeyError.
func Review(q domain.Question, answer domain.OptionKey) (ReviewLine, error) {
	correctText, err := q.OptionText(q.Correct)
	if err != nil {
		return ReviewLine{}, err
	}
	line := ReviewLine{
		QuestionText:      q.Text,
		UserAnswerText:    NoAnswerSelected,
		CorrectAnswerText: correctText,
	}
	if answer == domain.OptionNone {
		return line, nil
	}
	if line.UserAnswerText, err = q.OptionText(answer); err != nil {
		return ReviewLine{}, err
	}
	line.IsCorrect = answer == q.Correct
	return line, nil
}

// Report is everything the results stage shows.
type Report struct {
	Score       int          `json:"score"`
	Total       int          `json:"total"`
	Percentage  int          `json:"percentage"`
	Performance Performance  `json:"performance"`
	Lines       []ReviewLine `json:"lines"`
}

// Render builds the report of a snapshot. Answer slots missing from a short
// answer log count as unanswered.
func Render(s domain.Snapshot) (Report, error) {
	pct := clamp(s.Percentage, 0, 100)
	report := Report{
		Score:       s.Score,
		Total:       s.Total,
		Percentage:  pct,
		Performance: ComputePerformanceTier(pct),
		Lines:       make([]ReviewLine, 0, len(s.Questions)),
	}
	for i, q := range s.Questions {
		answer := domain.OptionNone
		if i < len(s.Answers) {
			answer = s.Answers[i]
		}
		line, err := Review(q, answer)
		if err != nil {
			return Report{}, fmt.Errorf("review question %d: %w", i+1, err)
		}
		line.Number = i + 1
		report.Lines = append(report.Lines, line)
	}
	return report, nil
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
