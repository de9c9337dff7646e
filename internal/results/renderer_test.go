package results

import (
	"errors"
	"testing"

	"timed-quiz-service/internal/domain"
)

func TestComputePerformanceTierBands(t *testing.T) {
	cases := []struct {
		pct  int
		want Tier
	}{
		{100, TierOutstanding},
		{95, TierOutstanding},
		{90, TierOutstanding},
		{89, TierGreatJob},
		{80, TierGreatJob},
		{79, TierGoodWork},
		{70, TierGoodWork},
		{69, TierKeepLearning},
		{60, TierKeepLearning},
		{59, TierDontGiveUp},
		{0, TierDontGiveUp},
	}
	for _, tc := range cases {
		if got := ComputePerformanceTier(tc.pct).Tier; got != tc.want {
			t.Fatalf("ComputePerformanceTier(%d) = %q, want %q", tc.pct, got, tc.want)
		}
	}
}

func TestReviewUnansweredSlot(t *testing.T) {
	line, err := Review(sampleQuestion(), domain.OptionNone)
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if line.UserAnswerText != NoAnswerSelected || line.IsCorrect {
		t.Fatalf("expected unanswered incorrect line, got %+v", line)
	}
	if line.CorrectAnswerText != "Paris" {
		t.Fatalf("expected correct text Paris, got %q", line.CorrectAnswerText)
	}
}

func TestReviewResolvesOptionText(t *testing.T) {
	line, err := Review(sampleQuestion(), domain.OptionA)
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if line.UserAnswerText != "Rome" || line.IsCorrect {
		t.Fatalf("unexpected line %+v", line)
	}

	line, _ = Review(sampleQuestion(), domain.OptionB)
	if !line.IsCorrect || line.UserAnswerText != "Paris" {
		t.Fatalf("expected correct line, got %+v", line)
	}
}

func TestReviewRejectsUnknownKeys(t *testing.T) {
	_, err := Review(sampleQuestion(), domain.OptionKey("option7"))
	if !errors.Is(err, domain.ErrUnknownOptionKey) {
		t.Fatalf("expected unknown key error, got %v", err)
	}

	corrupt := sampleQuestion()
	corrupt.Correct = "E"
	if _, err := Review(corrupt, domain.OptionA); !errors.Is(err, domain.ErrUnknownOptionKey) {
		t.Fatalf("expected unknown correct key error, got %v", err)
	}
}

func TestRenderSnapshot(t *testing.T) {
	q := sampleQuestion()
	snap := domain.NewSnapshot(1, []domain.Question{q, q, q}, []domain.OptionKey{domain.OptionB, domain.OptionC})

	report, err := Render(snap)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if report.Percentage != 33 || report.Performance.Tier != TierDontGiveUp {
		t.Fatalf("unexpected summary %+v", report)
	}
	if len(report.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(report.Lines))
	}
	if !report.Lines[0].IsCorrect || report.Lines[1].IsCorrect {
		t.Fatalf("unexpected correctness %+v", report.Lines)
	}
	if report.Lines[2].UserAnswerText != NoAnswerSelected || report.Lines[2].Number != 3 {
		t.Fatalf("expected missing slot treated as unanswered, got %+v", report.Lines[2])
	}

	empty, err := Render(domain.Snapshot{})
	if err != nil || len(empty.Lines) != 0 {
		t.Fatalf("expected empty report, got %+v (%v)", empty, err)
	}
}

func sampleQuestion() domain.Question {
	return domain.Question{
		Text:    "Capital of France?",
		Options: [4]string{"Rome", "Paris", "Berlin", "Madrid"},
		Correct: domain.OptionB,
	}
}
