package judge

import (
	"context"
	"hash/fnv"
	"strings"
)

const languageMismatchPenalty = 25

// StaticJudge is a deterministic local grader used when no external evaluator
// is configured. It scores on a simple heuristic over the submission text and
// applies a penalty when the submitted language does not match the room's
// required language. Useful for development and demos; not a real judgement.
type StaticJudge struct{}

// NewStaticJudge constructs the local judge.
func NewStaticJudge() *StaticJudge {
	return &StaticJudge{}
}

// Evaluate grades the submission deterministically. It never fails.
func (j *StaticJudge) Evaluate(_ context.Context, input Input) (Verdict, error) {
	score := baseScore(input.Code)

	if !strings.EqualFold(strings.TrimSpace(input.SubmittedLanguage), strings.TrimSpace(input.RequiredLanguage)) {
		score -= languageMismatchPenalty
		if score < 0 {
			score = 0
		}
	}

	return Verdict{Score: score, Feedback: feedbackFor(score)}, nil
}

// baseScore maps the submission text onto [50,100] so that identical code
// always receives the identical score.
func baseScore(code string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.TrimSpace(code)))
	return 50 + int(h.Sum32()%51)
}

func feedbackFor(score int) string {
	switch {
	case score >= 90:
		return "Excellent solution! Very efficient and well-structured."
	case score >= 80:
		return "Good solution with proper time complexity."
	case score >= 70:
		return "Correct solution but could be optimized further."
	case score >= 60:
		return "Solution works but has performance issues."
	default:
		return "Solution passes some test cases but needs improvement."
	}
}
