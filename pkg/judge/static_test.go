package judge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStaticJudgeIsDeterministic(t *testing.T) {
	j := NewStaticJudge()
	input := Input{
		Subject:           "Two Sum",
		RequiredLanguage:  "go",
		SubmittedLanguage: "go",
		Code:              "func twoSum(nums []int, target int) []int { return nil }",
	}

	first, err := j.Evaluate(context.Background(), input)
	require.NoError(t, err)
	second, err := j.Evaluate(context.Background(), input)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.GreaterOrEqual(t, first.Score, 50)
	require.LessOrEqual(t, first.Score, 100)
	require.NotEmpty(t, first.Feedback)
}

func TestStaticJudgePenalisesLanguageMismatch(t *testing.T) {
	j := NewStaticJudge()
	code := "def two_sum(nums, target): pass"

	matching, err := j.Evaluate(context.Background(), Input{
		RequiredLanguage:  "python",
		SubmittedLanguage: "Python",
		Code:              code,
	})
	require.NoError(t, err)

	mismatched, err := j.Evaluate(context.Background(), Input{
		RequiredLanguage:  "go",
		SubmittedLanguage: "python",
		Code:              code,
	})
	require.NoError(t, err)

	require.Equal(t, matching.Score-languageMismatchPenalty, mismatched.Score)
}

func TestStaticJudgeScoreNeverNegative(t *testing.T) {
	j := NewStaticJudge()

	for _, code := range []string{"", "a", "bb", "ccc", "x := 1"} {
		verdict, err := j.Evaluate(context.Background(), Input{
			RequiredLanguage:  "go",
			SubmittedLanguage: "brainfuck",
			Code:              code,
		})
		require.NoError(t, err)
		require.GreaterOrEqual(t, verdict.Score, 0)
		require.LessOrEqual(t, verdict.Score, 100)
	}
}

func TestFeedbackBands(t *testing.T) {
	cases := []struct {
		score    int
		contains string
	}{
		{95, "Excellent"},
		{85, "Good solution"},
		{75, "could be optimized"},
		{65, "performance issues"},
		{40, "needs improvement"},
	}

	for _, tc := range cases {
		require.Contains(t, feedbackFor(tc.score), tc.contains)
	}
}
