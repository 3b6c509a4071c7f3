package judge

import "context"

// Input carries everything the external evaluator needs to grade a submission,
// including the room's required language so mismatches can be penalised.
type Input struct {
	Subject           string
	Constraints       string
	RequiredLanguage  string
	SubmittedLanguage string
	Code              string
}

// Verdict is the score/feedback pair produced by a judge. Score is an integer
// in [0,100]; anything outside that range is treated as a judge failure by the
// caller.
type Verdict struct {
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

// Judge grades code submissions. Implementations may be slow and may fail;
// callers bound every Evaluate call with a context timeout.
type Judge interface {
	Evaluate(ctx context.Context, input Input) (Verdict, error)
}
