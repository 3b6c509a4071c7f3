package dto

import "github.com/codeclash/arena/internal/models"

// ProblemExampleResponse illustrates one input/output example.
type ProblemExampleResponse struct {
	Input       string `json:"input"`
	Output      string `json:"output"`
	Explanation string `json:"explanation,omitempty"`
}

// ProblemResponse represents a catalog problem to API consumers.
type ProblemResponse struct {
	ID          string                   `json:"id"`
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	Difficulty  string                   `json:"difficulty"`
	Examples    []ProblemExampleResponse `json:"examples"`
}

// NewProblemResponse converts a catalog problem into a DTO.
func NewProblemResponse(problem models.Problem) ProblemResponse {
	examples := make([]ProblemExampleResponse, 0, len(problem.Examples))
	for _, example := range problem.Examples {
		examples = append(examples, ProblemExampleResponse{
			Input:       example.Input,
			Output:      example.Output,
			Explanation: example.Explanation,
		})
	}

	return ProblemResponse{
		ID:          problem.ID,
		Title:       problem.Title,
		Description: problem.Description,
		Difficulty:  problem.Difficulty,
		Examples:    examples,
	}
}

// NewProblemResponseSlice converts catalog problems into DTOs.
func NewProblemResponseSlice(problems []models.Problem) []ProblemResponse {
	out := make([]ProblemResponse, 0, len(problems))
	for _, problem := range problems {
		out = append(out, NewProblemResponse(problem))
	}
	return out
}
