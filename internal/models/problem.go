package models

// ProblemExample illustrates expected behaviour for a catalog problem.
type ProblemExample struct {
	Input       string `json:"input"`
	Output      string `json:"output"`
	Explanation string `json:"explanation,omitempty"`
}

// Problem is a read-only catalog entry rooms can be created from.
type Problem struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Difficulty  string           `json:"difficulty"`
	Examples    []ProblemExample `json:"examples"`
}

// Catalog returns the built-in problem set. The slice is freshly allocated so
// callers cannot mutate the backing data.
func Catalog() []Problem {
	return []Problem{
		{
			ID:          "prob-1",
			Title:       "Two Sum",
			Description: "Given an array of integers nums and an integer target, return indices of the two numbers such that they add up to target.",
			Difficulty:  "Easy",
			Examples: []ProblemExample{
				{
					Input:       "nums = [2,7,11,15], target = 9",
					Output:      "[0,1]",
					Explanation: "Because nums[0] + nums[1] == 9, we return [0, 1]",
				},
			},
		},
		{
			ID:          "prob-2",
			Title:       "Reverse Linked List",
			Description: "Given the head of a singly linked list, reverse the list, and return the reversed list.",
			Difficulty:  "Medium",
			Examples: []ProblemExample{
				{
					Input:  "head = [1,2,3,4,5]",
					Output: "[5,4,3,2,1]",
				},
			},
		},
	}
}
