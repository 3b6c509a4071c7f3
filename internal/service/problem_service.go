package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/codeclash/arena/internal/dto"
	"github.com/codeclash/arena/internal/models"
)

// ProblemService serves the read-only problem catalog.
type ProblemService interface {
	List(ctx context.Context) []dto.ProblemResponse
	Get(ctx context.Context, id string) (dto.ProblemResponse, error)
}

type problemService struct {
	logger zerolog.Logger
}

// NewProblemService constructs the catalog service.
func NewProblemService(logger zerolog.Logger) ProblemService {
	return &problemService{logger: logger.With().Str("component", "problem_service").Logger()}
}

func (s *problemService) List(ctx context.Context) []dto.ProblemResponse {
	return dto.NewProblemResponseSlice(models.Catalog())
}

func (s *problemService) Get(ctx context.Context, id string) (dto.ProblemResponse, error) {
	problem, err := catalogProblem(id)
	if err != nil {
		return dto.ProblemResponse{}, err
	}
	return dto.NewProblemResponse(problem), nil
}
