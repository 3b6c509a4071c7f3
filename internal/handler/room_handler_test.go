package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/codeclash/arena/internal/config"
	"github.com/codeclash/arena/internal/dto"
	"github.com/codeclash/arena/internal/handler"
	"github.com/codeclash/arena/internal/models"
	"github.com/codeclash/arena/internal/router"
	"github.com/codeclash/arena/internal/service"
	"github.com/codeclash/arena/internal/store"
	"github.com/codeclash/arena/pkg/judge"
)

// handlerTestJudge returns a fixed verdict so flows are deterministic.
type handlerTestJudge struct {
	verdict judge.Verdict
	err     error
}

func (j *handlerTestJudge) Evaluate(context.Context, judge.Input) (judge.Verdict, error) {
	return j.verdict, j.err
}

func setupApp(t *testing.T, judgeClient judge.Judge) *fiber.App {
	t.Helper()

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)

	rooms := store.NewRoomStore()
	submissions := store.NewSubmissionStore()

	eventService := service.NewEventService(nil, "", nil, logger)
	roomService := service.NewRoomService(rooms, eventService, validate, logger)
	submissionService := service.NewSubmissionService(rooms, submissions, judgeClient, eventService, validate, logger, service.SubmissionConfig{})
	problemService := service.NewProblemService(logger)

	app := fiber.New()
	cfg := config.Config{
		AppName:          "Arena Test",
		AppEnv:           "test",
		SubmitRateMax:    100,
		SubmitRateWindow: time.Minute,
	}

	router.Register(app, cfg, router.Dependencies{
		RoomHandler:       handler.NewRoomHandler(roomService, logger),
		SubmissionHandler: handler.NewSubmissionHandler(submissionService, logger),
		ProblemHandler:    handler.NewProblemHandler(problemService, logger),
		EventHandler:      handler.NewEventHandler(eventService, rooms, logger),
	})

	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload interface{}) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func getJSON(t *testing.T, app *fiber.App, path string) *http.Response {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
	require.NoError(t, err)
	return resp
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}

func TestCompetitionFlow(t *testing.T) {
	app := setupApp(t, &handlerTestJudge{verdict: judge.Verdict{Score: 92, Feedback: "Excellent solution! Very efficient and well-structured."}})

	createResp := postJSON(t, app, "/api/v1/rooms", dto.RoomCreateRequest{
		Subject:          "Reverse a linked list",
		Language:         "go",
		TimeLimitSeconds: 1800,
	})
	require.Equal(t, fiber.StatusCreated, createResp.StatusCode)

	var created struct {
		Success bool                   `json:"success"`
		Data    dto.RoomCreateResponse `json:"data"`
		Message string                 `json:"message"`
	}
	decodeResponse(t, createResp, &created)
	require.True(t, created.Success)
	require.NotEmpty(t, created.Data.RoomID)
	roomID := created.Data.RoomID

	joinResp := postJSON(t, app, "/api/v1/rooms/"+roomID+"/join", dto.RoomJoinRequest{Username: "alice"})
	require.Equal(t, fiber.StatusOK, joinResp.StatusCode)

	var joined struct {
		Data dto.RoomJoinResponse `json:"data"`
	}
	decodeResponse(t, joinResp, &joined)
	require.Equal(t, "Reverse a linked list", joined.Data.Spec.Subject)

	startResp := postJSON(t, app, "/api/v1/rooms/"+roomID+"/start", nil)
	require.Equal(t, fiber.StatusOK, startResp.StatusCode)

	var started struct {
		Data dto.RoomResponse `json:"data"`
	}
	decodeResponse(t, startResp, &started)
	require.Equal(t, models.RoomStatusInProgress, started.Data.Status)
	require.Equal(t, []string{"alice"}, started.Data.Participants)

	submitResp := postJSON(t, app, "/api/v1/rooms/"+roomID+"/submissions", dto.SubmissionCreateRequest{
		Username: "alice",
		Code:     "func reverse(head *Node) *Node { return nil }",
		Language: "go",
	})
	require.Equal(t, fiber.StatusAccepted, submitResp.StatusCode)

	var submitted struct {
		Data dto.SubmissionCreateResponse `json:"data"`
	}
	decodeResponse(t, submitResp, &submitted)
	require.Equal(t, models.SubmissionStatusPending, submitted.Data.Status)

	var submission dto.SubmissionResponse
	require.Eventually(t, func() bool {
		resp := getJSON(t, app, "/api/v1/submissions/"+submitted.Data.SubmissionID)
		if resp.StatusCode != fiber.StatusOK {
			return false
		}
		var body struct {
			Data dto.SubmissionResponse `json:"data"`
		}
		decodeResponse(t, resp, &body)
		submission = body.Data
		return submission.Status != models.SubmissionStatusPending
	}, 2*time.Second, 10*time.Millisecond)

	require.Equal(t, models.SubmissionStatusScored, submission.Status)
	require.Equal(t, 92, *submission.Score)

	boardResp := getJSON(t, app, "/api/v1/rooms/"+roomID+"/leaderboard")
	require.Equal(t, fiber.StatusOK, boardResp.StatusCode)

	var board struct {
		Data dto.LeaderboardResponse `json:"data"`
	}
	decodeResponse(t, boardResp, &board)
	require.Len(t, board.Data.Entries, 1)
	require.Equal(t, "alice", board.Data.Entries[0].Username)
	require.Equal(t, 92, board.Data.Entries[0].BestScore)

	closeResp := postJSON(t, app, "/api/v1/rooms/"+roomID+"/close", nil)
	require.Equal(t, fiber.StatusOK, closeResp.StatusCode)

	var closed struct {
		Data dto.RoomResponse `json:"data"`
	}
	decodeResponse(t, closeResp, &closed)
	require.Equal(t, models.RoomStatusClosed, closed.Data.Status)
}

func TestJudgeOutageStillRanksParticipant(t *testing.T) {
	app := setupApp(t, &handlerTestJudge{err: context.DeadlineExceeded})

	createResp := postJSON(t, app, "/api/v1/rooms", dto.RoomCreateRequest{
		Subject:          "Two Sum",
		Language:         "python",
		TimeLimitSeconds: 600,
	})
	var created struct {
		Data dto.RoomCreateResponse `json:"data"`
	}
	decodeResponse(t, createResp, &created)

	submitResp := postJSON(t, app, "/api/v1/rooms/"+created.Data.RoomID+"/submissions", dto.SubmissionCreateRequest{
		Username: "bob",
		Code:     "print(1)",
		Language: "python",
	})
	require.Equal(t, fiber.StatusAccepted, submitResp.StatusCode)

	require.Eventually(t, func() bool {
		resp := getJSON(t, app, "/api/v1/rooms/"+created.Data.RoomID+"/leaderboard")
		var board struct {
			Data dto.LeaderboardResponse `json:"data"`
		}
		decodeResponse(t, resp, &board)
		return len(board.Data.Entries) == 1 && board.Data.Entries[0].BestScore == service.FallbackScore
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRoomValidationErrors(t *testing.T) {
	app := setupApp(t, &handlerTestJudge{})

	resp := postJSON(t, app, "/api/v1/rooms", dto.RoomCreateRequest{Subject: "x"})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	decodeResponse(t, resp, &body)
	require.False(t, body.Success)
}

func TestRoomNotFoundResponses(t *testing.T) {
	app := setupApp(t, &handlerTestJudge{})

	require.Equal(t, fiber.StatusNotFound, getJSON(t, app, "/api/v1/rooms/room-missing1").StatusCode)
	require.Equal(t, fiber.StatusNotFound, getJSON(t, app, "/api/v1/rooms/room-missing1/leaderboard").StatusCode)
	require.Equal(t, fiber.StatusNotFound, postJSON(t, app, "/api/v1/rooms/room-missing1/join", dto.RoomJoinRequest{Username: "alice"}).StatusCode)
	require.Equal(t, fiber.StatusNotFound, getJSON(t, app, "/api/v1/submissions/sub-missing1").StatusCode)
}

func TestHealthEndpoint(t *testing.T) {
	app := setupApp(t, &handlerTestJudge{})

	resp := getJSON(t, app, "/api/v1/health")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Success bool                   `json:"success"`
		Data    handler.HealthResponse `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.True(t, body.Success)
	require.Equal(t, "ok", body.Data.Status)
	require.Equal(t, "Arena Test", body.Data.Service)
}
