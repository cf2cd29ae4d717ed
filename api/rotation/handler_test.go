package rotation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/rotation/app"
	"github.com/kilianp07/rotation/core/history"
	"github.com/kilianp07/rotation/core/model"
	corerotation "github.com/kilianp07/rotation/core/rotation"
)

type stubService struct {
	lastReq   app.Request
	lastQuery history.Query
	records   []history.Record
	err       error
}

func (s *stubService) Solve(_ context.Context, req app.Request) (*app.Result, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	seed := uint64(1)
	if req.Seed != nil {
		seed = *req.Seed
	}
	// The request mapping is under test, not the solver: always solve the
	// default team.
	team := model.DefaultTeam()
	if req.Policy != "" {
		team.Constraints.Policy = req.Policy
	}
	sol, err := corerotation.NewSeededSolver(seed).Solve(team.Players, team.Constraints)
	if err != nil {
		return nil, err
	}
	return &app.Result{ID: "solve-1", Seed: seed, Solution: sol}, nil
}

func (s *stubService) History(_ context.Context, q history.Query) ([]history.Record, error) {
	s.lastQuery = q
	return s.records, s.err
}

func do(h http.Handler, method, target, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestSolve_DefaultTeam(t *testing.T) {
	svc := &stubService{}
	h := NewHandler(svc, "", 1<<20)

	rr := do(h, http.MethodPost, "/api/rotations", `{"seed": 4, "policy": "balanced_equal"}`, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp SolveResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "solve-1", resp.ID)
	assert.Equal(t, uint64(4), resp.Seed)
	assert.Len(t, resp.Report.Periods, 8)
	assert.Len(t, resp.Solution.Players, 9)
	assert.Equal(t, model.PolicyBalancedEqual, svc.lastReq.Policy)
	assert.Len(t, svc.lastReq.Team.Players, 9)
}

func TestSolve_PostedRoster(t *testing.T) {
	svc := &stubService{}
	h := NewHandler(svc, "", 1<<20)
	body := `{
		"players": [
			{"name": "Ava", "position": "guard"},
			{"name": "Bea", "position": "G"},
			{"name": "Cal", "position": "G"},
			{"name": "Dee", "position": "forward"},
			{"name": "Eli", "position": "F"},
			{"name": "Fay", "position": "F"},
			{"name": "Gus", "position": "G"}
		],
		"constraints": {"policy": "balanced_equal", "starters": ["Ava", "Dee"]},
		"seed": 9,
		"publish": true
	}`
	rr := do(h, http.MethodPost, "/api/rotations", body, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.Len(t, svc.lastReq.Team.Players, 7)
	assert.Equal(t, model.Guard, svc.lastReq.Team.Players[0].Position)
	assert.Equal(t, model.Forward, svc.lastReq.Team.Players[3].Position)
	assert.True(t, svc.lastReq.Publish)
}

func TestSolve_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		body string
		code int
		want ErrorResponse
	}{
		{"bad json", nil, `{"players": [`, http.StatusBadRequest, ErrorResponse{}},
		{"unknown field", nil, `{"roster": []}`, http.StatusBadRequest, ErrorResponse{}},
		{"config", &model.ConfigError{Field: "starters", Reason: "too many"}, `{}`, http.StatusBadRequest, ErrorResponse{Field: "starters"}},
		{"unsat", &corerotation.UnsatisfiableError{Attempts: 50, UnknownNames: []string{"Ghost"}}, `{}`, http.StatusUnprocessableEntity,
			ErrorResponse{Attempts: 50, UnknownNames: []string{"Ghost"}}},
		{"internal", errors.New("boom"), `{}`, http.StatusInternalServerError, ErrorResponse{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&stubService{err: tt.err}, "", 1<<20)
			rr := do(h, http.MethodPost, "/api/rotations", tt.body, "")
			require.Equal(t, tt.code, rr.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
			assert.Equal(t, tt.want.Field, resp.Field)
			assert.Equal(t, tt.want.Attempts, resp.Attempts)
			assert.Equal(t, tt.want.UnknownNames, resp.UnknownNames)
		})
	}
}

func TestSolve_BodyLimit(t *testing.T) {
	h := NewHandler(&stubService{}, "", 16)
	rr := do(h, http.MethodPost, "/api/rotations", `{"policy": "balanced_equal", "seed": 1}`, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHistory_AuthAndFilters(t *testing.T) {
	svc := &stubService{records: []history.Record{{ID: "r1", Policy: model.PolicyTargetMinutes, Solved: true}}}
	h := NewHandler(svc, "tok", 1<<20)

	rr := do(h, http.MethodGet, "/api/rotations", "", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	rr = do(h, http.MethodGet, "/api/rotations", "", "wrong")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = do(h, http.MethodGet, "/api/rotations?player=Josh&policy=target_minutes&limit=5&start=2025-01-01T00:00:00Z", "", "tok")
	require.Equal(t, http.StatusOK, rr.Code)
	var recs []history.Record
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "r1", recs[0].ID)

	assert.Equal(t, "Josh", svc.lastQuery.Player)
	assert.Equal(t, model.PolicyTargetMinutes, svc.lastQuery.Policy)
	assert.Equal(t, 5, svc.lastQuery.Limit)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), svc.lastQuery.Start)
	assert.True(t, svc.lastQuery.End.IsZero())
}

func TestHistory_EmptyAndBadLimit(t *testing.T) {
	h := NewHandler(&stubService{}, "", 1<<20)
	rr := do(h, http.MethodGet, "/api/rotations", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())

	rr = do(h, http.MethodGet, "/api/rotations?limit=-1", "", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHistory_BadTimes(t *testing.T) {
	for _, q := range []string{"start=yesterday", "end=2025-13-01T00:00:00Z"} {
		svc := &stubService{}
		h := NewHandler(svc, "", 1<<20)
		rr := do(h, http.MethodGet, "/api/rotations?"+q, "", "")
		require.Equal(t, http.StatusBadRequest, rr.Code, q)
		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Contains(t, resp.Error, "invalid")
		assert.Equal(t, history.Query{}, svc.lastQuery, "history must not be queried")
	}
}

func TestSolve_DefaultTeamKeepsPostedConstraints(t *testing.T) {
	svc := &stubService{}
	h := NewHandler(svc, "", 1<<20)
	rr := do(h, http.MethodPost, "/api/rotations", `{"constraints": {"attempt_bound": 7, "starters": ["Josh"]}, "seed": 2}`, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	c := svc.lastReq.Team.Constraints
	assert.Len(t, svc.lastReq.Team.Players, 9)
	assert.Equal(t, 7, c.AttemptBound)
	assert.Equal(t, []string{"Josh"}, c.Starters)
	assert.Equal(t, model.DefaultTeam().Constraints.Closers, c.Closers)
	assert.Equal(t, model.PolicyTargetMinutes, c.Policy)
}

func TestMethodNotAllowed(t *testing.T) {
	h := NewHandler(&stubService{}, "", 1<<20)
	rr := do(h, http.MethodDelete, "/api/rotations", "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
