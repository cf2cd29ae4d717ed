package rotation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/kilianp07/rotation/app"
	"github.com/kilianp07/rotation/core/history"
	"github.com/kilianp07/rotation/core/model"
	corerotation "github.com/kilianp07/rotation/core/rotation"
	"github.com/kilianp07/rotation/pkg/export"
)

// Service is the part of app.Service the API needs.
type Service interface {
	Solve(ctx context.Context, req app.Request) (*app.Result, error)
	History(ctx context.Context, q history.Query) ([]history.Record, error)
}

// SolveRequest is the body of POST /api/rotations. Without players the
// default roster is used.
type SolveRequest struct {
	Players     model.Roster      `json:"players"`
	Constraints model.Constraints `json:"constraints"`
	Policy      model.PolicyName  `json:"policy"`
	Seed        *uint64           `json:"seed"`
	Publish     bool              `json:"publish"`
}

// SolveResponse is returned for an accepted rotation.
type SolveResponse struct {
	ID        string                 `json:"id"`
	Seed      uint64                 `json:"seed"`
	Published bool                   `json:"published"`
	Report    export.Report          `json:"report"`
	Solution  *corerotation.Solution `json:"solution"`
}

// ErrorResponse describes a rejected or unsatisfiable request.
type ErrorResponse struct {
	Error        string   `json:"error"`
	Field        string   `json:"field,omitempty"`
	Attempts     int      `json:"attempts,omitempty"`
	UnknownNames []string `json:"unknown_names,omitempty"`
}

// NewHandler returns an HTTP handler serving POST and GET /api/rotations.
// Requests must include an Authorization header with "Bearer <token>" when
// token is non-empty. Posted bodies are limited to maxBody bytes.
func NewHandler(svc Service, token string, maxBody int64) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("POST /api/rotations", solveHandler(svc, maxBody))
	mux.Handle("GET /api/rotations", historyHandler(svc))
	return requireToken(token, mux)
}

func requireToken(token string, next http.Handler) http.Handler {
	if token == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+token {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func solveHandler(svc Service, maxBody int64) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body SolveRequest
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid body: " + err.Error()})
			return
		}
		team := model.Team{Players: body.Players, Constraints: body.Constraints}
		if len(team.Players) == 0 {
			team = defaultTeamWith(body.Constraints)
		}
		res, err := svc.Solve(r.Context(), app.Request{Team: team, Policy: body.Policy, Seed: body.Seed, Publish: body.Publish})
		if err != nil {
			writeSolveError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, SolveResponse{
			ID:        res.ID,
			Seed:      res.Seed,
			Published: res.Published,
			Report:    export.NewReport(res.Solution),
			Solution:  res.Solution,
		})
	})
}

// defaultTeamWith returns the default team with every field set in c
// replacing the default one.
func defaultTeamWith(c model.Constraints) model.Team {
	team := model.DefaultTeam()
	d := &team.Constraints
	if c.Policy != "" {
		d.Policy = c.Policy
	}
	if c.Starters != nil {
		d.Starters = c.Starters
	}
	if c.Closers != nil {
		d.Closers = c.Closers
	}
	if c.Inexperienced != nil {
		d.Inexperienced = c.Inexperienced
	}
	if c.AttemptBound != 0 {
		d.AttemptBound = c.AttemptBound
	}
	if c.PeriodCount != 0 {
		d.PeriodCount = c.PeriodCount
	}
	if c.PeriodMinutes != 0 {
		d.PeriodMinutes = c.PeriodMinutes
	}
	if c.TeamSize != 0 {
		d.TeamSize = c.TeamSize
	}
	return team
}

func writeSolveError(w http.ResponseWriter, err error) {
	var cfgErr *model.ConfigError
	var unsat *corerotation.UnsatisfiableError
	switch {
	case errors.As(err, &cfgErr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Field: cfgErr.Field})
	case errors.As(err, &unsat):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:        err.Error(),
			Attempts:     unsat.Attempts,
			UnknownNames: unsat.UnknownNames,
		})
	default:
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
}

func historyHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v := r.URL.Query()
		q := history.Query{
			Player: v.Get("player"),
			Policy: model.PolicyName(v.Get("policy")),
		}
		for _, b := range []struct {
			key string
			dst *time.Time
		}{{"start", &q.Start}, {"end", &q.End}} {
			s := v.Get(b.key)
			if s == "" {
				continue
			}
			t, err := time.Parse(time.RFC3339, s)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid " + b.key + ": " + err.Error(), Field: b.key})
				return
			}
			*b.dst = t
		}
		if s := v.Get("limit"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 0 {
				writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
				return
			}
			q.Limit = n
		}
		records, err := svc.History(r.Context(), q)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
			return
		}
		if records == nil {
			records = []history.Record{}
		}
		writeJSON(w, http.StatusOK, records)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
