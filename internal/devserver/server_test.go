package devserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrea/regimen/internal/api"
	"github.com/kingrea/regimen/internal/config"
	"github.com/kingrea/regimen/internal/draft"
	"github.com/kingrea/regimen/internal/submission"
)

func validRequest() submission.CreationRequest {
	e := draft.NewEngine()
	e.SetGoalWeight(draft.GoalStrength, 7)
	e.SetGoalWeight(draft.GoalMobility, 3)
	e.SetRule("back_squat", draft.RuleHardYes)
	e.AddActivity(draft.ActivityCustom, "Bouldering")
	return submission.Build(e.Snapshot())
}

func startServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	settings := Settings{Host: "127.0.0.1", Port: 0, MaxBodyBytes: 4096, ReadTimeout: time.Second, WriteTimeout: time.Second, IdleTimeout: time.Second}
	srv := NewServer(settings, opts...)
	t.Cleanup(func() {
		_ = srv.Shutdown(context.Background())
	})
	require.NoError(t, srv.Start(context.Background()))
	return srv
}

func TestSettingsFromConfigHonorsEnv(t *testing.T) {
	t.Setenv("REGIMEN_DEV_HOST", "0.0.0.0")
	cfg := &config.Config{}
	cfg.File.DevServer.Port = 9001
	settings := SettingsFromConfig(cfg)
	assert.Equal(t, 9001, settings.Port)
	assert.Equal(t, "0.0.0.0", settings.Host)
	assert.Equal(t, "0.0.0.0:9001", settings.Address())
}

func TestSettingsDefaults(t *testing.T) {
	settings := SettingsFromConfig(nil)
	assert.Equal(t, DefaultPort, settings.Port)
	assert.Equal(t, DefaultMaxBodyBytes, settings.MaxBodyBytes)
	assert.Equal(t, "http://127.0.0.1:8780", settings.URL())
}

func TestClientCreatesProgramAgainstStub(t *testing.T) {
	fixed := time.Unix(1730000000, 0).UTC()
	srv := startServer(t,
		WithClock(func() time.Time { return fixed }),
		WithIDFunc(func() string { return "prog-1" }))

	resp, err := http.Get(srv.BaseURL() + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	client := api.NewClient(srv.BaseURL())
	id, err := client.CreateProgram(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "prog-1", id)

	programs := srv.Programs()
	require.Len(t, programs, 1)
	assert.Equal(t, fixed, programs[0].CreatedAt)
	assert.Equal(t, "Bouldering", programs[0].Request.EnjoyableActivities[0].CustomName)
}

func TestStubReportsValidationProblems(t *testing.T) {
	srv := startServer(t)
	req := validRequest()
	req.Goals = req.Goals[:1]
	req.DaysPerWeek = 9
	req.MovementRules = append(req.MovementRules, submission.MovementRule{MovementID: "moon_walk", Rule: "hard_yes"})

	_, err := api.NewClient(srv.BaseURL()).CreateProgram(context.Background(), req)
	var ve *api.ValidationError
	require.True(t, errors.As(err, &ve))
	message := api.UserMessage(err)
	assert.Contains(t, message, "body.goals: goal weights must sum to 10")
	assert.Contains(t, message, "body.movement_rules.1.movement_id: unknown movement \"moon_walk\"")
	assert.Contains(t, message, "body.days_per_week: days per week must be between 2 and 7")
	assert.Equal(t, 3, strings.Count(message, "; ")+1)
	assert.Empty(t, srv.Programs())
}

func TestStubReplaysIdempotencyKey(t *testing.T) {
	ids := []string{"first", "second"}
	srv := startServer(t, WithIDFunc(func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}))
	client := api.NewClient(srv.BaseURL(), api.WithKeyFunc(func() string { return "same-key" }))
	first, err := client.CreateProgram(context.Background(), validRequest())
	require.NoError(t, err)
	second, err := client.CreateProgram(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "first", first)
	assert.Equal(t, first, second)
	assert.Len(t, srv.Programs(), 1)
}

func TestStubCreatesOneProgramForConcurrentKey(t *testing.T) {
	var n int
	srv := NewServer(Settings{}, WithIDFunc(func() string {
		n++
		return "program-" + strings.Repeat("x", n)
	}))
	handler := srv.Handler()
	body, err := json.Marshal(validRequest())
	require.NoError(t, err)

	const workers = 16
	ids := make([]string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/programs", bytes.NewReader(body))
			req.Header.Set("Idempotency-Key", "shared-key")
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			var resp struct {
				ID string `json:"id"`
			}
			if rec.Code == http.StatusCreated && json.Unmarshal(rec.Body.Bytes(), &resp) == nil {
				ids[i] = resp.ID
			}
		}(i)
	}
	wg.Wait()

	require.Len(t, srv.Programs(), 1)
	for _, id := range ids {
		assert.Equal(t, srv.Programs()[0].ID, id)
	}
}

func TestStubRejectsMalformedBodies(t *testing.T) {
	srv := NewServer(Settings{MaxBodyBytes: 64})
	handler := srv.Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/programs", strings.NewReader("{")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"detail":"invalid JSON"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/programs", bytes.NewReader(bytes.Repeat([]byte("a"), 512))))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/programs", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
}

func TestStubServesMovements(t *testing.T) {
	srv := NewServer(Settings{})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/movements", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Movements []struct {
			ID string `json:"id"`
		} `json:"movements"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Movements)
	assert.Equal(t, "back_squat", body.Movements[0].ID)
}
