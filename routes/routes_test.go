package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mlukic/matchday/handlers"
	"github.com/mlukic/matchday/live"
	"github.com/mlukic/matchday/models"
	"github.com/mlukic/matchday/services"
	"github.com/mlukic/matchday/stores"
)

func newTestRouter(t *testing.T) (http.Handler, *services.AuthService) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	local, err := stores.NewLocalStore(t.TempDir(), logger)
	require.NoError(t, err)

	hub := live.NewHub(logger)
	go hub.Run()

	syncService := services.NewSyncService(nil, local, nil, hub, nil, logger)
	require.NoError(t, syncService.Initialize(context.Background()))

	hash, err := bcrypt.GenerateFromPassword([]byte("organizer-pw"), bcrypt.MinCost)
	require.NoError(t, err)
	authService := services.NewAuthService("test-secret", string(hash))

	router := InitRoutes(Handlers{
		Auth:       handlers.NewAuthHandler(authService),
		Tournament: handlers.NewTournamentHandler(syncService),
		Storage:    handlers.NewStorageHandler(syncService, nil),
		Live:       handlers.NewLiveHandler(hub, logger),
	}, authService)
	return router, authService
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, router http.Handler) string {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/auth/login", "", map[string]string{"password": "organizer-pw"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doJSON(t, router, http.MethodPost, "/auth/login", "", map[string]string{"password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSaveRequiresAuthentication(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doJSON(t, router, http.MethodPost, "/tournaments", "", models.Tournament{ID: "t1", Name: "Cup"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTournamentLifecycleOverHTTP(t *testing.T) {
	router, _ := newTestRouter(t)
	token := login(t, router)

	tour := models.Tournament{ID: "t1", Name: "Spring Cup", Date: "2025-06-14", Status: models.StatusSetup}
	rec := doJSON(t, router, http.MethodPost, "/tournaments", token, tour)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/tournaments", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listResp struct {
		Tournaments []models.Tournament `json:"tournaments"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listResp))
	require.Len(t, listResp.Tournaments, 1)
	assert.Equal(t, "Spring Cup", listResp.Tournaments[0].Name)

	rec = doJSON(t, router, http.MethodGet, "/tournaments/t1", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/tournaments/t1", token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/tournaments/t1", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSaveRejectsInvalidAggregate(t *testing.T) {
	router, _ := newTestRouter(t)
	token := login(t, router)

	rec := doJSON(t, router, http.MethodPost, "/tournaments", token, models.Tournament{ID: "t1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStorageStatusIsPublic(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/storage/status", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status services.Status `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, services.ModeLocalFallback, resp.Status.Mode)
	assert.False(t, resp.Status.RemoteActive)
}

func TestStorageMigrateWithoutRemote(t *testing.T) {
	router, _ := newTestRouter(t)
	token := login(t, router)

	rec := doJSON(t, router, http.MethodPost, "/storage/migrate", token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestStandingsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	token := login(t, router)

	reds := models.Team{ID: "reds", Name: "Reds"}
	blues := models.Team{ID: "blues", Name: "Blues"}
	tour := models.Tournament{
		ID: "t1", Name: "Cup", Status: models.StatusActive,
		Teams: []models.Team{reds, blues},
		Fixtures: []models.Match{{
			ID: "m1", Team1: reds, Team2: blues,
			Score1: 2, Score2: 0, Status: models.MatchCompleted,
		}},
	}
	rec := doJSON(t, router, http.MethodPost, "/tournaments", token, tour)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/tournaments/t1/standings", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Standings []models.Team `json:"standings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Standings, 2)
	assert.Equal(t, "reds", resp.Standings[0].ID)
	assert.Equal(t, 3, resp.Standings[0].Stats.Points)
}

func TestHealthz(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
