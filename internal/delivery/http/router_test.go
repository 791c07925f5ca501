package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gdugdh24/fitmatch-backend/internal/delivery/http/handler"
	"github.com/gdugdh24/fitmatch-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/fitmatch-backend/internal/delivery/ws"
	"github.com/gdugdh24/fitmatch-backend/internal/domain"
	"github.com/gdugdh24/fitmatch-backend/internal/infrastructure/kv"
	"github.com/gdugdh24/fitmatch-backend/internal/infrastructure/mirror"
	"github.com/gdugdh24/fitmatch-backend/internal/infrastructure/replication"
	"github.com/gdugdh24/fitmatch-backend/internal/repository/kvstore"
	"github.com/gdugdh24/fitmatch-backend/internal/usecase/auth"
	"github.com/gdugdh24/fitmatch-backend/internal/usecase/chat"
	"github.com/gdugdh24/fitmatch-backend/internal/usecase/feed"
	"github.com/gdugdh24/fitmatch-backend/internal/usecase/match"
	"github.com/gdugdh24/fitmatch-backend/internal/usecase/profile"
	"github.com/gdugdh24/fitmatch-backend/internal/usecase/seed"
	"github.com/gdugdh24/fitmatch-backend/internal/usecase/suggestion"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestEngine(t *testing.T, enableAdmin bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log, _ := test.NewNullLogger()
	store := kv.NewMemoryStore()
	m := mirror.NewNoop()
	r := replication.New(replication.DefaultConfig(), log)

	users := kvstore.NewUserRepository(store)
	sessions := kvstore.NewSessionRepository(store)
	matches := kvstore.NewMatchRepository(store)
	chats := kvstore.NewChatRepository(store)

	suggestions := suggestion.NewSuggestionUseCase(nil, nil, suggestion.Config{}, log)
	authUC := auth.NewAuthUseCase(users, sessions, m, r, testSecret, time.Hour, log)
	profileUC := profile.NewProfileUseCase(users, m, r, log)
	feedUC := feed.NewFeedUseCase(users, suggestions)
	matchUC := match.NewMatchUseCase(matches, users, m, r, log)
	chatUC := chat.NewChatUseCase(chats, users, m, r, log)
	seedUC := seed.NewSeedUseCase(store, users, m, log)

	router := NewRouter(
		handler.NewAuthHandler(authUC),
		handler.NewProfileHandler(profileUC),
		handler.NewFeedHandler(feedUC),
		handler.NewMatchHandler(matchUC),
		handler.NewChatHandler(chatUC, profileUC, suggestions),
		handler.NewPlacesHandler(profileUC, suggestions),
		handler.NewAdminHandler(seedUC),
		ws.NewHandler(chatUC, matchUC, nil, log),
		middleware.NewAuthMiddleware(authUC),
		RouterConfig{EnableAdmin: enableAdmin},
		log,
	)
	return router.Setup()
}

func do(t *testing.T, engine *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func register(t *testing.T, engine *gin.Engine, email string) auth.AuthResponse {
	t.Helper()
	w := do(t, engine, http.MethodPost, "/api/v1/auth/register", "", gin.H{"email": email, "password": "secret123"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[auth.AuthResponse](t, w)
}

func onboard(t *testing.T, engine *gin.Engine, token, name string) {
	t.Helper()
	w := do(t, engine, http.MethodPost, "/api/v1/profile/complete-onboarding", token, gin.H{
		"name":         name,
		"activities":   []string{"Running", "Yoga"},
		"goals":        []string{"Stay Active"},
		"days":         []string{"Mon"},
		"time_windows": []string{"Morning"},
		"skill_level":  "Intermediate",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestHealth(t *testing.T) {
	engine := newTestEngine(t, false)

	w := do(t, engine, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, engine, http.MethodHead, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthFlow(t *testing.T) {
	engine := newTestEngine(t, false)

	reg := register(t, engine, "a@fit.io")
	assert.NotEmpty(t, reg.Token)
	assert.Equal(t, "a@fit.io", reg.User.Email)
	assert.Empty(t, reg.User.PasswordHash)

	w := do(t, engine, http.MethodPost, "/api/v1/auth/register", "", gin.H{"email": "a@fit.io", "password": "secret123"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, engine, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "A@FIT.IO", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, engine, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "A@FIT.IO", "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code)
	login := decode[auth.AuthResponse](t, w)

	w = do(t, engine, http.MethodGet, "/api/v1/auth/me", login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, reg.User.ID, decode[domain.User](t, w).ID)

	w = do(t, engine, http.MethodPost, "/api/v1/auth/logout", login.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, engine, http.MethodGet, "/api/v1/auth/me", login.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// other sessions survive
	w = do(t, engine, http.MethodGet, "/api/v1/auth/me", reg.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	engine := newTestEngine(t, false)

	for _, path := range []string{"/api/v1/feed", "/api/v1/matches", "/api/v1/places", "/ws/matches"} {
		w := do(t, engine, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	w := do(t, engine, http.MethodGet, "/api/v1/feed", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTokenFromQuery(t *testing.T) {
	engine := newTestEngine(t, false)
	reg := register(t, engine, "a@fit.io")

	w := do(t, engine, http.MethodGet, "/api/v1/matches/pending-count?token="+reg.Token, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, decode[match.PendingCountResponse](t, w).Count)
}

func TestPartnerScenario(t *testing.T) {
	engine := newTestEngine(t, false)

	a := register(t, engine, "a@fit.io")
	b := register(t, engine, "b@fit.io")
	onboard(t, engine, a.Token, "Alex")
	onboard(t, engine, b.Token, "Blair")

	w := do(t, engine, http.MethodGet, "/api/v1/feed", a.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	discovered := decode[[]domain.User](t, w)
	require.Len(t, discovered, 1)
	assert.Equal(t, b.User.ID, discovered[0].ID)

	w = do(t, engine, http.MethodGet, "/api/v1/feed?activity=Juggling", a.Token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, engine, http.MethodGet, "/api/v1/feed/"+b.User.ID+"/reason", a.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, suggestion.ReasonErrorFallback, decode[feed.ReasonResponse](t, w).Reason)

	w = do(t, engine, http.MethodPost, "/api/v1/matches/requests/"+a.User.ID, a.Token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, engine, http.MethodPost, "/api/v1/matches/requests/missing", a.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, engine, http.MethodPost, "/api/v1/matches/requests/"+b.User.ID, a.Token, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	request := decode[domain.Match](t, w)
	assert.Equal(t, domain.MatchPending, request.Status)

	w = do(t, engine, http.MethodGet, "/api/v1/matches/pending-count", b.Token, nil)
	assert.Equal(t, 1, decode[match.PendingCountResponse](t, w).Count)

	w = do(t, engine, http.MethodPost, "/api/v1/matches/"+request.ID+"/respond", a.Token, gin.H{"action": "accept"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, engine, http.MethodPost, "/api/v1/matches/"+request.ID+"/respond", b.Token, gin.H{"action": "shrug"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, engine, http.MethodPost, "/api/v1/matches/unknown/respond", b.Token, gin.H{"action": "accept"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, engine, http.MethodPost, "/api/v1/matches/"+request.ID+"/respond", b.Token, gin.H{"action": "accept"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, domain.MatchAccepted, decode[domain.Match](t, w).Status)

	for _, token := range []string{a.Token, b.Token} {
		w = do(t, engine, http.MethodGet, "/api/v1/matches", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		list := decode[[]domain.Match](t, w)
		require.Len(t, list, 1)
		assert.Equal(t, domain.MatchAccepted, list[0].Status)
		require.NotNil(t, list[0].Buddy)
	}

	w = do(t, engine, http.MethodPost, "/api/v1/chats/"+b.User.ID, a.Token, gin.H{"text": "Run at 7?"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	sent := decode[domain.ChatMessage](t, w)
	assert.Equal(t, a.User.ID, sent.SenderID)
	assert.Regexp(t, `^\d{13}$`, sent.ID)

	w = do(t, engine, http.MethodPost, "/api/v1/chats/"+b.User.ID, a.Token, gin.H{"text": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, engine, http.MethodGet, "/api/v1/chats/"+a.User.ID, b.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	history := decode[[]domain.ChatMessage](t, w)
	require.Len(t, history, 1)
	assert.Equal(t, "Run at 7?", history[0].Text)

	w = do(t, engine, http.MethodGet, "/api/v1/chats/"+b.User.ID+"/icebreaker", a.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, suggestion.IcebreakerFallback, decode[handler.IcebreakerResponse](t, w).Text)
}

func TestProfileRoutes(t *testing.T) {
	engine := newTestEngine(t, false)
	a := register(t, engine, "a@fit.io")
	b := register(t, engine, "b@fit.io")

	w := do(t, engine, http.MethodPut, "/api/v1/profile/me/location", a.Token, gin.H{"lat": 95, "lng": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, engine, http.MethodPut, "/api/v1/profile/me/location", a.Token, gin.H{"lat": 40.70, "lng": -74.00})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, engine, http.MethodGet, "/api/v1/profile/"+b.User.ID, a.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Greater(t, decode[domain.User](t, w).Distance, 0.0)

	w = do(t, engine, http.MethodGet, "/api/v1/profile/missing", a.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, engine, http.MethodPut, "/api/v1/profile/me", a.Token, gin.H{
		"name":        "Alex",
		"skill_level": "Advanced",
		"activities":  []string{"Boxing"},
		"goals":       []string{},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[domain.User](t, w)
	assert.Equal(t, domain.SkillAdvanced, updated.SkillLevel)
	assert.Equal(t, domain.DefaultAge, updated.Age)

	w = do(t, engine, http.MethodPut, "/api/v1/profile/me", a.Token, gin.H{"name": "Alex", "skill_level": "Guru"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlaces(t *testing.T) {
	engine := newTestEngine(t, false)
	a := register(t, engine, "a@fit.io")

	w := do(t, engine, http.MethodGet, "/api/v1/places", a.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	places := decode[domain.PlaceSuggestions](t, w)
	assert.Equal(t, suggestion.PlacesFallback, places.Text)
	assert.Empty(t, places.Links)

	w = do(t, engine, http.MethodGet, "/api/v1/places?lat=40.7", a.Token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, engine, http.MethodGet, "/api/v1/places?lat=40.7&lng=-74&query=pools", a.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminReset(t *testing.T) {
	engine := newTestEngine(t, false)
	w := do(t, engine, http.MethodPost, "/api/v1/admin/reset", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	engine = newTestEngine(t, true)
	a := register(t, engine, "a@fit.io")

	w = do(t, engine, http.MethodPost, "/api/v1/admin/reset", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, engine, http.MethodGet, "/api/v1/auth/me", a.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, engine, http.MethodPost, "/api/v1/auth/register", "", gin.H{"email": "a@fit.io", "password": "secret123"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, engine, http.MethodGet, "/api/v1/feed", decode[auth.AuthResponse](t, w).Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]domain.User](t, w), len(seed.DemoUsers()))
}
