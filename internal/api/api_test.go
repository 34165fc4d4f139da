package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"teeup-backend-go/internal/core"
	"teeup-backend-go/internal/db"
	"teeup-backend-go/internal/events"
	"teeup-backend-go/internal/metrics"
	"teeup-backend-go/internal/middleware"
	"teeup-backend-go/internal/push"
	"teeup-backend-go/pkg/database"
)

const testSecret = "ingest-secret"

type tokenStub struct{}

// VerifyIDToken accepts "token-<uid>".
func (tokenStub) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	if len(idToken) > 6 && idToken[:6] == "token-" {
		return &auth.Token{UID: idToken[6:]}, nil
	}
	return nil, errors.New("bad token")
}

type recordingGateway struct {
	mu   sync.Mutex
	sent []push.Message
}

func (g *recordingGateway) Send(_ context.Context, m push.Message) (push.Outcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sent = append(g.sent, m)
	return push.Delivered, nil
}

type testServer struct {
	engine  *gin.Engine
	store   *database.MemoryStore
	gateway *recordingGateway
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	store := database.NewMemoryStore()

	users := db.NewUserRepository(store)
	friendships := db.NewFriendshipRepository(store, logger)
	social := core.NewSocialService(core.SocialRepositories{
		Users:          users,
		Friendships:    friendships,
		FriendRequests: db.NewFriendRequestRepository(store),
		Conversations:  db.NewConversationRepository(store),
		WeekendStatus:  db.NewWeekendStatusRepository(store),
	}, nil, logger)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	gw := &recordingGateway{}
	dir := core.NewUserDirectory(users, nil, 0, logger)
	dispatcher := core.NewNotificationDispatcher(dir, gw, logger, m)
	triggers := core.NewTriggerService(dispatcher, dir, core.NewFriendGraph(friendships), nil, logger)

	engine := gin.New()
	engine.Use(middleware.RecoveryMiddleware(logger))
	SetupRoutes(engine, logger, RouteDeps{
		Social:      social,
		Verifier:    tokenStub{},
		Events:      events.NewTriggerRouter(triggers, logger, m),
		EventSecret: testSecret,
		Gatherer:    reg,
	})

	for _, id := range []string{"ann", "bob"} {
		require.NoError(t, store.Set(context.Background(), db.UsersCollection, id, map[string]interface{}{
			"displayName": id,
			"fcmToken":    "tok-" + id,
		}))
	}
	return &testServer{engine: engine, store: store, gateway: gw}
}

func (s *testServer) do(t *testing.T, method, path, uid string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if uid != "" {
		req.Header.Set("Authorization", "Bearer token-"+uid)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) ingest(t *testing.T, secret string, change events.Change) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(change)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/internal/events", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.EventSecretHeader, secret)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func TestHealthIsPublic(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "UP")
}

func TestAPIRequiresAuth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/api/v1/friends", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFriendFlowOverHTTP(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/friend-requests", "ann", map[string]string{"recipientId": "bob"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created FriendRequestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.Request.ID)

	w = s.do(t, http.MethodPost, "/api/v1/friend-requests", "bob", map[string]string{"recipientId": "ann"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/friend-requests/"+created.Request.ID+"/accept", "ann", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/friend-requests/"+created.Request.ID+"/accept", "bob", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/v1/friends", "ann", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var friends FriendsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &friends))
	assert.Equal(t, []string{"bob"}, friends.Friends)

	w = s.do(t, http.MethodDelete, "/api/v1/friends/bob", "ann", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = s.do(t, http.MethodDelete, "/api/v1/friends/bob", "ann", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestValidationErrors(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/friend-requests", "ann", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/friend-requests", "ann", map[string]string{"recipientId": "ann"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPut, "/api/v1/weekend-status", "ann", map[string]string{"status": "rainedOut"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/friend-requests/missing/decline", "ann", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMessageAndSettingsEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/conversations/bob/messages", "ann", map[string]string{"text": "9am?"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodPut, "/api/v1/users/me/device-token", "ann", map[string]string{"token": "tok-new"})
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, http.MethodPut, "/api/v1/users/me/notification-preferences", "ann", map[string]bool{"messages": false})
	assert.Equal(t, http.StatusNoContent, w.Code)

	doc, err := s.store.Get(context.Background(), db.UsersCollection, "ann")
	require.NoError(t, err)
	assert.Equal(t, "tok-new", doc.Data["fcmToken"])
	assert.Equal(t, map[string]interface{}{"messages": false}, doc.Data["notificationPreferences"])

	w = s.do(t, http.MethodPut, "/api/v1/weekend-status", "ann", map[string]interface{}{"status": "lookingToPlay", "courseName": "Torrey Pines"})
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodDelete, "/api/v1/weekend-status", "ann", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestIngestEvents(t *testing.T) {
	s := newTestServer(t)

	w := s.ingest(t, "wrong", events.Change{Operation: events.OpCreate, Path: "friendRequests/r1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.ingest(t, testSecret, events.Change{
		Operation: events.OpCreate,
		Path:      "friendRequests/r1",
		Data:      map[string]interface{}{"senderId": "ann", "recipientId": "bob", "status": "pending"},
	})
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	var accepted EventAcceptedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &accepted))
	assert.True(t, accepted.Routed)
	assert.NotEmpty(t, accepted.ID)
	assert.Equal(t, string(events.KindFriendRequestCreated), accepted.Kind)

	require.Len(t, s.gateway.sent, 1)
	assert.Equal(t, "tok-bob", s.gateway.sent[0].Token)
	assert.Equal(t, "ann sent you a friend request", s.gateway.sent[0].Body)
	assert.Equal(t, "r1", s.gateway.sent[0].Data["requestId"])

	w = s.ingest(t, testSecret, events.Change{Operation: events.OpCreate, Path: "users/ann"})
	require.Equal(t, http.StatusAccepted, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &accepted))
	assert.False(t, accepted.Routed)

	w = s.ingest(t, testSecret, events.Change{
		Operation: events.OpCreate,
		Path:      "friendRequests/r2",
		Data:      map[string]interface{}{"senderId": 7},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/internal/events", bytes.NewBufferString(`{"path":"x"}`))
	req.Header.Set(middleware.EventSecretHeader, testSecret)
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	w = s.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `notification_deliveries_total{category="friendRequest",status="delivered"} 1`)
}
