package core

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"teeup-backend-go/internal/db"
	"teeup-backend-go/internal/push"
	"teeup-backend-go/pkg/database"
)

func boolPtr(b bool) *bool { return &b }

// fakeGateway records every send and answers with a per-token outcome.
type fakeGateway struct {
	mu       sync.Mutex
	sent     []push.Message
	outcomes map[string]push.Outcome
	// onSend runs after the send is recorded, before the outcome is returned.
	onSend func(push.Message)
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{outcomes: map[string]push.Outcome{}}
}

func (g *fakeGateway) Send(_ context.Context, msg push.Message) (push.Outcome, error) {
	g.mu.Lock()
	g.sent = append(g.sent, msg)
	outcome, ok := g.outcomes[msg.Token]
	hook := g.onSend
	g.mu.Unlock()
	if hook != nil {
		hook(msg)
	}
	if !ok {
		return push.Delivered, nil
	}
	if outcome == push.Delivered {
		return outcome, nil
	}
	return outcome, errors.New("gateway failure for " + msg.Token)
}

func (g *fakeGateway) tokens() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, 0, len(g.sent))
	for _, m := range g.sent {
		out = append(out, m.Token)
	}
	sort.Strings(out)
	return out
}

type recordingObserver struct {
	mu      sync.Mutex
	results []DeliveryResult
}

func (o *recordingObserver) ObserveDelivery(_ context.Context, r DeliveryResult) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.results = append(o.results, r)
}

type harness struct {
	store      *database.MemoryStore
	users      db.UserRepository
	friends    db.FriendshipRepository
	gateway    *fakeGateway
	observer   *recordingObserver
	dispatcher NotificationDispatcher
	triggers   TriggerService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := database.NewMemoryStore()
	users := db.NewUserRepository(store)
	friends := db.NewFriendshipRepository(store, nil)
	gw := newFakeGateway()
	obs := &recordingObserver{}
	dir := NewUserDirectory(users, nil, 0, nil)
	dispatcher := NewNotificationDispatcher(dir, gw, nil, obs)
	return &harness{
		store:      store,
		users:      users,
		friends:    friends,
		gateway:    gw,
		observer:   obs,
		dispatcher: dispatcher,
		triggers:   NewTriggerService(dispatcher, dir, NewFriendGraph(friends), nil, nil),
	}
}

func (h *harness) addUser(t *testing.T, id string, fields map[string]interface{}) {
	t.Helper()
	require.NoError(t, h.store.Set(context.Background(), db.UsersCollection, id, fields))
}

func (h *harness) befriend(t *testing.T, a, b string) {
	t.Helper()
	_, err := h.friends.Create(context.Background(), a, b)
	require.NoError(t, err)
}
