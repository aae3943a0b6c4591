package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/pixil98/go-adventure/internal/events"
	"github.com/pixil98/go-adventure/internal/game"
	"github.com/pixil98/go-adventure/internal/session"
	"github.com/pixil98/go-adventure/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roomStore map[storage.Identifier]*game.Room

func (s roomStore) Get(id storage.Identifier) *game.Room {
	return s[id]
}

func (s roomStore) GetAll() map[storage.Identifier]*game.Room {
	out := map[storage.Identifier]*game.Room{}
	for id, r := range s {
		out[id] = r
	}
	return out
}

type recordingBus struct {
	mu        sync.Mutex
	published []events.Event
}

func (b *recordingBus) Publish(subject string, data []byte) error {
	var ev events.Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, ev)
	return nil
}

func (b *recordingBus) Subscribe(subject string, handler func(data []byte)) (func(), error) {
	return func() {}, nil
}

func (b *recordingBus) events() []events.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]events.Event(nil), b.published...)
}

func (b *recordingBus) kinds() []events.Kind {
	evs := b.events()
	out := make([]events.Kind, len(evs))
	for i, ev := range evs {
		out[i] = ev.Kind
	}
	return out
}

type fixture struct {
	world    *game.WorldState
	sessions *session.Store
	bus      *recordingBus
	router   http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	rooms := roomStore{
		"room1": {
			Name:        "Lounge",
			Description: "A dusty lounge.",
			Exits:       map[string]storage.Identifier{"s": "room2"},
		},
		"room2": {
			Name:  "Kitchen",
			Exits: map[string]storage.Identifier{"n": "room1"},
			Items: []game.Item{
				{Id: "lamp", Name: "brass lamp"},
				{Id: "bread", Name: "stale bread", Edible: true},
			},
		},
	}

	world, err := game.NewWorldState(rooms)
	require.NoError(t, err)

	renderer, err := NewRenderer()
	require.NoError(t, err)

	f := &fixture{
		world:    world,
		sessions: session.NewStore(0),
		bus:      &recordingBus{},
	}
	f.router = NewRouter(NewHandler(world, f.sessions, renderer, f.bus))
	return f
}

// enter creates a player directly on the default session, bypassing the
// landing form.
func (f *fixture) enter(t *testing.T, name string, roomId storage.Identifier) *game.PlayerState {
	t.Helper()

	p, err := f.world.NewPlayer(name, roomId)
	require.NoError(t, err)
	f.sessions.Default().SetPlayer(p)
	return p
}

func (f *fixture) get(path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func (f *fixture) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func TestLanding(t *testing.T) {
	f := newFixture(t)

	rr := f.get("/")

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "Room Adventure")
	assert.Contains(t, body, "Lounge")
	assert.Contains(t, body, "Kitchen")
	assert.Contains(t, body, `value="room1"`)
}

func TestCreatePlayer(t *testing.T) {
	tests := map[string]struct {
		form        url.Values
		expLocation string
	}{
		"valid": {
			form:        url.Values{"name": {"alice"}, "roomId": {"room1"}},
			expLocation: "/rooms/room1",
		},
		"name is trimmed": {
			form:        url.Values{"name": {"  alice  "}, "roomId": {"room1"}},
			expLocation: "/rooms/room1",
		},
		"missing name": {
			form:        url.Values{"roomId": {"room1"}},
			expLocation: "/",
		},
		"blank name": {
			form:        url.Values{"name": {"   "}, "roomId": {"room1"}},
			expLocation: "/",
		},
		"unknown room": {
			form:        url.Values{"name": {"alice"}, "roomId": {"cellar"}},
			expLocation: "/",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)

			rr := f.postForm("/player", tt.form)

			require.Equal(t, http.StatusFound, rr.Code)
			assert.Equal(t, tt.expLocation, rr.Header().Get("Location"))

			if tt.expLocation == "/" {
				assert.Nil(t, f.sessions.Default().Player())
				assert.Empty(t, f.bus.events())
				return
			}

			p := f.sessions.Default().Player()
			require.NotNil(t, p)
			assert.Equal(t, "alice", p.Name)
			assert.Equal(t, storage.Identifier("room1"), p.RoomId)
			evs := f.bus.events()
			require.Len(t, evs, 1)
			assert.Equal(t, events.KindPlayerCreated, evs[0].Kind)
			assert.Equal(t, session.DefaultId, evs[0].Session)
		})
	}
}

func TestRequirePlayer(t *testing.T) {
	f := newFixture(t)

	for _, path := range []string{"/rooms/room1", "/rooms/room1/s", "/bogus"} {
		rr := f.get(path)
		require.Equal(t, http.StatusFound, rr.Code, path)
		assert.Equal(t, "/", rr.Header().Get("Location"), path)
	}

	rr := f.postForm("/items/lamp/take", nil)
	require.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))
}

func TestViewRoom(t *testing.T) {
	f := newFixture(t)
	f.enter(t, "alice", "room2")

	rr := f.get("/rooms/room2")

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "Kitchen")
	assert.Contains(t, body, "brass lamp, stale bread")
	assert.Contains(t, body, "You are not carrying anything.")
	assert.Contains(t, body, `href="/rooms/room2/n"`)
	assert.Contains(t, body, `action="/items/lamp/take"`)
}

func TestViewRoom_WrongRoomRedirects(t *testing.T) {
	f := newFixture(t)
	f.enter(t, "alice", "room1")

	rr := f.get("/rooms/room2")

	require.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/rooms/room1", rr.Header().Get("Location"))
}

func TestMove(t *testing.T) {
	f := newFixture(t)
	p := f.enter(t, "alice", "room1")

	rr := f.get("/rooms/room1/s")

	require.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/rooms/room2", rr.Header().Get("Location"))
	assert.Equal(t, storage.Identifier("room2"), p.RoomId)
	assert.Equal(t, []events.Kind{events.KindPlayerMoved}, f.bus.kinds())
}

func TestMove_InvalidDirection(t *testing.T) {
	f := newFixture(t)
	p := f.enter(t, "alice", "room1")

	rr := f.get("/rooms/room1/x")

	require.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/rooms/room1", rr.Header().Get("Location"))
	assert.Equal(t, storage.Identifier("room1"), p.RoomId)
	assert.Empty(t, f.bus.events())
}

func TestMove_StaleRoomRedirectsWithoutMoving(t *testing.T) {
	f := newFixture(t)
	p := f.enter(t, "alice", "room1")

	// The link addresses room2 but the player is in room1; nothing moves.
	rr := f.get("/rooms/room2/n")

	require.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/rooms/room1", rr.Header().Get("Location"))
	assert.Equal(t, storage.Identifier("room1"), p.RoomId)
	assert.Empty(t, f.bus.events())
}

func TestItemAction_TakeDropEat(t *testing.T) {
	f := newFixture(t)
	p := f.enter(t, "alice", "room2")

	// Take the lamp: redirect back, item changes hands.
	rr := f.postForm("/items/lamp/take", nil)
	require.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/rooms/room2", rr.Header().Get("Location"))
	require.Len(t, p.Inventory, 1)
	assert.Equal(t, "lamp", p.Inventory[0].Id)

	// The room page now lists the lamp as carried, not present.
	rr = f.get("/rooms/room2")
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `action="/items/lamp/drop"`)
	assert.NotContains(t, body, `action="/items/lamp/take"`)

	// Eating the lamp fails loudly.
	rr = f.postForm("/items/lamp/eat", nil)
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	body = rr.Body.String()
	assert.Contains(t, body, "You cannot eat brass lamp: it is not edible.")
	assert.Contains(t, body, `href="/rooms/room2"`)
	require.Len(t, p.Inventory, 1)

	// Drop it back.
	rr = f.postForm("/items/lamp/drop", nil)
	require.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/rooms/room2", rr.Header().Get("Location"))
	assert.Empty(t, p.Inventory)

	// The bread can actually be eaten.
	rr = f.postForm("/items/bread/take", nil)
	require.Equal(t, http.StatusFound, rr.Code)
	rr = f.postForm("/items/bread/eat", nil)
	require.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/rooms/room2", rr.Header().Get("Location"))
	assert.Empty(t, p.Inventory)

	assert.Equal(t, []events.Kind{
		events.KindItemTaken,
		events.KindItemDropped,
		events.KindItemTaken,
		events.KindItemEaten,
	}, f.bus.kinds())
}

func TestItemAction_MissesAreAbsorbed(t *testing.T) {
	f := newFixture(t)
	p := f.enter(t, "alice", "room1")

	// Nothing to take in room1, nothing carried to drop.
	for _, path := range []string{"/items/lamp/take", "/items/lamp/drop"} {
		rr := f.postForm(path, nil)
		require.Equal(t, http.StatusFound, rr.Code, path)
		assert.Equal(t, "/rooms/room1", rr.Header().Get("Location"), path)
	}

	assert.Empty(t, p.Inventory)
	assert.Empty(t, f.bus.events())
}

func TestItemAction_EatMissing(t *testing.T) {
	f := newFixture(t)
	f.enter(t, "alice", "room2")

	rr := f.postForm("/items/lamp/eat", nil)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "You cannot eat lamp: you are not carrying it.")
}

func TestItemAction_UnknownAction(t *testing.T) {
	f := newFixture(t)
	f.enter(t, "alice", "room2")

	rr := f.postForm("/items/lamp/wear", nil)

	require.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/rooms/room2", rr.Header().Get("Location"))
	assert.Empty(t, f.bus.events())
}

func TestFallback(t *testing.T) {
	f := newFixture(t)
	f.enter(t, "alice", "room1")

	rr := f.get("/no/such/page")

	require.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/rooms/room1", rr.Header().Get("Location"))
}

func TestFallback_MethodMismatch(t *testing.T) {
	f := newFixture(t)

	// Without a player, a wrong-method request still lands on the landing page.
	rr := f.postForm("/rooms/room1", nil)
	require.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))

	// With one, known patterns hit with the wrong method correct to the
	// current room like any other unmatched route.
	f.enter(t, "alice", "room1")
	rr = f.postForm("/rooms/room1", nil)
	require.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/rooms/room1", rr.Header().Get("Location"))

	rr = f.get("/items/lamp/take")
	require.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/rooms/room1", rr.Header().Get("Location"))
}

func TestConcurrentRequests(t *testing.T) {
	f := newFixture(t)
	f.enter(t, "alice", "room2")

	// Movers ping-pong between the rooms while readers render pages and
	// shuffle the lamp; every response must stay internally consistent.
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				f.get("/rooms/room2/n")
				f.get("/rooms/room1/s")
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				f.get("/rooms/room1")
				f.get("/rooms/room2")
				f.postForm("/items/lamp/take", nil)
				f.postForm("/items/lamp/drop", nil)
			}
		}()
	}
	wg.Wait()

	// The player ends in exactly one room and that room still renders.
	current := f.world.CurrentRoom(f.sessions.Default().Player())
	rr := f.get("/rooms/" + string(current))
	require.Equal(t, http.StatusOK, rr.Code)
}
