package play

import (
	"context"
	"strings"
	"testing"

	"github.com/pixil98/go-adventure/internal/game"
	"github.com/pixil98/go-adventure/internal/session"
	"github.com/pixil98/go-adventure/internal/storage"
	"github.com/pixil98/go-testutil"
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

type nopBus struct{}

func (nopBus) Publish(subject string, data []byte) error {
	return nil
}

func (nopBus) Subscribe(subject string, handler func(data []byte)) (func(), error) {
	return func() {}, nil
}

func newTestManager(t *testing.T, defaultRoom storage.Identifier) (*Manager, *session.Store) {
	t.Helper()

	rooms := roomStore{
		"room1": {
			Name:        "lounge",
			Description: "A dusty lounge.",
			Exits:       map[string]storage.Identifier{"s": "room2"},
		},
		"room2": {
			Name:  "kitchen",
			Exits: map[string]storage.Identifier{"n": "room1"},
			Items: []game.Item{
				{Id: "lamp", Name: "brass lamp"},
				{Id: "bread", Name: "stale bread", Edible: true},
			},
		},
	}

	world, err := game.NewWorldState(rooms)
	if err != nil {
		t.Fatalf("building world: %v", err)
	}

	sessions := session.NewStore(0)
	return NewManager(world, sessions, nopBus{}, defaultRoom), sessions
}

func assertOutputContains(t *testing.T, conn *scriptedConn, wants ...string) {
	t.Helper()

	out := conn.out.String()
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRun_FullSession(t *testing.T) {
	m, sessions := newTestManager(t, "room2")

	conn := newScriptedConn(strings.Join([]string{
		"alice",
		"take lamp",
		"inventory",
		"eat lamp",
		"drop lamp",
		"go n",
		"s",
		"frobnicate",
		"help",
		"quit",
	}, "\n") + "\n")

	err := m.Run(context.Background(), conn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertOutputContains(t, conn,
		"Welcome to Room Adventure.",
		"What is your name?",
		"Kitchen",
		"You see: brass lamp, stale bread",
		"Exits: n",
		"You pick up brass lamp.",
		"brass lamp", // inventory listing
		"You cannot eat brass lamp: it is not edible.",
		"You drop brass lamp.",
		"Lounge",
		"A dusty lounge.",
		"Unknown command. Try 'help'.",
		"Commands: look, go <direction>",
		"Goodbye.",
	)

	// The session is cleaned up; only the web surface's default remains.
	testutil.AssertEqual(t, "session count", sessions.Count(), 1)
}

func TestRun_RoomSelection(t *testing.T) {
	m, _ := newTestManager(t, "")

	conn := newScriptedConn("alice\nfirst\n2\nquit\n")

	err := m.Run(context.Background(), conn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertOutputContains(t, conn,
		"Where would you like to start?",
		"1) lounge",
		"2) kitchen",
		"Invalid selection!",
		"Kitchen",
	)
}

func TestRun_NameTriesExhausted(t *testing.T) {
	m, sessions := newTestManager(t, "room1")

	conn := newScriptedConn("\n\n\n")

	err := m.Run(context.Background(), conn)
	testutil.AssertErrorContains(t, err, "too many tries")
	testutil.AssertEqual(t, "session count", sessions.Count(), 1)
}

func TestRun_Disconnect(t *testing.T) {
	m, sessions := newTestManager(t, "room1")

	// The connection drops before a name arrives.
	conn := newScriptedConn("")

	err := m.Run(context.Background(), conn)
	if err != nil {
		t.Fatalf("a dropped connection must not be an error, got: %v", err)
	}
	testutil.AssertEqual(t, "session count", sessions.Count(), 1)
}

func TestRun_InvalidDirection(t *testing.T) {
	m, _ := newTestManager(t, "room1")

	conn := newScriptedConn("alice\ngo x\nquit\n")

	err := m.Run(context.Background(), conn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertOutputContains(t, conn, "You cannot go x from here.")
}
