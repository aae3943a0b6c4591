package play

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/pixil98/go-adventure/internal/display"
	"github.com/pixil98/go-adventure/internal/events"
	"github.com/pixil98/go-adventure/internal/game"
	"github.com/pixil98/go-adventure/internal/session"
	"github.com/pixil98/go-adventure/internal/storage"
)

// Manager runs interactive play sessions over line-oriented connections
// (telnet and ssh). Each connection gets its own session and player; the
// world itself is shared with the web surface.
type Manager struct {
	world       *game.WorldState
	sessions    *session.Store
	bus         events.Bus
	defaultRoom storage.Identifier
}

func NewManager(world *game.WorldState, sessions *session.Store, bus events.Bus, defaultRoom storage.Identifier) *Manager {
	return &Manager{
		world:       world,
		sessions:    sessions,
		bus:         bus,
		defaultRoom: defaultRoom,
	}
}

// Run drives one connection from greeting to quit. Satisfies
// listener.SessionRunner.
func (m *Manager) Run(ctx context.Context, conn io.ReadWriter) error {
	sess := m.sessions.Create()
	defer m.sessions.Remove(sess.Id())

	br := bufio.NewReader(conn)

	if _, err := conn.Write([]byte("Welcome to Room Adventure.\n")); err != nil {
		return err
	}

	name, err := promptReader(conn, br, "What is your name? ", WithValidator(
		func(str string) (bool, string) {
			if str == "" {
				return false, "A name is required.\n"
			}
			return true, ""
		},
	), WithMaxTries(3))
	if err != nil {
		return disconnectErr(err)
	}

	roomId, err := m.chooseRoom(conn, br)
	if err != nil {
		return disconnectErr(err)
	}

	p, err := m.world.NewPlayer(name, roomId)
	if err != nil {
		return fmt.Errorf("creating player: %w", err)
	}
	sess.SetPlayer(p)
	m.emit(ctx, sess, events.Event{Kind: events.KindPlayerCreated, Player: p.Name, Room: string(p.RoomId)})

	m.look(conn, p)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := promptReader(conn, br, "> ")
		if err != nil {
			return disconnectErr(err)
		}
		sess.Touch()

		if quit := m.dispatch(ctx, conn, sess, p, line); quit {
			return nil
		}
	}
}

// dispatch applies one command line. Returns true when the session ends.
func (m *Manager) dispatch(ctx context.Context, conn io.ReadWriter, sess *session.Session, p *game.PlayerState, line string) bool {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return false
	}

	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "look", "l":
		m.look(conn, p)

	case "inventory", "i":
		m.write(conn, m.world.ViewPlayer(p).Inventory+"\n")

	case "go":
		if len(args) != 1 {
			m.write(conn, "Go where? Try: go n\n")
			return false
		}
		m.move(ctx, conn, sess, p, args[0])

	case "take", "drop", "eat":
		if len(args) != 1 {
			m.write(conn, fmt.Sprintf("%s what? Try: %s lamp\n", display.Capitalize(cmd), cmd))
			return false
		}
		// cmd is one of the parseable action names by construction
		action, _ := game.ParseAction(cmd)
		m.itemAction(ctx, conn, sess, p, action, args[0])

	case "help", "?":
		m.write(conn, "Commands: look, go <direction>, take <item>, drop <item>, eat <item>, inventory, quit\n")

	case "quit", "q":
		m.write(conn, "Goodbye.\n")
		return true

	default:
		// Bare single-character input moves, matching exit tokens.
		if len(args) == 0 && len(cmd) == 1 {
			m.move(ctx, conn, sess, p, cmd)
			return false
		}
		m.write(conn, "Unknown command. Try 'help'.\n")
	}

	return false
}

func (m *Manager) chooseRoom(conn io.ReadWriter, br *bufio.Reader) (storage.Identifier, error) {
	if m.defaultRoom != "" {
		return m.defaultRoom, nil
	}

	rooms := m.world.Rooms()
	m.write(conn, "Where would you like to start?\n")
	for i, info := range rooms {
		m.write(conn, fmt.Sprintf("  %d) %s\n", i+1, info.Name))
	}

	selection, err := promptReader(conn, br, "Make your selection: ", WithValidator(
		func(str string) (bool, string) {
			i, err := strconv.Atoi(str)
			if err != nil || i < 1 || i > len(rooms) {
				return false, "Invalid selection!\n"
			}
			return true, ""
		},
	))
	if err != nil {
		return "", err
	}

	i, err := strconv.Atoi(selection)
	if err != nil {
		return "", err
	}
	return rooms[i-1].Id, nil
}

func (m *Manager) look(conn io.ReadWriter, p *game.PlayerState) {
	view, err := m.world.ViewRoom(p.RoomId)
	if err != nil {
		m.write(conn, "You are nowhere at all.\n")
		return
	}

	m.write(conn, display.Capitalize(view.Name)+"\n")
	if view.Description != "" {
		m.write(conn, display.Wrap(view.Description)+"\n")
	}
	m.write(conn, "You see: "+view.Items+"\n")
	m.write(conn, "Exits: "+view.Exits+"\n")
}

func (m *Manager) move(ctx context.Context, conn io.ReadWriter, sess *session.Session, p *game.PlayerState, token string) {
	newRoom, err := m.world.MovePlayer(p, token)
	if err != nil {
		m.write(conn, fmt.Sprintf("You cannot go %s from here.\n", token))
		return
	}

	m.emit(ctx, sess, events.Event{Kind: events.KindPlayerMoved, Player: p.Name, Room: string(newRoom)})
	m.look(conn, p)
}

func (m *Manager) itemAction(ctx context.Context, conn io.ReadWriter, sess *session.Session, p *game.PlayerState, action game.Action, itemId string) {
	switch action {
	case game.ActionTake:
		item, err := m.world.TakeItem(p, itemId)
		if err != nil {
			m.write(conn, fmt.Sprintf("You don't see %s here.\n", itemId))
			return
		}
		m.write(conn, fmt.Sprintf("You pick up %s.\n", item.Name))
		m.emit(ctx, sess, events.Event{Kind: events.KindItemTaken, Player: p.Name, Room: string(p.RoomId), Item: itemId})

	case game.ActionDrop:
		item, err := m.world.DropItem(p, itemId)
		if err != nil {
			m.write(conn, fmt.Sprintf("You're not carrying %s.\n", itemId))
			return
		}
		m.write(conn, fmt.Sprintf("You drop %s.\n", item.Name))
		m.emit(ctx, sess, events.Event{Kind: events.KindItemDropped, Player: p.Name, Room: string(p.RoomId), Item: itemId})

	case game.ActionEat:
		if err := m.world.EatItem(p, itemId); err != nil {
			m.write(conn, err.Error()+"\n")
			return
		}
		m.write(conn, fmt.Sprintf("You eat %s. Delicious.\n", itemId))
		m.emit(ctx, sess, events.Event{Kind: events.KindItemEaten, Player: p.Name, Room: string(p.RoomId), Item: itemId})
	}
}

func (m *Manager) write(conn io.Writer, s string) {
	_, _ = conn.Write([]byte(s))
}

func (m *Manager) emit(ctx context.Context, sess *session.Session, ev events.Event) {
	ev.Session = sess.Id()
	if err := events.Emit(m.bus, ev); err != nil {
		slog.WarnContext(ctx, "publishing game event", "kind", ev.Kind, "error", err)
	}
}

// disconnectErr swallows ordinary disconnects; a dropped connection is
// the normal way a session ends.
func disconnectErr(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
