package web

import (
	"bytes"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/pixil98/go-adventure/internal/events"
	"github.com/pixil98/go-adventure/internal/game"
	"github.com/pixil98/go-adventure/internal/metrics"
	"github.com/pixil98/go-adventure/internal/session"
	"github.com/pixil98/go-adventure/internal/storage"
)

// Handler maps requests onto game state transitions. The web surface is
// stateless: location is re-derived from the session's player on every
// response, never trusted from the URL.
type Handler struct {
	world    *game.WorldState
	sessions *session.Store
	renderer *Renderer
	bus      events.Bus
}

func NewHandler(world *game.WorldState, sessions *session.Store, renderer *Renderer, bus events.Bus) *Handler {
	return &Handler{
		world:    world,
		sessions: sessions,
		renderer: renderer,
		bus:      bus,
	}
}

// RequirePlayer redirects home until a player has been created.
func (h *Handler) RequirePlayer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := h.sessions.Default()
		if sess.Player() == nil {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		sess.Touch()
		next.ServeHTTP(w, r)
	})
}

// Landing serves the new-player page listing every room.
func (h *Handler) Landing(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Rooms []game.RoomInfo
	}{
		Rooms: h.world.Rooms(),
	}
	h.renderPage(w, r, http.StatusOK, "new_player.html", data)
}

// CreatePlayer places a new player in the chosen room. A malformed body or
// an unknown room sends the client back to the landing page.
func (h *Handler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	name := strings.TrimSpace(r.PostFormValue("name"))
	roomId := storage.Identifier(r.PostFormValue("roomId"))
	if name == "" {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	p, err := h.world.NewPlayer(name, roomId)
	if err != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	sess := h.sessions.Default()
	sess.SetPlayer(p)

	h.emit(r, events.Event{Kind: events.KindPlayerCreated, Player: name, Room: string(roomId)})
	h.redirectToRoom(w, r, roomId)
}

// ViewRoom renders the player's room. Asking for any other room redirects
// to the true one so stale links can never show stale state.
func (h *Handler) ViewRoom(w http.ResponseWriter, r *http.Request) {
	p := h.sessions.Default().Player()
	current := h.world.CurrentRoom(p)

	requested := storage.Identifier(chi.URLParam(r, "roomID"))
	if requested != current {
		h.redirectToRoom(w, r, current)
		return
	}

	room, err := h.world.ViewRoom(current)
	if err != nil {
		// The player's room id always resolves; treat a miss as an
		// unmatched route rather than rendering a broken page.
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	data := struct {
		Room   *game.RoomView
		Player *game.PlayerView
	}{
		Room:   room,
		Player: h.world.ViewPlayer(p),
	}
	h.renderPage(w, r, http.StatusOK, "room.html", data)
}

// Move applies a direction from the addressed room. The same wrong-room
// correction applies before anything moves.
func (h *Handler) Move(w http.ResponseWriter, r *http.Request) {
	p := h.sessions.Default().Player()
	current := h.world.CurrentRoom(p)

	requested := storage.Identifier(chi.URLParam(r, "roomID"))
	if requested != current {
		h.redirectToRoom(w, r, current)
		return
	}

	newRoom, err := h.world.MovePlayer(p, chi.URLParam(r, "direction"))
	if err != nil {
		// Invalid direction: the move was a no-op, land where we stand.
		metrics.MoveFailures.Inc()
		h.redirectToRoom(w, r, current)
		return
	}

	metrics.Moves.WithLabelValues(string(newRoom)).Inc()
	h.emit(r, events.Event{Kind: events.KindPlayerMoved, Player: p.Name, Room: string(newRoom)})
	h.redirectToRoom(w, r, newRoom)
}

// ItemAction applies take, drop, or eat to an item. Take and drop misses
// are absorbed; only a failed eat is shown to the user.
func (h *Handler) ItemAction(w http.ResponseWriter, r *http.Request) {
	p := h.sessions.Default().Player()
	current := h.world.CurrentRoom(p)

	itemId := chi.URLParam(r, "itemID")
	action, err := game.ParseAction(chi.URLParam(r, "action"))
	if err != nil {
		h.redirectToRoom(w, r, current)
		return
	}

	switch action {
	case game.ActionTake:
		if _, err := h.world.TakeItem(p, itemId); err != nil {
			metrics.ItemActions.WithLabelValues(action.String(), "miss").Inc()
		} else {
			metrics.ItemActions.WithLabelValues(action.String(), "ok").Inc()
			h.emit(r, events.Event{Kind: events.KindItemTaken, Player: p.Name, Room: string(current), Item: itemId})
		}

	case game.ActionDrop:
		if _, err := h.world.DropItem(p, itemId); err != nil {
			metrics.ItemActions.WithLabelValues(action.String(), "miss").Inc()
		} else {
			metrics.ItemActions.WithLabelValues(action.String(), "ok").Inc()
			h.emit(r, events.Event{Kind: events.KindItemDropped, Player: p.Name, Room: string(current), Item: itemId})
		}

	case game.ActionEat:
		if err := h.world.EatItem(p, itemId); err != nil {
			metrics.ItemActions.WithLabelValues(action.String(), "refused").Inc()
			data := struct {
				ErrorMessage string
				RoomId       storage.Identifier
			}{
				ErrorMessage: err.Error(),
				RoomId:       current,
			}
			h.renderPage(w, r, http.StatusInternalServerError, "error.html", data)
			return
		}
		metrics.ItemActions.WithLabelValues(action.String(), "ok").Inc()
		h.emit(r, events.Event{Kind: events.KindItemEaten, Player: p.Name, Room: string(current), Item: itemId})
	}

	h.redirectToRoom(w, r, current)
}

// Fallback handles every unmatched route: home without a player, the
// current room with one.
func (h *Handler) Fallback(w http.ResponseWriter, r *http.Request) {
	p := h.sessions.Default().Player()
	if p == nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	h.redirectToRoom(w, r, h.world.CurrentRoom(p))
}

func (h *Handler) redirectToRoom(w http.ResponseWriter, r *http.Request, id storage.Identifier) {
	http.Redirect(w, r, "/rooms/"+string(id), http.StatusFound)
}

func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, name, data); err != nil {
		slog.ErrorContext(r.Context(), "rendering page", "page", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.WarnContext(r.Context(), "writing page", "page", name, "error", err)
	}
}

func (h *Handler) emit(r *http.Request, ev events.Event) {
	ev.Session = session.DefaultId
	if err := events.Emit(h.bus, ev); err != nil {
		slog.WarnContext(r.Context(), "publishing game event", "kind", ev.Kind, "error", err)
	}
}
