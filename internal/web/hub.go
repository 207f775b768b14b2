package web

import (
	"encoding/json"
	"log/slog"
	"sync"

	"sortable-cli/internal/model"
	"sortable-cli/internal/render"

	"github.com/google/uuid"
)

// valueMsg is the server to client frame sent after every notification.
type valueMsg struct {
	Type     string     `json:"type"`
	Tree     model.Tree `json:"tree"`
	Deferred bool       `json:"deferred"`
	HTML     string     `json:"html,omitempty"`
}

type client struct {
	id   string
	send chan []byte
}

// hub fans notifications out to every connected client. A client whose
// buffer is full misses frames rather than stalling the bridge; the next
// value frame carries the whole tree anyway.
type hub struct {
	mu      sync.Mutex
	clients map[string]*client
	last    []byte
	log     *slog.Logger
}

func newHub(log *slog.Logger) *hub {
	return &hub{clients: map[string]*client{}, log: log}
}

// notify is the bridge's NotifyFunc. It runs under the bridge lock.
func (h *hub) notify(tree model.Tree, deferred bool) {
	frame, err := encodeValue(tree, deferred)
	if err != nil {
		h.log.Error("failed to encode value", "error", err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = frame
	for _, c := range h.clients {
		select {
		case c.send <- frame:
		default:
			h.log.Warn("dropping frame for slow client", "client", c.id)
		}
	}
}

// join registers a client and queues the current value for it.
func (h *hub) join() *client {
	c := &client{id: uuid.New().String(), send: make(chan []byte, 16)}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.id] = c
	if h.last != nil {
		c.send <- h.last
	}
	return c
}

// current returns the last value frame sent, or nil before the first notify.
func (h *hub) current() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last
}

func (h *hub) leave(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c.id)
}

func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func encodeValue(tree model.Tree, deferred bool) ([]byte, error) {
	if tree == nil {
		tree = model.Tree{}
	}
	html, err := render.HTML(tree)
	if err != nil {
		return nil, err
	}
	return json.Marshal(valueMsg{Type: "value", Tree: tree, Deferred: deferred, HTML: string(html)})
}
