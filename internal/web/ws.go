package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"sortable-cli/internal/model"
	"sortable-cli/internal/reorder"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// inbound is any client to server frame. dragEnd frames carry the DragEvent
// fields inline; setValue frames carry tree.
type inbound struct {
	Type string `json:"type"`
	reorder.DragEvent
	Tree *model.Tree `json:"tree,omitempty"`
}

type errorMsg struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  32 * 1024,
	WriteBufferSize: 32 * 1024,
	CheckOrigin: sameOrigin,
}

// sameOrigin accepts requests without an Origin (non-browser clients) and
// browser requests whose Origin host:port equals the request host exactly.
func sameOrigin(r *http.Request) bool {
	origin := strings.TrimSpace(r.Header.Get("Origin"))
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	return strings.EqualFold(u.Host, strings.TrimSpace(r.Host))
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the response.
		s.log.Debug("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	c := s.hub.join()
	defer s.hub.leave(c)
	log := s.log.With("client", c.id)
	log.Debug("client connected")

	replies := make(chan []byte, 4)
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.writePump(ctx, conn, c, replies)
	}()

	s.readPump(conn, replies, log)
	cancel()
	<-done
	log.Debug("client disconnected")
}

func (s *Server) writePump(ctx context.Context, conn *websocket.Conn, c *client, replies <-chan []byte) {
	write := func(b []byte) error {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteMessage(websocket.TextMessage, b)
	}
	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		case b := <-c.send:
			if err := write(b); err != nil {
				return
			}
		case b := <-replies:
			if err := write(b); err != nil {
				return
			}
		}
	}
}

// readPump dispatches frames until the connection closes. Malformed frames
// are logged and answered with an error frame; they never touch the tree.
func (s *Server) readPump(conn *websocket.Conn, replies chan<- []byte, log *slog.Logger) {
	conn.SetReadLimit(maxBodyBytes)
	reply := func(msg string) {
		b, _ := json.Marshal(errorMsg{Type: "error", Error: msg})
		select {
		case replies <- b:
		default:
		}
	}
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var in inbound
		if err := json.Unmarshal(data, &in); err != nil {
			log.Warn("ignoring malformed frame", "error", err)
			reply("malformed frame")
			continue
		}
		switch in.Type {
		case "dragEnd":
			if err := s.bridge.HandleDragEnd(in.DragEvent); err != nil {
				log.Debug("drag rejected", "error", err)
				reply(err.Error())
				// The sender's list already shows the drop; resend the
				// unchanged value so it redraws.
				if frame := s.hub.current(); frame != nil {
					select {
					case replies <- frame:
					default:
					}
				}
			}
		case "setValue":
			if in.Tree == nil {
				log.Warn("ignoring setValue without tree")
				reply("setValue requires tree")
				continue
			}
			s.bridge.SetValue(*in.Tree)
		default:
			log.Warn("ignoring unknown frame", "type", in.Type)
			reply("unknown frame type")
		}
	}
}
