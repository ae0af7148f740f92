package radial

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	Rt "github.com/maroda/radial/types"
)

const (
	writeWait    = 5 * time.Second
	clientBuffer = 4
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// FrameHub fans painted frames out to websocket clients.
// It is a FrameOutput, called on the loop goroutine, so it never blocks:
// a client that falls behind misses frames.
type FrameHub struct {
	MU      sync.Mutex
	clients map[*hubClient]struct{}
	Dropped int
}

type hubClient struct {
	send chan Rt.Frame
}

func NewFrameHub() *FrameHub {
	return &FrameHub{clients: make(map[*hubClient]struct{})}
}

func (h *FrameHub) WriteFrame(f Rt.Frame) error {
	h.MU.Lock()
	defer h.MU.Unlock()
	for c := range h.clients {
		select {
		case c.send <- f:
		default:
			h.Dropped++
		}
	}
	return nil
}

func (h *FrameHub) Close() error {
	h.MU.Lock()
	defer h.MU.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
	return nil
}

func (h *FrameHub) Type() string { return "websocket" }

func (h *FrameHub) Clients() int {
	h.MU.Lock()
	defer h.MU.Unlock()
	return len(h.clients)
}

func (h *FrameHub) add() *hubClient {
	c := &hubClient{send: make(chan Rt.Frame, clientBuffer)}
	h.MU.Lock()
	h.clients[c] = struct{}{}
	h.MU.Unlock()
	return c
}

func (h *FrameHub) remove(c *hubClient) {
	h.MU.Lock()
	defer h.MU.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// WebsocketHandler streams every painted frame as JSON.
// A new client gets the current frame right away, in ambient
// the next paint can be a minute off.
func (v *View) WebsocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	c := v.Hub.add()
	defer v.Hub.remove(c)

	if frame, err := v.CurrentFrame(); err == nil {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(frame); err != nil {
			return
		}
	}

	// reads only to notice the client going away
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if !ok {
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "face stopped"))
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(frame); err != nil {
				slog.Debug("Websocket client gone", slog.Any("Error", err))
				return // Connection closed
			}
		case <-done:
			return
		}
	}
}
