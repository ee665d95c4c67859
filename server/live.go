package server

import (
	"net/http"
	"sync"

	Logger "github.com/Luismorlan/craftvalley/utils/log"
	"github.com/Luismorlan/craftvalley/view"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients connect cross-origin from the web app.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// LiveHub pushes freshly published pulse posts to every connected
// websocket client.
type LiveHub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

func NewLiveHub() *LiveHub {
	return &LiveHub{clients: map[*websocket.Conn]bool{}}
}

// BroadcastPost sends the post to every live client. A client whose
// write fails is dropped.
func (h *LiveHub) BroadcastPost(post view.Post) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteJSON(post); err != nil {
			Logger.Log.Error("fail to push post to live client: ", err)
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

func (h *LiveHub) add(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()
}

func (h *LiveHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	if h.clients[conn] {
		delete(h.clients, conn)
		conn.Close()
	}
	h.mu.Unlock()
}

// LivePulse upgrades the request to a websocket and keeps it
// subscribed to new posts until the client goes away.
func (s *Server) LivePulse(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		Logger.Log.Error("fail to upgrade live pulse connection: ", err)
		return
	}
	s.hub.add(conn)
	defer s.hub.remove(conn)

	// Clients never send application messages, the read loop only
	// notices disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
