package ipc

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Notifier pushes layout-change events to connected GUI clients over
// WebSocket. This is additive to the request/response IPC surface above:
// the GUI still issues query/move/lock commands through Dispatcher. The
// engine broadcasts only on maximize and unmaximize transitions; new
// windows, workspace switches and overflow rebalances are not pushed.
type Notifier struct {
	upgrader websocket.Upgrader
	logger   *logrus.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// Event is one change notification broadcast to subscribers.
type Event struct {
	Kind      string `json:"kind"`
	Workspace int32  `json:"workspace,omitempty"`
}

// NewNotifier returns an empty Notifier ready to accept subscribers.
func NewNotifier(logger *logrus.Logger) *Notifier {
	return &Notifier{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger:  logger,
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// ServeHTTP upgrades the connection and registers it as a subscriber
// until it disconnects.
func (n *Notifier) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := n.upgrader.Upgrade(w, r, nil)
	if err != nil {
		n.logger.WithError(err).Warn("guinotify: upgrade failed")
		return
	}

	n.mu.Lock()
	n.clients[conn] = struct{}{}
	n.mu.Unlock()

	go n.drainUntilClosed(conn)
}

// drainUntilClosed discards inbound frames (this channel is push-only)
// and deregisters conn once the client goes away.
func (n *Notifier) drainUntilClosed(conn *websocket.Conn) {
	defer func() {
		n.mu.Lock()
		delete(n.clients, conn)
		n.mu.Unlock()
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Broadcast sends ev to every connected subscriber, dropping any that
// fail to write (they will be cleaned up by drainUntilClosed).
func (n *Notifier) Broadcast(ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	for conn := range n.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			conn.Close()
			delete(n.clients, conn)
		}
	}
}

// SubscriberCount reports how many GUI clients are currently connected.
func (n *Notifier) SubscriberCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.clients)
}
