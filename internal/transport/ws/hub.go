package ws

import (
	"encoding/json"
	"sync"

	"formpulse/internal/log"
)

// MessageType defines the type of WebSocket message
type MessageType string

// MsgConnected greets a watcher; form events use the service event names
const MsgConnected MessageType = "connected"

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans form events out to the creators watching each form
type Hub struct {
	// formID -> connections
	conns map[string]map[*Connection]struct{}

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
	done       chan struct{}
	closeOnce  sync.Once
}

// Connection is one creator's live feed for a form
type Connection struct {
	FormID    string
	CreatorID string
	Send      chan []byte
}

// BroadcastMessage is a message to deliver to every watcher of FormID.
// Close disconnects the watchers instead, after anything queued before it.
type BroadcastMessage struct {
	FormID  string
	Message *Message
	Close   bool
}

// NewHub creates a new WebSocket hub and starts its loop
func NewHub() *Hub {
	h := &Hub{
		conns:      make(map[string]map[*Connection]struct{}),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
		done:       make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.conns[conn.FormID] == nil {
				h.conns[conn.FormID] = make(map[*Connection]struct{})
			}
			h.conns[conn.FormID][conn] = struct{}{}
			h.mu.Unlock()
			log.WithFields(log.Fields{"formId": conn.FormID, "creatorId": conn.CreatorID}).Debug("watcher connected")

		case conn := <-h.unregister:
			h.mu.Lock()
			h.remove(conn)
			h.mu.Unlock()

		case msg := <-h.broadcast:
			if msg.Close {
				h.mu.Lock()
				for conn := range h.conns[msg.FormID] {
					h.remove(conn)
				}
				h.mu.Unlock()
				continue
			}

			data, err := json.Marshal(msg.Message)
			if err != nil {
				log.Errorf("marshal ws message: %v", err)
				continue
			}
			h.mu.RLock()
			for conn := range h.conns[msg.FormID] {
				select {
				case conn.Send <- data:
				default:
					// slow reader, drop
				}
			}
			h.mu.RUnlock()

		case <-h.done:
			h.mu.Lock()
			for _, set := range h.conns {
				for conn := range set {
					h.remove(conn)
				}
			}
			h.mu.Unlock()
			return
		}
	}
}

// remove must be called with mu held
func (h *Hub) remove(conn *Connection) {
	set, ok := h.conns[conn.FormID]
	if !ok {
		return
	}
	if _, ok := set[conn]; !ok {
		return
	}
	delete(set, conn)
	close(conn.Send)
	if len(set) == 0 {
		delete(h.conns, conn.FormID)
	}
	log.WithFields(log.Fields{"formId": conn.FormID, "creatorId": conn.CreatorID}).Debug("watcher disconnected")
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	select {
	case h.register <- conn:
	case <-h.done:
		close(conn.Send)
	}
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Watchers reports how many connections are watching formID
func (h *Hub) Watchers(formID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[formID])
}

// BroadcastToForm sends a message to every creator watching the form (implements service.Broadcaster)
func (h *Hub) BroadcastToForm(formID string, msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Errorf("marshal %s payload: %v", msgType, err)
		return
	}
	msg := &BroadcastMessage{
		FormID: formID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
	select {
	case h.broadcast <- msg:
	case <-h.done:
	default:
		log.Warnf("ws broadcast queue full, dropping %s for form %s", msgType, formID)
	}
}

// DisconnectForm closes every connection watching the form (implements service.Broadcaster)
func (h *Hub) DisconnectForm(formID string) {
	select {
	case h.broadcast <- &BroadcastMessage{FormID: formID, Close: true}:
	case <-h.done:
	}
}

// Close stops the hub and closes all connections
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}
