package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"formpulse/internal/log"
	"formpulse/internal/model"
	"formpulse/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // the query token authorizes the feed
	},
}

// TokenValidator resolves a creator token
type TokenValidator interface {
	ValidateToken(token string) (*model.CreatorClaims, error)
}

// FormOwnership looks up a form on behalf of its owner
type FormOwnership interface {
	Owned(ctx context.Context, ownerID, id string) (*model.Form, error)
}

// Handler handles WebSocket connections
type Handler struct {
	hub    *Hub
	tokens TokenValidator
	forms  FormOwnership
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, tokens TokenValidator, forms FormOwnership) *Handler {
	return &Handler{
		hub:    hub,
		tokens: tokens,
		forms:  forms,
	}
}

// FormWS handles GET /api/ws/forms/{id}?token=
func (h *Handler) FormWS(w http.ResponseWriter, r *http.Request) {
	formID := mux.Vars(r)["id"]
	token := r.URL.Query().Get("token")

	if token == "" {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	claims, err := h.tokens.ValidateToken(token)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	form, err := h.forms.Owned(r.Context(), claims.CreatorID, formID)
	if err != nil {
		if errors.Is(err, service.ErrFormNotFound) {
			writeError(w, http.StatusNotFound, "Form not found")
			return
		}
		log.Errorf("ws form lookup %s: %v", formID, err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warnf("websocket upgrade: %v", err)
		return
	}

	conn := &Connection{
		FormID:    form.ID,
		CreatorID: claims.CreatorID,
		Send:      make(chan []byte, 256),
	}

	// queue the greeting before the hub can close Send
	payload, _ := json.Marshal(map[string]string{"formId": form.ID})
	if hello, err := json.Marshal(&Message{Type: MsgConnected, Payload: payload}); err == nil {
		conn.Send <- hello
	}
	h.hub.Register(conn)

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection) {
	defer func() {
		h.hub.Unregister(conn)
		wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := wsConn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warnf("websocket read: %v", err)
			}
			return
		}
		// the feed is one-way; client messages are ignored
	}
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}

			w, err := wsConn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
