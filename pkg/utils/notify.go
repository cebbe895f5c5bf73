package utils

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// Notifier pushes offer lifecycle events to connected parties. Delivery is
// best effort; a missed notification never fails the transition that
// produced it.
type Notifier struct {
	mu    sync.RWMutex
	conns map[uuid.UUID]*websocket.Conn
}

// DefaultNotifier is the package-level notifier instance.
var DefaultNotifier = NewNotifier()

func NewNotifier() *Notifier {
	return &Notifier{
		conns: make(map[uuid.UUID]*websocket.Conn),
	}
}

// Register registers a websocket connection for a user, replacing any
// previous one.
func (n *Notifier) Register(userID uuid.UUID, conn *websocket.Conn) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if old, ok := n.conns[userID]; ok && old != conn {
		_ = old.Close()
	}
	n.conns[userID] = conn
	log.Printf("event=ws_register user=%s total_connections=%d", userID.String(), len(n.conns))
}

// UnregisterConn removes the user's registration only while conn is still
// the one on record. A handler cleaning up after a reconnect replaced its
// connection must leave the replacement alone.
func (n *Notifier) UnregisterConn(userID uuid.UUID, conn *websocket.Conn) {
	n.mu.Lock()
	defer n.mu.Unlock()
	current, ok := n.conns[userID]
	if !ok || current != conn {
		return
	}
	_ = current.Close()
	delete(n.conns, userID)
	log.Printf("event=ws_unregister user=%s total_connections=%d", userID.String(), len(n.conns))
}

// OfferEvent is the payload pushed when an offer changes status.
type OfferEvent struct {
	Event   string    `json:"event"`
	OfferID uuid.UUID `json:"offer_id"`
	Status  string    `json:"status"`
}

// NotifyOffer sends an offer status event to every listed party that has
// a live connection.
func (n *Notifier) NotifyOffer(offerID uuid.UUID, status string, userIDs ...uuid.UUID) {
	event := OfferEvent{Event: "offer_status", OfferID: offerID, Status: status}
	for _, uid := range userIDs {
		if err := n.Send(uid, event); err != nil {
			log.Printf("event=notify_skip user=%s offer=%s reason=%v", uid.String(), offerID.String(), err)
		}
	}
}

// Send sends a JSON-serializable payload to the user's connection.
func (n *Notifier) Send(userID uuid.UUID, payload interface{}) error {
	n.mu.RLock()
	conn, ok := n.conns[userID]
	n.mu.RUnlock()
	if !ok || conn == nil {
		return ErrNoConnection
	}

	msg, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
		log.Printf("event=notify_error_write user=%s error=%v", userID.String(), err)
		return err
	}
	return nil
}

// ErrNoConnection is returned when there is no websocket connection for
// the user.
var ErrNoConnection = &NoConnError{}

type NoConnError struct{}

func (e *NoConnError) Error() string { return "no websocket connection for user" }
