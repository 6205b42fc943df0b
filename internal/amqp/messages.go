package amqp

import (
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/moneyage/backend/internal/moneyage"
)

var (
	ErrEventTypeInvalid = errors.New("the event type must be committed, edited or deleted")
	ErrEventIDMissing   = errors.New("the event must reference a transaction and a tenant")
)

// EventMessage is the broker representation of a transaction event. The
// body is the same JSON shape the HTTP ingestion endpoint accepts.
type EventMessage struct {
	Event moneyage.Event
}

// EventMessageFromJSON parses a broker message body.
//
// Validation happens here, not in the handler: a message failing these
// checks can never become valid and must not be requeued.
func EventMessageFromJSON(body []byte) (EventMessage, error) {
	var event moneyage.Event
	if err := json.Unmarshal(body, &event); err != nil {
		return EventMessage{}, err
	}

	switch event.Type {
	case moneyage.EventCommitted, moneyage.EventEdited, moneyage.EventDeleted:
	default:
		return EventMessage{}, ErrEventTypeInvalid
	}

	if event.ID == uuid.Nil || event.TenantID == uuid.Nil {
		return EventMessage{}, ErrEventIDMissing
	}

	return EventMessage{Event: event}, nil
}

// ToJSON serializes the message for publishing.
func (m EventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m.Event)
}
