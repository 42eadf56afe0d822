package messaging

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

// Event is published on every entity write so other services can react
// (analytics, notification fan-out). Consumers must tolerate duplicates.
type Event struct {
	ID       string    `json:"id"`
	Entity   string    `json:"entity"`
	Action   string    `json:"action"`
	EntityID string    `json:"entityId"`
	At       time.Time `json:"at"`
}

type Publisher struct {
	nc *nats.Conn
}

// Connect establishes the NATS connection. An empty URL disables
// messaging entirely; the returned publisher then drops every event.
func Connect(url string) (*Publisher, error) {
	if url == "" {
		log.Println("NATS_URL not set, event publishing disabled")
		return &Publisher{}, nil
	}
	nc, err := nats.Connect(url,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, err
	}
	log.Println("Connected to NATS at", url)
	return &Publisher{nc: nc}, nil
}

// Publish sends an entity event on "<entity>.<action>". Publish never
// fails the caller: a dropped connection or marshal problem is logged
// and the write that triggered the event proceeds as usual.
func (p *Publisher) Publish(entity, action, entityID string) {
	if p == nil || p.nc == nil || !p.nc.IsConnected() {
		return
	}
	event := Event{
		ID:       uuid.NewString(),
		Entity:   entity,
		Action:   action,
		EntityID: entityID,
		At:       time.Now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		log.Println("Failed to encode event:", err)
		return
	}
	if err := p.nc.Publish(entity+"."+action, payload); err != nil {
		log.Println("Failed to publish event:", err)
	}
}

// Close drains the NATS connection gracefully.
func (p *Publisher) Close() {
	if p != nil && p.nc != nil && p.nc.IsConnected() {
		p.nc.Close()
	}
}
