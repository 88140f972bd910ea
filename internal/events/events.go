// Package events broadcasts state changes to the views that are listening
// at the moment of publication. There is no replay: a subscriber only sees
// events published after it subscribed.
package events

import (
	"context"
	"time"

	"github.com/jokads/JokaTech/internal/domain"
)

// Type identifies an event kind.
type Type string

const (
	CartChanged    Type = "cart.changed"
	AuthChanged    Type = "auth.changed"
	OrderConfirmed Type = "order.confirmed"
	CustomPCSubmit Type = "custompc.submitted"
)

// Event is the envelope delivered to subscribers.
type Event struct {
	Type      Type                    `json:"type"`
	SessionID string                  `json:"session_id,omitempty"`
	CartCount int                     `json:"cart_count"`
	LoggedIn  bool                    `json:"logged_in,omitempty"`
	Order     *domain.Order           `json:"order,omitempty"`
	CustomPC  *domain.CustomPCRequest `json:"custom_pc,omitempty"`
	At        time.Time               `json:"at"`
}

func NewCartChanged(session string, count int) Event {
	return Event{Type: CartChanged, SessionID: session, CartCount: count, At: time.Now().UTC()}
}

func NewAuthChanged(session string, loggedIn bool) Event {
	return Event{Type: AuthChanged, SessionID: session, LoggedIn: loggedIn, At: time.Now().UTC()}
}

func NewOrderConfirmed(session string, order domain.Order) Event {
	return Event{Type: OrderConfirmed, SessionID: session, Order: &order, At: time.Now().UTC()}
}

func NewCustomPCSubmitted(req domain.CustomPCRequest) Event {
	return Event{Type: CustomPCSubmit, CustomPC: &req, At: time.Now().UTC()}
}

// Filter selects which events a subscription receives. A nil Filter
// receives everything.
type Filter func(Event) bool

// ForSession keeps only events addressed to session.
func ForSession(session string) Filter {
	return func(e Event) bool { return e.SessionID == session }
}

// OfType keeps only events of the given types.
func OfType(types ...Type) Filter {
	return func(e Event) bool {
		for _, t := range types {
			if e.Type == t {
				return true
			}
		}
		return false
	}
}

// Subscription is a live feed of events. Call Close to stop delivery.
type Subscription struct {
	C     <-chan Event
	close func()
}

// Close stops delivery and releases the subscription. Safe to call twice.
func (s *Subscription) Close() {
	if s.close != nil {
		s.close()
	}
}

// Bus publishes events to the subscriptions active at publish time.
type Bus interface {
	Publish(ctx context.Context, e Event) error
	Subscribe(filter Filter) (*Subscription, error)
	Close() error
}

// subscriberBuffer bounds per-subscriber backlog. A subscriber that falls
// this far behind drops events instead of blocking publishers.
const subscriberBuffer = 32
