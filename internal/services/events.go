package services

import (
	"time"

	"go.uber.org/zap"
)

// Event types published after a successful write.
const (
	EventTagCreated        = "tag.created"
	EventTagUpdated        = "tag.updated"
	EventTagDeleted        = "tag.deleted"
	EventIngredientCreated = "ingredient.created"
	EventIngredientUpdated = "ingredient.updated"
	EventIngredientDeleted = "ingredient.deleted"
	EventRecipeCreated     = "recipe.created"
	EventRecipeUpdated     = "recipe.updated"
	EventRecipeDeleted     = "recipe.deleted"
	EventRecipeImage       = "recipe.image_uploaded"
)

// Event is the envelope sent to the message broker.
type Event struct {
	Type       string    `json:"type"`
	UserID     uint      `json:"user_id"`
	EntityID   uint      `json:"entity_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher delivers events. *rabbitmq.Client satisfies it.
type EventPublisher interface {
	Publish(payload interface{}) error
}

// Notifier publishes events on a best-effort basis: failures are logged and
// never returned to the caller. A nil Notifier or one without a publisher
// does nothing.
type Notifier struct {
	pub EventPublisher
	log *zap.SugaredLogger
	now func() time.Time
}

// NewNotifier creates a Notifier. pub may be nil.
func NewNotifier(pub EventPublisher, log *zap.SugaredLogger) *Notifier {
	return &Notifier{
		pub: pub,
		log: log,
		now: time.Now,
	}
}

// Emit publishes one event.
func (n *Notifier) Emit(eventType string, userID, entityID uint) {
	if n == nil || n.pub == nil {
		return
	}
	e := Event{
		Type:       eventType,
		UserID:     userID,
		EntityID:   entityID,
		OccurredAt: n.now().UTC(),
	}
	if err := n.pub.Publish(e); err != nil && n.log != nil {
		n.log.Warnw("failed to publish event", "type", eventType, "entity_id", entityID, "error", err)
	}
}
