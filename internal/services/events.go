package services

import (
	"decayd/internal/models"
	"decayd/internal/providers"
)

// ContentCreatedEvent arrives from the transport collaborator when an
// author publishes content with a stake attached. Delivery is
// at-least-once; EventID (when present) is used for dedupe.
type ContentCreatedEvent struct {
	EventID   string `json:"event_id"`
	ContentID string `json:"content_id"`
	OwnerID   string `json:"owner_id"`
	BoardID   string `json:"board_id"`
	Amount    int64  `json:"amount"`
	Payload   []byte `json:"payload"`
}

// EngagementEvent arrives for every like/comment/share/view.
type EngagementEvent struct {
	EventID   string                `json:"event_id"`
	ContentID string                `json:"content_id"`
	EngagerID string                `json:"engager_id"`
	Kind      models.EngagementKind `json:"kind"`
}

// EventSink is the outbound side of the transport collaborator: the engine
// pushes burn, reward and visibility notifications through it for UI
// display. Implementations must not block.
type EventSink interface {
	ContentBurned(contentID, ownerID string, amount int64)
	RewardGranted(userID, contentID string, amount int64)
	ContentVisibilityChanged(contentID string, visible bool)
}

// LoggingEventSink is the default sink when no transport is attached:
// notifications land in the ledger log and nowhere else.
type LoggingEventSink struct {
	logger providers.Logger
}

func NewLoggingEventSink(logger providers.Logger) EventSink {
	return &LoggingEventSink{logger: logger}
}

func (s *LoggingEventSink) ContentBurned(contentID, ownerID string, amount int64) {
	s.logger.Infof(providers.TypeLedger, "Burned %d from content %s (owner %s)", amount, contentID, ownerID)
}

func (s *LoggingEventSink) RewardGranted(userID, contentID string, amount int64) {
	s.logger.Infof(providers.TypeLedger, "Rewarded %d to user %s for content %s", amount, userID, contentID)
}

func (s *LoggingEventSink) ContentVisibilityChanged(contentID string, visible bool) {
	s.logger.Infof(providers.TypeLedger, "Content %s visibility changed to %t", contentID, visible)
}
