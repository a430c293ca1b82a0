package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog records who did what to which escrow entity, including the
// mandatory note on admin-driven fund-movement decisions.
type AuditLog struct {
	ID          uuid.UUID      `json:"id"`
	ActorUserID *uuid.UUID     `json:"actor_user_id,omitempty"`
	ActorType   string         `json:"actor_type"` // buyer / dealer / admin / system
	Action      string         `json:"action"`
	EntityType  string         `json:"entity_type"`
	EntityID    *uuid.UUID     `json:"entity_id,omitempty"`
	Meta        map[string]any `json:"meta,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}
