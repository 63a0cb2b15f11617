package models

import "time"

// ContentRecord is the durable unit replicated between storage nodes.
// DecayScore mirrors the stake's visibility score normalized to 0-100.
type ContentRecord struct {
	ContentID       string     `json:"content_id"`
	PayloadRef      string     `json:"payload_ref"`
	BoardID         string     `json:"board_id"`
	AuthorID        string     `json:"author_id"`
	PayloadSize     int64      `json:"payload_size"`
	DecayScore      int        `json:"decay_score"`
	ReplicaSet      []string   `json:"replica_set"`
	BelowFloorSince *time.Time `json:"below_floor_since,omitempty"`
	StoredAt        time.Time  `json:"stored_at"`
}

// IsVisible is derived, never stored: content is visible while its decay
// score sits above the floor.
func (c *ContentRecord) IsVisible(floor int) bool {
	return c.DecayScore > floor
}

// HasReplica reports whether nodeID already holds a copy.
func (c *ContentRecord) HasReplica(nodeID string) bool {
	for _, id := range c.ReplicaSet {
		if id == nodeID {
			return true
		}
	}
	return false
}

// AddReplica records nodeID as a holder, once.
func (c *ContentRecord) AddReplica(nodeID string) {
	if !c.HasReplica(nodeID) {
		c.ReplicaSet = append(c.ReplicaSet, nodeID)
	}
}

// RemoveReplica drops nodeID from the replica set.
func (c *ContentRecord) RemoveReplica(nodeID string) {
	for i, id := range c.ReplicaSet {
		if id == nodeID {
			c.ReplicaSet = append(c.ReplicaSet[:i], c.ReplicaSet[i+1:]...)
			return
		}
	}
}
