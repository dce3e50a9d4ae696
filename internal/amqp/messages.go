package amqp

import (
	"encoding/json"
	"time"

	"xpdash/internal/core"
)

// SnapshotMessage carries one profile snapshot from the web app to the
// snapshot worker.
type SnapshotMessage struct {
	Snapshot  core.Snapshot `json:"snapshot"`
	Timestamp time.Time     `json:"timestamp"`
}

func NewSnapshotMessage(s core.Snapshot) *SnapshotMessage {
	return &SnapshotMessage{
		Snapshot:  s,
		Timestamp: time.Now(),
	}
}

func (m *SnapshotMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SnapshotMessageFromJSON decodes a message and rejects snapshots without
// a login.
func SnapshotMessageFromJSON(data []byte) (*SnapshotMessage, error) {
	var msg SnapshotMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if err := msg.Snapshot.Validate(); err != nil {
		return nil, err
	}
	return &msg, nil
}
