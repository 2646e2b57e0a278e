package amqp

import (
	"encoding/json"
	"time"
)

// RecordSyncMessage asks the sync worker to push one local record to the
// remote backend. It carries only the entity, id and version; the worker
// fetches the full row from the local database.
type RecordSyncMessage struct {
	Entity    string    `json:"entity"`
	ID        int64     `json:"id"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

func NewRecordSyncMessage(entity string, id, version int64) *RecordSyncMessage {
	return &RecordSyncMessage{
		Entity:    entity,
		ID:        id,
		Version:   version,
		Timestamp: time.Now(),
	}
}

func (m *RecordSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func RecordSyncMessageFromJSON(data []byte) (*RecordSyncMessage, error) {
	var msg RecordSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
