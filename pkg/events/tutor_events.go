package events

import "time"

const (
	TypeSessionSummarized = "SESSION_SUMMARIZED"
	TypeChunksIngested    = "CHUNKS_INGESTED"
	TypeSessionDeleted    = "SESSION_DELETED"
)

func SessionSummarized(sessionId string, messageCount int, topics []string) Event {
	return BaseEvent{
		Type: TypeSessionSummarized,
		Data: map[string]interface{}{
			"session_id":    sessionId,
			"message_count": messageCount,
			"topics":        topics,
		},
		OccurredAt: time.Now(),
	}
}

func ChunksIngested(records, chunks int, pruned int64) Event {
	return BaseEvent{
		Type: TypeChunksIngested,
		Data: map[string]interface{}{
			"records": records,
			"chunks":  chunks,
			"pruned":  pruned,
		},
		OccurredAt: time.Now(),
	}
}

func SessionDeleted(sessionId string) Event {
	return BaseEvent{
		Type:       TypeSessionDeleted,
		Data:       map[string]interface{}{"session_id": sessionId},
		OccurredAt: time.Now(),
	}
}
