package models

import "time"

// Roles a turn can carry within a conversation.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one message stored as part of a conversation's history.
// The timestamp is assigned by the server at write time and is used
// only for retrieval ordering.
type Turn struct {
	ConversationID string    `bson:"conversation_id" json:"conversation_id"`
	Role           string    `bson:"role" json:"role"`
	Content        string    `bson:"content" json:"content"`
	Timestamp      time.Time `bson:"timestamp" json:"timestamp"`
}
