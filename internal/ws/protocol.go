package ws

import (
	"github.com/Starman965/mongoose-sub000/internal/achievement"
)

type MessageType string

const (
	MsgCatalog  MessageType = "catalog"
	MsgProgress MessageType = "progress"
	MsgUnlocked MessageType = "achievement_unlocked"
	MsgError    MessageType = "error"
)

type WSMessage struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload"`
}

// CatalogPayload is sent once when a client connects.
type CatalogPayload struct {
	Entries []achievement.Entry `json:"entries"`
}

// ProgressPayload announces a counter advancing on an achievement that is
// not yet complete.
type ProgressPayload struct {
	Entry achievement.Entry `json:"entry"`
	Text  string            `json:"text"`
}

// UnlockedPayload announces a completed achievement.
type UnlockedPayload struct {
	ID         string                 `json:"id"`
	Title      string                 `json:"title"`
	Points     int                    `json:"points"`
	Difficulty achievement.Difficulty `json:"difficulty"`
	Text       string                 `json:"text"`
}
