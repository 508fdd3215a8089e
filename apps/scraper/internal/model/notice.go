package model

import (
	"time"
)

// Notice is one embed description received from the Discord channel.
type Notice struct {
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
	MessageID   int64     `json:"message_id"`
}
