package events

import (
	"time"

	"github.com/MindGainsForge/discord-trade-scraper/apps/scraper/internal/model"
)

// NoticeEvent is the Kafka payload for one channel notice.
type NoticeEvent struct {
	MessageID   int64     `json:"message_id"`
	Description string    `json:"description"`
	ReceivedAt  time.Time `json:"received_at"`
	PublishedAt time.Time `json:"published_at"`
}

func NewNoticeEvent(notice model.Notice, publishedAt time.Time) NoticeEvent {
	return NoticeEvent{
		MessageID:   notice.MessageID,
		Description: notice.Description,
		ReceivedAt:  notice.Timestamp,
		PublishedAt: publishedAt,
	}
}

func (e NoticeEvent) Notice() model.Notice {
	return model.Notice{
		Description: e.Description,
		Timestamp:   e.ReceivedAt,
		MessageID:   e.MessageID,
	}
}
