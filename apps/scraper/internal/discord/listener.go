package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Listener forwards notices posted to one channel as they arrive.
type Listener struct {
	channelID string
	handler   NoticeHandler
	logger    *zap.Logger
}

func NewListener(channelID string, handler NoticeHandler, logger *zap.Logger) *Listener {
	return &Listener{channelID: channelID, handler: handler, logger: logger}
}

// Attach registers the listener on the session. Handlers run with ctx until
// the returned function removes them.
func (l *Listener) Attach(ctx context.Context, session *discordgo.Session) func() {
	return session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		selfID := ""
		if s.State != nil && s.State.User != nil {
			selfID = s.State.User.ID
		}
		l.HandleMessage(ctx, selfID, m.Message)
	})
}

// HandleMessage processes one incoming message. selfID is the bot's own user
// id; its messages are ignored.
func (l *Listener) HandleMessage(ctx context.Context, selfID string, m *discordgo.Message) {
	if m == nil || m.ChannelID != l.channelID {
		return
	}

	if m.Author != nil && selfID != "" && m.Author.ID == selfID {
		return
	}

	if len(m.Embeds) == 0 {
		l.logger.Debug("Message ignored (no embeds)", zap.String("message_id", m.ID))
		return
	}

	notices, err := NoticesFromMessage(m)
	if err != nil {
		l.logger.Error("Skipping unreadable message", zap.String("message_id", m.ID), zap.Error(err))
		return
	}

	l.logger.Info("Processing message",
		zap.String("message_id", m.ID),
		zap.Int("embeds", len(m.Embeds)),
		zap.Int("notices", len(notices)))

	for _, notice := range notices {
		if err := l.handler.HandleNotice(ctx, notice); err != nil {
			l.logger.Error("Failed to handle notice",
				zap.Int64("message_id", notice.MessageID),
				zap.Error(err))
		}
	}
}
