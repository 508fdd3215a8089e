package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/MindGainsForge/discord-trade-scraper/apps/scraper/internal/model"
)

// NoticeHandler receives every notice found in the channel. Returned errors
// are logged by the drivers and never stop them.
type NoticeHandler interface {
	HandleNotice(ctx context.Context, notice model.Notice) error
}

// NewSession creates a bot session with the intents needed to read embeds in
// guild channels. The caller owns Open and Close.
func NewSession(token string) (*discordgo.Session, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentGuilds |
		discordgo.IntentGuildMessages |
		discordgo.IntentMessageContent

	return session, nil
}
