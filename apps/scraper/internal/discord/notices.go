package discord

import (
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"

	"github.com/MindGainsForge/discord-trade-scraper/apps/scraper/internal/model"
)

// NoticesFromMessage returns one notice per embed that carries a description.
// All notices of a message share its id, so only the first one can be stored.
func NoticesFromMessage(m *discordgo.Message) ([]model.Notice, error) {
	if len(m.Embeds) == 0 {
		return nil, nil
	}

	messageID, err := strconv.ParseInt(m.ID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid message id %q: %w", m.ID, err)
	}

	var notices []model.Notice
	for _, embed := range m.Embeds {
		if embed == nil || embed.Description == "" {
			continue
		}
		notices = append(notices, model.Notice{
			Description: embed.Description,
			Timestamp:   m.Timestamp,
			MessageID:   messageID,
		})
	}

	return notices, nil
}
