package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/bwmarrin/discordgo"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/MindGainsForge/discord-trade-scraper/apps/scraper/internal/model"
)

const maxFetchRetries = 5

// MessageFetcher is the part of *discordgo.Session the backfill needs.
type MessageFetcher interface {
	ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error)
}

type BackfillConfig struct {
	ChannelID string
	PageSize  int
	PageDelay time.Duration
	Workers   int
}

type BackfillStats struct {
	Messages int64
	Notices  int64
	Failed   int64
}

// Backfiller walks the channel history from newest to oldest and hands every
// notice to the handler.
type Backfiller struct {
	fetcher    MessageFetcher
	handler    NoticeHandler
	config     BackfillConfig
	logger     *zap.Logger
	limiter    *rate.Limiter
	newBackOff func() backoff.BackOff
}

func NewBackfiller(fetcher MessageFetcher, handler NoticeHandler, config BackfillConfig, logger *zap.Logger) *Backfiller {
	if config.Workers <= 0 {
		config.Workers = 1
	}

	return &Backfiller{
		fetcher: fetcher,
		handler: handler,
		config:  config,
		logger:  logger,
		limiter: rate.NewLimiter(rate.Every(config.PageDelay), 1),
		newBackOff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		},
	}
}

// Run returns once a page comes back empty. Per-notice failures are counted
// and logged; only a history fetch that keeps failing aborts the run.
func (b *Backfiller) Run(ctx context.Context) (BackfillStats, error) {
	var messages, notices, failed atomic.Int64
	stats := func() BackfillStats {
		return BackfillStats{Messages: messages.Load(), Notices: notices.Load(), Failed: failed.Load()}
	}

	pool := pond.NewPool(b.config.Workers, pond.WithContext(ctx))
	defer pool.StopAndWait()

	b.logger.Info("Starting history backfill",
		zap.String("channel_id", b.config.ChannelID),
		zap.Int("page_size", b.config.PageSize),
		zap.Int("workers", b.config.Workers))

	before := ""
	for {
		if err := b.limiter.Wait(ctx); err != nil {
			return stats(), err
		}

		page, err := b.fetchPage(ctx, before)
		if err != nil {
			return stats(), fmt.Errorf("failed to fetch messages before %q: %w", before, err)
		}
		if len(page) == 0 {
			break
		}

		group := pool.NewGroup()
		for _, message := range page {
			found, err := NoticesFromMessage(message)
			if err != nil {
				b.logger.Error("Skipping unreadable message", zap.String("message_id", message.ID), zap.Error(err))
				continue
			}
			for _, notice := range found {
				group.Submit(func() {
					notices.Add(1)
					if !b.handle(ctx, notice) {
						failed.Add(1)
					}
				})
			}
		}
		if err := group.Wait(); err != nil {
			return stats(), err
		}

		messages.Add(int64(len(page)))
		before = page[len(page)-1].ID
		b.logger.Info("Fetched more messages",
			zap.Int("count", len(page)),
			zap.Int64("total", messages.Load()))
	}

	b.logger.Info("Finished processing all historical messages",
		zap.Int64("messages", messages.Load()),
		zap.Int64("notices", notices.Load()),
		zap.Int64("failed", failed.Load()))
	return stats(), nil
}

func (b *Backfiller) handle(ctx context.Context, notice model.Notice) bool {
	if err := b.handler.HandleNotice(ctx, notice); err != nil {
		b.logger.Error("Failed to handle notice",
			zap.Int64("message_id", notice.MessageID),
			zap.Error(err))
		return false
	}
	return true
}

func (b *Backfiller) fetchPage(ctx context.Context, before string) ([]*discordgo.Message, error) {
	var page []*discordgo.Message
	operation := func() error {
		var err error
		page, err = b.fetcher.ChannelMessages(b.config.ChannelID, b.config.PageSize, before, "", "", discordgo.WithContext(ctx))
		if err != nil && !isRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		b.logger.Warn("Failed to fetch channel history, retrying",
			zap.String("before", before),
			zap.Duration("retry_in", wait),
			zap.Error(err))
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(b.newBackOff(), maxFetchRetries), ctx)
	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return nil, err
	}
	return page, nil
}

// isRetryable treats rate limits, server errors and transport failures as
// transient. Other API errors (missing access, unknown channel) are final.
func isRetryable(err error) bool {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil {
		code := restErr.Response.StatusCode
		return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
	}
	return true
}
