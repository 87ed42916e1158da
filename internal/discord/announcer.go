// Package discord posts raffle winners and resets to a Discord channel.
package discord

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/tombola/internal/domain"
	"github.com/osse101/tombola/internal/event"
)

// EmbedSender is the part of *discordgo.Session the announcer uses
type EmbedSender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Announcer relays bus events to Discord on its own goroutine so that a slow
// or failing API call never delays the draw
type Announcer struct {
	sender    EmbedSender
	channelID string
	now       func() time.Time

	queue    chan *discordgo.MessageEmbed
	shutdown chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewSession creates a REST-only discordgo session for token
func NewSession(token string) (*discordgo.Session, error) {
	s, err := discordgo.New(BotTokenPrefix + token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextCreateSession, err)
	}
	return s, nil
}

// NewAnnouncer creates an announcer posting to channelID
func NewAnnouncer(sender EmbedSender, channelID string) *Announcer {
	return &Announcer{
		sender:    sender,
		channelID: channelID,
		now:       time.Now,
		queue:     make(chan *discordgo.MessageEmbed, QueueSize),
		shutdown:  make(chan struct{}),
	}
}

// Register subscribes the announcer to winner and reset events
func (a *Announcer) Register(bus event.Bus) {
	bus.Subscribe(event.RaffleWinnerRevealed, a.handleWinner)
	bus.Subscribe(event.RaffleReset, a.handleReset)
}

// Start launches the send loop
func (a *Announcer) Start() {
	a.wg.Add(1)
	go a.run()
	slog.Info(LogMsgAnnouncerStarted, "channel_id", a.channelID)
}

// Stop sends what is already queued and waits for the loop to exit, or
// returns early when ctx expires
func (a *Announcer) Stop(ctx context.Context) error {
	a.stopOnce.Do(func() {
		close(a.shutdown)
	})

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		slog.Info(LogMsgAnnouncerStopped)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *Announcer) run() {
	defer a.wg.Done()

	for {
		select {
		case embed := <-a.queue:
			a.send(embed)
		case <-a.shutdown:
			for {
				select {
				case embed := <-a.queue:
					a.send(embed)
				default:
					return
				}
			}
		}
	}
}

func (a *Announcer) send(embed *discordgo.MessageEmbed) {
	if _, err := a.sender.ChannelMessageSendEmbed(a.channelID, embed); err != nil {
		slog.Error(LogMsgAnnouncementFailed, "error", err, "title", embed.Title)
		return
	}
	slog.Info(LogMsgAnnouncementSent, "title", embed.Title)
}

// enqueue never blocks: bus handlers run inside the draw engine's critical section
func (a *Announcer) enqueue(embed *discordgo.MessageEmbed) {
	select {
	case <-a.shutdown:
		return
	default:
	}

	select {
	case a.queue <- embed:
	default:
		slog.Warn(LogMsgAnnouncementDrop, "title", embed.Title)
	}
}

func (a *Announcer) handleWinner(_ context.Context, evt event.Event) error {
	winner, err := event.DecodePayload[domain.Winner](evt.Payload)
	if err != nil {
		slog.Warn(LogMsgParseError, "error", err, "event_type", evt.Type)
		return nil
	}
	a.enqueue(a.winnerEmbed(winner))
	return nil
}

func (a *Announcer) handleReset(_ context.Context, evt event.Event) error {
	reset, err := event.DecodePayload[domain.RaffleReset](evt.Payload)
	if err != nil {
		slog.Warn(LogMsgParseError, "error", err, "event_type", evt.Type)
		return nil
	}
	a.enqueue(a.resetEmbed(reset))
	return nil
}

func (a *Announcer) winnerEmbed(w domain.Winner) *discordgo.MessageEmbed {
	drawnAt := w.DrawnAt
	if drawnAt.IsZero() {
		drawnAt = a.now()
	}
	return &discordgo.MessageEmbed{
		Title:       EmbedTitleWinner,
		Description: fmt.Sprintf(EmbedWinnerDescFmt, w.Number, w.Prize),
		Color:       ColorWinner,
		Fields: []*discordgo.MessageEmbedField{
			{Name: EmbedFieldPrize, Value: w.Prize, Inline: true},
			{Name: EmbedFieldNumber, Value: fmt.Sprintf("%d", w.Number), Inline: true},
			{Name: EmbedFieldDrawNumber, Value: fmt.Sprintf("#%d", w.ID), Inline: true},
		},
		Timestamp: drawnAt.Format(time.RFC3339),
		Footer:    &discordgo.MessageEmbedFooter{Text: EmbedFooter},
	}
}

func (a *Announcer) resetEmbed(r domain.RaffleReset) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       EmbedTitleReset,
		Description: fmt.Sprintf(EmbedResetDescFormat, r.Prizes, r.Numbers),
		Color:       ColorReset,
		Timestamp:   a.now().Format(time.RFC3339),
		Footer:      &discordgo.MessageEmbedFooter{Text: EmbedFooter},
	}
}
