// Package senses adapts Discord into the abstract message events the core
// consumes. Nothing here interprets message text; it only converts,
// filters, and forwards.
package senses

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"whenbot/internal/logging"
	"whenbot/internal/types"
)

const historyPageSize = 100

// Handler receives converted events. Implementations are expected to
// serialize their own processing; discordgo dispatches concurrently.
type Handler interface {
	MessageCreated(ev types.MessageEvent)
	MessageUpdated(ev types.MessageEvent)
	MessageDeleted(scope, location, messageID string)
	InteractionCreated(i *discordgo.InteractionCreate)
}

// DiscordConfig holds connection settings. GuildID, when set, scopes the
// slash-command registration to one server (instant, good for testing);
// empty registers globally.
type DiscordConfig struct {
	Token   string
	AppID   string
	GuildID string
}

// DiscordSense listens to Discord and forwards message and interaction
// events to its handler.
type DiscordSense struct {
	session *discordgo.Session
	appID   string
	guildID string
	botID   string
	handler Handler
}

// NewDiscordSense creates the sense and registers its gateway handlers.
// The handler may be nil at construction (the router needs the sense's
// session first); set it with SetHandler before Start.
func NewDiscordSense(cfg DiscordConfig, handler Handler) (*DiscordSense, error) {
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	sense := &DiscordSense{
		session: session,
		appID:   cfg.AppID,
		guildID: cfg.GuildID,
		handler: handler,
	}

	session.AddHandler(sense.onMessageCreate)
	session.AddHandler(sense.onMessageUpdate)
	session.AddHandler(sense.onMessageDelete)
	session.AddHandler(sense.onInteraction)

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent

	return sense, nil
}

// SetHandler installs the event handler. Must happen before Start.
func (d *DiscordSense) SetHandler(handler Handler) {
	d.handler = handler
}

// Start connects and registers the /calendar command.
func (d *DiscordSense) Start() error {
	if err := d.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}
	d.botID = d.session.State.User.ID
	logging.Info("discord-sense", "Connected as %s", d.session.State.User.Username)

	appID := d.appID
	if appID == "" {
		appID = d.botID
	}
	_, err := d.session.ApplicationCommandCreate(appID, d.guildID, &discordgo.ApplicationCommand{
		Name:        "calendar",
		Description: "Display a calendar of everyone's availability for this channel",
	})
	if err != nil {
		logging.Warn("discord-sense", "Failed to register /calendar: %v", err)
	} else {
		logging.Info("discord-sense", "Registered /calendar command")
	}
	return nil
}

// Stop disconnects from Discord.
func (d *DiscordSense) Stop() error {
	return d.session.Close()
}

// Session returns the underlying session (shared with the renderer).
func (d *DiscordSense) Session() *discordgo.Session {
	return d.session
}

// DisplayName resolves a participant ID to something printable.
func (d *DiscordSense) DisplayName(userID string) string {
	if user, err := d.session.User(userID); err == nil && user != nil {
		return user.Username
	}
	return userID
}

// History fetches the location's messages since the given time, oldest
// first, so replaying them preserves last-statement-wins ordering. The
// context guards the page-fetch loop.
func (d *DiscordSense) History(ctx context.Context, channelID string, since time.Time) ([]types.MessageEvent, error) {
	var events []types.MessageEvent
	beforeID := ""

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := d.session.ChannelMessages(channelID, historyPageSize, beforeID, "", "")
		if err != nil {
			return nil, fmt.Errorf("failed to fetch channel history: %w", err)
		}
		if len(page) == 0 {
			break
		}

		reachedEnd := false
		for _, msg := range page {
			if msg.Timestamp.Before(since) {
				reachedEnd = true
				break
			}
			if msg.Author == nil || msg.Author.Bot {
				continue
			}
			events = append(events, d.toEvent(msg))
		}

		if reachedEnd || len(page) < historyPageSize {
			break
		}
		beforeID = page[len(page)-1].ID
	}

	// Discord pages newest-first; reverse into chronological order.
	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}
	return events, nil
}

func (d *DiscordSense) toEvent(m *discordgo.Message) types.MessageEvent {
	ev := types.MessageEvent{
		ID:        m.ID,
		Scope:     m.GuildID,
		Location:  m.ChannelID,
		Text:      m.Content,
		CreatedAt: m.Timestamp,
	}
	if m.Author != nil {
		ev.AuthorID = m.Author.ID
		ev.AuthorName = m.Author.Username
		ev.IsBot = m.Author.Bot
	}
	return ev
}

func (d *DiscordSense) onMessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if d.handler == nil || m.Author == nil || m.Author.ID == d.botID || m.GuildID == "" {
		return
	}
	logging.Debug("discord-sense", "message: %s", logging.Truncate(m.Content, 60))
	d.handler.MessageCreated(d.toEvent(m.Message))
}

func (d *DiscordSense) onMessageUpdate(_ *discordgo.Session, m *discordgo.MessageUpdate) {
	if d.handler == nil || m.Author == nil || m.Author.ID == d.botID || m.GuildID == "" {
		return
	}
	d.handler.MessageUpdated(d.toEvent(m.Message))
}

func (d *DiscordSense) onMessageDelete(_ *discordgo.Session, m *discordgo.MessageDelete) {
	if d.handler == nil || m.GuildID == "" {
		return
	}
	d.handler.MessageDeleted(m.GuildID, m.ChannelID, m.ID)
}

func (d *DiscordSense) onInteraction(_ *discordgo.Session, i *discordgo.InteractionCreate) {
	if d.handler == nil {
		return
	}
	d.handler.InteractionCreated(i)
}
