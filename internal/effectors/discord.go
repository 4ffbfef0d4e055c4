// Package effectors is the render side of the transport: it turns abstract
// view models into Discord embeds and components and manages the lifecycle
// of the calendar message in each channel.
package effectors

import (
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"whenbot/internal/logging"
	"whenbot/internal/view"
)

// DiscordRenderer sends and edits calendar messages. It tracks one
// calendar message per channel: the first redraw sends it, later redraws
// edit it in place.
type DiscordRenderer struct {
	session *discordgo.Session

	mu       sync.Mutex
	messages map[string]string // channelID -> calendar message ID
}

// NewDiscordRenderer wires a renderer onto an existing session.
func NewDiscordRenderer(session *discordgo.Session) *DiscordRenderer {
	return &DiscordRenderer{
		session:  session,
		messages: make(map[string]string),
	}
}

// Redraw renders the model into the channel's calendar message, sending a
// fresh one when none is tracked or the tracked one cannot be edited.
func (r *DiscordRenderer) Redraw(location string, m *view.Model) error {
	embed := CalendarEmbed(m)
	components := CalendarComponents(m)

	r.mu.Lock()
	messageID, tracked := r.messages[location]
	r.mu.Unlock()

	if tracked {
		embeds := []*discordgo.MessageEmbed{embed}
		_, err := r.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
			Channel:    location,
			ID:         messageID,
			Embeds:     &embeds,
			Components: &components,
		})
		if err == nil {
			return nil
		}
		logging.Warn("discord-render", "Edit of calendar %s failed, sending fresh: %v", messageID, err)
		r.mu.Lock()
		delete(r.messages, location)
		r.mu.Unlock()
	}

	msg, err := r.session.ChannelMessageSendComplex(location, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: components,
	})
	if err != nil {
		return fmt.Errorf("failed to send calendar: %w", err)
	}

	r.mu.Lock()
	r.messages[location] = msg.ID
	r.mu.Unlock()
	logging.Info("discord-render", "Calendar displayed in %s (%s view)", location, m.Granularity)
	return nil
}

// Displayed reports whether a calendar message is tracked for the channel.
func (r *DiscordRenderer) Displayed(location string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.messages[location]
	return ok
}

// PromptEditor opens the ephemeral availability editor in response to the
// edit button.
func (r *DiscordRenderer) PromptEditor(i *discordgo.InteractionCreate, date time.Time) error {
	return r.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    fmt.Sprintf("Edit your availability for %s:", date.Format("Monday, January 2")),
			Components: EditorComponents(),
			Flags:      discordgo.MessageFlagsEphemeral,
		},
	})
}

// AckComponent acknowledges a component interaction without changing the
// message it came from.
func (r *DiscordRenderer) AckComponent(i *discordgo.InteractionCreate) error {
	return r.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
}

// ReplyEphemeral sends a one-off ephemeral reply to an interaction.
func (r *DiscordRenderer) ReplyEphemeral(i *discordgo.InteractionCreate, content string) error {
	return r.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// UpdateEditor replaces the ephemeral editor message the interaction came
// from, optionally clearing its components (on save/cancel).
func (r *DiscordRenderer) UpdateEditor(i *discordgo.InteractionCreate, content string, clear bool) error {
	data := &discordgo.InteractionResponseData{Content: content}
	if clear {
		data.Components = []discordgo.MessageComponent{}
	}
	return r.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: data,
	})
}

// DeleteResponse removes an earlier interaction response (the transient
// "Generating calendar..." acknowledgement).
func (r *DiscordRenderer) DeleteResponse(i *discordgo.InteractionCreate) {
	if err := r.session.InteractionResponseDelete(i.Interaction); err != nil {
		logging.Debug("discord-render", "Failed to delete interaction response: %v", err)
	}
}
