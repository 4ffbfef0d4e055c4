// Package bot is the router: it receives message and interaction events
// from the sense, drives the extractor and the view state machine, and
// asks the renderer to answer interactions. Handlers are serialized on a
// single mutex; discordgo dispatches concurrently but the core expects
// one event at a time.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"whenbot/internal/availability"
	"whenbot/internal/effectors"
	"whenbot/internal/extract"
	"whenbot/internal/logging"
	"whenbot/internal/types"
	"whenbot/internal/view"
)

const historyTimeout = 2 * time.Minute

// Renderer is the interaction-facing half of the effectors.
type Renderer interface {
	PromptEditor(i *discordgo.InteractionCreate, date time.Time) error
	AckComponent(i *discordgo.InteractionCreate) error
	ReplyEphemeral(i *discordgo.InteractionCreate, content string) error
	UpdateEditor(i *discordgo.InteractionCreate, content string, clear bool) error
	DeleteResponse(i *discordgo.InteractionCreate)
}

// Historian fetches a channel's message history, oldest first.
type Historian interface {
	History(ctx context.Context, channelID string, since time.Time) ([]types.MessageEvent, error)
}

// Router implements senses.Handler.
type Router struct {
	mu sync.Mutex

	extractor   *extract.Extractor
	index       *availability.Index
	views       *view.Manager
	renderer    Renderer
	history     Historian
	historyDays int

	// Now supplies the reference time for history backfill. Overridable
	// in tests.
	Now func() time.Time
}

// NewRouter wires the router. All collaborators are required.
func NewRouter(extractor *extract.Extractor, index *availability.Index, views *view.Manager, renderer Renderer, history Historian, historyDays int) *Router {
	return &Router{
		extractor:   extractor,
		index:       index,
		views:       views,
		renderer:    renderer,
		history:     history,
		historyDays: historyDays,
		Now:         time.Now,
	}
}

// MessageCreated extracts availability from a new message, or runs the
// text-command fallback.
func (r *Router) MessageCreated(ev types.MessageEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.HasPrefix(strings.TrimSpace(ev.Text), "!calendar") {
		r.runCalendar(ev.Scope, ev.Location)
		return
	}
	err := r.extractor.HandleCreate(ev)
	r.logExtraction(ev, err)
	if err == nil {
		r.views.Refresh(ev.Scope)
	}
}

// MessageUpdated retracts the message's prior facts and re-extracts. Views
// refresh whenever facts changed: a successful re-extraction, or a
// retraction left standing because the edited text extracts nothing.
func (r *Router) MessageUpdated(ev types.MessageEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Gateway edits often carry no timestamp; anchor on receipt time.
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = r.Now()
	}
	retracted, err := r.extractor.HandleUpdate(ev)
	r.logExtraction(ev, err)
	if err != nil && retracted {
		logging.Info("bot", "Edited message %s no longer states availability; prior facts retracted", ev.ID)
	}
	if err == nil || retracted {
		r.views.Refresh(ev.Scope)
	}
}

// MessageDeleted retracts whatever facts the message produced.
func (r *Router) MessageDeleted(scope, location, messageID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.extractor.HandleDelete(scope, messageID) {
		logging.Info("bot", "Retracted facts of deleted message %s", messageID)
		r.views.Refresh(scope)
	}
}

func (r *Router) logExtraction(ev types.MessageEvent, err error) {
	switch {
	case err == nil:
		logging.Info("bot", "Recorded availability from %s: %s", ev.AuthorName, logging.Truncate(ev.Text, 60))
	case errors.Is(err, extract.ErrNoDates):
		logging.Warn("bot", "Matched availability but resolved no dates: %s", logging.Truncate(ev.Text, 60))
	case errors.Is(err, extract.ErrNoPattern):
		// Ordinary chatter.
	default:
		logging.Warn("bot", "Extraction failed: %v", err)
	}
}

// InteractionCreated routes slash commands and component interactions.
func (r *Router) InteractionCreated(i *discordgo.InteractionCreate) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		if i.ApplicationCommandData().Name != "calendar" {
			return
		}
		if err := r.renderer.ReplyEphemeral(i, "Generating calendar..."); err != nil {
			logging.Warn("bot", "Failed to acknowledge /calendar: %v", err)
		}
		r.runCalendar(i.GuildID, i.ChannelID)
		r.renderer.DeleteResponse(i)

	case discordgo.InteractionMessageComponent:
		r.routeComponent(i)
	}
}

// runCalendar rebuilds the location's facts from channel history and
// opens the calendar view. Existing facts sourced from the location are
// cleared first so the rebuild is idempotent.
func (r *Router) runCalendar(scope, location string) {
	ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
	defer cancel()

	cleared := r.index.ClearLocation(scope, location)
	if cleared > 0 {
		logging.Debug("bot", "Cleared %d prior events for %s", cleared, location)
	}

	since := r.Now().AddDate(0, 0, -r.historyDays)
	events, err := r.history.History(ctx, location, since)
	if err != nil {
		logging.Warn("bot", "History fetch failed for %s: %v", location, err)
	}

	recorded := 0
	for _, ev := range events {
		// REST-fetched messages carry no guild ID.
		if ev.Scope == "" {
			ev.Scope = scope
		}
		switch err := r.extractor.HandleCreate(ev); {
		case err == nil:
			recorded++
		case errors.Is(err, extract.ErrNoDates):
			logging.Debug("bot", "No dates in backfill message: %s", logging.Truncate(ev.Text, 60))
		}
	}
	logging.Info("bot", "Backfilled %s: %d of %d messages recorded", location, recorded, len(events))

	if err := r.views.Open(scope, location); err != nil {
		logging.Warn("bot", "Failed to open calendar for %s: %v", location, err)
	}
}

func (r *Router) routeComponent(i *discordgo.InteractionCreate) {
	data := i.MessageComponentData()
	action, arg := DecodeCustomID(data.CustomID)
	scope, location := i.GuildID, i.ChannelID
	participant := interactionUserID(i)

	switch action {
	case ActionPrev:
		r.ack(i)
		r.views.Navigate(scope, location, -1)
	case ActionNext:
		r.ack(i)
		r.views.Navigate(scope, location, +1)
	case ActionToday:
		r.ack(i)
		r.views.JumpToToday(scope, location)
	case ActionSelectDay:
		r.ack(i)
		r.views.SelectDay(scope, location, arg)
	case ActionViewMenu:
		r.ack(i)
		if len(data.Values) > 0 {
			r.views.SetGranularity(scope, location, view.Granularity(data.Values[0]))
		}

	case ActionEditOpen:
		state, ok := r.views.StateOf(scope, location)
		if !ok {
			state.Anchor = r.Now()
		}
		r.views.StartEdit(scope, participant, state.Anchor)
		if err := r.renderer.PromptEditor(i, state.Anchor); err != nil {
			logging.Warn("bot", "Failed to open editor: %v", err)
		}

	case ActionEditStart, ActionEditEnd:
		hour, err := selectedHour(data.Values)
		if err != nil {
			r.ack(i)
			return
		}
		if action == ActionEditStart {
			r.editorStep(i, r.views.SetRangeStart(participant, hour))
		} else {
			r.editorStep(i, r.views.SetRangeEnd(participant, hour))
		}
	case ActionEditStatus:
		if len(data.Values) == 0 {
			r.ack(i)
			return
		}
		r.editorStep(i, r.views.SetStatus(participant, types.Status(data.Values[0])))

	case ActionEditSave:
		r.saveEdit(i, participant)
	case ActionEditCancel:
		r.views.CancelEdit(participant)
		r.renderer.UpdateEditor(i, "Edit cancelled.", true)

	default:
		r.ack(i)
		logging.Debug("bot", "Unhandled component %s", data.CustomID)
	}
}

func (r *Router) saveEdit(i *discordgo.InteractionCreate, participant string) {
	session, err := r.views.SaveEdit(participant)

	var invalid *view.ValidationError
	switch {
	case err == nil:
		r.renderer.UpdateEditor(i, saveConfirmation(session), true)
		logging.Info("bot", "Saved availability edit for %s on %s", participant, session.Date)
	case errors.As(err, &invalid):
		r.renderer.UpdateEditor(i, "⚠️ "+invalid.Reason, false)
	case errors.Is(err, view.ErrNoSession):
		r.renderer.UpdateEditor(i, "This edit session has expired. Open the editor again.", true)
	default:
		logging.Warn("bot", "Save failed for %s: %v", participant, err)
		r.renderer.UpdateEditor(i, "Something went wrong saving your availability.", true)
	}
}

func (r *Router) editorStep(i *discordgo.InteractionCreate, err error) {
	if errors.Is(err, view.ErrNoSession) {
		r.renderer.UpdateEditor(i, "This edit session has expired. Open the editor again.", true)
		return
	}
	r.ack(i)
}

func (r *Router) ack(i *discordgo.InteractionCreate) {
	if err := r.renderer.AckComponent(i); err != nil {
		logging.Debug("bot", "Component ack failed: %v", err)
	}
}

func saveConfirmation(s *view.EditSession) string {
	day := s.Date
	if date, err := time.Parse(types.DateLayout, s.Date); err == nil {
		day = date.Format("Monday, January 2")
	}
	if s.Start >= 0 && s.End >= 0 && s.Status != "" {
		return fmt.Sprintf("✅ Saved: %s from %s to %s on %s",
			s.Status, effectors.HourLabel(s.Start), effectors.HourLabel(s.End), day)
	}
	return fmt.Sprintf("✅ Availability saved for %s", day)
}

func selectedHour(values []string) (int, error) {
	if len(values) == 0 {
		return 0, errors.New("no value selected")
	}
	return strconv.Atoi(values[0])
}

func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
