package handlers

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"liftdesk/internal/eventbus"
	"liftdesk/internal/form"
	"liftdesk/internal/ui/state"
)

// SessionExpiredMessage is shown whenever the backend rejects the token
const SessionExpiredMessage = "session expired, run `liftdesk login`"

// EventHandler handles domain events and updates state
type EventHandler struct {
	state   *state.AppState
	refresh func(screen string) tea.Cmd
}

// NewEventHandler creates a new event handler. refresh reloads a screen by name.
func NewEventHandler(appState *state.AppState, refresh func(screen string) tea.Cmd) *EventHandler {
	return &EventHandler{
		state:   appState,
		refresh: refresh,
	}
}

// HandleEvent processes domain events and returns any necessary commands
func (h *EventHandler) HandleEvent(event eventbus.DomainEvent) tea.Cmd {
	switch e := event.(type) {
	case eventbus.SessionExpiredEvent:
		h.state.SetStatus(SessionExpiredMessage, true)

	case eventbus.SessionChangedEvent:
		if e.LoggedIn {
			h.state.User = e.Email
			h.state.SetStatus("Signed in as "+e.Email, false)
		} else {
			h.state.User = ""
			h.state.SetStatus("Signed out", false)
		}

	case eventbus.CollectionFailedEvent:
		// The session-expired message takes precedence over the generic failure
		if h.state.StatusMessage != SessionExpiredMessage {
			h.state.SetStatus(fmt.Sprintf("Could not load %s: %v", e.Screen, e.Err), true)
		}

	case eventbus.SubmissionCompletedEvent:
		isErr := e.Outcome != string(form.OutcomeSuccess)
		h.state.SetStatus(e.Message, isErr)
		if e.Outcome == string(form.OutcomeSuccess) || e.Outcome == string(form.OutcomePartialAssociationFailure) {
			return h.reload(e.Screen)
		}

	case eventbus.ItemDeletedEvent:
		h.state.SetStatus(fmt.Sprintf("Deleted #%s", e.ID), false)
		return h.reload(e.Screen)

	case eventbus.ErrorEvent:
		h.state.SetStatus(fmt.Sprintf("Error: %s", e.Message), true)
	}

	return nil
}

func (h *EventHandler) reload(screen string) tea.Cmd {
	if h.refresh == nil {
		return nil
	}
	return h.refresh(screen)
}
