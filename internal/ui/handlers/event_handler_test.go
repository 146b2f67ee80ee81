package handlers

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"liftdesk/internal/config"
	"liftdesk/internal/eventbus"
	"liftdesk/internal/form"
	"liftdesk/internal/ui/state"
)

type refreshSpy struct {
	screens []string
}

func (r *refreshSpy) refresh(screen string) tea.Cmd {
	r.screens = append(r.screens, screen)
	return func() tea.Msg { return nil }
}

func newHandler() (*EventHandler, *state.AppState, *refreshSpy) {
	st := state.NewAppState([]config.Screen{{Name: "callbacks"}})
	spy := &refreshSpy{}
	return NewEventHandler(st, spy.refresh), st, spy
}

func TestSessionExpiredWinsOverLoadFailure(t *testing.T) {
	h, st, _ := newHandler()

	h.HandleEvent(eventbus.SessionExpiredEvent{Screen: "callbacks"})
	assert.Equal(t, SessionExpiredMessage, st.StatusMessage)
	assert.True(t, st.StatusIsError)

	h.HandleEvent(eventbus.CollectionFailedEvent{Screen: "callbacks", Err: errors.New("401")})
	assert.Equal(t, SessionExpiredMessage, st.StatusMessage)
}

func TestCollectionFailedShowsError(t *testing.T) {
	h, st, _ := newHandler()
	h.HandleEvent(eventbus.CollectionFailedEvent{Screen: "callbacks", Err: errors.New("boom")})
	assert.Equal(t, "Could not load callbacks: boom", st.StatusMessage)
}

func TestCommittedSubmissionRefreshes(t *testing.T) {
	tests := []struct {
		outcome form.OutcomeKind
		reload  bool
		isErr   bool
	}{
		{form.OutcomeSuccess, true, false},
		{form.OutcomePartialAssociationFailure, true, true},
		{form.OutcomeServerError, false, true},
		{form.OutcomeValidationError, false, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.outcome), func(t *testing.T) {
			h, st, spy := newHandler()
			cmd := h.HandleEvent(eventbus.SubmissionCompletedEvent{Screen: "callbacks", Outcome: string(tt.outcome), Message: "msg"})
			assert.Equal(t, "msg", st.StatusMessage)
			assert.Equal(t, tt.isErr, st.StatusIsError)
			if tt.reload {
				assert.NotNil(t, cmd)
				assert.Equal(t, []string{"callbacks"}, spy.screens)
			} else {
				assert.Nil(t, cmd)
				assert.Empty(t, spy.screens)
			}
		})
	}
}

func TestItemDeletedRefreshes(t *testing.T) {
	h, st, spy := newHandler()
	cmd := h.HandleEvent(eventbus.ItemDeletedEvent{Screen: "callbacks", ID: "4"})
	assert.NotNil(t, cmd)
	assert.Equal(t, "Deleted #4", st.StatusMessage)
	assert.Equal(t, []string{"callbacks"}, spy.screens)
}

func TestSessionChanged(t *testing.T) {
	h, st, _ := newHandler()
	h.HandleEvent(eventbus.SessionChangedEvent{LoggedIn: true, Email: "a@b.c"})
	assert.Equal(t, "a@b.c", st.User)
	h.HandleEvent(eventbus.SessionChangedEvent{})
	assert.Empty(t, st.User)
	assert.Equal(t, "Signed out", st.StatusMessage)
}
