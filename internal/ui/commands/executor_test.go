package commands

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liftdesk/internal/api"
	"liftdesk/internal/api/apitest"
	"liftdesk/internal/collection"
	"liftdesk/internal/config"
	"liftdesk/internal/domain"
	"liftdesk/internal/eventbus"
	"liftdesk/internal/form"
	"liftdesk/internal/ui/state"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type fixture struct {
	srv    *apitest.Server
	client *api.Client
	state  *state.AppState
	exec   *Executor
	cfg    *config.Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	srv := apitest.New()
	t.Cleanup(srv.Close)
	cfg := config.DefaultConfig()
	client := api.New(api.Options{BaseURL: srv.BaseURL(), Logger: quietLogger()})
	st := state.NewAppState(cfg.Screens)
	token := func() string { return apitest.DefaultToken }
	return &fixture{
		srv:    srv,
		client: client,
		state:  st,
		exec:   NewExecutor(context.Background(), st, nil, client, token, quietLogger()),
		cfg:    cfg,
	}
}

// recordingBus keeps published events in order
type recordingBus struct {
	mu     sync.Mutex
	events []eventbus.DomainEvent
}

func (b *recordingBus) Publish(e eventbus.DomainEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
}

func (b *recordingBus) Subscribe(eventbus.EventType, eventbus.EventHandler) func() { return func() {} }

func (b *recordingBus) Close() {}

func (b *recordingBus) published() []eventbus.DomainEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]eventbus.DomainEvent(nil), b.events...)
}

func (f *fixture) withBus() *recordingBus {
	bus := &recordingBus{}
	f.exec = NewExecutor(context.Background(), f.state, bus, f.client, func() string { return apitest.DefaultToken }, quietLogger())
	return bus
}

func (f *fixture) screen(t *testing.T, name string) config.Screen {
	t.Helper()
	s, err := f.cfg.Screen(name)
	require.NoError(t, err)
	return *s
}

func TestLoadCommandFetchesOffTheUIGoroutine(t *testing.T) {
	f := newFixture(t)
	f.srv.Seed("customers", domain.Item{"id": "1", "name": "Acme"}, domain.Item{"id": "2", "name": "Aster"})
	ctrl := collection.New(f.screen(t, "customers"), f.client, nil, nil, quietLogger())

	cmd := f.exec.ExecuteLoad(ctrl)
	require.NotNil(t, cmd)
	assert.True(t, f.state.Loading["customers"])
	assert.Equal(t, collection.StatusLoading, ctrl.Status())

	msg, ok := cmd().(LoadedMsg)
	require.True(t, ok)
	assert.Equal(t, "customers", msg.Screen)
	require.NoError(t, msg.Err)
	assert.Len(t, msg.Items, 2)
	assert.True(t, ctrl.Complete(msg.Generation, msg.Items, msg.Err))
	assert.Len(t, ctrl.Items(), 2)
}

func TestLoadCommandNilController(t *testing.T) {
	f := newFixture(t)
	assert.Nil(t, f.exec.ExecuteLoad(nil))
}

func TestDeleteCommand(t *testing.T) {
	f := newFixture(t)
	f.srv.Seed("callbacks", domain.Item{"id": "7", "customer_name": "Acme"})

	cmd := f.exec.ExecuteDelete(f.screen(t, "callbacks"), "7")
	require.NotNil(t, cmd)
	assert.True(t, f.state.Deleting["7"])

	msg := cmd().(DeletedMsg)
	require.NoError(t, msg.Err)
	assert.Equal(t, "7", msg.ID)
	assert.Empty(t, f.srv.Items("callbacks"))
}

func TestDeleteCommandMissingRecord(t *testing.T) {
	f := newFixture(t)

	msg := f.exec.ExecuteDelete(f.screen(t, "callbacks"), "404")().(DeletedMsg)
	require.Error(t, msg.Err)
	fe, ok := api.AsFetchError(msg.Err)
	require.True(t, ok)
	assert.Equal(t, 404, fe.Status)
}

func TestDeleteCommandWithoutID(t *testing.T) {
	f := newFixture(t)
	assert.Nil(t, f.exec.ExecuteDelete(f.screen(t, "callbacks"), ""))
}

func TestSubmitCommand(t *testing.T) {
	f := newFixture(t)
	f.state.OpenForm(&state.FormState{Screen: "customers", Message: "old"})
	ctrl := form.NewController(f.client, form.Config{Resource: "/customers/", Title: "Customer", Token: apitest.DefaultToken, Logger: quietLogger()})

	cmd := f.exec.ExecuteSubmit("customers", ctrl, form.Submission{Values: map[string]any{"name": "Acme"}})
	require.NotNil(t, cmd)
	assert.True(t, f.state.Form.Submitting)
	assert.Empty(t, f.state.Form.Message)

	msg := cmd().(SubmittedMsg)
	require.NoError(t, msg.Err)
	assert.Equal(t, form.OutcomeSuccess, msg.Outcome.Kind)
	assert.True(t, msg.Outcome.Created)
	assert.Len(t, f.srv.Items("customers"), 1)
}

func TestCommandsPublishOutcomes(t *testing.T) {
	f := newFixture(t)
	bus := f.withBus()
	f.srv.Seed("callbacks", domain.Item{"id": "7", "customer_name": "Acme"})

	msg := f.exec.ExecuteDelete(f.screen(t, "callbacks"), "7")().(DeletedMsg)
	require.NoError(t, msg.Err)

	msg = f.exec.ExecuteDelete(f.screen(t, "callbacks"), "404")().(DeletedMsg)
	require.Error(t, msg.Err)

	f.state.OpenForm(&state.FormState{Screen: "customers"})
	ctrl := form.NewController(f.client, form.Config{Resource: "/customers/", Title: "Customer", Token: apitest.DefaultToken, Logger: quietLogger()})
	sub := f.exec.ExecuteSubmit("customers", ctrl, form.Submission{Values: map[string]any{"name": "Acme"}})().(SubmittedMsg)
	require.NoError(t, sub.Err)

	events := bus.published()
	require.Len(t, events, 3)
	assert.Equal(t, eventbus.ItemDeletedEvent{Screen: "callbacks", ID: "7"}, events[0])

	failed, ok := events[1].(eventbus.ErrorEvent)
	require.True(t, ok)
	assert.Contains(t, failed.Message, "delete failed")
	assert.Error(t, failed.Err)

	done, ok := events[2].(eventbus.SubmissionCompletedEvent)
	require.True(t, ok)
	assert.Equal(t, "customers", done.Screen)
	assert.Equal(t, string(form.OutcomeSuccess), done.Outcome)
	assert.Equal(t, sub.Outcome.EntityID, done.EntityID)
}

func TestSubmitCommandDisposedPublishesNothing(t *testing.T) {
	f := newFixture(t)
	bus := f.withBus()
	ctrl := form.NewController(f.client, form.Config{Resource: "/customers/", Logger: quietLogger()})
	ctrl.Dispose()

	msg := f.exec.ExecuteSubmit("customers", ctrl, form.Submission{Values: map[string]any{}})().(SubmittedMsg)
	assert.ErrorIs(t, msg.Err, form.ErrDisposed)
	assert.Empty(t, bus.published())
}
