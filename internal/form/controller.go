package form

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"liftdesk/internal/api"
	"liftdesk/internal/assoc"
	"liftdesk/internal/domain"
)

var (
	// ErrDisposed is returned by Submit once the owning screen has gone away
	ErrDisposed = errors.New("form controller disposed")
	// ErrBusy is returned when a submission is already running
	ErrBusy = errors.New("submission already in progress")

	errNoEntityID = errors.New("saved entity has no id")
)

// Writer is the write path of the API client
type Writer interface {
	Create(ctx context.Context, token, resource string, body any) (domain.Item, error)
	Update(ctx context.Context, token, resource, id string, body any) (domain.Item, error)
	Assign(ctx context.Context, token, resource, id, memberIDField, memberID string) error
	Unassign(ctx context.Context, token, resource, id, memberID string) error
}

// Validator checks form values and returns a message per failing field.
// It must be pure.
type Validator func(values map[string]any) map[string]string

// Config wires a controller to one resource
type Config struct {
	Resource      string
	Title         string
	IDField       string
	MemberIDField string
	MemberNoun    string
	Token         string
	Validate      Validator
	Engine        *assoc.Engine
	Logger        logrus.FieldLogger

	// OnState receives every transition. OnSuccess runs once per submission
	// whose primary entity was committed. Neither may call Dispose.
	OnState   func(State)
	OnSuccess func(Outcome)
}

// Submission is one save request
type Submission struct {
	Values   map[string]any
	EntityID string

	// Members is the newly selected membership. Nil skips the association step.
	Members         []string
	PreviousMembers []string
}

// Controller runs validate, persist, sync associations and report as one operation
type Controller struct {
	w      Writer
	cfg    Config
	engine *assoc.Engine
	log    logrus.FieldLogger

	mu       sync.Mutex
	state    State
	busy     bool
	disposed atomic.Bool
}

// NewController creates a controller writing through w
func NewController(w Writer, cfg Config) *Controller {
	if cfg.IDField == "" {
		cfg.IDField = domain.DefaultIDField
	}
	if cfg.MemberNoun == "" {
		cfg.MemberNoun = "technician"
	}
	if cfg.Title == "" {
		cfg.Title = "Record"
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	engine := cfg.Engine
	if engine == nil {
		engine = assoc.NewEngine(0, log)
	}
	return &Controller{
		w:      w,
		cfg:    cfg,
		engine: engine,
		log:    log.WithFields(logrus.Fields{"component": "form", "resource": cfg.Resource}),
	}
}

// State returns the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Dispose detaches the controller from its screen. In-flight calls finish,
// but no further state or success notification starts afterwards. Dispose
// never waits on a sink, so it is safe to call from the goroutine a sink
// delivers to.
func (c *Controller) Dispose() {
	c.disposed.Store(true)
}

// Disposed reports whether Dispose was called
func (c *Controller) Disposed() bool {
	return c.disposed.Load()
}

// Submit runs one submission to completion. The returned error is only
// ErrBusy or ErrDisposed; every other failure is a typed Outcome.
func (c *Controller) Submit(ctx context.Context, sub Submission) (Outcome, error) {
	c.mu.Lock()
	if c.Disposed() {
		c.mu.Unlock()
		return Outcome{}, ErrDisposed
	}
	if c.busy {
		c.mu.Unlock()
		return Outcome{}, ErrBusy
	}
	c.busy = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.busy = false
		c.mu.Unlock()
	}()

	out := c.run(ctx, sub)
	if c.Disposed() {
		c.log.WithField("outcome", out.Kind).Debug("discarding result of disposed form")
		return Outcome{}, ErrDisposed
	}
	return out, nil
}

func (c *Controller) run(ctx context.Context, sub Submission) Outcome {
	c.transition(StateValidating)
	if c.cfg.Validate != nil {
		if fields := c.cfg.Validate(sub.Values); len(fields) > 0 {
			c.transition(StateValidationFailed)
			c.transition(StateIdle)
			c.log.WithField("fields", len(fields)).Debug("validation failed")
			return Outcome{Kind: OutcomeValidationError, Fields: fields, Message: firstMessage(fields)}
		}
	}

	c.transition(StateSubmitting)
	created := sub.EntityID == ""
	var (
		entity domain.Item
		err    error
	)
	if created {
		entity, err = c.w.Create(ctx, c.cfg.Token, c.cfg.Resource, sub.Values)
	} else {
		entity, err = c.w.Update(ctx, c.cfg.Token, c.cfg.Resource, sub.EntityID, sub.Values)
	}
	if err != nil {
		c.transition(StateSubmitFailed)
		c.transition(StateIdle)
		out := c.failure(err)
		c.log.WithError(err).WithField("outcome", out.Kind).Warn("save failed")
		return out
	}

	id := sub.EntityID
	if id == "" {
		id = entity.ID(c.cfg.IDField)
	}
	out := Outcome{Kind: OutcomeSuccess, Entity: entity, EntityID: id, Created: created}

	if sub.Members != nil && c.cfg.MemberIDField != "" {
		c.transition(StateSyncingAssociations)
		report := c.syncMembers(ctx, id, created, sub)
		out.Report = &report
		if !report.OK() {
			out.Kind = OutcomePartialAssociationFailure
		}
	}

	if out.Kind == OutcomePartialAssociationFailure {
		c.transition(StatePartialFailure)
	} else {
		c.transition(StateDone)
	}
	out.Message = c.successMessage(out)
	c.log.WithFields(logrus.Fields{"entity_id": id, "outcome": out.Kind}).Info(out.Message)
	c.succeed(out)
	c.transition(StateIdle)
	return out
}

func (c *Controller) syncMembers(ctx context.Context, id string, created bool, sub Submission) assoc.Report {
	prev := assoc.NewSet(sub.PreviousMembers...)
	if created {
		prev = assoc.Set{}
	}
	delta := assoc.ComputeDelta(prev, assoc.NewSet(sub.Members...))

	if id == "" {
		report := assoc.Report{Succeeded: []string{}}
		for _, m := range delta.ToAdd.Slice() {
			report.Failed = append(report.Failed, assoc.Failure{ID: m, Op: assoc.OpAssign, Err: errNoEntityID})
		}
		for _, m := range delta.ToRemove.Slice() {
			report.Failed = append(report.Failed, assoc.Failure{ID: m, Op: assoc.OpUnassign, Err: errNoEntityID})
		}
		return report
	}

	assign := func(ctx context.Context, entityID, memberID string) error {
		return c.w.Assign(ctx, c.cfg.Token, c.cfg.Resource, entityID, c.cfg.MemberIDField, memberID)
	}
	unassign := func(ctx context.Context, entityID, memberID string) error {
		return c.w.Unassign(ctx, c.cfg.Token, c.cfg.Resource, entityID, memberID)
	}
	return c.engine.Sync(ctx, id, delta, assign, unassign)
}

// transition records s and notifies the state sink unless disposed.
// Sinks run without any controller lock held; only the submitting
// goroutine calls transition, so notifications stay ordered.
func (c *Controller) transition(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()

	if c.Disposed() || c.cfg.OnState == nil {
		return
	}
	c.cfg.OnState(s)
}

func (c *Controller) succeed(out Outcome) {
	if c.Disposed() || c.cfg.OnSuccess == nil {
		return
	}
	c.cfg.OnSuccess(out)
}

func (c *Controller) failure(err error) Outcome {
	fe, ok := api.AsFetchError(err)
	switch {
	case ok && fe.Kind == api.KindUnauthorized:
		return Outcome{Kind: OutcomeUnauthorized, Message: "Session expired. Please log in again."}
	case ok && fe.Kind == api.KindNetwork:
		return Outcome{Kind: OutcomeNetworkError, Message: "Network error: " + fe.Message}
	case ok && fe.Message != "":
		return Outcome{Kind: OutcomeServerError, Message: fe.Message}
	default:
		return Outcome{Kind: OutcomeServerError, Message: fmt.Sprintf("Failed to save %s", strings.ToLower(c.cfg.Title))}
	}
}

func (c *Controller) successMessage(out Outcome) string {
	var msg string
	switch {
	case !out.Created:
		msg = fmt.Sprintf("%s updated successfully", c.cfg.Title)
	case out.Report == nil:
		msg = fmt.Sprintf("%s created successfully", c.cfg.Title)
	case len(out.Report.Succeeded) > 0:
		// a create has no prior members, so every success is an assign
		msg = fmt.Sprintf("%s created and assigned to %d %s(s)", c.cfg.Title, len(out.Report.Succeeded), c.cfg.MemberNoun)
	default:
		msg = fmt.Sprintf("%s created successfully. %ss can now pick this job.", c.cfg.Title, strings.ToUpper(c.cfg.MemberNoun[:1])+c.cfg.MemberNoun[1:])
	}
	if out.Kind == OutcomePartialAssociationFailure {
		msg = strings.TrimSuffix(msg, ".")
		msg += fmt.Sprintf(", but %d %s change(s) failed: %s", len(out.Report.Failed), c.cfg.MemberNoun, strings.Join(out.Report.FailedIDs(), ", "))
	}
	return msg
}

func firstMessage(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fields[keys[0]]
}
