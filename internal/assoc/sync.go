package assoc

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Op distinguishes the two association calls
type Op string

const (
	OpAssign   Op = "assign"
	OpUnassign Op = "unassign"
)

// CallFunc performs a single assign or unassign for memberID on entityID
type CallFunc func(ctx context.Context, entityID, memberID string) error

// Failure records one member whose call failed
type Failure struct {
	ID  string
	Op  Op
	Err error
}

// Report aggregates the outcome of a sync across both add and remove sets
type Report struct {
	Succeeded []string
	Failed    []Failure
}

// OK reports whether every call succeeded
func (r Report) OK() bool {
	return len(r.Failed) == 0
}

// FailedIDs lists the members whose calls failed
func (r Report) FailedIDs() []string {
	out := make([]string, len(r.Failed))
	for i, f := range r.Failed {
		out[i] = f.ID
	}
	return out
}

// Summary renders the failures for a user-facing message
func (r Report) Summary() string {
	if r.OK() {
		return ""
	}
	parts := make([]string, len(r.Failed))
	for i, f := range r.Failed {
		parts[i] = fmt.Sprintf("%s %s: %v", f.Op, f.ID, f.Err)
	}
	return strings.Join(parts, "; ")
}

// Engine issues association calls concurrently and collects a report
type Engine struct {
	limit int
	log   logrus.FieldLogger
}

// NewEngine creates an engine running at most limit calls at once (0 means unlimited)
func NewEngine(limit int, log logrus.FieldLogger) *Engine {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Engine{limit: limit, log: log.WithField("component", "assoc")}
}

// Sync issues one assign per id in d.ToAdd and one unassign per id in
// d.ToRemove. A failed call never stops the others; nothing is retried or
// rolled back.
func (e *Engine) Sync(ctx context.Context, entityID string, d Delta, assign, unassign CallFunc) Report {
	var (
		mu     sync.Mutex
		report = Report{Succeeded: []string{}, Failed: []Failure{}}
	)

	// Plain Group, not WithContext: one failure must not cancel the rest.
	var g errgroup.Group
	if e.limit > 0 {
		g.SetLimit(e.limit)
	}

	run := func(op Op, fn CallFunc, memberID string) {
		g.Go(func() error {
			err := call(ctx, fn, entityID, memberID)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed = append(report.Failed, Failure{ID: memberID, Op: op, Err: err})
				e.log.WithFields(logrus.Fields{
					"entity_id": entityID,
					"member_id": memberID,
					"op":        op,
				}).WithError(err).Warn("association call failed")
				return nil
			}
			report.Succeeded = append(report.Succeeded, memberID)
			return nil
		})
	}

	for _, id := range d.ToAdd.Slice() {
		run(OpAssign, assign, id)
	}
	for _, id := range d.ToRemove.Slice() {
		run(OpUnassign, unassign, id)
	}
	_ = g.Wait()

	sort.Strings(report.Succeeded)
	sort.Slice(report.Failed, func(i, j int) bool { return report.Failed[i].ID < report.Failed[j].ID })
	return report
}

func call(ctx context.Context, fn CallFunc, entityID, memberID string) (err error) {
	if fn == nil {
		return errors.New("no handler configured")
	}
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("panic: %v", r)
		}
	}()
	return fn(ctx, entityID, memberID)
}
