package assoc

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietEngine(limit int) *Engine {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return NewEngine(limit, l)
}

func TestComputeDelta(t *testing.T) {
	tests := []struct {
		name       string
		prev, next Set
		add, rem   []string
	}{
		{"swap one member", NewSet("1", "2", "3"), NewSet("2", "3", "4"), []string{"4"}, []string{"1"}},
		{"unchanged", NewSet("1", "2"), NewSet("1", "2"), []string{}, []string{}},
		{"create has empty prior", NewSet(), NewSet("5", "6"), []string{"5", "6"}, []string{}},
		{"clear all", NewSet("7"), NewSet(), []string{}, []string{"7"}},
		{"nil sets", nil, nil, []string{}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ComputeDelta(tt.prev, tt.next)
			assert.Equal(t, tt.add, d.ToAdd.Slice())
			assert.Equal(t, tt.rem, d.ToRemove.Slice())

			for id := range d.ToAdd {
				assert.False(t, tt.prev.Has(id), "toAdd must not overlap prev")
				assert.False(t, d.ToRemove.Has(id), "toAdd and toRemove must be disjoint")
			}
			for id := range d.ToRemove {
				assert.True(t, tt.prev.Has(id), "toRemove must be a subset of prev")
			}
		})
	}
}

func TestDeltaEmptyAndSize(t *testing.T) {
	assert.True(t, ComputeDelta(NewSet("1"), NewSet("1")).Empty())
	d := ComputeDelta(NewSet("1", "2"), NewSet("2", "3", "4"))
	assert.False(t, d.Empty())
	assert.Equal(t, 3, d.Size())
}

func TestNewSetSkipsEmptyIDs(t *testing.T) {
	assert.Equal(t, []string{"a"}, NewSet("", "a", "a").Slice())
}

func TestSyncReportsPartialFailure(t *testing.T) {
	errBoom := errors.New("technician not found")
	assign := func(_ context.Context, entityID, memberID string) error {
		assert.Equal(t, "cb-1", entityID)
		if memberID == "2" {
			return errBoom
		}
		return nil
	}

	report := quietEngine(0).Sync(context.Background(), "cb-1",
		Delta{ToAdd: NewSet("1", "2", "3"), ToRemove: Set{}}, assign, nil)

	assert.Equal(t, []string{"1", "3"}, report.Succeeded)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, "2", report.Failed[0].ID)
	assert.Equal(t, OpAssign, report.Failed[0].Op)
	assert.ErrorIs(t, report.Failed[0].Err, errBoom)
	assert.False(t, report.OK())
	assert.Equal(t, []string{"2"}, report.FailedIDs())
	assert.Contains(t, report.Summary(), "assign 2")
}

func TestSyncCombinesAddAndRemove(t *testing.T) {
	var mu sync.Mutex
	calls := map[string]Op{}
	record := func(op Op, fail string) CallFunc {
		return func(_ context.Context, _, memberID string) error {
			mu.Lock()
			calls[memberID] = op
			mu.Unlock()
			if memberID == fail {
				return errors.New("nope")
			}
			return nil
		}
	}

	d := ComputeDelta(NewSet("1", "2", "3"), NewSet("2", "3", "4"))
	report := quietEngine(0).Sync(context.Background(), "9", d, record(OpAssign, ""), record(OpUnassign, "1"))

	assert.Equal(t, map[string]Op{"4": OpAssign, "1": OpUnassign}, calls)
	assert.Equal(t, []string{"4"}, report.Succeeded)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, Failure{ID: "1", Op: OpUnassign, Err: report.Failed[0].Err}, report.Failed[0])
}

func TestSyncRunsCallsConcurrently(t *testing.T) {
	var inFlight, peak int32
	release := make(chan struct{})
	assign := func(context.Context, string, string) error {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		<-release
		atomic.AddInt32(&inFlight, -1)
		return nil
	}

	done := make(chan Report)
	go func() {
		done <- quietEngine(0).Sync(context.Background(), "x", Delta{ToAdd: NewSet("a", "b", "c"), ToRemove: Set{}}, assign, nil)
	}()

	require.Eventually(t, func() bool { return atomic.LoadInt32(&inFlight) == 3 }, time.Second, 5*time.Millisecond)
	close(release)
	report := <-done
	assert.Equal(t, int32(3), atomic.LoadInt32(&peak))
	assert.Len(t, report.Succeeded, 3)
}

func TestSyncRecoversFromPanickingCall(t *testing.T) {
	assign := func(_ context.Context, _, memberID string) error {
		if memberID == "bad" {
			panic("kaboom")
		}
		return nil
	}
	report := quietEngine(1).Sync(context.Background(), "x", Delta{ToAdd: NewSet("bad", "good"), ToRemove: Set{}}, assign, nil)
	assert.Equal(t, []string{"good"}, report.Succeeded)
	assert.Equal(t, []string{"bad"}, report.FailedIDs())
	assert.EqualError(t, report.Failed[0].Err, "panic: kaboom")
}

func TestSyncWithoutUnassignHandler(t *testing.T) {
	report := quietEngine(0).Sync(context.Background(), "x", ComputeDelta(NewSet("1"), Set{}), nil, nil)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, OpUnassign, report.Failed[0].Op)
	assert.EqualError(t, report.Failed[0].Err, "no handler configured")
}

func TestSyncEmptyDelta(t *testing.T) {
	report := quietEngine(0).Sync(context.Background(), "x", ComputeDelta(NewSet("1"), NewSet("1")), nil, nil)
	assert.True(t, report.OK())
	assert.Empty(t, report.Succeeded)
}
