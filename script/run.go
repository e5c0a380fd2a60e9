package script

import (
	"slices"
	"strconv"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/lukeod/nodetracker/tracker"
)

// Option configures a Runner.
type Option func(r *Runner)

// WithLogger sets the logger statements are traced to.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(r *Runner) {
		r.log = log
	}
}

// Runner executes scripts against a tracker. A Runner keeps its tracker
// between calls to Run, so several scripts can be applied in sequence.
type Runner struct {
	tracker   *tracker.NodeTracker[string]
	log       *zap.SugaredLogger
	executed  int
	snapshots []tracker.Snapshot[string]
}

// NewRunner returns a Runner driving t.
func NewRunner(t *tracker.NodeTracker[string], opts ...Option) *Runner {
	r := &Runner{
		tracker: t,
		log:     zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Tracker returns the tracker the runner drives.
func (r *Runner) Tracker() *tracker.NodeTracker[string] {
	return r.tracker
}

// Executed returns the number of statements run so far, including a failed expect.
func (r *Runner) Executed() int {
	return r.executed
}

// Snapshots returns the states recorded by dump statements, oldest first.
func (r *Runner) Snapshots() []tracker.Snapshot[string] {
	return r.snapshots
}

// Run executes the statements of s in order. It stops at the first
// expect statement that does not hold and returns its *ExpectationError.
func (r *Runner) Run(s *Script) error {
	for _, stmt := range s.Statements {
		r.executed++
		if err := r.exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) exec(stmt *Statement) error {
	t := r.tracker
	switch {
	case stmt.Add != nil:
		r.log.Debugw("add", "index", stmt.Add.Index, "node", stmt.Add.Node)
		t.Add(int(stmt.Add.Index), stmt.Add.Node)
	case stmt.Remove != nil:
		r.log.Debugw("remove", "index", stmt.Remove.Index)
		t.Remove(int(stmt.Remove.Index))
	case stmt.Helper != nil:
		r.log.Debugw("set helper", "node", stmt.Helper.Node)
		t.SetHelperNode(stmt.Helper.Node)
	case stmt.Unset != nil:
		r.log.Debug("unset helper")
		t.UnsetHelperNode()
	case stmt.Dump != nil:
		snap := t.Snapshot()
		r.log.Debugw("dump", "nodes", snap.Nodes, "helper", snap.HelperNode, "active", snap.HelperActive)
		r.snapshots = append(r.snapshots, snap)
	case stmt.Expect != nil:
		return r.expect(stmt.Expect)
	default:
		return errors.Wrapf(ErrEmptyStatement, "%s", stmt.Pos)
	}
	return nil
}

func (r *Runner) expect(e *Expect) error {
	t := r.tracker
	fail := &ExpectationError{Pos: e.Pos}

	switch {
	case e.Nodes != nil:
		got := t.GetNodes()
		if slices.Equal(e.Nodes.Values, got) {
			return nil
		}
		fail.Subject = "nodes"
		fail.Want, fail.Got = formatNodes(e.Nodes.Values), formatNodes(got)
		fail.Diff = nodesDiff(e.Nodes.Values, got)
	case e.Helper != nil:
		got, ok := t.GetHelperNode()
		if ok && got == *e.Helper {
			return nil
		}
		fail.Subject = "helper"
		fail.Want = strconv.Quote(*e.Helper)
		fail.Got = "none"
		if ok {
			fail.Got = strconv.Quote(got)
		}
	case e.Active != nil:
		got := t.HasActiveHelperNode()
		if got == bool(*e.Active) {
			return nil
		}
		fail.Subject = "active"
		fail.Want, fail.Got = strconv.FormatBool(bool(*e.Active)), strconv.FormatBool(got)
	case e.Len != nil:
		got := t.Len()
		if got == int(*e.Len) {
			return nil
		}
		fail.Subject = "len"
		fail.Want, fail.Got = strconv.Itoa(int(*e.Len)), strconv.Itoa(got)
	default:
		return errors.Wrapf(ErrEmptyStatement, "%s", e.Pos)
	}

	r.log.Debugw("expectation failed", "position", e.Pos.String(), "subject", fail.Subject)
	return fail
}
