package hungarian

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/matzehuels/footrule/pkg/matrix"
)

// Epsilon is the absolute tolerance under which a matrix entry counts as zero.
const Epsilon = 1e-9

// ErrNoProgress is returned when the solver exceeds its round budget. It
// indicates a numerical problem in the cost matrix, not a user error.
var ErrNoProgress = errors.New("hungarian: solver made no progress")

// State is a phase of the solver.
type State int

const (
	StateInit State = iota
	StateReduced
	StateCovered
	StateAdjusted
	StateAssigned
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateReduced:
		return "reduced"
	case StateCovered:
		return "covered"
	case StateAdjusted:
		return "adjusted"
	case StateAssigned:
		return "assigned"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Event describes one state transition. Lines is set when entering
// StateCovered; Delta is the value moved by an adjustment.
type Event struct {
	State    State
	Round    int
	Assigned int
	Lines    int
	Delta    float64
}

// Option configures a Solver.
type Option func(*Solver)

// WithTrace registers fn to be called after every state transition.
func WithTrace(fn func(Event)) Option {
	return func(s *Solver) { s.trace = fn }
}

// Solver carries the state of one assignment solve. It is not safe for
// concurrent use; independent solvers share nothing.
type Solver struct {
	n          int
	work       *matrix.Dense
	mask       *matrix.Mask
	state      State
	assignment Assignment
	rounds     int
	lines      int
	best       int // largest zero matching seen so far
	stall      int // adjustments since best last grew
	maxRounds  int
	trace      func(Event)
}

// New prepares a solver for the square matrix cost. cost is cloned and never
// modified.
func New(cost *matrix.Dense, opts ...Option) (*Solver, error) {
	if cost == nil {
		return nil, fmt.Errorf("hungarian: nil cost matrix: %w", matrix.ErrBadShape)
	}
	if !cost.IsSquare() {
		return nil, fmt.Errorf("hungarian: %dx%d cost matrix: %w", cost.Rows(), cost.Cols(), matrix.ErrNonSquare)
	}
	n := cost.Rows()
	mask, err := matrix.NewMask(n)
	if err != nil {
		return nil, err
	}
	s := &Solver{
		n:         n,
		work:      cost.Clone(),
		mask:      mask,
		state:     StateInit,
		maxRounds: 4*n*n + 64,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// State returns the current phase.
func (s *Solver) State() State { return s.state }

// Work returns the working matrix. It is the solver's own buffer; callers
// must not modify it.
func (s *Solver) Work() *matrix.Dense { return s.work }

// Mask returns the coverage mask of the current round.
func (s *Solver) Mask() *matrix.Mask { return s.mask }

// Rounds returns the number of adjustments performed so far.
func (s *Solver) Rounds() int { return s.rounds }

// Lines returns the number of covering lines drawn in the last COVERED phase.
func (s *Solver) Lines() int { return s.lines }

// Assignment returns a copy of the pairs committed by the last extraction.
func (s *Solver) Assignment() Assignment { return slices.Clone(s.assignment) }

// Step performs one transition and reports whether the solver reached
// StateAssigned.
func (s *Solver) Step() (bool, error) {
	switch s.state {
	case StateInit:
		Reduce(s.work)
		s.enter(StateReduced, 0)

	case StateReduced, StateAdjusted:
		// Matched zeros lie on exactly one line of a König cover and survive
		// the adjustment; extraction resumes from the pairs still on zeros.
		s.assignment = extract(s.work, s.assignment)
		if len(s.assignment) < s.n {
			s.assignment = augment(s.work, s.assignment)
		}
		if len(s.assignment) == s.n {
			s.enter(StateAssigned, 0)
			return true, nil
		}
		s.cover()
		s.enter(StateCovered, 0)

	case StateCovered:
		if s.rounds >= s.maxRounds {
			return false, fmt.Errorf("%w after %d rounds (%d of %d assigned)", ErrNoProgress, s.rounds, len(s.assignment), s.n)
		}
		delta, err := Adjust(s.work, s.mask)
		if err != nil {
			return false, err
		}
		s.mask.Reset()
		s.rounds++
		s.enter(StateAdjusted, delta)

	case StateAssigned:
		return true, nil
	}
	return false, nil
}

// Run steps the solver until it reaches StateAssigned and returns the
// complete assignment.
func (s *Solver) Run() (Assignment, error) {
	return s.RunContext(context.Background())
}

// RunContext is like Run but stops between transitions once ctx is done,
// returning ctx.Err().
func (s *Solver) RunContext(ctx context.Context) (Assignment, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		done, err := s.Step()
		if err != nil {
			return nil, err
		}
		if done {
			return s.Assignment(), nil
		}
	}
}

// Solve returns a minimum-cost assignment for the square matrix cost.
// Among several optimal assignments, any one may be returned.
func Solve(cost *matrix.Dense, opts ...Option) (Assignment, error) {
	s, err := New(cost, opts...)
	if err != nil {
		return nil, err
	}
	return s.Run()
}

// cover draws the covering lines for the current round. The greedy cover is
// kept only when it is minimal, i.e. uses exactly as many lines as the
// maximum zero matching. After n rounds without the matching growing, the
// König cover is used directly.
func (s *Solver) cover() {
	matched := len(s.assignment)
	if matched > s.best {
		s.best, s.stall = matched, 0
	} else {
		s.stall++
	}

	s.mask.Reset()
	if s.stall < s.n {
		if s.lines = Cover(s.work, s.mask); s.lines == matched {
			return
		}
		s.mask.Reset()
	}
	s.lines = coverFromMatching(s.work, s.assignment, s.mask)
}

func (s *Solver) enter(state State, delta float64) {
	s.state = state
	if s.trace != nil {
		s.trace(Event{
			State:    state,
			Round:    s.rounds,
			Assigned: len(s.assignment),
			Lines:    s.lines,
			Delta:    delta,
		})
	}
}
