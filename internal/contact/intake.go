package contact

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("wonderland.co.zw/panels-web/internal/contact")

// Outcome classifies how a submission resolved. It feeds metrics and logs.
type Outcome string

const (
	OutcomeSucceeded      Outcome = "succeeded"
	OutcomeInvalid        Outcome = "invalid"
	OutcomeDeliveryFailed Outcome = "delivery_failed"
	OutcomeDiscarded      Outcome = "discarded"
)

// State is a copy of an intake's observable state.
type State struct {
	Status         Status
	Fields         Fields
	SubmissionID   string
	Missing        []string
	DeliveryFailed bool
	UpdatedAt      time.Time
}

// Intake owns one visitor's contact form. At most one submission is in
// flight; the gateway sees the fields as they were at submit time.
type Intake struct {
	mu       sync.Mutex
	gateway  Gateway
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
	observe  func(Outcome)
	state    State
	gen      uint64
	cancel   context.CancelFunc
	done     chan struct{}
	closed   bool
	lastSeen time.Time
}

// Option configures an Intake.
type Option func(*Intake)

// WithLogger sets the logger used for resolution events.
func WithLogger(logger *zap.Logger) Option {
	return func(in *Intake) {
		if logger != nil {
			in.logger = logger
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(in *Intake) {
		if now != nil {
			in.now = now
		}
	}
}

// WithIDGenerator overrides the submission id source.
func WithIDGenerator(fn func() string) Option {
	return func(in *Intake) {
		if fn != nil {
			in.newID = fn
		}
	}
}

// WithOutcomeObserver registers a callback invoked once per resolved or
// discarded submission.
func WithOutcomeObserver(fn func(Outcome)) Option {
	return func(in *Intake) {
		in.observe = fn
	}
}

// NewIntake returns an idle intake with empty fields.
func NewIntake(gateway Gateway, opts ...Option) *Intake {
	if gateway == nil {
		gateway = SimulatedGateway{Delay: DefaultSimulatedDelay}
	}
	in := &Intake{
		gateway: gateway,
		logger:  zap.NewNop(),
		now:     time.Now,
		newID:   func() string { return ulid.Make().String() },
	}
	for _, opt := range opts {
		opt(in)
	}
	in.state = State{Status: StatusIdle, UpdatedAt: in.now()}
	in.lastSeen = in.state.UpdatedAt
	return in
}

// State returns the current state.
func (in *Intake) State() State {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.lastSeen = in.now()
	return in.snapshotLocked()
}

// Edit replaces the draft fields. A resolved intake returns to idle; a
// pending one stays pending and its in-flight snapshot is unaffected.
func (in *Intake) Edit(f Fields) (State, error) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.closed {
		return in.snapshotLocked(), ErrIntakeClosed
	}
	now := in.now()
	in.lastSeen = now
	in.state.Fields = f
	if in.state.Status.Terminal() {
		in.state.Status = StatusIdle
		in.state.Missing = nil
		in.state.DeliveryFailed = false
	}
	in.state.UpdatedAt = now
	return in.snapshotLocked(), nil
}

// Submit snapshots f, moves to pending and hands the snapshot to the gateway
// in the background. It fails with ErrSubmissionPending while a previous
// submission is unresolved.
func (in *Intake) Submit(f Fields) (State, error) {
	in.mu.Lock()
	if in.closed {
		defer in.mu.Unlock()
		return in.snapshotLocked(), ErrIntakeClosed
	}
	if in.state.Status == StatusPending {
		defer in.mu.Unlock()
		return in.snapshotLocked(), ErrSubmissionPending
	}

	now := in.now()
	sub := Submission{ID: in.newID(), Fields: f, SubmittedAt: now}
	in.gen++
	gen := in.gen
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	in.cancel = cancel
	in.done = done
	in.lastSeen = now
	in.state = State{
		Status:       StatusPending,
		Fields:       f,
		SubmissionID: sub.ID,
		UpdatedAt:    now,
	}
	st := in.snapshotLocked()
	in.mu.Unlock()

	go in.resolve(ctx, gen, sub, done)
	return st, nil
}

// Settled returns a channel closed once no submission is in flight.
func (in *Intake) Settled() <-chan struct{} {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.done != nil && in.state.Status == StatusPending {
		return in.done
	}
	ch := make(chan struct{})
	close(ch)
	return ch
}

// Close tears the intake down. An in-flight submission is cancelled and its
// eventual outcome is discarded.
func (in *Intake) Close() {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.closed {
		return
	}
	in.closed = true
	if in.cancel != nil {
		in.cancel()
	}
}

// Closed reports whether Close has been called.
func (in *Intake) Closed() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.closed
}

// LastSeen reports when the intake was last read or written.
func (in *Intake) LastSeen() time.Time {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.lastSeen
}

func (in *Intake) pending() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.state.Status == StatusPending
}

func (in *Intake) resolve(ctx context.Context, gen uint64, sub Submission, done chan struct{}) {
	defer close(done)

	spanCtx, span := tracer.Start(ctx, "contact.Submit")
	span.SetAttributes(attribute.String("contact.submission_id", sub.ID))
	err := in.gateway.Submit(spanCtx, sub)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()

	outcome := in.apply(gen, sub, err)
	if in.observe != nil {
		in.observe(outcome)
	}
}

func (in *Intake) apply(gen uint64, sub Submission, err error) Outcome {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.cancel != nil && gen == in.gen {
		in.cancel()
		in.cancel = nil
	}
	if in.closed || gen != in.gen {
		in.logger.Debug("contact submission discarded",
			zap.String("submission_id", sub.ID),
			zap.Error(err),
		)
		return OutcomeDiscarded
	}

	now := in.now()
	in.state.UpdatedAt = now
	in.state.Missing = nil
	in.state.DeliveryFailed = false

	var verr *ValidationError
	switch {
	case err == nil:
		in.state.Status = StatusSucceeded
		in.state.Fields = Fields{}
		in.logger.Info("contact submission delivered",
			zap.String("submission_id", sub.ID),
			zap.Duration("elapsed", now.Sub(sub.SubmittedAt)),
		)
		return OutcomeSucceeded
	case errors.As(err, &verr):
		in.state.Status = StatusFailed
		in.state.Missing = slices.Clone(verr.Fields)
		in.logger.Info("contact submission rejected",
			zap.String("submission_id", sub.ID),
			zap.Strings("missing", verr.Fields),
		)
		return OutcomeInvalid
	default:
		in.state.Status = StatusFailed
		in.state.DeliveryFailed = true
		in.logger.Error("contact submission failed",
			zap.String("submission_id", sub.ID),
			zap.Error(err),
		)
		return OutcomeDeliveryFailed
	}
}

func (in *Intake) snapshotLocked() State {
	st := in.state
	st.Missing = slices.Clone(in.state.Missing)
	return st
}
