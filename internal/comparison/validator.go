package comparison

import (
	"context"
	"strings"
	"sync"
	"time"
)

// FilterState is the lifecycle state of the filter input.
type FilterState int

const (
	// StateIdle means no condition has been entered yet.
	StateIdle FilterState = iota
	// StatePending means the text changed and validation is scheduled
	// or in flight.
	StatePending
	// StateValid means the last validation succeeded and the text was
	// adopted as the active predicate.
	StateValid
	// StateInvalid means the validator rejected the text; it stays in
	// the input with an error message but is not adopted.
	StateInvalid
	// StateErrored means the validation call itself failed. This is an
	// operational failure, not a user input error: the text is not
	// adopted and a generic message is surfaced.
	StateErrored
)

func (s FilterState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateValid:
		return "valid"
	case StateInvalid:
		return "invalid"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

const (
	// DefaultDebounce is the trailing-edge debounce interval for
	// keystroke-driven validation.
	DefaultDebounce = 300 * time.Millisecond
	// DefaultValidationTimeout bounds a single validation call.
	DefaultValidationTimeout = 10 * time.Second

	validationUnavailableMsg = "could not reach the filter validator; the filter was not applied"
)

// FilterSnapshot is a point-in-time view of the validator state.
type FilterSnapshot struct {
	State        FilterState
	Text         string
	ErrorMessage string
}

// Validator gates adoption of a filter condition behind asynchronous
// validation. Keystroke input is debounced on the trailing edge, and
// only the most recently submitted text ever updates state: a slow
// response for superseded text is discarded regardless of arrival
// order.
type Validator struct {
	client        FilterValidator
	experimentIDs []string
	debounce      time.Duration
	timeout       time.Duration
	onAdopt       func(condition string)

	mu     sync.Mutex
	gen    uint64 // bumped on every text submission; stale responses are dropped
	timer  *time.Timer
	state  FilterState
	text   string
	errMsg string
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*Validator)

// WithDebounce overrides the debounce interval.
func WithDebounce(d time.Duration) ValidatorOption {
	return func(v *Validator) { v.debounce = d }
}

// WithValidationTimeout overrides the per-call timeout.
func WithValidationTimeout(d time.Duration) ValidatorOption {
	return func(v *Validator) { v.timeout = d }
}

// NewValidator creates a validator. onAdopt is invoked, outside the
// internal lock, whenever a condition (possibly empty) becomes the
// adopted predicate.
func NewValidator(client FilterValidator, experimentIDs []string, onAdopt func(condition string), opts ...ValidatorOption) *Validator {
	v := &Validator{
		client:        client,
		experimentIDs: append([]string(nil), experimentIDs...),
		debounce:      DefaultDebounce,
		timeout:       DefaultValidationTimeout,
		onAdopt:       onAdopt,
		state:         StateIdle,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// SetText records a keystroke-level text change and schedules a
// debounced validation. Only the most recent text is ever validated;
// earlier scheduled validations are cancelled. An empty condition is
// adopted synchronously without a validation call.
func (v *Validator) SetText(text string) {
	v.mu.Lock()
	if text == v.text && v.state != StateIdle {
		v.mu.Unlock()
		return
	}
	gen := v.supersedeLocked(text)

	if strings.TrimSpace(text) == "" {
		v.state = StateValid
		v.errMsg = ""
		adopt := v.onAdopt
		v.mu.Unlock()
		if adopt != nil {
			adopt("")
		}
		return
	}

	v.state = StatePending
	v.errMsg = ""
	v.timer = time.AfterFunc(v.debounce, func() {
		ctx, cancel := context.WithTimeout(context.Background(), v.timeout)
		defer cancel()
		v.validate(ctx, gen, text)
	})
	v.mu.Unlock()
}

// Submit validates text immediately, skipping the debounce. It is used
// where the transport already coalesced keystrokes (for example an
// HTMX-debounced input). The generation discipline is the same as for
// SetText, so overlapping submissions resolve last-write-wins.
func (v *Validator) Submit(ctx context.Context, text string) FilterSnapshot {
	v.mu.Lock()
	gen := v.supersedeLocked(text)

	if strings.TrimSpace(text) == "" {
		v.state = StateValid
		v.errMsg = ""
		adopt := v.onAdopt
		v.mu.Unlock()
		if adopt != nil {
			adopt("")
		}
		return v.Snapshot()
	}

	v.state = StatePending
	v.errMsg = ""
	v.mu.Unlock()

	v.validate(ctx, gen, text)
	return v.Snapshot()
}

// supersedeLocked registers new text, cancelling any scheduled
// validation, and returns the generation owning it.
func (v *Validator) supersedeLocked(text string) uint64 {
	v.gen++
	v.text = text
	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
	}
	return v.gen
}

func (v *Validator) validate(ctx context.Context, gen uint64, text string) {
	res, err := v.client.ValidateFilter(ctx, text, v.experimentIDs)

	v.mu.Lock()
	if gen != v.gen {
		// A newer submission superseded this one; its result, whenever
		// it arrives, owns the state.
		v.mu.Unlock()
		return
	}

	var adopt func(string)
	switch {
	case err != nil:
		v.state = StateErrored
		v.errMsg = validationUnavailableMsg
	case res.IsValid:
		v.state = StateValid
		v.errMsg = ""
		adopt = v.onAdopt
	default:
		v.state = StateInvalid
		v.errMsg = res.ErrorMessage
	}
	v.mu.Unlock()

	if adopt != nil {
		adopt(text)
	}
}

// Snapshot returns the current filter state.
func (v *Validator) Snapshot() FilterSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return FilterSnapshot{State: v.state, Text: v.text, ErrorMessage: v.errMsg}
}
