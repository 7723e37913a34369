// Package task defines the task record, its cosmetic quantum state, and the
// session-local store that holds tasks in insertion order.
package task

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/fyrsmithlabs/qtask/internal/sanitize"
)

const (
	// MinPriority is the lowest accepted priority.
	MinPriority = 1
	// MaxPriority is the highest accepted priority.
	MaxPriority = 5
	// DefaultPriority is the priority the form controls start at.
	DefaultPriority = 3
	// MaxDescriptionLen bounds the description in characters.
	MaxDescriptionLen = 500
)

// Task is a to-do record with a cosmetic quantum state.
type Task struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Priority    int       `json:"priority"`
	State       State     `json:"state"`
	CreatedAt   time.Time `json:"created_at"`
	Completed   bool      `json:"completed"`
}

// createInput carries the validated fields of New.
type createInput struct {
	Description string `validate:"required,max=500"`
	Priority    int    `validate:"min=1,max=5"`
}

var validate = validator.New()

// Option configures task construction.
type Option func(*options)

type options struct {
	picker StatePicker
	now    func() time.Time
	newID  func() string
}

// WithStatePicker overrides the random state source.
func WithStatePicker(p StatePicker) Option {
	return func(o *options) {
		o.picker = p
	}
}

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithIDGenerator overrides synthetic ID generation.
func WithIDGenerator(gen func() string) Option {
	return func(o *options) {
		o.newID = gen
	}
}

func buildOptions(opts []Option) options {
	o := options{
		picker: UniformPicker{},
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// New validates the input and returns a fresh, uncompleted task.
//
// The description is trimmed and stripped of control characters; an empty
// result is rejected. Priority must lie in [MinPriority, MaxPriority]. The
// state is drawn from the configured picker.
func New(description string, priority int, opts ...Option) (Task, error) {
	in := createInput{
		Description: sanitize.Text(description),
		Priority:    priority,
	}
	if err := validate.Struct(in); err != nil {
		return Task{}, toValidationError(err)
	}

	o := buildOptions(opts)
	return Task{
		ID:          o.newID(),
		Description: in.Description,
		Priority:    in.Priority,
		State:       o.picker.Pick(),
		CreatedAt:   o.now(),
		Completed:   false,
	}, nil
}

// toValidationError maps the first validator failure to a ValidationError.
func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ValidationError{Field: "task", Message: err.Error()}
	}

	fe := verrs[0]
	switch fe.Field() {
	case "Description":
		if fe.Tag() == "max" {
			return &ValidationError{Field: "description", Message: "must be at most 500 characters"}
		}
		return &ValidationError{Field: "description", Message: "must not be empty"}
	case "Priority":
		return &ValidationError{Field: "priority", Message: "must be between 1 and 5"}
	}
	return &ValidationError{Field: strings.ToLower(fe.Field()), Message: fe.Error()}
}
