// Package contact models the contact form: a per-visitor intake that moves
// through idle, pending, succeeded and failed while a Gateway delivers the
// message.
package contact

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Fields are the three required inputs of the contact form.
type Fields struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// IsZero reports whether every field is empty.
func (f Fields) IsZero() bool {
	return f == Fields{}
}

// Status is the lifecycle state of an intake.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusPending   Status = "pending"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Terminal reports whether the status is a resolved outcome.
func (s Status) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// Submission is the immutable snapshot handed to a Gateway.
type Submission struct {
	ID          string
	Fields      Fields
	SubmittedAt time.Time
}

// Gateway delivers a submission. It returns nil on success, a
// *ValidationError when required fields are empty, or any other error when
// delivery itself failed. Implementations must honour ctx cancellation.
type Gateway interface {
	Submit(ctx context.Context, sub Submission) error
}

// GatewayFunc adapts a function to the Gateway interface.
type GatewayFunc func(ctx context.Context, sub Submission) error

// Submit calls f.
func (f GatewayFunc) Submit(ctx context.Context, sub Submission) error {
	return f(ctx, sub)
}

var (
	// ErrSubmissionPending is returned when a submit arrives while another is in flight.
	ErrSubmissionPending = errors.New("contact: submission already pending")
	// ErrIntakeClosed is returned by operations on an intake that has been torn down.
	ErrIntakeClosed = errors.New("contact: intake closed")
)

// ValidationError lists the required fields that were empty at submit time.
type ValidationError struct {
	Fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("contact: missing required fields [%s]", strings.Join(e.Fields, ", "))
}

// DeliveryError wraps a failure reported by a real delivery backend.
type DeliveryError struct {
	Gateway string
	Err     error
}

// Error implements the error interface.
func (e *DeliveryError) Error() string {
	return fmt.Sprintf("contact: %s delivery failed: %v", e.Gateway, e.Err)
}

// Unwrap exposes the underlying error.
func (e *DeliveryError) Unwrap() error { return e.Err }
