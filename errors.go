package crossway

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// ErrorCode represents specific error conditions of the scheduler
type ErrorCode int

const (
	// No error occurred
	ErrCodeNone ErrorCode = iota
	// A lane count is not a non-negative integer
	ErrCodeInvalidInput
	// Scheduler or run configuration is invalid
	ErrCodeInvalidConfiguration
)

// ErrInvalidInput matches every *InvalidInputError through errors.Is
var ErrInvalidInput = errors.New("invalid lane count input")

// InvalidInputError reports lane counts that could not be parsed as
// non-negative integers. Lanes lists the offending lanes in lane order.
type InvalidInputError struct {
	Code   ErrorCode
	Lanes  []LaneID
	Values map[LaneID]string
}

func (e *InvalidInputError) Error() string {
	parts := lo.Map(e.Lanes, func(lane LaneID, _ int) string {
		return fmt.Sprintf("%s=%q", lane, e.Values[lane])
	})
	return fmt.Sprintf("invalid input [%s]: lane counts must be non-negative integers", strings.Join(parts, ", "))
}

// Is lets errors.Is(err, ErrInvalidInput) match
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Offending reports whether lane was rejected
func (e *InvalidInputError) Offending(lane LaneID) bool {
	return lo.Contains(e.Lanes, lane)
}

// NewInvalidInputError creates an invalid input error for the given lanes
func NewInvalidInputError(lanes []LaneID, values map[LaneID]string) *InvalidInputError {
	return &InvalidInputError{
		Code:   ErrCodeInvalidInput,
		Lanes:  lanes,
		Values: values,
	}
}

// ConfigurationError represents scheduler or run configuration issues
type ConfigurationError struct {
	Component string
	Issue     string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Issue)
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(component, issue string) *ConfigurationError {
	return &ConfigurationError{
		Component: component,
		Issue:     issue,
	}
}

// IsInvalidInputError checks if an error is an InvalidInputError
func IsInvalidInputError(err error) bool {
	var target *InvalidInputError
	return errors.As(err, &target)
}

// IsConfigurationError checks if an error is a ConfigurationError
func IsConfigurationError(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}

// GetErrorCode returns the error code for known error types
func GetErrorCode(err error) ErrorCode {
	var inputErr *InvalidInputError
	if errors.As(err, &inputErr) {
		return inputErr.Code
	}
	var configErr *ConfigurationError
	if errors.As(err, &configErr) {
		return ErrCodeInvalidConfiguration
	}
	return ErrCodeNone
}
