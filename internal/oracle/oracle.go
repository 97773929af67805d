// Package oracle abstracts the external teacher text-generation service.
// The session core only needs prompt-in, text-out; everything about
// transports, models and credentials stays behind the Oracle interface.
package oracle

import (
	"context"
	"fmt"
	"sync"
)

// Oracle is the teacher service as seen by the session core.
type Oracle interface {
	// Send submits a prompt and returns the teacher's reply.
	Send(ctx context.Context, prompt string) (string, error)

	// Name returns the provider name (e.g., "openai", "gemini")
	Name() string
}

// Error represents a provider-specific failure. The session core treats
// every failure identically; the detail here is for logs and metrics.
type Error struct {
	Provider      string `json:"provider"`
	Code          string `json:"code"`
	Message       string `json:"message"`
	StatusCode    int    `json:"status_code,omitempty"`
	IsRetryable   bool   `json:"is_retryable"`
	OriginalError error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Provider + " error: " + e.Message
}

// Unwrap returns the original error
func (e *Error) Unwrap() error {
	return e.OriginalError
}

// Common error codes
const (
	ErrorCodeInvalidRequest = "invalid_request"
	ErrorCodeAuthentication = "authentication_error"
	ErrorCodeRateLimit      = "rate_limit_exceeded"
	ErrorCodeServerError    = "server_error"
	ErrorCodeTimeout        = "timeout"
	ErrorCodeModelNotFound  = "model_not_found"
	ErrorCodeUnknown        = "unknown_error"
)

// NewError creates a new provider error
func NewError(provider, code, message string, original error) *Error {
	return &Error{
		Provider:      provider,
		Code:          code,
		Message:       message,
		OriginalError: original,
		IsRetryable:   isRetryableCode(code),
	}
}

func isRetryableCode(code string) bool {
	switch code {
	case ErrorCodeRateLimit, ErrorCodeServerError, ErrorCodeTimeout:
		return true
	default:
		return false
	}
}

// Factory constructs an Oracle from free-form configuration.
type Factory func(config map[string]any) (Oracle, error)

var (
	factoriesMu sync.RWMutex
	factories   = make(map[string]Factory)
)

// RegisterFactory registers a provider factory under a name.
// Providers call this from init.
func RegisterFactory(name string, factory Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[name] = factory
}

// New builds an Oracle for the named provider.
func New(name string, config map[string]any) (Oracle, error) {
	factoriesMu.RLock()
	factory, ok := factories[name]
	factoriesMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("oracle provider '%s' not found (available: %v)", name, List())
	}

	return factory(config)
}

// Has checks if a provider factory is registered
func Has(name string) bool {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	_, ok := factories[name]
	return ok
}

// List returns all registered provider names
func List() []string {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	return names
}
