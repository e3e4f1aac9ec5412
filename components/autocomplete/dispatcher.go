package autocomplete

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/pkg/search"
	"github.com/goliatone/go-formflow/pkg/security"
)

// Reason is a fixed client-facing message.
type Reason string

func (r Reason) Error() string { return string(r) }

const (
	ErrNameRequired   Reason = `Parameter "name" is required`
	ErrInvalidPage    Reason = `Parameter "page" must be greater than 0`
	ErrInvalidPerPage Reason = `Parameter "per_page" must be greater than 0`
	ErrAccessDenied   Reason = "Access denied."
)

type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

// Dispatcher validates a search request, checks access and delegates to the
// named handler.
type Dispatcher struct {
	registry *search.Registry
	security *security.Security
	logger   *zap.Logger
}

func NewDispatcher(registry *search.Registry, sec *security.Security, logger *zap.Logger) *Dispatcher {
	if registry == nil {
		registry = search.NewRegistry()
	}
	if sec == nil {
		sec = security.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{registry: registry, security: sec, logger: logger}
}

// Search runs the request. Client mistakes come back as StatusError values
// with 400 or 403; an unregistered handler is a 500 wrapping
// search.ErrHandlerNotFound. The caller identity is read from ctx.
func (d *Dispatcher) Search(ctx context.Context, req search.Request) (any, error) {
	req = req.Normalized()

	switch {
	case req.Name == "":
		return nil, StatusError{Code: http.StatusBadRequest, Err: ErrNameRequired}
	case req.Page <= 0:
		return nil, StatusError{Code: http.StatusBadRequest, Err: ErrInvalidPage}
	case req.PerPage <= 0:
		return nil, StatusError{Code: http.StatusBadRequest, Err: ErrInvalidPerPage}
	}

	if !d.security.IsAutocompleteGranted(ctx, req.Name) {
		return nil, StatusError{Code: http.StatusForbidden, Err: ErrAccessDenied}
	}

	handler, err := d.registry.Get(req.Name)
	if err != nil {
		d.logger.Error("autocomplete: handler lookup failed",
			zap.String("name", req.Name),
			zap.Error(err),
		)
		return nil, StatusError{Code: http.StatusInternalServerError, Err: fmt.Errorf("autocomplete: %w", err)}
	}

	result, err := handler.Search(ctx, req.Query, req.Page, req.PerPage)
	if err != nil {
		var httpErr HTTPError
		if errors.As(err, &httpErr) {
			return nil, err
		}
		d.logger.Error("autocomplete: handler failed",
			zap.String("name", req.Name),
			zap.Error(err),
		)
		return nil, StatusError{Code: http.StatusInternalServerError, Err: fmt.Errorf("autocomplete: handler %q: %w", req.Name, err)}
	}
	return result, nil
}
