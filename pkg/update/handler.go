// Package update implements the generic create/update workflow: bind a
// request to a form, persist the entity when it validates and decide how
// the caller should respond.
package update

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/pkg/flash"
	"github.com/goliatone/go-formflow/pkg/form"
	"github.com/goliatone/go-formflow/pkg/persistence"
	"github.com/goliatone/go-formflow/pkg/route"
)

// Processor replaces form submission for entities with a custom save
// procedure. It reports whether the entity is ready to be saved.
type Processor interface {
	Process(ctx context.Context, entity any) (bool, error)
}

// ProcessorFunc adapts a function to Processor.
type ProcessorFunc func(ctx context.Context, entity any) (bool, error)

// Process implements Processor.
func (fn ProcessorFunc) Process(ctx context.Context, entity any) (bool, error) {
	return fn(ctx, entity)
}

// FlashSink queues one-time notices for the next rendered page.
type FlashSink interface {
	AddSuccessMessage(text string)
}

// Redirector picks the post-save destination.
type Redirector interface {
	RedirectAfterSave(r *http.Request, stay, close route.Route, entity any) (string, error)
}

var (
	_ FlashSink  = (*flash.Bag)(nil)
	_ Redirector = (*route.Router)(nil)
)

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the logger used for outcome traces.
func WithLogger(logger *zap.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithWidgetParam overrides the request parameter marking a widget context.
func WithWidgetParam(name string) Option {
	return func(h *Handler) {
		if name = strings.TrimSpace(name); name != "" {
			h.widgetParam = name
		}
	}
}

// Handler runs the save workflow for one request.
type Handler struct {
	request     *http.Request
	flashes     FlashSink
	router      Redirector
	store       persistence.Store
	logger      *zap.Logger
	widgetParam string
}

// New binds a Handler to the current request and its collaborators.
func New(r *http.Request, flashes FlashSink, router Redirector, store persistence.Store, opts ...Option) *Handler {
	h := &Handler{
		request:     r,
		flashes:     flashes,
		router:      router,
		store:       store,
		logger:      zap.NewNop(),
		widgetParam: form.WidgetIDField,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// HandleUpdate saves entity through processor when one is given, or through
// f otherwise, and returns the outcome for the caller to render. A nil
// processor, including a typed nil such as a nil *T or nil ProcessorFunc,
// selects the form path. Persistence and redirect failures are returned as
// errors; validation failures are not.
func (h *Handler) HandleUpdate(ctx context.Context, entity any, f form.Form, stay, close route.Route, message string, processor Processor) (Outcome, error) {
	if f == nil {
		return nil, errors.New("update: nil form")
	}

	var (
		saved bool
		err   error
	)
	if !isNilProcessor(processor) {
		saved, err = processor.Process(ctx, entity)
		if err != nil {
			return nil, err
		}
	} else {
		saved = h.submit(f, entity)
	}

	if !saved {
		h.logger.Debug("update: redisplay form",
			zap.String("form", f.Name()),
			zap.Bool("submitted", f.IsSubmitted()),
		)
		return Redisplay{Entity: entity, Form: f.CreateView()}, nil
	}

	if err := h.persist(ctx, entity); err != nil {
		return nil, err
	}
	return h.processSave(f, entity, stay, close, message)
}

func (h *Handler) submit(f form.Form, entity any) bool {
	f.SetData(entity)
	if h.request == nil || !isMutating(h.request.Method) {
		return false
	}
	if err := f.Submit(h.request); err != nil {
		h.logger.Debug("update: submit failed", zap.String("form", f.Name()), zap.Error(err))
		return false
	}
	return f.IsValid()
}

func (h *Handler) persist(ctx context.Context, entity any) error {
	if h.store == nil {
		return errors.New("update: no persistence store")
	}
	manager, err := h.store.EntityManager(entity)
	if err != nil {
		return fmt.Errorf("update: entity manager for %T: %w", entity, err)
	}
	if err := manager.Persist(ctx, entity); err != nil {
		return fmt.Errorf("update: persist %T: %w", entity, err)
	}
	if err := manager.Flush(ctx); err != nil {
		return fmt.Errorf("update: flush %T: %w", entity, err)
	}
	return nil
}

func (h *Handler) processSave(f form.Form, entity any, stay, close route.Route, message string) (Outcome, error) {
	view := f.CreateView()

	if wid := h.widgetID(view); wid != "" {
		id, err := h.store.SingleIdentifier(entity)
		if err != nil && !errors.Is(err, persistence.ErrNoIdentifier) {
			return nil, fmt.Errorf("update: identifier of %T: %w", entity, err)
		}
		h.logger.Debug("update: saved inline", zap.String("form", f.Name()), zap.String("widget", wid), zap.Any("id", id))
		return InlineSaved{Form: view, Entity: entity, SavedID: id}, nil
	}

	if h.flashes != nil {
		h.flashes.AddSuccessMessage(message)
	}
	if h.router == nil {
		return nil, errors.New("update: no redirector")
	}
	target, err := h.router.RedirectAfterSave(h.request, stay, close, entity)
	if err != nil {
		return nil, fmt.Errorf("update: redirect after save: %w", err)
	}
	h.logger.Debug("update: saved", zap.String("form", f.Name()), zap.String("redirect", target))
	return RedirectSaved{URL: target}, nil
}

// widgetID reads the widget marker from the request, falling back to the
// hidden field a form picked up from a JSON body. "0" counts as absent.
func (h *Handler) widgetID(view form.View) string {
	value := strings.TrimSpace(form.RequestValue(h.request, h.widgetParam))
	if value == "" {
		for _, hidden := range view.Hidden {
			if hidden.Name == h.widgetParam {
				value = strings.TrimSpace(hidden.Value)
				break
			}
		}
	}
	if value == "0" {
		return ""
	}
	return value
}

func isNilProcessor(processor Processor) bool {
	if processor == nil {
		return true
	}
	v := reflect.ValueOf(processor)
	switch v.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Map, reflect.Slice, reflect.Chan, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}

func isMutating(method string) bool {
	switch strings.ToUpper(method) {
	case http.MethodPost, http.MethodPut:
		return true
	default:
		return false
	}
}
