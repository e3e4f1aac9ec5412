package autocomplete

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/pkg/form"
	"github.com/goliatone/go-formflow/pkg/search"
)

var allowedMethods = strings.Join([]string{http.MethodGet, http.MethodHead, http.MethodPost}, ", ")

// Handler builds a net/http handler with default options plus any overrides.
func Handler(fns ...OptionFn) http.Handler {
	return NewHandler(fns...)
}

func NewHandler(fns ...OptionFn) http.Handler {
	opts := NewOptions(fns...)
	return HandlerWithOptions(opts)
}

// HandlerWithOptions builds a net/http handler from a pre-constructed Options value.
func HandlerWithOptions(opts Options) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	dispatcher := NewDispatcher(opts.Registry, opts.Security, opts.Logger)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r == nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodPost:
		default:
			w.Header().Set("Allow", allowedMethods)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		result, err := dispatcher.Search(r.Context(), readRequest(r, opts))
		if err != nil {
			writeError(w, err)
			return
		}

		body, err := json.Marshal(result)
		if err != nil {
			opts.Logger.Error("autocomplete: encode result", zap.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}
		_, _ = w.Write(body)
	})
}

func readRequest(r *http.Request, opts Options) search.Request {
	return search.Request{
		Name:    form.RequestValue(r, opts.NameParam),
		Query:   form.RequestValue(r, opts.QueryParam),
		Page:    parseInt(form.RequestValue(r, opts.PageParam), search.DefaultPage),
		PerPage: parseInt(form.RequestValue(r, opts.PerPageParam), search.DefaultPerPage),
	}
}

// writeError reports client errors with their fixed message and hides the
// detail of everything else.
func writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
	}
	if code >= http.StatusInternalServerError {
		http.Error(w, http.StatusText(code), code)
		return
	}
	http.Error(w, err.Error(), code)
}

// parseInt returns fallback for a missing value and 0 for anything that is
// not an integer.
func parseInt(raw string, fallback int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}
