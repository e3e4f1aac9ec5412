package autocomplete

import (
	"context"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
)

// Document describes the search endpoint mounted at path. The `name`
// parameter enumerates the handlers registered at build time.
func Document(opts Options, path string) (*openapi3.T, error) {
	opts = NewOptions(func(o *Options) { *o = opts })
	if path == "" {
		path = opts.RoutePath
	}

	nameSchema := openapi3.NewStringSchema().WithMinLength(1)
	if names := opts.Registry.List(); len(names) > 0 {
		enum := make([]any, 0, len(names))
		for _, name := range names {
			enum = append(enum, name)
		}
		nameSchema = nameSchema.WithEnum(enum...)
	}

	item := &openapi3.PathItem{}
	for _, method := range []string{http.MethodGet, http.MethodPost} {
		op := openapi3.NewOperation()
		op.OperationID = "autocompleteSearch" + method
		op.Summary = "Search a named autocomplete handler"
		op.Tags = []string{"autocomplete"}

		op.AddParameter(openapi3.NewQueryParameter(opts.NameParam).
			WithDescription("Registered search handler name.").
			WithRequired(true).
			WithSchema(nameSchema))
		op.AddParameter(openapi3.NewQueryParameter(opts.QueryParam).
			WithDescription("Free-text query.").
			WithSchema(openapi3.NewStringSchema()))
		op.AddParameter(openapi3.NewQueryParameter(opts.PageParam).
			WithDescription("1-based page number.").
			WithSchema(openapi3.NewIntegerSchema().WithMin(1).WithDefault(1)))
		op.AddParameter(openapi3.NewQueryParameter(opts.PerPageParam).
			WithDescription("Page size.").
			WithSchema(openapi3.NewIntegerSchema().WithMin(1).WithDefault(50)))

		op.AddResponse(http.StatusOK, openapi3.NewResponse().
			WithDescription("Handler-defined result.").
			WithJSONSchema(openapi3.NewObjectSchema().WithAnyAdditionalProperties()))
		op.AddResponse(http.StatusBadRequest, textResponse("Invalid parameter."))
		op.AddResponse(http.StatusForbidden, textResponse("Access denied."))

		if method == http.MethodGet {
			item.Get = op
		} else {
			item.Post = op
		}
	}

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   "Autocomplete search",
			Version: "1.0.0",
		},
		Paths: openapi3.NewPaths(openapi3.WithPath(path, item)),
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("autocomplete: invalid openapi document: %w", err)
	}
	return doc, nil
}

func textResponse(description string) *openapi3.Response {
	return openapi3.NewResponse().
		WithDescription(description).
		WithContent(openapi3.NewContentWithSchema(openapi3.NewStringSchema(), []string{"text/plain"}))
}
