package form

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"
)

// ErrUnreadable is returned when a request body cannot be parsed.
var ErrUnreadable = errors.New("form: submitted data could not be read")

const maxMemory = 8 << 20

// readValues collects submitted values for a form named formName. Keys may
// be flat (`email`), bracketed (`contact[email]`) or dotted (`contact.email`).
// JSON bodies may nest fields under the form name.
func readValues(r *http.Request, formName string) (Values, error) {
	if r == nil {
		return Values{}, fmt.Errorf("%w: missing request", ErrUnreadable)
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		return readJSON(r.Body, formName)
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxMemory); err != nil {
			return Values{}, fmt.Errorf("%w: %v", ErrUnreadable, err)
		}
	default:
		if err := r.ParseForm(); err != nil {
			return Values{}, fmt.Errorf("%w: %v", ErrUnreadable, err)
		}
	}

	out := make(Values, len(r.PostForm))
	for key, list := range r.PostForm {
		if len(list) == 0 {
			continue
		}
		out[stripFormName(key, formName)] = list[len(list)-1]
	}
	return out, nil
}

func readJSON(body io.Reader, formName string) (Values, error) {
	if body == nil {
		return Values{}, nil
	}
	var payload map[string]any
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		if errors.Is(err, io.EOF) {
			return Values{}, nil
		}
		return Values{}, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if nested, ok := payload[formName].(map[string]any); ok && formName != "" {
		// The widget marker travels beside the nested fields, not inside them.
		if wid, found := payload[WidgetIDField]; found {
			if _, inner := nested[WidgetIDField]; !inner {
				nested[WidgetIDField] = wid
			}
		}
		payload = nested
	}

	out := make(Values, len(payload))
	for key, value := range payload {
		switch typed := value.(type) {
		case nil:
			out[key] = ""
		case string:
			out[key] = typed
		case map[string]any, []any:
			continue
		default:
			out[key] = fmt.Sprint(typed)
		}
	}
	return out, nil
}

func stripFormName(key, formName string) string {
	key = strings.TrimSpace(key)
	if formName == "" {
		return key
	}
	if strings.HasPrefix(key, formName+"[") && strings.HasSuffix(key, "]") {
		return key[len(formName)+1 : len(key)-1]
	}
	if strings.HasPrefix(key, formName+".") {
		return key[len(formName)+1:]
	}
	return key
}

// RequestValue returns a parameter from the query string or the parsed body,
// the way a framework request bag resolves it.
func RequestValue(r *http.Request, name string) string {
	if r == nil {
		return ""
	}
	if value := r.URL.Query().Get(name); value != "" {
		return value
	}
	if r.PostForm == nil && r.Body != nil && r.Body != http.NoBody && !isJSON(r) {
		_ = r.ParseForm()
	}
	return r.PostForm.Get(name)
}

func isJSON(r *http.Request) bool {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return mediaType == "application/json"
}
