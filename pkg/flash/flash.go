// Package flash provides one-time notices persisted across redirects.
package flash

import (
	"encoding/base64"
	"html"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/microcosm-cc/bluemonday"
)

// CookieName is the cookie carrying queued notices.
const CookieName = "formflow_flash"

// maxNotices bounds the queue so the cookie stays under browser limits.
const maxNotices = 8

// Kind classifies notice presentation.
type Kind string

const (
	KindSuccess Kind = "success"
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// Notice is one queued message.
type Notice struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
}

var textPolicy = bluemonday.StrictPolicy()

// Bag queues notices for the response bound to it. Every Add rewrites the
// cookie with the full queue, so notices queued earlier in the request (or
// left over from a previous redirect that was never rendered) are kept.
type Bag struct {
	w       http.ResponseWriter
	r       *http.Request
	secure  bool
	pending []Notice
}

// NewBag binds a Bag to the current exchange.
func NewBag(w http.ResponseWriter, r *http.Request) *Bag {
	b := &Bag{w: w, r: r, secure: r != nil && r.TLS != nil}
	if r != nil {
		if cookie, err := r.Cookie(CookieName); err == nil {
			b.pending, _ = decode(cookie.Value)
		}
	}
	return b
}

// AddSuccessMessage queues a success notice.
func (b *Bag) AddSuccessMessage(text string) {
	b.Add(KindSuccess, text)
}

// Add queues a notice. Invalid kinds and empty texts are ignored.
func (b *Bag) Add(kind Kind, text string) {
	if b == nil {
		return
	}
	notice, ok := normalize(Notice{Kind: kind, Text: text})
	if !ok {
		return
	}
	b.pending = append(b.pending, notice)
	if len(b.pending) > maxNotices {
		b.pending = b.pending[len(b.pending)-maxNotices:]
	}
	b.write()
}

// Pending returns the notices queued so far.
func (b *Bag) Pending() []Notice {
	if b == nil || len(b.pending) == 0 {
		return nil
	}
	return append([]Notice(nil), b.pending...)
}

func (b *Bag) write() {
	if b.w == nil {
		return
	}
	payload, err := json.Marshal(b.pending)
	if err != nil {
		return
	}
	http.SetCookie(b.w, &http.Cookie{
		Name:     CookieName,
		Value:    base64.RawURLEncoding.EncodeToString(payload),
		Path:     "/",
		HttpOnly: true,
		Secure:   b.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ReadAndClear pops the queued notices and expires the cookie.
func ReadAndClear(w http.ResponseWriter, r *http.Request) []Notice {
	if r == nil {
		return nil
	}
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie == nil {
		return nil
	}
	Clear(w, r)
	notices, _ := decode(cookie.Value)
	return notices
}

// Clear expires the notice cookie.
func Clear(w http.ResponseWriter, r *http.Request) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   r != nil && r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

func decode(raw string) ([]Notice, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, false
	}
	decoded, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, false
	}
	var notices []Notice
	if err := json.Unmarshal(decoded, &notices); err != nil {
		return nil, false
	}
	out := notices[:0]
	for _, notice := range notices {
		if normalized, ok := normalize(notice); ok {
			out = append(out, normalized)
		}
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

func normalize(notice Notice) (Notice, bool) {
	notice.Text = strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(notice.Text)))
	if notice.Text == "" {
		return Notice{}, false
	}
	notice.Kind = Kind(strings.ToLower(strings.TrimSpace(string(notice.Kind))))
	switch notice.Kind {
	case KindSuccess, KindInfo, KindWarning, KindError:
		return notice, true
	default:
		return Notice{}, false
	}
}
