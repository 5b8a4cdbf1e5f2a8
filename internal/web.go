package internal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/myth21/viewcontroller/pkg/session"
)

const maxMultipartMemory = 32 << 20

// WebEntry runs the engine for one HTTP request.
type WebEntry struct {
	w        *ResponseWriter
	r        *http.Request
	sessions *SessionManager
	logger   *slog.Logger
	response *ResponseHeader
	sess     *session.Session
}

// NewWebEntry creates the entry point for r. sessions may be nil,
// in which case the session lives only for this request.
func NewWebEntry(w http.ResponseWriter, r *http.Request, sessions *SessionManager, log *slog.Logger) *WebEntry {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &WebEntry{
		w:        NewResponseWriter(w),
		r:        r,
		sessions: sessions,
		logger:   log,
		response: NewResponseHeader(),
	}
}

func (we *WebEntry) Kind() Kind { return KindWeb }

func (we *WebEntry) DefineRequestParams(ctx context.Context, req *Request) error {
	r := we.r
	req.Get = flattenValues(r.URL.Query())
	req.Method = r.Method
	req.URI = r.RequestURI
	if req.URI == "" {
		req.URI = r.URL.RequestURI()
	}
	req.Path = r.URL.Path
	req.Ajax = r.Header.Get("X-Requested-With") == "XMLHttpRequest"

	if err := we.parseBody(); err != nil {
		return &DispatchError{Err: err, Message: "malformed request body", Code: http.StatusBadRequest}
	}
	req.Post = flattenValues(r.PostForm)

	return we.loadSession(ctx)
}

func (we *WebEntry) parseBody() error {
	ct, _, _ := mime.ParseMediaType(we.r.Header.Get("Content-Type"))
	if ct == "multipart/form-data" {
		return we.r.ParseMultipartForm(maxMultipartMemory)
	}
	return we.r.ParseForm()
}

func (we *WebEntry) loadSession(ctx context.Context) error {
	if we.sessions == nil {
		we.sess = session.New(0)
		return nil
	}

	sess, err := we.sessions.Load(ctx, we.r)
	if err != nil {
		we.sess = session.New(0)
		return err
	}
	we.sess = sess

	we.w.OnBeforeWrite(func() {
		if err := we.sessions.Save(ctx, we.w, sess); err != nil {
			we.logger.ErrorContext(ctx, "failed to save session",
				slog.String("session_id", sess.ID),
				slog.String("error", err.Error()),
			)
		}
	})
	return nil
}

func (we *WebEntry) ControllerNamespace(p *Params) string {
	return p.String(KeyWebControllerNamespace)
}

// RunController installs a fresh header sink before invoking the action.
func (we *WebEntry) RunController(_ context.Context, invoke func() (any, error)) (any, error) {
	we.response = NewResponseHeader()
	return invoke()
}

// Out sends headers once, then the body. A redirect has no body.
func (we *WebEntry) Out(_ context.Context, value any, buffered []byte) error {
	we.response.Send(we.w)
	if we.response.IsRedirect() || we.r.Method == http.MethodHead {
		return nil
	}

	if len(buffered) > 0 {
		if _, err := we.w.Write(buffered); err != nil {
			return err
		}
	}
	if body := FormatOutput(value); body != "" {
		if _, err := io.WriteString(we.w, body); err != nil {
			return err
		}
	}
	return nil
}

func (we *WebEntry) Reset() {
	we.response = NewResponseHeader()
}

func (we *WebEntry) Session() *session.Session { return we.sess }
func (we *WebEntry) Response() *ResponseHeader { return we.response }

// Writer returns the wrapped response writer.
func (we *WebEntry) Writer() *ResponseWriter { return we.w }

// FormatOutput renders an action value as text.
func FormatOutput(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case error:
		return v.Error()
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
