package internal

import (
	"context"
	"io"
	"strings"

	"github.com/myth21/viewcontroller/pkg/session"
)

// ParseArgs turns process arguments of the form key=value into a map.
// Arguments without exactly one "=" or with an empty key are skipped.
func ParseArgs(args []string) map[string]string {
	params := make(map[string]string, len(args))
	for _, arg := range args {
		if strings.Count(arg, "=") != 1 {
			continue
		}
		key, value, _ := strings.Cut(arg, "=")
		if key == "" {
			continue
		}
		params[key] = value
	}
	return params
}

// ConsoleEntry runs the engine from command-line arguments.
type ConsoleEntry struct {
	w    io.Writer
	sess *session.Session
	args []string
}

// NewConsoleEntry creates a console entry point writing its output to w.
func NewConsoleEntry(args []string, w io.Writer) *ConsoleEntry {
	if w == nil {
		w = io.Discard
	}
	return &ConsoleEntry{args: args, w: w, sess: session.New(0)}
}

func (c *ConsoleEntry) Kind() Kind { return KindConsole }

func (c *ConsoleEntry) DefineRequestParams(_ context.Context, req *Request) error {
	req.Get = ParseArgs(c.args)
	req.URI = strings.Join(c.args, " ")
	return nil
}

func (c *ConsoleEntry) ControllerNamespace(p *Params) string {
	return p.String(KeyConsoleControllerNamespace)
}

func (c *ConsoleEntry) RunController(_ context.Context, invoke func() (any, error)) (any, error) {
	return invoke()
}

// Out prints buffered output and the value followed by a newline.
func (c *ConsoleEntry) Out(_ context.Context, value any, buffered []byte) error {
	if len(buffered) > 0 {
		if _, err := c.w.Write(buffered); err != nil {
			return err
		}
	}
	_, err := io.WriteString(c.w, FormatOutput(value)+"\n")
	return err
}

func (c *ConsoleEntry) Reset()                    {}
func (c *ConsoleEntry) Session() *session.Session { return c.sess }
func (c *ConsoleEntry) Response() *ResponseHeader { return nil }
