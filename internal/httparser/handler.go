package httparser

import "httpflow/internal/headers"

// Handler is the callback surface the host implements. Composition over
// inheritance: a Parser is handed one Handler at construction and never
// needs to know its concrete type.
type Handler interface {
	// OnHeaders fires only for chunked trailers; url is always empty.
	OnHeaders(h headers.Pairs, url string) error

	// OnHeadersComplete fires once the blank line ending the header block
	// has been consumed. The returned Directive steers body framing (see
	// Directive's doc comment).
	OnHeadersComplete(info *Info) (Directive, error)

	// OnBody delivers a non-owning view into the chunk passed to the
	// current execute call: buf[start:start+length]. The callee must
	// copy the bytes if it needs them to outlive the call.
	OnBody(buf []byte, start, length int) error

	OnMessageComplete() error

	// OnExecute is reserved for host instrumentation; the core never
	// calls it itself.
	OnExecute() error
}

// NopHandler implements Handler with no-ops returning DirectiveNormal,
// useful for embedding in a host's handler to avoid implementing every
// method.
type NopHandler struct{}

func (NopHandler) OnHeaders(headers.Pairs, string) error      { return nil }
func (NopHandler) OnHeadersComplete(*Info) (Directive, error) { return DirectiveNormal, nil }
func (NopHandler) OnBody([]byte, int, int) error              { return nil }
func (NopHandler) OnMessageComplete() error                   { return nil }
func (NopHandler) OnExecute() error                           { return nil }
