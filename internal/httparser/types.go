package httparser

import "httpflow/internal/headers"

// Mode fixes whether a Parser decodes requests or responses. It is set at
// Initialize and stays fixed until Initialize is called again.
type Mode uint8

const (
	Request Mode = iota
	Response
)

// state is the tagged variant the state machine dispatches on.
type state uint8

const (
	stateRequestLine state = iota
	stateResponseLine
	stateHeader
	stateBodyChunkHead
	stateBodyChunk
	stateBodyChunkEnd
	stateBodyChunkTrailers
	stateBodySized
	stateBodyRaw
)

// Directive is the value a Handler's OnHeadersComplete returns to steer
// body framing, numbered to match the external contract in spec section 4.5.
type Directive int

const (
	// DirectiveNormal parses the body according to the resolved framing.
	DirectiveNormal Directive = 0
	// DirectiveSkipBody skips the body and starts the next message; if the
	// message signalled an upgrade, it also tells execute to stop.
	DirectiveSkipBody Directive = 1
	// DirectiveNoBody unconditionally skips the body (HEAD-like semantics)
	// without consulting the upgrade flag.
	DirectiveNoBody Directive = 2
)

// Callback identifiers, preserved for ABI parity with hosts that dispatch
// on numeric callback IDs rather than a Go interface.
const (
	CallbackOnHeaders = iota
	CallbackOnHeadersComplete
	CallbackOnBody
	CallbackOnMessageComplete
	CallbackOnExecute
)

// Info is the in-progress message descriptor, reset at every message
// boundary.
type Info struct {
	// MethodIndex is only meaningful in Request mode; it indexes into
	// internal/methods.Table.
	MethodIndex int
	// URL holds the raw request-target bytes as received, only meaningful
	// in Request mode.
	URL string

	// StatusCode and StatusReason are only meaningful in Response mode.
	StatusCode   int
	StatusReason string

	VersionMajor int
	VersionMinor int

	Headers  headers.Pairs
	Trailers headers.Pairs

	Upgrade          bool
	ConnectionTokens string
	ShouldKeepAlive  bool
}

func (i *Info) reset() {
	*i = Info{}
}
