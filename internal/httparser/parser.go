// Package httparser is an incremental HTTP/1.x message parser: a
// non-suspending state machine that consumes arbitrary byte chunks from a
// caller-owned buffer and emits callbacks as it recognises the
// successive parts of one or more pipelined HTTP requests or responses.
//
// The parser never performs I/O. The host calls Execute repeatedly as
// bytes arrive and Finish once at end-of-stream; Execute drains as much
// of the current chunk as it can and returns, ready to resume from the
// same state on the next call.
package httparser

import (
	"errors"

	"httpflow/internal/headers"
)

// DefaultMaxHeaderSize bounds cumulative header-state bytes across all
// execute calls for one message, guarding against unbounded memory use
// from a header block that never ends.
const DefaultMaxHeaderSize = 80 * 1024

type stepOutcome uint8

const (
	outcomeContinue stepOutcome = iota
	outcomeNeedMore
	outcomeStop
)

// Parser is the core state machine described in the package doc. It is
// not safe for concurrent use; a single instance is owned by one
// goroutine at a time, same as the connection it decodes.
type Parser struct {
	mode    Mode
	handler Handler

	state state

	// chunk/offset/length are the current input window. chunk is
	// borrowed: valid only for the duration of one Execute call.
	chunk  []byte
	offset int
	length int

	lineCarry []byte

	headerBytes   int
	maxHeaderSize int

	info Info

	isChunked     bool
	bodyRemaining *int

	hadError bool
	err      error
}

// New constructs a Parser in the given mode with the default header cap.
func New(mode Mode, h Handler) *Parser {
	p := &Parser{handler: h, maxHeaderSize: DefaultMaxHeaderSize}
	p.Initialize(mode)
	return p
}

// Initialize (re-)configures the parser for mode, clearing all
// per-message and per-connection state. Hosts reuse one Parser across
// connections by calling Initialize again rather than allocating a new one.
func (p *Parser) Initialize(mode Mode) {
	p.mode = mode
	p.info.reset()
	p.isChunked = false
	p.bodyRemaining = nil
	p.headerBytes = 0
	p.lineCarry = nil
	p.hadError = false
	p.err = nil
	p.chunk = nil
	p.offset = 0
	p.length = 0
	if mode == Request {
		p.state = stateRequestLine
	} else {
		p.state = stateResponseLine
	}
}

// SetMaxHeaderSize overrides DefaultMaxHeaderSize. The new cap applies
// from the next Execute call onward.
func (p *Parser) SetMaxHeaderSize(n int) { p.maxHeaderSize = n }

// Execute feeds chunk to the state machine and returns the number of
// bytes consumed. A parser with had_error == true is a fixed point: it
// returns immediately without touching chunk.
//
// chunk is borrowed for the duration of this call only; on_body
// callbacks deliver views into it and must not retain the slice.
func (p *Parser) Execute(chunk []byte) (int, error) {
	if p.hadError {
		return 0, p.err
	}

	p.chunk = chunk
	p.offset = 0
	p.length = len(chunk)

	for p.offset < p.length {
		outcome, err := p.step()
		if err != nil {
			p.hadError = true
			p.err = err
			return 0, err
		}
		if outcome == outcomeNeedMore || outcome == outcomeStop {
			break
		}
	}

	if isHeaderState(p.state) {
		p.headerBytes += p.offset
		if p.headerBytes > p.maxHeaderSize {
			p.hadError = true
			p.err = ErrHeaderOverflow
			return 0, ErrHeaderOverflow
		}
	}

	consumed := p.offset
	p.chunk = nil
	return consumed, nil
}

// Finish signals end-of-stream. It is only valid while the parser is
// between messages (RequestLine/ResponseLine) or draining a close-
// delimited body (BodyRaw); any other state means the stream closed
// mid-message.
func (p *Parser) Finish() error {
	if p.hadError {
		return nil
	}
	switch p.state {
	case stateRequestLine, stateResponseLine:
		return nil
	case stateBodyRaw:
		return p.handler.OnMessageComplete()
	default:
		p.hadError = true
		p.err = ErrInvalidEOFState
		return ErrInvalidEOFState
	}
}

func isHeaderState(s state) bool {
	return s == stateRequestLine || s == stateResponseLine || s == stateHeader
}

func (p *Parser) step() (stepOutcome, error) {
	switch p.state {
	case stateRequestLine:
		return p.handleRequestLine()
	case stateResponseLine:
		return p.handleResponseLine()
	case stateHeader:
		return p.handleHeader()
	case stateBodyChunkHead:
		return p.handleBodyChunkHead()
	case stateBodyChunk:
		return p.handleBodyChunk()
	case stateBodyChunkEnd:
		return p.handleBodyChunkEnd()
	case stateBodyChunkTrailers:
		return p.handleBodyChunkTrailers()
	case stateBodySized:
		return p.handleBodySized()
	case stateBodyRaw:
		return p.handleBodyRaw()
	default:
		panic("httparser: unreachable state")
	}
}

func (p *Parser) handleRequestLine() (stepOutcome, error) {
	line, ok := p.consumeLine()
	if !ok {
		return outcomeNeedMore, nil
	}
	if len(line) == 0 {
		// Tolerate leading blank lines before a request.
		return outcomeContinue, nil
	}

	idx, target, major, minor, err := parseRequestLine(line)
	if err != nil {
		return outcomeContinue, err
	}

	p.info.MethodIndex = idx
	p.info.URL = target
	p.info.VersionMajor = major
	p.info.VersionMinor = minor
	zero := 0
	p.bodyRemaining = &zero
	p.state = stateHeader
	return outcomeContinue, nil
}

func (p *Parser) handleResponseLine() (stepOutcome, error) {
	line, ok := p.consumeLine()
	if !ok {
		return outcomeNeedMore, nil
	}

	major, minor, status, reason, err := parseResponseLine(line)
	if err != nil {
		return outcomeContinue, err
	}

	p.info.VersionMajor = major
	p.info.VersionMinor = minor
	p.info.StatusCode = status
	p.info.StatusReason = reason
	if isImpliedEmptyStatus(status) {
		zero := 0
		p.bodyRemaining = &zero
	}
	p.state = stateHeader
	return outcomeContinue, nil
}

func (p *Parser) handleHeader() (stepOutcome, error) {
	line, ok := p.consumeLine()
	if !ok {
		return outcomeNeedMore, nil
	}

	if len(line) == 0 {
		if err := p.resolveFraming(); err != nil {
			return outcomeContinue, err
		}
		directive, err := p.handler.OnHeadersComplete(&p.info)
		if err != nil {
			return outcomeContinue, err
		}
		return p.transitionAfterHeaders(directive)
	}

	if err := headers.ParseLine(&p.info.Headers, line); err != nil {
		return outcomeContinue, mapHeaderErr(err)
	}
	return outcomeContinue, nil
}

// transitionAfterHeaders applies the directive/framing decision table
// from spec section 4.5, in the exact order specified there.
func (p *Parser) transitionAfterHeaders(directive Directive) (stepOutcome, error) {
	switch {
	case directive == DirectiveNoBody:
		if err := p.nextMessage(); err != nil {
			return outcomeContinue, err
		}
		return outcomeContinue, nil

	case p.isChunked && directive == DirectiveNormal:
		p.state = stateBodyChunkHead
		return outcomeContinue, nil

	case directive == DirectiveSkipBody || (p.bodyRemaining != nil && *p.bodyRemaining == 0):
		stop := p.info.Upgrade
		if err := p.nextMessage(); err != nil {
			return outcomeContinue, err
		}
		if stop {
			return outcomeStop, nil
		}
		return outcomeContinue, nil

	case p.bodyRemaining == nil:
		p.state = stateBodyRaw
		return outcomeContinue, nil

	default:
		p.state = stateBodySized
		return outcomeContinue, nil
	}
}

func (p *Parser) handleBodyChunkHead() (stepOutcome, error) {
	line, ok := p.consumeLine()
	if !ok {
		return outcomeNeedMore, nil
	}

	size, err := parseChunkSize(line)
	if err != nil {
		return outcomeContinue, err
	}
	if size == 0 {
		p.state = stateBodyChunkTrailers
		return outcomeContinue, nil
	}

	p.bodyRemaining = &size
	p.state = stateBodyChunk
	return outcomeContinue, nil
}

func (p *Parser) handleBodyChunk() (stepOutcome, error) {
	n := p.length - p.offset
	if n > *p.bodyRemaining {
		n = *p.bodyRemaining
	}
	if err := p.handler.OnBody(p.chunk, p.offset, n); err != nil {
		return outcomeContinue, err
	}
	p.offset += n
	*p.bodyRemaining -= n
	if *p.bodyRemaining == 0 {
		p.state = stateBodyChunkEnd
	}
	return outcomeContinue, nil
}

func (p *Parser) handleBodyChunkEnd() (stepOutcome, error) {
	line, ok := p.consumeLine()
	if !ok {
		return outcomeNeedMore, nil
	}
	if len(line) != 0 {
		return outcomeContinue, ErrStrict
	}
	p.state = stateBodyChunkHead
	return outcomeContinue, nil
}

func (p *Parser) handleBodyChunkTrailers() (stepOutcome, error) {
	line, ok := p.consumeLine()
	if !ok {
		return outcomeNeedMore, nil
	}

	if len(line) == 0 {
		if p.info.Trailers.Len() > 0 {
			if err := p.handler.OnHeaders(p.info.Trailers, ""); err != nil {
				return outcomeContinue, err
			}
		}
		if err := p.nextMessage(); err != nil {
			return outcomeContinue, err
		}
		return outcomeContinue, nil
	}

	if err := headers.ParseLine(&p.info.Trailers, line); err != nil {
		return outcomeContinue, mapHeaderErr(err)
	}
	return outcomeContinue, nil
}

func (p *Parser) handleBodySized() (stepOutcome, error) {
	n := p.length - p.offset
	if n > *p.bodyRemaining {
		n = *p.bodyRemaining
	}
	if err := p.handler.OnBody(p.chunk, p.offset, n); err != nil {
		return outcomeContinue, err
	}
	p.offset += n
	*p.bodyRemaining -= n
	if *p.bodyRemaining == 0 {
		if err := p.nextMessage(); err != nil {
			return outcomeContinue, err
		}
	}
	return outcomeContinue, nil
}

func (p *Parser) handleBodyRaw() (stepOutcome, error) {
	n := p.length - p.offset
	if err := p.handler.OnBody(p.chunk, p.offset, n); err != nil {
		return outcomeContinue, err
	}
	p.offset = p.length
	return outcomeContinue, nil
}

// nextMessage emits on_message_complete and resets every per-message
// field before the next byte is parsed, per spec section 4.6.
func (p *Parser) nextMessage() error {
	if err := p.handler.OnMessageComplete(); err != nil {
		return err
	}
	mode := p.mode
	p.info.reset()
	p.isChunked = false
	p.headerBytes = 0
	p.bodyRemaining = nil
	if mode == Request {
		p.state = stateRequestLine
	} else {
		p.state = stateResponseLine
	}
	return nil
}

func mapHeaderErr(err error) error {
	if errors.Is(err, headers.ErrStrayCR) {
		return ErrLFExpected
	}
	return err
}

// Pause, Resume, Close, Free, Consume, Unconsume, and GetCurrentBuffer
// exist only so hosts written against a C-style parser ABI can embed
// this type without special-casing it; this implementation never
// suspends mid-execute, so there is nothing for them to do.
func (p *Parser) Pause()          {}
func (p *Parser) Resume()         {}
func (p *Parser) Close() error    { return nil }
func (p *Parser) Free()           {}
func (p *Parser) Consume(int)     {}
func (p *Parser) Unconsume()      {}
func (p *Parser) GetCurrentBuffer() []byte {
	return p.chunk
}
