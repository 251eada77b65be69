// Package headers implements the wire-order-preserving header/trailer
// accumulator shared by the parser and the response writer, plus the
// per-line parsing rules (new field vs obs-fold continuation) used while
// draining a header block.
package headers

import (
	"bytes"
	"errors"
	"strings"

	"golang.org/x/net/http/httpguts"
)

// Pairs is an ordered, flat name/value sequence: Pairs[2*i] is a header
// name, Pairs[2*i+1] its value. Unlike a map, it preserves wire order and
// keeps repeated header lines as distinct entries, both of which the
// parser's invariants require.
type Pairs []string

// ErrStrayCR is returned by ParseLine when the decoded line carries a
// literal CR byte other than the terminator already stripped by the
// caller's line reader.
var ErrStrayCR = errors.New("headers: stray CR in header line")

// Len reports the number of name/value entries.
func (p Pairs) Len() int { return len(p) / 2 }

// At returns the name and value stored at position i.
func (p Pairs) At(i int) (name, value string) {
	return p[2*i], p[2*i+1]
}

// Append adds a new name/value pair, regardless of whether name already
// appears earlier in p.
func (p *Pairs) Append(name, value string) {
	*p = append(*p, name, value)
}

// Get returns the value of the first entry matching name, case-insensitively.
func (p Pairs) Get(name string) (string, bool) {
	for i := 0; i < len(p); i += 2 {
		if strings.EqualFold(p[i], name) {
			return p[i+1], true
		}
	}
	return "", false
}

// Values returns every value stored under name, in wire order.
func (p Pairs) Values(name string) []string {
	var out []string
	for i := 0; i < len(p); i += 2 {
		if strings.EqualFold(p[i], name) {
			out = append(out, p[i+1])
		}
	}
	return out
}

// appendContinuation folds trimmed onto the value of the most recently
// appended pair, per RFC 9112's now-obsolete line-folding rule: a single
// space separates the two halves when the existing value is non-empty.
// Reports whether there was a prior pair to fold onto.
func (p *Pairs) appendContinuation(trimmed string) bool {
	if len(*p) < 2 {
		return false
	}
	idx := len(*p) - 1
	switch {
	case (*p)[idx] == "":
		(*p)[idx] = trimmed
	case trimmed != "":
		(*p)[idx] = (*p)[idx] + " " + trimmed
	}
	return true
}

// ParseLine consumes one decoded header or trailer line (CRLF already
// stripped by the caller) and folds it into p.
//
// A line beginning with space or tab is a continuation of the previous
// value. A line shaped "name:value" appends a new pair; name must be a
// valid header token per httpguts, and the value is trimmed of leading
// and trailing optional whitespace. Any other shape — no colon, or a
// colon preceded by an invalid token — is malformed-but-tolerated and is
// silently dropped, matching established parser practice. The only hard
// failure is a stray CR inside the line.
func ParseLine(p *Pairs, line []byte) error {
	if bytes.IndexByte(line, '\r') >= 0 {
		return ErrStrayCR
	}

	if len(line) > 0 && (line[0] == ' ' || line[0] == '\t') {
		p.appendContinuation(strings.Trim(string(line), " \t"))
		return nil
	}

	colon := bytes.IndexByte(line, ':')
	if colon <= 0 {
		return nil
	}

	name := line[:colon]
	if bytes.ContainsAny(name, " \t") || !httpguts.ValidHeaderFieldName(string(name)) {
		return nil
	}

	value := strings.Trim(string(line[colon+1:]), " \t")
	p.Append(string(name), value)
	return nil
}

// ContainsToken reports whether any value stored under name contains
// token as a comma-separated list element, per RFC 9110 token-list
// semantics (case-insensitive, OWS-tolerant).
func (p Pairs) ContainsToken(name, token string) bool {
	for _, v := range p.Values(name) {
		if httpguts.HeaderValueContainsToken(v, token) {
			return true
		}
	}
	return false
}
