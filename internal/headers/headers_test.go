package headers

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLineNewField(t *testing.T) {
	var p Pairs
	require.NoError(t, ParseLine(&p, []byte("Host: localhost:42069")))
	v, ok := p.Get("host")
	require.True(t, ok)
	assert.Equal(t, "localhost:42069", v)
	assert.Equal(t, 1, p.Len())
}

func TestParseLineTrimsOWS(t *testing.T) {
	var p Pairs
	require.NoError(t, ParseLine(&p, []byte("X-Person:   some1   ")))
	v, _ := p.Get("x-person")
	assert.Equal(t, "some1", v)
}

func TestParseLineRepeatedHeaderKeptDistinct(t *testing.T) {
	var p Pairs
	require.NoError(t, ParseLine(&p, []byte("X-Person: some1")))
	require.NoError(t, ParseLine(&p, []byte("X-Person: some2")))
	require.NoError(t, ParseLine(&p, []byte("X-Person: some3")))
	assert.Equal(t, []string{"some1", "some2", "some3"}, p.Values("X-Person"))
	assert.Equal(t, 3, p.Len())
}

func TestParseLineContinuation(t *testing.T) {
	var p Pairs
	require.NoError(t, ParseLine(&p, []byte("Vary: accept")))
	require.NoError(t, ParseLine(&p, []byte("  encoding")))
	v, _ := p.Get("vary")
	assert.Equal(t, "accept encoding", v)
	assert.Equal(t, 1, p.Len(), "continuation folds onto the prior pair, it doesn't add one")
}

func TestParseLineContinuationWithNoPriorHeaderIsIgnored(t *testing.T) {
	var p Pairs
	require.NoError(t, ParseLine(&p, []byte("  orphaned")))
	assert.Equal(t, 0, p.Len())
}

func TestParseLineSpaceBeforeColonIsIgnored(t *testing.T) {
	var p Pairs
	require.NoError(t, ParseLine(&p, []byte("Host : localhost:42069")))
	assert.Equal(t, 0, p.Len(), "a name containing whitespace is an unrecognised shape, not an error")
}

func TestParseLineNoColonIsIgnored(t *testing.T) {
	var p Pairs
	require.NoError(t, ParseLine(&p, []byte("not-a-header-line")))
	assert.Equal(t, 0, p.Len())
}

func TestParseLineStrayCR(t *testing.T) {
	var p Pairs
	err := ParseLine(&p, []byte("Host: local\rhost"))
	require.ErrorIs(t, err, ErrStrayCR)
}

func TestContainsToken(t *testing.T) {
	var p Pairs
	require.NoError(t, ParseLine(&p, []byte("Connection: keep-alive, Upgrade")))
	assert.True(t, p.ContainsToken("Connection", "upgrade"))
	assert.True(t, p.ContainsToken("connection", "keep-alive"))
	assert.False(t, p.ContainsToken("Connection", "close"))
}

func TestParseLineValidatesTokenChars(t *testing.T) {
	var p Pairs
	require.NoError(t, ParseLine(&p, []byte("Bad Name: value")))
	assert.Equal(t, 0, p.Len())
}

func TestAppendKeepsWireOrder(t *testing.T) {
	var p Pairs
	p.Append("Host", "x")
	p.Append("Accept", "*/*")
	n0, v0 := p.At(0)
	n1, v1 := p.At(1)
	assert.Equal(t, "Host", n0)
	assert.Equal(t, "x", v0)
	assert.Equal(t, "Accept", n1)
	assert.Equal(t, "*/*", v1)
}

func TestParseLineFoldsArbitrarilyLongContinuation(t *testing.T) {
	// ParseLine itself has no length cap; the cap lives in the parser's
	// header_bytes bookkeeping, not here.
	var p Pairs
	require.NoError(t, ParseLine(&p, []byte("X: a")))
	big := bytes.Repeat([]byte("b"), 1024)
	require.NoError(t, ParseLine(&p, append([]byte(" "), big...)))
	v, _ := p.Get("x")
	assert.Equal(t, 1024+2, len(v))
}
