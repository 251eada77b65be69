package response

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"httpflow/internal/headers"
)

func TestWriteStatusLine(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewWriter(buf)
	require.NoError(t, w.WriteStatusLine(OK))
	assert.Equal(t, "HTTP/1.1 200 OK\r\n", buf.String())
}

func TestWriteStatusLineUnknownCode(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewWriter(buf)
	require.NoError(t, w.WriteStatusLine(StatusCode(599)))
	assert.Equal(t, "HTTP/1.1 599 Unknown\r\n", buf.String())
}

func TestWriteHeadersWireOrder(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewWriter(buf)
	var h headers.Pairs
	h.Append("Content-Length", "3")
	h.Append("Connection", "close")
	require.NoError(t, w.WriteHeaders(h))
	assert.Equal(t, "Content-Length: 3\r\nConnection: close\r\n\r\n", buf.String())
}

func TestWriteHeadersNoHeadersStillEndsBlock(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewWriter(buf)
	require.NoError(t, w.WriteHeaders(nil))
	assert.Equal(t, "\r\n", buf.String())
}

func TestWriteHeadersOverlaysWriterOverrides(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewWriter(buf)
	w.Headers.Append("Content-Type", "text/html")
	require.NoError(t, w.WriteHeaders(DefaultHeaders(5)))
	assert.Contains(t, buf.String(), "Content-Type: text/html\r\n")
}

func TestWriteHeadersChunkedDropsContentLength(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewWriter(buf)
	var h headers.Pairs
	h.Append("Content-Length", "10")
	h.Append("Transfer-Encoding", "chunked")
	require.NoError(t, w.WriteHeaders(h))
	assert.NotContains(t, buf.String(), "Content-Length")
	assert.Contains(t, buf.String(), "Transfer-Encoding: chunked\r\n")
}

func TestWriteChunkedBodySplitsAt1024(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewWriter(buf)
	body := bytes.Repeat([]byte("a"), 1500)
	n, err := w.WriteChunkedBody(body)
	require.NoError(t, err)
	assert.Equal(t, 1500, n)
	assert.Contains(t, buf.String(), "400\r\n") // 1024 in hex
	assert.Contains(t, buf.String(), "1dc\r\n") // remaining 476 in hex
}

func TestWriteChunkedBodyDone(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewWriter(buf)
	_, err := w.WriteChunkedBodyDone()
	require.NoError(t, err)
	assert.Equal(t, "0\r\n\r\n", buf.String())
}

func TestWriteChunkedTrailers(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewWriter(buf)
	var trailers headers.Pairs
	trailers.Append("X-Checksum", "abc123")
	require.NoError(t, w.WriteChunkedTrailers(trailers))
	assert.Equal(t, "0\r\nX-Checksum: abc123\r\n\r\n", buf.String())
}
