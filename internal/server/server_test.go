package server

import (
	"bufio"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"httpflow/internal/httparser"
	"httpflow/internal/response"
)

func TestConnHandlerRoundTrip(t *testing.T) {
	client, conn := net.Pipe()
	defer client.Close()

	h := &connHandler{
		conn: conn,
		log:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		handler: func(w *response.Writer, req *Request) *HandlerError {
			assert.Equal(t, "GET", req.Method)
			assert.Equal(t, "/", req.Target)
			w.Status = response.OK
			w.SetBody([]byte("hi"))
			return nil
		},
	}
	p := httparser.New(httparser.Request, h)

	go func() {
		_, _ = p.Execute([]byte("GET / HTTP/1.1\r\nHost: x\r\n\r\n"))
	}()

	_ = client.SetReadDeadline(time.Now().Add(2 * time.Second))
	r := bufio.NewReader(client)
	status, err := r.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "HTTP/1.1 200 OK\r\n", status)
}

func TestConnHandlerHandlerErrorOverridesStatus(t *testing.T) {
	client, conn := net.Pipe()
	defer client.Close()

	h := &connHandler{
		conn: conn,
		log:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		handler: func(w *response.Writer, req *Request) *HandlerError {
			return &HandlerError{StatusCode: response.BadRequest, Message: "nope"}
		},
	}
	p := httparser.New(httparser.Request, h)

	go func() {
		_, _ = p.Execute([]byte("GET /bad HTTP/1.1\r\n\r\n"))
	}()

	_ = client.SetReadDeadline(time.Now().Add(2 * time.Second))
	r := bufio.NewReader(client)
	status, err := r.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "HTTP/1.1 400 Bad Request\r\n", status)

	rest, _ := io.ReadAll(r)
	assert.Contains(t, string(rest), "nope")
}
