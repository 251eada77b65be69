// Package server runs the TCP accept loop and, per connection, feeds
// bytes through internal/httparser and drives a user Handler once per
// parsed message — adapted from the teacher's request.RequestFromReader
// based accept loop to the incremental Parser, with structured logging
// and Prometheus counters layered on top.
package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"

	"httpflow/internal/headers"
	"httpflow/internal/httparser"
	"httpflow/internal/methods"
	"httpflow/internal/metrics"
	"httpflow/internal/response"
)

// Request is the snapshot of one parsed message handed to a Handler. It
// is a plain value, not a pointer into the Parser's own Info, so it
// stays valid after the Parser moves on to the next pipelined message.
type Request struct {
	Method       string
	Target       string
	VersionMajor int
	VersionMinor int
	Headers      headers.Pairs
	Trailers     headers.Pairs
	Body         []byte
}

type HandlerError struct {
	StatusCode response.StatusCode
	Message    string
}

type Handler func(w *response.Writer, req *Request) *HandlerError

type Server struct {
	Port          int
	MaxHeaderSize int
	listener      net.Listener
	closed        atomic.Bool
	handler       Handler
	log           *slog.Logger
}

// Serve starts listening on port and accepting connections in the
// background. Callers must call Close to stop it. maxHeaderSize, if
// positive, overrides httparser.DefaultMaxHeaderSize for every
// connection's Parser.
func Serve(port int, maxHeaderSize int, handler Handler, log *slog.Logger) (*Server, error) {
	if log == nil {
		log = slog.Default()
	}
	l, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, pkgerrors.Wrap(err, "server: listen")
	}
	s := &Server{Port: port, MaxHeaderSize: maxHeaderSize, listener: l, handler: handler, log: log}
	go s.listen()
	return s, nil
}

func (s *Server) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.listener.Close()
}

func (s *Server) listen() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.closed.Load() || errors.Is(err, net.ErrClosed) {
				return
			}
			continue
		}
		go s.handle(conn)
	}
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()

	connID := uuid.New().String()
	remoteHost, _, _ := net.SplitHostPort(conn.RemoteAddr().String())
	log := s.log.With("conn_id", connID, "remote", remoteHost)

	metrics.ConnectionsActive.Inc()
	defer metrics.ConnectionsActive.Dec()

	h := &connHandler{
		conn:    conn,
		handler: s.handler,
		log:     log,
	}
	p := httparser.New(httparser.Request, h)
	if s.MaxHeaderSize > 0 {
		p.SetMaxHeaderSize(s.MaxHeaderSize)
	}

	buf := make([]byte, 4096)
	for {
		n, readErr := conn.Read(buf)
		if n > 0 {
			consumed, perr := p.Execute(buf[:n])
			metrics.BytesConsumed.Add(float64(consumed))
			if perr != nil {
				var pe *httparser.ParseError
				if errors.As(perr, &pe) {
					metrics.ParseErrors.WithLabelValues(string(pe.Code())).Inc()
					log.Warn("parse error", "code", pe.Code(), "err", pe.Error())
				}
				_, _ = conn.Write([]byte("HTTP/1.1 400 Bad Request\r\nConnection: close\r\nContent-Length: 0\r\n\r\n"))
				return
			}
			if consumed < n {
				// The handler stopped the parser mid-buffer, which only
				// happens on a CONNECT/Upgrade transition. Tunneling the
				// remaining bytes is out of scope for this demo server.
				log.Info("upgrade requested, closing connection")
				return
			}
		}
		if readErr != nil {
			if err := p.Finish(); err != nil {
				log.Warn("stream ended mid-message", "err", err)
			}
			return
		}
	}
}

// connHandler adapts one connection's byte stream to httparser.Handler,
// accumulating one message at a time and invoking the user Handler when
// OnMessageComplete fires.
type connHandler struct {
	conn    net.Conn
	handler Handler
	log     *slog.Logger

	method   string
	target   string
	major    int
	minor    int
	reqHdrs  headers.Pairs
	trailers headers.Pairs
	body     []byte
	start    time.Time
}

func (h *connHandler) OnHeaders(trailers headers.Pairs, _ string) error {
	h.trailers = trailers
	return nil
}

func (h *connHandler) OnHeadersComplete(info *httparser.Info) (httparser.Directive, error) {
	h.start = time.Now()
	h.method = methods.Name(info.MethodIndex)
	h.target = info.URL
	h.major = info.VersionMajor
	h.minor = info.VersionMinor
	h.reqHdrs = info.Headers
	h.trailers = nil
	h.body = h.body[:0]
	return httparser.DirectiveNormal, nil
}

func (h *connHandler) OnBody(buf []byte, start, length int) error {
	h.body = append(h.body, buf[start:start+length]...)
	return nil
}

func (h *connHandler) OnMessageComplete() error {
	req := &Request{
		Method:       h.method,
		Target:       h.target,
		VersionMajor: h.major,
		VersionMinor: h.minor,
		Headers:      h.reqHdrs,
		Trailers:     h.trailers,
		Body:         h.body,
	}

	writer := response.NewWriter(h.conn)
	var herr *HandlerError
	if h.handler != nil {
		herr = h.handler(writer, req)
	}

	status := writer.Status
	body := writer.Body
	if herr != nil {
		status = herr.StatusCode
		body = []byte(herr.Message)
	} else if status == 0 {
		status = response.OK
	}

	if err := writer.WriteStatusLine(status); err != nil {
		return err
	}
	if err := writer.WriteHeaders(response.DefaultHeaders(len(body))); err != nil {
		return err
	}
	if _, err := writer.WriteBody(body); err != nil {
		return err
	}

	metrics.MessagesParsed.Inc()
	h.log.Info("request",
		"method", h.method, "target", h.target, "status", int(status),
		"dur", time.Since(h.start).String())
	return nil
}

func (h *connHandler) OnExecute() error { return nil }
