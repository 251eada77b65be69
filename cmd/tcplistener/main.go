// Command tcplistener is a raw debugging tool: it serves each accepted
// connection on its own goroutine and prints every callback
// internal/httparser fires, useful
// for watching framing decisions as bytes arrive.
package main

import (
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"httpflow/internal/headers"
	"httpflow/internal/httparser"
	"httpflow/internal/methods"
)

const addr = ":42069"

func main() {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		fmt.Println("ERROR: failed to open.", err)
		os.Exit(1)
	}
	defer l.Close()

	fmt.Println("Listening for TCP traffic on", addr)
	for {
		conn, err := l.Accept()
		if err != nil {
			fmt.Println("ERROR: failed to accept.", err)
			continue
		}
		go handleConn(conn)
	}
}

func handleConn(conn net.Conn) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(5 * time.Second))

	h := &traceHandler{}
	p := httparser.New(httparser.Request, h)

	buf := make([]byte, 1024)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			if _, perr := p.Execute(buf[:n]); perr != nil {
				fmt.Println("ERROR: failed to parse request:", perr)
				return
			}
		}
		if err != nil {
			if err == io.EOF {
				_ = p.Finish()
			}
			break
		}
	}

	resp := "HTTP/1.1 200 OK\r\n" +
		"Content-Type: text/plain\r\n" +
		"Content-Length: 2\r\n" +
		"Connection: close\r\n" +
		"\r\n" +
		"OK"
	_, _ = io.WriteString(conn, resp)
}

type traceHandler struct{}

func (traceHandler) OnHeaders(h headers.Pairs, url string) error {
	fmt.Println("Trailers:")
	printPairs(h)
	return nil
}

func (traceHandler) OnHeadersComplete(info *httparser.Info) (httparser.Directive, error) {
	fmt.Printf("Request line:\n- Method: %s\n- Target: %s\n- Version: %d.%d\n",
		methods.Name(info.MethodIndex), info.URL, info.VersionMajor, info.VersionMinor)
	fmt.Println("Headers:")
	printPairs(info.Headers)
	if info.Upgrade {
		fmt.Println("Upgrade requested")
	}
	return httparser.DirectiveNormal, nil
}

func (traceHandler) OnBody(buf []byte, start, length int) error {
	fmt.Println("Body chunk:", string(buf[start:start+length]))
	return nil
}

func (traceHandler) OnMessageComplete() error {
	fmt.Println("Message complete")
	return nil
}

func (traceHandler) OnExecute() error { return nil }

func printPairs(p headers.Pairs) {
	if p.Len() == 0 {
		fmt.Println("- (none)")
		return
	}
	for i := 0; i < p.Len(); i++ {
		name, value := p.At(i)
		fmt.Printf("- %s: %s\n", name, value)
	}
}
