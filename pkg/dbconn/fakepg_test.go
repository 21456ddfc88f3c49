package dbconn

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"net"
	"sync"
	"testing"
)

const (
	sslRequestCode  = 80877103
	protocolVersion = 196608
)

// fakePostgres speaks just enough of the PostgreSQL wire protocol to refuse
// SSL, record startup messages and reject the login.
type fakePostgres struct {
	ln net.Listener

	mu          sync.Mutex
	sslRequests int
	startups    []map[string]string
}

func newFakePostgres(t *testing.T) *fakePostgres {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	f := &fakePostgres{ln: ln}
	t.Cleanup(func() { ln.Close() })
	go f.accept()
	return f
}

func (f *fakePostgres) addr() string {
	return f.ln.Addr().String()
}

func (f *fakePostgres) accept() {
	for {
		conn, err := f.ln.Accept()
		if err != nil {
			return
		}
		go f.handle(conn)
	}
}

func (f *fakePostgres) handle(conn net.Conn) {
	defer conn.Close()
	r := bufio.NewReader(conn)
	for {
		var size int32
		if err := binary.Read(r, binary.BigEndian, &size); err != nil || size < 8 {
			return
		}
		msg := make([]byte, size-4)
		if _, err := io.ReadFull(r, msg); err != nil {
			return
		}
		code := binary.BigEndian.Uint32(msg[:4])
		switch code {
		case sslRequestCode:
			f.mu.Lock()
			f.sslRequests++
			f.mu.Unlock()
			conn.Write([]byte{'N'})
		case protocolVersion:
			f.mu.Lock()
			f.startups = append(f.startups, startupParams(msg[4:]))
			f.mu.Unlock()
			conn.Write(errorResponse("28P01", `password authentication failed for user "u"`))
			return
		default:
			return
		}
	}
}

func (f *fakePostgres) seen() (int, []map[string]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sslRequests, append([]map[string]string(nil), f.startups...)
}

func startupParams(b []byte) map[string]string {
	params := map[string]string{}
	fields := bytes.Split(b, []byte{0})
	for i := 0; i+1 < len(fields); i += 2 {
		if len(fields[i]) == 0 {
			break
		}
		params[string(fields[i])] = string(fields[i+1])
	}
	return params
}

func errorResponse(code, message string) []byte {
	var body bytes.Buffer
	for _, field := range []struct {
		tag byte
		val string
	}{{'S', "FATAL"}, {'V', "FATAL"}, {'C', code}, {'M', message}} {
		body.WriteByte(field.tag)
		body.WriteString(field.val)
		body.WriteByte(0)
	}
	body.WriteByte(0)

	out := []byte{'E', 0, 0, 0, 0}
	binary.BigEndian.PutUint32(out[1:], uint32(body.Len()+4))
	return append(out, body.Bytes()...)
}
