package ipc

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Transport moves envelopes to and from the game runner.
type Transport interface {
	Read() (Envelope, error)
	Write(Envelope) error
	Close() error
}

// FrameTransport speaks length-prefixed envelopes over a stream such as a
// unix socket.
type FrameTransport struct {
	rw io.ReadWriteCloser
	mu sync.Mutex // serializes writes
}

func NewFrameTransport(rw io.ReadWriteCloser) *FrameTransport {
	return &FrameTransport{rw: rw}
}

func (t *FrameTransport) Read() (Envelope, error) { return ReadEnvelope(t.rw) }

func (t *FrameTransport) Write(env Envelope) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return WriteEnvelope(t.rw, env)
}

func (t *FrameTransport) Close() error { return t.rw.Close() }

// WSTransport carries one envelope per websocket text message.
type WSTransport struct {
	conn         *websocket.Conn
	mu           sync.Mutex
	WriteTimeout time.Duration
}

func NewWSTransport(conn *websocket.Conn) *WSTransport {
	conn.SetReadLimit(MaxFrame)
	return &WSTransport{conn: conn, WriteTimeout: 5 * time.Second}
}

// DialWS connects to a websocket runner.
func DialWS(url string) (*WSTransport, error) {
	d := websocket.Dialer{HandshakeTimeout: 5 * time.Second}
	conn, resp, err := d.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	return NewWSTransport(conn), nil
}

func (t *WSTransport) Read() (Envelope, error) {
	_, msg, err := t.conn.ReadMessage()
	if err != nil {
		return Envelope{}, fmt.Errorf("read message: %w", err)
	}
	var env Envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		return Envelope{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	return env, nil
}

func (t *WSTransport) Write(env Envelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.WriteTimeout > 0 {
		_ = t.conn.SetWriteDeadline(time.Now().Add(t.WriteTimeout))
	}
	if err := t.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}

func (t *WSTransport) Close() error {
	t.mu.Lock()
	_ = t.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	t.mu.Unlock()
	return t.conn.Close()
}
