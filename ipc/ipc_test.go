package ipc

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleObservation = `{
  "map": [[-1, 1], [5, 9]],
  "allied_ships": [[0, 10, 10, 100, 0, 0]],
  "enemy_ships": [],
  "planets_occupation": [[9, 9, 0], [40, 40, -1]],
  "resources": [300]
}`

func TestEnvelopeFraming(t *testing.T) {
	var buf bytes.Buffer
	env, err := NewEnvelope(TypeAck, AckMessage{Status: "ok"})
	require.NoError(t, err)
	require.NoError(t, WriteEnvelope(&buf, env))

	length := binary.LittleEndian.Uint32(buf.Bytes()[:4])
	assert.Equal(t, uint32(buf.Len()-4), length)

	got, err := ReadEnvelope(&buf)
	require.NoError(t, err)
	assert.Equal(t, TypeAck, got.Type)
	assert.JSONEq(t, `{"status":"ok"}`, string(got.Data))
}

func TestReadEnvelopeRejectsBadLength(t *testing.T) {
	for _, n := range []uint32{0, MaxFrame + 1} {
		var buf bytes.Buffer
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, n))
		_, err := ReadEnvelope(&buf)
		assert.ErrorIs(t, err, ErrInvalidLength)
	}
}

func TestReadEnvelopeTruncated(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint32(10)))
	buf.WriteString("{}")
	_, err := ReadEnvelope(&buf)
	assert.Error(t, err)
}

func TestValidateObservation(t *testing.T) {
	require.NoError(t, ValidateObservation(json.RawMessage(sampleObservation)))
	require.NoError(t, ValidateObservation(json.RawMessage(
		strings.Replace(sampleObservation, `[300]`, `125.5`, 1))))

	bad := []string{
		`{"map": []}`,
		strings.Replace(sampleObservation, `[0, 10, 10, 100, 0, 0]`, `[0, 10, 10]`, 1),
		strings.Replace(sampleObservation, `[300]`, `"lots"`, 1),
		`not json`,
	}
	for _, doc := range bad {
		assert.Error(t, ValidateObservation(json.RawMessage(doc)), doc)
	}
}

func TestConnectionDispatch(t *testing.T) {
	server, client := net.Pipe()
	c := NewConnection(NewFrameTransport(server), nil)
	c.RegisterHandler(TypeHello, func(env Envelope) (*Envelope, error) {
		var hello HelloMessage
		if err := json.Unmarshal(env.Data, &hello); err != nil {
			return nil, err
		}
		reply, err := NewEnvelope(TypeAck, AckMessage{Status: "hi " + hello.Player})
		return &reply, err
	})
	done := make(chan struct{})
	go func() {
		c.ReadLoop()
		close(done)
	}()

	peer := NewFrameTransport(client)
	// Unknown types are skipped without a reply.
	unknown, _ := NewEnvelope("mystery", nil)
	require.NoError(t, peer.Write(unknown))
	hello, _ := NewEnvelope(TypeHello, HelloMessage{Player: "octo"})
	require.NoError(t, peer.Write(hello))

	resp, err := peer.Read()
	require.NoError(t, err)
	assert.Equal(t, TypeAck, resp.Type)
	assert.JSONEq(t, `{"status":"hi octo"}`, string(resp.Data))

	require.NoError(t, peer.Close())
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("ReadLoop did not exit after peer closed")
	}
}

func TestWSTransportRoundTrip(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		tr := NewWSTransport(conn)
		defer tr.Close()
		env, err := tr.Read()
		if err != nil {
			return
		}
		reply, _ := NewEnvelope(TypeAck, AckMessage{Status: env.Type})
		_ = tr.Write(reply)
	}))
	defer srv.Close()

	tr, err := DialWS("ws" + strings.TrimPrefix(srv.URL, "http"))
	require.NoError(t, err)
	defer tr.Close()

	env, _ := NewEnvelope(TypeObservation, json.RawMessage(sampleObservation))
	require.NoError(t, tr.Write(env))

	got, err := tr.Read()
	require.NoError(t, err)
	assert.Equal(t, TypeAck, got.Type)
	assert.JSONEq(t, `{"status":"observation"}`, string(got.Data))
}
