package edge

import (
	"bytes"
	"context"
	"encoding/binary"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// audioFrame builds a binary frame the way the service does: a 2-byte
// big-endian header length, the header block, then the payload.
func audioFrame(payload []byte) []byte {
	header := []byte("X-RequestId:test\r\nContent-Type:audio/mpeg\r\nPath:audio\r\n")
	frame := make([]byte, 2+len(header)+len(payload))
	binary.BigEndian.PutUint16(frame[:2], uint16(len(header)))
	copy(frame[2:], header)
	copy(frame[2+len(header):], payload)
	return frame
}

func textFrame(path string) []byte {
	return []byte("X-RequestId:test\r\nContent-Type:application/json\r\nPath:" + path + "\r\n\r\n{}")
}

// stubEngine upgrades the connection, consumes the two request frames, and
// runs the given turn script.
func stubEngine(t *testing.T, turn func(conn *websocket.Conn)) *httptest.Server {
	t.Helper()
	// The client sends the extension Origin header; accept it.
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		// speech.config then ssml
		for i := 0; i < 2; i++ {
			if _, _, err := conn.ReadMessage(); err != nil {
				t.Errorf("read request frame %d: %v", i, err)
				return
			}
		}
		turn(conn)
	}))
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func TestSynthesize_StreamsAudio(t *testing.T) {
	first := []byte("first-mp3-bytes")
	second := []byte("second-mp3-bytes")

	server := stubEngine(t, func(conn *websocket.Conn) {
		conn.WriteMessage(websocket.TextMessage, textFrame("turn.start"))
		conn.WriteMessage(websocket.BinaryMessage, audioFrame(first))
		conn.WriteMessage(websocket.BinaryMessage, audioFrame(second))
		conn.WriteMessage(websocket.TextMessage, textFrame("turn.end"))
	})
	defer server.Close()

	synth := NewSynthesizer(wsURL(server))
	chunks, errs, err := synth.Synthesize(context.Background(), "hello", "en-US-AriaNeural", Prosody{})
	if err != nil {
		t.Fatalf("Synthesize() failed: %v", err)
	}

	var got [][]byte
	for chunk := range chunks {
		got = append(got, chunk.Data)
	}
	if err := <-errs; err != nil {
		t.Fatalf("Stream failed: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("Expected 2 chunks, got %d", len(got))
	}
	if !bytes.Equal(got[0], first) || !bytes.Equal(got[1], second) {
		t.Errorf("Chunk payloads do not match: %q, %q", got[0], got[1])
	}
}

func TestSynthesize_DialFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // closed on purpose

	synth := NewSynthesizer(wsURL(server))
	_, _, err := synth.Synthesize(context.Background(), "hello", "en-US-AriaNeural", Prosody{})
	if err == nil {
		t.Fatal("Expected dial error, got nil")
	}
}

func TestSynthesize_ContextCancel(t *testing.T) {
	release := make(chan struct{})
	server := stubEngine(t, func(conn *websocket.Conn) {
		conn.WriteMessage(websocket.BinaryMessage, audioFrame([]byte("partial")))
		<-release // hold the turn open, never send turn.end
	})
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	synth := NewSynthesizer(wsURL(server))
	chunks, errs, err := synth.Synthesize(ctx, "hello", "en-US-AriaNeural", Prosody{})
	if err != nil {
		t.Fatalf("Synthesize() failed: %v", err)
	}

	select {
	case <-chunks:
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for first chunk")
	}

	cancel()

	select {
	case err := <-errs:
		if err == nil {
			t.Error("Expected error after cancellation, got nil")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for stream error after cancellation")
	}
}

func TestAudioPayload(t *testing.T) {
	payload, ok := audioPayload(audioFrame([]byte("mp3")))
	if !ok {
		t.Fatal("Expected audio frame to be recognized")
	}
	if !bytes.Equal(payload, []byte("mp3")) {
		t.Errorf("Expected payload 'mp3', got %q", payload)
	}

	if _, ok := audioPayload([]byte{0x00}); ok {
		t.Error("Expected short frame to be rejected")
	}

	nonAudio := make([]byte, 2+10)
	binary.BigEndian.PutUint16(nonAudio[:2], 10)
	copy(nonAudio[2:], "Path:other")
	if _, ok := audioPayload(nonAudio); ok {
		t.Error("Expected non-audio frame to be rejected")
	}
}
