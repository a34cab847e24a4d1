package edge

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Synthesizer speaks the Edge read-aloud websocket contract: one connection
// per synthesis turn, a speech.config frame, an SSML frame, then audio
// frames until turn.end.
type Synthesizer struct {
	endpoint string
	dialer   *websocket.Dialer
}

// NewSynthesizer creates a synthesizer against the public endpoint. Pass a
// non-empty endpoint to point it at a stub (tests).
func NewSynthesizer(endpoint string) *Synthesizer {
	if endpoint == "" {
		endpoint = synthesisEndpoint
	}
	return &Synthesizer{
		endpoint: endpoint,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 15 * time.Second,
		},
	}
}

// The service checks the Origin header against the Edge read-aloud
// extension id.
const originHeader = "chrome-extension://jdiccldimpdaibmpdkjnbmckianbfold"

// Synthesize opens a synthesis turn and streams MP3 chunks as the service
// produces them. A dial or handshake failure is returned synchronously;
// mid-stream failures arrive on the error channel. Both channels are closed
// when the turn ends. Cancelling ctx tears the connection down.
func (s *Synthesizer) Synthesize(ctx context.Context, text, voice string, p Prosody) (<-chan AudioChunk, <-chan error, error) {
	connID := strings.ReplaceAll(uuid.New().String(), "-", "")

	header := http.Header{}
	header.Set("Origin", originHeader)
	header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 Edg/120.0.0.0")

	sep := "&"
	if !strings.Contains(s.endpoint, "?") {
		sep = "?"
	}
	conn, resp, err := s.dialer.DialContext(ctx, s.endpoint+sep+"ConnectionId="+connID, header)
	if err != nil {
		if resp != nil {
			return nil, nil, fmt.Errorf("dial synthesis endpoint (status %d): %w", resp.StatusCode, err)
		}
		return nil, nil, fmt.Errorf("dial synthesis endpoint: %w", err)
	}

	if err := conn.WriteMessage(websocket.TextMessage, speechConfigFrame()); err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("send speech.config: %w", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, ssmlFrame(connID, buildSSML(text, voice, p))); err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("send ssml: %w", err)
	}

	chunks := make(chan AudioChunk, 8)
	errs := make(chan error, 1)

	// Closing the connection is the only way to interrupt a blocked read.
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	go func() {
		defer func() {
			close(done)
			conn.Close()
			close(chunks)
			close(errs)
		}()

		for {
			msgType, data, err := conn.ReadMessage()
			if err != nil {
				if ctx.Err() != nil {
					errs <- ctx.Err()
				} else {
					errs <- fmt.Errorf("read synthesis frame: %w", err)
				}
				return
			}

			switch msgType {
			case websocket.TextMessage:
				if strings.Contains(string(data), "Path:"+pathTurnEnd) {
					return
				}
			case websocket.BinaryMessage:
				payload, ok := audioPayload(data)
				if !ok || len(payload) == 0 {
					continue
				}
				select {
				case chunks <- AudioChunk{Data: payload}:
				case <-ctx.Done():
					errs <- ctx.Err()
					return
				}
			}
		}
	}()

	return chunks, errs, nil
}

// audioPayload splits a binary frame into its header block and payload. The
// first two bytes are the big-endian header length; only frames whose
// header carries Path:audio hold audio data.
func audioPayload(data []byte) ([]byte, bool) {
	if len(data) < 2 {
		return nil, false
	}
	headerLen := int(binary.BigEndian.Uint16(data[:2]))
	if len(data) < 2+headerLen {
		return nil, false
	}
	if !bytes.Contains(data[2:2+headerLen], []byte(pathAudio)) {
		return nil, false
	}
	return data[2+headerLen:], true
}

func timestamp() string {
	return time.Now().UTC().Format("Mon Jan 02 2006 15:04:05") + " GMT+0000 (Coordinated Universal Time)"
}

func speechConfigFrame() []byte {
	return []byte("X-Timestamp:" + timestamp() + "\r\n" +
		"Content-Type:application/json; charset=utf-8\r\n" +
		"Path:speech.config\r\n\r\n" +
		`{"context":{"synthesis":{"audio":{"metadataoptions":{"sentenceBoundaryEnabled":"false","wordBoundaryEnabled":"false"},"outputFormat":"` + outputFormat + `"}}}}` + "\r\n")
}

func ssmlFrame(requestID, ssml string) []byte {
	return []byte("X-RequestId:" + requestID + "\r\n" +
		"Content-Type:application/ssml+xml\r\n" +
		"X-Timestamp:" + timestamp() + "\r\n" +
		"Path:ssml\r\n\r\n" + ssml)
}
