package speech

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/edgespeak/tts-gateway/internal/config"
	"github.com/edgespeak/tts-gateway/internal/edge"
	"github.com/edgespeak/tts-gateway/internal/observability"
)

// SynthesisRequest carries one synthesis call. Rate and Volume are signed
// percentages, Pitch is a signed Hz offset; all default to 0 (the voice's
// neutral delivery). An empty Voice selects the configured default.
type SynthesisRequest struct {
	Text   string `json:"text"`
	Voice  string `json:"voice,omitempty"`
	Rate   int    `json:"rate,omitempty"`
	Pitch  int    `json:"pitch,omitempty"`
	Volume int    `json:"volume,omitempty"`
}

// VoiceLister is the catalog side of the Edge service.
type VoiceLister interface {
	ListVoices(ctx context.Context) ([]edge.Voice, error)
}

// Synthesizer is the synthesis side of the Edge service.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice string, p edge.Prosody) (<-chan edge.AudioChunk, <-chan error, error)
}

// Service validates requests and translates them into Edge service calls.
// It is stateless; every request stands alone.
type Service struct {
	catalog VoiceLister
	synth   Synthesizer
	store   *config.Store
}

// NewService wires the translator to its Edge collaborators and the live
// configuration.
func NewService(catalog VoiceLister, synth Synthesizer, store *config.Store) *Service {
	return &Service{catalog: catalog, synth: synth, store: store}
}

// DefaultVoice returns the currently configured default voice.
func (s *Service) DefaultVoice() string {
	return s.store.Current().DefaultVoice
}

// Edge short names look like ja-JP-NanamiNeural, with regional variants
// such as zh-CN-liaoning-XiaobeiNeural.
var voicePattern = regexp.MustCompile(`^[A-Za-z]{2,3}(-[A-Za-z0-9]+)+$`)

// rate and volume are percentages, pitch a Hz offset; the service accepts
// roughly +/-100 on each.
const offsetBound = 100

// Validate checks a request against the documented bounds. It is called
// before any external call is made.
func (s *Service) Validate(req *SynthesisRequest) error {
	cfg := s.store.Current()

	if req.Text == "" {
		observability.RecordRejection("empty_text")
		return fmt.Errorf("%w: text must not be empty", ErrInvalidArgument)
	}
	if n := utf8.RuneCountInString(req.Text); n > cfg.MaxTextLength {
		observability.RecordRejection("text_too_long")
		return fmt.Errorf("%w: text length %d exceeds limit %d", ErrInvalidArgument, n, cfg.MaxTextLength)
	}
	if req.Rate < -offsetBound || req.Rate > offsetBound {
		observability.RecordRejection("rate_out_of_range")
		return fmt.Errorf("%w: rate %d%% outside [-%d, %d]", ErrInvalidArgument, req.Rate, offsetBound, offsetBound)
	}
	if req.Pitch < -offsetBound || req.Pitch > offsetBound {
		observability.RecordRejection("pitch_out_of_range")
		return fmt.Errorf("%w: pitch %dHz outside [-%d, %d]", ErrInvalidArgument, req.Pitch, offsetBound, offsetBound)
	}
	if req.Volume < -offsetBound || req.Volume > offsetBound {
		observability.RecordRejection("volume_out_of_range")
		return fmt.Errorf("%w: volume %d%% outside [-%d, %d]", ErrInvalidArgument, req.Volume, offsetBound, offsetBound)
	}
	if req.Voice == "" {
		req.Voice = cfg.DefaultVoice
	}
	if !voicePattern.MatchString(req.Voice) {
		observability.RecordRejection("bad_voice")
		return fmt.Errorf("%w: malformed voice identifier %q", ErrInvalidArgument, req.Voice)
	}
	return nil
}

// ListVoices fetches the catalog and applies the locale prefix filter. An
// empty result is a success; only an unreachable catalog is an error.
func (s *Service) ListVoices(ctx context.Context, locale string) ([]edge.Voice, error) {
	start := time.Now()
	voices, err := s.catalog.ListVoices(ctx)
	observability.RecordVoiceList(start, err)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	return edge.FilterByLocale(voices, locale), nil
}

// Synthesize validates req, opens a synthesis turn, and returns the chunk
// stream. Chunks must be drained; the error channel yields at most one
// error and both channels close when the turn ends.
func (s *Service) Synthesize(ctx context.Context, req SynthesisRequest) (<-chan edge.AudioChunk, <-chan error, error) {
	if err := s.Validate(&req); err != nil {
		return nil, nil, err
	}

	prosody := edge.Prosody{Rate: req.Rate, Pitch: req.Pitch, Volume: req.Volume}
	chunks, errs, err := s.synth.Synthesize(ctx, req.Text, req.Voice, prosody)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	return chunks, errs, nil
}

// SynthesizeAll runs a full synthesis turn and returns the concatenated
// audio. Used by surfaces that frame the result as a single payload (the
// MCP tool); the HTTP surface streams chunks instead.
func (s *Service) SynthesizeAll(ctx context.Context, req SynthesisRequest) ([]byte, error) {
	cfg := s.store.Current()
	ctx, cancel := context.WithTimeout(ctx, time.Duration(cfg.SynthTimeout)*time.Second)
	defer cancel()

	chunks, errs, err := s.Synthesize(ctx, req)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	for chunk := range chunks {
		buf.Write(chunk.Data)
	}
	if err := <-errs; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSynthesis, err)
	}
	if buf.Len() == 0 {
		return nil, fmt.Errorf("%w: engine produced no audio", ErrSynthesis)
	}
	return buf.Bytes(), nil
}
