// Package mcptool exposes the gateway's two operations as MCP tools, over
// stdio for MCP-native clients and over streamable HTTP at /mcp.
package mcptool

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/edgespeak/tts-gateway/internal/edge"
	"github.com/edgespeak/tts-gateway/internal/observability"
	"github.com/edgespeak/tts-gateway/internal/speech"
)

// ListVoicesParams are the arguments of the list_voices tool.
type ListVoicesParams struct {
	Locale string `json:"locale,omitempty" jsonschema:"Optional locale to filter voices, by case-insensitive prefix (e.g. ja-JP, en)"`
}

// TextToSpeechParams are the arguments of the text_to_speech tool.
type TextToSpeechParams struct {
	Text       string `json:"text" jsonschema:"Text to convert to speech"`
	Voice      string `json:"voice,omitempty" jsonschema:"Voice short name to use (default: the configured voice, e.g. ja-JP-NanamiNeural)"`
	Rate       int    `json:"rate,omitempty" jsonschema:"Speech rate offset in percent, -100 to 100 (default 0)"`
	Volume     int    `json:"volume,omitempty" jsonschema:"Speech volume offset in percent, -100 to 100 (default 0)"`
	Pitch      int    `json:"pitch,omitempty" jsonschema:"Speech pitch offset in Hz, -100 to 100 (default 0)"`
	OutputPath string `json:"output_path,omitempty" jsonschema:"If set, write the MP3 to this file and return its path instead of inline audio"`
}

// voiceEntry is the reduced voice record returned to MCP clients.
type voiceEntry struct {
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
	Locale    string `json:"locale"`
	Gender    string `json:"gender"`
}

// NewServer builds the MCP server with both tools registered against svc.
func NewServer(svc *speech.Service) *mcp.Server {
	impl := &mcp.Implementation{
		Name:    "edge-tts",
		Title:   "Edge Text-to-Speech",
		Version: observability.Version,
	}
	s := mcp.NewServer(impl, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "list_voices",
		Description: "Get a list of available voices",
	}, listVoicesHandler(svc))

	mcp.AddTool(s, &mcp.Tool{
		Name:        "text_to_speech",
		Description: "Convert text to speech",
	}, textToSpeechHandler(svc))

	return s
}

// ServeStdio runs the MCP server over stdin/stdout until ctx is cancelled.
func ServeStdio(ctx context.Context, svc *speech.Service) error {
	return NewServer(svc).Run(ctx, &mcp.StdioTransport{})
}

// HTTPHandler returns the streamable HTTP transport for mounting at /mcp.
func HTTPHandler(svc *speech.Service) http.Handler {
	server := NewServer(svc)
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)
}

func listVoicesHandler(svc *speech.Service) func(context.Context, *mcp.CallToolRequest, ListVoicesParams) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ListVoicesParams) (*mcp.CallToolResult, any, error) {
		voices, err := svc.ListVoices(ctx, input.Locale)
		if err != nil {
			return toolError(fmt.Sprintf("list voices: %v", err)), nil, nil
		}

		entries := make([]voiceEntry, 0, len(voices))
		for _, v := range voices {
			entries = append(entries, voiceEntry{
				Name:      v.FriendlyName,
				ShortName: v.ShortName,
				Locale:    v.Locale,
				Gender:    v.Gender,
			})
		}

		text, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return toolError(fmt.Sprintf("encode voices: %v", err)), nil, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(text)}},
		}, nil, nil
	}
}

func textToSpeechHandler(svc *speech.Service) func(context.Context, *mcp.CallToolRequest, TextToSpeechParams) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input TextToSpeechParams) (*mcp.CallToolResult, any, error) {
		req := speech.SynthesisRequest{
			Text:   input.Text,
			Voice:  input.Voice,
			Rate:   input.Rate,
			Pitch:  input.Pitch,
			Volume: input.Volume,
		}

		start := time.Now()
		audio, err := svc.SynthesizeAll(ctx, req)
		observability.RecordSynthesis("mcp", start, int64(len(audio)), err)
		if err != nil {
			return toolError(fmt.Sprintf("text to speech: %v", err)), nil, nil
		}

		if input.OutputPath != "" {
			if err := os.WriteFile(input.OutputPath, audio, 0o644); err != nil {
				return toolError(fmt.Sprintf("write audio file: %v", err)), nil, nil
			}
			voice := input.Voice
			if voice == "" {
				voice = svc.DefaultVoice()
			}
			summary, _ := json.MarshalIndent(map[string]string{
				"audio_path": input.OutputPath,
				"text":       input.Text,
				"voice":      voice,
			}, "", "  ")
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: string(summary)}},
			}, nil, nil
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.AudioContent{Data: audio, MIMEType: edge.MimeType},
			},
		}, nil, nil
	}
}

func toolError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: "Error: " + msg}},
		IsError: true,
	}
}
