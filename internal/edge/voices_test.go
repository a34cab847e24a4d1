package edge

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const voiceListJSON = `[
	{"Name":"Microsoft Server Speech Text to Speech Voice (ja-JP, NanamiNeural)","ShortName":"ja-JP-NanamiNeural","Gender":"Female","Locale":"ja-JP","FriendlyName":"Microsoft Nanami Online (Natural) - Japanese (Japan)","SuggestedCodec":"audio-24khz-48kbitrate-mono-mp3","Status":"GA"},
	{"Name":"Microsoft Server Speech Text to Speech Voice (ja-JP, KeitaNeural)","ShortName":"ja-JP-KeitaNeural","Gender":"Male","Locale":"ja-JP","FriendlyName":"Microsoft Keita Online (Natural) - Japanese (Japan)","SuggestedCodec":"audio-24khz-48kbitrate-mono-mp3","Status":"GA"},
	{"Name":"Microsoft Server Speech Text to Speech Voice (en-US, AriaNeural)","ShortName":"en-US-AriaNeural","Gender":"Female","Locale":"en-US","FriendlyName":"Microsoft Aria Online (Natural) - English (United States)","SuggestedCodec":"audio-24khz-48kbitrate-mono-mp3","Status":"GA"},
	{"Name":"Microsoft Server Speech Text to Speech Voice (en-GB, SoniaNeural)","ShortName":"en-GB-SoniaNeural","Gender":"Female","Locale":"en-GB","FriendlyName":"Microsoft Sonia Online (Natural) - English (United Kingdom)","SuggestedCodec":"audio-24khz-48kbitrate-mono-mp3","Status":"GA"}
]`

func TestListVoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(voiceListJSON))
	}))
	defer server.Close()

	catalog := NewCatalog(server.URL)
	voices, err := catalog.ListVoices(context.Background())
	if err != nil {
		t.Fatalf("ListVoices() failed: %v", err)
	}

	if len(voices) != 4 {
		t.Fatalf("Expected 4 voices, got %d", len(voices))
	}

	if voices[0].ShortName != "ja-JP-NanamiNeural" {
		t.Errorf("Expected first voice 'ja-JP-NanamiNeural', got '%s'", voices[0].ShortName)
	}
	if voices[0].Gender != "Female" {
		t.Errorf("Expected gender 'Female', got '%s'", voices[0].Gender)
	}
	if voices[0].Locale != "ja-JP" {
		t.Errorf("Expected locale 'ja-JP', got '%s'", voices[0].Locale)
	}
}

func TestListVoices_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer server.Close()

	catalog := NewCatalog(server.URL)
	_, err := catalog.ListVoices(context.Background())
	if err == nil {
		t.Fatal("Expected error for non-200 response, got nil")
	}
}

func TestListVoices_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // closed on purpose

	catalog := NewCatalog(server.URL)
	_, err := catalog.ListVoices(context.Background())
	if err == nil {
		t.Fatal("Expected error for unreachable endpoint, got nil")
	}
}

func TestFilterByLocale(t *testing.T) {
	voices := []Voice{
		{ShortName: "ja-JP-NanamiNeural", Locale: "ja-JP"},
		{ShortName: "ja-JP-KeitaNeural", Locale: "ja-JP"},
		{ShortName: "en-US-AriaNeural", Locale: "en-US"},
		{ShortName: "en-GB-SoniaNeural", Locale: "en-GB"},
	}

	tests := []struct {
		name   string
		locale string
		want   int
	}{
		{"exact locale", "ja-JP", 2},
		{"case insensitive", "JA-jp", 2},
		{"language prefix", "en", 2},
		{"no match", "fr", 0},
		{"empty keeps all", "", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterByLocale(voices, tt.locale)
			if len(got) != tt.want {
				t.Errorf("FilterByLocale(%q) returned %d voices, want %d", tt.locale, len(got), tt.want)
			}
			for _, v := range got {
				if tt.locale != "" && !strings.HasPrefix(strings.ToLower(v.Locale), strings.ToLower(tt.locale)) {
					t.Errorf("Voice %s locale %q does not start with filter %q", v.ShortName, v.Locale, tt.locale)
				}
			}
		})
	}
}
