package edge

// Endpoints of the Edge read-aloud speech service. The token is the one the
// browser itself ships with; the service accepts no other credentials.
const (
	trustedClientToken = "6A5AA1D4EAFF4E9FB37E23D68491D6F4"

	synthesisEndpoint = "wss://speech.platform.bing.com/consumer/speech/synthesize/readaloud/edge/v1?trustedClientToken=" + trustedClientToken
	voiceListEndpoint = "https://speech.platform.bing.com/consumer/speech/synthesize/readaloud/voices/list?trustedclienttoken=" + trustedClientToken
)

// Frame paths the service uses to delimit a synthesis turn.
const (
	pathTurnStart = "turn.start"
	pathTurnEnd   = "turn.end"
	pathAudio     = "Path:audio"
)

// The only output format this gateway requests.
const (
	outputFormat = "audio-24khz-48kbitrate-mono-mp3"

	// MimeType is the content type of synthesized audio.
	MimeType = "audio/mpeg"
)

// Voice is one entry of the service's voice catalog, decoded verbatim.
type Voice struct {
	Name           string `json:"Name"`
	ShortName      string `json:"ShortName"`
	Gender         string `json:"Gender"`
	Locale         string `json:"Locale"`
	FriendlyName   string `json:"FriendlyName"`
	SuggestedCodec string `json:"SuggestedCodec"`
	Status         string `json:"Status"`
}

// AudioChunk is one MP3 fragment of a synthesis stream.
type AudioChunk struct {
	Data []byte
}
