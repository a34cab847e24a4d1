package edge

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// Prosody carries the signed offsets the service accepts. Rate and Volume
// are percentages, Pitch is a Hz offset; all three are relative to the
// voice's neutral delivery.
type Prosody struct {
	Rate   int // percent, -100..100
	Pitch  int // Hz, -100..100
	Volume int // percent, -100..100
}

// signedPercent renders an offset in the "+10%" / "-5%" form the service
// expects; zero renders as "+0%".
func signedPercent(v int) string {
	return fmt.Sprintf("%+d%%", v)
}

func signedHz(v int) string {
	return fmt.Sprintf("%+dHz", v)
}

// buildSSML wraps text in the speak/voice/prosody envelope the synthesis
// endpoint requires. Text is XML-escaped; the voice short name is taken as
// given.
func buildSSML(text, voice string, p Prosody) string {
	var escaped strings.Builder
	_ = xml.EscapeText(&escaped, []byte(text))

	return fmt.Sprintf(
		"<speak version='1.0' xmlns='http://www.w3.org/2001/10/synthesis' xml:lang='en-US'>"+
			"<voice name='%s'><prosody pitch='%s' rate='%s' volume='%s'>%s</prosody></voice></speak>",
		voice, signedHz(p.Pitch), signedPercent(p.Rate), signedPercent(p.Volume), escaped.String(),
	)
}
