package adapters

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"github.com/Gmy-678/voice-changer/application/ports/outbound"
)

const (
	toneFrequencyHz = 440.0
	toneSampleRate  = 16000
	toneAmplitude   = 0.3
)

type wavToneSynthesizer struct{}

// NewWAVToneSynthesizer writes mono 16-bit PCM WAV files containing a fixed
// 440 Hz sine tone.
func NewWAVToneSynthesizer() outbound.ToneSynthesizerPort {
	return &wavToneSynthesizer{}
}

func (s *wavToneSynthesizer) SynthesizeTone(path string, durationSec float64) error {
	if durationSec <= 0 {
		durationSec = 1.0
	}
	sampleCount := int(float64(toneSampleRate) * durationSec)
	dataSize := sampleCount * 2

	var buf bytes.Buffer
	buf.Grow(44 + dataSize)
	buf.WriteString("RIFF")
	writeLE(&buf, uint32(36+dataSize))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	writeLE(&buf, uint32(16))
	writeLE(&buf, uint16(1)) // PCM
	writeLE(&buf, uint16(1)) // mono
	writeLE(&buf, uint32(toneSampleRate))
	writeLE(&buf, uint32(toneSampleRate*2)) // byte rate
	writeLE(&buf, uint16(2))                // block align
	writeLE(&buf, uint16(16))               // bits per sample
	buf.WriteString("data")
	writeLE(&buf, uint32(dataSize))

	for i := 0; i < sampleCount; i++ {
		v := toneAmplitude * math.Sin(2*math.Pi*toneFrequencyHz*float64(i)/float64(toneSampleRate))
		writeLE(&buf, int16(v*math.MaxInt16))
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write tone file: %w", err)
	}
	return nil
}

func writeLE(buf *bytes.Buffer, v interface{}) {
	// bytes.Buffer never returns a write error.
	_ = binary.Write(buf, binary.LittleEndian, v)
}
