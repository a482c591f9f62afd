package outbound

// ToneSynthesizerPort writes a short deterministic placeholder tone used when
// a conversion strategy has no input file or must degrade after a provider
// failure.
type ToneSynthesizerPort interface {
	SynthesizeTone(path string, durationSec float64) error
}
