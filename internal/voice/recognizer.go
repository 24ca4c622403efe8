package voice

// SampleRate is the audio rate recognizers expect, mono PCM16.
const SampleRate = 16000

// Recognizer turns recorded speech into a transcript.
type Recognizer interface {
	// Transcribe recognizes little-endian PCM16 mono audio at SampleRate.
	Transcribe(pcm []byte) (string, error)
	Close()
}
