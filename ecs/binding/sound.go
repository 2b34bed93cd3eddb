package binding

// bytesPerFrame is one 16-bit stereo sample frame.
const bytesPerFrame = 4

// SoundClip is a decoded sound. Its length follows from the PCM size.
type SoundClip struct {
	name   string
	pcm    []byte
	length float64
}

// NewSoundClip wraps 16-bit little-endian stereo PCM recorded at sampleRate.
func NewSoundClip(name string, pcm []byte, sampleRate int) *SoundClip {
	c := &SoundClip{name: name, pcm: pcm}
	if sampleRate > 0 {
		c.length = float64(len(pcm)/bytesPerFrame) / float64(sampleRate)
	}
	return c
}

func (c *SoundClip) Name() string    { return c.name }
func (c *SoundClip) Length() float64 { return c.length }
func (c *SoundClip) PCM() []byte     { return c.pcm }
