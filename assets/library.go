// Package assets loads sprite sheets and sounds for timelines from a file
// system, decoding each file once.
package assets

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"io"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	"github.com/milk9111/sequencer/ecs/binding"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// DefaultSampleRate is used when no audio context is given.
const DefaultSampleRate = 44100

var (
	ErrUnsupportedSound = errors.New("assets: unsupported sound format")
	ErrNoLibrary        = errors.New("assets: no asset library")
)

// Library caches decoded assets by cleaned path.
type Library struct {
	fsys       fs.FS
	sampleRate int

	mu     sync.Mutex
	images map[string]*ebiten.Image
	sounds map[string]*binding.SoundClip
}

// NewLibrary reads assets from fsys. Sounds are resampled to the rate of ctx,
// or DefaultSampleRate when ctx is nil.
func NewLibrary(fsys fs.FS, ctx *audio.Context) *Library {
	rate := DefaultSampleRate
	if ctx != nil {
		rate = ctx.SampleRate()
	}
	return &Library{
		fsys:       fsys,
		sampleRate: rate,
		images:     make(map[string]*ebiten.Image),
		sounds:     make(map[string]*binding.SoundClip),
	}
}

func (l *Library) SampleRate() int { return l.sampleRate }

// LoadFile reads an asset by assets-relative path.
func (l *Library) LoadFile(p string) ([]byte, error) {
	if l == nil || l.fsys == nil {
		return nil, fs.ErrNotExist
	}
	return fs.ReadFile(l.fsys, CleanPath(p))
}

// Image loads a png, bmp or webp sheet.
func (l *Library) Image(p string) (*ebiten.Image, error) {
	if l == nil {
		return nil, fmt.Errorf("assets: image %q: %w", p, ErrNoLibrary)
	}
	clean := CleanPath(p)
	l.mu.Lock()
	defer l.mu.Unlock()
	if img, ok := l.images[clean]; ok {
		return img, nil
	}

	b, err := l.LoadFile(clean)
	if err != nil {
		return nil, fmt.Errorf("assets: read %q: %w", p, err)
	}
	decoded, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("assets: decode %q: %w", p, err)
	}
	img := ebiten.NewImageFromImage(decoded)
	l.images[clean] = img
	return img, nil
}

// Sound decodes a wav, mp3 or ogg file into PCM at the library sample rate.
// Files with a .pcm extension are taken as already decoded.
func (l *Library) Sound(p string) (*binding.SoundClip, error) {
	if l == nil {
		return nil, fmt.Errorf("assets: sound %q: %w", p, ErrNoLibrary)
	}
	clean := CleanPath(p)
	l.mu.Lock()
	defer l.mu.Unlock()
	if clip, ok := l.sounds[clean]; ok {
		return clip, nil
	}

	b, err := l.LoadFile(clean)
	if err != nil {
		return nil, fmt.Errorf("assets: read %q: %w", p, err)
	}
	pcm, err := l.decode(clean, b)
	if err != nil {
		return nil, fmt.Errorf("assets: decode %q: %w", p, err)
	}
	name := strings.TrimSuffix(path.Base(clean), path.Ext(clean))
	clip := binding.NewSoundClip(name, pcm, l.sampleRate)
	l.sounds[clean] = clip
	return clip, nil
}

func (l *Library) decode(clean string, b []byte) ([]byte, error) {
	reader := bytes.NewReader(b)
	var stream io.Reader
	var err error
	switch strings.ToLower(path.Ext(clean)) {
	case ".wav":
		stream, err = wav.DecodeWithSampleRate(l.sampleRate, reader)
	case ".mp3":
		stream, err = mp3.DecodeWithSampleRate(l.sampleRate, reader)
	case ".ogg":
		stream, err = vorbis.DecodeWithSampleRate(l.sampleRate, reader)
	case ".pcm":
		return b, nil
	default:
		return nil, ErrUnsupportedSound
	}
	if err != nil {
		return nil, err
	}
	return io.ReadAll(stream)
}

// CleanPath turns a path as written in a timeline file into an fs.FS path.
func CleanPath(p string) string {
	if p == "" {
		return ""
	}
	s := filepath.ToSlash(p)
	if filepath.IsAbs(p) {
		if idx := strings.LastIndex(s, "/assets/"); idx >= 0 {
			return s[idx+len("/assets/"):]
		}
		return path.Base(s)
	}
	s = strings.TrimPrefix(path.Clean(s), "./")
	return strings.TrimPrefix(s, "assets/")
}
