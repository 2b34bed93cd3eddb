package timeline

import (
	"fmt"
	"strings"

	"github.com/jakecoffman/cp"
)

// Kind identifies which effect a track drives. The numeric order is also the
// evaluation order of kinds within a group.
type Kind int

const (
	KindActive Kind = iota
	KindMotion
	KindSound
)

func (k Kind) String() string {
	switch k {
	case KindActive:
		return "active"
	case KindMotion:
		return "motion"
	case KindSound:
		return "sound"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind accepts the names produced by Kind.String.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "active":
		return KindActive, nil
	case "motion", "anim", "animation":
		return KindMotion, nil
	case "sound", "audio":
		return KindSound, nil
	default:
		return 0, fmt.Errorf("timeline: unknown track kind %q", s)
	}
}

// Track is a timed window [start, start+duration) bound to a target. Only the
// payload matching kind is meaningful.
type Track struct {
	kind     Kind
	group    int
	start    float64
	duration float64
	tag      string
	target   Target

	// armed is set once Enter fired for the current window.
	armed bool
	owner *Sequencer

	active activeState
	motion motionState
	sound  soundState
}

type activeState struct {
	desired  bool
	original bool
}

type motionState struct {
	clip           MotionClip
	originalOffset cp.Vector
	loop           int
	animator       Animator
	// displaced is captured on the first handoff and cleared on restore.
	displaced Controller
}

type soundState struct {
	clip     SoundClip
	loop     int
	sounding SoundSource
}

// NewActiveTrack creates a track that holds target's active flag at active
// while inside its window. The target's current flag becomes the baseline.
func NewActiveTrack(start, duration float64, target Target, active bool) *Track {
	t := newTrack(KindActive, start, duration, target)
	t.active.desired = active
	t.active.original = true
	if alive(target) {
		t.active.original = target.ActiveSelf()
	}
	return t
}

// NewMotionTrack creates a track that plays clip on target. The target's
// current local offset becomes the baseline.
func NewMotionTrack(start, duration float64, target Target, clip MotionClip) *Track {
	t := newTrack(KindMotion, start, duration, target)
	t.motion.clip = clip
	if alive(target) {
		t.motion.originalOffset = target.LocalOffset()
	}
	return t
}

// NewSoundTrack creates a track that sounds clip from target.
func NewSoundTrack(start, duration float64, target Target, clip SoundClip) *Track {
	t := newTrack(KindSound, start, duration, target)
	t.sound.clip = clip
	return t
}

func newTrack(kind Kind, start, duration float64, target Target) *Track {
	if start < 0 {
		start = 0
	}
	if duration < 0 {
		duration = 0
	}
	return &Track{kind: kind, start: start, duration: duration, target: target}
}

func alive(target Target) bool {
	return target != nil && target.Alive()
}

func (t *Track) Kind() Kind { return t.kind }
func (t *Track) Group() int { return t.group }
func (t *Track) Start() float64 { return t.start }
func (t *Track) Duration() float64 { return t.duration }
func (t *Track) End() float64 { return t.start + t.duration }
func (t *Track) Tag() string { return t.tag }
func (t *Track) Target() Target { return t.target }
func (t *Track) Armed() bool { return t.armed }
func (t *Track) DesiredActive() bool { return t.active.desired }

// OriginalActive is the captured baseline of an active track.
func (t *Track) OriginalActive() bool { return t.active.original }

// OriginalOffset is the captured baseline of a motion track.
func (t *Track) OriginalOffset() cp.Vector { return t.motion.originalOffset }

func (t *Track) MotionClip() MotionClip { return t.motion.clip }
func (t *Track) SoundClip() SoundClip { return t.sound.clip }

// LoopIndex reports the loop counter of a motion or sound track.
func (t *Track) LoopIndex() int {
	switch t.kind {
	case KindMotion:
		return t.motion.loop
	case KindSound:
		return t.sound.loop
	default:
		return 0
	}
}

// Sounding is the source currently playing for a sound track, if any.
func (t *Track) Sounding() SoundSource { return t.sound.sounding }

// Displaced is the controller a live motion track replaced, if any.
func (t *Track) Displaced() Controller { return t.motion.displaced }

func (t *Track) String() string {
	if t.tag != "" {
		return fmt.Sprintf("%s[%s %.3f+%.3f g%d]", t.kind, t.tag, t.start, t.duration, t.group)
	}
	return fmt.Sprintf("%s[%.3f+%.3f g%d]", t.kind, t.start, t.duration, t.group)
}

func (t *Track) mutable() error {
	if t.owner != nil && t.owner.playing {
		return ErrLive
	}
	return nil
}

func (t *Track) SetStart(start float64) error {
	if err := t.mutable(); err != nil {
		return err
	}
	if start < 0 {
		return ErrNegative
	}
	t.start = start
	return nil
}

func (t *Track) SetDuration(duration float64) error {
	if err := t.mutable(); err != nil {
		return err
	}
	if duration < 0 {
		return ErrNegative
	}
	t.duration = duration
	return nil
}

// SetGroup moves the track to group. Group 0 plays under every selector.
func (t *Track) SetGroup(group int) error {
	if err := t.mutable(); err != nil {
		return err
	}
	t.group = group
	return nil
}

func (t *Track) SetTag(tag string) error {
	if err := t.mutable(); err != nil {
		return err
	}
	t.tag = tag
	return nil
}

func (t *Track) SetTarget(target Target) error {
	if err := t.mutable(); err != nil {
		return err
	}
	t.target = target
	t.motion.animator = nil
	return nil
}

func (t *Track) SetDesiredActive(active bool) error {
	if err := t.mutable(); err != nil {
		return err
	}
	if t.kind != KindActive {
		return ErrKindMismatch
	}
	t.active.desired = active
	return nil
}

func (t *Track) SetOriginalActive(active bool) error {
	if err := t.mutable(); err != nil {
		return err
	}
	if t.kind != KindActive {
		return ErrKindMismatch
	}
	t.active.original = active
	return nil
}

func (t *Track) SetOriginalOffset(offset cp.Vector) error {
	if err := t.mutable(); err != nil {
		return err
	}
	if t.kind != KindMotion {
		return ErrKindMismatch
	}
	t.motion.originalOffset = offset
	return nil
}

func (t *Track) SetMotionClip(clip MotionClip) error {
	if err := t.mutable(); err != nil {
		return err
	}
	if t.kind != KindMotion {
		return ErrKindMismatch
	}
	t.motion.clip = clip
	return nil
}

func (t *Track) SetSoundClip(clip SoundClip) error {
	if err := t.mutable(); err != nil {
		return err
	}
	if t.kind != KindSound {
		return ErrKindMismatch
	}
	t.sound.clip = clip
	return nil
}

// ReplaceActive rebinds an active track to another object. Nil targets are
// ignored.
func (t *Track) ReplaceActive(target Target, active bool) error {
	if target == nil {
		return nil
	}
	if err := t.mutable(); err != nil {
		return err
	}
	if t.kind != KindActive {
		return ErrKindMismatch
	}
	t.target = target
	t.active.desired = active
	return nil
}

// ReplaceMotionClip rebinds a motion track to another object and clip. The new
// target's offset becomes the baseline and the duration follows the clip.
func (t *Track) ReplaceMotionClip(target Target, clip MotionClip) error {
	if target == nil || clip == nil {
		return nil
	}
	if err := t.mutable(); err != nil {
		return err
	}
	if t.kind != KindMotion {
		return ErrKindMismatch
	}
	t.target = target
	if target.Alive() {
		t.motion.originalOffset = target.LocalOffset()
	}
	t.motion.animator = nil
	t.motion.clip = clip
	t.duration = clip.Length()
	return nil
}
