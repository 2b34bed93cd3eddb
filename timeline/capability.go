package timeline

import (
	"time"

	"github.com/jakecoffman/cp"
)

// Target is the scene object a track drives. Tracks hold targets without
// owning them; a target that is no longer alive is skipped.
type Target interface {
	Alive() bool
	ActiveSelf() bool
	SetActive(active bool)
	LocalOffset() cp.Vector
	SetLocalOffset(offset cp.Vector)
}

// MotionClip is an animation-like asset.
type MotionClip interface {
	Name() string
	Length() float64
	// Sample poses target at local clip time t. Used when the sequencer runs in
	// the sampled context instead of delegating to a running animator.
	Sample(target Target, t float64)
}

// Controller is whatever an Animator is currently bound to.
type Controller interface {
	Name() string
}

// OverrideController is installed by a motion track to play its clip on top of
// the animator's base controller.
type OverrideController struct {
	Base Controller
	Clip MotionClip
}

func (o *OverrideController) Name() string {
	if o == nil || o.Clip == nil {
		return "override"
	}
	return "override:" + o.Clip.Name()
}

// Animator is the live player attached to a target.
type Animator interface {
	Controller() Controller
	SetController(c Controller)
	// ResetParameters clears any state the bound controller keeps so the
	// override clip is not blended with a running transition.
	ResetParameters()
	Play(clip MotionClip, normalized float64)
	SetSpeed(speed float64)
	SetEnabled(enabled bool)
	// Rebind returns the animator to the default pose of its controller.
	Rebind()
}

// SoundClip is an audio-like asset.
type SoundClip interface {
	Name() string
	Length() float64
}

// SoundSource is a player bound to a target.
type SoundSource interface {
	Play(clip SoundClip, offset float64)
	Pause()
	Stop()
}

// Rig resolves the live players of a target, creating them when missing.
// Either method may return nil when the target cannot host a player.
type Rig interface {
	Animator(target Target) Animator
	SoundSource(target Target) SoundSource
}

// Context selects how motion tracks reach their clips.
type Context int

const (
	// ContextLive hands the clip to the target's running animator.
	ContextLive Context = iota
	// ContextSampled poses the target directly from the clip every tick.
	ContextSampled
)

func (c Context) String() string {
	switch c {
	case ContextLive:
		return "live"
	case ContextSampled:
		return "sampled"
	default:
		return "unknown"
	}
}

// Clock reports monotonic seconds.
type Clock interface {
	Now() float64
}

type wallClock struct {
	origin time.Time
}

func (c wallClock) Now() float64 {
	return time.Since(c.origin).Seconds()
}

// handoff swaps clip into animator through an override controller and returns
// the controller it displaced. When the animator already runs an override the
// base is reused and nothing is reported as displaced.
func handoff(animator Animator, clip MotionClip) Controller {
	animator.ResetParameters()
	current := animator.Controller()
	base := current
	override, isOverride := current.(*OverrideController)
	if isOverride {
		base = override.Base
	}
	animator.SetController(&OverrideController{Base: base, Clip: clip})
	if isOverride {
		return nil
	}
	return current
}

// restoreHandoff puts back a displaced controller if an override is still bound.
func restoreHandoff(animator Animator, displaced Controller) {
	if animator == nil || displaced == nil {
		return
	}
	if _, ok := animator.Controller().(*OverrideController); ok {
		animator.SetController(displaced)
	}
}
