package specs

import (
	"fmt"
	"log"
)

// Reloader owns the scene built from one timeline file and rebuilds it on
// request. A reload requested while the timeline plays waits until it is
// paused or stopped.
type Reloader struct {
	builder *Builder
	name    string
	scene   *Scene
	pending bool

	// OnLoad runs after every successful build, including the first.
	OnLoad func(*Scene)
}

func NewReloader(b *Builder, name string) *Reloader {
	return &Reloader{builder: b, name: name}
}

func (r *Reloader) Name() string  { return r.name }
func (r *Reloader) Scene() *Scene { return r.scene }
func (r *Reloader) Pending() bool { return r.pending }

// Load builds the scene for the first time.
func (r *Reloader) Load() (*Scene, error) {
	scene, err := r.build()
	if err != nil {
		return nil, err
	}
	r.scene = scene
	r.pending = false
	if r.OnLoad != nil {
		r.OnLoad(scene)
	}
	return scene, nil
}

// Request marks the file as changed.
func (r *Reloader) Request() {
	r.pending = true
}

// Apply performs a pending reload if the timeline is not playing. The old
// scene is kept when the new file fails to load or build.
func (r *Reloader) Apply() (bool, error) {
	if !r.pending {
		return false, nil
	}
	if r.scene != nil && r.scene.Sequencer != nil && r.scene.Sequencer.Playing() {
		return false, nil
	}
	r.pending = false

	scene, err := r.build()
	if err != nil {
		return false, err
	}
	r.scene.Destroy()
	r.scene = scene
	log.Printf("specs: reloaded %s (%d tracks, %.2fs)", r.name, len(scene.Sequencer.Tracks()), scene.Sequencer.Length())
	if r.OnLoad != nil {
		r.OnLoad(scene)
	}
	return true, nil
}

func (r *Reloader) build() (*Scene, error) {
	spec, err := LoadTimeline(r.name)
	if err != nil {
		return nil, err
	}
	scene, err := r.builder.Build(spec)
	if err != nil {
		return nil, fmt.Errorf("specs: build %s: %w", r.name, err)
	}
	return scene, nil
}
