package specs

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/milk9111/sequencer/timeline"
	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("specs: invalid timeline")

// TimelineSpec is one timeline file: the scene objects it drives and its
// tracks.
type TimelineSpec struct {
	Name     string       `yaml:"name"`
	Groups   []string     `yaml:"groups"`
	Group    string       `yaml:"group"`
	Context  string       `yaml:"context"`
	AutoPlay bool         `yaml:"autoplay"`
	Record   bool         `yaml:"record"`
	Script   string       `yaml:"script"`
	Objects  []ObjectSpec `yaml:"objects"`
	Tracks   []TrackSpec  `yaml:"tracks"`
}

type ObjectSpec struct {
	Name      string        `yaml:"name"`
	Active    *bool         `yaml:"active"`
	Transform TransformSpec `yaml:"transform"`
	Sprite    SpriteSpec    `yaml:"sprite"`
	Animation AnimationSpec `yaml:"animation"`
	Body      *BodySpec     `yaml:"body"`
	Volume    *float64      `yaml:"volume"`
}

type TransformSpec struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	ScaleX   float64 `yaml:"scale_x"`
	ScaleY   float64 `yaml:"scale_y"`
	Rotation float64 `yaml:"rotation"`
}

type SpriteSpec struct {
	Image   string  `yaml:"image"`
	OriginX float64 `yaml:"origin_x"`
	OriginY float64 `yaml:"origin_y"`
}

type AnimationSpec struct {
	Sheet   string                      `yaml:"sheet"`
	Default string                      `yaml:"default"`
	Defs    map[string]AnimationDefSpec `yaml:"defs"`
}

type AnimationDefSpec struct {
	Row        int     `yaml:"row"`
	ColStart   int     `yaml:"col_start"`
	FrameCount int     `yaml:"frame_count"`
	FrameW     int     `yaml:"frame_w"`
	FrameH     int     `yaml:"frame_h"`
	FPS        float64 `yaml:"fps"`
	Loop       bool    `yaml:"loop"`
}

type BodySpec struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// TrackSpec is one track. Group is a group name or index; Clip names an
// animation of the target for motion tracks and a sound asset for sound
// tracks. A motion track without a duration lasts one clip length.
type TrackSpec struct {
	Kind     string   `yaml:"kind"`
	Group    string   `yaml:"group"`
	Start    float64  `yaml:"start"`
	Duration *float64 `yaml:"duration"`
	Tag      string   `yaml:"tag"`
	Target   string   `yaml:"target"`
	Active   *bool    `yaml:"active"`
	Clip     string   `yaml:"clip"`
}

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("specs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("specs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// LoadTimeline loads and validates a timeline file.
func LoadTimeline(name string) (*TimelineSpec, error) {
	spec, err := LoadSpec[TimelineSpec](name)
	if err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("specs: %s: %w", name, err)
	}
	return &spec, nil
}

// Parse decodes and validates a timeline document.
func Parse(data []byte) (*TimelineSpec, error) {
	var spec TimelineSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("specs: unmarshal: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

// GroupNames returns the authored groups, or the single default group.
func (s *TimelineSpec) GroupNames() []string {
	if len(s.Groups) == 0 {
		return []string{"ALL"}
	}
	return s.Groups
}

// GroupIndex resolves a group reference. The empty reference is group 0.
func (s *TimelineSpec) GroupIndex(ref string) (int, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return 0, nil
	}
	groups := s.GroupNames()
	if i, err := strconv.Atoi(ref); err == nil {
		if i < 0 || i >= len(groups) {
			return 0, fmt.Errorf("group %d out of range [0,%d)", i, len(groups))
		}
		return i, nil
	}
	for i, g := range groups {
		if strings.EqualFold(g, ref) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown group %q", ref)
}

// ContextValue maps the context field to a timeline context.
func (s *TimelineSpec) ContextValue() (timeline.Context, error) {
	switch strings.ToLower(strings.TrimSpace(s.Context)) {
	case "", "live":
		return timeline.ContextLive, nil
	case "sampled", "editor":
		return timeline.ContextSampled, nil
	default:
		return 0, fmt.Errorf("unknown context %q", s.Context)
	}
}

func (s *TimelineSpec) object(name string) (*ObjectSpec, bool) {
	for i := range s.Objects {
		if s.Objects[i].Name == name {
			return &s.Objects[i], true
		}
	}
	return nil, false
}

// Validate reports every problem of the document at once.
func (s *TimelineSpec) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if _, err := s.ContextValue(); err != nil {
		add("%v", err)
	}
	if _, err := s.GroupIndex(s.Group); err != nil {
		add("selected %v", err)
	}

	seen := make(map[string]bool, len(s.Objects))
	for i, o := range s.Objects {
		if o.Name == "" {
			add("object %d: missing name", i)
			continue
		}
		if seen[o.Name] {
			add("object %q: duplicate name", o.Name)
		}
		seen[o.Name] = true
		if o.Animation.Default != "" {
			if _, ok := o.Animation.Defs[o.Animation.Default]; !ok {
				add("object %q: default animation %q not defined", o.Name, o.Animation.Default)
			}
		}
	}

	for i, t := range s.Tracks {
		kind, err := timeline.ParseKind(t.Kind)
		if err != nil {
			add("track %d: %v", i, err)
			continue
		}
		if _, err := s.GroupIndex(t.Group); err != nil {
			add("track %d: %v", i, err)
		}
		if t.Start < 0 {
			add("track %d: negative start", i)
		}
		if t.Duration != nil && *t.Duration < 0 {
			add("track %d: negative duration", i)
		}
		obj, ok := s.object(t.Target)
		if t.Target != "" && !ok {
			add("track %d: unknown target %q", i, t.Target)
		}
		switch kind {
		case timeline.KindMotion:
			if t.Clip == "" {
				add("track %d: motion track without clip", i)
			} else if ok {
				if _, found := obj.Animation.Defs[t.Clip]; !found {
					add("track %d: %q has no animation %q", i, t.Target, t.Clip)
				}
			}
		case timeline.KindSound:
			if t.Clip == "" {
				add("track %d: sound track without clip", i)
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}
