// Package director runs tengo scripts that drive a timeline's transport from
// the frame loop.
package director

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/sequencer/specs"
	"github.com/milk9111/sequencer/timeline"
)

var ErrNoUpdate = errors.New("director: script defines neither update nor on_ended")

// Director is one compiled script. A script defines
//
//	update := func(engine, state, frame) { ... }
//	on_ended := func(engine, state, name) { ... }
//
// either of which may be omitted. state is a map kept across calls.
type Director struct {
	name      string
	compiled  *tengo.Compiled
	state     *tengo.Map
	engine    *tengo.ImmutableMap
	hasUpdate bool
	hasEnded  bool
	sequencer func() *timeline.Sequencer
}

const dispatchUpdate = `
if __phase == "update" {
	update(__engine, __state, __arg)
}
`

const dispatchEnded = `
if __phase == "ended" {
	on_ended(__engine, __state, __arg)
}
`

// Load compiles a script found by specs.LoadScript.
func Load(name string, sequencer func() *timeline.Sequencer) (*Director, error) {
	src, err := specs.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("director: load %s: %w", name, err)
	}
	return New(name, src, sequencer)
}

// New compiles src. sequencer is asked for the current timeline on every
// engine call, so the script survives a timeline reload.
func New(name string, src []byte, sequencer func() *timeline.Sequencer) (*Director, error) {
	hasUpdate, hasEnded, err := probe(src)
	if err != nil {
		return nil, fmt.Errorf("director: compile %s: %w", name, err)
	}
	if !hasUpdate && !hasEnded {
		return nil, fmt.Errorf("%w: %s", ErrNoUpdate, name)
	}

	full := string(src)
	if hasUpdate {
		full += "\n" + dispatchUpdate
	}
	if hasEnded {
		full += "\n" + dispatchEnded
	}

	script := tengo.NewScript([]byte(full))
	_ = script.Add("__phase", "")
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	_ = script.Add("__arg", 0)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("director: compile %s: %w", name, err)
	}

	d := &Director{
		name:      name,
		compiled:  compiled,
		state:     &tengo.Map{Value: map[string]tengo.Object{}},
		hasUpdate: hasUpdate,
		hasEnded:  hasEnded,
		sequencer: sequencer,
	}
	d.engine = d.buildEngine()
	return d, nil
}

// probe runs the script body once on its own to learn which entry points it
// defines.
func probe(src []byte) (bool, bool, error) {
	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	compiled, err := script.Run()
	if err != nil {
		return false, false, err
	}
	return compiled.IsDefined("update"), compiled.IsDefined("on_ended"), nil
}

func (d *Director) Name() string { return d.name }

// Update runs the script's update function for frame.
func (d *Director) Update(frame int) error {
	if d == nil || !d.hasUpdate {
		return nil
	}
	return d.run("update", frame)
}

// Ended runs on_ended after the timeline called sequencer stopped.
func (d *Director) Ended(sequencer string) error {
	if d == nil || !d.hasEnded {
		return nil
	}
	return d.run("ended", sequencer)
}

func (d *Director) run(phase string, arg any) error {
	if err := d.compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err := d.compiled.Set("__engine", d.engine); err != nil {
		return err
	}
	if err := d.compiled.Set("__state", d.state); err != nil {
		return err
	}
	if err := d.compiled.Set("__arg", arg); err != nil {
		return err
	}
	if err := d.compiled.Run(); err != nil {
		return fmt.Errorf("director: %s %s: %w", d.name, phase, err)
	}
	return nil
}

// State exposes a value the script stored in its state map.
func (d *Director) State(key string) any {
	if d == nil || d.state == nil {
		return nil
	}
	return objectToAny(d.state.Value[key])
}

func (d *Director) buildEngine() *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	transport := func(name string, fn func(*timeline.Sequencer)) {
		values[name] = &tengo.UserFunction{Name: name, Value: func(args ...tengo.Object) (tengo.Object, error) {
			seq := d.sequencer()
			if seq == nil {
				return tengo.FalseValue, nil
			}
			fn(seq)
			return tengo.TrueValue, nil
		}}
	}
	transport("play", (*timeline.Sequencer).Play)
	transport("pause", (*timeline.Sequencer).Pause)
	transport("stop", (*timeline.Sequencer).Stop)
	transport("record", func(s *timeline.Sequencer) { s.SetRecording(true) })

	values["seek"] = &tengo.UserFunction{Name: "seek", Value: func(args ...tengo.Object) (tengo.Object, error) {
		seq := d.sequencer()
		if seq == nil || len(args) < 1 {
			return tengo.FalseValue, nil
		}
		t, ok := tengo.ToFloat64(args[0])
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "t", Expected: "float", Found: args[0].TypeName()}
		}
		seq.SetTime(t)
		return tengo.TrueValue, nil
	}}

	values["step"] = &tengo.UserFunction{Name: "step", Value: func(args ...tengo.Object) (tengo.Object, error) {
		seq := d.sequencer()
		if seq == nil || len(args) < 1 {
			return tengo.FalseValue, nil
		}
		dt, ok := tengo.ToFloat64(args[0])
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "delta", Expected: "float", Found: args[0].TypeName()}
		}
		seq.Step(dt)
		return tengo.TrueValue, nil
	}}

	values["group"] = &tengo.UserFunction{Name: "group", Value: func(args ...tengo.Object) (tengo.Object, error) {
		seq := d.sequencer()
		if seq == nil {
			return tengo.UndefinedValue, nil
		}
		if len(args) < 1 {
			return &tengo.Int{Value: int64(seq.Group())}, nil
		}
		index, ok := groupIndex(seq, args[0])
		if !ok || seq.SetGroup(index) != nil {
			return tengo.FalseValue, nil
		}
		return tengo.TrueValue, nil
	}}

	values["time"] = &tengo.UserFunction{Name: "time", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if seq := d.sequencer(); seq != nil {
			return &tengo.Float{Value: seq.Time()}, nil
		}
		return &tengo.Float{Value: 0}, nil
	}}

	values["length"] = &tengo.UserFunction{Name: "length", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if seq := d.sequencer(); seq != nil {
			return &tengo.Float{Value: seq.Length()}, nil
		}
		return &tengo.Float{Value: 0}, nil
	}}

	values["playing"] = &tengo.UserFunction{Name: "playing", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if seq := d.sequencer(); seq != nil && seq.Playing() {
			return tengo.TrueValue, nil
		}
		return tengo.FalseValue, nil
	}}

	values["state"] = &tengo.UserFunction{Name: "state", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if seq := d.sequencer(); seq != nil {
			return &tengo.String{Value: seq.State().String()}, nil
		}
		return &tengo.String{Value: timeline.Stopped.String()}, nil
	}}

	values["find"] = &tengo.UserFunction{Name: "find", Value: func(args ...tengo.Object) (tengo.Object, error) {
		seq := d.sequencer()
		if seq == nil || len(args) < 2 {
			return tengo.UndefinedValue, nil
		}
		kind, err := timeline.ParseKind(objectAsString(args[0]))
		if err != nil {
			return tengo.UndefinedValue, nil
		}
		t := seq.FindTrack(kind, objectAsString(args[1]))
		if t == nil {
			return tengo.UndefinedValue, nil
		}
		return &tengo.ImmutableMap{Value: map[string]tengo.Object{
			"kind":     &tengo.String{Value: t.Kind().String()},
			"tag":      &tengo.String{Value: t.Tag()},
			"group":    &tengo.Int{Value: int64(t.Group())},
			"start":    &tengo.Float{Value: t.Start()},
			"duration": &tengo.Float{Value: t.Duration()},
			"end":      &tengo.Float{Value: t.End()},
		}}, nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, objectAsString(a))
		}
		log.Printf("director: %s: %s", d.name, strings.Join(parts, " "))
		return tengo.UndefinedValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func groupIndex(seq *timeline.Sequencer, arg tengo.Object) (int, bool) {
	if i, ok := arg.(*tengo.Int); ok {
		return int(i.Value), true
	}
	name := objectAsString(arg)
	for i, g := range seq.Groups() {
		if strings.EqualFold(g, name) {
			return i, true
		}
	}
	return 0, false
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}

func objectToAny(obj tengo.Object) any {
	if obj == nil {
		return nil
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	case *tengo.Int:
		return int(v.Value)
	case *tengo.Float:
		return v.Value
	case *tengo.Bool:
		return !v.IsFalsy()
	case *tengo.Undefined:
		return nil
	default:
		return v.String()
	}
}
