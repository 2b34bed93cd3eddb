// Package control lets the outside world drive a running timeline. Commands
// arrive from the HTTP server or the console on their own goroutines and are
// queued; the frame loop drains the queue and applies them to the sequencer.
package control

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/milk9111/sequencer/timeline"
)

var (
	ErrUnknownCommand = errors.New("control: unknown command")
	ErrNoTimeline     = errors.New("control: no timeline loaded")
	ErrUnknownGroup   = errors.New("control: unknown group")
)

type Op string

const (
	OpPlay   Op = "play"
	OpPause  Op = "pause"
	OpStop   Op = "stop"
	OpSeek   Op = "seek"
	OpStep   Op = "step"
	OpGroup  Op = "group"
	OpRecord Op = "record"
	OpReload Op = "reload"
)

// DefaultStep is one frame at 60 fps.
const DefaultStep = 1.0 / 60

var ops = []Op{OpPlay, OpPause, OpStop, OpSeek, OpStep, OpGroup, OpRecord, OpReload}

// Command is one transport request. Value carries the time for seek and the
// delta for step; Group carries a group name or index; Flag carries the
// recording switch.
type Command struct {
	Op    Op
	Value float64
	Group string
	Flag  bool
}

func (c Command) String() string {
	switch c.Op {
	case OpSeek, OpStep:
		return fmt.Sprintf("%s %g", c.Op, c.Value)
	case OpGroup:
		return fmt.Sprintf("%s %s", c.Op, c.Group)
	case OpRecord:
		return fmt.Sprintf("%s %t", c.Op, c.Flag)
	default:
		return string(c.Op)
	}
}

// ParseCommand reads a console line such as "seek 1.5" or "group night".
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return Command{}, ErrUnknownCommand
	}
	cmd := Command{Op: Op(fields[0])}
	args := fields[1:]

	switch cmd.Op {
	case OpPlay, OpPause, OpStop, OpReload:
		if len(args) != 0 {
			return Command{}, fmt.Errorf("%s takes no arguments", cmd.Op)
		}
	case OpSeek:
		if len(args) != 1 {
			return Command{}, fmt.Errorf("usage: seek <seconds>")
		}
		v, err := parseSeconds(args[0])
		if err != nil {
			return Command{}, fmt.Errorf("seek: invalid time %q", args[0])
		}
		cmd.Value = v
	case OpStep:
		cmd.Value = DefaultStep
		if len(args) > 1 {
			return Command{}, fmt.Errorf("usage: step [seconds]")
		}
		if len(args) == 1 {
			v, err := parseSeconds(args[0])
			if err != nil {
				return Command{}, fmt.Errorf("step: invalid delta %q", args[0])
			}
			cmd.Value = v
		}
	case OpGroup:
		if len(args) != 1 {
			return Command{}, fmt.Errorf("usage: group <name|index>")
		}
		cmd.Group = args[0]
	case OpRecord:
		if len(args) != 1 {
			return Command{}, fmt.Errorf("usage: record on|off")
		}
		switch args[0] {
		case "on", "true", "1":
			cmd.Flag = true
		case "off", "false", "0":
		default:
			return Command{}, fmt.Errorf("record: expected on or off, got %q", args[0])
		}
	default:
		return Command{}, fmt.Errorf("%w: %s", ErrUnknownCommand, fields[0])
	}
	return cmd, nil
}

// parseSeconds rejects NaN and the infinities, which ParseFloat accepts.
func parseSeconds(arg string) (float64, error) {
	v, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrSyntax
	}
	return v, nil
}

// Applier applies commands to whatever timeline is current. Reload may be nil.
type Applier struct {
	Sequencer func() *timeline.Sequencer
	Reload    func()
}

func (a *Applier) Apply(c Command) error {
	if c.Op == OpReload {
		if a.Reload == nil {
			return fmt.Errorf("control: reload is not available")
		}
		a.Reload()
		return nil
	}

	var seq *timeline.Sequencer
	if a.Sequencer != nil {
		seq = a.Sequencer()
	}
	if seq == nil {
		return ErrNoTimeline
	}

	switch c.Op {
	case OpPlay:
		seq.Play()
	case OpPause:
		seq.Pause()
	case OpStop:
		seq.Stop()
	case OpSeek:
		seq.SetTime(c.Value)
	case OpStep:
		seq.Step(c.Value)
	case OpRecord:
		seq.SetRecording(c.Flag)
	case OpGroup:
		index, err := ResolveGroup(seq.Groups(), c.Group)
		if err != nil {
			return err
		}
		return seq.SetGroup(index)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, c.Op)
	}
	return nil
}

// ResolveGroup accepts a group name, case-insensitively, or its index.
func ResolveGroup(groups []string, name string) (int, error) {
	for i, g := range groups {
		if strings.EqualFold(g, name) {
			return i, nil
		}
	}
	if i, err := strconv.Atoi(name); err == nil {
		if i < 0 || i >= len(groups) {
			return 0, timeline.ErrGroupRange
		}
		return i, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownGroup, name)
}

// Queue hands commands from other goroutines to the frame loop, and the
// latest timeline snapshot back the other way.
type Queue struct {
	mu       sync.Mutex
	pending  []Command
	snapshot Snapshot
}

func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) Push(c Command) {
	q.mu.Lock()
	q.pending = append(q.pending, c)
	q.mu.Unlock()
}

// Drain returns the queued commands in arrival order and empties the queue.
func (q *Queue) Drain() []Command {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.pending
	q.pending = nil
	return out
}

func (q *Queue) Publish(s Snapshot) {
	q.mu.Lock()
	q.snapshot = s
	q.mu.Unlock()
}

func (q *Queue) Snapshot() Snapshot {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.snapshot
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
