package control

import (
	"fmt"

	"github.com/milk9111/sequencer/timeline"
)

// Snapshot is a copy of the timeline state safe to read off the frame loop.
type Snapshot struct {
	Name      string      `json:"name"`
	Loaded    bool        `json:"loaded"`
	State     string      `json:"state"`
	Time      float64     `json:"time"`
	Length    float64     `json:"length"`
	Group     string      `json:"group"`
	Groups    []string    `json:"groups"`
	Recording bool        `json:"recording"`
	Context   string      `json:"context"`
	Tracks    []TrackInfo `json:"tracks"`
}

type TrackInfo struct {
	Kind     string  `json:"kind"`
	Tag      string  `json:"tag,omitempty"`
	Group    string  `json:"group"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
	Target   string  `json:"target,omitempty"`
	Armed    bool    `json:"armed"`
	Loop     int     `json:"loop"`
}

// Capture copies seq's state. A nil sequencer yields an unloaded snapshot.
func Capture(name string, seq *timeline.Sequencer) Snapshot {
	snap := Snapshot{Name: name, State: timeline.Stopped.String()}
	if seq == nil {
		return snap
	}

	groups := seq.Groups()
	snap.Loaded = true
	snap.State = seq.State().String()
	snap.Time = seq.Time()
	snap.Length = seq.Length()
	snap.Groups = groups
	snap.Group = groupName(groups, seq.Group())
	snap.Recording = seq.Recording()
	snap.Context = seq.Context().String()

	tracks := seq.Tracks()
	snap.Tracks = make([]TrackInfo, 0, len(tracks))
	for _, t := range tracks {
		info := TrackInfo{
			Kind:     t.Kind().String(),
			Tag:      t.Tag(),
			Group:    groupName(groups, t.Group()),
			Start:    t.Start(),
			Duration: t.Duration(),
			Armed:    t.Armed(),
			Loop:     t.LoopIndex(),
		}
		if target := t.Target(); target != nil {
			info.Target = fmt.Sprint(target)
		}
		snap.Tracks = append(snap.Tracks, info)
	}
	return snap
}

func groupName(groups []string, i int) string {
	if i >= 0 && i < len(groups) {
		return groups[i]
	}
	return fmt.Sprint(i)
}
