package system

import (
	"context"
	"log"

	"github.com/milk9111/sequencer/ecs"
	"github.com/milk9111/sequencer/journal"
)

// Recorder persists journal entries.
type Recorder interface {
	Record(ctx context.Context, entries ...journal.Entry) error
}

// JournalSystem copies the timeline events of each frame into a batch and
// hands it to Run, which writes it off the frame loop. Batches are dropped
// when the writer falls behind.
type JournalSystem struct {
	batches chan []journal.Entry
	dropped int
}

func NewJournalSystem(buffer int) *JournalSystem {
	if buffer <= 0 {
		buffer = 64
	}
	return &JournalSystem{batches: make(chan []journal.Entry, buffer)}
}

func (j *JournalSystem) Update(w *ecs.World) {
	if j == nil || w == nil {
		return
	}
	var batch []journal.Entry
	for _, evt := range w.Events().Pending() {
		switch data := evt.Data.(type) {
		case TrackEvent:
			event := "enter"
			if evt.Type == ecs.EventTrackExit {
				event = "exit"
			}
			batch = append(batch, journal.Entry{
				Sequencer: data.Sequencer,
				Event:     event,
				Kind:      data.Kind,
				Tag:       data.Tag,
				Target:    data.Target,
				Mode:      data.Mode,
				At:        data.At,
			})
		case EndedEvent:
			batch = append(batch, journal.Entry{Sequencer: data.Sequencer, Event: "ended"})
		}
	}
	if len(batch) == 0 {
		return
	}
	select {
	case j.batches <- batch:
	default:
		j.dropped++
		if j.dropped == 1 || j.dropped%100 == 0 {
			log.Printf("journal: writer behind, dropped %d batches", j.dropped)
		}
	}
}

// Run writes batches until ctx is done.
func (j *JournalSystem) Run(ctx context.Context, rec Recorder) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case batch := <-j.batches:
			if err := rec.Record(ctx, batch...); err != nil {
				log.Printf("journal: record %d entries: %v", len(batch), err)
			}
		}
	}
}
