package store

import (
	"sort"

	"github.com/cardroom/blackjack/internal/game"
)

// Recorder bridges the event bus to the store: activity-log events are
// appended as they arrive and participant snapshots are saved once per
// settled round. It builds its view of the table from events alone; bus
// delivery is synchronous inside engine actions, so calling back into the
// engine here would deadlock.
type Recorder struct {
	store        *Store
	participants map[string]*game.Participant
}

// NewRecorder creates a recorder persisting into the given store.
func NewRecorder(store *Store) *Recorder {
	return &Recorder{
		store:        store,
		participants: make(map[string]*game.Participant),
	}
}

// OnEvent implements game.Subscriber.
func (r *Recorder) OnEvent(event game.Event) {
	switch e := event.(type) {
	case game.ParticipantUpdateEvent:
		// The dealer is the house: its bank is not a player snapshot.
		if !e.Participant.IsDealer {
			r.participants[e.Participant.ID] = e.Participant
		}

	case game.ActivityLogEvent:
		r.store.AppendLog(e.Message, e.ParticipantID)

	case game.GameOverEvent:
		snapshots := make([]game.Snapshot, 0, len(r.participants))
		for _, p := range r.participants {
			snapshots = append(snapshots, p.Snapshot())
		}
		sort.Slice(snapshots, func(i, j int) bool { return snapshots[i].Name < snapshots[j].Name })
		if err := r.store.SaveParticipants(snapshots); err != nil {
			r.store.logger.Warn("failed to persist participants after round", "error", err)
		}
	}
}
