package dal

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/warroom-labs/draftboard/internal/models"
)

func genID(prefix string) string {
	b := make([]byte, 4)
	rand.Read(b)
	return fmt.Sprintf("%s_%s", prefix, hex.EncodeToString(b))
}

// newRoster expands configured slot counts into individually keyed open
// slots: {"UTIL": 3} becomes UTIL1, UTIL2, UTIL3.
func newRoster(slots map[string]int) map[string]string {
	roster := make(map[string]string)
	for slot, count := range slots {
		if count == 1 {
			roster[slot] = ""
			continue
		}
		for i := 1; i <= count; i++ {
			roster[fmt.Sprintf("%s%d", slot, i)] = ""
		}
	}
	return roster
}

// applyPick moves one player from the pool to the drafted sequence and
// advances the pick counters. The move happens exactly once: unknown and
// already-drafted players are rejected. A non-empty slot also fills that
// roster slot, which must be open and able to take the player.
func applyPick(sess *Session, playerID, slot string) error {
	for _, p := range sess.State.Drafted {
		if p.ID == playerID {
			return fmt.Errorf("%w: %s", ErrAlreadyDrafted, playerID)
		}
	}

	idx := -1
	for i, p := range sess.State.AvailablePool {
		if p.ID == playerID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}
	player := sess.State.AvailablePool[idx]

	if slot != "" {
		current, ok := sess.State.UserRoster[slot]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownSlot, slot)
		}
		if current != "" {
			return fmt.Errorf("%w: %s", ErrSlotFilled, slot)
		}
		allowed := false
		for _, pos := range player.Positions {
			if models.SlotAllows(sess.Settings.Sport, models.BaseSlot(slot), pos) {
				allowed = true
				break
			}
		}
		if !allowed {
			return fmt.Errorf("%w: %s cannot play %s", ErrSlotMismatch, playerID, slot)
		}
		sess.State.UserRoster[slot] = player.ID
	}

	sess.State.AvailablePool = append(sess.State.AvailablePool[:idx], sess.State.AvailablePool[idx+1:]...)
	sess.State.Drafted = append(sess.State.Drafted, player)

	picks := len(sess.State.Drafted)
	size := sess.Settings.LeagueSize
	if size <= 0 {
		size = models.DefaultLeagueSize
	}
	sess.State.Round = picks/size + 1
	sess.State.Pick = picks + 1
	return nil
}

// resetState returns every drafted player to the pool and reopens the
// roster. Pool order is not significant; rankings are recomputed from
// scratch on every board call.
func resetState(sess *Session) {
	sess.State.AvailablePool = append(sess.State.AvailablePool, sess.State.Drafted...)
	sess.State.Drafted = nil
	sess.State.UserRoster = newRoster(sess.Settings.RosterSlots)
	sess.State.Round = 1
	sess.State.Pick = 1
}

// copySession deep-copies a session so callers can never mutate stored
// state behind the DAL's back.
func copySession(sess *Session) *Session {
	out := *sess
	out.State.AvailablePool = append([]models.Player(nil), sess.State.AvailablePool...)
	out.State.Drafted = append([]models.Player(nil), sess.State.Drafted...)
	out.State.UserRoster = make(map[string]string, len(sess.State.UserRoster))
	for slot, id := range sess.State.UserRoster {
		out.State.UserRoster[slot] = id
	}
	if sess.Settings.ScoringWeights != nil {
		out.Settings.ScoringWeights = make(map[string]float64, len(sess.Settings.ScoringWeights))
		for name, w := range sess.Settings.ScoringWeights {
			out.Settings.ScoringWeights[name] = w
		}
	}
	out.Settings.RosterSlots = make(map[string]int, len(sess.Settings.RosterSlots))
	for slot, n := range sess.Settings.RosterSlots {
		out.Settings.RosterSlots[slot] = n
	}
	return &out
}

func sessionInfo(sess *Session) SessionInfo {
	return SessionInfo{
		ID:        sess.ID,
		Sport:     sess.Settings.Sport,
		Format:    sess.Settings.Format,
		Round:     sess.State.Round,
		Pick:      sess.State.Pick,
		Drafted:   len(sess.State.Drafted),
		Available: len(sess.State.AvailablePool),
		CreatedAt: sess.CreatedAt,
		UpdatedAt: sess.UpdatedAt,
	}
}
