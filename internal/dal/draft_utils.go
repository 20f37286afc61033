package dal

import "github.com/warroom-labs/draftboard/internal/models"

// NextUserPick returns the overall pick number of the user's next turn in a
// snake draft. userSlot is the user's 1-based position in round one; even
// rounds run in reverse order. currentPick is the next pick to be made.
func NextUserPick(leagueSize, userSlot, currentPick int) int {
	if leagueSize <= 0 {
		leagueSize = models.DefaultLeagueSize
	}
	if userSlot < 1 {
		userSlot = 1
	}
	if userSlot > leagueSize {
		userSlot = leagueSize
	}
	if currentPick < 1 {
		currentPick = 1
	}

	// Rounds before the current one are already fully picked, so the user's
	// next turn is in the current round or the one after it.
	round := (currentPick - 1) / leagueSize
	for {
		var pick int
		if round%2 == 0 {
			// Even rounds (0-based) go forward (slot 1, 2, 3, ...)
			pick = round*leagueSize + userSlot
		} else {
			// Odd rounds go backward (... slot 3, 2, 1)
			pick = round*leagueSize + (leagueSize - userSlot + 1)
		}
		if pick >= currentPick {
			return pick
		}
		round++
	}
}
