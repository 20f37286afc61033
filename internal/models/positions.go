package models

var nbaPositions = map[string]bool{
	"PG": true, "SG": true, "SF": true, "PF": true, "C": true,
}

var mlbPositions = map[string]bool{
	"C": true, "1B": true, "2B": true, "3B": true, "SS": true,
	"OF": true, "DH": true, "SP": true, "RP": true,
}

// Flex and utility slot names accepted in roster configs on top of the
// direct player positions.
var nbaFlexSlots = map[string]bool{"G": true, "F": true, "UTIL": true, "BENCH": true}
var mlbFlexSlots = map[string]bool{"UTIL": true, "P": true, "BENCH": true}

// KnownPlayerPosition reports whether pos is a position a player can carry.
func KnownPlayerPosition(sport Sport, pos string) bool {
	switch sport {
	case SportNBA:
		return nbaPositions[pos]
	case SportMLB:
		return mlbPositions[pos]
	}
	return false
}

// KnownSlot reports whether slot is a valid roster-slot name for the sport:
// a direct position or one of the flex/utility slots.
func KnownSlot(sport Sport, slot string) bool {
	if KnownPlayerPosition(sport, slot) {
		return true
	}
	switch sport {
	case SportNBA:
		return nbaFlexSlots[slot]
	case SportMLB:
		return mlbFlexSlots[slot]
	}
	return false
}

// BaseSlot strips the numeric suffix a roster keys duplicate slots with
// ("UTIL2" reads as "UTIL"). Every base slot name ends in a letter, so an
// unsuffixed slot passes through unchanged.
func BaseSlot(slot string) string {
	i := len(slot)
	for i > 0 && slot[i-1] >= '0' && slot[i-1] <= '9' {
		i--
	}
	if i == 0 {
		return slot
	}
	return slot[:i]
}

// SlotAllows reports whether a player position can fill a roster slot.
// Direct slots match exactly; flex slots match their position group, and
// UTIL/BENCH match anything except that MLB UTIL excludes pitchers.
func SlotAllows(sport Sport, slot, pos string) bool {
	if slot == pos {
		return true
	}
	switch sport {
	case SportNBA:
		switch slot {
		case "G":
			return pos == "PG" || pos == "SG"
		case "F":
			return pos == "SF" || pos == "PF"
		case "UTIL", "BENCH":
			return nbaPositions[pos]
		}
	case SportMLB:
		switch slot {
		case "P":
			return pos == "SP" || pos == "RP"
		case "UTIL":
			return mlbPositions[pos] && pos != "SP" && pos != "RP"
		case "BENCH":
			return mlbPositions[pos]
		}
	}
	return false
}
