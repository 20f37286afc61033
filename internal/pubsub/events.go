package pubsub

// Event types emitted by the draft board. SSE clients and MCP sessions key
// off these strings, so they are part of the wire contract.
const (
	EventSessionCreate = "session:create"
	EventDraftPick     = "draft:pick"
	EventDraftReset    = "draft:reset"
	EventBoardUpdate   = "board:update"
)

// SessionCreateEvent announces a newly created draft session.
func SessionCreateEvent(sessionID, sport, format string) Event {
	return Event{
		Type: EventSessionCreate,
		Payload: map[string]interface{}{
			"sessionId": sessionID,
			"sport":     sport,
			"format":    format,
		},
	}
}

// PickEvent announces a recorded pick. Round and pick describe the state
// after the pick was applied.
func PickEvent(sessionID, playerID, playerName, slot string, round, pick int) Event {
	return Event{
		Type: EventDraftPick,
		Payload: map[string]interface{}{
			"sessionId": sessionID,
			"playerId":  playerID,
			"player":    playerName,
			"slot":      slot,
			"round":     round,
			"pick":      pick,
		},
	}
}

// ResetEvent announces that a session's draft state was cleared.
func ResetEvent(sessionID string) Event {
	return Event{
		Type: EventDraftReset,
		Payload: map[string]interface{}{
			"sessionId": sessionID,
		},
	}
}

// BoardUpdateEvent tells connected clients to refetch recommendations.
// Published after any state change that invalidates the current board.
func BoardUpdateEvent(sessionID string, round, pick int) Event {
	return Event{
		Type: EventBoardUpdate,
		Payload: map[string]interface{}{
			"sessionId": sessionID,
			"round":     round,
			"pick":      pick,
		},
	}
}
