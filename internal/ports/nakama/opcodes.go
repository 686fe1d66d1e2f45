package nakama

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartGame      int64 = 1
	OpPlayCards      int64 = 2
	OpPassTurn       int64 = 3
	OpSubmitGift     int64 = 4
	OpSubmitDiscard  int64 = 5
	OpExchangeReturn int64 = 6
	OpAddBots        int64 = 7

	// Server -> Client events
	OpStateUpdate  int64 = 101 // per-presence sanitized view
	OpActionError  int64 = 102 // sent to the offender only
	OpPlayerJoined int64 = 103
	OpPlayerLeft   int64 = 104
)
