package system

// Gameplay event names.
const (
	EventGameStarted    = "game_started"
	EventPlayerJumped   = "player_jumped"
	EventPlayerDied     = "player_died"
	EventItemCollected  = "item_collected"
	EventLevelCompleted = "level_completed"
	EventFlagOverride   = "flag_override"
	EventFlagsReset     = "flags_reset"
)

// ItemDataPoint is the item_type of the level's collectibles.
const ItemDataPoint = "data_point"
