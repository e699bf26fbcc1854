package logging

// Common structured log field keys to keep logs searchable/consistent.
const (
	FieldService    = "service"
	FieldVersion    = "version"
	FieldEndpoint   = "endpoint"
	FieldEntity     = "entity"
	FieldSeason     = "season"
	FieldGameID     = "game_id"
	FieldPlayerID   = "player_id"
	FieldDate       = "date"
	FieldKey        = "key"
	FieldCount      = "count"
	FieldAttempt    = "attempt"
	FieldDurationMS = "duration_ms"
)
