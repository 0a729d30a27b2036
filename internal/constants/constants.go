package constants

// Centralized constants for env keys, routes and API error messages.
const (
	// Environment variable keys
	EnvConfigPath   = "ARENA_CONFIG"
	EnvDatabasePath = "ARENA_DB"
	EnvGatewayToken = "ARENA_GATEWAY_TOKEN"
	EnvServerAddr   = "ARENA_ADDR"

	// HTTP headers
	HeaderAuthorization = "Authorization"
	BearerPrefix        = "Bearer "
)

// Routes used by the backend router
const (
	RouteAPIPrefix    = "/api"
	RouteFights       = "/fights"
	RouteFightByID    = "/fights/:fightID"
	RouteFightAccept  = "/fights/:fightID/accept"
	RouteFightMove    = "/fights/:fightID/move"
	RouteFightForfeit = "/fights/:fightID/forfeit"
	RouteFightExpire  = "/fights/:fightID/expire"
	RouteOpenFight    = "/players/:userID/fight"
	RouteProfile      = "/players/:userID/profile"
	RouteVersion      = "/version"
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyCode    = "code"
	JSONKeyMessage = "message"
)

// Stable machine-readable error codes returned to callers.
const (
	CodeSelfCombat             = "SELF_COMBAT"
	CodeInCombat               = "IN_COMBAT"
	CodeNotFound               = "NOT_FOUND"
	CodeAlreadyAccepted        = "ALREADY_ACCEPTED"
	CodeWrongPlayer            = "WRONG_PLAYER"
	CodeConcurrentModification = "CONCURRENT_MODIFICATION"
	CodeNotActive              = "NOT_ACTIVE"
	CodeNotAParticipant        = "NOT_A_PARTICIPANT"
	CodeMoveAlreadySubmitted   = "MOVE_ALREADY_SUBMITTED"
	CodeInvalidMove            = "INVALID_MOVE"
	CodeAlreadyTerminal        = "ALREADY_TERMINAL"
	CodeUpdateFailed           = "UPDATE_FAILED"
	CodeInvalidRequest         = "INVALID_REQUEST"
	CodeInternal               = "INTERNAL"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest  = "Invalid request"
	ErrInvalidFightID  = "Invalid fight ID"
	ErrFightNotFound   = "Fight not found"
	ErrProfileNotFound = "Profile not found"
	ErrAuthRequired    = "Authentication required"
	ErrInvalidToken    = "Invalid gateway token"
	ErrInternal        = "Internal error"
)

// Logging field names
const (
	LogFieldFightID = "fight_id"
	LogFieldUserID  = "user_id"
	LogFieldAddr    = "addr"
	LogFieldRound   = "round"
)
