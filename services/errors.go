package services

import "errors"

// Shared sentinel errors; the HTTP layer maps these onto the response
// taxonomy in handlers/helpers.go.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation / business rules
	ErrValidationFailed         = errors.New("validation failed")
	ErrPasswordTooShort         = errors.New("password is too short")
	ErrAuctionNotLive           = errors.New("auction not found or not live")
	ErrAuctionInvalidStatus     = errors.New("invalid auction status provided")
	ErrAuctionInvalidTransition = errors.New("invalid auction status transition")
	ErrBiddingTypeInvalid       = errors.New("invalid bidding type provided")
	ErrSaleAmountInvalid        = errors.New("sale amount must be positive")
	ErrSalePlayerRequired       = errors.New("player_id is required")
	ErrSaleTeamRequired         = errors.New("team_id is required")
	ErrBidAmountInvalid         = errors.New("bid amount must be positive")
	ErrBidOverBudget            = errors.New("bid amount exceeds the team's remaining budget")
	ErrNoOpenRound              = errors.New("no open round for this auction")
	ErrCaptainNotMember         = errors.New("new captain must be an existing team member")

	// Conflicts
	ErrUserEmailConflict  = errors.New("email address is already in use")
	ErrTeamNameConflict   = errors.New("team name is already in use")
	ErrClubFull           = errors.New("club member limit reached")
	ErrClubMemberConflict = errors.New("user is already a member of this club")

	// Authentication / authorization
	ErrAuthInvalidCredentials   = errors.New("invalid email or password")
	ErrForbiddenOperation       = errors.New("operation not allowed for the current user")
	ErrOwnerActionForbidden     = errors.New("only the auction owner can perform this action")
	ErrCaptainChangeForbidden   = errors.New("only the auction owner or the current team captain can change the captain")
	ErrModeratorActionForbidden = errors.New("only the auction owner or a moderator can perform this action")
	ErrJoinRequiresLeague       = errors.New("joining requires membership of the auction's league")
	ErrClubInviteOnly           = errors.New("club is invite-only")
	ErrAdminOnly                = errors.New("insufficient permission")

	// Entity-specific not-found errors
	ErrUserNotFound    = errors.New("user not found")
	ErrTeamNotFound    = errors.New("team not found")
	ErrAuctionNotFound = errors.New("auction not found")
	ErrRoundNotFound   = errors.New("round not found")
	ErrClubNotFound    = errors.New("club not found")
)

// Broadcaster pushes events to an auction's live websocket room. The hub in
// package live implements it; tests substitute a recorder.
type Broadcaster interface {
	BroadcastToRoom(auctionID string, event interface{})
}
