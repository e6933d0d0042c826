package models

// PermissionSet is the capability set computed for a (user, auction) pair.
// Role is the strongest role the user holds: OWNER, MODERATOR, CAPTAIN,
// VIEWER, or empty for no relationship.
type PermissionSet struct {
	CanView     bool   `json:"can_view"`
	CanJoin     bool   `json:"can_join"`
	CanModerate bool   `json:"can_moderate"`
	CanManage   bool   `json:"can_manage"`
	Role        string `json:"role,omitempty"`
}

const (
	PermissionRoleOwner     = "OWNER"
	PermissionRoleModerator = "MODERATOR"
	PermissionRoleCaptain   = "CAPTAIN"
	PermissionRoleViewer    = "VIEWER"
)
