package models

import "mediline-service/internal/pkg/constvars"

// Requester is the authenticated identity attached to every request by the
// auth middleware. Identity management itself lives outside this service.
type Requester struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

func (r *Requester) IsAdmin() bool {
	return r.Role == constvars.RoleTypeAdmin
}

// Owns reports whether the requester may act on a resource owned by userID.
// Admins may act on anything.
func (r *Requester) Owns(userID string) bool {
	return r.IsAdmin() || r.UserID == userID
}
