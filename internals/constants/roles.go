package constants

// Role names as exposed to clients. Admin membership is decided by the
// admin_users table, not by a token claim.
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)
