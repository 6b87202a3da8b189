package models

import "github.com/golang-jwt/jwt/v5"

// Application permissions
const (
	// Admin permissions
	PermissionReadAdmin  = "admin:read"
	PermissionWriteAdmin = "admin:write"

	// Catalog permissions
	PermissionCourseRead    = "course:read"
	PermissionCourseWrite   = "course:write"
	PermissionCoursePublish = "course:publish"

	// Purchase permissions
	PermissionPurchaseRead  = "purchase:read"
	PermissionPurchaseWrite = "purchase:write"

	// Instructor permissions
	PermissionSalesRead   = "sales:read"
	PermissionPayoutsRead = "payouts:read"

	// User management permissions
	PermissionUserRead       = "user:read"
	PermissionUserWrite      = "user:write"
	PermissionChangePassword = "user:change-password"
)

type UserClaims struct {
	jwt.RegisteredClaims
	UserID       uint     `json:"user_id"`
	Email        string   `json:"email"`
	Role         string   `json:"role"`
	Permissions  []string `json:"permissions"`
	TokenVersion int      `json:"token_version"`
}

// HasPermission checks if the claims include a specific permission
func (c *UserClaims) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// GetDefaultPermissions returns default permissions based on role
func GetDefaultPermissions(role string) []string {
	switch role {
	case RoleAdmin:
		return []string{
			PermissionCourseRead,
			PermissionCourseWrite,
			PermissionCoursePublish,
			PermissionPurchaseRead,
			PermissionPurchaseWrite,
			PermissionSalesRead,
			PermissionPayoutsRead,
			PermissionUserRead,
			PermissionUserWrite,
			PermissionChangePassword,
			PermissionReadAdmin,
			PermissionWriteAdmin,
		}
	case RoleInstructor:
		return []string{
			PermissionCourseRead,
			PermissionCourseWrite,
			PermissionCoursePublish,
			PermissionPurchaseRead,
			PermissionPurchaseWrite,
			PermissionSalesRead,
			PermissionPayoutsRead,
			PermissionChangePassword,
		}
	case RoleStudent:
		return []string{
			PermissionCourseRead,
			PermissionPurchaseRead,
			PermissionPurchaseWrite,
			PermissionChangePassword,
		}
	default:
		return []string{}
	}
}
