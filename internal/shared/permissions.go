package shared

// Permission names checked by route guards. Seeded at install time.
const (
	PermUserCreate = "user:create"
	PermUserRead   = "user:read"
	PermUserUpdate = "user:update"
	PermUserDelete = "user:delete"

	PermEmojiCreate   = "emoji:create"
	PermEmojiRead     = "emoji:read"
	PermEmojiFavorite = "emoji:favorite"

	PermPermissionCreate = "permission:create"
	PermPermissionRead   = "permission:read"
	PermPermissionAssign = "permission:assign"
	PermPermissionRevoke = "permission:revoke"
)

// BuiltinPermissions enumerates every permission the routes reference.
func BuiltinPermissions() []string {
	return []string{
		PermUserCreate, PermUserRead, PermUserUpdate, PermUserDelete,
		PermEmojiCreate, PermEmojiRead, PermEmojiFavorite,
		PermPermissionCreate, PermPermissionRead, PermPermissionAssign, PermPermissionRevoke,
	}
}
