package service

import (
	"context"
	"fmt"

	"socialhub/internal/entity"
	"socialhub/internal/repository"
)

type catalogEntry struct {
	Name        string
	Description string
}

var permissionCatalog = []catalogEntry{
	{"read_public", "Read public posts and profiles"},
	{"create_post", "Publish posts"},
	{"edit_own_post", "Edit posts you authored"},
	{"delete_own_post", "Delete posts you authored"},
	{"delete_any_post", "Delete any post"},
	{"comment", "Comment on posts"},
	{"like", "Like posts and comments"},
	{"follow", "Follow other users"},
	{"report", "Report content"},
	{"moderate_reports", "Review and resolve reports"},
	{"verify_users", "Grant or revoke the verified badge"},
	{"manage_users", "Administer user accounts"},
}

var roleCatalog = []catalogEntry{
	{entity.RoleAdministrator, "Full control over the platform"},
	{entity.RoleModerator, "Moderates content and reports"},
	{entity.RoleStandardUser, "Regular registered member"},
	{entity.RoleVisitor, "Unauthenticated reader"},
}

var roleGrants = map[string][]string{
	entity.RoleAdministrator: {
		"read_public", "create_post", "edit_own_post", "delete_own_post", "delete_any_post",
		"comment", "like", "follow", "report", "moderate_reports", "verify_users", "manage_users",
	},
	entity.RoleModerator: {
		"read_public", "create_post", "edit_own_post", "delete_own_post", "delete_any_post",
		"comment", "like", "follow", "report", "moderate_reports",
	},
	entity.RoleStandardUser: {
		"read_public", "create_post", "edit_own_post", "delete_own_post",
		"comment", "like", "follow", "report",
	},
	entity.RoleVisitor: {"read_public"},
}

// SeedRoles installs the fixed role and permission catalog. It is safe to
// run on every start.
func SeedRoles(ctx context.Context, roles repository.RoleRepository) error {
	permissions := make(map[string]*entity.Permission, len(permissionCatalog))
	for _, entry := range permissionCatalog {
		permission, err := roles.EnsurePermission(ctx, entry.Name, entry.Description)
		if err != nil {
			return fmt.Errorf("seed permission %q: %w", entry.Name, err)
		}
		permissions[entry.Name] = permission
	}

	for _, entry := range roleCatalog {
		role, err := roles.EnsureRole(ctx, entry.Name, entry.Description)
		if err != nil {
			return fmt.Errorf("seed role %q: %w", entry.Name, err)
		}
		for _, name := range roleGrants[entry.Name] {
			if err := roles.Grant(ctx, role.ID, permissions[name].ID); err != nil {
				return fmt.Errorf("grant %q to %q: %w", name, entry.Name, err)
			}
		}
	}
	return nil
}
