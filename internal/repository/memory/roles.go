package memory

import (
	"context"
	"sort"

	"socialhub/internal/entity"

	"github.com/google/uuid"
)

func (s *Store) EnsureRole(_ context.Context, name string, description string) (*entity.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if role, ok := s.roles[name]; ok {
		return &role, nil
	}
	role := entity.Role{ID: uuid.New(), Name: name, Description: description, CreatedAt: s.now()}
	s.roles[name] = role
	return &role, nil
}

func (s *Store) EnsurePermission(_ context.Context, name string, description string) (*entity.Permission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if permission, ok := s.permissions[name]; ok {
		return &permission, nil
	}
	permission := entity.Permission{ID: uuid.New(), Name: name, Description: description, CreatedAt: s.now()}
	s.permissions[name] = permission
	return &permission, nil
}

func (s *Store) Grant(_ context.Context, roleID uuid.UUID, permissionID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grants[[2]uuid.UUID{roleID, permissionID}] = struct{}{}
	return nil
}

func (s *Store) FindRoleByName(_ context.Context, name string) (*entity.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	role, ok := s.roles[name]
	if !ok {
		return nil, nil
	}
	return &role, nil
}

func (s *Store) AssignUserRole(_ context.Context, userID uuid.UUID, roleID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userRoles[[2]uuid.UUID{userID, roleID}] = struct{}{}
	return nil
}

func (s *Store) RoleNamesForUser(_ context.Context, userID uuid.UUID) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := []string{}
	for _, role := range s.roles {
		if _, ok := s.userRoles[[2]uuid.UUID{userID, role.ID}]; ok {
			names = append(names, role.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// PermissionNamesForRole lists the permissions granted to a role.
func (s *Store) PermissionNamesForRole(roleName string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	role, ok := s.roles[roleName]
	if !ok {
		return nil
	}
	names := []string{}
	for _, permission := range s.permissions {
		if _, granted := s.grants[[2]uuid.UUID{role.ID, permission.ID}]; granted {
			names = append(names, permission.Name)
		}
	}
	sort.Strings(names)
	return names
}
