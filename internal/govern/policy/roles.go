package policy

import (
	"context"

	"github.com/netgovern/netgovern/internal/govern/event"
	"github.com/netgovern/netgovern/internal/govern/role"
	apperrors "github.com/netgovern/netgovern/internal/platform/errors"
)

// AddRole creates a role scoped to orgID, effective immediately. Org
// admin only.
func (e *Engine) AddRole(ctx context.Context, caller, orgID, roleID string, access role.Access, isVoter, isAdmin bool) ([]event.Event, error) {
	ctx, span := e.tracer.Start(ctx, "govern.add_role")
	defer span.End()

	if err := e.requireBooted(); err != nil {
		return nil, err
	}
	if err := e.requireOrgAdmin(caller, orgID); err != nil {
		return nil, err
	}
	if !e.orgs.IsActive(orgID) {
		return nil, apperrors.WithMetadata(apperrors.CodeOrgStatusInvalid,
			"org is not active", map[string]string{"OrgID": orgID})
	}

	if err := e.roles.Add(roleID, orgID, access, isVoter, isAdmin); err != nil {
		return nil, err
	}

	evs := []event.Event{
		e.newEvent(event.TypeRoleCreated, event.KindRole, roleID, orgID, "active", caller),
	}
	e.record(ctx, evs)
	return evs, nil
}

// RemoveRole soft-removes a role from orgID. The two protected role
// names cannot be removed. Org admin only.
func (e *Engine) RemoveRole(ctx context.Context, caller, orgID, roleID string) ([]event.Event, error) {
	ctx, span := e.tracer.Start(ctx, "govern.remove_role")
	defer span.End()

	if err := e.requireBooted(); err != nil {
		return nil, err
	}
	if err := e.requireOrgAdmin(caller, orgID); err != nil {
		return nil, err
	}
	if roleID == e.netAdminRole || roleID == e.orgAdminRole {
		return nil, apperrors.WithMetadata(apperrors.CodeRoleProtected,
			"protected admin roles cannot be removed", map[string]string{"RoleID": roleID})
	}

	if err := e.roles.Remove(roleID, orgID); err != nil {
		return nil, err
	}

	evs := []event.Event{
		e.newEvent(event.TypeRoleRemoved, event.KindRole, roleID, orgID, "removed", caller),
	}
	e.record(ctx, evs)
	return evs, nil
}
