// Package role owns role definitions scoped to an organization: an access
// level, a voter flag, and an admin flag. Removed roles stay on record as
// inactive for auditability.
package role

import (
	"strings"

	apperrors "github.com/netgovern/netgovern/internal/platform/errors"
)

// Access is the enumerated transaction permission attached to a role.
type Access int

const (
	// AccessReadOnly permits no transactions.
	AccessReadOnly Access = iota
	// AccessTransfer permits value transfers.
	AccessTransfer
	// AccessDeploy permits contract deployments.
	AccessDeploy
	// AccessFull permits every transaction kind.
	AccessFull
	// AccessCall permits contract calls.
	AccessCall
	// AccessTransferAndCall permits value transfers and contract calls.
	AccessTransferAndCall
	// AccessTransferAndDeploy permits value transfers and contract deployments.
	AccessTransferAndDeploy
	// AccessCallAndDeploy permits contract calls and contract deployments.
	AccessCallAndDeploy
)

// Valid reports whether the access value is one of the eight enumerated levels.
func (a Access) Valid() bool {
	return a >= AccessReadOnly && a <= AccessCallAndDeploy
}

// TxnKind classifies a transaction for admission decisions.
type TxnKind int

const (
	// TxnValueTransfer is a plain value transfer (target, no payload).
	TxnValueTransfer TxnKind = iota + 1
	// TxnContractDeploy is a contract deployment (no target).
	TxnContractDeploy
	// TxnContractCall is a contract call (target and payload).
	TxnContractCall
)

// Role is one role definition scoped to an organization.
type Role struct {
	ID     string
	OrgID  string
	Access Access
	Voter  bool
	Admin  bool
	Active bool
}

type roleKey struct {
	id    string
	orgID string
}

// Store owns the role definitions. The (role id, org id) pair is unique
// among active roles.
type Store struct {
	roles []Role
	index map[roleKey]int
}

// NewStore creates an empty role store.
func NewStore() *Store {
	return &Store{index: map[roleKey]int{}}
}

// Add creates a role scoped to an organization. It rejects an access value
// outside the enumeration and a duplicate of an active (role, org) pair.
// Re-adding a removed role records a fresh definition.
func (s *Store) Add(roleID, orgID string, access Access, isVoter, isAdmin bool) error {
	if strings.TrimSpace(roleID) == "" || strings.TrimSpace(orgID) == "" {
		return apperrors.New(apperrors.CodeInvalidArgument, "role id and org id are required")
	}
	if !access.Valid() {
		return apperrors.WithMetadata(apperrors.CodeInvalidAccessLevel, "access level is not valid", map[string]string{"RoleID": roleID})
	}
	key := roleKey{id: roleID, orgID: orgID}
	if idx, ok := s.index[key]; ok && s.roles[idx].Active {
		return apperrors.WithMetadata(apperrors.CodeRoleExists, "role exists for the org", map[string]string{"RoleID": roleID, "OrgID": orgID})
	}
	s.index[key] = len(s.roles)
	s.roles = append(s.roles, Role{ID: roleID, OrgID: orgID, Access: access, Voter: isVoter, Admin: isAdmin, Active: true})
	return nil
}

// Remove marks a role inactive. The definition is retained for history.
func (s *Store) Remove(roleID, orgID string) error {
	idx, ok := s.index[roleKey{id: roleID, orgID: orgID}]
	if !ok || !s.roles[idx].Active {
		return apperrors.WithMetadata(apperrors.CodeRoleNotFound, "role does not exist", map[string]string{"RoleID": roleID, "OrgID": orgID})
	}
	s.roles[idx].Active = false
	return nil
}

// Resolve looks the role up in the given org first, falling back to the
// org's ultimate root. The fallback lets root-level roles be reused by
// sub-organizations that never redefine them.
func (s *Store) Resolve(roleID, orgID, ultimateRootID string) (Role, bool) {
	if idx, ok := s.index[roleKey{id: roleID, orgID: orgID}]; ok && s.roles[idx].Active {
		return s.roles[idx], true
	}
	if idx, ok := s.index[roleKey{id: roleID, orgID: ultimateRootID}]; ok && s.roles[idx].Active {
		return s.roles[idx], true
	}
	return Role{}, false
}

// IsAdminRole reports whether the role resolves and carries the admin flag.
func (s *Store) IsAdminRole(roleID, orgID, ultimateRootID string) bool {
	r, ok := s.Resolve(roleID, orgID, ultimateRootID)
	return ok && r.Admin
}

// IsVoterRole reports whether the role resolves and carries the voter flag.
func (s *Store) IsVoterRole(roleID, orgID, ultimateRootID string) bool {
	r, ok := s.Resolve(roleID, orgID, ultimateRootID)
	return ok && r.Voter
}

// TransactionAllowed maps the resolved role's access level and the
// transaction kind to an admission decision.
func (s *Store) TransactionAllowed(roleID, orgID, ultimateRootID string, kind TxnKind) bool {
	r, ok := s.Resolve(roleID, orgID, ultimateRootID)
	if !ok {
		return false
	}
	return Allows(r.Access, kind)
}

// Allows reports whether the access level permits the transaction kind.
func Allows(access Access, kind TxnKind) bool {
	if access == AccessFull {
		return true
	}
	switch kind {
	case TxnValueTransfer:
		return access == AccessTransfer || access == AccessTransferAndCall || access == AccessTransferAndDeploy
	case TxnContractDeploy:
		return access == AccessDeploy || access == AccessTransferAndDeploy || access == AccessCallAndDeploy
	case TxnContractCall:
		return access == AccessCall || access == AccessTransferAndCall || access == AccessCallAndDeploy
	default:
		return false
	}
}
