// Package account owns per-account permissioning records: organization
// membership, role assignment, status, and the per-organization current
// org-admin pointer.
package account

import (
	"strings"

	apperrors "github.com/netgovern/netgovern/internal/platform/errors"
)

// Status describes the lifecycle of an account.
type Status int

const (
	// StatusNotListed represents an unknown account.
	StatusNotListed Status = iota
	// StatusPending indicates an account awaiting admin approval.
	StatusPending
	// StatusActive indicates a usable account.
	StatusActive
	// StatusInactive indicates an account that is listed but not usable.
	StatusInactive
	// StatusSuspended indicates a suspended account.
	StatusSuspended
	// StatusBlacklisted indicates a blacklisted account.
	StatusBlacklisted
	// StatusRevoked indicates an account whose admin standing was revoked.
	StatusRevoked
	// StatusRecoveryInitiated indicates a blacklisted account mid-recovery.
	StatusRecoveryInitiated
)

// String returns the status label used in events and journal rows.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusActive:
		return "active"
	case StatusInactive:
		return "inactive"
	case StatusSuspended:
		return "suspended"
	case StatusBlacklisted:
		return "blacklisted"
	case StatusRevoked:
		return "revoked"
	case StatusRecoveryInitiated:
		return "recovery_initiated"
	default:
		return "not_listed"
	}
}

// Action drives the account status machine.
type Action int

const (
	// ActionSuspend moves an Active account to Suspended.
	ActionSuspend Action = iota + 1
	// ActionReactivate moves a Suspended account back to Active.
	ActionReactivate
	// ActionBlacklist moves any non-blacklisted account to Blacklisted.
	ActionBlacklist
	// ActionInitiateRecovery moves a Blacklisted account to RecoveryInitiated.
	ActionInitiateRecovery
	// ActionCompleteRecovery moves a RecoveryInitiated account to Active.
	ActionCompleteRecovery
)

// Account is one account record. Records are created once and mutated in
// place; they are never deleted.
type Account struct {
	Address    string
	OrgID      string
	RoleID     string
	Status     Status
	IsOrgAdmin bool
}

// Store owns the account records and the per-organization current
// org-admin pointer.
type Store struct {
	accounts map[string]*Account
	orgAdmin map[string]string

	netAdminRole string
	orgAdminRole string
}

// NewStore creates an empty account store.
func NewStore() *Store {
	return &Store{
		accounts: map[string]*Account{},
		orgAdmin: map[string]string{},
	}
}

// SetRoleNames records the two protected role identifiers. One-time
// configuration performed during network boot.
func (s *Store) SetRoleNames(networkAdminRole, orgAdminRole string) {
	s.netAdminRole = networkAdminRole
	s.orgAdminRole = orgAdminRole
}

// Count returns the number of known accounts.
func (s *Store) Count() int {
	return len(s.accounts)
}

// SetRole is the single low-level mutator: an unknown account is created,
// an existing account's org, role, status, and org-admin flag are
// overwritten.
func (s *Store) SetRole(address, orgID, roleID string, status Status, isOrgAdmin bool) {
	if acct, ok := s.accounts[address]; ok {
		acct.OrgID = orgID
		acct.RoleID = roleID
		acct.Status = status
		acct.IsOrgAdmin = isOrgAdmin
		return
	}
	s.accounts[address] = &Account{Address: address, OrgID: orgID, RoleID: roleID, Status: status, IsOrgAdmin: isOrgAdmin}
}

// AssignAdminRole assigns one of the two protected admin roles. Any other
// role id is rejected.
func (s *Store) AssignAdminRole(orgID, address, roleID string, status Status) error {
	if roleID != s.netAdminRole && roleID != s.orgAdminRole {
		return apperrors.WithMetadata(apperrors.CodeInvalidArgument, "role is not an admin role", map[string]string{"RoleID": roleID})
	}
	s.SetRole(address, orgID, roleID, status, true)
	return nil
}

// AssignAccountRole assigns a non-admin role. The two protected admin role
// ids are rejected, as is an account already attached to a different org.
func (s *Store) AssignAccountRole(address, orgID, roleID string, status Status) error {
	if roleID == s.netAdminRole || roleID == s.orgAdminRole {
		return apperrors.WithMetadata(apperrors.CodeInvalidArgument, "role is a protected admin role", map[string]string{"RoleID": roleID})
	}
	if acct, ok := s.accounts[address]; ok && acct.OrgID != orgID {
		return apperrors.WithMetadata(apperrors.CodeAccountInUse, "account is in use in another org", map[string]string{"Account": address})
	}
	s.SetRole(address, orgID, roleID, status, false)
	return nil
}

// RemoveExistingOrgAdmin demotes the recorded org-admin for an org to
// Revoked and reports the demoted address and whether it held the
// network-admin role at demotion time. A missing or inactive admin is a
// no-op reported as an empty address.
func (s *Store) RemoveExistingOrgAdmin(orgID string) (address string, heldNetworkAdmin bool) {
	addr, ok := s.orgAdmin[orgID]
	if !ok {
		return "", false
	}
	acct, ok := s.accounts[addr]
	if !ok || acct.Status != StatusActive {
		return "", false
	}
	heldNetworkAdmin = acct.RoleID == s.netAdminRole
	acct.Status = StatusRevoked
	delete(s.orgAdmin, orgID)
	return addr, heldNetworkAdmin
}

// PromoteToOrgAdmin activates an account as org admin. When the account
// holds the org-admin role and was Pending, it is recorded as the org's
// current admin, completing the assign-then-approve cycle.
func (s *Store) PromoteToOrgAdmin(orgID, address string) error {
	acct, ok := s.accounts[address]
	if !ok {
		return apperrors.WithMetadata(apperrors.CodeAccountNotFound, "account does not exist", map[string]string{"Account": address})
	}
	if !acct.IsOrgAdmin {
		return apperrors.WithMetadata(apperrors.CodeInvalidArgument, "account is not admin-flagged", map[string]string{"Account": address})
	}
	if current, ok := s.orgAdmin[orgID]; ok && current != address {
		if cur, exists := s.accounts[current]; exists && cur.Status == StatusActive {
			return apperrors.WithMetadata(apperrors.CodeOrgAdminExists, "an active org admin already exists for the org", map[string]string{"OrgID": orgID})
		}
	}
	wasPending := acct.Status == StatusPending
	acct.Status = StatusActive
	if acct.RoleID == s.orgAdminRole && wasPending {
		s.orgAdmin[orgID] = address
	}
	if acct.RoleID == s.netAdminRole {
		s.orgAdmin[orgID] = address
	}
	return nil
}

// UpdateStatus drives the account status machine. The organization's
// currently active org admin and the active network admin cannot be
// status-changed through this path.
func (s *Store) UpdateStatus(orgID, address string, action Action) error {
	acct, ok := s.accounts[address]
	if !ok || acct.OrgID != orgID {
		return apperrors.WithMetadata(apperrors.CodeAccountNotFound, "account does not exist in the org", map[string]string{"Account": address, "OrgID": orgID})
	}
	if acct.Status == StatusActive && acct.IsOrgAdmin {
		return apperrors.WithMetadata(apperrors.CodeAccountIsActiveAdmin, "account is the active admin", map[string]string{"Account": address})
	}

	next, err := nextStatus(acct.Status, action, address)
	if err != nil {
		return err
	}
	acct.Status = next
	return nil
}

func nextStatus(current Status, action Action, address string) (Status, error) {
	invalid := func() (Status, error) {
		return StatusNotListed, apperrors.WithMetadata(apperrors.CodeAccountStatusInvalid, "account status does not allow the action", map[string]string{"Account": address})
	}
	switch action {
	case ActionSuspend:
		if current != StatusActive {
			return invalid()
		}
		return StatusSuspended, nil
	case ActionReactivate:
		if current != StatusSuspended {
			return invalid()
		}
		return StatusActive, nil
	case ActionBlacklist:
		if current == StatusBlacklisted {
			return invalid()
		}
		return StatusBlacklisted, nil
	case ActionInitiateRecovery:
		if current != StatusBlacklisted {
			return invalid()
		}
		return StatusRecoveryInitiated, nil
	case ActionCompleteRecovery:
		if current != StatusRecoveryInitiated {
			return invalid()
		}
		return StatusActive, nil
	default:
		return StatusNotListed, apperrors.WithMetadata(apperrors.CodeInvalidAction, "action is not a valid account status action", map[string]string{"Account": address})
	}
}

// Get returns the account record for the given address.
func (s *Store) Get(address string) (Account, bool) {
	acct, ok := s.accounts[address]
	if !ok {
		return Account{}, false
	}
	return *acct, true
}

// OrgAdminExists reports whether the org has a recorded, currently active
// org admin.
func (s *Store) OrgAdminExists(orgID string) bool {
	addr, ok := s.orgAdmin[orgID]
	if !ok {
		return false
	}
	acct, ok := s.accounts[addr]
	return ok && acct.Status == StatusActive
}

// OrgAdmin returns the org's recorded current admin address, if any.
func (s *Store) OrgAdmin(orgID string) (string, bool) {
	addr, ok := s.orgAdmin[orgID]
	return addr, ok
}

// IsNetworkAdmin reports whether the account is the active holder of the
// network-admin role.
func (s *Store) IsNetworkAdmin(address string) bool {
	acct, ok := s.accounts[address]
	return ok && acct.Status == StatusActive && acct.RoleID == s.netAdminRole
}

// IsAdminOf reports whether the account is authorized to administer the
// given org: the active network admin, or an active org-admin account
// attached to the org or to the named ultimate root.
func (s *Store) IsAdminOf(address, orgID, ultimateRootID string) bool {
	acct, ok := s.accounts[address]
	if !ok || acct.Status != StatusActive {
		return false
	}
	if acct.RoleID == s.netAdminRole {
		return true
	}
	if !acct.IsOrgAdmin {
		return false
	}
	return acct.OrgID == orgID || (strings.TrimSpace(ultimateRootID) != "" && acct.OrgID == ultimateRootID)
}
