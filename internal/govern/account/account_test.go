package account

import (
	"testing"

	apperrors "github.com/netgovern/netgovern/internal/platform/errors"
)

const (
	netAdminRole = "ADMIN"
	orgAdminRole = "ORGADMIN"
)

func newTestStore() *Store {
	s := NewStore()
	s.SetRoleNames(netAdminRole, orgAdminRole)
	return s
}

func TestAssignAdminRoleRejectsOtherRoles(t *testing.T) {
	s := newTestStore()
	if err := s.AssignAdminRole("ADMINORG", "0xa", "READER", StatusPending); !apperrors.IsCode(err, apperrors.CodeInvalidArgument) {
		t.Fatalf("non-admin role error = %v, want INVALID_ARGUMENT", err)
	}
	if err := s.AssignAdminRole("ADMINORG", "0xa", netAdminRole, StatusPending); err != nil {
		t.Fatalf("assign network admin role: %v", err)
	}
	acct, ok := s.Get("0xa")
	if !ok || acct.Status != StatusPending || !acct.IsOrgAdmin {
		t.Fatalf("account = %+v, want pending admin-flagged record", acct)
	}
}

func TestAssignAccountRoleRejectsProtectedAndForeign(t *testing.T) {
	s := newTestStore()
	if err := s.AssignAccountRole("0xa", "ORG1", netAdminRole, StatusActive); !apperrors.IsCode(err, apperrors.CodeInvalidArgument) {
		t.Fatalf("protected role error = %v, want INVALID_ARGUMENT", err)
	}
	if err := s.AssignAccountRole("0xa", "ORG1", "READER", StatusActive); err != nil {
		t.Fatalf("assign role: %v", err)
	}
	if err := s.AssignAccountRole("0xa", "ORG2", "READER", StatusActive); !apperrors.IsCode(err, apperrors.CodeAccountInUse) {
		t.Fatalf("cross-org assignment error = %v, want ACCOUNT_IN_USE", err)
	}
	// Reassigning inside the same org overwrites the role.
	if err := s.AssignAccountRole("0xa", "ORG1", "WRITER", StatusActive); err != nil {
		t.Fatalf("reassign role: %v", err)
	}
	acct, _ := s.Get("0xa")
	if acct.RoleID != "WRITER" {
		t.Fatalf("role = %s, want WRITER", acct.RoleID)
	}
}

func TestPromoteToOrgAdmin(t *testing.T) {
	s := newTestStore()
	if err := s.AssignAdminRole("ORG1", "0xa", orgAdminRole, StatusPending); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if err := s.PromoteToOrgAdmin("ORG1", "0xa"); err != nil {
		t.Fatalf("promote: %v", err)
	}
	if !s.OrgAdminExists("ORG1") {
		t.Fatal("org admin should be recorded after promotion")
	}
	if admin, _ := s.OrgAdmin("ORG1"); admin != "0xa" {
		t.Fatalf("org admin = %s, want 0xa", admin)
	}

	// A second pending admin cannot be promoted while the first is active.
	if err := s.AssignAdminRole("ORG1", "0xb", orgAdminRole, StatusPending); err != nil {
		t.Fatalf("assign second: %v", err)
	}
	if err := s.PromoteToOrgAdmin("ORG1", "0xb"); !apperrors.IsCode(err, apperrors.CodeOrgAdminExists) {
		t.Fatalf("second promotion error = %v, want ORG_ADMIN_EXISTS", err)
	}
}

func TestRemoveExistingOrgAdmin(t *testing.T) {
	s := newTestStore()
	if err := s.AssignAdminRole("ADMINORG", "0xa", netAdminRole, StatusPending); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if err := s.PromoteToOrgAdmin("ADMINORG", "0xa"); err != nil {
		t.Fatalf("promote: %v", err)
	}

	removed, heldNetAdmin := s.RemoveExistingOrgAdmin("ADMINORG")
	if removed != "0xa" || !heldNetAdmin {
		t.Fatalf("removed = (%s, %v), want (0xa, true)", removed, heldNetAdmin)
	}
	acct, _ := s.Get("0xa")
	if acct.Status != StatusRevoked {
		t.Fatalf("status = %v, want revoked", acct.Status)
	}
	if s.OrgAdminExists("ADMINORG") {
		t.Fatal("admin pointer should be cleared")
	}
	if removed, _ := s.RemoveExistingOrgAdmin("ADMINORG"); removed != "" {
		t.Fatalf("second removal = %s, want empty", removed)
	}
}

func TestUpdateStatusTable(t *testing.T) {
	tests := []struct {
		name    string
		current Status
		action  Action
		want    Status
		wantErr apperrors.Code
	}{
		{name: "suspend active", current: StatusActive, action: ActionSuspend, want: StatusSuspended},
		{name: "suspend suspended", current: StatusSuspended, action: ActionSuspend, wantErr: apperrors.CodeAccountStatusInvalid},
		{name: "reactivate suspended", current: StatusSuspended, action: ActionReactivate, want: StatusActive},
		{name: "reactivate active", current: StatusActive, action: ActionReactivate, wantErr: apperrors.CodeAccountStatusInvalid},
		{name: "blacklist active", current: StatusActive, action: ActionBlacklist, want: StatusBlacklisted},
		{name: "blacklist suspended", current: StatusSuspended, action: ActionBlacklist, want: StatusBlacklisted},
		{name: "blacklist blacklisted", current: StatusBlacklisted, action: ActionBlacklist, wantErr: apperrors.CodeAccountStatusInvalid},
		{name: "recover blacklisted", current: StatusBlacklisted, action: ActionInitiateRecovery, want: StatusRecoveryInitiated},
		{name: "recover active", current: StatusActive, action: ActionInitiateRecovery, wantErr: apperrors.CodeAccountStatusInvalid},
		{name: "complete recovery", current: StatusRecoveryInitiated, action: ActionCompleteRecovery, want: StatusActive},
		{name: "complete without start", current: StatusBlacklisted, action: ActionCompleteRecovery, wantErr: apperrors.CodeAccountStatusInvalid},
		{name: "unknown action", current: StatusActive, action: Action(9), wantErr: apperrors.CodeInvalidAction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore()
			s.SetRole("0xa", "ORG1", "READER", tt.current, false)
			err := s.UpdateStatus("ORG1", "0xa", tt.action)
			if tt.wantErr != "" {
				if !apperrors.IsCode(err, tt.wantErr) {
					t.Fatalf("error = %v, want %s", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("update status: %v", err)
			}
			acct, _ := s.Get("0xa")
			if acct.Status != tt.want {
				t.Fatalf("status = %v, want %v", acct.Status, tt.want)
			}
		})
	}
}

func TestUpdateStatusRejectsActiveAdmin(t *testing.T) {
	s := newTestStore()
	if err := s.AssignAdminRole("ORG1", "0xa", orgAdminRole, StatusPending); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if err := s.PromoteToOrgAdmin("ORG1", "0xa"); err != nil {
		t.Fatalf("promote: %v", err)
	}
	if err := s.UpdateStatus("ORG1", "0xa", ActionSuspend); !apperrors.IsCode(err, apperrors.CodeAccountIsActiveAdmin) {
		t.Fatalf("suspend active admin error = %v, want ACCOUNT_IS_ACTIVE_ADMIN", err)
	}
}

func TestUpdateStatusUnknownAccount(t *testing.T) {
	s := newTestStore()
	if err := s.UpdateStatus("ORG1", "0xmissing", ActionSuspend); !apperrors.IsCode(err, apperrors.CodeAccountNotFound) {
		t.Fatalf("error = %v, want ACCOUNT_NOT_FOUND", err)
	}
	s.SetRole("0xa", "ORG1", "READER", StatusActive, false)
	if err := s.UpdateStatus("ORG2", "0xa", ActionSuspend); !apperrors.IsCode(err, apperrors.CodeAccountNotFound) {
		t.Fatalf("wrong-org error = %v, want ACCOUNT_NOT_FOUND", err)
	}
}

func TestIsNetworkAdmin(t *testing.T) {
	s := newTestStore()
	if err := s.AssignAdminRole("ADMINORG", "0xa", netAdminRole, StatusPending); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if s.IsNetworkAdmin("0xa") {
		t.Fatal("pending admin should not count as network admin")
	}
	if err := s.PromoteToOrgAdmin("ADMINORG", "0xa"); err != nil {
		t.Fatalf("promote: %v", err)
	}
	if !s.IsNetworkAdmin("0xa") {
		t.Fatal("active admin should count as network admin")
	}
}

func TestIsAdminOf(t *testing.T) {
	s := newTestStore()
	if err := s.AssignAdminRole("ADMINORG", "0xnet", netAdminRole, StatusPending); err != nil {
		t.Fatalf("assign net admin: %v", err)
	}
	if err := s.PromoteToOrgAdmin("ADMINORG", "0xnet"); err != nil {
		t.Fatalf("promote net admin: %v", err)
	}
	if err := s.AssignAdminRole("ORG1", "0xorg", orgAdminRole, StatusPending); err != nil {
		t.Fatalf("assign org admin: %v", err)
	}
	if err := s.PromoteToOrgAdmin("ORG1", "0xorg"); err != nil {
		t.Fatalf("promote org admin: %v", err)
	}

	if !s.IsAdminOf("0xnet", "ORG2", "ORG2") {
		t.Fatal("network admin should administer every org")
	}
	if !s.IsAdminOf("0xorg", "ORG1", "ORG1") {
		t.Fatal("org admin should administer its own org")
	}
	if !s.IsAdminOf("0xorg", "ORG1.SUB", "ORG1") {
		t.Fatal("org admin of the ultimate root should administer sub-orgs")
	}
	if s.IsAdminOf("0xorg", "ORG2", "ORG2") {
		t.Fatal("org admin should not administer a foreign org")
	}
	if s.IsAdminOf("0xmissing", "ORG1", "ORG1") {
		t.Fatal("unknown account should not be an admin")
	}
}
