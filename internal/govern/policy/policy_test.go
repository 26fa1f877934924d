package policy

import (
	"context"
	"testing"

	"github.com/netgovern/netgovern/internal/govern/account"
	"github.com/netgovern/netgovern/internal/govern/event"
	"github.com/netgovern/netgovern/internal/govern/journal"
	"github.com/netgovern/netgovern/internal/govern/node"
	"github.com/netgovern/netgovern/internal/govern/org"
	"github.com/netgovern/netgovern/internal/govern/role"
	"github.com/netgovern/netgovern/internal/govern/voting"
	apperrors "github.com/netgovern/netgovern/internal/platform/errors"
)

const (
	adminOrg     = "ADMINORG"
	netAdminRole = "ADMIN"
	orgAdminRole = "ORGADMIN"
	adminAccount = "0xadmin"
	adminNode    = "enode://admin"
)

func bootedEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	ctx := context.Background()
	e := New(opts...)
	if err := e.SetPolicy(adminOrg, netAdminRole, orgAdminRole); err != nil {
		t.Fatalf("set policy: %v", err)
	}
	if _, err := e.InitializeRoot(ctx, 3, 4); err != nil {
		t.Fatalf("initialize root: %v", err)
	}
	if _, err := e.SeedAdminNode(ctx, adminNode, "10.0.0.1", 21000, 50401); err != nil {
		t.Fatalf("seed admin node: %v", err)
	}
	if _, err := e.SeedAdminAccount(ctx, adminAccount); err != nil {
		t.Fatalf("seed admin account: %v", err)
	}
	if err := e.CompleteBoot(); err != nil {
		t.Fatalf("complete boot: %v", err)
	}
	return e
}

// approvedOrg moves a fresh org through the propose/approve cycle.
func approvedOrg(t *testing.T, e *Engine, orgID string) {
	t.Helper()
	ctx := context.Background()
	if _, err := e.AddOrg(ctx, adminAccount, orgID); err != nil {
		t.Fatalf("add org %s: %v", orgID, err)
	}
	if _, err := e.ApproveOrg(ctx, adminAccount, orgID); err != nil {
		t.Fatalf("approve org %s: %v", orgID, err)
	}
}

func TestBootSequence(t *testing.T) {
	ctx := context.Background()
	e := New()

	if !e.TransactionAllowed("0xanyone", "0xtarget", nil) {
		t.Fatal("transactions should be allowed before boot")
	}
	if !e.ConnectionAllowed("enode://unknown", "1.2.3.4", 30303) {
		t.Fatal("connections should be allowed before boot")
	}
	if _, err := e.InitializeRoot(ctx, 3, 4); !apperrors.IsCode(err, apperrors.CodeInvalidArgument) {
		t.Fatalf("initialize before policy error = %v, want INVALID_ARGUMENT", err)
	}
	if _, err := e.AddOrg(ctx, adminAccount, "ORG1"); !apperrors.IsCode(err, apperrors.CodeNetworkNotBooted) {
		t.Fatalf("governed op before boot error = %v, want NETWORK_NOT_BOOTED", err)
	}

	if err := e.SetPolicy(adminOrg, netAdminRole, orgAdminRole); err != nil {
		t.Fatalf("set policy: %v", err)
	}
	if _, err := e.InitializeRoot(ctx, 3, 4); err != nil {
		t.Fatalf("initialize root: %v", err)
	}
	if _, err := e.SeedAdminAccount(ctx, adminAccount); err != nil {
		t.Fatalf("seed admin account: %v", err)
	}
	if _, err := e.SeedAdminAccount(ctx, "0xsecond"); !apperrors.IsCode(err, apperrors.CodeAccountsExist) {
		t.Fatalf("second seed error = %v, want ACCOUNTS_EXIST", err)
	}
	if err := e.CompleteBoot(); err != nil {
		t.Fatalf("complete boot: %v", err)
	}

	if !e.IsNetworkAdmin(adminAccount) {
		t.Fatal("seeded account should be the network admin")
	}
	if err := e.SetPolicy("OTHER", "A", "B"); !apperrors.IsCode(err, apperrors.CodeNetworkAlreadyBooted) {
		t.Fatalf("post-boot policy change error = %v, want NETWORK_ALREADY_BOOTED", err)
	}
	if _, err := e.SeedAdminAccount(ctx, "0xlate"); !apperrors.IsCode(err, apperrors.CodeNetworkAlreadyBooted) {
		t.Fatalf("post-boot seed error = %v, want NETWORK_ALREADY_BOOTED", err)
	}
	if err := e.CompleteBoot(); !apperrors.IsCode(err, apperrors.CodeNetworkAlreadyBooted) {
		t.Fatalf("double boot error = %v, want NETWORK_ALREADY_BOOTED", err)
	}
}

func TestAddOrgLifecycle(t *testing.T) {
	ctx := context.Background()
	e := bootedEngine(t)

	if _, err := e.AddOrg(ctx, "0xstranger", "ORG1"); !apperrors.IsCode(err, apperrors.CodeAuthNotNetworkAdmin) {
		t.Fatalf("stranger error = %v, want AUTH_NOT_NETWORK_ADMIN", err)
	}
	if _, err := e.AddOrg(ctx, adminAccount, "ORG1"); err != nil {
		t.Fatalf("add org: %v", err)
	}
	if got := e.PendingOperation().Type; got != voting.OpAddOrg {
		t.Fatalf("pending = %v, want add_org", got)
	}
	if _, err := e.AddOrg(ctx, adminAccount, "ORG2"); !apperrors.IsCode(err, apperrors.CodeVotingOperationPending) {
		t.Fatalf("second proposal error = %v, want VOTING_OPERATION_PENDING", err)
	}
	if _, err := e.ApproveOrg(ctx, adminAccount, "ORG9"); !apperrors.IsCode(err, apperrors.CodeVotingWrongSubject) {
		t.Fatalf("mismatched approval error = %v, want VOTING_WRONG_SUBJECT", err)
	}

	evs, err := e.ApproveOrg(ctx, adminAccount, "ORG1")
	if err != nil {
		t.Fatalf("approve org: %v", err)
	}
	o, err := e.Org("ORG1")
	if err != nil || o.Status != org.StatusApproved {
		t.Fatalf("org = (%+v, %v), want approved", o, err)
	}
	if _, ok := e.roles.Resolve(orgAdminRole, "ORG1", "ORG1"); !ok {
		t.Fatal("default org-admin role should be created on approval")
	}
	var decided bool
	for _, ev := range evs {
		if ev.Type == event.TypeVoteDecided {
			decided = true
		}
	}
	if !decided {
		t.Fatal("single-voter approval should decide the vote")
	}
	// Terminal transitions are not repeatable.
	if _, err := e.ApproveOrg(ctx, adminAccount, "ORG1"); !apperrors.IsCode(err, apperrors.CodeVotingNoOperation) {
		t.Fatalf("re-approval error = %v, want VOTING_NO_OPERATION", err)
	}

	if _, err := e.AddOrg(ctx, adminAccount, "ORG1"); !apperrors.IsCode(err, apperrors.CodeOrgExists) {
		t.Fatalf("duplicate org error = %v, want ORG_EXISTS", err)
	}
}

func TestOrgSuspendRevokeRoundTrip(t *testing.T) {
	ctx := context.Background()
	e := bootedEngine(t)
	approvedOrg(t, e, "ORG1")

	if _, err := e.UpdateOrgStatus(ctx, adminAccount, "ORG1", OrgActionSuspend); err != nil {
		t.Fatalf("propose suspension: %v", err)
	}
	if _, err := e.ApproveOrgStatus(ctx, adminAccount, "ORG1", OrgActionRevokeSuspension); !apperrors.IsCode(err, apperrors.CodeVotingWrongSubject) {
		t.Fatalf("mismatched action error = %v, want VOTING_WRONG_SUBJECT", err)
	}
	if _, err := e.ApproveOrgStatus(ctx, adminAccount, "ORG1", OrgActionSuspend); err != nil {
		t.Fatalf("approve suspension: %v", err)
	}
	o, _ := e.Org("ORG1")
	if o.Status != org.StatusSuspended {
		t.Fatalf("status = %v, want suspended", o.Status)
	}

	if _, err := e.UpdateOrgStatus(ctx, adminAccount, "ORG1", OrgActionRevokeSuspension); err != nil {
		t.Fatalf("propose revocation: %v", err)
	}
	if _, err := e.ApproveOrgStatus(ctx, adminAccount, "ORG1", OrgActionRevokeSuspension); err != nil {
		t.Fatalf("approve revocation: %v", err)
	}
	restored, _ := e.Org("ORG1")
	if restored.Status != org.StatusApproved {
		t.Fatalf("status = %v, want approved after round trip", restored.Status)
	}
	if restored.FullID != o.FullID || restored.Level != o.Level || restored.UltimateParent != o.UltimateParent {
		t.Fatal("round trip should preserve hierarchy attributes")
	}
}

func TestAddSubOrg(t *testing.T) {
	ctx := context.Background()
	e := bootedEngine(t)
	approvedOrg(t, e, "ORG1")

	if _, err := e.AddSubOrg(ctx, adminAccount, "ORG1", "SUB"); err != nil {
		t.Fatalf("add sub-org: %v", err)
	}
	o, err := e.Org("ORG1.SUB")
	if err != nil || o.Status != org.StatusApproved {
		t.Fatalf("sub-org = (%+v, %v), want approved", o, err)
	}

	if _, err := e.UpdateOrgStatus(ctx, adminAccount, "ORG1", OrgActionSuspend); err != nil {
		t.Fatalf("propose suspension: %v", err)
	}
	if _, err := e.ApproveOrgStatus(ctx, adminAccount, "ORG1", OrgActionSuspend); err != nil {
		t.Fatalf("approve suspension: %v", err)
	}
	if _, err := e.AddSubOrg(ctx, adminAccount, "ORG1", "SUB2"); !apperrors.IsCode(err, apperrors.CodeOrgStatusInvalid) {
		t.Fatalf("sub-org under suspended parent error = %v, want ORG_STATUS_INVALID", err)
	}
}

func TestAdminTransfer(t *testing.T) {
	ctx := context.Background()
	e := bootedEngine(t)
	const newAdmin = "0xnew"

	if _, err := e.AssignAdminRole(ctx, adminAccount, newAdmin); err != nil {
		t.Fatalf("propose transfer: %v", err)
	}
	acct, ok := e.Account(newAdmin)
	if !ok || acct.Status != account.StatusPending {
		t.Fatalf("proposed admin = (%+v, %v), want pending record", acct, ok)
	}
	if _, err := e.AssignAdminRole(ctx, adminAccount, "0xother"); !apperrors.IsCode(err, apperrors.CodeVotingOperationPending) {
		t.Fatalf("second proposal error = %v, want VOTING_OPERATION_PENDING", err)
	}
	if _, err := e.ApproveAdminRole(ctx, adminAccount, "0xother"); !apperrors.IsCode(err, apperrors.CodeVotingWrongSubject) {
		t.Fatalf("mismatched approval error = %v, want VOTING_WRONG_SUBJECT", err)
	}

	if _, err := e.ApproveAdminRole(ctx, adminAccount, newAdmin); err != nil {
		t.Fatalf("approve transfer: %v", err)
	}

	if !e.IsNetworkAdmin(newAdmin) {
		t.Fatal("new account should be the network admin")
	}
	if e.IsNetworkAdmin(adminAccount) {
		t.Fatal("old admin should no longer be the network admin")
	}
	old, _ := e.Account(adminAccount)
	if old.Status != account.StatusRevoked || old.RoleID != orgAdminRole {
		t.Fatalf("old admin = %+v, want revoked org-admin record", old)
	}

	// The roster now contains only the new admin: it can decide a vote
	// alone and the old admin cannot vote at all.
	if _, err := e.AddOrg(ctx, newAdmin, "ORG1"); err != nil {
		t.Fatalf("add org as new admin: %v", err)
	}
	if _, err := e.ApproveOrg(ctx, adminAccount, "ORG1"); !apperrors.IsCode(err, apperrors.CodeAuthNotNetworkAdmin) {
		t.Fatalf("old admin approval error = %v, want AUTH_NOT_NETWORK_ADMIN", err)
	}
	if _, err := e.ApproveOrg(ctx, newAdmin, "ORG1"); err != nil {
		t.Fatalf("approve as new admin: %v", err)
	}
	o, _ := e.Org("ORG1")
	if o.Status != org.StatusApproved {
		t.Fatalf("status = %v, want approved by the sole new voter", o.Status)
	}
}

func TestAssignAdminRoleRejectsForeignAccount(t *testing.T) {
	ctx := context.Background()
	e := bootedEngine(t)
	approvedOrg(t, e, "ORG1")
	if _, err := e.AddRole(ctx, adminAccount, "ORG1", "READER", role.AccessTransfer, false, false); err != nil {
		t.Fatalf("add role: %v", err)
	}
	if _, err := e.AssignAccountRole(ctx, adminAccount, "ORG1", "0xb", "READER"); err != nil {
		t.Fatalf("assign role: %v", err)
	}
	if _, err := e.AssignAdminRole(ctx, adminAccount, "0xb"); !apperrors.IsCode(err, apperrors.CodeAccountInUse) {
		t.Fatalf("foreign account error = %v, want ACCOUNT_IN_USE", err)
	}
}

func TestNodeLifecycle(t *testing.T) {
	ctx := context.Background()
	e := bootedEngine(t)
	approvedOrg(t, e, "ORG1")
	const id = "enode://n1"

	if _, err := e.AddNode(ctx, adminAccount, "ORG1", id, "10.0.0.2", 21001, 50402); err != nil {
		t.Fatalf("add node: %v", err)
	}

	// Stale approval attributes are a silent no-op.
	evs, err := e.ApproveNode(ctx, adminAccount, "ORG1", id, "10.0.0.2", 21099, 50402)
	if err != nil {
		t.Fatalf("stale approval should not error: %v", err)
	}
	if len(evs) != 0 {
		t.Fatalf("stale approval emitted %d events, want 0", len(evs))
	}
	n, _ := e.Node(id)
	if n.Status != node.StatusPending {
		t.Fatalf("status = %v, want pending after stale approval", n.Status)
	}

	if _, err := e.ApproveNode(ctx, adminAccount, "ORG1", id, "10.0.0.2", 21001, 50402); err != nil {
		t.Fatalf("approve node: %v", err)
	}
	if !e.ConnectionAllowed(id, "10.0.0.2", 21001) {
		t.Fatal("approved node should connect")
	}

	if _, err := e.UpdateNodeStatus(ctx, adminAccount, "ORG1", id, "10.0.0.2", 21001, 50402, node.ActionInitiateRecovery); !apperrors.IsCode(err, apperrors.CodeInvalidAction) {
		t.Fatalf("recovery via direct update error = %v, want INVALID_ACTION", err)
	}
	if _, err := e.UpdateNodeStatus(ctx, adminAccount, "ORG1", id, "10.0.0.2", 21001, 50402, node.ActionDeactivate); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if e.ConnectionAllowed(id, "10.0.0.2", 21001) {
		t.Fatal("deactivated node should be refused")
	}
}

func TestNodeRecoveryFlow(t *testing.T) {
	ctx := context.Background()
	e := bootedEngine(t)
	approvedOrg(t, e, "ORG1")
	const id = "enode://n1"

	if _, err := e.AddNode(ctx, adminAccount, "ORG1", id, "10.0.0.2", 21001, 50402); err != nil {
		t.Fatalf("add node: %v", err)
	}
	if _, err := e.StartNodeRecovery(ctx, adminAccount, "ORG1", id); !apperrors.IsCode(err, apperrors.CodeNodeStatusInvalid) {
		t.Fatalf("recovery of pending node error = %v, want NODE_STATUS_INVALID", err)
	}
	if _, err := e.UpdateNodeStatus(ctx, adminAccount, "ORG1", id, "10.0.0.2", 21001, 50402, node.ActionBlacklist); err != nil {
		t.Fatalf("blacklist: %v", err)
	}

	if _, err := e.StartNodeRecovery(ctx, adminAccount, "ORG1", id); err != nil {
		t.Fatalf("start recovery: %v", err)
	}
	n, _ := e.Node(id)
	if n.Status != node.StatusRecoveryInitiated {
		t.Fatalf("status = %v, want recovery_initiated", n.Status)
	}
	if _, err := e.ApproveNodeRecovery(ctx, adminAccount, "ORG1", id); err != nil {
		t.Fatalf("approve recovery: %v", err)
	}
	n, _ = e.Node(id)
	if n.Status != node.StatusActive {
		t.Fatalf("status = %v, want active after recovery", n.Status)
	}
}

func TestAccountStatusAndRecovery(t *testing.T) {
	ctx := context.Background()
	e := bootedEngine(t)
	approvedOrg(t, e, "ORG1")
	const addr = "0xb"

	if _, err := e.AddRole(ctx, adminAccount, "ORG1", "READER", role.AccessTransfer, false, false); err != nil {
		t.Fatalf("add role: %v", err)
	}
	if _, err := e.AssignAccountRole(ctx, adminAccount, "ORG1", addr, "READER"); err != nil {
		t.Fatalf("assign role: %v", err)
	}
	if _, err := e.AssignAccountRole(ctx, adminAccount, "ORG1", addr, "MISSING"); !apperrors.IsCode(err, apperrors.CodeRoleNotFound) {
		t.Fatalf("unknown role error = %v, want ROLE_NOT_FOUND", err)
	}

	if _, err := e.UpdateAccountStatus(ctx, adminAccount, "ORG1", addr, account.ActionInitiateRecovery); !apperrors.IsCode(err, apperrors.CodeInvalidAction) {
		t.Fatalf("recovery via direct update error = %v, want INVALID_ACTION", err)
	}
	if _, err := e.UpdateAccountStatus(ctx, adminAccount, "ORG1", addr, account.ActionBlacklist); err != nil {
		t.Fatalf("blacklist: %v", err)
	}
	if _, err := e.StartAccountRecovery(ctx, adminAccount, "ORG1", addr); err != nil {
		t.Fatalf("start recovery: %v", err)
	}
	if _, err := e.ApproveAccountRecovery(ctx, adminAccount, "ORG1", addr); err != nil {
		t.Fatalf("approve recovery: %v", err)
	}
	acct, _ := e.Account(addr)
	if acct.Status != account.StatusActive {
		t.Fatalf("status = %v, want active after recovery", acct.Status)
	}

	// The active admin cannot be status-changed, whatever the action.
	for _, action := range []account.Action{account.ActionSuspend, account.ActionBlacklist} {
		if _, err := e.UpdateAccountStatus(ctx, adminAccount, adminOrg, adminAccount, action); !apperrors.IsCode(err, apperrors.CodeAccountIsActiveAdmin) {
			t.Fatalf("action %d on active admin error = %v, want ACCOUNT_IS_ACTIVE_ADMIN", action, err)
		}
	}
}

func TestRoleManagement(t *testing.T) {
	ctx := context.Background()
	e := bootedEngine(t)
	approvedOrg(t, e, "ORG1")

	if _, err := e.AddRole(ctx, adminAccount, "ORG1", "READER", role.Access(9), false, false); !apperrors.IsCode(err, apperrors.CodeInvalidAccessLevel) {
		t.Fatalf("invalid access error = %v, want INVALID_ACCESS_LEVEL", err)
	}
	if _, err := e.AddRole(ctx, adminAccount, "ORG1", "READER", role.AccessReadOnly, false, false); err != nil {
		t.Fatalf("add role: %v", err)
	}
	if _, err := e.RemoveRole(ctx, adminAccount, "ORG1", orgAdminRole); !apperrors.IsCode(err, apperrors.CodeRoleProtected) {
		t.Fatalf("protected role removal error = %v, want ROLE_PROTECTED", err)
	}
	if _, err := e.RemoveRole(ctx, adminAccount, "ORG1", "READER"); err != nil {
		t.Fatalf("remove role: %v", err)
	}
	if _, err := e.RemoveRole(ctx, adminAccount, "ORG1", "READER"); !apperrors.IsCode(err, apperrors.CodeRoleNotFound) {
		t.Fatalf("second removal error = %v, want ROLE_NOT_FOUND", err)
	}
}

func TestTransactionAdmission(t *testing.T) {
	ctx := context.Background()
	e := bootedEngine(t)
	approvedOrg(t, e, "ORG1")
	const addr = "0xb"

	if e.TransactionAllowed("0xunknown", "0xtarget", nil) {
		t.Fatal("unknown sender should be denied after boot")
	}
	if !e.TransactionAllowed(adminAccount, "0xtarget", nil) {
		t.Fatal("network admin should always be allowed")
	}

	if _, err := e.AddRole(ctx, adminAccount, "ORG1", "PAYER", role.AccessTransfer, false, false); err != nil {
		t.Fatalf("add role: %v", err)
	}
	if _, err := e.AssignAccountRole(ctx, adminAccount, "ORG1", addr, "PAYER"); err != nil {
		t.Fatalf("assign role: %v", err)
	}

	if !e.TransactionAllowed(addr, "0xtarget", nil) {
		t.Fatal("transfer access should allow a value transfer")
	}
	if e.TransactionAllowed(addr, "", nil) {
		t.Fatal("transfer access should not allow a deployment")
	}
	if e.TransactionAllowed(addr, "0xtarget", []byte{0x01}) {
		t.Fatal("transfer access should not allow a contract call")
	}

	if _, err := e.UpdateAccountStatus(ctx, adminAccount, "ORG1", addr, account.ActionSuspend); err != nil {
		t.Fatalf("suspend: %v", err)
	}
	if e.TransactionAllowed(addr, "0xtarget", nil) {
		t.Fatal("suspended sender should be denied")
	}
	if _, err := e.UpdateAccountStatus(ctx, adminAccount, "ORG1", addr, account.ActionReactivate); err != nil {
		t.Fatalf("reactivate: %v", err)
	}

	// A fully suspended org denies all of its accounts.
	if _, err := e.UpdateOrgStatus(ctx, adminAccount, "ORG1", OrgActionSuspend); err != nil {
		t.Fatalf("propose suspension: %v", err)
	}
	if !e.TransactionAllowed(addr, "0xtarget", nil) {
		t.Fatal("org mid suspension vote should still admit transactions")
	}
	if _, err := e.ApproveOrgStatus(ctx, adminAccount, "ORG1", OrgActionSuspend); err != nil {
		t.Fatalf("approve suspension: %v", err)
	}
	if e.TransactionAllowed(addr, "0xtarget", nil) {
		t.Fatal("suspended org should deny its accounts")
	}
}

func TestEventsReachRecorder(t *testing.T) {
	ctx := context.Background()
	mem := journal.NewMemory()
	e := bootedEngine(t, WithRecorder(mem))

	boot := len(mem.Events())
	if boot == 0 {
		t.Fatal("boot sequence should journal events")
	}

	evs, err := e.AddOrg(ctx, adminAccount, "ORG1")
	if err != nil {
		t.Fatalf("add org: %v", err)
	}
	all := mem.Events()
	if len(all) != boot+len(evs) {
		t.Fatalf("journal has %d events, want %d", len(all), boot+len(evs))
	}
	last := all[len(all)-1]
	if last.Type != event.TypeVoteOpened || last.Actor != adminAccount {
		t.Fatalf("last event = %+v, want vote.opened by admin", last)
	}
	for _, ev := range all {
		if ev.Timestamp.IsZero() {
			t.Fatal("journaled events should carry timestamps")
		}
	}
}
