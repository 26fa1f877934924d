package policy

import (
	"context"

	"github.com/netgovern/netgovern/internal/govern/account"
	"github.com/netgovern/netgovern/internal/govern/event"
	"github.com/netgovern/netgovern/internal/govern/voting"
	apperrors "github.com/netgovern/netgovern/internal/platform/errors"
)

// AssignAccountRole attaches a non-admin role to an account in orgID.
// The role must resolve in the org or at the ultimate root, and the
// account must not already belong to a different org. Org admin only.
func (e *Engine) AssignAccountRole(ctx context.Context, caller, orgID, address, roleID string) ([]event.Event, error) {
	ctx, span := e.tracer.Start(ctx, "govern.assign_account_role")
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
	o, err := e.orgs.Get(orgID)
	if err != nil {
		return nil, err
	}
	if _, ok := e.roles.Resolve(roleID, orgID, o.UltimateParent); !ok {
		return nil, apperrors.WithMetadata(apperrors.CodeRoleNotFound,
			"role does not exist in the org",
			map[string]string{"RoleID": roleID, "OrgID": orgID})
	}

	if err := e.accounts.AssignAccountRole(address, orgID, roleID, account.StatusActive); err != nil {
		return nil, err
	}

	evs := []event.Event{
		e.newEvent(event.TypeAccountRoleAssigned, event.KindAccount, address, orgID, account.StatusActive.String(), caller),
	}
	e.record(ctx, evs)
	return evs, nil
}

// UpdateAccountStatus applies an immediate account status action: suspend
// (1), reactivate (2), or blacklist (3). Recovery actions go through the
// governed recovery operations. The org's active admin cannot be targeted.
func (e *Engine) UpdateAccountStatus(ctx context.Context, caller, orgID, address string, action account.Action) ([]event.Event, error) {
	ctx, span := e.tracer.Start(ctx, "govern.update_account_status")
	defer span.End()

	if err := e.requireBooted(); err != nil {
		return nil, err
	}
	if err := e.requireOrgAdmin(caller, orgID); err != nil {
		return nil, err
	}
	if action < account.ActionSuspend || action > account.ActionBlacklist {
		return nil, apperrors.New(apperrors.CodeInvalidAction, "action is not available for direct status updates")
	}

	if err := e.accounts.UpdateStatus(orgID, address, action); err != nil {
		return nil, err
	}

	acct, _ := e.accounts.Get(address)
	evs := []event.Event{
		e.newEvent(event.TypeAccountStatusChanged, event.KindAccount, address, orgID, acct.Status.String(), caller),
	}
	e.record(ctx, evs)
	return evs, nil
}

// StartAccountRecovery proposes recovering a blacklisted account. Network
// admin only; the account moves to RecoveryInitiated and the admin-org
// vote opens.
func (e *Engine) StartAccountRecovery(ctx context.Context, caller, orgID, address string) ([]event.Event, error) {
	ctx, span := e.tracer.Start(ctx, "govern.start_account_recovery")
	defer span.End()

	if err := e.requireBooted(); err != nil {
		return nil, err
	}
	if err := e.requireNetworkAdmin(caller); err != nil {
		return nil, err
	}
	acct, ok := e.accounts.Get(address)
	if !ok || acct.OrgID != orgID {
		return nil, apperrors.WithMetadata(apperrors.CodeAccountNotFound,
			"account is not recorded for the org",
			map[string]string{"Account": address, "OrgID": orgID})
	}
	if acct.Status != account.StatusBlacklisted {
		return nil, apperrors.WithMetadata(apperrors.CodeAccountStatusInvalid,
			"account is not blacklisted", map[string]string{"Account": address})
	}
	if err := e.requireNoPending(); err != nil {
		return nil, err
	}

	if err := e.accounts.UpdateStatus(orgID, address, account.ActionInitiateRecovery); err != nil {
		return nil, err
	}
	if err := e.votes.Open(e.adminOrg, voting.Pending{Type: voting.OpAccountRecovery, OrgID: orgID, Account: address}); err != nil {
		return nil, err
	}

	evs := []event.Event{
		e.newEvent(event.TypeAccountRecoveryStarted, event.KindAccount, address, orgID, account.StatusRecoveryInitiated.String(), caller),
		e.newEvent(event.TypeVoteOpened, event.KindVote, address, e.adminOrg, voting.OpAccountRecovery.String(), caller),
	}
	e.record(ctx, evs)
	return evs, nil
}

// ApproveAccountRecovery casts the caller's ballot for a pending account
// recovery. On majority the account returns to Active.
func (e *Engine) ApproveAccountRecovery(ctx context.Context, caller, orgID, address string) ([]event.Event, error) {
	ctx, span := e.tracer.Start(ctx, "govern.approve_account_recovery")
	defer span.End()

	if err := e.requireBooted(); err != nil {
		return nil, err
	}
	if err := e.requireNetworkAdmin(caller); err != nil {
		return nil, err
	}
	if err := e.requirePendingSubject(voting.OpAccountRecovery, func(p voting.Pending) bool {
		return p.Account == address && p.OrgID == orgID
	}); err != nil {
		return nil, err
	}
	acct, ok := e.accounts.Get(address)
	if !ok || acct.Status != account.StatusRecoveryInitiated {
		return nil, apperrors.WithMetadata(apperrors.CodeAccountStatusInvalid,
			"account has no recovery in progress", map[string]string{"Account": address})
	}

	decided, err := e.votes.Cast(e.adminOrg, caller, voting.OpAccountRecovery)
	if err != nil {
		return nil, err
	}

	evs := []event.Event{
		e.newEvent(event.TypeVoteCast, event.KindVote, address, e.adminOrg, voting.OpAccountRecovery.String(), caller),
	}
	if decided {
		if err := e.accounts.UpdateStatus(orgID, address, account.ActionCompleteRecovery); err != nil {
			return nil, err
		}
		evs = append(evs,
			e.newEvent(event.TypeVoteDecided, event.KindVote, address, e.adminOrg, voting.OpAccountRecovery.String(), caller),
			e.newEvent(event.TypeAccountRecoveryCompleted, event.KindAccount, address, orgID, account.StatusActive.String(), caller),
		)
	}
	e.record(ctx, evs)
	return evs, nil
}
