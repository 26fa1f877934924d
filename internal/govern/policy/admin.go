package policy

import (
	"context"

	"github.com/netgovern/netgovern/internal/govern/account"
	"github.com/netgovern/netgovern/internal/govern/event"
	"github.com/netgovern/netgovern/internal/govern/voting"
	apperrors "github.com/netgovern/netgovern/internal/platform/errors"
)

// AssignAdminRole proposes transferring the network-admin role to
// newAccount. The account is recorded under the admin org in Pending
// status and the admin-org vote opens.
func (e *Engine) AssignAdminRole(ctx context.Context, caller, newAccount string) ([]event.Event, error) {
	ctx, span := e.tracer.Start(ctx, "govern.assign_admin_role")
	defer span.End()

	if err := e.requireBooted(); err != nil {
		return nil, err
	}
	if err := e.requireNetworkAdmin(caller); err != nil {
		return nil, err
	}
	if acct, ok := e.accounts.Get(newAccount); ok && acct.OrgID != e.adminOrg {
		return nil, apperrors.WithMetadata(apperrors.CodeAccountInUse,
			"account already belongs to another org",
			map[string]string{"Account": newAccount, "OrgID": acct.OrgID})
	}
	if err := e.requireNoPending(); err != nil {
		return nil, err
	}

	if err := e.accounts.AssignAdminRole(e.adminOrg, newAccount, e.netAdminRole, account.StatusPending); err != nil {
		return nil, err
	}
	if err := e.votes.Open(e.adminOrg, voting.Pending{Type: voting.OpAssignAdmin, OrgID: e.adminOrg, Account: newAccount}); err != nil {
		return nil, err
	}

	evs := []event.Event{
		e.newEvent(event.TypeAccountAdminProposed, event.KindAccount, newAccount, e.adminOrg, account.StatusPending.String(), caller),
		e.newEvent(event.TypeVoteOpened, event.KindVote, newAccount, e.adminOrg, voting.OpAssignAdmin.String(), caller),
	}
	e.record(ctx, evs)
	return evs, nil
}

// ApproveAdminRole casts the caller's ballot for a proposed admin
// transfer. On majority the sitting admin is demoted and revoked, removed
// from the voter roster, and newAccount becomes the active network admin
// and sole voter for the admin org.
func (e *Engine) ApproveAdminRole(ctx context.Context, caller, newAccount string) ([]event.Event, error) {
	ctx, span := e.tracer.Start(ctx, "govern.approve_admin_role")
	defer span.End()

	if err := e.requireBooted(); err != nil {
		return nil, err
	}
	if err := e.requirePendingSubject(voting.OpAssignAdmin, func(p voting.Pending) bool {
		return p.Account == newAccount
	}); err != nil {
		return nil, err
	}
	if _, ok := e.accounts.Get(newAccount); !ok {
		return nil, apperrors.WithMetadata(apperrors.CodeAccountNotFound,
			"proposed admin account is not recorded", map[string]string{"Account": newAccount})
	}

	decided, err := e.votes.Cast(e.adminOrg, caller, voting.OpAssignAdmin)
	if err != nil {
		return nil, err
	}

	evs := []event.Event{
		e.newEvent(event.TypeVoteCast, event.KindVote, newAccount, e.adminOrg, voting.OpAssignAdmin.String(), caller),
	}
	if decided {
		transfer, err := e.transferAdmin(caller, newAccount)
		if err != nil {
			return nil, err
		}
		evs = append(evs, e.newEvent(event.TypeVoteDecided, event.KindVote, newAccount, e.adminOrg, voting.OpAssignAdmin.String(), caller))
		evs = append(evs, transfer...)
	}
	e.record(ctx, evs)
	return evs, nil
}

// transferAdmin performs the decided handover. The approving caller is
// the sitting admin: it is first restated as the admin org's org admin so
// the standing removal path applies to it, then revoked and unseated, and
// newAccount is activated into both protected roles and seated as voter.
func (e *Engine) transferAdmin(caller, newAccount string) ([]event.Event, error) {
	var evs []event.Event

	if err := e.accounts.AssignAdminRole(e.adminOrg, caller, e.orgAdminRole, account.StatusPending); err != nil {
		return nil, err
	}
	if err := e.accounts.PromoteToOrgAdmin(e.adminOrg, caller); err != nil {
		return nil, err
	}
	evs = append(evs, e.newEvent(event.TypeAccountRoleAssigned, event.KindAccount, caller, e.adminOrg, account.StatusActive.String(), caller))

	removed, heldNetAdmin := e.accounts.RemoveExistingOrgAdmin(e.adminOrg)
	if removed != "" {
		evs = append(evs, e.newEvent(event.TypeAccountStatusChanged, event.KindAccount, removed, e.adminOrg, account.StatusRevoked.String(), caller))
		if heldNetAdmin || removed == caller {
			if err := e.votes.RemoveVoter(e.adminOrg, removed); err != nil {
				return nil, err
			}
			evs = append(evs, e.newEvent(event.TypeVoterRemoved, event.KindVote, removed, e.adminOrg, "", caller))
		}
	}

	if err := e.accounts.AssignAdminRole(e.adminOrg, newAccount, e.orgAdminRole, account.StatusPending); err != nil {
		return nil, err
	}
	if err := e.accounts.PromoteToOrgAdmin(e.adminOrg, newAccount); err != nil {
		return nil, err
	}
	if err := e.accounts.AssignAdminRole(e.adminOrg, newAccount, e.netAdminRole, account.StatusPending); err != nil {
		return nil, err
	}
	if err := e.accounts.PromoteToOrgAdmin(e.adminOrg, newAccount); err != nil {
		return nil, err
	}
	if err := e.votes.AddVoter(e.adminOrg, newAccount); err != nil {
		return nil, err
	}
	evs = append(evs,
		e.newEvent(event.TypeAccountAdminChanged, event.KindAccount, newAccount, e.adminOrg, account.StatusActive.String(), caller),
		e.newEvent(event.TypeVoterAdded, event.KindVote, newAccount, e.adminOrg, "", caller),
	)
	return evs, nil
}
