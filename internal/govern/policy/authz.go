package policy

import (
	"github.com/netgovern/netgovern/internal/govern/voting"
	apperrors "github.com/netgovern/netgovern/internal/platform/errors"
)

func (e *Engine) requireBooted() error {
	if e.boot != BootCompleted {
		return apperrors.New(apperrors.CodeNetworkNotBooted, "network boot is not complete")
	}
	return nil
}

func (e *Engine) requirePreBoot() error {
	if e.boot == BootCompleted {
		return apperrors.New(apperrors.CodeNetworkAlreadyBooted, "network boot is already complete")
	}
	if e.boot != BootPolicySet {
		return apperrors.New(apperrors.CodeInvalidArgument, "network policy is not set")
	}
	return nil
}

func (e *Engine) requireNetworkAdmin(caller string) error {
	if !e.accounts.IsNetworkAdmin(caller) {
		return apperrors.WithMetadata(apperrors.CodeAuthNotNetworkAdmin,
			"account is not an active network admin",
			map[string]string{"Account": caller})
	}
	return nil
}

// requireOrgAdmin passes for org admins of orgID and for network admins,
// who administer every organization.
func (e *Engine) requireOrgAdmin(caller, orgID string) error {
	o, err := e.orgs.Get(orgID)
	if err != nil {
		return err
	}
	if !e.accounts.IsAdminOf(caller, o.FullID, o.UltimateParent) {
		return apperrors.WithMetadata(apperrors.CodeAuthNotOrgAdmin,
			"account is not an org admin for the org",
			map[string]string{"Account": caller, "OrgID": orgID})
	}
	return nil
}

func (e *Engine) requireNoPending() error {
	if e.votes.PendingOperation(e.adminOrg).Type != voting.OpNone {
		return apperrors.New(apperrors.CodeVotingOperationPending, "items pending for approval")
	}
	return nil
}

// requirePendingSubject checks that the pending operation matches the
// approval call's type and subject before any ballot is cast.
func (e *Engine) requirePendingSubject(opType voting.OpType, match func(voting.Pending) bool) error {
	pending := e.votes.PendingOperation(e.adminOrg)
	if pending.Type == voting.OpNone {
		return apperrors.New(apperrors.CodeVotingNoOperation, "nothing to approve")
	}
	if pending.Type != opType || !match(pending) {
		return apperrors.New(apperrors.CodeVotingWrongSubject, "approval does not match the pending item")
	}
	return nil
}
