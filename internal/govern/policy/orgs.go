package policy

import (
	"context"

	"github.com/netgovern/netgovern/internal/govern/event"
	"github.com/netgovern/netgovern/internal/govern/org"
	"github.com/netgovern/netgovern/internal/govern/role"
	"github.com/netgovern/netgovern/internal/govern/voting"
	apperrors "github.com/netgovern/netgovern/internal/platform/errors"
)

// OrgAction selects an organization status change for UpdateOrgStatus.
type OrgAction int

const (
	// OrgActionSuspend proposes suspension of an approved organization.
	OrgActionSuspend OrgAction = iota + 1
	// OrgActionRevokeSuspension proposes lifting a suspension.
	OrgActionRevokeSuspension
)

// AddOrg proposes a new root-level organization. Network admin only. The
// org enters pending approval and the admin-org vote opens.
func (e *Engine) AddOrg(ctx context.Context, caller, orgID string) ([]event.Event, error) {
	ctx, span := e.tracer.Start(ctx, "govern.add_org")
	defer span.End()

	if err := e.requireBooted(); err != nil {
		return nil, err
	}
	if err := e.requireNetworkAdmin(caller); err != nil {
		return nil, err
	}
	if e.orgs.Exists(orgID) {
		return nil, apperrors.WithMetadata(apperrors.CodeOrgExists,
			"org already exists", map[string]string{"OrgID": orgID})
	}
	if err := e.requireNoPending(); err != nil {
		return nil, err
	}

	if err := e.orgs.AddRoot(orgID); err != nil {
		return nil, err
	}
	if err := e.votes.Open(e.adminOrg, voting.Pending{Type: voting.OpAddOrg, OrgID: orgID}); err != nil {
		return nil, err
	}

	evs := []event.Event{
		e.newEvent(event.TypeOrgProposed, event.KindOrg, orgID, orgID, org.StatusPendingApproval.String(), caller),
		e.newEvent(event.TypeVoteOpened, event.KindVote, orgID, e.adminOrg, voting.OpAddOrg.String(), caller),
	}
	e.record(ctx, evs)
	return evs, nil
}

// ApproveOrg casts the caller's ballot for a pending organization. On
// majority the org is approved and its default org-admin role is created.
func (e *Engine) ApproveOrg(ctx context.Context, caller, orgID string) ([]event.Event, error) {
	ctx, span := e.tracer.Start(ctx, "govern.approve_org")
	defer span.End()

	if err := e.requireBooted(); err != nil {
		return nil, err
	}
	if err := e.requireNetworkAdmin(caller); err != nil {
		return nil, err
	}
	if err := e.requirePendingSubject(voting.OpAddOrg, func(p voting.Pending) bool {
		return p.OrgID == orgID
	}); err != nil {
		return nil, err
	}
	if !e.orgs.StatusIs(orgID, org.StatusPendingApproval) {
		return nil, apperrors.WithMetadata(apperrors.CodeOrgStatusInvalid,
			"org is not pending approval", map[string]string{"OrgID": orgID})
	}

	decided, err := e.votes.Cast(e.adminOrg, caller, voting.OpAddOrg)
	if err != nil {
		return nil, err
	}

	evs := []event.Event{
		e.newEvent(event.TypeVoteCast, event.KindVote, orgID, e.adminOrg, voting.OpAddOrg.String(), caller),
	}
	if decided {
		if err := e.orgs.Approve(orgID); err != nil {
			return nil, err
		}
		if _, ok := e.roles.Resolve(e.orgAdminRole, orgID, orgID); !ok {
			if err := e.roles.Add(e.orgAdminRole, orgID, role.AccessFull, false, true); err != nil {
				return nil, err
			}
		}
		evs = append(evs,
			e.newEvent(event.TypeVoteDecided, event.KindVote, orgID, e.adminOrg, voting.OpAddOrg.String(), caller),
			e.newEvent(event.TypeOrgApproved, event.KindOrg, orgID, orgID, org.StatusApproved.String(), caller),
			e.newEvent(event.TypeRoleCreated, event.KindRole, e.orgAdminRole, orgID, "active", caller),
		)
	}
	e.record(ctx, evs)
	return evs, nil
}

// UpdateOrgStatus proposes an org suspension (action 1) or suspension
// revocation (action 2). Network admin only; root-level orgs only.
func (e *Engine) UpdateOrgStatus(ctx context.Context, caller, orgID string, action OrgAction) ([]event.Event, error) {
	ctx, span := e.tracer.Start(ctx, "govern.update_org_status")
	defer span.End()

	if err := e.requireBooted(); err != nil {
		return nil, err
	}
	if err := e.requireNetworkAdmin(caller); err != nil {
		return nil, err
	}
	if !e.orgs.Exists(orgID) {
		return nil, apperrors.WithMetadata(apperrors.CodeOrgNotFound,
			"org does not exist", map[string]string{"OrgID": orgID})
	}
	if err := e.requireNoPending(); err != nil {
		return nil, err
	}

	var opType voting.OpType
	switch action {
	case OrgActionSuspend:
		opType = voting.OpSuspendOrg
		if err := e.orgs.Suspend(orgID); err != nil {
			return nil, err
		}
	case OrgActionRevokeSuspension:
		opType = voting.OpRevokeSuspension
		if err := e.orgs.RevokeSuspension(orgID); err != nil {
			return nil, err
		}
	default:
		return nil, apperrors.New(apperrors.CodeInvalidAction, "unknown org status action")
	}
	if err := e.votes.Open(e.adminOrg, voting.Pending{Type: opType, OrgID: orgID}); err != nil {
		return nil, err
	}

	evs := []event.Event{
		e.newEvent(event.TypeOrgStatusChanged, event.KindOrg, orgID, orgID, org.StatusPendingSuspension.String(), caller),
		e.newEvent(event.TypeVoteOpened, event.KindVote, orgID, e.adminOrg, opType.String(), caller),
	}
	e.record(ctx, evs)
	return evs, nil
}

// ApproveOrgStatus casts the caller's ballot for a pending org status
// change. The action must match the one proposed.
func (e *Engine) ApproveOrgStatus(ctx context.Context, caller, orgID string, action OrgAction) ([]event.Event, error) {
	ctx, span := e.tracer.Start(ctx, "govern.approve_org_status")
	defer span.End()

	if err := e.requireBooted(); err != nil {
		return nil, err
	}
	if err := e.requireNetworkAdmin(caller); err != nil {
		return nil, err
	}

	var opType voting.OpType
	switch action {
	case OrgActionSuspend:
		opType = voting.OpSuspendOrg
	case OrgActionRevokeSuspension:
		opType = voting.OpRevokeSuspension
	default:
		return nil, apperrors.New(apperrors.CodeInvalidAction, "unknown org status action")
	}
	if err := e.requirePendingSubject(opType, func(p voting.Pending) bool {
		return p.OrgID == orgID
	}); err != nil {
		return nil, err
	}
	if !e.orgs.StatusIs(orgID, org.StatusPendingSuspension) {
		return nil, apperrors.WithMetadata(apperrors.CodeOrgStatusInvalid,
			"org has no status change awaiting approval", map[string]string{"OrgID": orgID})
	}

	decided, err := e.votes.Cast(e.adminOrg, caller, opType)
	if err != nil {
		return nil, err
	}

	evs := []event.Event{
		e.newEvent(event.TypeVoteCast, event.KindVote, orgID, e.adminOrg, opType.String(), caller),
	}
	if decided {
		var final org.Status
		switch opType {
		case voting.OpSuspendOrg:
			final = org.StatusSuspended
			if err := e.orgs.ApproveSuspension(orgID); err != nil {
				return nil, err
			}
		default:
			final = org.StatusApproved
			if err := e.orgs.ApproveSuspensionRevoke(orgID); err != nil {
				return nil, err
			}
		}
		evs = append(evs,
			e.newEvent(event.TypeVoteDecided, event.KindVote, orgID, e.adminOrg, opType.String(), caller),
			e.newEvent(event.TypeOrgStatusChanged, event.KindOrg, orgID, orgID, final.String(), caller),
		)
	}
	e.record(ctx, evs)
	return evs, nil
}

// AddSubOrg creates a sub-organization under parentID, immediately
// approved. Org admin of the parent (or a network admin) only.
func (e *Engine) AddSubOrg(ctx context.Context, caller, parentID, orgID string) ([]event.Event, error) {
	ctx, span := e.tracer.Start(ctx, "govern.add_sub_org")
	defer span.End()

	if err := e.requireBooted(); err != nil {
		return nil, err
	}
	if err := e.requireOrgAdmin(caller, parentID); err != nil {
		return nil, err
	}
	if !e.orgs.IsActive(parentID) {
		return nil, apperrors.WithMetadata(apperrors.CodeOrgStatusInvalid,
			"parent org is not active", map[string]string{"OrgID": parentID})
	}

	if err := e.orgs.AddSubOrg(parentID, orgID); err != nil {
		return nil, err
	}

	fullID := parentID + "." + orgID
	evs := []event.Event{
		e.newEvent(event.TypeOrgChildAdded, event.KindOrg, fullID, parentID, org.StatusApproved.String(), caller),
	}
	e.record(ctx, evs)
	return evs, nil
}
