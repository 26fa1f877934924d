package policy

import (
	"context"

	"github.com/netgovern/netgovern/internal/govern/event"
	"github.com/netgovern/netgovern/internal/govern/node"
	"github.com/netgovern/netgovern/internal/govern/voting"
	apperrors "github.com/netgovern/netgovern/internal/platform/errors"
)

// AddNode proposes a node for orgID in Pending status. Org admin only.
func (e *Engine) AddNode(ctx context.Context, caller, orgID, id, ip string, port, raftPort int) ([]event.Event, error) {
	ctx, span := e.tracer.Start(ctx, "govern.add_node")
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

	if err := e.nodes.AddPending(id, ip, port, raftPort, orgID); err != nil {
		return nil, err
	}

	evs := []event.Event{
		e.newEvent(event.TypeNodeProposed, event.KindNode, id, orgID, node.StatusPending.String(), caller),
	}
	e.record(ctx, evs)
	return evs, nil
}

// ApproveNode activates a pending node. The caller restates the node's
// attributes; a mismatch or a non-pending node is a silent no-op and the
// returned event list is empty.
func (e *Engine) ApproveNode(ctx context.Context, caller, orgID, id, ip string, port, raftPort int) ([]event.Event, error) {
	ctx, span := e.tracer.Start(ctx, "govern.approve_node")
	defer span.End()

	if err := e.requireBooted(); err != nil {
		return nil, err
	}
	if err := e.requireOrgAdmin(caller, orgID); err != nil {
		return nil, err
	}

	if !e.nodes.Approve(id, orgID, ip, port, raftPort) {
		return nil, nil
	}

	evs := []event.Event{
		e.newEvent(event.TypeNodeApproved, event.KindNode, id, orgID, node.StatusActive.String(), caller),
	}
	e.record(ctx, evs)
	return evs, nil
}

// UpdateNodeStatus applies an immediate node status action: deactivate
// (1), reactivate (2), or blacklist (3). Recovery actions go through the
// governed recovery operations. Attribute mismatches are silent no-ops.
func (e *Engine) UpdateNodeStatus(ctx context.Context, caller, orgID, id, ip string, port, raftPort int, action node.Action) ([]event.Event, error) {
	ctx, span := e.tracer.Start(ctx, "govern.update_node_status")
	defer span.End()

	if err := e.requireBooted(); err != nil {
		return nil, err
	}
	if err := e.requireOrgAdmin(caller, orgID); err != nil {
		return nil, err
	}
	if action < node.ActionDeactivate || action > node.ActionBlacklist {
		return nil, apperrors.New(apperrors.CodeInvalidAction, "action is not available for direct status updates")
	}

	changed, err := e.nodes.UpdateStatus(id, orgID, ip, port, raftPort, action)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, nil
	}

	n, _ := e.nodes.Get(id)
	evs := []event.Event{
		e.newEvent(event.TypeNodeStatusChanged, event.KindNode, id, orgID, n.Status.String(), caller),
	}
	e.record(ctx, evs)
	return evs, nil
}

// StartNodeRecovery proposes recovering a blacklisted node. Network admin
// only; the node moves to RecoveryInitiated and the admin-org vote opens.
func (e *Engine) StartNodeRecovery(ctx context.Context, caller, orgID, id string) ([]event.Event, error) {
	ctx, span := e.tracer.Start(ctx, "govern.start_node_recovery")
	defer span.End()

	if err := e.requireBooted(); err != nil {
		return nil, err
	}
	if err := e.requireNetworkAdmin(caller); err != nil {
		return nil, err
	}
	n, ok := e.nodes.Get(id)
	if !ok || n.OrgID != orgID {
		return nil, apperrors.WithMetadata(apperrors.CodeNodeNotFound,
			"node is not recorded for the org",
			map[string]string{"NodeID": id, "OrgID": orgID})
	}
	if n.Status != node.StatusBlacklisted {
		return nil, apperrors.WithMetadata(apperrors.CodeNodeStatusInvalid,
			"node is not blacklisted", map[string]string{"NodeID": id})
	}
	if err := e.requireNoPending(); err != nil {
		return nil, err
	}

	if _, err := e.nodes.UpdateStatus(id, n.OrgID, n.IP, n.Port, n.RaftPort, node.ActionInitiateRecovery); err != nil {
		return nil, err
	}
	if err := e.votes.Open(e.adminOrg, voting.Pending{Type: voting.OpNodeRecovery, OrgID: orgID, NodeID: id}); err != nil {
		return nil, err
	}

	evs := []event.Event{
		e.newEvent(event.TypeNodeRecoveryStarted, event.KindNode, id, orgID, node.StatusRecoveryInitiated.String(), caller),
		e.newEvent(event.TypeVoteOpened, event.KindVote, id, e.adminOrg, voting.OpNodeRecovery.String(), caller),
	}
	e.record(ctx, evs)
	return evs, nil
}

// ApproveNodeRecovery casts the caller's ballot for a pending node
// recovery. On majority the node returns to Active.
func (e *Engine) ApproveNodeRecovery(ctx context.Context, caller, orgID, id string) ([]event.Event, error) {
	ctx, span := e.tracer.Start(ctx, "govern.approve_node_recovery")
	defer span.End()

	if err := e.requireBooted(); err != nil {
		return nil, err
	}
	if err := e.requireNetworkAdmin(caller); err != nil {
		return nil, err
	}
	if err := e.requirePendingSubject(voting.OpNodeRecovery, func(p voting.Pending) bool {
		return p.NodeID == id && p.OrgID == orgID
	}); err != nil {
		return nil, err
	}
	n, ok := e.nodes.Get(id)
	if !ok || n.Status != node.StatusRecoveryInitiated {
		return nil, apperrors.WithMetadata(apperrors.CodeNodeStatusInvalid,
			"node has no recovery in progress", map[string]string{"NodeID": id})
	}

	decided, err := e.votes.Cast(e.adminOrg, caller, voting.OpNodeRecovery)
	if err != nil {
		return nil, err
	}

	evs := []event.Event{
		e.newEvent(event.TypeVoteCast, event.KindVote, id, e.adminOrg, voting.OpNodeRecovery.String(), caller),
	}
	if decided {
		if _, err := e.nodes.UpdateStatus(id, n.OrgID, n.IP, n.Port, n.RaftPort, node.ActionCompleteRecovery); err != nil {
			return nil, err
		}
		evs = append(evs,
			e.newEvent(event.TypeVoteDecided, event.KindVote, id, e.adminOrg, voting.OpNodeRecovery.String(), caller),
			e.newEvent(event.TypeNodeRecoveryCompleted, event.KindNode, id, orgID, node.StatusActive.String(), caller),
		)
	}
	e.record(ctx, evs)
	return evs, nil
}
