// Package voting owns, per voting scope, the voter roster and at most one
// in-flight pending operation with its ballot box and strict-majority rule.
//
// A pending operation has no expiry or cancellation path: it stays open
// until a strict majority of active voters clears it. This is a known
// limitation of the governance protocol, not an oversight of this package.
package voting

import (
	apperrors "github.com/netgovern/netgovern/internal/platform/errors"
)

// OpType identifies the kind of governed change awaiting approval.
type OpType int

const (
	// OpNone means no operation is pending.
	OpNone OpType = iota
	// OpAddOrg is a proposed new organization.
	OpAddOrg
	// OpSuspendOrg is a proposed organization suspension.
	OpSuspendOrg
	// OpRevokeSuspension is a proposed suspension revocation.
	OpRevokeSuspension
	// OpAssignAdmin is a proposed network-admin transfer.
	OpAssignAdmin
	// OpNodeRecovery is a proposed blacklisted-node recovery.
	OpNodeRecovery
	// OpAccountRecovery is a proposed blacklisted-account recovery.
	OpAccountRecovery
)

// String returns the operation label used in events and journal rows.
func (t OpType) String() string {
	switch t {
	case OpAddOrg:
		return "add_org"
	case OpSuspendOrg:
		return "suspend_org"
	case OpRevokeSuspension:
		return "revoke_suspension"
	case OpAssignAdmin:
		return "assign_admin"
	case OpNodeRecovery:
		return "node_recovery"
	case OpAccountRecovery:
		return "account_recovery"
	default:
		return "none"
	}
}

// Pending describes the one in-flight operation for a scope.
type Pending struct {
	// Type is the kind of governed change. OpNone when nothing is pending.
	Type OpType
	// OrgID is the subject organization.
	OrgID string
	// NodeID is the subject node identity, when the operation targets a node.
	NodeID string
	// Account is the subject account, when the operation targets an account.
	Account string
}

type scope struct {
	voters  map[string]bool
	active  int
	pending Pending
	ballots map[string]bool
	tally   int
}

// Coordinator tracks voter rosters and pending operations per scope.
type Coordinator struct {
	scopes map[string]*scope
}

// NewCoordinator creates an empty vote coordinator.
func NewCoordinator() *Coordinator {
	return &Coordinator{scopes: map[string]*scope{}}
}

func (c *Coordinator) scopeFor(id string) *scope {
	sc, ok := c.scopes[id]
	if !ok {
		sc = &scope{voters: map[string]bool{}, ballots: map[string]bool{}}
		c.scopes[id] = sc
	}
	return sc
}

// AddVoter adds an account to the scope's roster. Re-adding an account
// that is already an active voter fails.
func (c *Coordinator) AddVoter(scopeID, address string) error {
	sc := c.scopeFor(scopeID)
	if sc.voters[address] {
		return apperrors.WithMetadata(apperrors.CodeVoterExists, "account is already a voter", map[string]string{"Account": address})
	}
	sc.voters[address] = true
	sc.active++
	return nil
}

// RemoveVoter marks an account inactive on the scope's roster. Removing an
// account that is not an active voter fails.
func (c *Coordinator) RemoveVoter(scopeID, address string) error {
	sc := c.scopeFor(scopeID)
	if !sc.voters[address] {
		return apperrors.WithMetadata(apperrors.CodeVoterNotFound, "account is not a voter", map[string]string{"Account": address})
	}
	sc.voters[address] = false
	sc.active--
	return nil
}

// IsVoter reports whether the account is an active voter in the scope.
func (c *Coordinator) IsVoter(scopeID, address string) bool {
	sc, ok := c.scopes[scopeID]
	return ok && sc.voters[address]
}

// VoterCount returns the number of active voters in the scope.
func (c *Coordinator) VoterCount(scopeID string) int {
	sc, ok := c.scopes[scopeID]
	if !ok {
		return 0
	}
	return sc.active
}

// Open registers a new pending operation for the scope and resets every
// ballot and the tally. It fails while another operation is pending.
func (c *Coordinator) Open(scopeID string, p Pending) error {
	sc := c.scopeFor(scopeID)
	if sc.pending.Type != OpNone {
		return apperrors.New(apperrors.CodeVotingOperationPending, "items pending for approval")
	}
	if p.Type == OpNone {
		return apperrors.New(apperrors.CodeInvalidArgument, "operation type is required")
	}
	sc.pending = p
	sc.ballots = map[string]bool{}
	sc.tally = 0
	return nil
}

// Cast records a ballot for the scope's pending operation. The voter must
// be an active roster member, an operation of the expected type must be
// open, and the voter must not have voted yet. When the tally passes a
// strict majority of active voters the pending operation is cleared and
// Cast reports true; callers apply the governed change at that point.
func (c *Coordinator) Cast(scopeID, voter string, expected OpType) (bool, error) {
	sc := c.scopeFor(scopeID)
	if !sc.voters[voter] {
		return false, apperrors.WithMetadata(apperrors.CodeVoterNotFound, "account is not a voter", map[string]string{"Account": voter})
	}
	if sc.pending.Type == OpNone || sc.pending.Type != expected {
		return false, apperrors.New(apperrors.CodeVotingNoOperation, "nothing to approve")
	}
	if sc.ballots[voter] {
		return false, apperrors.WithMetadata(apperrors.CodeVoteAlreadyCast, "account has already voted", map[string]string{"Account": voter})
	}
	sc.ballots[voter] = true
	sc.tally++
	if sc.tally > sc.active/2 {
		sc.pending = Pending{}
		return true, nil
	}
	return false, nil
}

// PendingOperation returns the scope's in-flight operation, if any.
func (c *Coordinator) PendingOperation(scopeID string) Pending {
	sc, ok := c.scopes[scopeID]
	if !ok {
		return Pending{}
	}
	return sc.pending
}
