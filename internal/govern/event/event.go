// Package event defines the domain events emitted by the permissioning
// engine. Every successful mutation produces an ordered list of events so
// an external indexer can replay engine state deterministically.
package event

import (
	"strings"
	"time"
)

// Type identifies the type of a permissioning event.
type Type string

// Organization lifecycle events.
const (
	// TypeOrgProposed records a new organization entering pending approval.
	TypeOrgProposed Type = "org.proposed"
	// TypeOrgApproved records an organization approval.
	TypeOrgApproved Type = "org.approved"
	// TypeOrgChildAdded records the creation of a sub-organization.
	TypeOrgChildAdded Type = "org.child_added"
	// TypeOrgStatusChanged records an organization status transition.
	TypeOrgStatusChanged Type = "org.status_changed"
)

// Account events.
const (
	// TypeAccountRoleAssigned records a role assignment to an account.
	TypeAccountRoleAssigned Type = "account.role_assigned"
	// TypeAccountAdminProposed records a proposed admin account awaiting approval.
	TypeAccountAdminProposed Type = "account.admin_proposed"
	// TypeAccountAdminChanged records an admin account activation.
	TypeAccountAdminChanged Type = "account.admin_changed"
	// TypeAccountStatusChanged records an account status transition.
	TypeAccountStatusChanged Type = "account.status_changed"
	// TypeAccountRecoveryStarted records the start of blacklisted-account recovery.
	TypeAccountRecoveryStarted Type = "account.recovery_started"
	// TypeAccountRecoveryCompleted records a completed account recovery.
	TypeAccountRecoveryCompleted Type = "account.recovery_completed"
)

// Node events.
const (
	// TypeNodeProposed records a node entering pending approval.
	TypeNodeProposed Type = "node.proposed"
	// TypeNodeApproved records a node activation.
	TypeNodeApproved Type = "node.approved"
	// TypeNodeStatusChanged records a node status transition.
	TypeNodeStatusChanged Type = "node.status_changed"
	// TypeNodeRecoveryStarted records the start of blacklisted-node recovery.
	TypeNodeRecoveryStarted Type = "node.recovery_started"
	// TypeNodeRecoveryCompleted records a completed node recovery.
	TypeNodeRecoveryCompleted Type = "node.recovery_completed"
)

// Role events.
const (
	// TypeRoleCreated records the creation of a role.
	TypeRoleCreated Type = "role.created"
	// TypeRoleRemoved records the soft removal of a role.
	TypeRoleRemoved Type = "role.removed"
)

// Voting events.
const (
	// TypeVoteOpened records the opening of a pending governance operation.
	TypeVoteOpened Type = "vote.opened"
	// TypeVoteCast records a ballot cast by a voter.
	TypeVoteCast Type = "vote.cast"
	// TypeVoteDecided records a pending operation reaching majority.
	TypeVoteDecided Type = "vote.decided"
	// TypeVoterAdded records an account joining the voter roster.
	TypeVoterAdded Type = "vote.voter_added"
	// TypeVoterRemoved records an account leaving the voter roster.
	TypeVoterRemoved Type = "vote.voter_removed"
)

// Kind identifies the entity an event refers to.
type Kind string

const (
	// KindOrg marks events about an organization.
	KindOrg Kind = "org"
	// KindAccount marks events about an account.
	KindAccount Kind = "account"
	// KindNode marks events about a node.
	KindNode Kind = "node"
	// KindRole marks events about a role.
	KindRole Kind = "role"
	// KindVote marks events about a pending governance operation.
	KindVote Kind = "vote"
)

// Event is an immutable record of one engine state change.
type Event struct {
	// Seq is the journal sequence number (starts at 1).
	// Assigned by the journal on append; zero until persisted.
	Seq uint64
	// Timestamp is when the event occurred.
	Timestamp time.Time
	// Type identifies the kind of event.
	Type Type
	// OrgID is the organization the event relates to.
	OrgID string
	// EntityKind is the type of entity affected.
	EntityKind Kind
	// EntityID is the identity of the entity affected.
	EntityID string
	// Status is the entity's status label after the change.
	Status string
	// Actor is the caller account that triggered the event (empty for boot).
	Actor string
}

// IsValid reports whether the event type is usable.
func (t Type) IsValid() bool {
	return strings.TrimSpace(string(t)) != ""
}

// Domain returns the domain prefix of the event type (e.g., "org", "node").
func (t Type) Domain() string {
	for i, c := range t {
		if c == '.' {
			return string(t[:i])
		}
	}
	return string(t)
}
