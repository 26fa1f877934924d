// Package node owns per-node permissioning records keyed by a globally
// unique network identity, and the connection admission gate.
package node

import (
	"strings"

	apperrors "github.com/netgovern/netgovern/internal/platform/errors"
)

// Status describes the lifecycle of a node.
type Status int

const (
	// StatusNotListed represents an unknown node.
	StatusNotListed Status = iota
	// StatusPending indicates a node awaiting approval.
	StatusPending
	// StatusActive indicates a node allowed to connect.
	StatusActive
	// StatusDeactivated indicates a deactivated node.
	StatusDeactivated
	// StatusBlacklisted indicates a blacklisted node.
	StatusBlacklisted
	// StatusRecoveryInitiated indicates a blacklisted node mid-recovery.
	StatusRecoveryInitiated
)

// String returns the status label used in events and journal rows.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusActive:
		return "active"
	case StatusDeactivated:
		return "deactivated"
	case StatusBlacklisted:
		return "blacklisted"
	case StatusRecoveryInitiated:
		return "recovery_initiated"
	default:
		return "not_listed"
	}
}

// Action drives the node status machine.
type Action int

const (
	// ActionDeactivate moves an Active node to Deactivated.
	ActionDeactivate Action = iota + 1
	// ActionReactivate moves a Deactivated node back to Active.
	ActionReactivate
	// ActionBlacklist moves any node to Blacklisted.
	ActionBlacklist
	// ActionInitiateRecovery moves a Blacklisted node to RecoveryInitiated.
	ActionInitiateRecovery
	// ActionCompleteRecovery moves a RecoveryInitiated node to Active.
	ActionCompleteRecovery
)

// Node is one node record. Records are created once and mutated in place;
// they are never deleted.
type Node struct {
	// ID is the node's globally unique network identity.
	ID string
	// IP is the node's advertised address.
	IP string
	// Port is the transaction port.
	Port int
	// RaftPort is the consensus port.
	RaftPort int
	// OrgID is the owning organization's full id.
	OrgID string
	// Status is the current lifecycle status.
	Status Status
}

// Store owns the node records, keyed by network identity.
type Store struct {
	nodes map[string]*Node
}

// NewStore creates an empty node store.
func NewStore() *Store {
	return &Store{nodes: map[string]*Node{}}
}

// AddAdmin creates an admin node directly in Active status. Admin and
// seed nodes skip the approval step.
func (s *Store) AddAdmin(id, ip string, port, raftPort int, orgID string) error {
	return s.add(id, ip, port, raftPort, orgID, StatusActive)
}

// AddPending creates an ordinary org node in Pending status.
func (s *Store) AddPending(id, ip string, port, raftPort int, orgID string) error {
	return s.add(id, ip, port, raftPort, orgID, StatusPending)
}

// AddApproved creates a node directly in Active status.
func (s *Store) AddApproved(id, ip string, port, raftPort int, orgID string) error {
	return s.add(id, ip, port, raftPort, orgID, StatusActive)
}

func (s *Store) add(id, ip string, port, raftPort int, orgID string, status Status) error {
	if strings.TrimSpace(id) == "" {
		return apperrors.New(apperrors.CodeInvalidArgument, "node identity is required")
	}
	if _, ok := s.nodes[id]; ok {
		return apperrors.WithMetadata(apperrors.CodeNodeExists, "node already exists", map[string]string{"NodeID": id})
	}
	s.nodes[id] = &Node{ID: id, IP: ip, Port: port, RaftPort: raftPort, OrgID: orgID, Status: status}
	return nil
}

// Approve transitions a Pending node to Active when the supplied org and
// connection attributes match the stored record. A mismatch is a stale
// proposal and is silently ignored; the returned bool reports whether the
// node transitioned.
func (s *Store) Approve(id, orgID, ip string, port, raftPort int) bool {
	n, ok := s.nodes[id]
	if !ok || n.Status != StatusPending {
		return false
	}
	if !n.attributesMatch(orgID, ip, port, raftPort) {
		return false
	}
	n.Status = StatusActive
	return true
}

// UpdateStatus drives the node status machine. An attribute mismatch is a
// stale request and is silently ignored; the returned bool reports whether
// the node transitioned. An unknown node or an invalid transition is an
// error.
func (s *Store) UpdateStatus(id, orgID, ip string, port, raftPort int, action Action) (bool, error) {
	n, ok := s.nodes[id]
	if !ok {
		return false, apperrors.WithMetadata(apperrors.CodeNodeNotFound, "node does not exist", map[string]string{"NodeID": id})
	}
	if !n.attributesMatch(orgID, ip, port, raftPort) {
		return false, nil
	}

	next, err := nextStatus(n.Status, action, id)
	if err != nil {
		return false, err
	}
	n.Status = next
	return true, nil
}

func nextStatus(current Status, action Action, id string) (Status, error) {
	invalid := func() (Status, error) {
		return StatusNotListed, apperrors.WithMetadata(apperrors.CodeNodeStatusInvalid, "node status does not allow the action", map[string]string{"NodeID": id})
	}
	switch action {
	case ActionDeactivate:
		if current != StatusActive {
			return invalid()
		}
		return StatusDeactivated, nil
	case ActionReactivate:
		if current != StatusDeactivated {
			return invalid()
		}
		return StatusActive, nil
	case ActionBlacklist:
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
		return StatusNotListed, apperrors.WithMetadata(apperrors.CodeInvalidAction, "action is not a valid node status action", map[string]string{"NodeID": id})
	}
}

// ConnectionAllowed reports whether the network layer should accept a
// connection from the node: the node must be Active and the caller's
// observed address must match the stored one.
func (s *Store) ConnectionAllowed(id, ip string, port int) bool {
	n, ok := s.nodes[id]
	if !ok {
		return false
	}
	return n.Status == StatusActive && n.IP == ip
}

// Get returns the node record for the given identity.
func (s *Store) Get(id string) (Node, bool) {
	n, ok := s.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// Exists reports whether a node with the given identity is known.
func (s *Store) Exists(id string) bool {
	_, ok := s.nodes[id]
	return ok
}

func (n *Node) attributesMatch(orgID, ip string, port, raftPort int) bool {
	return n.OrgID == orgID && n.IP == ip && n.Port == port && n.RaftPort == raftPort
}
