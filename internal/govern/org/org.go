// Package org owns the organization tree: identity, hierarchy, depth and
// breadth bounds, and the organization status machine.
package org

import (
	"strings"

	apperrors "github.com/netgovern/netgovern/internal/platform/errors"
)

// Status describes the lifecycle of an organization.
type Status int

const (
	// StatusNotListed represents an unknown organization.
	StatusNotListed Status = iota
	// StatusPendingApproval indicates the organization awaits majority approval.
	StatusPendingApproval
	// StatusApproved indicates the organization is approved and usable.
	StatusApproved
	// StatusPendingSuspension indicates a suspension or revocation vote is in flight.
	StatusPendingSuspension
	// StatusSuspended indicates the organization is fully suspended.
	StatusSuspended
)

// String returns the status label used in events and journal rows.
func (s Status) String() string {
	switch s {
	case StatusPendingApproval:
		return "pending_approval"
	case StatusApproved:
		return "approved"
	case StatusPendingSuspension:
		return "pending_suspension"
	case StatusSuspended:
		return "suspended"
	default:
		return "not_listed"
	}
}

// Org is one organization record. Records are created once and mutated in
// place; they are never deleted.
type Org struct {
	// ID is the local identifier (the last path segment for sub-orgs).
	ID string
	// FullID is the dot-separated hierarchical identifier.
	FullID string
	// ParentID is the parent's full identifier (empty for root orgs).
	ParentID string
	// UltimateParent is the full identifier of the root of this org's chain.
	UltimateParent string
	// Level is the depth in the tree (1 for root orgs).
	Level int
	// Status is the current lifecycle status.
	Status Status

	children []int
}

// Store is the arena of organization records. Parent/child relationships
// are stored as arena indices rather than pointers.
type Store struct {
	orgs    []Org
	index   map[string]int
	breadth int
	depth   int
}

// NewStore creates an empty organization store.
func NewStore() *Store {
	return &Store{index: map[string]int{}}
}

// Breadth returns the configured sub-org breadth limit.
func (s *Store) Breadth() int { return s.breadth }

// Depth returns the configured sub-org depth limit.
func (s *Store) Depth() int { return s.depth }

// SetRoot creates the ultimate-root organization directly in Approved
// status and records the breadth and depth bounds. It is callable once,
// before network boot.
func (s *Store) SetRoot(id string, breadth, depth int) error {
	if strings.TrimSpace(id) == "" {
		return apperrors.New(apperrors.CodeInvalidArgument, "org id is required")
	}
	if len(s.orgs) > 0 {
		return apperrors.New(apperrors.CodeOrgExists, "root org is already configured")
	}
	s.breadth = breadth
	s.depth = depth
	s.add(Org{ID: id, FullID: id, UltimateParent: id, Level: 1, Status: StatusApproved})
	return nil
}

// AddRoot creates a new root-level organization in PendingApproval status.
func (s *Store) AddRoot(id string) error {
	if strings.TrimSpace(id) == "" {
		return apperrors.New(apperrors.CodeInvalidArgument, "org id is required")
	}
	if _, ok := s.index[id]; ok {
		return apperrors.WithMetadata(apperrors.CodeOrgExists, "org already exists", map[string]string{"OrgID": id})
	}
	s.add(Org{ID: id, FullID: id, UltimateParent: id, Level: 1, Status: StatusPendingApproval})
	return nil
}

// AddSubOrg creates a child organization under an existing parent. Sub-orgs
// are not individually voted on and start directly in Approved status.
func (s *Store) AddSubOrg(parentID, id string) error {
	if strings.TrimSpace(id) == "" || strings.Contains(id, ".") {
		return apperrors.New(apperrors.CodeInvalidArgument, "sub-org id must be a single non-empty path segment")
	}
	parentIdx, ok := s.index[parentID]
	if !ok {
		return apperrors.WithMetadata(apperrors.CodeOrgNotFound, "org does not exist", map[string]string{"OrgID": parentID})
	}
	parent := &s.orgs[parentIdx]
	fullID := parent.FullID + "." + id
	if _, ok := s.index[fullID]; ok {
		return apperrors.WithMetadata(apperrors.CodeOrgExists, "org already exists", map[string]string{"OrgID": fullID})
	}
	if len(parent.children) >= s.breadth {
		return apperrors.WithMetadata(apperrors.CodeBreadthExceeded, "sub-org breadth limit reached", map[string]string{"OrgID": parent.FullID})
	}
	if parent.Level >= s.depth {
		return apperrors.WithMetadata(apperrors.CodeDepthExceeded, "sub-org depth limit reached", map[string]string{"OrgID": parent.FullID})
	}
	childIdx := s.add(Org{
		ID:             id,
		FullID:         fullID,
		ParentID:       parent.FullID,
		UltimateParent: parent.UltimateParent,
		Level:          parent.Level + 1,
		Status:         StatusApproved,
	})
	s.orgs[parentIdx].children = append(s.orgs[parentIdx].children, childIdx)
	return nil
}

// Approve transitions an organization from PendingApproval to Approved.
func (s *Store) Approve(id string) error {
	return s.transition(id, StatusPendingApproval, StatusApproved, false)
}

// Suspend transitions a root-level organization from Approved to
// PendingSuspension while the suspension vote is in flight.
func (s *Store) Suspend(id string) error {
	return s.transition(id, StatusApproved, StatusPendingSuspension, true)
}

// ApproveSuspension completes a suspension vote, transitioning the
// organization from PendingSuspension to Suspended.
func (s *Store) ApproveSuspension(id string) error {
	return s.transition(id, StatusPendingSuspension, StatusSuspended, true)
}

// RevokeSuspension transitions a root-level organization from Suspended to
// PendingSuspension while the revocation vote is in flight.
func (s *Store) RevokeSuspension(id string) error {
	return s.transition(id, StatusSuspended, StatusPendingSuspension, true)
}

// ApproveSuspensionRevoke completes a revocation vote, returning the
// organization from PendingSuspension to Approved.
func (s *Store) ApproveSuspensionRevoke(id string) error {
	return s.transition(id, StatusPendingSuspension, StatusApproved, true)
}

// Exists reports whether an organization with the given full id is known.
func (s *Store) Exists(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Get returns the organization record for the given full id.
func (s *Store) Get(id string) (Org, error) {
	idx, ok := s.index[id]
	if !ok {
		return Org{}, apperrors.WithMetadata(apperrors.CodeOrgNotFound, "org does not exist", map[string]string{"OrgID": id})
	}
	return s.orgs[idx], nil
}

// StatusIs reports whether the organization exists and has the given status.
func (s *Store) StatusIs(id string, status Status) bool {
	idx, ok := s.index[id]
	if !ok {
		return false
	}
	return s.orgs[idx].Status == status
}

// IsActive reports whether the organization is usable: approved or mid
// suspension vote, with its ultimate root in the same usable range. A
// sub-org stays usable while its root is mid-governance, but not once the
// root is fully suspended.
func (s *Store) IsActive(id string) bool {
	idx, ok := s.index[id]
	if !ok {
		return false
	}
	o := s.orgs[idx]
	if !usable(o.Status) {
		return false
	}
	rootIdx, ok := s.index[o.UltimateParent]
	if !ok {
		return false
	}
	return usable(s.orgs[rootIdx].Status)
}

// ChildCount returns the number of direct sub-organizations.
func (s *Store) ChildCount(id string) int {
	idx, ok := s.index[id]
	if !ok {
		return 0
	}
	return len(s.orgs[idx].children)
}

func usable(status Status) bool {
	return status == StatusApproved || status == StatusPendingSuspension
}

func (s *Store) add(o Org) int {
	idx := len(s.orgs)
	s.orgs = append(s.orgs, o)
	s.index[o.FullID] = idx
	return idx
}

func (s *Store) transition(id string, from, to Status, rootOnly bool) error {
	idx, ok := s.index[id]
	if !ok {
		return apperrors.WithMetadata(apperrors.CodeOrgNotFound, "org does not exist", map[string]string{"OrgID": id})
	}
	o := &s.orgs[idx]
	if rootOnly && o.Level != 1 {
		return apperrors.WithMetadata(apperrors.CodeOrgNotRootLevel, "org is not a root-level org", map[string]string{"OrgID": id})
	}
	if o.Status != from {
		return apperrors.WithMetadata(apperrors.CodeOrgStatusInvalid, "org status does not allow the operation", map[string]string{"OrgID": id})
	}
	o.Status = to
	return nil
}
