// Package policy implements the permissioning engine: the sole entry point
// for external callers. It authorizes every call against the account and
// role stores, sequences mutations into the four entity stores and the
// vote coordinator, and emits the ordered domain events of each change.
//
// The engine is a strictly serialized state machine. It carries no
// internal locking: the hosting environment must deliver mutating calls in
// a single total order. Reads may run concurrently with each other but not
// with a mutation.
package policy

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/netgovern/netgovern/internal/govern/account"
	"github.com/netgovern/netgovern/internal/govern/event"
	"github.com/netgovern/netgovern/internal/govern/journal"
	"github.com/netgovern/netgovern/internal/govern/node"
	"github.com/netgovern/netgovern/internal/govern/org"
	"github.com/netgovern/netgovern/internal/govern/role"
	"github.com/netgovern/netgovern/internal/govern/voting"
	apperrors "github.com/netgovern/netgovern/internal/platform/errors"
)

// BootStatus describes the engine's startup state machine.
type BootStatus int

const (
	// BootUninitialized means no policy constants are set.
	BootUninitialized BootStatus = iota
	// BootPolicySet means policy constants are set but boot is not complete.
	BootPolicySet
	// BootCompleted means the network is live and lifecycle is governed.
	BootCompleted
)

// Engine coordinates the five stores under one authorization policy.
type Engine struct {
	orgs     *org.Store
	accounts *account.Store
	nodes    *node.Store
	roles    *role.Store
	votes    *voting.Coordinator

	adminOrg     string
	netAdminRole string
	orgAdminRole string
	boot         BootStatus

	recorder journal.Recorder
	clock    func() time.Time
	tracer   trace.Tracer
}

// Option configures an Engine.
type Option func(*Engine)

// WithRecorder injects an audit journal that receives every emitted event.
func WithRecorder(r journal.Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithClock overrides the engine clock, primarily for tests.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// New creates an engine with empty stores, awaiting policy setup and boot.
func New(opts ...Option) *Engine {
	e := &Engine{
		orgs:     org.NewStore(),
		accounts: account.NewStore(),
		nodes:    node.NewStore(),
		roles:    role.NewStore(),
		votes:    voting.NewCoordinator(),
		clock:    time.Now,
		tracer:   otel.Tracer("netgovern/govern"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// BootStatus returns the engine's startup state.
func (e *Engine) BootStatus() BootStatus {
	return e.boot
}

// AdminOrg returns the configured administration organization id.
func (e *Engine) AdminOrg() string {
	return e.adminOrg
}

// SetPolicy sets the admin org id and the two protected role names. It is
// allowed only before boot completes and may be called again to correct
// the policy during setup.
func (e *Engine) SetPolicy(adminOrg, networkAdminRole, orgAdminRole string) error {
	if e.boot == BootCompleted {
		return apperrors.New(apperrors.CodeNetworkAlreadyBooted, "network boot is already complete")
	}
	if adminOrg == "" || networkAdminRole == "" || orgAdminRole == "" {
		return apperrors.New(apperrors.CodeInvalidArgument, "admin org and role names are required")
	}
	e.adminOrg = adminOrg
	e.netAdminRole = networkAdminRole
	e.orgAdminRole = orgAdminRole
	e.boot = BootPolicySet
	return nil
}

// InitializeRoot wires the admin organization as the ultimate root with
// the given sub-org bounds, creates the network-admin role, and pushes the
// role names into the account store. Pre-boot only.
func (e *Engine) InitializeRoot(ctx context.Context, breadth, depth int) ([]event.Event, error) {
	ctx, span := e.tracer.Start(ctx, "govern.initialize_root")
	defer span.End()

	if err := e.requirePreBoot(); err != nil {
		return nil, err
	}
	if err := e.orgs.SetRoot(e.adminOrg, breadth, depth); err != nil {
		return nil, err
	}
	if err := e.roles.Add(e.netAdminRole, e.adminOrg, role.AccessFull, true, true); err != nil {
		return nil, err
	}
	e.accounts.SetRoleNames(e.netAdminRole, e.orgAdminRole)

	evs := []event.Event{
		e.newEvent(event.TypeOrgApproved, event.KindOrg, e.adminOrg, e.adminOrg, org.StatusApproved.String(), ""),
		e.newEvent(event.TypeRoleCreated, event.KindRole, e.netAdminRole, e.adminOrg, "active", ""),
	}
	e.record(ctx, evs)
	return evs, nil
}

// SeedAdminNode adds one bootstrap node directly in Active status under
// the admin org. Pre-boot only.
func (e *Engine) SeedAdminNode(ctx context.Context, id, ip string, port, raftPort int) ([]event.Event, error) {
	ctx, span := e.tracer.Start(ctx, "govern.seed_admin_node")
	defer span.End()

	if err := e.requirePreBoot(); err != nil {
		return nil, err
	}
	if !e.orgs.Exists(e.adminOrg) {
		return nil, apperrors.New(apperrors.CodeInvalidArgument, "root org is not initialized")
	}
	if err := e.nodes.AddAdmin(id, ip, port, raftPort, e.adminOrg); err != nil {
		return nil, err
	}

	evs := []event.Event{
		e.newEvent(event.TypeNodeApproved, event.KindNode, id, e.adminOrg, node.StatusActive.String(), ""),
	}
	e.record(ctx, evs)
	return evs, nil
}

// SeedAdminAccount records the single bootstrap network-admin account and
// seats it as the admin org's voter. It requires the account store to be
// empty: the network starts with exactly one admin.
func (e *Engine) SeedAdminAccount(ctx context.Context, address string) ([]event.Event, error) {
	ctx, span := e.tracer.Start(ctx, "govern.seed_admin_account")
	defer span.End()

	if err := e.requirePreBoot(); err != nil {
		return nil, err
	}
	if !e.orgs.Exists(e.adminOrg) {
		return nil, apperrors.New(apperrors.CodeInvalidArgument, "root org is not initialized")
	}
	if e.accounts.Count() != 0 {
		return nil, apperrors.New(apperrors.CodeAccountsExist, "accounts already exist; seeding an admin account is not allowed")
	}
	if err := e.accounts.AssignAdminRole(e.adminOrg, address, e.netAdminRole, account.StatusPending); err != nil {
		return nil, err
	}
	if err := e.accounts.PromoteToOrgAdmin(e.adminOrg, address); err != nil {
		return nil, err
	}
	if err := e.votes.AddVoter(e.adminOrg, address); err != nil {
		return nil, err
	}

	evs := []event.Event{
		e.newEvent(event.TypeAccountAdminChanged, event.KindAccount, address, e.adminOrg, account.StatusActive.String(), ""),
		e.newEvent(event.TypeVoterAdded, event.KindVote, address, e.adminOrg, "", ""),
	}
	e.record(ctx, evs)
	return evs, nil
}

// CompleteBoot flips the engine into governed operation. It fails once
// boot has already completed.
func (e *Engine) CompleteBoot() error {
	if e.boot == BootCompleted {
		return apperrors.New(apperrors.CodeNetworkAlreadyBooted, "network boot is already complete")
	}
	if e.boot != BootPolicySet || !e.orgs.Exists(e.adminOrg) {
		return apperrors.New(apperrors.CodeInvalidArgument, "network policy and root org must be initialized first")
	}
	e.boot = BootCompleted
	return nil
}

func (e *Engine) newEvent(t event.Type, kind event.Kind, entityID, orgID, status, actor string) event.Event {
	return event.Event{
		Timestamp:  e.clock().UTC(),
		Type:       t,
		OrgID:      orgID,
		EntityKind: kind,
		EntityID:   entityID,
		Status:     status,
		Actor:      actor,
	}
}

// record hands the events of a committed mutation to the audit journal.
// Journal failures do not roll the mutation back; they are surfaced in the
// service log only.
func (e *Engine) record(ctx context.Context, events []event.Event) {
	if e.recorder == nil || len(events) == 0 {
		return
	}
	if err := e.recorder.Append(ctx, events); err != nil {
		log.Printf("journal append: %v", err)
	}
}
