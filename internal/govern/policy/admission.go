package policy

import (
	"github.com/netgovern/netgovern/internal/govern/account"
	"github.com/netgovern/netgovern/internal/govern/node"
	"github.com/netgovern/netgovern/internal/govern/org"
	"github.com/netgovern/netgovern/internal/govern/role"
	"github.com/netgovern/netgovern/internal/govern/voting"
)

// TransactionAllowed decides whether sender may submit a transaction.
// Before boot completes everything is allowed so the network can be set
// up. After boot the sender must be an active account in a usable org;
// admins may do anything, other accounts are checked against their role's
// access level for the transaction's kind.
func (e *Engine) TransactionAllowed(sender, target string, payload []byte) bool {
	if e.boot != BootCompleted {
		return true
	}
	acct, ok := e.accounts.Get(sender)
	if !ok || acct.Status != account.StatusActive {
		return false
	}
	if !e.orgs.IsActive(acct.OrgID) {
		return false
	}
	o, err := e.orgs.Get(acct.OrgID)
	if err != nil {
		return false
	}
	if e.accounts.IsAdminOf(sender, o.FullID, o.UltimateParent) {
		return true
	}
	var kind role.TxnKind
	switch {
	case target == "":
		kind = role.TxnContractDeploy
	case len(payload) > 0:
		kind = role.TxnContractCall
	default:
		kind = role.TxnValueTransfer
	}
	return e.roles.TransactionAllowed(acct.RoleID, acct.OrgID, o.UltimateParent, kind)
}

// ConnectionAllowed decides whether a node may join the network. Before
// boot completes everything is allowed; after boot the node must be
// Active with a matching enode IP.
func (e *Engine) ConnectionAllowed(id, ip string, port int) bool {
	if e.boot != BootCompleted {
		return true
	}
	return e.nodes.ConnectionAllowed(id, ip, port)
}

// IsNetworkAdmin reports whether address is the active network admin.
func (e *Engine) IsNetworkAdmin(address string) bool {
	return e.accounts.IsNetworkAdmin(address)
}

// IsOrgAdmin reports whether address administers orgID. Network admins
// administer every org.
func (e *Engine) IsOrgAdmin(address, orgID string) bool {
	o, err := e.orgs.Get(orgID)
	if err != nil {
		return false
	}
	return e.accounts.IsAdminOf(address, o.FullID, o.UltimateParent)
}

// PendingOperation returns the admin org's in-flight governance item.
// The zero value (type OpNone) means nothing is pending.
func (e *Engine) PendingOperation() voting.Pending {
	return e.votes.PendingOperation(e.adminOrg)
}

// Org returns a snapshot of an organization record.
func (e *Engine) Org(id string) (org.Org, error) {
	return e.orgs.Get(id)
}

// Account returns a snapshot of an account record.
func (e *Engine) Account(address string) (account.Account, bool) {
	return e.accounts.Get(address)
}

// Node returns a snapshot of a node record.
func (e *Engine) Node(id string) (node.Node, bool) {
	return e.nodes.Get(id)
}
