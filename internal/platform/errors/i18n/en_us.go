package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeAuthNotNetworkAdmin    = "AUTH_NOT_NETWORK_ADMIN"
	CodeAuthNotOrgAdmin        = "AUTH_NOT_ORG_ADMIN"
	CodeAuthNotAuthorized      = "AUTH_NOT_AUTHORIZED"
	CodeOrgNotFound            = "ORG_NOT_FOUND"
	CodeAccountNotFound        = "ACCOUNT_NOT_FOUND"
	CodeNodeNotFound           = "NODE_NOT_FOUND"
	CodeRoleNotFound           = "ROLE_NOT_FOUND"
	CodeNotFound               = "NOT_FOUND"
	CodeNetworkAlreadyBooted   = "NETWORK_ALREADY_BOOTED"
	CodeNetworkBootOnly        = "NETWORK_BOOT_ONLY"
	CodeNetworkNotBooted       = "NETWORK_NOT_BOOTED"
	CodeOrgStatusInvalid       = "ORG_STATUS_INVALID"
	CodeOrgNotRootLevel        = "ORG_NOT_ROOT_LEVEL"
	CodeAccountStatusInvalid   = "ACCOUNT_STATUS_INVALID"
	CodeNodeStatusInvalid      = "NODE_STATUS_INVALID"
	CodeInvalidAction          = "INVALID_ACTION"
	CodeInvalidAccessLevel     = "INVALID_ACCESS_LEVEL"
	CodeInvalidArgument        = "INVALID_ARGUMENT"
	CodeOrgExists              = "ORG_EXISTS"
	CodeNodeExists             = "NODE_EXISTS"
	CodeRoleExists             = "ROLE_EXISTS"
	CodeRoleProtected          = "ROLE_PROTECTED"
	CodeAccountsExist          = "ACCOUNTS_EXIST"
	CodeAccountInUse           = "ACCOUNT_IN_USE"
	CodeAccountIsActiveAdmin   = "ACCOUNT_IS_ACTIVE_ADMIN"
	CodeOrgAdminExists         = "ORG_ADMIN_EXISTS"
	CodeBreadthExceeded        = "ORG_BREADTH_EXCEEDED"
	CodeDepthExceeded          = "ORG_DEPTH_EXCEEDED"
	CodeVotingOperationPending = "VOTING_OPERATION_PENDING"
	CodeVotingNoOperation      = "VOTING_NO_OPERATION"
	CodeVotingWrongSubject     = "VOTING_WRONG_SUBJECT"
	CodeVoterExists            = "VOTER_EXISTS"
	CodeVoterNotFound          = "VOTER_NOT_FOUND"
	CodeVoteAlreadyCast        = "VOTE_ALREADY_CAST"
)

var enUSCatalog = &Catalog{
	locale: "en-US",
	messages: map[Code]string{
		// Authorization errors
		CodeAuthNotNetworkAdmin: "Account is not the network admin",
		CodeAuthNotOrgAdmin:     "Account is not an org admin for org {{.OrgID}}",
		CodeAuthNotAuthorized:   "Account is not authorized for this operation",

		// Not-found errors
		CodeOrgNotFound:     "Org {{.OrgID}} does not exist",
		CodeAccountNotFound: "Account {{.Account}} does not exist",
		CodeNodeNotFound:    "Node {{.NodeID}} does not exist",
		CodeRoleNotFound:    "Role {{.RoleID}} does not exist for org {{.OrgID}}",
		CodeNotFound:        "Record not found",

		// State errors
		CodeNetworkAlreadyBooted: "Network boot is already complete",
		CodeNetworkBootOnly:      "Operation is only allowed before network boot",
		CodeNetworkNotBooted:     "Network boot is not complete",
		CodeOrgStatusInvalid:     "Org {{.OrgID}} status does not allow this operation",
		CodeOrgNotRootLevel:      "Org {{.OrgID}} is not a root-level org",
		CodeAccountStatusInvalid: "Account {{.Account}} status does not allow this operation",
		CodeNodeStatusInvalid:    "Node {{.NodeID}} status does not allow this operation",
		CodeInvalidAction:        "Action {{.Action}} is not a valid status action",
		CodeInvalidAccessLevel:   "Access level {{.Access}} is not valid",
		CodeInvalidArgument:      "Invalid argument",

		// Invariant violations
		CodeOrgExists:            "Org {{.OrgID}} already exists",
		CodeNodeExists:           "Node {{.NodeID}} already exists",
		CodeRoleExists:           "Role {{.RoleID}} already exists for org {{.OrgID}}",
		CodeRoleProtected:        "Role {{.RoleID}} is protected and cannot be removed",
		CodeAccountsExist:        "Accounts already exist; seeding an admin account is not allowed",
		CodeAccountInUse:         "Account {{.Account}} is in use in another org",
		CodeAccountIsActiveAdmin: "Account {{.Account}} is the active admin",
		CodeOrgAdminExists:       "An active org admin already exists for org {{.OrgID}}",
		CodeBreadthExceeded:      "Org {{.OrgID}} has reached the sub-org breadth limit",
		CodeDepthExceeded:        "Org {{.OrgID}} has reached the sub-org depth limit",

		// Voting errors
		CodeVotingOperationPending: "Items pending for approval",
		CodeVotingNoOperation:      "Nothing to approve",
		CodeVotingWrongSubject:     "Pending operation does not match the approval subject",
		CodeVoterExists:            "Account {{.Account}} is already a voter",
		CodeVoterNotFound:          "Account {{.Account}} is not a voter",
		CodeVoteAlreadyCast:        "Account {{.Account}} has already voted",
	},
}
