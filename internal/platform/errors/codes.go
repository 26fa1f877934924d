// Package errors provides structured error handling with i18n support.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Authorization errors
	CodeAuthNotNetworkAdmin Code = "AUTH_NOT_NETWORK_ADMIN"
	CodeAuthNotOrgAdmin     Code = "AUTH_NOT_ORG_ADMIN"
	CodeAuthNotAuthorized   Code = "AUTH_NOT_AUTHORIZED"

	// Not-found errors
	CodeOrgNotFound     Code = "ORG_NOT_FOUND"
	CodeAccountNotFound Code = "ACCOUNT_NOT_FOUND"
	CodeNodeNotFound    Code = "NODE_NOT_FOUND"
	CodeRoleNotFound    Code = "ROLE_NOT_FOUND"
	CodeNotFound        Code = "NOT_FOUND"

	// State errors
	CodeNetworkAlreadyBooted Code = "NETWORK_ALREADY_BOOTED"
	CodeNetworkBootOnly      Code = "NETWORK_BOOT_ONLY"
	CodeNetworkNotBooted     Code = "NETWORK_NOT_BOOTED"
	CodeOrgStatusInvalid     Code = "ORG_STATUS_INVALID"
	CodeOrgNotRootLevel      Code = "ORG_NOT_ROOT_LEVEL"
	CodeAccountStatusInvalid Code = "ACCOUNT_STATUS_INVALID"
	CodeNodeStatusInvalid    Code = "NODE_STATUS_INVALID"
	CodeInvalidAction        Code = "INVALID_ACTION"
	CodeInvalidAccessLevel   Code = "INVALID_ACCESS_LEVEL"
	CodeInvalidArgument      Code = "INVALID_ARGUMENT"

	// Invariant violations
	CodeOrgExists            Code = "ORG_EXISTS"
	CodeNodeExists           Code = "NODE_EXISTS"
	CodeRoleExists           Code = "ROLE_EXISTS"
	CodeRoleProtected        Code = "ROLE_PROTECTED"
	CodeAccountsExist        Code = "ACCOUNTS_EXIST"
	CodeAccountInUse         Code = "ACCOUNT_IN_USE"
	CodeAccountIsActiveAdmin Code = "ACCOUNT_IS_ACTIVE_ADMIN"
	CodeOrgAdminExists       Code = "ORG_ADMIN_EXISTS"
	CodeBreadthExceeded      Code = "ORG_BREADTH_EXCEEDED"
	CodeDepthExceeded        Code = "ORG_DEPTH_EXCEEDED"

	// Voting errors
	CodeVotingOperationPending Code = "VOTING_OPERATION_PENDING"
	CodeVotingNoOperation      Code = "VOTING_NO_OPERATION"
	CodeVotingWrongSubject     Code = "VOTING_WRONG_SUBJECT"
	CodeVoterExists            Code = "VOTER_EXISTS"
	CodeVoterNotFound          Code = "VOTER_NOT_FOUND"
	CodeVoteAlreadyCast        Code = "VOTE_ALREADY_CAST"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// PermissionDenied - caller lacks the required role or relationship
	case CodeAuthNotNetworkAdmin,
		CodeAuthNotOrgAdmin,
		CodeAuthNotAuthorized:
		return codes.PermissionDenied

	// NotFound - referenced entity is unknown
	case CodeOrgNotFound,
		CodeAccountNotFound,
		CodeNodeNotFound,
		CodeRoleNotFound,
		CodeNotFound:
		return codes.NotFound

	// InvalidArgument - malformed input
	case CodeInvalidAction,
		CodeInvalidAccessLevel,
		CodeInvalidArgument:
		return codes.InvalidArgument

	// FailedPrecondition - state or invariant forbids the operation
	case CodeNetworkAlreadyBooted,
		CodeNetworkBootOnly,
		CodeNetworkNotBooted,
		CodeOrgStatusInvalid,
		CodeOrgNotRootLevel,
		CodeAccountStatusInvalid,
		CodeNodeStatusInvalid,
		CodeOrgExists,
		CodeNodeExists,
		CodeRoleExists,
		CodeRoleProtected,
		CodeAccountsExist,
		CodeAccountInUse,
		CodeAccountIsActiveAdmin,
		CodeOrgAdminExists,
		CodeBreadthExceeded,
		CodeDepthExceeded,
		CodeVotingOperationPending,
		CodeVotingNoOperation,
		CodeVotingWrongSubject,
		CodeVoterExists,
		CodeVoterNotFound,
		CodeVoteAlreadyCast:
		return codes.FailedPrecondition

	default:
		return codes.Internal
	}
}
