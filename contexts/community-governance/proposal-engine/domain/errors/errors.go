package errors

import "errors"

var (
	ErrInvalidProposalInput   = errors.New("invalid proposal input")
	ErrInsufficientReputation = errors.New("insufficient reputation to create proposals")
	ErrProposalRateLimited    = errors.New("proposal creation weekly limit reached")
	ErrProposalNotFound       = errors.New("proposal not found")
	ErrUserNotFound           = errors.New("user not found")
	ErrProposalNotActive      = errors.New("proposal is not active")
	ErrVotingPeriodEnded      = errors.New("voting period has ended")
	ErrInvalidVoteOption      = errors.New("vote option is out of range")
	ErrInvalidStatusOverride  = errors.New("invalid proposal status override")
	ErrAdminRequired          = errors.New("administrator role required")

	// ErrRepositoryInvariantBroke signals a storage-level contradiction that
	// should be impossible under the schema constraints.
	ErrRepositoryInvariantBroke = errors.New("repository invariant broken")
)
