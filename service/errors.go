package service

import (
	"errors"
	"fmt"
)

// RuleKind tags an expected rule violation so callers can branch on the
// kind instead of matching message strings.
type RuleKind string

const (
	KindAlreadyInGame        RuleKind = "already_in_game"
	KindGameClosed           RuleKind = "game_closed"
	KindGameFull             RuleKind = "game_full"
	KindRoleRequired         RuleKind = "role_required"
	KindNotInGame            RuleKind = "not_in_game"
	KindNotFound             RuleKind = "not_found"
	KindInvalidTeam          RuleKind = "invalid_team"
	KindBettingClosed        RuleKind = "betting_closed"
	KindCannotBetAgainstSelf RuleKind = "cannot_bet_against_self"
	KindInsufficientBalance  RuleKind = "insufficient_balance"
	KindInvalidAmount        RuleKind = "invalid_amount"
	KindDuplicateName        RuleKind = "duplicate_name"
	KindPermissionDenied     RuleKind = "permission_denied"
	KindInvalidInput         RuleKind = "invalid_input"
)

// RuleError is an expected rule violation, surfaced to the user verbatim.
// Anything that is not a RuleError is an internal error and gets a generic
// reply plus a log entry.
type RuleError struct {
	Kind    RuleKind
	Message string
}

func (e *RuleError) Error() string {
	return e.Message
}

// NewRuleError creates a rule violation with a formatted message.
func NewRuleError(kind RuleKind, format string, args ...any) *RuleError {
	return &RuleError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// AsRuleError unwraps err as a RuleError, or returns nil.
func AsRuleError(err error) *RuleError {
	var ruleErr *RuleError
	if errors.As(err, &ruleErr) {
		return ruleErr
	}
	return nil
}

// IsRuleKind reports whether err is a RuleError of the given kind.
func IsRuleKind(err error, kind RuleKind) bool {
	ruleErr := AsRuleError(err)
	return ruleErr != nil && ruleErr.Kind == kind
}
