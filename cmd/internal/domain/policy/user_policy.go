package policy

import (
	"bizdirectory/cmd/internal/domain/entity"
	"bizdirectory/cmd/internal/utils/apierror"
)

// UserPolicy encapsulates the business rules for account manipulation.
// It returns apierror.ErrorResponse directly for seamless integration with handlers.
type UserPolicy struct{}

func NewUserPolicy() *UserPolicy {
	return &UserPolicy{}
}

// CanModifyAccount checks if 'actor' can update or delete the account
// 'targetID'. A nil actor means the request is not authenticated, which is
// only possible when authentication is disabled.
func (p *UserPolicy) CanModifyAccount(actor *entity.User, targetID string) apierror.ErrorResponse {
	if actor == nil || actor.ID == targetID {
		return nil
	}
	return apierror.NotAccountOwnerError
}
