// Copyright (c) 2026 SecNews. All rights reserved.
// Author: thanh.phamvan@gmail.com

package account

import (
	"context"
	"fmt"

	"github.com/thanhphv/secnews/internal/platform/apperr"
	"github.com/thanhphv/secnews/internal/platform/sec"
	"github.com/thanhphv/secnews/internal/users/auth"
)

// # Directory Service

// Service orchestrates staff administration: roster listing, role and status
// changes, and account removal.
type Service struct {
	directory DirectoryRepository
	articles  ArticleCounter
}

// NewService creates the staff-administration service.
func NewService(directory DirectoryRepository, articles ArticleCounter) *Service {
	return &Service{directory: directory, articles: articles}
}

/*
List returns a page of the staff roster.

Parameters:
  - context: context.Context
  - filter: Filter
  - limit: int
  - offset: int

Returns:
  - []*auth.User: Page of accounts, newest first
  - int: Total match count
  - error: Execution errors
*/
func (service *Service) List(context context.Context, filter Filter, limit, offset int) ([]*auth.User, int, error) {
	return service.directory.List(context, filter, limit, offset)
}

/*
Update applies administrative changes to a staff member.

Description: Changing the role rematerializes the permission set from
[sec.CanonicalPermissions], so grants always reflect the new role. Admins
cannot target their own account through this endpoint; self-service profile
changes go through the auth domain instead.

Parameters:
  - context: context.Context
  - identity: *sec.Identity (acting administrator)
  - id: string (target account)
  - input: UpdateInput

Returns:
  - *auth.User: Updated account
  - error: NotFound, InvalidAction (self-target), or execution errors
*/
func (service *Service) Update(context context.Context, identity *sec.Identity, id string, input UpdateInput) (*auth.User, error) {
	user, err := service.directory.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if err := sec.GuardSelfTarget(identity, user.ID); err != nil {
		return nil, err
	}

	if input.Role != nil {
		user.Role = *input.Role
		user.Permissions = sec.CanonicalPermissions(user.Role)
	}
	if input.Status != nil {
		user.Status = *input.Status
	}
	if input.FullName != nil {
		user.FullName = *input.FullName
	}

	if err := service.directory.UpdateAdminFields(context, user); err != nil {
		return nil, err
	}

	return user, nil
}

/*
Delete removes a staff account.

Description: The self-target guard runs before the existence check so an admin
probing their own ID always gets the same answer. Accounts with authored
articles cannot be deleted; the caller is told to deactivate instead, keeping
article author snapshots historically consistent.

Parameters:
  - context: context.Context
  - identity: *sec.Identity (acting administrator)
  - id: string (target account)

Returns:
  - error: InvalidAction (self-target or authored articles), NotFound, or
    execution errors
*/
func (service *Service) Delete(context context.Context, identity *sec.Identity, id string) error {
	if err := sec.GuardSelfTarget(identity, id); err != nil {
		return err
	}

	user, err := service.directory.FindByID(context, id)
	if err != nil {
		return err
	}

	authored, err := service.articles.CountByAuthorEmail(context, user.Email)
	if err != nil {
		return err
	}
	if authored > 0 {
		return apperr.InvalidAction(fmt.Sprintf(
			"Cannot delete a user who has authored %d articles. Deactivate the account instead.", authored))
	}

	return service.directory.Delete(context, user.ID)
}
