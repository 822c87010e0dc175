// Copyright (c) 2026 SecNews. All rights reserved.
// Author: thanh.phamvan@gmail.com

package account_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thanhphv/secnews/internal/platform/apperr"
	"github.com/thanhphv/secnews/internal/platform/sec"
	"github.com/thanhphv/secnews/internal/users/account"
	"github.com/thanhphv/secnews/internal/users/auth"
	"github.com/thanhphv/secnews/pkg/uuidv7"
)

// fakeDirectory is an in-memory DirectoryRepository.
type fakeDirectory struct {
	users      map[string]*auth.User
	lastFilter account.Filter
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{users: make(map[string]*auth.User)}
}

func (f *fakeDirectory) List(_ context.Context, filter account.Filter, limit, offset int) ([]*auth.User, int, error) {
	f.lastFilter = filter
	matched := make([]*auth.User, 0, len(f.users))
	for _, user := range f.users {
		if filter.Role != "" && user.Role != filter.Role {
			continue
		}
		if filter.Status != "" && user.Status != filter.Status {
			continue
		}
		matched = append(matched, user)
	}
	total := len(matched)
	if offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (f *fakeDirectory) FindByID(_ context.Context, id string) (*auth.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	clone := *user
	return &clone, nil
}

func (f *fakeDirectory) UpdateAdminFields(_ context.Context, user *auth.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return apperr.NotFound("User")
	}
	user.UpdatedAt = time.Now()
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeDirectory) Delete(_ context.Context, id string) error {
	if _, ok := f.users[id]; !ok {
		return apperr.NotFound("User")
	}
	delete(f.users, id)
	return nil
}

// fakeCounter returns a fixed article count per author email.
type fakeCounter struct {
	counts map[string]int
}

func (f *fakeCounter) CountByAuthorEmail(_ context.Context, email string) (int, error) {
	return f.counts[email], nil
}

func seedUser(directory *fakeDirectory, role sec.UserRole, email string) *auth.User {
	user := &auth.User{
		ID:          uuidv7.New(),
		Username:    "user-" + string(role),
		Email:       email,
		FullName:    "Nguyễn Văn A",
		Role:        role,
		Permissions: sec.CanonicalPermissions(role),
		Status:      auth.StatusActive,
		CreatedAt:   time.Now(),
	}
	directory.users[user.ID] = user
	return user
}

func adminIdentity() *sec.Identity {
	return &sec.Identity{
		UserID:      uuidv7.New(),
		Username:    "root",
		Email:       "admin@secnews.vn",
		Role:        sec.RoleAdmin,
		Permissions: sec.CanonicalPermissions(sec.RoleAdmin),
	}
}

func TestService_Update_RoleChangeRewritesPermissions(t *testing.T) {
	directory := newFakeDirectory()
	service := account.NewService(directory, &fakeCounter{})
	target := seedUser(directory, sec.RoleAuthor, "author@secnews.vn")

	role := sec.RoleEditor
	updated, err := service.Update(context.Background(), adminIdentity(), target.ID, account.UpdateInput{Role: &role})

	require.NoError(t, err)
	assert.Equal(t, sec.RoleEditor, updated.Role)
	assert.ElementsMatch(t, sec.CanonicalPermissions(sec.RoleEditor), updated.Permissions)
	assert.ElementsMatch(t, sec.CanonicalPermissions(sec.RoleEditor), directory.users[target.ID].Permissions)
}

func TestService_Update_PartialFields(t *testing.T) {
	directory := newFakeDirectory()
	service := account.NewService(directory, &fakeCounter{})
	target := seedUser(directory, sec.RoleEditor, "editor@secnews.vn")

	status := auth.StatusSuspended
	name := "Trần Thị B"
	updated, err := service.Update(context.Background(), adminIdentity(), target.ID, account.UpdateInput{
		Status:   &status,
		FullName: &name,
	})

	require.NoError(t, err)
	assert.Equal(t, auth.StatusSuspended, updated.Status)
	assert.Equal(t, "Trần Thị B", updated.FullName)
	// Role untouched, so the permission set is too.
	assert.Equal(t, sec.RoleEditor, updated.Role)
	assert.ElementsMatch(t, sec.CanonicalPermissions(sec.RoleEditor), updated.Permissions)
}

func TestService_Update_SelfTargetRejected(t *testing.T) {
	directory := newFakeDirectory()
	service := account.NewService(directory, &fakeCounter{})
	admin := adminIdentity()
	self := seedUser(directory, sec.RoleAdmin, admin.Email)
	admin.UserID = self.ID

	role := sec.RoleAuthor
	_, err := service.Update(context.Background(), admin, self.ID, account.UpdateInput{Role: &role})

	var appError *apperr.AppError
	require.True(t, errors.As(err, &appError))
	assert.Equal(t, "INVALID_ACTION", appError.Code)
}

func TestService_Update_UnknownUser(t *testing.T) {
	directory := newFakeDirectory()
	service := account.NewService(directory, &fakeCounter{})

	role := sec.RoleEditor
	_, err := service.Update(context.Background(), adminIdentity(), uuidv7.New(), account.UpdateInput{Role: &role})

	var appError *apperr.AppError
	require.True(t, errors.As(err, &appError))
	assert.Equal(t, "NOT_FOUND", appError.Code)
}

func TestService_Delete(t *testing.T) {
	t.Run("removes an account with no articles", func(t *testing.T) {
		directory := newFakeDirectory()
		service := account.NewService(directory, &fakeCounter{})
		target := seedUser(directory, sec.RoleAuthor, "author@secnews.vn")

		require.NoError(t, service.Delete(context.Background(), adminIdentity(), target.ID))
		assert.Empty(t, directory.users)
	})

	t.Run("refuses while authored articles remain", func(t *testing.T) {
		directory := newFakeDirectory()
		counter := &fakeCounter{counts: map[string]int{"author@secnews.vn": 7}}
		service := account.NewService(directory, counter)
		target := seedUser(directory, sec.RoleAuthor, "author@secnews.vn")

		err := service.Delete(context.Background(), adminIdentity(), target.ID)

		var appError *apperr.AppError
		require.True(t, errors.As(err, &appError))
		assert.Equal(t, "INVALID_ACTION", appError.Code)
		assert.Contains(t, appError.Message, "7 articles")
		assert.Len(t, directory.users, 1)
	})

	t.Run("self-target beats existence check", func(t *testing.T) {
		directory := newFakeDirectory()
		service := account.NewService(directory, &fakeCounter{})
		admin := adminIdentity()

		// The admin's own ID is not even in the directory; the guard still
		// answers first so probing yields no information.
		err := service.Delete(context.Background(), admin, admin.UserID)

		var appError *apperr.AppError
		require.True(t, errors.As(err, &appError))
		assert.Equal(t, "INVALID_ACTION", appError.Code)
	})
}

func TestService_List_FilterPassthrough(t *testing.T) {
	directory := newFakeDirectory()
	service := account.NewService(directory, &fakeCounter{})
	seedUser(directory, sec.RoleAuthor, "a@secnews.vn")
	seedUser(directory, sec.RoleEditor, "b@secnews.vn")
	seedUser(directory, sec.RoleEditor, "c@secnews.vn")

	users, total, err := service.List(context.Background(), account.Filter{Role: sec.RoleEditor}, 10, 0)

	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, users, 2)
	assert.Equal(t, sec.RoleEditor, directory.lastFilter.Role)
}
