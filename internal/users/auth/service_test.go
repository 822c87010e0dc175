// Copyright (c) 2026 SecNews. All rights reserved.
// Author: thanh.phamvan@gmail.com

package auth_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thanhphv/secnews/internal/platform/apperr"
	"github.com/thanhphv/secnews/internal/platform/sec"
	"github.com/thanhphv/secnews/internal/users/auth"
)

// fakeUserRepository is an in-memory UserRepository for service tests.
type fakeUserRepository struct {
	users map[string]*auth.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[string]*auth.User)}
}

func (repo *fakeUserRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	if user, ok := repo.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, apperr.NotFound("User")
}

func (repo *fakeUserRepository) FindByIdentifier(_ context.Context, identifier string) (*auth.User, error) {
	for _, user := range repo.users {
		if strings.EqualFold(user.Email, identifier) || user.Username == identifier {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *fakeUserRepository) Create(_ context.Context, user *auth.User) error {
	repo.users[user.ID] = user
	return nil
}

func (repo *fakeUserRepository) UpdateProfile(_ context.Context, user *auth.User) error {
	repo.users[user.ID] = user
	return nil
}

func (repo *fakeUserRepository) UpdatePassword(_ context.Context, userID, newHash string) error {
	if user, ok := repo.users[userID]; ok {
		user.PasswordHash = newHash
	}
	return nil
}

func (repo *fakeUserRepository) StampLogin(_ context.Context, userID string) error {
	if user, ok := repo.users[userID]; ok {
		now := time.Now()
		user.LastLogin = &now
		user.LoginCount++
	}
	return nil
}

func (repo *fakeUserRepository) CountUsers(_ context.Context) (int, error) {
	return len(repo.users), nil
}

func (repo *fakeUserRepository) CountActiveAdmins(_ context.Context) (int, error) {
	count := 0
	for _, user := range repo.users {
		if user.Role == sec.RoleAdmin && user.Status == auth.StatusActive {
			count++
		}
	}
	return count, nil
}

// fakeTokenProvider returns a predictable token string.
type fakeTokenProvider struct{}

func (fakeTokenProvider) GenerateAccessToken(userID, _, _ string, _ sec.UserRole, _ time.Duration) (string, error) {
	return "token-for-" + userID, nil
}

func newTestService(repo auth.UserRepository) *auth.Service {
	return auth.NewService(repo, fakeTokenProvider{}, 24*time.Hour)
}

/*
TestService_Setup covers the one-time bootstrap flow.
*/
func TestService_Setup(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepository()
	service := newTestService(repo)

	t.Run("creates the first admin with a token", func(t *testing.T) {
		result, err := service.Setup(ctx, auth.SetupInput{
			Username: "root",
			Email:    "root@secnews.vn",
			Password: "s3cure-pass",
			FullName: "Pham Van Thanh",
		})
		require.NoError(t, err)

		assert.Equal(t, sec.RoleAdmin, result.User.Role)
		assert.Equal(t, auth.StatusActive, result.User.Status)
		assert.ElementsMatch(t, sec.CanonicalPermissions(sec.RoleAdmin), result.User.Permissions)
		assert.Equal(t, "token-for-"+result.User.ID, result.Token)

		// Password never leaves the service in plain text.
		assert.NotEqual(t, "s3cure-pass", result.User.PasswordHash)
	})

	t.Run("refuses once any account exists", func(t *testing.T) {
		_, err := service.Setup(ctx, auth.SetupInput{
			Username: "root2",
			Email:    "root2@secnews.vn",
			Password: "s3cure-pass",
			FullName: "Second Admin",
		})
		require.Error(t, err)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 400, ae.HTTPStatus)
	})
}

/*
TestService_Register covers staff enrollment rules.
*/
func TestService_Register(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepository()
	service := newTestService(repo)

	t.Run("defaults to the author role", func(t *testing.T) {
		user, err := service.Register(ctx, auth.RegisterInput{
			Username: "writer",
			Email:    "writer@secnews.vn",
			Password: "s3cure-pass",
			FullName: "Staff Writer",
		})
		require.NoError(t, err)
		assert.Equal(t, sec.RoleAuthor, user.Role)
		assert.ElementsMatch(t, []sec.Permission{sec.PermCreateNews, sec.PermEditNews}, user.Permissions)
		assert.True(t, user.EmailVerified)
	})

	t.Run("duplicate email is a 400 with the field named", func(t *testing.T) {
		_, err := service.Register(ctx, auth.RegisterInput{
			Username: "writer2",
			Email:    "writer@secnews.vn",
			Password: "s3cure-pass",
			FullName: "Second Writer",
		})
		require.Error(t, err)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 400, ae.HTTPStatus)
		assert.Equal(t, "DUPLICATE_FIELD", ae.Code)
		require.Len(t, ae.Details, 1)
		assert.Equal(t, "email", ae.Details[0].Field)
	})

	t.Run("stores the email lowercased", func(t *testing.T) {
		user, err := service.Register(ctx, auth.RegisterInput{
			Username: "mixedcase",
			Email:    "Alice@Example.COM",
			Password: "s3cure-pass",
			FullName: "Alice",
		})
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", user.Email)

		// A case-variant of an existing email is still a duplicate.
		_, err = service.Register(ctx, auth.RegisterInput{
			Username: "mixedcase2",
			Email:    "ALICE@example.com",
			Password: "s3cure-pass",
			FullName: "Alice Again",
		})
		require.Error(t, err)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "DUPLICATE_FIELD", ae.Code)
	})

	t.Run("rejects unknown roles", func(t *testing.T) {
		_, err := service.Register(ctx, auth.RegisterInput{
			Username: "odd",
			Email:    "odd@secnews.vn",
			Password: "s3cure-pass",
			FullName: "Odd Role",
			Role:     "superuser",
		})
		require.Error(t, err)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	})
}

/*
TestService_Login covers the authentication flow and activity stamping.
*/
func TestService_Login(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepository()
	service := newTestService(repo)

	editor, err := service.Register(ctx, auth.RegisterInput{
		Username: "editor",
		Email:    "editor@secnews.vn",
		Password: "s3cure-pass",
		FullName: "News Editor",
		Role:     sec.RoleEditor,
	})
	require.NoError(t, err)

	t.Run("logs in by email and stamps activity", func(t *testing.T) {
		result, err := service.Login(ctx, auth.LoginInput{
			Identifier: "editor@secnews.vn",
			Password:   "s3cure-pass",
		})
		require.NoError(t, err)
		assert.Equal(t, editor.ID, result.User.ID)
		assert.Equal(t, 1, result.User.LoginCount)
		assert.NotNil(t, result.User.LastLogin)
	})

	t.Run("logs in by username", func(t *testing.T) {
		result, err := service.Login(ctx, auth.LoginInput{
			Identifier: "editor",
			Password:   "s3cure-pass",
		})
		require.NoError(t, err)
		assert.Equal(t, 2, result.User.LoginCount)
	})

	t.Run("wrong password is a generic 401", func(t *testing.T) {
		_, err := service.Login(ctx, auth.LoginInput{
			Identifier: "editor",
			Password:   "wrong-pass",
		})
		require.Error(t, err)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 401, ae.HTTPStatus)
	})

	t.Run("suspended account cannot log in", func(t *testing.T) {
		repo.users[editor.ID].Status = auth.StatusSuspended

		_, err := service.Login(ctx, auth.LoginInput{
			Identifier: "editor",
			Password:   "s3cure-pass",
		})
		require.Error(t, err)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 401, ae.HTTPStatus)

		repo.users[editor.ID].Status = auth.StatusActive
	})
}

/*
TestService_ChangePassword verifies the current-password gate.
*/
func TestService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepository()
	service := newTestService(repo)

	user, err := service.Register(ctx, auth.RegisterInput{
		Username: "writer",
		Email:    "writer@secnews.vn",
		Password: "old-pass-123",
		FullName: "Staff Writer",
	})
	require.NoError(t, err)

	t.Run("wrong current password is a 400", func(t *testing.T) {
		err := service.ChangePassword(ctx, user.ID, "not-my-pass", "new-pass-123")
		require.Error(t, err)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 400, ae.HTTPStatus)
	})

	t.Run("correct current password rotates the hash", func(t *testing.T) {
		require.NoError(t, service.ChangePassword(ctx, user.ID, "old-pass-123", "new-pass-123"))

		_, err := service.Login(ctx, auth.LoginInput{Identifier: "writer", Password: "new-pass-123"})
		assert.NoError(t, err)

		_, err = service.Login(ctx, auth.LoginInput{Identifier: "writer", Password: "old-pass-123"})
		assert.Error(t, err)
	})
}

/*
TestService_ResolveIdentity verifies live token re-validation.
*/
func TestService_ResolveIdentity(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepository()
	service := newTestService(repo)

	user, err := service.Register(ctx, auth.RegisterInput{
		Username: "writer",
		Email:    "writer@secnews.vn",
		Password: "s3cure-pass",
		FullName: "Staff Writer",
	})
	require.NoError(t, err)

	t.Run("active account resolves to an identity", func(t *testing.T) {
		identity, err := service.ResolveIdentity(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.ID, identity.UserID)
		assert.Equal(t, sec.RoleAuthor, identity.Role)
	})

	t.Run("deactivated account invalidates the token", func(t *testing.T) {
		repo.users[user.ID].Status = auth.StatusInactive

		_, err := service.ResolveIdentity(ctx, user.ID)
		require.Error(t, err)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 401, ae.HTTPStatus)
	})

	t.Run("unknown account invalidates the token", func(t *testing.T) {
		_, err := service.ResolveIdentity(ctx, "missing-id")
		require.Error(t, err)
	})
}

/*
TestService_CheckAdmin verifies installer introspection.
*/
func TestService_CheckAdmin(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepository()
	service := newTestService(repo)

	presence, err := service.CheckAdmin(ctx)
	require.NoError(t, err)
	assert.False(t, presence.HasAdmin)
	assert.Zero(t, presence.AdminCount)

	_, err = service.Setup(ctx, auth.SetupInput{
		Username: "root",
		Email:    "root@secnews.vn",
		Password: "s3cure-pass",
		FullName: "Root Admin",
	})
	require.NoError(t, err)

	presence, err = service.CheckAdmin(ctx)
	require.NoError(t, err)
	assert.True(t, presence.HasAdmin)
	assert.Equal(t, 1, presence.AdminCount)
}
