package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/inselpa/incident-api/internal/models"
	appErrors "github.com/inselpa/incident-api/pkg/errors"
)

type fakeUserCrudGateway struct {
	users   []models.User
	saved   []models.User
	deleted []string
}

func (f *fakeUserCrudGateway) ListUsers(ctx context.Context) ([]models.User, error) {
	return f.users, nil
}

func (f *fakeUserCrudGateway) SaveUser(ctx context.Context, user models.User) (models.User, error) {
	if user.ID == "" {
		user.ID = "user-new"
	}
	f.saved = append(f.saved, user)
	return user, nil
}

func (f *fakeUserCrudGateway) DeleteUser(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func TestUserSaveHashesNewPassword(t *testing.T) {
	gateway := &fakeUserCrudGateway{}
	svc := NewUserService(gateway, nil, nil)

	user, err := svc.Save(context.Background(), "", SaveUserRequest{
		Username: "profe",
		Password: "secreta",
		FullName: "Profe Uno",
		Role:     models.RoleTeacher,
	})
	require.NoError(t, err)
	assert.Empty(t, user.Password, "responses never carry the credential")

	require.Len(t, gateway.saved, 1)
	stored := gateway.saved[0].Password
	assert.NotEqual(t, "secreta", stored)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored), []byte("secreta")))
}

func TestUserSaveNewAccountRequiresPassword(t *testing.T) {
	gateway := &fakeUserCrudGateway{}
	svc := NewUserService(gateway, nil, nil)

	_, err := svc.Save(context.Background(), "", SaveUserRequest{
		Username: "profe",
		FullName: "Profe Uno",
		Role:     models.RoleTeacher,
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Empty(t, gateway.saved)
}

func TestUserUpdateWithoutPasswordKeepsStoredCredential(t *testing.T) {
	gateway := &fakeUserCrudGateway{users: []models.User{
		{ID: "u-1", Username: "profe", Password: "$2a$10$storedhash", FullName: "Profe Uno", Role: models.RoleTeacher},
	}}
	svc := NewUserService(gateway, nil, nil)

	_, err := svc.Save(context.Background(), "u-1", SaveUserRequest{
		Username: "profe",
		FullName: "Profe Renombrado",
		Role:     models.RoleTeacher,
	})
	require.NoError(t, err)
	require.Len(t, gateway.saved, 1)
	assert.Equal(t, "$2a$10$storedhash", gateway.saved[0].Password)
	assert.Equal(t, "Profe Renombrado", gateway.saved[0].FullName)
}

func TestUserUpdateUnknownIDWithoutPasswordFails(t *testing.T) {
	svc := NewUserService(&fakeUserCrudGateway{}, nil, nil)

	_, err := svc.Save(context.Background(), "missing", SaveUserRequest{
		Username: "profe",
		FullName: "Profe",
		Role:     models.RoleTeacher,
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestUserSaveRejectsUnknownRole(t *testing.T) {
	gateway := &fakeUserCrudGateway{}
	svc := NewUserService(gateway, nil, nil)

	_, err := svc.Save(context.Background(), "", SaveUserRequest{
		Username: "profe",
		Password: "x",
		FullName: "Profe",
		Role:     models.Role("SUPERVISOR"),
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Empty(t, gateway.saved)
}

func TestUserListSanitizes(t *testing.T) {
	gateway := &fakeUserCrudGateway{users: []models.User{
		{ID: "u-1", Username: "admin", Password: "hash", Role: models.RoleAdmin},
	}}
	svc := NewUserService(gateway, nil, nil)

	users, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Empty(t, users[0].Password)
}

func TestUserDelete(t *testing.T) {
	gateway := &fakeUserCrudGateway{}
	svc := NewUserService(gateway, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), "u-9"))
	assert.Equal(t, []string{"u-9"}, gateway.deleted)
}
