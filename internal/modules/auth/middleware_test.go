package auth

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comandahub/comanda-backend/internal/modules/permission"
	"github.com/comandahub/comanda-backend/internal/modules/store"
	"github.com/comandahub/comanda-backend/internal/modules/user"
)

var testSecret = []byte("test-secret")

type fakeUserRepo struct {
	user.Repository
	users map[string]*user.User
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id string) (*user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

type fakeStoreRepo struct {
	store.Repository
	role *permission.Role
	err  error
}

func (f *fakeStoreRepo) GetMemberRole(_ context.Context, _, _ string) (*permission.Role, error) {
	return f.role, f.err
}

func signToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Subject:   userID.String(),
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return token
}

func runAuthed(t *testing.T, users user.Repository, stores store.Repository, path, token string) (*httptest.ResponseRecorder, permission.Context, bool) {
	t.Helper()

	var pc permission.Context
	var reached bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pc, reached = permission.FromContext(r.Context())
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	Authenticator(testSecret, users, stores)(next).ServeHTTP(rec, req)
	return rec, pc, reached
}

func TestAuthenticator_LoadsStoreRole(t *testing.T) {
	userID := uuid.New()
	users := &fakeUserRepo{users: map[string]*user.User{
		userID.String(): {ID: userID, Name: "Ana"},
	}}
	stores := &fakeStoreRepo{role: &permission.Role{
		Name: "atendente",
		Permissions: permission.Map{
			permission.ModuleOrders: {permission.ActionRead: true},
		},
	}}

	rec, pc, reached := runAuthed(t, users, stores, "/stores/"+uuid.NewString()+"/orders", signToken(t, userID))
	require.True(t, reached)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, pc.Has(permission.ModuleOrders, permission.ActionRead))
	assert.False(t, pc.Has(permission.ModuleOrders, permission.ActionDelete))
}

func TestAuthenticator_NoMembershipDeniesQuietly(t *testing.T) {
	userID := uuid.New()
	users := &fakeUserRepo{users: map[string]*user.User{
		userID.String(): {ID: userID},
	}}
	stores := &fakeStoreRepo{err: sql.ErrNoRows}

	rec, pc, reached := runAuthed(t, users, stores, "/stores/"+uuid.NewString()+"/orders", signToken(t, userID))
	require.True(t, reached)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, pc.Has(permission.ModuleOrders, permission.ActionRead))
}

func TestAuthenticator_RoleLookupFailureIsServerError(t *testing.T) {
	userID := uuid.New()
	users := &fakeUserRepo{users: map[string]*user.User{
		userID.String(): {ID: userID},
	}}
	stores := &fakeStoreRepo{err: errors.New("connection reset")}

	rec, _, reached := runAuthed(t, users, stores, "/stores/"+uuid.NewString()+"/orders", signToken(t, userID))
	assert.False(t, reached)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAuthenticator_RejectsMissingOrBadToken(t *testing.T) {
	users := &fakeUserRepo{users: map[string]*user.User{}}
	stores := &fakeStoreRepo{}

	rec, _, reached := runAuthed(t, users, stores, "/stores", "")
	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _, reached = runAuthed(t, users, stores, "/stores", "not-a-jwt")
	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticator_AdminSkipsRoleLookup(t *testing.T) {
	userID := uuid.New()
	users := &fakeUserRepo{users: map[string]*user.User{
		userID.String(): {ID: userID, IsPlatformAdmin: true},
	}}
	stores := &fakeStoreRepo{err: errors.New("must not be called")}

	rec, pc, reached := runAuthed(t, users, stores, "/stores/"+uuid.NewString()+"/orders", signToken(t, userID))
	require.True(t, reached)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, pc.Has(permission.ModuleSettings, permission.ActionDelete))
}
