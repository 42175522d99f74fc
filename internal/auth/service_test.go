package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/contalibre/contalibre/internal/shared"
)

type memoryUsers struct {
	byEmail map[string]*User
	nextID  int64
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byEmail: make(map[string]*User)}
}

func (r *memoryUsers) FindByEmail(ctx context.Context, email string) (*User, error) {
	user, ok := r.byEmail[email]
	if !ok {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

func (r *memoryUsers) Create(ctx context.Context, email, passwordHash string) (*User, error) {
	if _, exists := r.byEmail[email]; exists {
		return nil, ErrEmailTaken
	}
	r.nextID++
	user := &User{ID: r.nextID, Email: email, PasswordHash: passwordHash, IsActive: true}
	r.byEmail[email] = user
	return user, nil
}

func TestRegisterThenAuthenticate(t *testing.T) {
	svc := NewService(newMemoryUsers())

	created, err := svc.Register(context.Background(), "  Ana@Empresa.MX ", "contrasena-larga")
	require.NoError(t, err)
	require.Equal(t, "ana@empresa.mx", created.Email)
	require.NotEqual(t, "contrasena-larga", created.PasswordHash)

	user, err := svc.Authenticate(context.Background(), "ANA@empresa.mx", "contrasena-larga")
	require.NoError(t, err)
	require.Equal(t, created.ID, user.ID)
}

func TestAuthenticateCollapsesFailures(t *testing.T) {
	repo := newMemoryUsers()
	svc := NewService(repo)

	_, err := svc.Register(context.Background(), "ana@empresa.mx", "contrasena-larga")
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), "nadie@empresa.mx", "contrasena-larga")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)

	_, err = svc.Authenticate(context.Background(), "ana@empresa.mx", "incorrecta")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)

	repo.byEmail["ana@empresa.mx"].IsActive = false
	_, err = svc.Authenticate(context.Background(), "ana@empresa.mx", "contrasena-larga")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc := NewService(newMemoryUsers())

	_, err := svc.Register(context.Background(), "ana@empresa.mx", "contrasena-larga")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "Ana@Empresa.mx", "otra-contrasena")
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterStoresBcryptHash(t *testing.T) {
	repo := newMemoryUsers()
	svc := NewService(repo)

	created, err := svc.Register(context.Background(), "ana@empresa.mx", "contrasena-larga")
	require.NoError(t, err)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("contrasena-larga")))
}
