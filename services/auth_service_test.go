package services

import (
	"context"
	"testing"

	"chat-relay/auth"
	apperrors "chat-relay/errors"

	"github.com/stretchr/testify/require"
)

func Test_Register_Issues_Token_And_Hides_Password(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	authenticated := f.register(t, "Alice", "alice@example.com")
	req.NotEmpty(authenticated.Token)
	req.NotEmpty(authenticated.User.ID)
	req.NotEqual("Sup3rSecret", authenticated.User.PasswordHash)

	claims, err := auth.ValidateToken(authenticated.Token)
	req.NoError(err)
	req.Equal(authenticated.User.ID, claims.UserID)
}

func Test_Register_Weak_Password_Is_Refused(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	_, err := f.auth.Register(auth.RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "alllowercase",
	})
	req.ErrorIs(err, apperrors.ErrInvalidPassword)
}

func Test_Register_Duplicate_Email(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	f.register(t, "Alice", "alice@example.com")

	_, err := f.auth.Register(auth.RegisterRequest{
		Name:     "Impostor",
		Email:    "alice@example.com",
		Password: "Sup3rSecret",
	})
	req.ErrorIs(err, apperrors.ErrUserAlreadyExists)
}

func Test_Login_Succeeds_With_Correct_Password(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	registered := f.register(t, "Alice", "alice@example.com")

	authenticated, err := f.auth.Login(auth.LoginRequest{
		Email:    "alice@example.com",
		Password: "Sup3rSecret",
	})
	req.NoError(err)
	req.Equal(registered.User.ID, authenticated.User.ID)
	req.NotEmpty(authenticated.Token)
}

func Test_Login_Failures_Are_Indistinguishable(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	f.register(t, "Alice", "alice@example.com")

	// Wrong password and unknown account yield the same error
	_, errWrongPassword := f.auth.Login(auth.LoginRequest{
		Email:    "alice@example.com",
		Password: "WrongPass1",
	})
	_, errUnknownUser := f.auth.Login(auth.LoginRequest{
		Email:    "nobody@example.com",
		Password: "Sup3rSecret",
	})
	req.ErrorIs(errWrongPassword, apperrors.ErrInvalidCredentials)
	req.ErrorIs(errUnknownUser, apperrors.ErrInvalidCredentials)
}

func Test_SearchUsers_Excludes_Requester_And_Empty_Query(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	alice := f.register(t, "Alice Martin", "alice@example.com")
	f.register(t, "Alicia Keys", "alicia@example.com")

	users, err := f.auth.SearchUsers(context.Background(), "alic", alice.User.ID)
	req.NoError(err)
	req.Len(users, 1)
	req.Equal("Alicia Keys", users[0].Name)

	// An empty query returns nothing rather than everyone
	users, err = f.auth.SearchUsers(context.Background(), "", alice.User.ID)
	req.NoError(err)
	req.Empty(users)
}
