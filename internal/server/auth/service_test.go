package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophmail/internal/common"
	"github.com/dmitrijs2005/gophmail/internal/server/mailbox"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	store, err := mailbox.NewStore(t.TempDir())
	require.NoError(t, err)
	return NewService(store)
}

func TestRegister_Succeeds(t *testing.T) {
	s := newTestService(t)

	err := s.Register(context.Background(), "alice", "GoodPass123")
	require.NoError(t, err)
}

func TestRegister_InvalidUsername(t *testing.T) {
	s := newTestService(t)

	tests := []string{"", "al ice", "alice!", "a@b", "élise", "lost"}
	for _, name := range tests {
		err := s.Register(context.Background(), name, "GoodPass123")
		assert.ErrorIs(t, err, common.ErrInvalidUsername, "username %q", name)
	}
}

func TestRegister_UsernameTakenAnyCase(t *testing.T) {
	s := newTestService(t)
	require.NoError(t, s.Register(context.Background(), "alice", "GoodPass123"))

	for _, name := range []string{"alice", "Alice", "ALICE"} {
		err := s.Register(context.Background(), name, "OtherPass456")
		assert.ErrorIs(t, err, common.ErrUsernameTaken, "variant %q", name)
	}
}

func TestRegister_WeakPassword(t *testing.T) {
	s := newTestService(t)

	tests := []struct {
		name     string
		password string
	}{
		{"too short", "abc12345"},
		{"no uppercase", "alllowercase1"},
		{"no lowercase", "ALLUPPERCASE1"},
		{"no digit", "NoDigitsHere"},
		{"empty", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := s.Register(context.Background(), "bob", tc.password)
			assert.ErrorIs(t, err, common.ErrWeakPassword)
		})
	}
}

func TestLogin(t *testing.T) {
	s := newTestService(t)
	require.NoError(t, s.Register(context.Background(), "alice", "GoodPass123"))

	t.Run("correct password", func(t *testing.T) {
		assert.NoError(t, s.Login(context.Background(), "alice", "GoodPass123"))
	})

	t.Run("case-insensitive username", func(t *testing.T) {
		assert.NoError(t, s.Login(context.Background(), "ALICE", "GoodPass123"))
	})

	t.Run("wrong password", func(t *testing.T) {
		err := s.Login(context.Background(), "alice", "WrongPass123")
		assert.ErrorIs(t, err, common.ErrBadCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		err := s.Login(context.Background(), "ghost", "GoodPass123")
		assert.ErrorIs(t, err, common.ErrNoSuchUser)
	})
}

func TestHashPassword_SHA3_512Hex(t *testing.T) {
	// SHA3-512("abc"), a published test vector.
	const want = "b751850b1a57168a5693cd924b6b096e08f621827444f70d884f5d0240d2712e" +
		"10e116e9192af3c91a7ec57647e3934057340b4cf408d5a56592f8274eec53f0"
	assert.Equal(t, want, HashPassword("abc"))
}
