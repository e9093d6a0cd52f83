// Package auth implements account registration and credential verification
// for the mail server.
package auth

import (
	"context"
	"crypto/subtle"
	"encoding/hex"
	"regexp"
	"unicode"

	"golang.org/x/crypto/sha3"

	"github.com/dmitrijs2005/gophmail/internal/common"
	"github.com/dmitrijs2005/gophmail/internal/server/mailbox"
)

// MinPasswordLength is the minimum accepted password length. A valid
// password additionally needs at least one lowercase letter, one uppercase
// letter and one digit.
const MinPasswordLength = 10

var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// CredentialStore is the subset of the mailbox store the auth service needs.
type CredentialStore interface {
	Exists(username string) bool
	Create(username, credentialHash string) error
	Credential(username string) (string, error)
}

type Service struct {
	store CredentialStore
}

func NewService(store CredentialStore) *Service {
	return &Service{store: store}
}

// Register validates the username and password policy, then creates the
// account and its mailbox atomically. Uniqueness is case-insensitive.
func (s *Service) Register(ctx context.Context, username, password string) error {
	if !usernameRe.MatchString(username) {
		return common.ErrInvalidUsername
	}
	if s.store.Exists(username) {
		return common.ErrUsernameTaken
	}
	if !validPassword(password) {
		return common.ErrWeakPassword
	}
	return s.store.Create(username, HashPassword(password))
}

// Login verifies the password against the stored credential record using a
// constant-time comparison.
func (s *Service) Login(ctx context.Context, username, password string) error {
	stored, err := s.store.Credential(username)
	if err != nil {
		return err
	}
	candidate := HashPassword(password)
	if subtle.ConstantTimeCompare([]byte(candidate), []byte(stored)) != 1 {
		return common.ErrBadCredentials
	}
	return nil
}

// HashPassword returns the hex-encoded SHA3-512 digest of the raw password.
func HashPassword(password string) string {
	sum := sha3.Sum512([]byte(password))
	return hex.EncodeToString(sum[:])
}

func validPassword(password string) bool {
	if len(password) < MinPasswordLength {
		return false
	}
	var lower, upper, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return lower && upper && digit
}

var _ CredentialStore = (*mailbox.Store)(nil)
