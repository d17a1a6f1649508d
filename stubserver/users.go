package stubserver

import (
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/jovincart/storefront/token"
)

var (
	errUserNotFound  = errors.New("user not found")
	errWrongPassword = errors.New("wrong password")
	errUserExists    = errors.New("user already exists")
)

type user struct {
	Email string
	Hash  []byte
	Role  token.Role
}

// userStore is an in-memory account table with bcrypt password hashes.
type userStore struct {
	mu    sync.Mutex
	users map[string]user
}

func newUserStore() *userStore {
	return &userStore{users: map[string]user{}}
}

// seed installs the development accounts the CLI examples assume.
func (s *userStore) seed() {
	_ = s.Create("jovin@example.com", "password123", token.RoleUser)
	_ = s.Create("admin@example.com", "admin123", token.RoleAdmin)
}

func (s *userStore) Create(email, password string, role token.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[email]; ok {
		return errUserExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.users[email] = user{Email: email, Hash: hash, Role: role}
	return nil
}

// Authenticate distinguishes an unknown account from a bad password, because
// the login page keys separate alerts off the two.
func (s *userStore) Authenticate(email, password string) (user, error) {
	s.mu.Lock()
	u, ok := s.users[email]
	s.mu.Unlock()

	if !ok {
		return user{}, errUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword(u.Hash, []byte(password)); err != nil {
		return user{}, errWrongPassword
	}
	return u, nil
}

func (s *userStore) Find(email string) (user, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	return u, ok
}

func (s *userStore) UpdateEmail(email, newEmail string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[email]
	if !ok {
		return errUserNotFound
	}
	if _, taken := s.users[newEmail]; taken {
		return errUserExists
	}
	delete(s.users, email)
	u.Email = newEmail
	s.users[newEmail] = u
	return nil
}

func (s *userStore) SetPassword(email, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[email]
	if !ok {
		return errUserNotFound
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Hash = hash
	s.users[email] = u
	return nil
}
