// Package auth is the session store: it mediates sign-in/up/out and
// profile updates against the remote backend, normalizes and validates
// input before any remote call, and broadcasts auth-state changes to
// subscribers.
package auth

import (
	"regexp"
	"strings"
	"sync"
	"time"

	"course-academy/internal/model"
	"github.com/dgrijalva/jwt-go"
	log "github.com/sirupsen/logrus"
)

const tokenTTL = 72 * time.Hour

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[0-9]{10,15}$`)
	nonDigits    = regexp.MustCompile(`\D`)
)

// Backend is the slice of the remote service the session store needs.
// database.Client satisfies it.
type Backend interface {
	CreateUser(email, password, name, phone string) (model.User, error)
	Authenticate(email, password string) (model.User, error)
	UpdateUserProfile(id, name, phone string) (model.User, error)
	GetUserByID(id string) (model.User, error)
	RecordSignOut(id string) error
}

// Notifier sends the confirmation mail after sign-up.
type Notifier interface {
	SendConfirmationEmail(email, name string) error
}

// Claims is the JWT payload for a signed-in session.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.StandardClaims
}

type Service struct {
	backend      Backend
	notifier     Notifier
	jwtKey       []byte
	confirmEmail bool

	mu      sync.Mutex
	user    *model.User
	subs    map[int]func(*model.User)
	nextSub int
}

// NewService builds a session store over backend. When confirmEmail is set,
// sign-up sends a confirmation mail through notifier and returns no session
// until the address is confirmed.
func NewService(backend Backend, jwtKey string, notifier Notifier, confirmEmail bool) *Service {
	return &Service{
		backend:      backend,
		notifier:     notifier,
		jwtKey:       []byte(jwtKey),
		confirmEmail: confirmEmail,
		subs:         map[int]func(*model.User){},
	}
}

// SignIn authenticates against the backend and returns the user and a
// session token. Empty inputs fail with ValidationError before any remote
// call; backend failures come back as RemoteError with localized text.
func (s *Service) SignIn(email, password string) (model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	password = strings.TrimSpace(password)

	if email == "" || password == "" {
		return model.User{}, "", &ValidationError{Violations: []string{msgEmailPasswordRequired}}
	}

	user, err := s.backend.Authenticate(email, password)
	if err != nil {
		return model.User{}, "", &RemoteError{Message: Localize(err), Raw: err}
	}

	token, err := s.issueToken(user)
	if err != nil {
		return model.User{}, "", err
	}

	s.setUser(&user)
	return user, token, nil
}

// SignUp registers a new account. The returned token is empty when email
// confirmation is pending; local user state is not set in that case.
func (s *Service) SignUp(email, password, name, phone string) (model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	password = strings.TrimSpace(password)
	name = strings.TrimSpace(name)
	phone = nonDigits.ReplaceAllString(strings.TrimSpace(phone), "")

	if violations := validateSignUp(email, password, name, phone); len(violations) > 0 {
		return model.User{}, "", &ValidationError{Violations: violations}
	}

	user, err := s.backend.CreateUser(email, password, name, phone)
	if err != nil {
		return model.User{}, "", &RemoteError{Message: Localize(err), Raw: err}
	}

	if s.confirmEmail {
		if s.notifier != nil {
			if err := s.notifier.SendConfirmationEmail(user.Email, user.Name); err != nil {
				log.Errorf("sending confirmation email to %s: %v", user.Email, err)
			}
		}
		return user, "", nil
	}

	token, err := s.issueToken(user)
	if err != nil {
		return model.User{}, "", err
	}

	s.setUser(&user)
	return user, token, nil
}

// SignOut invalidates the session with the backend and clears local user
// state. Backend failure leaves local state untouched.
func (s *Service) SignOut(userID string) error {
	if err := s.backend.RecordSignOut(userID); err != nil {
		return &SignOutError{Raw: err}
	}

	s.setUser(nil)
	return nil
}

// UpdateUser applies sign-up's name/phone rules, updates the remote profile
// and the local cache.
func (s *Service) UpdateUser(userID, name, phone string) (model.User, error) {
	name = strings.TrimSpace(name)
	phone = nonDigits.ReplaceAllString(strings.TrimSpace(phone), "")

	var violations []string
	if name == "" {
		violations = append(violations, msgNameRequired)
	} else if len([]rune(name)) < 2 {
		violations = append(violations, msgNameTooShort)
	}
	if !phonePattern.MatchString(phone) {
		violations = append(violations, msgPhoneInvalid)
	}
	if len(violations) > 0 {
		return model.User{}, &ValidationError{Violations: violations}
	}

	user, err := s.backend.UpdateUserProfile(userID, name, phone)
	if err != nil {
		return model.User{}, &RemoteError{Message: Localize(err), Raw: err}
	}

	s.setUser(&user)
	return user, nil
}

// CurrentUser returns the most recent authenticated identity, nil when
// signed out.
func (s *Service) CurrentUser() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Subscribe registers onChange for auth-state notifications and returns
// the release handle. The consumer owns the handle and must call it on
// teardown; releasing twice is harmless and no notification is delivered
// after release.
func (s *Service) Subscribe(onChange func(*model.User)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = onChange
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// ParseToken validates a session token and returns its claims.
func (s *Service) ParseToken(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.jwtKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, jwt.NewValidationError("invalid token", jwt.ValidationErrorClaimsInvalid)
	}
	return claims, nil
}

func (s *Service) issueToken(user model.User) (string, error) {
	claims := &Claims{
		UserID: user.ID,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(tokenTTL).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtKey)
	if err != nil {
		return "", &RemoteError{Message: Localize(err), Raw: err}
	}
	return signed, nil
}

// setUser swaps the in-memory user and notifies subscribers. Callbacks run
// outside the lock so a subscriber may subscribe or release from within one.
func (s *Service) setUser(user *model.User) {
	s.mu.Lock()
	s.user = user
	callbacks := make([]func(*model.User), 0, len(s.subs))
	for _, fn := range s.subs {
		callbacks = append(callbacks, fn)
	}
	s.mu.Unlock()

	for _, fn := range callbacks {
		fn(user)
	}
}

func validateSignUp(email, password, name, phone string) []string {
	var violations []string

	if email == "" {
		violations = append(violations, msgEmailRequired)
	} else if !emailPattern.MatchString(email) {
		violations = append(violations, msgEmailInvalid)
	}

	if password == "" {
		violations = append(violations, msgPasswordRequired)
	} else if len(password) < 6 {
		violations = append(violations, msgPasswordTooShort)
	}

	if name == "" {
		violations = append(violations, msgNameRequired)
	} else if len([]rune(name)) < 2 {
		violations = append(violations, msgNameTooShort)
	}

	if phone == "" {
		violations = append(violations, msgPhoneRequired)
	} else if !phonePattern.MatchString(phone) {
		violations = append(violations, msgPhoneInvalid)
	}

	return violations
}
