package project

import (
	"time"

	domainagg "github.com/yungbote/tracker-backend/internal/domain/aggregates"
)

// User is immutable after registration.
type User struct {
	id           UserID
	login        string
	displayName  string
	registeredAt time.Time
}

func RegisterUser(id UserID, login, displayName string, now time.Time) (User, error) {
	if id.IsZero() {
		return User{}, domainagg.InvalidValue("userId", "must not be empty")
	}
	l, err := boundedNonBlank(fieldLogin, login, maxLoginLen)
	if err != nil {
		return User{}, err
	}
	name, err := boundedNonBlank(fieldDisplayName, displayName, maxDisplayNameLen)
	if err != nil {
		return User{}, err
	}
	return User{id: id, login: l, displayName: name, registeredAt: now}, nil
}

func (u User) ID() UserID              { return u.id }
func (u User) Login() string           { return u.login }
func (u User) DisplayName() string     { return u.displayName }
func (u User) RegisteredAt() time.Time { return u.registeredAt }
func (u User) IsZero() bool            { return u.id.IsZero() }
