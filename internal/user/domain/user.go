package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// MinimumAge is the youngest allowed account holder.
const MinimumAge = 13

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// User is the core account entity. Email and username are stored lowercased;
// case-insensitive uniqueness is enforced by the storage layer.
type User struct {
	ID              string
	Email           string
	Username        string
	DisplayName     string
	Bio             string
	Location        string
	Website         string
	ProfileImageURL string
	CoverImageURL   string
	IsPrivate       bool
	IsVerified      bool
	BirthDate       *time.Time // nil when not provided
	PasswordHash    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewUser builds a valid user or returns an error naming the offending
// parameter. Email and username are trimmed and lowercased; displayName is
// trimmed. birthDate may be nil; when set the user must be at least MinimumAge.
func NewUser(id, email, username, displayName, passwordHash string, birthDate *time.Time) (*User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("id is required")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, errors.New("email is required")
	}
	if !emailPattern.MatchString(email) {
		return nil, fmt.Errorf("email %q is not a valid address", email)
	}
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, errors.New("username is required")
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, errors.New("displayName is required")
	}
	if passwordHash == "" {
		return nil, errors.New("passwordHash is required")
	}
	if birthDate != nil && age(*birthDate, time.Now().UTC()) < MinimumAge {
		return nil, fmt.Errorf("birthDate implies an age under %d", MinimumAge)
	}
	now := time.Now().UTC()
	return &User{
		ID:           strings.TrimSpace(id),
		Email:        email,
		Username:     username,
		DisplayName:  displayName,
		BirthDate:    birthDate,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// ProfileUpdate carries the mutable profile fields for UpdateProfile.
type ProfileUpdate struct {
	DisplayName     string
	Bio             string
	Location        string
	Website         string
	ProfileImageURL string
	CoverImageURL   string
}

// UpdateProfile replaces the profile fields. DisplayName stays required; the
// rest may be empty. All fields are trimmed.
func (u *User) UpdateProfile(p ProfileUpdate) error {
	displayName := strings.TrimSpace(p.DisplayName)
	if displayName == "" {
		return errors.New("displayName is required")
	}
	u.DisplayName = displayName
	u.Bio = strings.TrimSpace(p.Bio)
	u.Location = strings.TrimSpace(p.Location)
	u.Website = strings.TrimSpace(p.Website)
	u.ProfileImageURL = strings.TrimSpace(p.ProfileImageURL)
	u.CoverImageURL = strings.TrimSpace(p.CoverImageURL)
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// SetPrivate toggles the account privacy flag. A private account requires
// follow approval (see the follow service).
func (u *User) SetPrivate(private bool) {
	u.IsPrivate = private
	u.UpdatedAt = time.Now().UTC()
}

// Verify marks the account as verified. There is no unverify transition.
func (u *User) Verify() {
	u.IsVerified = true
	u.UpdatedAt = time.Now().UTC()
}

// SetPasswordHash replaces the stored password hash.
func (u *User) SetPasswordHash(hash string) error {
	if hash == "" {
		return errors.New("passwordHash is required")
	}
	u.PasswordHash = hash
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func age(birthDate, now time.Time) int {
	years := now.Year() - birthDate.Year()
	anniversary := birthDate.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	return years
}
