/* validation.go
 * Contains validation for contestant applications and vote requests
 * Authors: Zachary Bower
 */

package logic

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	nameRegex  = regexp.MustCompile(`^[a-zA-Z\s]{2,50}$`)
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	urlRegex   = regexp.MustCompile(`^(https?://)?([\da-z.-]+)\.([a-z.]{2,6})([/\w .-]*)*/?$`)
)

// Bio length limits
const (
	MinBioLength = 10
	MaxBioLength = 200
)

// ApplicationFields are the user supplied fields of a signup that get validated
type ApplicationFields struct {
	Name      string
	Email     string
	Bio       string
	StreamURL string
}

// ValidateApplication checks a signup form.
// Preconditions: Receives trimmed application fields
// Postconditions: Returns nil if the application is valid, or an error with a user facing message
func ValidateApplication(f ApplicationFields) error {
	if !nameRegex.MatchString(f.Name) {
		return errors.New("please enter a valid name (2-50 characters, letters only)")
	}
	bioLen := utf8.RuneCountInString(f.Bio)
	if bioLen < MinBioLength || bioLen > MaxBioLength {
		return fmt.Errorf("bio must be between %d and %d characters", MinBioLength, MaxBioLength)
	}
	if !ValidEmail(f.Email) {
		return errors.New("please enter a valid email address")
	}
	if f.StreamURL != "" && !urlRegex.MatchString(f.StreamURL) {
		return errors.New("please enter a valid URL for your stream link")
	}
	return nil
}

// ValidEmail reports whether s looks like an email address
func ValidEmail(s string) bool {
	return emailRegex.MatchString(strings.TrimSpace(s))
}

// ValidateVote checks a vote request before anything is persisted
// Preconditions: Receives contestant id, vote count and the (possibly empty) voter email
// Postconditions: Returns nil if the request may proceed, or an error with a user facing message
func ValidateVote(contestantID int, count int, email string) error {
	if contestantID <= 0 {
		return errors.New("please select a contestant to vote for")
	}
	if count < 1 {
		return errors.New("please enter at least 1 vote")
	}
	email = strings.TrimSpace(email)
	if RequiresEmail(count) && email == "" {
		return fmt.Errorf("email is required for %d or more votes", EmailThreshold)
	}
	if email != "" && !ValidEmail(email) {
		return errors.New("please enter a valid email address")
	}
	return nil
}
