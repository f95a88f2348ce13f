/* countdown.go
 * Contains the countdown to the daily voting closure and the task progress bar calculation.
 * Voting closes at 9 PM WAT (20:00 UTC) and new tasks are released at 9 AM WAT (08:00 UTC).
 * Authors: Zachary Bower
 */

package logic

import (
	"time"
)

// Daily schedule in UTC hours
const (
	VotingCloseHourUTC = 20
	NewTaskHourUTC     = 8
)

// Countdown is the time remaining until the next voting closure
type Countdown struct {
	Hours    int       `json:"hours"`
	Minutes  int       `json:"minutes"`
	Seconds  int       `json:"seconds"`
	Target   time.Time `json:"target"`
	Progress float64   `json:"progress"`
}

// VotingCloseTarget returns the next closure instant. At the cutoff instant itself the target is already the following day.
func VotingCloseTarget(now time.Time) time.Time {
	now = now.UTC()
	target := time.Date(now.Year(), now.Month(), now.Day(), VotingCloseHourUTC, 0, 0, 0, time.UTC)
	if !now.Before(target) {
		target = target.AddDate(0, 0, 1)
	}
	return target
}

// TaskReleaseTime returns the most recent task release before now (today 08:00 UTC, or yesterday if earlier)
func TaskReleaseTime(now time.Time) time.Time {
	now = now.UTC()
	release := time.Date(now.Year(), now.Month(), now.Day(), NewTaskHourUTC, 0, 0, 0, time.UTC)
	if now.Hour() < NewTaskHourUTC {
		release = release.AddDate(0, 0, -1)
	}
	return release
}

// ComputeCountdown calculates the countdown and progress for a wall clock time
// Preconditions: Receives the current time
// Postconditions: Returns non-negative hours, minutes and seconds until closure and progress clamped to [0,100]
func ComputeCountdown(now time.Time) Countdown {
	target := VotingCloseTarget(now)
	remaining := target.Sub(now)
	if remaining < 0 {
		remaining = 0
	}

	total := int64(remaining / time.Second)
	return Countdown{
		Hours:    int(total / 3600),
		Minutes:  int((total % 3600) / 60),
		Seconds:  int(total % 60),
		Target:   target,
		Progress: progress(now, target),
	}
}

func progress(now time.Time, target time.Time) float64 {
	release := TaskReleaseTime(now)
	totalDuration := target.Sub(release)
	if totalDuration <= 0 {
		return 100
	}
	pct := float64(now.Sub(release)) / float64(totalDuration) * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
