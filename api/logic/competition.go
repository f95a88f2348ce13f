/* competition.go
 * Contains the competition calendar: mapping dates to competition days and the canned seven day task table
 * Authors: Zachary Bower
 */

package logic

import (
	"time"
)

// CompetitionDays is the length of the competition
const CompetitionDays = 7

// WAT is West Africa Time, the competition's local time zone
var WAT = time.FixedZone("WAT", 60*60)

// WATOffset is WAT written as a UTC offset, for database date functions
const WATOffset = "+01:00"

// DateLayout formats a calendar date, e.g. 2025-04-16
const DateLayout = "2006-01-02"

// Competition describes the competition calendar
type Competition struct {
	Start time.Time // midnight WAT of day 1
	Days  int
}

// NewCompetition creates a competition starting at midnight WAT on the given date
func NewCompetition(year int, month time.Month, day int) Competition {
	return Competition{
		Start: time.Date(year, month, day, 0, 0, 0, 0, WAT),
		Days:  CompetitionDays,
	}
}

// DefaultCompetition is the April 15-21 2025 competition
var DefaultCompetition = NewCompetition(2025, time.April, 15)

// DayIndex maps a time to the competition day (1..Days).
// Preconditions: Receives the current time
// Postconditions: Returns the day number and true, or 0 and false when the time is outside the competition
func (c Competition) DayIndex(now time.Time) (int, bool) {
	local := now.In(WAT)
	if local.Before(c.Start) {
		return 0, false
	}
	day := int(local.Sub(c.Start)/(24*time.Hour)) + 1
	if day > c.Days {
		return 0, false
	}
	return day, true
}

// ScheduledDate returns midnight WAT of a competition day
func (c Competition) ScheduledDate(day int) time.Time {
	return c.Start.AddDate(0, 0, day-1)
}

// DayBounds returns the start (inclusive) and end (exclusive) of the WAT calendar day containing now
func DayBounds(now time.Time) (time.Time, time.Time) {
	local := now.In(WAT)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, WAT)
	return start, start.AddDate(0, 0, 1)
}

// CannedTask is an entry of the built in task table used to seed the tasks collection
type CannedTask struct {
	Day         int
	Title       string
	Description string
}

// CannedTasks is the default seven day task table
var CannedTasks = []CannedTask{
	{1, "Naija Throwback Dance Challenge", "Perform a 60-second dance to a classic Nigerian hit (e.g., P-Square, Fela)."},
	{2, "Jollof Wars: Cook-Off Edition", "Cook jollof rice with ₦500 in 10 minutes, taste and hype it."},
	{3, "Nollywood Skit Showdown", "Act a 2-minute Nollywood-style skit (e.g., Cheating Husband)."},
	{4, "Afrobeat Freestyle Face-Off", "Freestyle a 1-minute rap/song on a trending beat (e.g., Burna Boy)."},
	{5, "Owambe Fashion Flex", "Style an owambe outfit from home, model in a 90-second catwalk."},
	{6, "Pidgin Proverbs Remix", "Turn a proverb (e.g., Monkey no fine...) into a 60-second pidgin skit/song."},
	{7, "Lagos Hustle Pitch", "Pitch yourself as Smallie winner in a 3-minute video."},
}

// Placeholder task shown outside the competition or when no task is scheduled
const (
	PlaceholderTitle       = "Smallie Challenge"
	PlaceholderDescription = "Stay tuned for today's challenge!"
)

// ValidDay reports whether day is a competition day
func ValidDay(day int) bool {
	return day >= 1 && day <= CompetitionDays
}
