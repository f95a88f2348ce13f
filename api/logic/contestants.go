/* contestants.go
 * Contains the logic for ordering contestants and matching contestant names from user input
 * Authors: Zachary Bower
 */

package logic

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// TopContestantCount is the number of contestants shown in the vote tiles
const TopContestantCount = 5

// Ranked is implemented by anything that can be placed on the leaderboard
type Ranked interface {
	GetVotes() int
	IsEliminated() bool
}

// SortByVotes orders items by votes, highest first. The order of equal items is preserved.
func SortByVotes[T Ranked](items []T) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].GetVotes() > items[j].GetVotes()
	})
}

// TopActive returns the n highest voted items that are not eliminated
func TopActive[T Ranked](items []T, n int) []T {
	sorted := make([]T, len(items))
	copy(sorted, items)
	SortByVotes(sorted)

	top := make([]T, 0, n)
	for _, item := range sorted {
		if len(top) == n {
			break
		}
		if item.IsEliminated() {
			continue
		}
		top = append(top, item)
	}
	return top
}

// MatchName finds the best match for input among names using fuzzy matching.
// Preconditions: Receives user input and the list of valid names
// Postconditions: Returns the original (correctly cased) name and true, or "" and false if nothing matches
func MatchName(input string, names []string) (string, bool) {
	lookup := make(map[string]string)
	var lowerNames []string
	for _, name := range names {
		lower := strings.ToLower(name)
		lookup[lower] = name
		lowerNames = append(lowerNames, lower)
	}

	lowerInput := strings.ToLower(strings.TrimSpace(input))
	if lowerInput == "" {
		return "", false
	}
	results := fuzzy.RankFind(lowerInput, lowerNames)
	if len(results) == 0 {
		return "", false
	}

	// Prefer an exact match, otherwise take the closest ranked match
	for _, r := range results {
		if r.Target == lowerInput {
			return lookup[r.Target], true
		}
	}
	sort.Sort(results)
	return lookup[results[0].Target], true
}
