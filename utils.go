/* utils.go
 * Helpers for parsing command line flags
 * Authors: Zachary Bower
 */

package main

import (
	"fmt"
	"strings"
)

// convertStrToBool converts a string of true or false into a boolean
// Preconditions: Receives string containing either true or false (case insensitive)
// Postconditions: Returns boolean value or an error if the string is not true or false
func convertStrToBool(str string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean string %q", str)
}

// parseBoolFlags converts each named flag value with convertStrToBool
// Preconditions: Receives a map of flag name to raw value
// Postconditions: Returns the parsed values by name, or an error naming the first invalid flag
func parseBoolFlags(raw map[string]string) (map[string]bool, error) {
	parsed := make(map[string]bool, len(raw))
	for name, value := range raw {
		b, err := convertStrToBool(value)
		if err != nil {
			return nil, fmt.Errorf("invalid %q flag, should be true or false: %w", name, err)
		}
		parsed[name] = b
	}
	return parsed, nil
}
