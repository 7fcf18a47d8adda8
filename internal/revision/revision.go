// Package revision generates CouchDB-style document revision tokens.
package revision

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Next returns the revision that follows prev.
// Tokens have the form "<generation>-<32 hex chars>"; an empty prev yields
// generation 1.
func Next(prev string) string {
	u := uuid.New()
	return fmt.Sprintf("%d-%s", Generation(prev)+1, hex.EncodeToString(u[:]))
}

// Generation returns the numeric generation of rev.
// Malformed or empty tokens are generation 0.
func Generation(rev string) int {
	head, _, ok := strings.Cut(rev, "-")
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(head)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
