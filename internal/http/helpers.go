package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// generateRequestID creates a random 16-character hex identifier.
func generateRequestID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%016x", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}

// validRequestID accepts short client-supplied ids made of printable ASCII
// without spaces, so they are safe to log and echo.
func validRequestID(id string) bool {
	if id == "" || len(id) > 64 {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] <= ' ' || id[i] > '~' {
			return false
		}
	}
	return true
}

// maxInputBytes caps any single form or query value.
const maxInputBytes = 1000

// sanitizeInput trims whitespace, drops control characters and caps length.
func sanitizeInput(s string) string {
	return cleanInput(strings.TrimSpace(s))
}

// searchQuery cleans a text filter without trimming it: matching uses the
// query as typed. A blank query means no filter.
func searchQuery(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return cleanInput(s)
}

func cleanInput(s string) string {
	s = strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		if r == 0x7f {
			return -1
		}
		return r
	}, s)
	return truncateUTF8(s, maxInputBytes)
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
