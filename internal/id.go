package internal

import (
	"strconv"
	"strings"
	"time"
)

// DeriveEventID maps a source event identity onto a destination-safe
// event id: prefix, then the lowercased uid stripped of every character
// outside the base32hex alphabet (a-v, 0-9), then the decimal Unix
// timestamps of start and end. Events without an end use the start
// timestamp twice, so the id stays deterministic.
//
// The destination requires ids of 5-1024 characters from that alphabet
// (RFC 2938 section 3.1.2); the two timestamps alone satisfy the lower
// bound. A rescheduled event gets a new id on purpose: the old
// destination entry is deleted and a fresh one inserted.
func DeriveEventID(prefix, uid string, start, end time.Time) string {
	var b strings.Builder
	b.WriteString(prefix)
	for _, r := range strings.ToLower(uid) {
		if (r >= 'a' && r <= 'v') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if end.IsZero() {
		end = start
	}
	b.WriteString(strconv.FormatInt(start.Unix(), 10))
	b.WriteString(strconv.FormatInt(end.Unix(), 10))
	return b.String()
}
