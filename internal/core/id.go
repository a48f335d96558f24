package core

import (
	"crypto/rand"
	"encoding/binary"
	"strconv"
	"time"
)

// NewID returns a base-36 millisecond timestamp followed by base-36 random
// bits. Unique enough for a single writer; not collision-proof across
// distributed writers.
func NewID() string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return ts + strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	return ts + strconv.FormatUint(binary.BigEndian.Uint64(buf[:])>>12, 36)
}
