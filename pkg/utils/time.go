package utils

import (
	"log"
	"sync"
	"time"
)

var (
	locationMu sync.RWMutex
	location   = time.UTC
)

// SetLocation sets the zone used for time-of-day bucketing. Unknown zones keep UTC.
func SetLocation(name string) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("Warning: failed to load timezone %s: %v, using UTC", name, err)
		loc = time.UTC
	}

	locationMu.Lock()
	location = loc
	locationMu.Unlock()
}

func Location() *time.Location {
	locationMu.RLock()
	defer locationMu.RUnlock()
	return location
}

func ToLocal(t time.Time) time.Time {
	return t.In(Location())
}

func LocalHour(t time.Time) int {
	return ToLocal(t).Hour()
}

func FormatLocalDefault(t time.Time) string {
	return ToLocal(t).Format("2006-01-02 15:04:05 MST")
}
