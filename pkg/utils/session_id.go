package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewSessionID returns "session_<unix millis>_<9 random chars>".
func NewSessionID(now time.Time) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("session_%d_%s", now.UnixMilli(), random[:9])
}
