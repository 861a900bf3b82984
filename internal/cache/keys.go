package cache

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// UserSummaryTTL bounds how long an owner projection may be served stale.
const UserSummaryTTL = 10 * time.Minute

// UserSummaryKey is the cache key of a user's public projection.
func UserSummaryKey(userID uuid.UUID) string {
	return fmt.Sprintf("user:summary:%s", userID)
}
