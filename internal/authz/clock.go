package authz

import "time"

// timeNow is swappable in tests for expiration checks.
var timeNow = time.Now
