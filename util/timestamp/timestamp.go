// Package timestamp supplies the volume-formatted-at clock nachosfs.Format
// stamps onto a FileSystem (see FileSystem.FormattedAt), with a
// SOURCE_DATE_EPOCH override so a test fixture's Print output is
// reproducible across runs instead of drifting with wall-clock time.
package timestamp

import (
	"os"
	"strconv"
	"time"
)

// sourceDateEpochVar is the environment variable consulted before falling
// back to the wall clock.
const sourceDateEpochVar = "SOURCE_DATE_EPOCH"

// GetTime returns SOURCE_DATE_EPOCH's Unix timestamp in UTC if the variable
// is set to a valid integer, otherwise time.Now().UTC().
func GetTime() time.Time {
	epochSeconds, ok := parseEpoch(os.Getenv(sourceDateEpochVar))
	if !ok {
		return time.Now().UTC()
	}
	return time.Unix(epochSeconds, 0).UTC()
}

func parseEpoch(raw string) (int64, bool) {
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
