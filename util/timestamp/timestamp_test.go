package timestamp_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/PinYuan/nachosfs/util/timestamp"
)

func TestGetTimeHonorsSourceDateEpoch(t *testing.T) {
	for _, tt := range []struct {
		name    string
		epoch   string
		want    time.Time
		wantNow bool
	}{
		{name: "unset falls back to wall clock", wantNow: true},
		{name: "valid epoch wins", epoch: "1609459200", want: time.Unix(1609459200, 0).UTC()},
		{name: "invalid epoch falls back to wall clock", epoch: "not-a-number", wantNow: true},
	} {
		t.Run(tt.name, func(t *testing.T) {
			if tt.epoch != "" {
				t.Setenv("SOURCE_DATE_EPOCH", tt.epoch)
			}

			got := timestamp.GetTime()
			want := tt.want
			if tt.wantNow {
				want = time.Now().UTC()
			}
			assert.WithinDuration(t, want, got, time.Second)
		})
	}
}
