package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDay(t *testing.T) {
	cases := []struct {
		now    time.Time
		expect string
	}{
		{
			now:    time.Date(2025, time.October, 25, 2, 0, 0, 0, time.UTC),
			expect: "2025-10-24",
		},
		{
			now:    time.Date(2025, time.October, 25, 3, 0, 0, 0, time.UTC),
			expect: "2025-10-25",
		},
		{
			now:    time.Date(2025, time.January, 1, 0, 30, 0, 0, time.FixedZone("-03", -3*60*60)),
			expect: "2025-01-01",
		},
	}

	for _, test := range cases {
		require.Equal(t, test.expect, Day(test.now), test.now.String())
	}
}

func TestNow(t *testing.T) {
	require.Equal(t, Location, Now().Location())
}
