package timezone

import (
	"time"
	_ "time/tzdata"
)

// Location is the clinic's timezone, the days sent upstream are days in it.
var Location = load()

func load() *time.Location {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		return time.FixedZone("-03", -3*60*60)
	}
	return loc
}

// Now is time.Now() in Location, the host's zone says nothing about the
// clinic's day.
func Now() time.Time {
	return time.Now().In(Location)
}

// Day formats the YYYY-MM-DD day `t` falls on in Location.
func Day(t time.Time) string {
	return t.In(Location).Format(time.DateOnly)
}
