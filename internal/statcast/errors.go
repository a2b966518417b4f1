package statcast

import "fmt"

// PlayerNotFoundError is returned when a name lookup matches no MLB player.
type PlayerNotFoundError struct {
	First string
	Last  string
}

func (e *PlayerNotFoundError) Error() string {
	return fmt.Sprintf("player not found: %s %s", e.First, e.Last)
}

// NoDataError is returned when the provider has no usable rows for a request.
type NoDataError struct {
	What  string // "batter 592450", "NYY game"
	Start string
	End   string
}

func (e *NoDataError) Error() string {
	if e.Start == e.End {
		return fmt.Sprintf("no data for %s on %s", e.What, e.Start)
	}
	return fmt.Sprintf("no data for %s between %s and %s", e.What, e.Start, e.End)
}
