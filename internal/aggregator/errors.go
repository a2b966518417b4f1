package aggregator

import "fmt"

// MinGames is the number of distinct game dates a season must cover before it
// can be split into three 10-game windows.
const MinGames = 30

// InsufficientSampleError is returned when a player's events cover fewer than
// MinGames distinct game dates.
type InsufficientSampleError struct {
	Games    int
	Required int
}

func (e *InsufficientSampleError) Error() string {
	return fmt.Sprintf("insufficient sample: player appeared in %d games, need at least %d", e.Games, e.Required)
}
