package statcast

import "strings"

// Team is an MLB club as abbreviated by Statcast.
type Team struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

var teams = []Team{
	{"NYY", "New York Yankees"},
	{"BOS", "Boston Red Sox"},
	{"LAD", "Los Angeles Dodgers"},
	{"SF", "San Francisco Giants"},
	{"TB", "Tampa Bay Rays"},
	{"TOR", "Toronto Blue Jays"},
	{"BAL", "Baltimore Orioles"},
	{"MIN", "Minnesota Twins"},
	{"CWS", "Chicago White Sox"},
	{"CLE", "Cleveland Guardians"},
	{"DET", "Detroit Tigers"},
	{"KC", "Kansas City Royals"},
	{"HOU", "Houston Astros"},
	{"SEA", "Seattle Mariners"},
	{"TEX", "Texas Rangers"},
	{"LAA", "Los Angeles Angels"},
	{"OAK", "Oakland Athletics"},
	{"ATL", "Atlanta Braves"},
	{"NYM", "New York Mets"},
	{"PHI", "Philadelphia Phillies"},
	{"MIA", "Miami Marlins"},
	{"WSH", "Washington Nationals"},
	{"MIL", "Milwaukee Brewers"},
	{"STL", "St. Louis Cardinals"},
	{"CHC", "Chicago Cubs"},
	{"PIT", "Pittsburgh Pirates"},
	{"CIN", "Cincinnati Reds"},
	{"ARI", "Arizona Diamondbacks"},
	{"COL", "Colorado Rockies"},
	{"SD", "San Diego Padres"},
}

// Teams returns the 30 MLB clubs. The slice is a copy.
func Teams() []Team {
	return append([]Team(nil), teams...)
}

// LookupTeam resolves a team code case-insensitively.
func LookupTeam(code string) (Team, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, t := range teams {
		if t.Code == code {
			return t, true
		}
	}
	return Team{}, false
}
