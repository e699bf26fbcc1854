package nbastats

// Team is one entry in the static franchise table.
type Team struct {
	ID           int64
	Name         string
	Abbreviation string
	City         string
	Conference   string
	Division     string
}

// StaticTeams returns the 30 current NBA franchises. The stats API has no
// lightweight teams endpoint, so the dimension ships with the binary the
// same way the upstream client libraries bundle it.
func StaticTeams() []Team {
	teams := make([]Team, len(staticTeams))
	copy(teams, staticTeams)
	return teams
}

var staticTeams = []Team{
	{1610612737, "Atlanta Hawks", "ATL", "Atlanta", "East", "Southeast"},
	{1610612738, "Boston Celtics", "BOS", "Boston", "East", "Atlantic"},
	{1610612739, "Cleveland Cavaliers", "CLE", "Cleveland", "East", "Central"},
	{1610612740, "New Orleans Pelicans", "NOP", "New Orleans", "West", "Southwest"},
	{1610612741, "Chicago Bulls", "CHI", "Chicago", "East", "Central"},
	{1610612742, "Dallas Mavericks", "DAL", "Dallas", "West", "Southwest"},
	{1610612743, "Denver Nuggets", "DEN", "Denver", "West", "Northwest"},
	{1610612744, "Golden State Warriors", "GSW", "Golden State", "West", "Pacific"},
	{1610612745, "Houston Rockets", "HOU", "Houston", "West", "Southwest"},
	{1610612746, "LA Clippers", "LAC", "Los Angeles", "West", "Pacific"},
	{1610612747, "Los Angeles Lakers", "LAL", "Los Angeles", "West", "Pacific"},
	{1610612748, "Miami Heat", "MIA", "Miami", "East", "Southeast"},
	{1610612749, "Milwaukee Bucks", "MIL", "Milwaukee", "East", "Central"},
	{1610612750, "Minnesota Timberwolves", "MIN", "Minneapolis", "West", "Northwest"},
	{1610612751, "Brooklyn Nets", "BKN", "Brooklyn", "East", "Atlantic"},
	{1610612752, "New York Knicks", "NYK", "New York", "East", "Atlantic"},
	{1610612753, "Orlando Magic", "ORL", "Orlando", "East", "Southeast"},
	{1610612754, "Indiana Pacers", "IND", "Indianapolis", "East", "Central"},
	{1610612755, "Philadelphia 76ers", "PHI", "Philadelphia", "East", "Atlantic"},
	{1610612756, "Phoenix Suns", "PHX", "Phoenix", "West", "Pacific"},
	{1610612757, "Portland Trail Blazers", "POR", "Portland", "West", "Northwest"},
	{1610612758, "Sacramento Kings", "SAC", "Sacramento", "West", "Pacific"},
	{1610612759, "San Antonio Spurs", "SAS", "San Antonio", "West", "Southwest"},
	{1610612760, "Oklahoma City Thunder", "OKC", "Oklahoma City", "West", "Northwest"},
	{1610612761, "Toronto Raptors", "TOR", "Toronto", "East", "Atlantic"},
	{1610612762, "Utah Jazz", "UTA", "Salt Lake City", "West", "Northwest"},
	{1610612763, "Memphis Grizzlies", "MEM", "Memphis", "West", "Southwest"},
	{1610612764, "Washington Wizards", "WAS", "Washington", "East", "Southeast"},
	{1610612765, "Detroit Pistons", "DET", "Detroit", "East", "Central"},
	{1610612766, "Charlotte Hornets", "CHA", "Charlotte", "East", "Southeast"},
}
