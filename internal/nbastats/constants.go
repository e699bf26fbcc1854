package nbastats

import "time"

const (
	defaultBaseURL     = "https://stats.nba.com/stats"
	defaultHTTPTimeout = 30 * time.Second
	defaultMinInterval = 1200 * time.Millisecond

	// LeagueID identifies the NBA in multi-league endpoints.
	LeagueID = "00"
	// SeasonTypeRegular is the only season type the pipeline ingests.
	SeasonTypeRegular = "Regular Season"
)

// Endpoint paths under the stats base URL.
const (
	endpointLeagueGameFinder = "leaguegamefinder"
	endpointBoxTraditional   = "boxscoretraditionalv2"
	endpointBoxAdvanced      = "boxscoreadvancedv2"
	endpointLeagueStandings  = "leaguestandingsv3"
	endpointShotChart        = "shotchartdetail"
	endpointCommonAllPlayers = "commonallplayers"
	endpointPlayerInfo       = "commonplayerinfo"
)

// Result set names within endpoint payloads.
const (
	setGameFinderResults = "LeagueGameFinderResults"
	setPlayerStats       = "PlayerStats"
	setTeamStats         = "TeamStats"
	setStandings         = "Standings"
	setShotChartDetail   = "Shot_Chart_Detail"
	setCommonAllPlayers  = "CommonAllPlayers"
	setCommonPlayerInfo  = "CommonPlayerInfo"
)
