package matchdata

import "time"

// StructuredMatchData is the statistics bundle for one resolved match.
// Match holds provider team names; SourceLabel holds the label as read
// from the slip.
type StructuredMatchData struct {
	Match       string `json:"match"`
	SourceLabel string `json:"-"`
	HomeTeamID  int64  `json:"homeTeamId"`
	AwayTeamID  int64  `json:"awayTeamId"`
	Data        Stats  `json:"data"`
}

type Stats struct {
	H2H            []Fixture `json:"h2h"`
	HomeTeamLast10 []Fixture `json:"homeTeamLast10"`
	AwayTeamLast10 []Fixture `json:"awayTeamLast10"`
	Injuries       Injuries  `json:"injuries"`
}

type Injuries struct {
	Home []Injury `json:"home"`
	Away []Injury `json:"away"`
}

type Fixture struct {
	Fixture FixtureInfo  `json:"fixture"`
	Teams   FixtureTeams `json:"teams"`
	Goals   FixtureGoals `json:"goals"`
}

type FixtureInfo struct {
	ID        int64     `json:"id"`
	Date      time.Time `json:"date"`
	Timestamp int64     `json:"timestamp"`
}

type FixtureTeams struct {
	Home FixtureTeam `json:"home"`
	Away FixtureTeam `json:"away"`
}

type FixtureTeam struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Winner *bool  `json:"winner"`
}

type FixtureGoals struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

type Injury struct {
	Player  InjuryPlayer `json:"player"`
	Fixture InjuryRef    `json:"fixture"`
	League  InjuryRef    `json:"league"`
}

type InjuryPlayer struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type InjuryRef struct {
	ID int64 `json:"id"`
}

// Kind names the five statistics fetched per match.
type Kind string

const (
	KindH2H          Kind = "h2h"
	KindHomeLast10   Kind = "home_last10"
	KindAwayLast10   Kind = "away_last10"
	KindHomeInjuries Kind = "home_injuries"
	KindAwayInjuries Kind = "away_injuries"
)

// Populated reports which kinds carry at least one row.
func (s Stats) Populated() map[Kind]bool {
	return map[Kind]bool{
		KindH2H:          len(s.H2H) > 0,
		KindHomeLast10:   len(s.HomeTeamLast10) > 0,
		KindAwayLast10:   len(s.AwayTeamLast10) > 0,
		KindHomeInjuries: len(s.Injuries.Home) > 0,
		KindAwayInjuries: len(s.Injuries.Away) > 0,
	}
}
