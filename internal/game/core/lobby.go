package core

// LobbyPlayer is a player listed in the lobby roster
type LobbyPlayer struct {
	ID       string   `json:"id"`
	TankType TankType `json:"tankType"`
}

// LobbyTeam is a team listed in the lobby roster
type LobbyTeam struct {
	Name    string        `json:"name"`
	Color   uint32        `json:"color"`
	Players []LobbyPlayer `json:"players"`
}

// LobbyData is the one-time match setup sent before the game starts
type LobbyData struct {
	PlayerID          string      `json:"playerId"`
	TeamName          string      `json:"teamName"`
	Teams             []LobbyTeam `json:"teams"`
	SandboxMode       bool        `json:"sandboxMode"`
	MatchName         string      `json:"matchName,omitempty"`
	GridDimension     int         `json:"gridDimension"`
	NumberOfPlayers   int         `json:"numberOfPlayers"`
	Seed              int         `json:"seed"`
	BroadcastInterval int         `json:"broadcastInterval"`
	EagerBroadcast    bool        `json:"eagerBroadcast"`
	Version           string      `json:"version"`
}

// PlayerResult is a player's final statistics
type PlayerResult struct {
	ID       string   `json:"id"`
	Kills    int      `json:"kills"`
	TankType TankType `json:"tankType"`
}

// TeamResult is a team's final score
type TeamResult struct {
	Name    string         `json:"name"`
	Color   uint32         `json:"color"`
	Score   int            `json:"score"`
	Players []PlayerResult `json:"players"`
}

// MatchResult is the final scoreboard of a match
type MatchResult struct {
	Teams []TeamResult `json:"teams"`
}

// Winner returns the team with the highest score; ties keep the first
func (m MatchResult) Winner() (TeamResult, bool) {
	if len(m.Teams) == 0 {
		return TeamResult{}, false
	}
	best := m.Teams[0]
	for _, t := range m.Teams[1:] {
		if t.Score > best.Score {
			best = t
		}
	}
	return best, true
}

// WarningKind is the class of an advisory warning sent by the server
type WarningKind int

const (
	CustomWarning WarningKind = iota
	PlayerAlreadyMadeActionWarning
	ActionIgnoredDueToDeadWarning
	SlowResponseWarning
)

func (w WarningKind) String() string {
	switch w {
	case CustomWarning:
		return "custom"
	case PlayerAlreadyMadeActionWarning:
		return "player_already_made_action"
	case ActionIgnoredDueToDeadWarning:
		return "action_ignored_due_to_dead"
	case SlowResponseWarning:
		return "slow_response"
	default:
		return "unknown"
	}
}
