package client

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mitchelldurbincs/tankbot/internal/game/core"
)

var errMalformed = errors.New("malformed payload")

type lobbyWire struct {
	PlayerID       string           `json:"playerId"`
	TeamName       string           `json:"teamName"`
	Teams          []core.LobbyTeam `json:"teams"`
	ServerSettings struct {
		MatchName         *string `json:"matchName"`
		SandboxMode       bool    `json:"sandboxMode"`
		GridDimension     int     `json:"gridDimension"`
		NumberOfPlayers   int     `json:"numberOfPlayers"`
		Seed              int     `json:"seed"`
		BroadcastInterval int     `json:"broadcastInterval"`
		EagerBroadcast    bool    `json:"eagerBroadcast"`
		Version           string  `json:"version"`
	} `json:"serverSettings"`
}

// DecodeLobby parses a LobbyData payload
func DecodeLobby(payload []byte) (core.LobbyData, error) {
	var w lobbyWire
	if err := json.Unmarshal(payload, &w); err != nil {
		return core.LobbyData{}, fmt.Errorf("decode lobby: %w", err)
	}
	if w.PlayerID == "" {
		return core.LobbyData{}, fmt.Errorf("decode lobby: missing playerId: %w", errMalformed)
	}

	lobby := core.LobbyData{
		PlayerID:          w.PlayerID,
		TeamName:          w.TeamName,
		Teams:             w.Teams,
		SandboxMode:       w.ServerSettings.SandboxMode,
		GridDimension:     w.ServerSettings.GridDimension,
		NumberOfPlayers:   w.ServerSettings.NumberOfPlayers,
		Seed:              w.ServerSettings.Seed,
		BroadcastInterval: w.ServerSettings.BroadcastInterval,
		EagerBroadcast:    w.ServerSettings.EagerBroadcast,
		Version:           w.ServerSettings.Version,
	}
	if w.ServerSettings.MatchName != nil {
		lobby.MatchName = *w.ServerSettings.MatchName
	}
	return lobby, nil
}

type gameStateWire struct {
	ID       string      `json:"id"`
	Tick     int         `json:"tick"`
	PlayerID *string     `json:"playerId"`
	Teams    []core.Team `json:"teams"`
	Map      struct {
		Tiles [][][]objectWire `json:"tiles"`
		Zones []zoneWire       `json:"zones"`
	} `json:"map"`
}

type objectWire struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type zoneWire struct {
	X      int                `json:"x"`
	Y      int                `json:"y"`
	Width  int                `json:"width"`
	Height int                `json:"height"`
	Index  json.RawMessage    `json:"index"`
	Shares map[string]float64 `json:"shares"`
}

type turretWire struct {
	Direction            *int `json:"direction"`
	BulletCount          *int `json:"bulletCount"`
	TicksToBullet        *int `json:"ticksToBullet"`
	TicksToDoubleBullet  *int `json:"ticksToDoubleBullet"`
	TicksToLaser         *int `json:"ticksToLaser"`
	TicksToHealingBullet *int `json:"ticksToHealingBullet"`
	TicksToStunBullet    *int `json:"ticksToStunBullet"`
}

type tankWire struct {
	OwnerID      *string     `json:"ownerId"`
	Type         *int        `json:"type"`
	Direction    *int        `json:"direction"`
	Turret       *turretWire `json:"turret"`
	Health       *int        `json:"health"`
	TicksToMine  *int        `json:"ticksToMine"`
	TicksToRadar *int        `json:"ticksToRadar"`
	IsUsingRadar *bool       `json:"isUsingRadar"`
	Visibility   []string    `json:"visibility"`
}

// DecodeGameState parses a GameState payload into a snapshot.
// The tile layer arrives column-first and is transposed into [row][col];
// visibility strings are already row-first.
func DecodeGameState(payload []byte) (*core.Snapshot, error) {
	var w gameStateWire
	if err := json.Unmarshal(payload, &w); err != nil {
		return nil, fmt.Errorf("decode game state: %w", err)
	}

	layer := w.Map.Tiles
	dim := len(layer)
	if dim == 0 {
		return nil, fmt.Errorf("decode game state: %w", core.ErrEmptyGrid)
	}
	s := core.NewEmptySnapshot(dim, w.Tick)
	s.ID = w.ID
	s.Teams = w.Teams
	if w.PlayerID != nil {
		s.PlayerID = *w.PlayerID
	}

	for i, column := range layer {
		if len(column) != dim {
			return nil, fmt.Errorf("decode game state: layer %d has %d cells, expected %d: %w",
				i, len(column), dim, core.ErrGridDimensionMismatch)
		}
		for j, objects := range column {
			tile := &s.Tiles[j][i]
			for _, obj := range objects {
				e, err := decodeEntity(obj, dim)
				if err != nil {
					return nil, fmt.Errorf("decode game state: tile (%d,%d): %w", j, i, err)
				}
				tile.Entities = append(tile.Entities, e)
			}
		}
	}

	for _, zw := range w.Map.Zones {
		z, err := decodeZone(zw)
		if err != nil {
			return nil, fmt.Errorf("decode game state: %w", err)
		}
		s.Zones = append(s.Zones, z)
	}
	s.AssignZoneLabels()
	return s, nil
}

func decodeZone(zw zoneWire) (core.Zone, error) {
	label, err := zoneLabel(zw.Index)
	if err != nil {
		return core.Zone{}, err
	}
	z := core.Zone{X: zw.X, Y: zw.Y, Width: zw.Width, Height: zw.Height, Label: label}
	for name, share := range zw.Shares {
		if name == "neutral" {
			z.Shares.Neutral = share
			continue
		}
		if z.Shares.Teams == nil {
			z.Shares.Teams = make(map[string]float64)
		}
		z.Shares.Teams[name] = share
	}
	return z, nil
}

// zoneLabel accepts the zone index either as a character code or as a
// one-letter string
func zoneLabel(raw json.RawMessage) (byte, error) {
	var code int
	if err := json.Unmarshal(raw, &code); err == nil {
		if code <= 0 || code > 255 {
			return 0, fmt.Errorf("zone index %d: %w", code, errMalformed)
		}
		return byte(code), nil
	}
	var name string
	if err := json.Unmarshal(raw, &name); err != nil || name == "" {
		return 0, fmt.Errorf("zone index %s: %w", string(raw), errMalformed)
	}
	return name[0], nil
}

func decodeEntity(obj objectWire, dim int) (core.Entity, error) {
	switch obj.Type {
	case "wall":
		var w core.Wall
		if err := json.Unmarshal(obj.Payload, &w); err != nil {
			return core.Entity{}, fmt.Errorf("wall: %w", err)
		}
		return core.WallEntity(w), nil
	case "tank":
		t, err := decodeTank(obj.Payload, dim)
		if err != nil {
			return core.Entity{}, err
		}
		return core.TankEntity(t), nil
	case "bullet":
		var b core.Bullet
		if err := json.Unmarshal(obj.Payload, &b); err != nil {
			return core.Entity{}, fmt.Errorf("bullet: %w", err)
		}
		if err := checkDirection(int(b.Direction)); err != nil {
			return core.Entity{}, fmt.Errorf("bullet: %w", err)
		}
		return core.BulletEntity(b), nil
	case "mine":
		var m core.Mine
		if err := json.Unmarshal(obj.Payload, &m); err != nil {
			return core.Entity{}, fmt.Errorf("mine: %w", err)
		}
		return core.MineEntity(m), nil
	case "laser":
		var l core.Laser
		if err := json.Unmarshal(obj.Payload, &l); err != nil {
			return core.Entity{}, fmt.Errorf("laser: %w", err)
		}
		return core.LaserEntity(l), nil
	default:
		return core.Entity{}, fmt.Errorf("object type %q: %w", obj.Type, core.ErrUnknownEntity)
	}
}

func decodeTank(payload []byte, dim int) (core.Tank, error) {
	var w tankWire
	if err := json.Unmarshal(payload, &w); err != nil {
		return core.Tank{}, fmt.Errorf("tank: %w", err)
	}
	switch {
	case w.OwnerID == nil:
		return core.Tank{}, fmt.Errorf("tank: missing ownerId: %w", errMalformed)
	case w.Type == nil:
		return core.Tank{}, fmt.Errorf("tank %s: missing type: %w", *w.OwnerID, errMalformed)
	case w.Direction == nil:
		return core.Tank{}, fmt.Errorf("tank %s: missing direction: %w", *w.OwnerID, errMalformed)
	case w.Turret == nil || w.Turret.Direction == nil:
		return core.Tank{}, fmt.Errorf("tank %s: missing turret direction: %w", *w.OwnerID, errMalformed)
	}
	if err := checkDirection(*w.Direction); err != nil {
		return core.Tank{}, fmt.Errorf("tank %s: %w", *w.OwnerID, err)
	}
	if err := checkDirection(*w.Turret.Direction); err != nil {
		return core.Tank{}, fmt.Errorf("tank %s turret: %w", *w.OwnerID, err)
	}

	t := core.Tank{
		OwnerID:   *w.OwnerID,
		Type:      core.TankType(*w.Type),
		Direction: core.Direction(*w.Direction),
		Turret: core.Turret{
			Direction:            core.Direction(*w.Turret.Direction),
			BulletCount:          w.Turret.BulletCount,
			TicksToBullet:        w.Turret.TicksToBullet,
			TicksToDoubleBullet:  w.Turret.TicksToDoubleBullet,
			TicksToLaser:         w.Turret.TicksToLaser,
			TicksToHealingBullet: w.Turret.TicksToHealingBullet,
			TicksToStunBullet:    w.Turret.TicksToStunBullet,
		},
		Health:       w.Health,
		TicksToMine:  w.TicksToMine,
		TicksToRadar: w.TicksToRadar,
		IsUsingRadar: w.IsUsingRadar,
	}

	if w.Visibility != nil {
		vis, err := decodeVisibility(w.Visibility, dim)
		if err != nil {
			return core.Tank{}, fmt.Errorf("tank %s: %w", t.OwnerID, err)
		}
		t.Visibility = vis
	}
	return t, nil
}

func decodeVisibility(rows []string, dim int) ([][]bool, error) {
	if len(rows) != dim {
		return nil, fmt.Errorf("visibility has %d rows: %w", len(rows), core.ErrGridDimensionMismatch)
	}
	vis := make([][]bool, dim)
	for row, line := range rows {
		if len(line) != dim {
			return nil, fmt.Errorf("visibility row %d has %d cells: %w", row, len(line), core.ErrGridDimensionMismatch)
		}
		vis[row] = make([]bool, dim)
		for col := 0; col < dim; col++ {
			vis[row][col] = line[col] == '1'
		}
	}
	return vis, nil
}

func checkDirection(d int) error {
	if d < int(core.Up) || d > int(core.Left) {
		return fmt.Errorf("direction %d: %w", d, errMalformed)
	}
	return nil
}

type warningWire struct {
	Message string `json:"message"`
}

// DecodeWarning returns the message of a custom warning, empty for the others
func DecodeWarning(p Packet) (core.WarningKind, string, bool) {
	kind, ok := warningKinds[p.Type]
	if !ok {
		return 0, "", false
	}
	if p.Type != CustomWarning || len(p.Payload) == 0 {
		return kind, "", true
	}
	var w warningWire
	_ = json.Unmarshal(p.Payload, &w)
	return kind, w.Message, true
}

// DecodeGameEnd parses the final scoreboard
func DecodeGameEnd(payload []byte) (core.MatchResult, error) {
	var result core.MatchResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return core.MatchResult{}, fmt.Errorf("decode game end: %w", err)
	}
	return result, nil
}

type rejectionWire struct {
	Reason string `json:"reason"`
}

func decodeRejection(payload []byte) string {
	var w rejectionWire
	_ = json.Unmarshal(payload, &w)
	return w.Reason
}
