package testutil

import (
	"fmt"
	"os"

	"github.com/mitchelldurbincs/tankbot/internal/game/core"
	"gopkg.in/yaml.v3"
)

// Scenario is a YAML battlefield fixture.
//
// Grid rows use '.' for open ground, '#' for solid walls and '%' for
// penetrable walls. Fog rows, when present, use '1' for visible cells and
// are attached to every own tank; otherwise own tanks see the whole grid.
type Scenario struct {
	Name    string           `yaml:"name"`
	Tick    int              `yaml:"tick"`
	Self    string           `yaml:"self"`
	Team    string           `yaml:"team"`
	Grid    []string         `yaml:"grid"`
	Fog     []string         `yaml:"fog"`
	Zones   []ScenarioZone   `yaml:"zones"`
	Tanks   []ScenarioTank   `yaml:"tanks"`
	Bullets []ScenarioBullet `yaml:"bullets"`
	Mines   []ScenarioCell   `yaml:"mines"`
	Lasers  []ScenarioCell   `yaml:"lasers"`
	Expect  ScenarioExpect   `yaml:"expect"`
}

// ScenarioExpect is the decision a scenario should produce
type ScenarioExpect struct {
	Rule   string `yaml:"rule"`
	Action string `yaml:"action"`
}

// ScenarioCell is a grid coordinate
type ScenarioCell struct {
	Row int `yaml:"row"`
	Col int `yaml:"col"`
}

// ScenarioZone is a zone rectangle; X is the left column, Y the top row
type ScenarioZone struct {
	Label   string             `yaml:"label"`
	X       int                `yaml:"x"`
	Y       int                `yaml:"y"`
	Width   int                `yaml:"width"`
	Height  int                `yaml:"height"`
	Neutral float64            `yaml:"neutral"`
	Shares  map[string]float64 `yaml:"shares"`
}

// ScenarioTank describes a tank. Own tanks carry bullets and cooldowns.
type ScenarioTank struct {
	ScenarioCell `yaml:",inline"`
	Owner         string `yaml:"owner"`
	Own           bool   `yaml:"own"`
	Type          string `yaml:"type"`
	Body          string `yaml:"body"`
	Turret        string `yaml:"turret"`
	Bullets       int    `yaml:"bullets"`
	Health        *int   `yaml:"health"`
	TicksToLaser  *int   `yaml:"ticksToLaser"`
	TicksToDouble *int   `yaml:"ticksToDouble"`
	TicksToHeal   *int   `yaml:"ticksToHeal"`
	TicksToMine   *int   `yaml:"ticksToMine"`
	TicksToRadar  *int   `yaml:"ticksToRadar"`
}

// ScenarioBullet describes a bullet in flight
type ScenarioBullet struct {
	ScenarioCell `yaml:",inline"`
	ID           int     `yaml:"id"`
	Type         string  `yaml:"type"`
	Speed        float64 `yaml:"speed"`
	Direction    string  `yaml:"direction"`
}

// LoadScenario reads and parses a YAML scenario file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses a YAML scenario document
func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if len(sc.Grid) == 0 {
		return nil, fmt.Errorf("scenario %q: %w", sc.Name, core.ErrEmptyGrid)
	}
	return &sc, nil
}

// Snapshot materializes the scenario as a world snapshot
func (sc *Scenario) Snapshot() (*core.Snapshot, error) {
	dim := len(sc.Grid)
	s := core.NewEmptySnapshot(dim, sc.Tick)
	s.ID = sc.Name

	for row, line := range sc.Grid {
		if len(line) != dim {
			return nil, fmt.Errorf("grid row %d has %d cells: %w", row, len(line), core.ErrGridDimensionMismatch)
		}
		for col, c := range line {
			switch c {
			case '#':
				Place(s, core.NewPosition(row, col), core.WallEntity(core.Wall{Type: core.SolidWall}))
			case '%':
				Place(s, core.NewPosition(row, col), core.WallEntity(core.Wall{Type: core.PenetrableWall}))
			case '.':
			default:
				return nil, fmt.Errorf("grid row %d: unknown cell %q", row, c)
			}
		}
	}

	vis, err := sc.visibility(dim)
	if err != nil {
		return nil, err
	}

	for _, z := range sc.Zones {
		if len(z.Label) != 1 {
			return nil, fmt.Errorf("zone label %q must be one letter", z.Label)
		}
		s.Zones = append(s.Zones, core.Zone{
			X: z.X, Y: z.Y, Width: z.Width, Height: z.Height,
			Label:  z.Label[0],
			Shares: core.ZoneShares{Neutral: z.Neutral, Teams: z.Shares},
		})
	}
	s.AssignZoneLabels()

	for _, st := range sc.Tanks {
		tank, err := st.tank(vis)
		if err != nil {
			return nil, err
		}
		Place(s, st.pos(), core.TankEntity(tank))
	}
	for _, sb := range sc.Bullets {
		dir, err := parseDirection(sb.Direction)
		if err != nil {
			return nil, err
		}
		bt, err := parseBulletType(sb.Type)
		if err != nil {
			return nil, err
		}
		speed := sb.Speed
		if speed == 0 {
			speed = 1
		}
		Place(s, sb.pos(), core.BulletEntity(core.Bullet{ID: sb.ID, Type: bt, Speed: speed, Direction: dir}))
	}
	for i, m := range sc.Mines {
		Place(s, m.pos(), core.MineEntity(core.Mine{ID: i + 1}))
	}
	for i, l := range sc.Lasers {
		Place(s, l.pos(), core.LaserEntity(core.Laser{ID: i + 1}))
	}
	return s, nil
}

func (sc *Scenario) visibility(dim int) ([][]bool, error) {
	if len(sc.Fog) == 0 {
		return FullVisibility(dim), nil
	}
	if len(sc.Fog) != dim {
		return nil, fmt.Errorf("fog has %d rows: %w", len(sc.Fog), core.ErrGridDimensionMismatch)
	}
	vis := NoVisibility(dim)
	for row, line := range sc.Fog {
		if len(line) != dim {
			return nil, fmt.Errorf("fog row %d: %w", row, core.ErrGridDimensionMismatch)
		}
		for col, c := range line {
			vis[row][col] = c == '1'
		}
	}
	return vis, nil
}

func (c ScenarioCell) pos() core.Position {
	return core.NewPosition(c.Row, c.Col)
}

func (st ScenarioTank) tank(vis [][]bool) (core.Tank, error) {
	body, err := parseDirection(st.Body)
	if err != nil {
		return core.Tank{}, err
	}
	turret := body
	if st.Turret != "" {
		if turret, err = parseDirection(st.Turret); err != nil {
			return core.Tank{}, err
		}
	}
	tt := core.LightTank
	if st.Type != "" {
		if tt, err = core.ParseTankType(st.Type); err != nil {
			return core.Tank{}, err
		}
	}

	if !st.Own {
		t := EnemyTank(st.Owner, body, turret)
		t.Type = tt
		return t, nil
	}

	t := OwnTank(st.Owner, tt, body, turret, st.Bullets)
	if st.Health != nil {
		t.Health = Ptr(*st.Health)
	}
	t.Turret.TicksToLaser = st.TicksToLaser
	t.Turret.TicksToDoubleBullet = st.TicksToDouble
	t.Turret.TicksToHealingBullet = st.TicksToHeal
	t.TicksToMine = st.TicksToMine
	t.TicksToRadar = st.TicksToRadar
	t.Visibility = vis
	return t, nil
}

func parseDirection(s string) (core.Direction, error) {
	switch s {
	case "up", "":
		return core.Up, nil
	case "right":
		return core.Right, nil
	case "down":
		return core.Down, nil
	case "left":
		return core.Left, nil
	default:
		return core.Up, fmt.Errorf("unknown direction %q", s)
	}
}

func parseBulletType(s string) (core.BulletType, error) {
	switch s {
	case "basic", "":
		return core.BasicBullet, nil
	case "double":
		return core.DoubleBullet, nil
	case "healing":
		return core.HealingBullet, nil
	case "stun":
		return core.StunBullet, nil
	default:
		return core.BasicBullet, fmt.Errorf("unknown bullet type %q", s)
	}
}
