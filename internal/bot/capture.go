package bot

import (
	"github.com/mitchelldurbincs/tankbot/internal/common"
	"github.com/mitchelldurbincs/tankbot/internal/game/core"
)

// Shares is the control split of the active zone as seen by one team
type Shares struct {
	Mine     float64
	Opposing float64
	Neutral  float64
}

// ComputeShares extracts the split for team from the zone labelled target.
// When no zone carries that label the first zone is used. Opposing is the
// strongest other team.
func ComputeShares(zones []core.Zone, team string, target byte) Shares {
	if len(zones) == 0 {
		return Shares{}
	}
	zone := zones[0]
	for _, z := range zones {
		if z.Label == target {
			zone = z
			break
		}
	}

	s := Shares{Neutral: zone.Shares.Neutral}
	for name, share := range zone.Shares.Teams {
		if name == team {
			s.Mine = share
			continue
		}
		if share > s.Opposing {
			s.Opposing = share
		}
	}
	return s
}

// All is the sum of every tracked share
func (s Shares) All() float64 {
	return s.Mine + s.Opposing + s.Neutral
}

// CaptureProbability is the chance of choosing to capture now. It grows
// with the part of the zone this team does not hold.
func (s Shares) CaptureProbability(t Tuning) float64 {
	all := s.All()
	p := (all - s.Mine) / (all + t.CaptureEpsilon)
	return common.Clamp(p, t.MinCaptureProb, t.MaxCaptureProb)
}
