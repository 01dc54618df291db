package actor

import "github.com/aretw0/skelly/pkg/domain"

// ProfileRegion declares one region a profile may own.
// Include is nil for regions that are always present.
type ProfileRegion struct {
	Name    domain.AspectName
	Include func(Config) bool
}

// Profile describes which regions an actor type owns and in what order.
type Profile struct {
	Type    string
	Regions []ProfileRegion
}

// Human is the profile of a person: body, then optional face, then optional hands.
var Human = Profile{
	Type: "human",
	Regions: []ProfileRegion{
		{Name: domain.AspectBody},
		{Name: domain.AspectFace, Include: func(c Config) bool { return c.IncludeFace }},
		{Name: domain.AspectLeftHand, Include: func(c Config) bool { return c.IncludeHands }},
		{Name: domain.AspectRightHand, Include: func(c Config) bool { return c.IncludeHands }},
	},
}

// Enabled returns the regions cfg turns on, in profile order.
func (p Profile) Enabled(cfg Config) []domain.AspectName {
	out := make([]domain.AspectName, 0, len(p.Regions))
	for _, r := range p.Regions {
		if r.Include == nil || r.Include(cfg) {
			out = append(out, r.Name)
		}
	}
	return out
}
