package targets

type Side string

const (
	SideLeft  = Side("left")
	SideRight = Side("right")
)

// Target is a bonus target crossing the playfield. X and Y are in playfield
// pixels; Speed is pixels per second.
type Target struct {
	ID        int     `json:"id"`
	Side      Side    `json:"side"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Speed     float64 `json:"speed"`
	Reward    int64   `json:"reward"`
	Clicked   bool    `json:"clicked"`
	RemoveIn  float64 `json:"-"`
	SpawnedAt float64 `json:"-"` // engine seconds
}

// Field describes the playfield a target crosses. Targets start Margin
// outside their own edge and leave once Margin past the opposite one.
type Field struct {
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
	Margin float64 `yaml:"margin" json:"margin"`
	MinY   float64 `yaml:"min_y" json:"minY"`
	MaxY   float64 `yaml:"max_y" json:"maxY"`
}

func (t *Target) exited(f Field) bool {
	if t.Side == SideLeft {
		return t.X > f.Width+f.Margin
	}
	return t.X < -f.Margin
}
