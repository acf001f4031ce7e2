package betting

// Trend classifies a profit/loss value for display
type Trend int

const (
	Flat Trend = iota
	Up
	Down
)

func (t Trend) String() string {
	switch t {
	case Up:
		return "positive"
	case Down:
		return "negative"
	default:
		return "zero"
	}
}

// MarshalText implements encoding.TextMarshaler
func (t Trend) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// TrendOf classifies a profit/loss value
func TrendOf(pl int) Trend {
	switch {
	case pl > 0:
		return Up
	case pl < 0:
		return Down
	default:
		return Flat
	}
}

// Standing is one row of the points table
type Standing struct {
	Class      string `json:"class"`
	Category   string `json:"category"`
	Points     int    `json:"points"`
	Baseline   int    `json:"baseline"`
	ProfitLoss int    `json:"profit_loss"`
	Trend      Trend  `json:"trend"`
}

// Standings derives the profit/loss table from current points.
// Rows follow registry order; a class without a baseline uses 0.
func Standings(reg *Registry, points, baselines map[string]int) []Standing {
	rows := make([]Standing, 0, len(reg.categoryOf))
	for _, cat := range reg.categories {
		for _, class := range cat.Classes {
			pl := points[class] - baselines[class]
			rows = append(rows, Standing{
				Class:      class,
				Category:   cat.Name,
				Points:     points[class],
				Baseline:   baselines[class],
				ProfitLoss: pl,
				Trend:      TrendOf(pl),
			})
		}
	}
	return rows
}

// ClampPoints limits an admin-entered points value to [min, max]
func ClampPoints(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
