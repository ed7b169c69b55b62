// Package progression derives a player level from cumulative score.
package progression

// Threshold is the cumulative-score floor at which a level begins.
type Threshold struct {
	Floor int
	Name  string
}

// thresholds ascend by Floor and start at 0.
var thresholds = []Threshold{
	{Floor: 0, Name: "Novice"},
	{Floor: 1000, Name: "Apprentice"},
	{Floor: 5000, Name: "Competent"},
	{Floor: 10000, Name: "Expert"},
	{Floor: 25000, Name: "Master"},
	{Floor: 50000, Name: "Grand Master"},
	{Floor: 100000, Name: "Legend"},
}

// Thresholds returns a copy of the level table.
func Thresholds() []Threshold {
	out := make([]Threshold, len(thresholds))
	copy(out, thresholds)
	return out
}

// Level is where a cumulative score sits in the table.
type Level struct {
	Name      string
	Floor     int
	Progress  int // points earned above Floor
	NextName  string
	NextFloor int
	Top       bool // no higher level exists
}

// Remaining is the number of points left before the next level.
func (l Level) Remaining() int {
	if l.Top {
		return 0
	}
	return l.NextFloor - l.Floor - l.Progress
}

// LevelFor maps a cumulative score to its level. Negative scores are
// treated as zero.
func LevelFor(cumulative int) Level {
	if cumulative < 0 {
		cumulative = 0
	}
	for i := len(thresholds) - 1; i >= 0; i-- {
		t := thresholds[i]
		if t.Floor > cumulative {
			continue
		}
		lvl := Level{
			Name:     t.Name,
			Floor:    t.Floor,
			Progress: cumulative - t.Floor,
			Top:      i == len(thresholds)-1,
		}
		if !lvl.Top {
			lvl.NextName = thresholds[i+1].Name
			lvl.NextFloor = thresholds[i+1].Floor
		}
		return lvl
	}
	// Unreachable: the table starts at 0.
	return Level{Name: thresholds[0].Name}
}
