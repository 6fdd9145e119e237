package gamemode

import "time"

const (
	HealthBarWidth  = 100
	HealthBarHeight = 10
)

type Tier int

const (
	TierGreen Tier = iota
	TierOrange
	TierRed
)

func (t Tier) String() string {
	switch t {
	case TierGreen:
		return "green"
	case TierOrange:
		return "orange"
	}
	return "red"
}

// HealthBar is the indicator under the duck. X and Y are filled in by the
// controller from the duck's position.
type HealthBar struct {
	X, Y      int
	Remaining time.Duration
	Width     int
	Tier      Tier
	Visible   bool
}

// HealthAt derives the bar for a neglect duration. With a 10s span the tiers
// switch at 6s and 3s remaining.
func HealthAt(elapsed, span time.Duration, barWidth int) HealthBar {
	remaining := max(0, span-elapsed)
	frac := float64(remaining) / float64(span)

	tier := TierRed
	switch {
	case frac > 0.6:
		tier = TierGreen
	case frac > 0.3:
		tier = TierOrange
	}

	return HealthBar{
		Remaining: remaining,
		Width:     int(frac * float64(barWidth)),
		Tier:      tier,
		Visible:   elapsed < span,
	}
}
