// Package loyalty maps customer levels to discount tiers.
package loyalty

import (
	"github.com/jokads/JokaTech/internal/domain"
)

// Level bounds.
const (
	MinLevel = 1
	MaxLevel = 50
)

type tier struct {
	minLevel int
	discount int
}

// tiers is ordered by descending minLevel.
var tiers = []tier{
	{minLevel: 40, discount: 25},
	{minLevel: 30, discount: 20},
	{minLevel: 20, discount: 15},
	{minLevel: 10, discount: 10},
	{minLevel: 5, discount: 5},
	{minLevel: 1, discount: 0},
}

func checkLevel(op string, level int) error {
	if level < MinLevel || level > MaxLevel {
		return domain.Errorf(domain.EINVALID, op, "level %d is outside %d..%d", level, MinLevel, MaxLevel)
	}
	return nil
}

// DiscountForLevel returns the discount percentage for a level in 1..50.
func DiscountForLevel(level int) (int, error) {
	if err := checkLevel("loyalty.discount", level); err != nil {
		return 0, err
	}
	for _, t := range tiers {
		if level >= t.minLevel {
			return t.discount, nil
		}
	}
	return 0, nil
}

// LevelColor is the badge color for a level. Purely cosmetic.
func LevelColor(level int) string {
	switch {
	case level < 10:
		return "gray"
	case level < 20:
		return "green"
	case level < 30:
		return "blue"
	case level < 40:
		return "purple"
	default:
		return "amber"
	}
}

// NextDiscountLevel is the next multiple of ten at or above level, capped
// at MaxLevel.
func NextDiscountLevel(level int) int {
	if level < MinLevel {
		level = MinLevel
	}
	next := ((level + 9) / 10) * 10
	if next > MaxLevel {
		return MaxLevel
	}
	return next
}

// XPProgress is current/toNext. A non-positive denominator or a ratio
// outside [0,1] means the stored level was not rolled over correctly.
func XPProgress(current, toNext int) (float64, error) {
	if toNext <= 0 || current < 0 || current > toNext {
		return 0, &domain.Error{
			Code:    domain.EINTERNAL,
			Op:      "loyalty.xp_progress",
			Message: "xp progress out of range",
			Err:     domain.ErrInvariantViolation,
		}
	}
	return float64(current) / float64(toNext), nil
}

// XPForLevel is the XP needed to advance from level to level+1.
func XPForLevel(level int) int {
	return 100 * level
}

// Progress is the level state that XP awards move forward.
type Progress struct {
	Level         int
	CurrentXP     int
	XPToNextLevel int
}

// AwardXP adds gained XP and rolls over into as many levels as it covers.
// At MaxLevel the XP saturates at the final threshold.
func AwardXP(p Progress, gained int) (Progress, error) {
	if err := checkLevel("loyalty.award_xp", p.Level); err != nil {
		return p, err
	}
	if gained < 0 {
		return p, domain.ErrLevelRegression
	}
	if p.XPToNextLevel <= 0 {
		p.XPToNextLevel = XPForLevel(p.Level)
	}

	p.CurrentXP += gained
	for p.CurrentXP >= p.XPToNextLevel && p.Level < MaxLevel {
		p.CurrentXP -= p.XPToNextLevel
		p.Level++
		p.XPToNextLevel = XPForLevel(p.Level)
	}
	if p.Level == MaxLevel && p.CurrentXP > p.XPToNextLevel {
		p.CurrentXP = p.XPToNextLevel
	}
	return p, nil
}
