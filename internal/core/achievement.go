package core

const (
	FirstEarning AchievementID = "firstEarning"
	Diversified  AchievementID = "diversified"
	GoalSetter   AchievementID = "goalSetter"
	GoalCrusher  AchievementID = "goalCrusher"
	OnFire       AchievementID = "onFire"
	HighRoller   AchievementID = "highRoller"
)

type (
	AchievementID string

	// Achievements maps every known achievement to its unlocked flag. Flags only
	// ever go from false to true.
	Achievements map[AchievementID]bool
)

var achievementIDs = []AchievementID{FirstEarning, Diversified, GoalSetter, GoalCrusher, OnFire, HighRoller}

// AchievementIDs returns the six achievement ids in evaluation order.
func AchievementIDs() []AchievementID {
	return append([]AchievementID(nil), achievementIDs...)
}

func (id AchievementID) Valid() bool {
	for _, known := range achievementIDs {
		if id == known {
			return true
		}
	}
	return false
}

// DefaultAchievements has every achievement locked.
func DefaultAchievements() Achievements {
	out := make(Achievements, len(achievementIDs))
	for _, id := range achievementIDs {
		out[id] = false
	}
	return out
}

// Clone returns a copy with every known id present.
func (a Achievements) Clone() Achievements {
	out := DefaultAchievements()
	for id, v := range a {
		out[id] = v
	}
	return out
}
