package goals

import "earnings/internal/core"

type Achievement struct {
	ID          core.AchievementID `json:"id"`
	Icon        string             `json:"icon"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Unlocked    bool               `json:"unlocked"`
}

var catalogue = []Achievement{
	{ID: core.FirstEarning, Icon: "🌟", Title: "First Earning", Description: "Add your first earning entry"},
	{ID: core.Diversified, Icon: "📊", Title: "Diversified", Description: "Earn from 3+ sources"},
	{ID: core.GoalSetter, Icon: "🎯", Title: "Goal Setter", Description: "Set your first monthly goal"},
	{ID: core.GoalCrusher, Icon: "💪", Title: "Goal Crusher", Description: "Achieve 100% of monthly goal"},
	{ID: core.OnFire, Icon: "🔥", Title: "On Fire", Description: "7-day earning streak"},
	{ID: core.HighRoller, Icon: "💰", Title: "High Roller", Description: "Earn ₹10,000+ in a single entry"},
}

// Catalogue returns every achievement, all locked, in display order.
func Catalogue() []Achievement {
	return append([]Achievement(nil), catalogue...)
}

// Lookup returns the catalogue entry for id. Unknown ids get a bare entry.
func Lookup(id core.AchievementID) Achievement {
	for _, a := range catalogue {
		if a.ID == id {
			return a
		}
	}
	return Achievement{ID: id, Title: string(id)}
}

// MaxTips caps the tips list.
const MaxTips = 5

var defaultTips = []string{
	"Track all your cashback and reward earnings from UPI apps",
	"Share referral codes to earn passive bonuses",
	"Consider freelance opportunities in your skill area",
	"Invest in skills that can increase your earning potential",
	"Set realistic monthly goals and work towards them consistently",
	"Review your expenses to find areas to save money",
}

var occupationTips = map[core.Occupation][]string{
	core.Student: {
		"Look for internship opportunities that offer stipends",
		"Participate in coding competitions with cash prizes",
		"Offer tutoring services in subjects you excel at",
	},
	core.Freelancer: {
		"Build a strong portfolio to attract higher-paying clients",
		"Diversify your client base to reduce dependency",
		"Consider creating passive income through digital products",
	},
	core.Employee: {
		"Look for side projects that complement your skills",
		"Consider upskilling for better salary negotiations",
		"Explore investment opportunities for passive income",
	},
}

// Tips returns the occupation specific tips followed by general ones, at most
// MaxTips in total.
func Tips(o core.Occupation) []string {
	tips := append([]string(nil), occupationTips[o]...)
	tips = append(tips, defaultTips[:3]...)
	if len(tips) > MaxTips {
		tips = tips[:MaxTips]
	}
	return tips
}
