package analytics

type BadgeID string

const (
	BadgeSpeedRunner  BadgeID = "speed_runner"
	BadgeBlitz        BadgeID = "blitz"
	BadgeSharpshooter BadgeID = "sharpshooter"
	BadgeTriggerHappy BadgeID = "trigger_happy"
	BadgeShopaholic   BadgeID = "shopaholic"
	BadgeHandsOff     BadgeID = "hands_off"
)

type Badge struct {
	ID          BadgeID
	Name        string
	Description string
	Icon        string
}

var AllBadges = map[BadgeID]Badge{
	BadgeSpeedRunner:  {ID: BadgeSpeedRunner, Name: "Speed Runner", Description: "Won in under 2 minutes", Icon: "⏱️"},
	BadgeBlitz:        {ID: BadgeBlitz, Name: "Blitz", Description: "Won in under 1 minute", Icon: "⚡"},
	BadgeSharpshooter: {ID: BadgeSharpshooter, Name: "Sharpshooter", Description: "Hit 5+ bonus targets in a run", Icon: "🎯"},
	BadgeTriggerHappy: {ID: BadgeTriggerHappy, Name: "Trigger Happy", Description: "5+ clicks per second average", Icon: "🖱️"},
	BadgeShopaholic:   {ID: BadgeShopaholic, Name: "Shopaholic", Description: "10+ upgrades bought in a run", Icon: "🛒"},
	BadgeHandsOff:     {ID: BadgeHandsOff, Name: "Hands Off", Description: "Won with fewer than 50 clicks", Icon: "🛋️"},
}

// EvaluateRunBadges returns the badges a won run earned, in a fixed order.
func EvaluateRunBadges(stats RunStats) []Badge {
	var earned []Badge

	if stats.Elapsed > 0 && stats.Elapsed < 120 {
		earned = append(earned, AllBadges[BadgeSpeedRunner])
	}
	if stats.Elapsed > 0 && stats.Elapsed < 60 {
		earned = append(earned, AllBadges[BadgeBlitz])
	}
	if stats.TargetsHit >= 5 {
		earned = append(earned, AllBadges[BadgeSharpshooter])
	}
	if stats.CPS() >= 5 {
		earned = append(earned, AllBadges[BadgeTriggerHappy])
	}
	if stats.Purchases >= 10 {
		earned = append(earned, AllBadges[BadgeShopaholic])
	}
	if stats.Clicks < 50 {
		earned = append(earned, AllBadges[BadgeHandsOff])
	}

	return earned
}
