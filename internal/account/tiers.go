package account

// Subscription tiers.
const (
	TierFree    = "free"
	TierStarter = "starter"
	TierPro     = "pro"
)

// FreeGenerationLimit is the lifetime generation allowance on the free tier.
const FreeGenerationLimit = 15

// ValidTier reports whether tier names a known subscription tier.
func ValidTier(tier string) bool {
	switch tier {
	case TierFree, TierStarter, TierPro:
		return true
	default:
		return false
	}
}

// ProfileLimit returns how many business profiles the tier allows.
func ProfileLimit(tier string) int {
	if tier == TierPro {
		return 10
	}
	return 1
}

// CanCreateProfile reports whether a user on the tier may create another
// profile given how many they already have.
func CanCreateProfile(tier string, existing int) bool {
	return existing < ProfileLimit(tier)
}

// CanGenerate reports whether the tier allows another generation given the
// lifetime count so far. Paid tiers are unlimited.
func CanGenerate(tier string, generationsUsed int) bool {
	if tier == TierStarter || tier == TierPro {
		return true
	}
	return generationsUsed < FreeGenerationLimit
}

// CanUseChat reports whether the tier includes the assistant chat.
func CanUseChat(tier string) bool {
	return tier == TierStarter || tier == TierPro
}
