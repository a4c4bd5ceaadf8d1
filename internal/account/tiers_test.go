package account

import "testing"

func TestProfileLimit(t *testing.T) {
	cases := []struct {
		tier string
		want int
	}{
		{TierFree, 1},
		{TierStarter, 1},
		{TierPro, 10},
	}
	for _, tc := range cases {
		if got := ProfileLimit(tc.tier); got != tc.want {
			t.Errorf("ProfileLimit(%q) = %d, want %d", tc.tier, got, tc.want)
		}
	}
}

func TestCanGenerate(t *testing.T) {
	if !CanGenerate(TierFree, 0) {
		t.Error("free tier with no usage should be able to generate")
	}
	if !CanGenerate(TierFree, FreeGenerationLimit-1) {
		t.Error("free tier under the limit should be able to generate")
	}
	if CanGenerate(TierFree, FreeGenerationLimit) {
		t.Error("free tier at the limit should be blocked")
	}
	if !CanGenerate(TierStarter, 10000) {
		t.Error("starter tier should be unlimited")
	}
	if !CanGenerate(TierPro, 10000) {
		t.Error("pro tier should be unlimited")
	}
}

func TestCanUseChat(t *testing.T) {
	if CanUseChat(TierFree) {
		t.Error("free tier should not have chat access")
	}
	if !CanUseChat(TierStarter) || !CanUseChat(TierPro) {
		t.Error("paid tiers should have chat access")
	}
}

func TestCanCreateProfile(t *testing.T) {
	if !CanCreateProfile(TierFree, 0) {
		t.Error("free tier with no profiles should be able to create one")
	}
	if CanCreateProfile(TierFree, 1) {
		t.Error("free tier with one profile should be capped")
	}
	if !CanCreateProfile(TierPro, 9) {
		t.Error("pro tier under ten profiles should be able to create")
	}
	if CanCreateProfile(TierPro, 10) {
		t.Error("pro tier at ten profiles should be capped")
	}
}

func TestValidTier(t *testing.T) {
	for _, tier := range []string{TierFree, TierStarter, TierPro} {
		if !ValidTier(tier) {
			t.Errorf("ValidTier(%q) = false", tier)
		}
	}
	if ValidTier("enterprise") {
		t.Error("unknown tier should be invalid")
	}
}
