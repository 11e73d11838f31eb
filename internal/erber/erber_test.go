package erber

import "testing"

func TestLevelOrder(t *testing.T) {
	levels := Levels()
	want := []Level{LevelDetection, LevelDiscrimination, LevelIdentification, LevelComprehension}
	for i := range want {
		if levels[i] != want[i] {
			t.Errorf("Levels()[%d] = %s, want %s", i, levels[i], want[i])
		}
	}
}

func TestNextAndPrev(t *testing.T) {
	tests := []struct {
		level  Level
		next   Level
		prev   Level
		prevOK bool
	}{
		{LevelDetection, LevelDiscrimination, "", false},
		{LevelDiscrimination, LevelIdentification, LevelDetection, true},
		{LevelIdentification, LevelComprehension, LevelDiscrimination, true},
		{LevelComprehension, LevelComprehension, LevelIdentification, true},
	}
	for _, tt := range tests {
		if got := tt.level.Next(); got != tt.next {
			t.Errorf("%s.Next() = %s, want %s", tt.level, got, tt.next)
		}
		prev, ok := tt.level.Prev()
		if prev != tt.prev || ok != tt.prevOK {
			t.Errorf("%s.Prev() = %s, %v; want %s, %v", tt.level, prev, ok, tt.prev, tt.prevOK)
		}
	}
}

func TestParseLevel(t *testing.T) {
	if l, err := ParseLevel("identification"); err != nil || l != LevelIdentification {
		t.Errorf("ParseLevel = %s, %v", l, err)
	}
	if _, err := ParseLevel("hearing"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestEveryLevelHasOptionsAndPrimary(t *testing.T) {
	for _, l := range Levels() {
		opts := Options(l)
		if len(opts) == 0 {
			t.Errorf("level %s has no options", l)
		}
		p := PrimaryActivity(l)
		if p.Level != l {
			t.Errorf("primary activity %s is at %s, want %s", p.ID, p.Level, l)
		}
	}
}

func TestDetectionActivityIsFree(t *testing.T) {
	a := DetectionActivity()
	if a.RequiredTier != TierFree {
		t.Errorf("detection activity tier = %q, want free", a.RequiredTier)
	}
	if a.Level != LevelDetection {
		t.Errorf("detection activity level = %s", a.Level)
	}
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		activity string
		want     Level
		ok       bool
	}{
		{ActivitySoundDetection, LevelDetection, true},
		{ActivityMinimalPairs, LevelDiscrimination, true},
		{"category_sort", LevelIdentification, true},
		{ActivityConversation, LevelComprehension, true},
		{"hearing_check", "", false},
	}
	for _, tt := range tests {
		got, ok := LevelFor(tt.activity)
		if got != tt.want || ok != tt.ok {
			t.Errorf("LevelFor(%q) = %s, %v; want %s, %v", tt.activity, got, ok, tt.want, tt.ok)
		}
	}
}

func TestIsPhonemeContrast(t *testing.T) {
	if !IsPhonemeContrast(ActivityMinimalPairs) || !IsPhonemeContrast(ActivityPhonemeDrill) {
		t.Error("expected minimal pairs and drills to be phoneme contrast activities")
	}
	if IsPhonemeContrast(ActivityWordIdentification) {
		t.Error("word identification is not a phoneme contrast activity")
	}
}

func TestActivityLabel(t *testing.T) {
	if got := ActivityLabel(ActivityMinimalPairs); got != "Minimal Pairs" {
		t.Errorf("label = %q", got)
	}
	if got := ActivityLabel("rhythm_tap"); got != "Rhythm Tap" {
		t.Errorf("fallback label = %q", got)
	}
}

func TestTierRank(t *testing.T) {
	if ParseTier("PREMIUM") != TierPremium || ParseTier("standard") != TierStandard || ParseTier("trial") != TierFree {
		t.Error("ParseTier mismatch")
	}
	if !(TierFree.Rank() < TierStandard.Rank() && TierStandard.Rank() < TierPremium.Rank()) {
		t.Error("tier ranks out of order")
	}
}
