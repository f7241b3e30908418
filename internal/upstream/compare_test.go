package upstream

import "testing"

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		name     string
		v1, v2   string
		expected int
	}{
		{"equal", "6.1.2", "6.1.2", 0},
		{"equal with v prefix", "v6.1.2", "6.1.2", 0},
		{"patch newer", "6.1.2", "6.1.3", -1},
		{"minor newer", "6.1.9", "6.2.0", -1},
		{"major newer", "5.9.9", "6.0.0", -1},
		{"older", "6.2.0", "6.1.9", 1},
		{"shorter equals padded", "6.1", "6.1.0", 0},
		{"shorter is older", "6.1", "6.1.1", -1},
		{"rc before release", "6.1.0-rc1", "6.1.0", -1},
		{"alpha before beta", "6.1.0-alpha1", "6.1.0-beta1", -1},
		{"beta before rc", "6.1.0_beta2", "6.1.0-rc1", -1},
		{"rc ordering by number", "6.1.0-rc1", "6.1.0-rc2", -1},
		{"release after rc", "6.1.0", "6.1.0-rc3", 1},
		{"trailing letter ignored", "1.0a", "1.0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CompareVersions(tt.v1, tt.v2); got != tt.expected {
				t.Errorf("CompareVersions(%q, %q) = %d, expected %d", tt.v1, tt.v2, got, tt.expected)
			}
		})
	}
}

func TestCompareVersionsSymmetry(t *testing.T) {
	pairs := [][2]string{
		{"6.1.2", "6.1.3"},
		{"v6.0.0", "5.9.9"},
		{"6.1.0-rc1", "6.1.0"},
	}

	for _, p := range pairs {
		forward := CompareVersions(p[0], p[1])
		backward := CompareVersions(p[1], p[0])
		if forward != -backward {
			t.Errorf("CompareVersions(%q, %q)=%d but reversed=%d", p[0], p[1], forward, backward)
		}
	}
}
