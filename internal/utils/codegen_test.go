package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGeneratePromoCode(t *testing.T) {
	tests := []struct {
		firstName string
		lastName  string
		prefix    string
		used      []string
		expected  string
	}{
		{"Jean", "Dupont", "PRO_", nil, "PRO_DUJE"},
		{"Jean", "Dupont", "PRO_", []string{"PRO_DUJE"}, "PRO_DUJE1"},
		{"Jean", "Dupont", "PRO_", []string{"PRO_DUJE", "PRO_DUJE1"}, "PRO_DUJE2"},
		{"jean", "dupont", "pro_", nil, "PRO_DUJE"},
		{"Anne", "Durand", "PRO_", []string{"PRO_DUJE"}, "PRO_DUAN"},
		{"Li", "Wu", "KINE_", nil, "KINE_WULI"},
		{"A", "B", "PRO_", nil, "PRO_BA"},
		{"Élodie", "Ménard", "PRO_", nil, "PRO_MEEL"},
		{"Zoé", "O'Neill", "PRO_", nil, "PRO_ONZO"},
		{"Ana", "de Luca", "PRO_", nil, "PRO_DEAN"},
	}

	for _, ts := range tests {
		got := GeneratePromoCode(ts.firstName, ts.lastName, ts.prefix, UsedCodeSet(ts.used))
		require.Equal(t, ts.expected, got, "first=%s last=%s used=%v", ts.firstName, ts.lastName, ts.used)
	}
}

func TestGeneratePromoCodePassesValidation(t *testing.T) {
	names := [][2]string{
		{"Élodie", "Ménard"},
		{"François", "Müller"},
		{"Zoé", "O'Neill"},
		{"王", "伟"},
	}

	for _, n := range names {
		code := GeneratePromoCode(n[0], n[1], "PRO_", nil)
		require.True(t, IsValidPromoCode(code), "code %q for %s %s", code, n[0], n[1])
	}
}

func TestGeneratePromoCodeNeverReturnsUsed(t *testing.T) {
	used := UsedCodeSet(nil)

	// Repeated identical names must keep producing distinct codes.
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code := GeneratePromoCode("Jean", "Dupont", "PRO_", used)
		require.False(t, used[code], "code %s already in use", code)
		require.False(t, seen[code], "code %s generated twice", code)
		seen[code] = true
		used[code] = true
	}
}

func TestNormalizeCode(t *testing.T) {
	require.Equal(t, "PRO_DUJE", NormalizeCode("  pro_duje "))
	require.Equal(t, "PRO_DUJE", NormalizeCode("PRO_DUJE"))
	require.Equal(t, "", NormalizeCode("   "))
}

func TestIsValidPromoCode(t *testing.T) {
	require.True(t, IsValidPromoCode("PRO_DUJE1"))
	require.True(t, IsValidPromoCode("pro-duje"))
	require.False(t, IsValidPromoCode(""))
	require.False(t, IsValidPromoCode("PRO DUJE"))
	require.False(t, IsValidPromoCode("PRO/DUJE"))
}
