package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func float64Ptr(v float64) *float64 { return &v }
func stringPtr(s string) *string    { return &s }
func boolPtr(b bool) *bool          { return &b }

func fairPlus() PluginConfig {
	return PluginConfig{
		ID:              "fair-plus",
		Name:            "Fair Plus",
		BaseMultiplier:  float64Ptr(1.5),
		ScoreFactor:     float64Ptr(0.2),
		PickDecayFactor: float64Ptr(0.3),
		MinWeight:       float64Ptr(0.1),
		MaxWeight:       float64Ptr(5),
		MinAppVersion:   "2.0.0",
	}
}

// Expected values were produced by the reference signing tool and must never change.
func TestChecksum_KnownSignatures(t *testing.T) {
	withDesc := fairPlus()
	withDesc.Description = stringPtr("Boost fairness")

	tests := []struct {
		name string
		cfg  PluginConfig
		want string
	}{
		{"all numeric fields", fairPlus(), "280cd70a"},
		{"with description", withDesc, "45d33e2e"},
		{"sparse fields", PluginConfig{ID: "momentum", Name: "Shadow", BaseMultiplier: float64Ptr(2)}, "1c2f56d2"},
		{"integer literal renders without decimals", PluginConfig{ID: "steady", Name: "Steady", PickDecayFactor: float64Ptr(1)}, "db86e79"},
		{"exponent literals", PluginConfig{ID: "tiny", Name: "Tiny", MinWeight: float64Ptr(1e-7), MaxWeight: float64Ptr(1e21)}, "72e594c4"},
		{"non-ascii text hashes utf-16 units", PluginConfig{ID: "été", Name: "Ünï"}, "206563a3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Checksum(tt.cfg))
		})
	}
}

func TestChecksum_IgnoresSignatureAndEnabled(t *testing.T) {
	a := fairPlus()
	b := fairPlus()
	b.Signature = "deadbeef"
	b.Enabled = boolPtr(false)
	assert.Equal(t, Checksum(a), Checksum(b))
}

func TestChecksum_ZeroDiffersFromAbsent(t *testing.T) {
	absent := PluginConfig{ID: "x", Name: "X"}
	zero := PluginConfig{ID: "x", Name: "X", ScoreFactor: float64Ptr(0)}
	assert.NotEqual(t, Checksum(absent), Checksum(zero))
}

func TestSignAndVerify(t *testing.T) {
	signed := Sign(fairPlus())
	assert.Equal(t, "280cd70a", signed.Signature)
	assert.True(t, Verify(signed))

	// tampering with a tuning parameter invalidates the signature
	signed.BaseMultiplier = float64Ptr(10)
	assert.False(t, Verify(signed))
	assert.False(t, Verify(fairPlus()), "unsigned config never verifies")
}

func TestFormatNumber_MatchesScriptRendering(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1, "1"},
		{1.5, "1.5"},
		{0.1, "0.1"},
		{-2.25, "-2.25"},
		{0, "0"},
		{0.000001, "0.000001"},
		{1e-7, "1e-7"},
		{2.5e-8, "2.5e-8"},
		{1e21, "1e+21"},
		{123456789012345680000, "123456789012345680000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatNumber(tt.in), "formatNumber(%v)", tt.in)
	}
}

func TestHashString_Basics(t *testing.T) {
	assert.Equal(t, "0", hashString(""))
	assert.Equal(t, "61", hashString("a"))
}
