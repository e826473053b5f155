package strategy

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf16"
)

// Checksum computes the signature of a plugin config.
//
// The input string joins id, name, description, baseMultiplier, scoreFactor,
// pickDecayFactor, minWeight, maxWeight and minAppVersion with "|", absent fields
// rendered as "". The hash is h = h*31 + unit over UTF-16 code units in wrapping
// signed 32-bit arithmetic; the result is |h| in lowercase hex without padding.
// Previously signed configs depend on every detail here.
func Checksum(c PluginConfig) string {
	desc := ""
	if c.Description != nil {
		desc = *c.Description
	}
	payload := strings.Join([]string{
		c.ID,
		c.Name,
		desc,
		numberField(c.BaseMultiplier),
		numberField(c.ScoreFactor),
		numberField(c.PickDecayFactor),
		numberField(c.MinWeight),
		numberField(c.MaxWeight),
		c.MinAppVersion,
	}, "|")
	return hashString(payload)
}

// Sign returns a copy of c with Signature set to its checksum.
func Sign(c PluginConfig) PluginConfig {
	c.Signature = Checksum(c)
	return c
}

// Verify reports whether c carries a signature matching its checksum.
func Verify(c PluginConfig) bool {
	return c.Signature != "" && c.Signature == Checksum(c)
}

func hashString(s string) string {
	var h int32
	for _, unit := range utf16.Encode([]rune(s)) {
		h = h*31 + int32(unit)
	}
	abs := int64(h)
	if abs < 0 {
		abs = -abs
	}
	return strconv.FormatInt(abs, 16)
}

func numberField(p *float64) string {
	if p == nil {
		return ""
	}
	return formatNumber(*p)
}

// formatNumber renders v the way ECMAScript Number#toString does: shortest
// round-trip digits, exponent form outside [1e-6, 1e21).
func formatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	}
	abs := math.Abs(v)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(v, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		digits := strings.TrimLeft(exp[1:], "0")
		if digits == "" {
			digits = "0"
		}
		return mant + "e" + sign + digits
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
