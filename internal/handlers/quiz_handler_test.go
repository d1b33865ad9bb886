package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalSeverityPHQ9(t *testing.T) {
	cases := []struct {
		score    int
		expected string
	}{
		{0, "minimal"},
		{4, "minimal"},
		{5, "mild"},
		{9, "mild"},
		{10, "moderate"},
		{14, "moderate"},
		{15, "moderately severe"},
		{19, "moderately severe"},
		{20, "severe"},
		{27, "severe"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expected, canonicalSeverity("PHQ9", tc.score), "PHQ9 score %d", tc.score)
	}
}

func TestCanonicalSeverityGAD7(t *testing.T) {
	cases := []struct {
		score    int
		expected string
	}{
		{0, "minimal"},
		{4, "minimal"},
		{5, "mild"},
		{9, "mild"},
		{10, "moderate"},
		{14, "moderate"},
		{15, "severe"},
		{21, "severe"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expected, canonicalSeverity("GAD7", tc.score), "GAD7 score %d", tc.score)
	}
}

func TestNormalizeTimeOfDay(t *testing.T) {
	assert.Equal(t, "09:30", normalizeTimeOfDay("9:30"))
	assert.Equal(t, "09:30", normalizeTimeOfDay("09:30"))
	assert.Equal(t, "23:59", normalizeTimeOfDay("23:59"))
}
