package util

import (
	"testing"
	"time"
)

func TestParseBoolEnv(t *testing.T) {
	tests := []struct {
		value    string
		def      bool
		expected bool
	}{
		{"", true, true},
		{"", false, false},
		{"true", false, true},
		{"1", false, true},
		{"YES", false, true},
		{"on", false, true},
		{"false", true, false},
		{"0", true, false},
		{"off", true, false},
		{"garbage", true, true},
		{"garbage", false, false},
	}

	for _, tt := range tests {
		t.Setenv("TEST_BOOL_ENV", tt.value)
		if got := ParseBoolEnv("TEST_BOOL_ENV", tt.def); got != tt.expected {
			t.Errorf("ParseBoolEnv(%q, %v) = %v, want %v", tt.value, tt.def, got, tt.expected)
		}
	}
}

func TestParseDurationEnv(t *testing.T) {
	tests := []struct {
		value    string
		def      time.Duration
		expected time.Duration
	}{
		{"", 2 * time.Second, 2 * time.Second},
		{"5s", time.Second, 5 * time.Second},
		{"1m30s", time.Second, 90 * time.Second},
		{"nonsense", 3 * time.Second, 3 * time.Second},
	}

	for _, tt := range tests {
		t.Setenv("TEST_DURATION_ENV", tt.value)
		if got := ParseDurationEnv("TEST_DURATION_ENV", tt.def); got != tt.expected {
			t.Errorf("ParseDurationEnv(%q, %v) = %v, want %v", tt.value, tt.def, got, tt.expected)
		}
	}
}
