package matching

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeConfirmation(t *testing.T) {
	tests := map[string]string{
		"CT-0098217(HK)": "0098217",
		"  12 34 ":       "1234",
		"no digits":      "",
		"":               "",
		"１２３":            "",
	}
	for in, want := range tests {
		got := NormalizeConfirmation(in)
		assert.Equal(t, want, got, "input %q", in)
		assert.Equal(t, got, NormalizeConfirmation(got), "not idempotent for %q", in)
	}
}

func TestNormalizeThirdParty(t *testing.T) {
	tests := map[string]string{
		"2025100100001234R1":  "2025100100001234",
		" 2025100100001234 ":  "2025100100001234",
		"2025100100001234R12": "2025100100001234",
		"123R1R2":             "123",
		"ABC R1":              "ABC",
		"R1":                  "",
		"RR":                  "RR",
		"123r1":               "123r1",
		"":                    "",
	}
	for in, want := range tests {
		got := NormalizeThirdParty(in)
		assert.Equal(t, want, got, "input %q", in)
		assert.Equal(t, got, NormalizeThirdParty(got), "not idempotent for %q", in)
	}
}

func TestParseDate(t *testing.T) {
	day := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		raw    string
		layout string
		ok     bool
	}{
		{name: "system layout", raw: "251001", layout: SystemDateLayout, ok: true},
		{name: "iso", raw: "2025-10-01", ok: true},
		{name: "slashes without padding", raw: "2025/10/1", ok: true},
		{name: "with time", raw: "2025-10-01 14:30:00", ok: true},
		{name: "chinese", raw: "2025年10月1日", ok: true},
		{name: "excel serial", raw: "45931", ok: true},
		{name: "small number is not a date", raw: "1203", ok: false},
		{name: "garbage", raw: "soon", ok: false},
		{name: "blank", raw: "  ", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.raw, tt.layout)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, day.Equal(got), "got %s", got)
			}
		})
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "2025-10-01", FormatDate("2025/10/01"))
	assert.Equal(t, "待定", FormatDate("待定"))
	assert.Equal(t, "", FormatDate(""))
}
