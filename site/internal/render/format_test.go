package render

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDate(t *testing.T) {
	shanghai, err := time.LoadLocation("Asia/Shanghai")
	require.NoError(t, err)

	// 2025-01-15 06:00 UTC is 14:00 in Shanghai, a Wednesday.
	ts := time.Date(2025, 1, 15, 6, 0, 0, 0, time.UTC)

	assert.Equal(t, "2025年1月15日星期三", FormatDate(ts, shanghai))
	assert.Equal(t, "2025年1月15日", FormatDay(ts, shanghai))
	assert.Equal(t, "2025/1/15", FormatDateShort(ts, shanghai))
	assert.Equal(t, "2025年1月15日星期三 14:00", FormatDateTime(ts, shanghai))
	assert.Equal(t, "2025/1/15 14:00", FormatDateShortTime(ts, shanghai))

	// Late UTC evening rolls over to the next local day.
	late := time.Date(2025, 2, 6, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "2025/2/7", FormatDateShort(late, shanghai))
	assert.Equal(t, "2025/2/6", FormatDateShort(late, nil))
	assert.Equal(t, "2025年2月6日星期四", FormatDate(late, time.UTC))
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		length int
		want   string
	}{
		{"short", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"long", "hello world", 5, "hello..."},
		{"runes", "北辰青年发展中心", 4, "北辰青年..."},
		{"empty", "", 3, ""},
		{"negative", "abc", -1, "..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.text, tt.length))
		})
	}
}

func TestRichText(t *testing.T) {
	html, err := RichText("")
	require.NoError(t, err)
	assert.Empty(t, html)

	html, err = RichText("## 我们的使命\n\n- **探索成长**")
	require.NoError(t, err)
	assert.Contains(t, string(html), "<h2>我们的使命</h2>")
	assert.Contains(t, string(html), "<strong>探索成长</strong>")

	raw := `<h2 class="text-4xl">我们的影响力</h2>`
	html, err = RichText(raw)
	require.NoError(t, err)
	assert.Contains(t, string(html), raw)
}
