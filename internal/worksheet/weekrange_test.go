package worksheet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWeekRange(t *testing.T) {
	t.Run("中文标签", func(t *testing.T) {
		wr, ok := ParseWeekRange("2-8 二月 2026", "zh")
		require.True(t, ok)
		assert.Equal(t, time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC), wr.Start)
		assert.Equal(t, time.Date(2026, 2, 8, 0, 0, 0, 0, time.UTC), wr.End)
	})

	t.Run("英文标签", func(t *testing.T) {
		wr, ok := ParseWeekRange("2-8 February 2026", "en")
		require.True(t, ok)
		assert.Equal(t, time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC), wr.Start)
	})

	t.Run("跨月的一周", func(t *testing.T) {
		wr, ok := ParseWeekRange("28-4 十二月 2026", "zh")
		require.True(t, ok)
		assert.Equal(t, time.Date(2026, 12, 28, 0, 0, 0, 0, time.UTC), wr.Start)
		assert.Equal(t, time.Date(2027, 1, 4, 0, 0, 0, 0, time.UTC), wr.End)
	})

	t.Run("格式不匹配返回零值", func(t *testing.T) {
		for _, label := range []string{
			"",
			"二月 2026",
			"2-8 二月",
			"2/8 二月 2026",
			"2-8 不存在的月份 2026",
			"2-8 February 2026 extra",
			"x-y 二月 2026",
		} {
			_, ok := ParseWeekRange(label, "zh")
			assert.False(t, ok, label)
		}
	})

	t.Run("语言和月份名必须配套", func(t *testing.T) {
		_, ok := ParseWeekRange("2-8 February 2026", "zh")
		assert.False(t, ok)
	})
}

func TestFormatWeekRange(t *testing.T) {
	start := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 2, 8, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "2-8 二月 2026", FormatWeekRange(start, end, "zh"))
	assert.Equal(t, "2-8 February 2026", FormatWeekRange(start, end, "en"))
}

// 往返性质：Format(Parse(label)) == label
func TestWeekRangeRoundTrip(t *testing.T) {
	labels := map[string][]string{
		"zh": {"2-8 二月 2026", "28-4 十二月 2026", "1-7 一月 2024", "25-31 八月 2025"},
		"en": {"2-8 February 2026", "28-4 December 2026", "9-15 June 2025"},
	}

	for lang, ls := range labels {
		for _, label := range ls {
			wr, ok := ParseWeekRange(label, lang)
			require.True(t, ok, label)
			assert.Equal(t, label, FormatWeekRange(wr.Start, wr.End, lang))
		}
	}
}

func TestWeekStartOf(t *testing.T) {
	// 2026-08-30 是周日，所在周的周一是 08-24
	sunday := time.Date(2026, 8, 30, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), WeekStartOf(sunday))

	monday := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, monday, WeekStartOf(monday))
}

func TestWeekLabelOf(t *testing.T) {
	sunday := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "24-30 八月 2026", WeekLabelOf(sunday, "zh"))
}
