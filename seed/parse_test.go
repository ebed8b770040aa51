package seed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBool(t *testing.T) {
	assert.True(t, ParseBool("TRUE", false))
	assert.True(t, ParseBool("1", false))
	assert.True(t, ParseBool(" y ", false))
	assert.False(t, ParseBool("FALSE", true))
	assert.False(t, ParseBool("0", true))
	assert.True(t, ParseBool("", true))
	assert.False(t, ParseBool("", false))
}

func TestParseInt(t *testing.T) {
	assert.Equal(t, 1234, ParseInt("1,234", 0))
	assert.Equal(t, -5, ParseInt(" -5 ", 0))
	assert.Equal(t, 9, ParseInt("", 9))
	assert.Equal(t, 9, ParseInt("abc", 9))
}

func TestParseDate_Layouts(t *testing.T) {
	want := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	for _, s := range []string{
		"2025-03-14",
		"2025/03/14",
		"2025.03.14",
		"2025년 03월 14일",
	} {
		got := ParseDate(s)
		require.NotNil(t, got, s)
		assert.Equal(t, want, *got, s)
	}
}

func TestParseDate_ExcelSerial(t *testing.T) {
	// 45730 days after 1899-12-30 is 2025-03-14.
	got := ParseDate("45730")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), *got)
}

func TestParseDate_SmallNumbersAreNotDates(t *testing.T) {
	assert.Nil(t, ParseDate("30"))
	assert.Nil(t, ParseDate("29999"))
}

func TestParseDate_Garbage(t *testing.T) {
	assert.Nil(t, ParseDate(""))
	assert.Nil(t, ParseDate("내일"))
	assert.Nil(t, ParseDate("2025-13-40"))
}
