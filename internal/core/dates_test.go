package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	for _, in := range []string{
		"2024-03-05",
		"2024-03-05T10:11:12Z",
		"2024-03-05T10:11:12.123456+02:00",
		"2024-03-05T10:11:12",
		"2024-03-05 10:11:12",
		"2024-03-05T10:11:12+0000",
		"2024-03-05T10:11:12.5-0500",
	} {
		_, ok := ParseDate(in)
		assert.True(t, ok, in)
	}
	_, ok := ParseDate("yesterday")
	assert.False(t, ok)
	_, ok = ParseDate("")
	assert.False(t, ok)
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "Mar 5, 2024", FormatDate("2024-03-05"))
	assert.Equal(t, "Dec 31, 2023", FormatDate("2023-12-31T23:00:00Z"))
	assert.Equal(t, "Jan 15, 2024", FormatDate("2024-01-15T10:00:00+0000"))
	assert.Equal(t, "garbage", FormatDate("garbage"))
}

func TestSortByPostedDescIsStable(t *testing.T) {
	txs := []Transaction{
		{ID: "old", PostedDate: "2024-01-01"},
		{ID: "tie-1", PostedDate: "2024-02-01"},
		{ID: "bad", PostedDate: "not a date"},
		{ID: "new", PostedDate: "2024-03-01T08:00:00Z"},
		{ID: "tie-2", PostedDate: "2024-02-01"},
		{ID: "tie-3", PostedDate: "2024-02-01T00:00:00Z"},
	}

	got := SortByPostedDesc(txs)

	ids := make([]ID, len(got))
	for i, tx := range got {
		ids[i] = tx.ID
	}
	assert.Equal(t, []ID{"new", "tie-1", "tie-2", "tie-3", "old", "bad"}, ids)
	assert.Equal(t, ID("old"), txs[0].ID, "input must not be reordered")
}

func TestSortByPostedDescEmpty(t *testing.T) {
	assert.Empty(t, SortByPostedDesc(nil))
}
