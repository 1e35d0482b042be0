package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intervalOf(t *testing.T, s Selection) (int, int) {
	t.Helper()
	require.False(t, s.IsEmpty())
	return *s.StartIdx, *s.EndIdx
}

func TestSelectionClick_FirstClickSelectsOneHour(t *testing.T) {
	s := EmptySelection().Click(3, nil)

	start, end := intervalOf(t, s)
	assert.Equal(t, 3, start)
	assert.Equal(t, 4, end)
}

func TestSelectionClick_OccupiedSlotIsNoOp(t *testing.T) {
	occupied := map[int]bool{3: true}

	s := EmptySelection().Click(3, occupied)
	assert.True(t, s.IsEmpty())

	s = EmptySelection().Click(1, occupied).Click(3, occupied)
	start, end := intervalOf(t, s)
	assert.Equal(t, 1, start)
	assert.Equal(t, 2, end)
}

func TestSelectionClick_EarlierClickMovesStart(t *testing.T) {
	s := EmptySelection().Click(5, nil).Click(2, nil)

	start, end := intervalOf(t, s)
	assert.Equal(t, 2, start)
	assert.Equal(t, 6, end, "end keeps the original one-hour bound")
}

func TestSelectionClick_LaterClickExtendsEnd(t *testing.T) {
	s := EmptySelection().Click(2, nil).Click(5, nil)

	start, end := intervalOf(t, s)
	assert.Equal(t, 2, start)
	assert.Equal(t, 6, end)
}

func TestSelectionClick_SameSlotAgainKeepsOneHour(t *testing.T) {
	s := EmptySelection().Click(4, nil).Click(4, nil)

	start, end := intervalOf(t, s)
	assert.Equal(t, 4, start)
	assert.Equal(t, 5, end)
}

// Порядок кликов существенен: те же клики в другом порядке дают другой диапазон
func TestSelectionClick_OrderMatters(t *testing.T) {
	ascending := EmptySelection().Click(2, nil).Click(5, nil)
	descending := EmptySelection().Click(5, nil).Click(2, nil)

	aStart, aEnd := intervalOf(t, ascending)
	dStart, dEnd := intervalOf(t, descending)

	assert.Equal(t, 2, aStart)
	assert.Equal(t, 6, aEnd)
	assert.Equal(t, 2, dStart)
	assert.Equal(t, 6, dEnd)

	// а вот 2 -> 5 -> 3 и 5 -> 2 -> 3 расходятся
	third := ascending.Click(3, nil)
	tStart, tEnd := intervalOf(t, third)
	assert.Equal(t, 2, tStart)
	assert.Equal(t, 4, tEnd, "click inside the range truncates the end")
}

func TestSelectionClick_ShrinkThenExtend(t *testing.T) {
	s := EmptySelection().Click(1, nil).Click(8, nil).Click(4, nil)

	start, end := intervalOf(t, s)
	assert.Equal(t, 1, start)
	assert.Equal(t, 5, end)
}

func TestSelectionContains(t *testing.T) {
	s := EmptySelection().Click(2, nil).Click(4, nil) // [2, 5)

	assert.False(t, s.Contains(1))
	assert.True(t, s.Contains(2))
	assert.True(t, s.Contains(4))
	assert.False(t, s.Contains(5), "range is half-open")

	assert.False(t, EmptySelection().Contains(0))
}

func TestSelectionInvalidate(t *testing.T) {
	s := EmptySelection().Click(2, nil).Click(4, nil) // [2, 5)

	kept := s.Invalidate(map[int]bool{0: true, 7: true})
	assert.False(t, kept.IsEmpty(), "occupancy outside the range keeps the selection")

	cleared := s.Invalidate(map[int]bool{3: true})
	assert.True(t, cleared.IsEmpty(), "occupancy inside the range clears the selection")

	empty := EmptySelection().Invalidate(map[int]bool{0: true})
	assert.True(t, empty.IsEmpty())
}

func TestSelectionInterval(t *testing.T) {
	loc := time.UTC
	grid := BuildDayGrid(time.Date(2025, 10, 15, 0, 0, 0, 0, loc), loc)

	s := EmptySelection().Click(2, nil).Click(4, nil) // [2, 5) -> 10:00-13:00

	start, end, ok := s.Interval(grid)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 10, 15, 10, 0, 0, 0, loc), start.Start)
	assert.Equal(t, time.Date(2025, 10, 15, 13, 0, 0, 0, loc), end.End)

	_, _, ok = EmptySelection().Interval(grid)
	assert.False(t, ok)

	outOfRange := EmptySelection().Click(len(grid)-1, nil).Click(len(grid)+2, nil)
	_, _, ok = outOfRange.Interval(grid)
	assert.False(t, ok)
}
