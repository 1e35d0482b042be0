package domain

// Selection is a user's in-progress contiguous slot-range selection:
// a half-open range [StartIdx, EndIdx) over slot indices, or empty (both nil).
// Every transition returns a new snapshot; the zero value is the empty selection.
type Selection struct {
	StartIdx *int
	EndIdx   *int
}

// EmptySelection возвращает пустую сетку выбора (оба конца nil)
func EmptySelection() Selection {
	return Selection{}
}

// IsEmpty reports whether no range is selected
func (s Selection) IsEmpty() bool {
	return s.StartIdx == nil || s.EndIdx == nil
}

// Contains reports whether the slot index lies inside [StartIdx, EndIdx)
func (s Selection) Contains(idx int) bool {
	if s.IsEmpty() {
		return false
	}
	return idx >= *s.StartIdx && idx < *s.EndIdx
}

// Click применяет клик по слоту idx и возвращает новый снимок выбора.
// Правила перехода:
//   - клик по занятому слоту ничего не меняет;
//   - выбора нет: выбирается ровно один час [idx, idx+1);
//   - idx раньше начала: начало сдвигается на idx, конец не меняется;
//   - иначе: конец устанавливается в idx+1.
//
// По построению диапазон всегда полуоткрытый с end > start.
func (s Selection) Click(idx int, occupied map[int]bool) Selection {
	if occupied[idx] {
		return s
	}

	if s.StartIdx == nil {
		start, end := idx, idx+1
		return Selection{StartIdx: &start, EndIdx: &end}
	}

	if idx < *s.StartIdx {
		start := idx
		return Selection{StartIdx: &start, EndIdx: s.EndIdx}
	}

	end := idx + 1
	return Selection{StartIdx: s.StartIdx, EndIdx: &end}
}

// Invalidate сбрасывает выбор, если хотя бы один слот диапазона стал занят.
// Применяется при каждом пересчёте занятости (смена даты/комнаты или
// внешнее уведомление об изменении бронирований).
func (s Selection) Invalidate(occupied map[int]bool) Selection {
	if s.IsEmpty() {
		return s
	}
	for i := *s.StartIdx; i < *s.EndIdx; i++ {
		if occupied[i] {
			return EmptySelection()
		}
	}
	return s
}

// Interval возвращает временной интервал выбранного диапазона по сетке.
// ok=false, если выбор пуст или выходит за границы сетки.
func (s Selection) Interval(grid []Slot) (start, end Slot, ok bool) {
	if s.IsEmpty() {
		return Slot{}, Slot{}, false
	}
	if *s.StartIdx < 0 || *s.EndIdx > len(grid) || *s.StartIdx >= *s.EndIdx {
		return Slot{}, Slot{}, false
	}
	return grid[*s.StartIdx], grid[*s.EndIdx-1], true
}
