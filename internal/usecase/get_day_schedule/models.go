package get_day_schedule

import "time"

// Request модель запроса расписания комнаты на день
type Request struct {
	RoomID int64     // ID комнаты
	Date   time.Time // Календарная дата (время игнорируется)
}

// Response модель ответа: сетка слотов с занятостью
type Response struct {
	RoomID   int64     // ID комнаты
	RoomName string    // Название комнаты
	Date     time.Time // Дата, на которую строилась сетка
	Slots    []Slot    // Сетка слотов операционного окна
}

// Slot слот сетки с признаком занятости
type Slot struct {
	Index    int       // Позиция в сетке, 0-based
	Label    string    // "08:00"
	StartAt  time.Time // Начало слота
	EndAt    time.Time // Конец слота (исключительно)
	Occupied bool      // Занят хотя бы одним подтверждённым бронированием
}

// Occupancy возвращает занятость в виде отображения индекс -> занят.
// Формат, который использует Selection для инвалидации.
func (r *Response) Occupancy() map[int]bool {
	occ := make(map[int]bool, len(r.Slots))
	for _, s := range r.Slots {
		if s.Occupied {
			occ[s.Index] = true
		}
	}
	return occ
}
