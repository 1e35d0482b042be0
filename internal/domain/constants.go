package domain

// Operating window: hourly slots from 08:00 up to (not including) 20:00,
// the last slot is 19:00-20:00
const (
	SlotStartHour = 8
	SlotEndHour   = 20
	SlotsPerDay   = SlotEndHour - SlotStartHour
)

// Business validation constants
const (
	MaxRoomNameLength  = 200
	MaxRulesLength     = 2000
	MaxEquipmentItems  = 50
	MaxEquipmentLength = 100
)

// Reminder defaults
const (
	DefaultReminderLeadMinutes = 15
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// TerminalStatuses список терминальных статусов бронирования
// Из них нет переходов: cancelled и expired окончательны
var TerminalStatuses = []ReservationStatus{
	StatusCancelled,
	StatusExpired,
}
