package domain

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Business validation constants
const (
	MaxToursPerBooking         = 20
	MaxGuestsPerTour           = 100
	MaxNotesLength             = 1000
	MaxCancellationNotesLength = 1000
)

// Reconciliation actions
const (
	ActionConfirm = "confirm"
	ActionCancel  = "cancel"
)

// AutoCancelNotes примечание, если все туры удалены клиентом, а сотрудник выбрал confirm
const AutoCancelNotes = "all tours removed by client feedback"
