package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusAccepted   BookingStatus = "accepted"
	StatusInProgress BookingStatus = "in_progress"
	StatusCompleted  BookingStatus = "completed"
	StatusCancelled  BookingStatus = "cancelled"
)

// Booking represents a service booking in the system
type Booking struct {
	ID           int64
	CustomerID   int64
	TechnicianID *int64 // nil пока бронирование не принято техником
	ServiceID    int64
	AddressID    int64
	Status       BookingStatus

	Description    string
	Quantity       int
	PreferredStart time.Time
	PreferredEnd   time.Time
	BookingDate    time.Time
	TotalAmount    float64

	// Denormalized service data for history
	ServiceName            string
	FixedRate              float64
	EstimatedDurationHours int
	ReferenceImage         *string

	CancellationReason *string
	CancelledAt        *time.Time
	WorkCompletionTime *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTerminal returns true if the booking reached a final state
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCompleted || b.Status == StatusCancelled
}

// IsAssignedTo returns true if the booking is assigned to the given technician
func (b *Booking) IsAssignedTo(technicianID int64) bool {
	return b.TechnicianID != nil && *b.TechnicianID == technicianID
}

// CanBeAccepted returns true if the booking is still open for technicians
func (b *Booking) CanBeAccepted() bool {
	return b.Status == StatusPending && b.TechnicianID == nil
}
