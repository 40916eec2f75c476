package model

import "time"

// SlotStatus enumerates the availability states of a slot.  Booked is
// held by exactly one active booking; Blocked is an administrative
// state (maintenance) independent of bookings.
type SlotStatus string

const (
    SlotAvailable SlotStatus = "Available"
    SlotBooked    SlotStatus = "Booked"
    SlotBlocked   SlotStatus = "Blocked"
)

// Slot represents one bookable date/time interval on a court.  Slots
// are created by administrators; reservation flips Available to
// Booked and cancellation releases Booked back to Available.
//
// Fields:
//  ID        – primary key identifier.
//  CourtID   – court this slot belongs to.
//  SlotDate  – calendar date of the interval ("2006-01-02").
//  StartTime – start of the interval ("15:04:05").
//  EndTime   – end of the interval ("15:04:05").
//  Status    – availability status (Available, Booked, Blocked).
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last update.
type Slot struct {
    ID        uint64     `json:"id"`         // slots.id
    CourtID   uint64     `json:"court_id"`   // slots.court_id
    SlotDate  string     `json:"slot_date"`  // slots.slot_date (DATE, "YYYY-MM-DD")
    StartTime string     `json:"start_time"` // slots.start_time (TIME, "HH:MM:SS")
    EndTime   string     `json:"end_time"`   // slots.end_time (TIME, "HH:MM:SS")
    Status    SlotStatus `json:"status"`     // slots.status
    CreatedAt time.Time  `json:"created_at"` // slots.created_at
    UpdatedAt time.Time  `json:"updated_at"` // slots.updated_at
}
