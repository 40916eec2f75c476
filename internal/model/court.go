package model

import "time"

// Court represents a physical court that students can book.  Each
// court belongs to a sport and is managed by a staff member.  The
// hourly rate is the price reference for new bookings; changing it
// affects future reservations only.
//
// Fields:
//  ID              – primary key identifier.
//  SportID         – sport played on this court.
//  StaffID         – staff member managing the court.
//  Name            – display name of the court.
//  Location        – where the court is situated.
//  Capacity        – maximum number of players.
//  HourlyRateCents – booking price per hour, in cents.
//  Status          – availability status (Active, Maintenance, Inactive).
//  CreatedAt       – timestamp of creation.
//  UpdatedAt       – timestamp of last update.
type Court struct {
    ID              uint64    `json:"id"`                // courts.id
    SportID         uint64    `json:"sport_id"`          // courts.sport_id
    StaffID         uint64    `json:"staff_id"`          // courts.staff_id
    Name            string    `json:"name"`              // courts.name
    Location        string    `json:"location"`          // courts.location
    Capacity        uint32    `json:"capacity"`          // courts.capacity
    HourlyRateCents uint32    `json:"hourly_rate_cents"` // courts.hourly_rate_cents
    Status          string    `json:"status"`            // courts.status
    CreatedAt       time.Time `json:"created_at"`        // courts.created_at
    UpdatedAt       time.Time `json:"updated_at"`        // courts.updated_at
}

// Sport is a reference row naming a sport that courts are assigned to.
type Sport struct {
    ID          uint64    `json:"id"`                    // sports.id
    Name        string    `json:"name"`                  // sports.name
    Description *string   `json:"description,omitempty"` // sports.description (nullable)
    CreatedAt   time.Time `json:"created_at"`            // sports.created_at
}
