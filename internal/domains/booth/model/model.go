package model

import (
	"errors"
	"fmt"
	"time"

	"fair/shared/model"
)

const (
	TableName  = "booths"
	EntityName = "booth"

	FieldID        = "id"
	FieldName      = "name"
	FieldSector    = "sector"
	FieldCategory  = "category"
	FieldSize      = "size"
	FieldArea      = "area"
	FieldPrice     = "price"
	FieldStatus    = "status"
	FieldBookedBy  = "booked_by"
	FieldBookdate  = "bookdate"
	FieldUpdatedBy = "updated_by"
)

// Cache prefixes shared with the reservation engine, which must drop them
// whenever it moves a booth between statuses.
const (
	CacheKeyGet    = "booth:get"
	CacheKeyGetAll = "booth:gets"
	CacheKeyCount  = "booth:count"
)

type Status string

const (
	StatusAvailable Status = "available"
	StatusReserved  Status = "reserved"
	StatusBooked    Status = "booked"
)

// Statuses lists every booth status in lifecycle order.
var Statuses = []Status{StatusAvailable, StatusReserved, StatusBooked}

var ErrHolderMismatch = errors.New("booked_by and bookdate must be set exactly when the booth is reserved or booked")

// Booth is one rentable stand on the fair floor. Name carries the booth
// number and Category the booth type.
type Booth struct {
	ID        string     `db:"id"`
	Name      string     `db:"name"`
	Sector    string     `db:"sector"`
	Category  string     `db:"category"`
	Size      string     `db:"size"`
	Area      float64    `db:"area"`
	Price     int64      `db:"price"`
	Status    Status     `db:"status"`
	BookedBy  *string    `db:"booked_by"`
	Bookdate  *time.Time `db:"bookdate"`
	UpdatedBy *string    `db:"updated_by"`
	model.Metadata
}

func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusReserved, StatusBooked:
		return true
	default:
		return false
	}
}

// Held reports whether the status implies a holder.
func (s Status) Held() bool {
	return s == StatusReserved || s == StatusBooked
}

// Validate checks the holder invariant: booked_by and bookdate are present
// if and only if the booth is reserved or booked.
func (b Booth) Validate() error {
	if !b.Status.Valid() {
		return fmt.Errorf("unknown booth status %q", b.Status)
	}

	hasHolder := b.BookedBy != nil && b.Bookdate != nil
	hasAnyHolder := b.BookedBy != nil || b.Bookdate != nil

	if b.Status.Held() != hasHolder || (!b.Status.Held() && hasAnyHolder) {
		return ErrHolderMismatch
	}

	return nil
}

func (b Booth) IsAvailable() bool {
	return b.Status == StatusAvailable
}

// Reserve places a hold for user.
func (b *Booth) Reserve(user string, at time.Time) {
	b.Status = StatusReserved
	b.BookedBy = &user
	b.Bookdate = &at
	b.UpdatedBy = &user
	b.Touch(user, at)
}

// Book confirms the hold after payment. The holder and hold date are kept.
func (b *Booth) Book(updatedBy string, at time.Time) {
	b.Status = StatusBooked
	b.UpdatedBy = &updatedBy
	b.Touch(updatedBy, at)
}

// Release returns the booth to the pool and clears the holder.
func (b *Booth) Release(updatedBy string, at time.Time) {
	b.Status = StatusAvailable
	b.BookedBy = nil
	b.Bookdate = nil
	b.UpdatedBy = &updatedBy
	b.Touch(updatedBy, at)
}
