// Package api holds the JSON request and response bodies of the HTTP API.
package api

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	RequestId        string            `json:"requestId"`
	Timestamp        time.Time         `json:"timestamp"`
	ValidationErrors []ValidationError `json:"validationErrors"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"systemInfo"`
}

type SeatStatus string

const (
	Available SeatStatus = "available"
	Locked    SeatStatus = "locked"
	Booked    SeatStatus = "booked"
)

type Seat struct {
	Id     int        `json:"id"`
	Row    string     `json:"row"`
	Number int        `json:"number"`
	Status SeatStatus `json:"status"`
}

type SeatRow struct {
	Row   string `json:"row"`
	Seats []Seat `json:"seats"`
}

type Showtime struct {
	Id         int                `json:"id"`
	MovieTitle string             `json:"movieTitle"`
	Theatre    string             `json:"theatre"`
	Screen     string             `json:"screen"`
	Date       openapi_types.Date `json:"date"`
	StartTime  string             `json:"startTime"`
}

type SeatMapResponse struct {
	Showtime Showtime  `json:"showtime"`
	SeatRows []SeatRow `json:"seatRows"`
}

type LockSeatsRequest struct {
	ShowtimeId int   `json:"showtimeId" validate:"required,gt=0"`
	SeatIds    []int `json:"seatIds" validate:"dive,gt=0"`
}

type LockSeatsResponse struct {
	ShowtimeId int       `json:"showtimeId"`
	Seats      []Seat    `json:"seats"`
	LockedAt   time.Time `json:"lockedAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

type ReleaseSeatsRequest struct {
	ShowtimeId int   `json:"showtimeId" validate:"required,gt=0"`
	SeatIds    []int `json:"seatIds" validate:"required,dive,gt=0"`
}

type ReleaseSeatsResponse struct {
	Message  string `json:"message"`
	Released int    `json:"released"`
}

type ConfirmBookingRequest struct {
	ShowtimeId  int              `json:"showtimeId" validate:"required,gt=0"`
	SeatIds     []int            `json:"seatIds" validate:"dive,gt=0"`
	TotalAmount *decimal.Decimal `json:"totalAmount,omitempty" validate:"omitempty,amount"`
}

type Payment struct {
	Amount    decimal.Decimal `json:"amount"`
	Status    string          `json:"status"`
	Method    string          `json:"method"`
	CreatedAt time.Time       `json:"createdAt"`
}

type Booking struct {
	Code        string          `json:"code"`
	Status      string          `json:"status"`
	UserId      int             `json:"userId"`
	Showtime    Showtime        `json:"showtime"`
	Seats       []Seat          `json:"seats"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Payment     *Payment        `json:"payment,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type Metadata struct {
	CurrentPage  int `json:"currentPage"`
	FirstPage    int `json:"firstPage"`
	LastPage     int `json:"lastPage"`
	PageSize     int `json:"pageSize"`
	TotalRecords int `json:"totalRecords"`
}

type BookingsResponse struct {
	Bookings []Booking `json:"bookings"`
	Metadata Metadata  `json:"metadata"`
}

type ListBookingsParams struct {
	Page     *int `validate:"omitempty,min=1,max=10000"`
	PageSize *int `validate:"omitempty,min=1,max=100"`
}
