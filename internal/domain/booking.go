package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingCreated    BookingStatus = "CREATED"
	BookingPending    BookingStatus = "PENDING"
	BookingConfirmed  BookingStatus = "CONFIRMED"
	BookingAssigned   BookingStatus = "ASSIGNED"
	BookingAccepted   BookingStatus = "ACCEPTED"
	BookingOnTheWay   BookingStatus = "ON_THE_WAY"
	BookingInProgress BookingStatus = "IN_PROGRESS"
	BookingCompleted  BookingStatus = "COMPLETED"
	BookingCancelled  BookingStatus = "CANCELLED"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingCreated, BookingPending, BookingConfirmed, BookingAssigned, BookingAccepted,
		BookingOnTheWay, BookingInProgress, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

type BookingRequest struct {
	ServiceID      string  `json:"serviceId"`
	PackageID      *string `json:"packageId,omitempty"`
	ServiceDate    string  `json:"serviceDate"`
	ServiceTime    string  `json:"serviceTime"`
	ServiceAddress string  `json:"serviceAddress"`
	City           string  `json:"city"`
	Pincode        string  `json:"pincode"`
	CustomerNote   string  `json:"customerNote"`
	CouponCode     *string `json:"couponCode"`
}

type Booking struct {
	ID             string          `json:"id"`
	BookingNumber  string          `json:"bookingNumber"`
	CustomerID     string          `json:"customerId,omitempty"`
	ServiceID      string          `json:"serviceId"`
	ServiceName    string          `json:"serviceName,omitempty"`
	PackageID      string          `json:"packageId,omitempty"`
	PackageName    string          `json:"packageName,omitempty"`
	EmployeeID     string          `json:"employeeId,omitempty"`
	ServiceDate    string          `json:"serviceDate"`
	ServiceTime    string          `json:"serviceTime"`
	ServiceAddress string          `json:"serviceAddress"`
	City           string          `json:"city,omitempty"`
	Pincode        string          `json:"pincode,omitempty"`
	CustomerNote   string          `json:"customerNote,omitempty"`
	OriginalPrice  decimal.Decimal `json:"originalPrice"`
	Discount       decimal.Decimal `json:"discount"`
	FinalPrice     decimal.Decimal `json:"finalPrice"`
	CouponCode     string          `json:"couponCode,omitempty"`
	Status         BookingStatus   `json:"status"`
	CreatedAt      *time.Time      `json:"createdAt,omitempty"`
}

type BookingFilter struct {
	Status BookingStatus
	Page   int
	Size   int
}
