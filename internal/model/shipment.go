package model

import (
	"fmt"
	"strings"
	"time"
)

// ShipmentStatus is the lifecycle state of a shipment.
type ShipmentStatus string

const (
	StatusPending        ShipmentStatus = "PENDING"
	StatusInTransit      ShipmentStatus = "IN_TRANSIT"
	StatusOutForDelivery ShipmentStatus = "OUT_FOR_DELIVERY"
	StatusDelivered      ShipmentStatus = "DELIVERED"
	StatusReturned       ShipmentStatus = "RETURNED"
	StatusLost           ShipmentStatus = "LOST"
	StatusCanceled       ShipmentStatus = "CANCELED"
)

// AllStatuses lists every recognised shipment status.
var AllStatuses = []ShipmentStatus{
	StatusPending,
	StatusInTransit,
	StatusOutForDelivery,
	StatusDelivered,
	StatusReturned,
	StatusLost,
	StatusCanceled,
}

// ParseStatus converts a string into a ShipmentStatus, case-insensitively.
func ParseStatus(s string) (ShipmentStatus, error) {
	candidate := ShipmentStatus(strings.ToUpper(strings.TrimSpace(s)))
	for _, status := range AllStatuses {
		if candidate == status {
			return status, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// Mutable reports whether a shipment in this status still accepts
// product-set changes and status shortcuts at the API level.
// DELIVERED, RETURNED, LOST and CANCELED are treated as settled.
func (s ShipmentStatus) Mutable() bool {
	switch s {
	case StatusPending, StatusInTransit, StatusOutForDelivery:
		return true
	default:
		return false
	}
}

// Shipment tracks the physical delivery of an order, its carrier, its
// lifecycle status and the set of products it contains.
type Shipment struct {
	ID                int64          `json:"id" db:"id"`
	TrackingCode      string         `json:"trackingCode" db:"tracking_code"`
	Carrier           string         `json:"carrier" db:"carrier"`
	Status            ShipmentStatus `json:"status" db:"status"`
	CustomerName      string         `json:"customerName" db:"customer_name"`
	CustomerEmail     string         `json:"customerEmail" db:"customer_email"`
	CustomerPhone     string         `json:"customerPhone,omitempty" db:"customer_phone"`
	Address           string         `json:"address" db:"address"`
	City              string         `json:"city" db:"city"`
	Region            string         `json:"region" db:"region"`
	Notes             string         `json:"notes,omitempty" db:"notes"`
	ShippedAt         time.Time      `json:"shippedAt" db:"shipped_at"`
	EstimatedDelivery *time.Time     `json:"estimatedDelivery,omitempty" db:"estimated_delivery"`
	DeliveredAt       *time.Time     `json:"deliveredAt,omitempty" db:"delivered_at"`
	CreatedAt         time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time      `json:"updatedAt" db:"updated_at"`
	Products          []Product      `json:"products"`
}

// HasProduct reports whether the product is already part of the shipment.
func (s *Shipment) HasProduct(productID int64) bool {
	for _, p := range s.Products {
		if p.ID == productID {
			return true
		}
	}
	return false
}

// ShipmentRequest represents the payload for creating a shipment.
type ShipmentRequest struct {
	Carrier           string     `json:"carrier"`
	Status            string     `json:"status"`
	CustomerName      string     `json:"customerName"`
	CustomerEmail     string     `json:"customerEmail"`
	CustomerPhone     string     `json:"customerPhone"`
	Address           string     `json:"address"`
	City              string     `json:"city"`
	Region            string     `json:"region"`
	Notes             string     `json:"notes"`
	TrackingCode      string     `json:"trackingCode"`
	EstimatedDelivery *time.Time `json:"estimatedDelivery"`
	ProductIDs        []int64    `json:"productIds"`
}

// Validate checks the declared field constraints.
func (r *ShipmentRequest) Validate() error {
	if r.Carrier == "" {
		return NewDomainError(ErrCodeMissingField, "Carrier is required")
	}
	if r.CustomerName == "" {
		return NewDomainError(ErrCodeMissingField, "Customer name is required")
	}
	if r.CustomerEmail == "" {
		return NewDomainError(ErrCodeMissingField, "Customer email is required")
	}
	if r.Address == "" {
		return NewDomainError(ErrCodeMissingField, "Delivery address is required")
	}
	if r.Status != "" {
		if _, err := ParseStatus(r.Status); err != nil {
			return err
		}
	}
	return nil
}

// ShipmentPatch represents a partial update. Only non-nil fields
// overwrite the stored record.
type ShipmentPatch struct {
	Carrier           *string    `json:"carrier"`
	Status            *string    `json:"status"`
	CustomerName      *string    `json:"customerName"`
	CustomerEmail     *string    `json:"customerEmail"`
	CustomerPhone     *string    `json:"customerPhone"`
	Address           *string    `json:"address"`
	City              *string    `json:"city"`
	Region            *string    `json:"region"`
	Notes             *string    `json:"notes"`
	EstimatedDelivery *time.Time `json:"estimatedDelivery"`
}
