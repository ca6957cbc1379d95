package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ShipmentStatus
		wantErr bool
	}{
		{name: "exact match", input: "PENDING", want: StatusPending},
		{name: "lowercase", input: "delivered", want: StatusDelivered},
		{name: "mixed case with spaces", input: "  In_Transit ", want: StatusInTransit},
		{name: "out for delivery", input: "out_for_delivery", want: StatusOutForDelivery},
		{name: "unknown", input: "TELEPORTED", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStatus(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidStatus)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestShipmentStatus_Mutable(t *testing.T) {
	mutable := []ShipmentStatus{StatusPending, StatusInTransit, StatusOutForDelivery}
	settled := []ShipmentStatus{StatusDelivered, StatusReturned, StatusLost, StatusCanceled}

	for _, s := range mutable {
		assert.True(t, s.Mutable(), string(s))
	}
	for _, s := range settled {
		assert.False(t, s.Mutable(), string(s))
	}
}

func TestShipmentRequest_Validate(t *testing.T) {
	valid := ShipmentRequest{
		Carrier:       "Chilexpress",
		CustomerName:  "María González",
		CustomerEmail: "maria@email.cl",
		Address:       "Av. Providencia 1234",
	}

	t.Run("valid request", func(t *testing.T) {
		req := valid
		assert.NoError(t, req.Validate())
	})

	t.Run("valid with status", func(t *testing.T) {
		req := valid
		req.Status = "in_transit"
		assert.NoError(t, req.Validate())
	})

	t.Run("invalid status", func(t *testing.T) {
		req := valid
		req.Status = "NOPE"
		assert.ErrorIs(t, req.Validate(), ErrInvalidStatus)
	})

	missing := []struct {
		name   string
		mutate func(*ShipmentRequest)
	}{
		{"carrier", func(r *ShipmentRequest) { r.Carrier = "" }},
		{"customer name", func(r *ShipmentRequest) { r.CustomerName = "" }},
		{"customer email", func(r *ShipmentRequest) { r.CustomerEmail = "" }},
		{"address", func(r *ShipmentRequest) { r.Address = "" }},
	}

	for _, tt := range missing {
		t.Run("missing "+tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			assert.Error(t, req.Validate())
		})
	}
}

func TestShipment_HasProduct(t *testing.T) {
	s := Shipment{Products: []Product{{ID: 1}, {ID: 3}}}

	assert.True(t, s.HasProduct(1))
	assert.True(t, s.HasProduct(3))
	assert.False(t, s.HasProduct(2))

	empty := Shipment{}
	assert.False(t, empty.HasProduct(1))
}
