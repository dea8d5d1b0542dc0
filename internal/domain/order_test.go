package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatus_CanTransition(t *testing.T) {
	tests := []struct {
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{OrderStatusPending, OrderStatusShipped, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusDelivered, false},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusCancelled, true},
		{OrderStatusShipped, OrderStatusPending, false},
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusShipped, false},
		{OrderStatusCancelled, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
}

func TestOrderStatus_IsTerminal(t *testing.T) {
	assert.False(t, OrderStatusPending.IsTerminal())
	assert.False(t, OrderStatusShipped.IsTerminal())
	assert.True(t, OrderStatusDelivered.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())
}

func TestLoyaltyPoints(t *testing.T) {
	assert.Equal(t, int64(405), LoyaltyPoints(40_550_000))
	assert.Equal(t, int64(0), LoyaltyPoints(99_999))
	assert.Equal(t, int64(1), LoyaltyPoints(100_000))
	assert.Equal(t, int64(0), LoyaltyPoints(0))
	assert.Equal(t, int64(0), LoyaltyPoints(-5))
}

func TestPaymentMethod_Valid(t *testing.T) {
	for _, m := range []PaymentMethod{PaymentCOD, PaymentBank, PaymentMoMo, PaymentCard} {
		assert.True(t, m.Valid(), m)
	}
	assert.False(t, PaymentMethod("bitcoin").Valid())
	assert.False(t, PaymentMethod("").Valid())
}

func TestCoordinates_JSON(t *testing.T) {
	b, err := json.Marshal(Coordinates{Lat: 10.77, Lng: 106.69})
	require.NoError(t, err)
	assert.JSONEq(t, `[10.77, 106.69]`, string(b))

	var c Coordinates
	require.NoError(t, json.Unmarshal([]byte(`[21.02, 105.85]`), &c))
	assert.Equal(t, Coordinates{Lat: 21.02, Lng: 105.85}, c)

	assert.Error(t, json.Unmarshal([]byte(`[1]`), &c))
}

func TestOrder_Clone(t *testing.T) {
	color := "Black"
	coupon := "10% off"
	orig := Order{
		ID:                  "DH1",
		Items:               []CartLine{{ProductID: 1, Quantity: 2, VariantSelection: VariantSelection{Color: &color}}},
		AppliedCoupon:       &coupon,
		DeliveryCoordinates: &Coordinates{Lat: 1, Lng: 2},
		Date:                time.Unix(0, 0),
	}

	c := orig.Clone()
	c.Items[0].Quantity = 9
	*c.Items[0].Color = "White"
	*c.AppliedCoupon = "changed"
	c.DeliveryCoordinates.Lat = 99

	assert.Equal(t, 2, orig.Items[0].Quantity)
	assert.Equal(t, "Black", *orig.Items[0].Color)
	assert.Equal(t, "10% off", *orig.AppliedCoupon)
	assert.Equal(t, 1.0, orig.DeliveryCoordinates.Lat)
}

func TestOrder_JSONLayout(t *testing.T) {
	o := Order{ID: "DH1700000000000", UserID: "u1", Status: OrderStatusPending, ShippingMethod: ShippingExpress, PaymentMethod: PaymentCOD}
	b, err := json.Marshal(o)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	for _, key := range []string{"id", "userId", "items", "subtotal", "discount", "shippingFee", "total", "status", "date", "appliedCoupon", "deliveryAddress", "deliveryCoords", "shippingMethod", "paymentMethod"} {
		assert.Contains(t, raw, key)
	}
	assert.Nil(t, raw["deliveryCoords"])
}
