package orders

import (
	"fmt"

	"github.com/skip2/go-qrcode"

	"github.com/Skotchmaster/food_storefront/internal/models"
)

const receiptSize = 256

func receiptPayload(o models.Order) string {
	return fmt.Sprintf("order=%s;restaurant=%s;status=%s;total=%s",
		o.ID, o.RestaurantName, o.Status, o.Total.StringFixed(2))
}

// ReceiptPNG renders the order summary as a QR code.
func ReceiptPNG(o models.Order) ([]byte, error) {
	return qrcode.Encode(receiptPayload(o), qrcode.Medium, receiptSize)
}
