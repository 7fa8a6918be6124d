package handlers

import (
	"fmt"
	"math"

	"jewelme/internal/models"
)

// amountTolerance absorbs float noise when comparing client-submitted money
// values against each other.
const amountTolerance = 0.01

func isProductOnSale(price, salePrice float64) bool {
	return salePrice > 0 && salePrice < price
}

func effectiveProductPrice(price, salePrice float64) float64 {
	if isProductOnSale(price, salePrice) {
		return salePrice
	}
	return price
}

// variantUnitPrice picks the unit price for a variant line. A per-size
// override wins when the requested size has one, then the variant's "default"
// entry, then the product-level price the caller passes in.
func variantUnitPrice(variant models.Variant, size string, fallback float64) float64 {
	if size != "" {
		if p, ok := variant.Prices[size]; ok && p > 0 {
			return p
		}
	}
	if p, ok := variant.Prices["default"]; ok && p > 0 {
		return p
	}
	return fallback
}

// amountMinorUnits converts a rupee amount to paise for the gateway.
func amountMinorUnits(total float64) int64 {
	return int64(math.Round(total * 100))
}

func amountsEqual(a, b float64) bool {
	return math.Abs(a-b) < amountTolerance
}

// validateOrderAmounts checks the arithmetic of a checkout request: the
// subtotal must match the item lines and the total must be
// subtotal + tax + shipping.
func validateOrderAmounts(items []models.OrderItem, subtotal, tax, shipping, total float64) error {
	lineSum := 0.0
	for _, item := range items {
		if item.Quantity <= 0 {
			return fmt.Errorf("quantity must be greater than zero")
		}
		if item.Price < 0 {
			return fmt.Errorf("price cannot be negative")
		}
		lineSum += item.Price * float64(item.Quantity)
	}

	if !amountsEqual(lineSum, subtotal) {
		return fmt.Errorf("subtotal %.2f does not match item lines %.2f", subtotal, lineSum)
	}
	if tax < 0 || shipping < 0 {
		return fmt.Errorf("tax and shipping cannot be negative")
	}
	if !amountsEqual(subtotal+tax+shipping, total) {
		return fmt.Errorf("total %.2f does not match subtotal+tax+shipping %.2f", total, subtotal+tax+shipping)
	}
	if total <= 0 {
		return fmt.Errorf("total must be greater than zero")
	}
	return nil
}
