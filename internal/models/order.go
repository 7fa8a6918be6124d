package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment status values for Order.PaymentStatus.
const (
	PaymentStatusPending    = "pending"
	PaymentStatusProcessing = "processing"
	PaymentStatusCompleted  = "completed"
	PaymentStatusFailed     = "failed"
	PaymentStatusRefunded   = "refunded"
)

// Order status values for Order.OrderStatus.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// OrderItem is a single product entry within an order. Price is the unit
// price captured at purchase time; it never changes after the order is placed.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Name      string             `bson:"name" json:"name"`
	Variant   string             `bson:"variant,omitempty" json:"variant,omitempty"`
	Size      string             `bson:"size,omitempty" json:"size,omitempty"`
	Price     float64            `bson:"price" json:"price"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

// Address is a shipping or billing address snapshot stored on the order.
type Address struct {
	FullName   string `bson:"fullName" json:"fullName"`
	Line1      string `bson:"line1" json:"line1"`
	Line2      string `bson:"line2,omitempty" json:"line2,omitempty"`
	City       string `bson:"city" json:"city"`
	State      string `bson:"state" json:"state"`
	PostalCode string `bson:"postalCode" json:"postalCode"`
	Country    string `bson:"country" json:"country"`
	Phone      string `bson:"phone,omitempty" json:"phone,omitempty"`
}

// Order is the persisted order document. OrderNumber and Invoice are both
// unique; Invoice comes from an atomic counter so concurrent checkouts never
// collide.
type Order struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderNumber       string             `bson:"orderNumber" json:"orderNumber"`
	Invoice           int64              `bson:"invoice" json:"invoice"`
	UserID            primitive.ObjectID `bson:"userId" json:"userId"`
	Items             []OrderItem        `bson:"items" json:"items"`
	Subtotal          float64            `bson:"subtotal" json:"subtotal"`
	Tax               float64            `bson:"tax" json:"tax"`
	Shipping          float64            `bson:"shipping,omitempty" json:"shipping,omitempty"`
	Total             float64            `bson:"total" json:"total"`
	ShippingAddress   Address            `bson:"shippingAddress" json:"shippingAddress"`
	BillingAddress    *Address           `bson:"billingAddress,omitempty" json:"billingAddress,omitempty"`
	PaymentMethod     string             `bson:"paymentMethod" json:"paymentMethod"`
	PaymentStatus     string             `bson:"paymentStatus" json:"paymentStatus"`
	OrderStatus       string             `bson:"orderStatus" json:"orderStatus"`
	TrackingNumber    string             `bson:"trackingNumber,omitempty" json:"trackingNumber,omitempty"`
	Notes             string             `bson:"notes,omitempty" json:"notes,omitempty"`
	RazorpayOrderID   string             `bson:"razorpayOrderId,omitempty" json:"razorpayOrderId,omitempty"`
	RazorpayPaymentID string             `bson:"razorpayPaymentId,omitempty" json:"razorpayPaymentId,omitempty"`
	RazorpaySignature string             `bson:"razorpaySignature,omitempty" json:"razorpaySignature,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}
