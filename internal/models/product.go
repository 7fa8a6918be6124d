package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductImage is a Cloudinary-hosted image. PublicID is kept so the asset
// can be destroyed when the product goes away.
type ProductImage struct {
	URL      string `bson:"url" json:"url"`
	PublicID string `bson:"publicId" json:"publicId"`
}

// Gem describes a single stone set in a product.
type Gem struct {
	Type    string  `bson:"type" json:"type"`
	Carat   float64 `bson:"carat,omitempty" json:"carat,omitempty"`
	Color   string  `bson:"color,omitempty" json:"color,omitempty"`
	Clarity string  `bson:"clarity,omitempty" json:"clarity,omitempty"`
}

// Dimensions in millimetres.
type Dimensions struct {
	Length float64 `bson:"length,omitempty" json:"length,omitempty"`
	Width  float64 `bson:"width,omitempty" json:"width,omitempty"`
	Height float64 `bson:"height,omitempty" json:"height,omitempty"`
}

// Variant is a purchasable configuration of a product (a metal color) with
// its own stock, images and per-size price overrides.
type Variant struct {
	MetalColor string             `bson:"metalColor" json:"metalColor"`
	Prices     map[string]float64 `bson:"prices,omitempty" json:"prices,omitempty"`
	Stock      int                `bson:"stock" json:"stock"`
	Images     []ProductImage     `bson:"images,omitempty" json:"images,omitempty"`
	Sizes      []string           `bson:"sizes,omitempty" json:"sizes,omitempty"`
}

// Product is the single canonical product document. Simple products carry
// price and stockQuantity directly; configurable ones additionally list
// variants, each with its own stock.
type Product struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name            string             `bson:"name" json:"name"`
	SKU             string             `bson:"sku" json:"sku"`
	Description     string             `bson:"description,omitempty" json:"description,omitempty"`
	Price           float64            `bson:"price" json:"price"`
	SalePrice       float64            `bson:"salePrice,omitempty" json:"salePrice,omitempty"`
	CategoryID      primitive.ObjectID `bson:"categoryId" json:"categoryId"`
	Images          []ProductImage     `bson:"images,omitempty" json:"images,omitempty"`
	Weight          float64            `bson:"weight,omitempty" json:"weight,omitempty"`
	Dimensions      *Dimensions        `bson:"dimensions,omitempty" json:"dimensions,omitempty"`
	Materials       StringList         `bson:"materials,omitempty" json:"materials,omitempty"`
	Gems            []Gem              `bson:"gems,omitempty" json:"gems,omitempty"`
	StockQuantity   int                `bson:"stockQuantity" json:"stockQuantity"`
	IsActive        bool               `bson:"isActive" json:"isActive"`
	IsFeatured      bool               `bson:"isFeatured" json:"isFeatured"`
	Tags            StringList         `bson:"tags,omitempty" json:"tags,omitempty"`
	Variants        []Variant          `bson:"variants,omitempty" json:"variants,omitempty"`
	DeliveryOptions []string           `bson:"deliveryOptions,omitempty" json:"deliveryOptions,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}
