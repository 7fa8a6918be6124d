package handlers

import (
	"context"
	"log"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"jewelme/internal/models"
)

type outOfStockError struct {
	ProductID primitive.ObjectID
	Variant   string
	Available int
	Requested int
}

func (e outOfStockError) Error() string {
	return "product out of stock"
}

type productNotFoundError struct {
	ProductID primitive.ObjectID
}

func (e productNotFoundError) Error() string {
	return "product not found"
}

func respondOrderItemError(c *gin.Context, route string, err error) {
	switch e := err.(type) {
	case outOfStockError:
		body := gin.H{
			"error":     "insufficient stock",
			"productId": e.ProductID.Hex(),
			"available": e.Available,
			"requested": e.Requested,
		}
		if e.Variant != "" {
			body["variant"] = e.Variant
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, body)
	case productNotFoundError:
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "product not found",
			"productId": e.ProductID.Hex(),
		})
	default:
		respondWithError(c, http.StatusInternalServerError, route, "db error")
	}
}

// resolveOrderItems loads each requested product, captures its name and unit
// price at purchase time, and rejects unknown products or variants.
func resolveOrderItems(ctx context.Context, db *mongo.Database, reqs []createOrderItemRequest) ([]models.OrderItem, error) {
	items := make([]models.OrderItem, 0, len(reqs))

	for _, req := range reqs {
		productID, err := primitive.ObjectIDFromHex(req.ProductID)
		if err != nil {
			return nil, productNotFoundError{}
		}

		var product models.Product
		err = db.Collection("products").FindOne(ctx, bson.M{
			"_id":      productID,
			"isActive": true,
		}).Decode(&product)
		if err == mongo.ErrNoDocuments {
			return nil, productNotFoundError{ProductID: productID}
		}
		if err != nil {
			return nil, err
		}

		unitPrice := effectiveProductPrice(product.Price, product.SalePrice)
		if req.Variant != "" {
			variant, ok := findVariant(product, req.Variant)
			if !ok {
				return nil, productNotFoundError{ProductID: productID}
			}
			unitPrice = variantUnitPrice(variant, req.Size, unitPrice)
		}
		// The cart sends the price it displayed; keep it as the captured
		// unit price when present, otherwise fall back to the catalog.
		if req.Price > 0 {
			unitPrice = req.Price
		}

		items = append(items, models.OrderItem{
			ProductID: productID,
			Name:      product.Name,
			Variant:   req.Variant,
			Size:      req.Size,
			Price:     unitPrice,
			Quantity:  req.Quantity,
		})
	}

	return items, nil
}

func findVariant(product models.Product, metalColor string) (models.Variant, bool) {
	for _, v := range product.Variants {
		if v.MetalColor == metalColor {
			return v, true
		}
	}
	return models.Variant{}, false
}

// decrementStock reserves stock for every item with a guarded $inc: the
// filter requires enough stock, so a lost race surfaces as MatchedCount 0
// instead of negative stock. It returns the items already decremented so the
// caller can roll back a partial reservation.
func decrementStock(ctx context.Context, db *mongo.Database, items []models.OrderItem) ([]models.OrderItem, error) {
	done := make([]models.OrderItem, 0, len(items))

	for _, item := range items {
		filter, update := stockAdjustment(item, -item.Quantity)

		res, err := db.Collection("products").UpdateOne(ctx, filter, update)
		if err != nil {
			return done, err
		}
		if res.MatchedCount == 0 {
			available := currentStock(ctx, db, item)
			return done, outOfStockError{
				ProductID: item.ProductID,
				Variant:   item.Variant,
				Available: available,
				Requested: item.Quantity,
			}
		}
		done = append(done, item)
	}

	return done, nil
}

// restoreStock puts reserved quantities back. Failures are logged and the
// remaining items still get restored; a partial restore is better than none.
func restoreStock(ctx context.Context, db *mongo.Database, items []models.OrderItem) {
	for _, item := range items {
		filter, update := stockRestore(item, item.Quantity)

		if _, err := db.Collection("products").UpdateOne(ctx, filter, update); err != nil {
			log.Printf("[STOCK] restore failed for product %s: %v", item.ProductID.Hex(), err)
		}
	}
}

// stockAdjustment builds a guarded decrement for either the flat product
// stock or a specific variant's stock.
func stockAdjustment(item models.OrderItem, delta int) (bson.M, bson.M) {
	need := -delta
	if item.Variant != "" {
		filter := bson.M{
			"_id": item.ProductID,
			"variants": bson.M{"$elemMatch": bson.M{
				"metalColor": item.Variant,
				"stock":      bson.M{"$gte": need},
			}},
		}
		update := bson.M{"$inc": bson.M{"variants.$.stock": delta}}
		return filter, update
	}

	filter := bson.M{
		"_id":           item.ProductID,
		"stockQuantity": bson.M{"$gte": need},
	}
	update := bson.M{"$inc": bson.M{"stockQuantity": delta}}
	return filter, update
}

// stockRestore builds an unguarded increment.
func stockRestore(item models.OrderItem, quantity int) (bson.M, bson.M) {
	if item.Variant != "" {
		filter := bson.M{
			"_id":                 item.ProductID,
			"variants.metalColor": item.Variant,
		}
		update := bson.M{"$inc": bson.M{"variants.$.stock": quantity}}
		return filter, update
	}

	filter := bson.M{"_id": item.ProductID}
	update := bson.M{"$inc": bson.M{"stockQuantity": quantity}}
	return filter, update
}

func currentStock(ctx context.Context, db *mongo.Database, item models.OrderItem) int {
	var product models.Product
	if err := db.Collection("products").FindOne(ctx, bson.M{"_id": item.ProductID}).Decode(&product); err != nil {
		return 0
	}
	if item.Variant != "" {
		if v, ok := findVariant(product, item.Variant); ok {
			return v.Stock
		}
		return 0
	}
	return product.StockQuantity
}

func pageCount(total, limit int64) int64 {
	if total == 0 {
		return 0
	}
	return int64(math.Ceil(float64(total) / float64(limit)))
}

// parseDateRange turns startDate/endDate query params (YYYY-MM-DD) into a
// createdAt filter; the end date is inclusive through end of day.
func parseDateRange(startStr, endStr string) (bson.M, error) {
	out := bson.M{}

	if startStr != "" {
		start, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			return nil, errInvalidDate("startDate")
		}
		out["$gte"] = start
	}

	if endStr != "" {
		end, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			return nil, errInvalidDate("endDate")
		}
		out["$lte"] = end.Add(24*time.Hour - time.Nanosecond)
	}

	return out, nil
}

type errInvalidDate string

func (e errInvalidDate) Error() string {
	return string(e) + " must be YYYY-MM-DD"
}
