package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"jewelme/internal/models"
	"jewelme/internal/uploads"
)

/* =======================
   REQUEST DTOs
======================= */

type ProductCreateRequest struct {
	Name            string                `json:"name" binding:"required"`
	SKU             string                `json:"sku" binding:"required"`
	Description     string                `json:"description"`
	Price           float64               `json:"price" binding:"required"`
	SalePrice       float64               `json:"salePrice"`
	CategoryID      string                `json:"categoryId" binding:"required"`
	Images          []models.ProductImage `json:"images"`
	Weight          float64               `json:"weight"`
	Dimensions      json.RawMessage       `json:"dimensions"`
	Materials       []string              `json:"materials"`
	Gems            json.RawMessage       `json:"gems"`
	StockQuantity   int                   `json:"stockQuantity"`
	IsActive        *bool                 `json:"isActive"`
	IsFeatured      *bool                 `json:"isFeatured"`
	Tags            json.RawMessage       `json:"tags"`
	Variants        json.RawMessage       `json:"variants"`
	DeliveryOptions []string              `json:"deliveryOptions"`
}

type ProductUpdateRequest struct {
	Name            *string                `json:"name"`
	SKU             *string                `json:"sku"`
	Description     *string                `json:"description"`
	Price           *float64               `json:"price"`
	SalePrice       *float64               `json:"salePrice"`
	CategoryID      *string                `json:"categoryId"`
	Images          *[]models.ProductImage `json:"images"`
	Weight          *float64               `json:"weight"`
	Dimensions      json.RawMessage        `json:"dimensions"`
	Materials       *[]string              `json:"materials"`
	Gems            json.RawMessage        `json:"gems"`
	StockQuantity   *int                   `json:"stockQuantity"`
	IsActive        *bool                  `json:"isActive"`
	IsFeatured      *bool                  `json:"isFeatured"`
	Tags            json.RawMessage        `json:"tags"`
	Variants        json.RawMessage        `json:"variants"`
	DeliveryOptions *[]string              `json:"deliveryOptions"`
}

type StockPatchRequest struct {
	StockQuantity *int `json:"stockQuantity"`
	Adjustment    *int `json:"adjustment"`
}

type BulkDeleteRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

func categoryExists(ctx context.Context, db *mongo.Database, id primitive.ObjectID) (bool, error) {
	count, err := db.Collection("categories").CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func productExistsByID(ctx context.Context, db *mongo.Database, id primitive.ObjectID) bool {
	err := db.Collection("products").
		FindOne(ctx, bson.M{"_id": id}, options.FindOne().SetProjection(bson.M{"_id": 1})).
		Err()
	return err == nil
}

/* =======================
   CREATE
======================= */

func CreateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/products"
		defer handlePanic(c, route)

		var req ProductCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		name := strings.TrimSpace(req.Name)
		sku := strings.TrimSpace(req.SKU)
		if name == "" || sku == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name and sku are required"})
			return
		}
		if req.Price <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price"})
			return
		}
		if req.SalePrice < 0 || (req.SalePrice > 0 && req.SalePrice >= req.Price) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "salePrice must be less than price"})
			return
		}
		if req.StockQuantity < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "stockQuantity must be zero or greater"})
			return
		}

		categoryID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.CategoryID))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid categoryId"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		exists, err := categoryExists(ctx, db, categoryID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if !exists {
			c.JSON(http.StatusBadRequest, gin.H{"error": "category not found: " + categoryID.Hex()})
			return
		}

		count, err := db.Collection("products").CountDocuments(ctx, bson.M{"sku": sku})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if count > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "sku already exists"})
			return
		}

		var dimensions *models.Dimensions
		if err := decodeFlexible(req.Dimensions, &dimensions); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dimensions"})
			return
		}
		var gems []models.Gem
		if err := decodeFlexible(req.Gems, &gems); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid gems"})
			return
		}
		var tags []string
		if err := decodeFlexible(req.Tags, &tags); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tags"})
			return
		}
		var variants []models.Variant
		if err := decodeFlexible(req.Variants, &variants); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid variants"})
			return
		}

		isActive := true
		if req.IsActive != nil {
			isActive = *req.IsActive
		}
		isFeatured := false
		if req.IsFeatured != nil {
			isFeatured = *req.IsFeatured
		}

		now := time.Now()
		product := models.Product{
			Name:            name,
			SKU:             sku,
			Description:     strings.TrimSpace(req.Description),
			Price:           req.Price,
			SalePrice:       req.SalePrice,
			CategoryID:      categoryID,
			Images:          req.Images,
			Weight:          req.Weight,
			Dimensions:      dimensions,
			Materials:       models.StringList(req.Materials),
			Gems:            gems,
			StockQuantity:   req.StockQuantity,
			IsActive:        isActive,
			IsFeatured:      isFeatured,
			Tags:            models.StringList(tags),
			Variants:        variants,
			DeliveryOptions: req.DeliveryOptions,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		res, err := db.Collection("products").InsertOne(ctx, product)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "sku already exists"})
				return
			}
			log.Println("CreateProduct insert error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		product.ID = res.InsertedID.(primitive.ObjectID)
		c.JSON(http.StatusCreated, product)
	}
}

/* =======================
   UPDATE
======================= */

func UpdateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/products/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var req ProductUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		updateSet := bson.M{}
		updateUnset := bson.M{}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
				return
			}
			updateSet["name"] = name
		}
		if req.SKU != nil {
			sku := strings.TrimSpace(*req.SKU)
			if sku == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "sku required"})
				return
			}
			updateSet["sku"] = sku
		}
		if req.Description != nil {
			updateSet["description"] = strings.TrimSpace(*req.Description)
		}
		if req.Price != nil {
			if *req.Price <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price"})
				return
			}
			updateSet["price"] = *req.Price
		}
		if req.SalePrice != nil {
			if *req.SalePrice < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid salePrice"})
				return
			}
			if *req.SalePrice == 0 {
				updateUnset["salePrice"] = ""
			} else {
				updateSet["salePrice"] = *req.SalePrice
			}
		}
		if req.CategoryID != nil {
			categoryID, err := primitive.ObjectIDFromHex(strings.TrimSpace(*req.CategoryID))
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid categoryId"})
				return
			}
			exists, err := categoryExists(ctx, db, categoryID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
				return
			}
			if !exists {
				c.JSON(http.StatusBadRequest, gin.H{"error": "category not found: " + categoryID.Hex()})
				return
			}
			updateSet["categoryId"] = categoryID
		}
		if req.Images != nil {
			updateSet["images"] = *req.Images
		}
		if req.Weight != nil {
			updateSet["weight"] = *req.Weight
		}
		if len(req.Dimensions) > 0 {
			var dimensions *models.Dimensions
			if err := decodeFlexible(req.Dimensions, &dimensions); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dimensions"})
				return
			}
			if dimensions == nil {
				updateUnset["dimensions"] = ""
			} else {
				updateSet["dimensions"] = dimensions
			}
		}
		if req.Materials != nil {
			updateSet["materials"] = models.StringList(*req.Materials)
		}
		if len(req.Gems) > 0 {
			var gems []models.Gem
			if err := decodeFlexible(req.Gems, &gems); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid gems"})
				return
			}
			updateSet["gems"] = gems
		}
		if req.StockQuantity != nil {
			if *req.StockQuantity < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "stockQuantity must be zero or greater"})
				return
			}
			updateSet["stockQuantity"] = *req.StockQuantity
		}
		if req.IsActive != nil {
			updateSet["isActive"] = *req.IsActive
		}
		if req.IsFeatured != nil {
			updateSet["isFeatured"] = *req.IsFeatured
		}
		if len(req.Tags) > 0 {
			var tags []string
			if err := decodeFlexible(req.Tags, &tags); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tags"})
				return
			}
			updateSet["tags"] = models.StringList(tags)
		}
		if len(req.Variants) > 0 {
			var variants []models.Variant
			if err := decodeFlexible(req.Variants, &variants); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid variants"})
				return
			}
			updateSet["variants"] = variants
		}
		if req.DeliveryOptions != nil {
			updateSet["deliveryOptions"] = *req.DeliveryOptions
		}

		if len(updateSet) == 0 && len(updateUnset) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}
		updateSet["updatedAt"] = time.Now()

		update := bson.M{"$set": updateSet}
		if len(updateUnset) > 0 {
			update["$unset"] = updateUnset
		}

		var updated models.Product
		err = db.Collection("products").FindOneAndUpdate(
			ctx,
			bson.M{"_id": id},
			update,
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)

		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "sku already exists"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

/* =======================
   DELETE / BULK DELETE
======================= */

func DeleteProduct(db *mongo.Database, images *uploads.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/products/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		var product models.Product
		err = db.Collection("products").FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&product)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		destroyProductImages(ctx, images, product)

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "product deleted"})
	}
}

func BulkDeleteProducts(db *mongo.Database, images *uploads.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/products/bulk-delete"
		defer handlePanic(c, route)

		var req BulkDeleteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		if len(req.IDs) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ids required"})
			return
		}

		ids := make([]primitive.ObjectID, 0, len(req.IDs))
		for _, raw := range req.IDs {
			id, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw))
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id: " + raw})
				return
			}
			ids = append(ids, id)
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
		defer cancel()

		filter := bson.M{"_id": bson.M{"$in": ids}}

		cursor, err := db.Collection("products").Find(ctx, filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		var products []models.Product
		if err := cursor.All(ctx, &products); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "decode error"})
			return
		}

		result, err := db.Collection("products").DeleteMany(ctx, filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		for _, product := range products {
			destroyProductImages(ctx, images, product)
		}

		c.JSON(http.StatusOK, gin.H{
			"success":      true,
			"deletedCount": result.DeletedCount,
		})
	}
}

// destroyProductImages is best effort; a failed Cloudinary delete never
// blocks the product deletion that already happened.
func destroyProductImages(ctx context.Context, images *uploads.Store, product models.Product) {
	if images == nil {
		return
	}
	all := append([]models.ProductImage{}, product.Images...)
	for _, variant := range product.Variants {
		all = append(all, variant.Images...)
	}
	for _, image := range all {
		if err := images.Destroy(ctx, image.PublicID); err != nil {
			log.Printf("DeleteProduct image cleanup failed for %s: %v", image.PublicID, err)
		}
	}
}

/* =======================
   STOCK PATCH
======================= */

func PatchProductStock(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /api/products/:id/stock"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var req StockPatchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		if req.StockQuantity == nil && req.Adjustment == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "stockQuantity or adjustment required"})
			return
		}
		if req.StockQuantity != nil && req.Adjustment != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "provide either stockQuantity or adjustment, not both"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		filter := bson.M{"_id": id}
		var update bson.M

		if req.StockQuantity != nil {
			if *req.StockQuantity < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "stockQuantity must be zero or greater"})
				return
			}
			update = bson.M{"$set": bson.M{
				"stockQuantity": *req.StockQuantity,
				"updatedAt":     time.Now(),
			}}
		} else {
			delta := *req.Adjustment
			if delta < 0 {
				// Guard against driving stock negative.
				filter["stockQuantity"] = bson.M{"$gte": -delta}
			}
			update = bson.M{
				"$inc": bson.M{"stockQuantity": delta},
				"$set": bson.M{"updatedAt": time.Now()},
			}
		}

		var updated models.Product
		err = db.Collection("products").FindOneAndUpdate(
			ctx,
			filter,
			update,
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)

		if err == mongo.ErrNoDocuments {
			// The guarded adjustment also matches nothing when the product
			// does not exist; look it up to tell the two apart.
			if req.Adjustment != nil && productExistsByID(ctx, db, id) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient stock for adjustment"})
				return
			}
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}
