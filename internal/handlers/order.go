package handlers

import (
	"context"
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
	"jewelme/internal/payment"
)

/* =========================
   REQUEST DTOs
========================= */

type createOrderItemRequest struct {
	ProductID string  `json:"productId" binding:"required"`
	Variant   string  `json:"variant"`
	Size      string  `json:"size"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity" binding:"required"`
}

type createOrderRequest struct {
	Items           []createOrderItemRequest `json:"items" binding:"required"`
	Subtotal        float64                  `json:"subtotal"`
	Tax             float64                  `json:"tax"`
	Shipping        float64                  `json:"shipping"`
	Total           float64                  `json:"total" binding:"required"`
	ShippingAddress models.Address           `json:"shippingAddress" binding:"required"`
	BillingAddress  *models.Address          `json:"billingAddress"`
	PaymentMethod   string                   `json:"paymentMethod"`
	Notes           string                   `json:"notes"`
}

type capturePaymentRequest struct {
	PaymentID string `json:"paymentId" binding:"required"`
	OrderID   string `json:"orderId" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

type updateOrderStatusRequest struct {
	OrderStatus    *string `json:"orderStatus"`
	PaymentStatus  *string `json:"paymentStatus"`
	TrackingNumber *string `json:"trackingNumber"`
	Notes          *string `json:"notes"`
}

/* =========================
   CREATE ORDER
========================= */

func CreateOrder(db *mongo.Database, gateway *payment.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/orders/create/:userId"
		defer handlePanic(c, route)

		userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid userId")
			return
		}

		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		if len(req.Items) == 0 {
			respondWithError(c, http.StatusBadRequest, route, "at least one item is required")
			return
		}

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		items, err := resolveOrderItems(ctx, db, req.Items)
		if err != nil {
			respondOrderItemError(c, route, err)
			return
		}

		if err := validateOrderAmounts(items, req.Subtotal, req.Tax, req.Shipping, req.Total); err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		// Reserve stock up front; every decrement is guarded so an item can
		// never go negative under concurrent checkouts.
		decremented, err := decrementStock(ctx, db, items)
		if err != nil {
			restoreStock(ctx, db, decremented)
			respondOrderItemError(c, route, err)
			return
		}

		invoice, err := nextInvoiceNumber(ctx, db)
		if err != nil {
			restoreStock(ctx, db, items)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		now := time.Now()
		order := models.Order{
			OrderNumber:     newOrderNumber(),
			Invoice:         invoice,
			UserID:          userID,
			Items:           items,
			Subtotal:        req.Subtotal,
			Tax:             req.Tax,
			Shipping:        req.Shipping,
			Total:           req.Total,
			ShippingAddress: req.ShippingAddress,
			BillingAddress:  req.BillingAddress,
			PaymentMethod:   strings.TrimSpace(req.PaymentMethod),
			PaymentStatus:   models.PaymentStatusPending,
			OrderStatus:     models.OrderStatusPending,
			Notes:           strings.TrimSpace(req.Notes),
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if order.PaymentMethod == "" {
			order.PaymentMethod = "razorpay"
		}

		res, err := db.Collection("orders").InsertOne(ctx, order)
		if err != nil {
			restoreStock(ctx, db, items)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		order.ID = res.InsertedID.(primitive.ObjectID)

		amount := amountMinorUnits(order.Total)
		gatewayOrderID, err := gateway.CreateOrder(amount, "INR", "receipt_"+order.ID.Hex())
		if err != nil {
			// Compensate: release the reserved stock and mark the local
			// order failed instead of leaving an orphaned pending order.
			log.Printf("[%s] gateway order failed for %s: %v", route, order.ID.Hex(), err)
			restoreStock(ctx, db, items)
			_, updErr := db.Collection("orders").UpdateOne(ctx,
				bson.M{"_id": order.ID},
				bson.M{"$set": bson.M{
					"paymentStatus": models.PaymentStatusFailed,
					"orderStatus":   models.OrderStatusCancelled,
					"updatedAt":     time.Now(),
				}},
			)
			if updErr != nil {
				log.Printf("[%s] compensation update failed for %s: %v", route, order.ID.Hex(), updErr)
			}
			respondWithError(c, http.StatusBadGateway, route, "payment gateway error")
			return
		}

		_, err = db.Collection("orders").UpdateOne(ctx,
			bson.M{"_id": order.ID},
			bson.M{"$set": bson.M{"razorpayOrderId": gatewayOrderID, "updatedAt": time.Now()}},
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		order.RazorpayOrderID = gatewayOrderID

		log.Printf("[%s] order %s created for user %s (invoice %d)", route, order.OrderNumber, userID.Hex(), invoice)

		c.JSON(http.StatusCreated, gin.H{
			"success":  true,
			"orderId":  gatewayOrderID,
			"amount":   amount,
			"currency": "INR",
			"order":    order,
		})
	}
}

/* =========================
   CAPTURE PAYMENT
========================= */

func CapturePayment(db *mongo.Database, gateway *payment.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/orders/capturePayment"
		defer handlePanic(c, route)

		var req capturePaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		// The recomputed digest is the only thing trusted here; client status
		// fields never decide the outcome.
		if !payment.VerifySignature(req.OrderID, req.PaymentID, req.Signature, gateway.Secret()) {
			respondWithError(c, http.StatusBadRequest, route, "Invalid signature")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var order models.Order
		err := db.Collection("orders").FindOneAndUpdate(
			ctx,
			bson.M{"razorpayOrderId": req.OrderID},
			bson.M{"$set": bson.M{
				"razorpayPaymentId": req.PaymentID,
				"razorpaySignature": req.Signature,
				"paymentStatus":     models.PaymentStatusCompleted,
				"updatedAt":         time.Now(),
			}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&order)

		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "order not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Printf("[%s] payment captured for order %s", route, order.OrderNumber)

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "payment verified",
			"orderId": order.ID.Hex(),
		})
	}
}

/* =========================
   CANCEL ORDER
========================= */

func CancelOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/orders/:id/cancel"
		defer handlePanic(c, route)

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		var order models.Order
		err = db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&order)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "order not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if !requesterMayCancel(c, order) {
			respondWithError(c, http.StatusForbidden, route, "not allowed to cancel this order")
			return
		}

		if !isCancellableOrderStatus(order.OrderStatus) {
			respondWithError(c, http.StatusBadRequest, route,
				"order cannot be cancelled while "+order.OrderStatus)
			return
		}

		// The filter repeats the cancellable-status check so the check and
		// the write are one guarded operation; of two concurrent cancels only
		// one matches, and only that one restores stock.
		var updated models.Order
		err = db.Collection("orders").FindOneAndUpdate(
			ctx,
			cancelOrderFilter(orderID),
			bson.M{"$set": bson.M{
				"orderStatus": models.OrderStatusCancelled,
				"updatedAt":   time.Now(),
			}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusConflict, route, "order can no longer be cancelled")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		restoreStock(ctx, db, updated.Items)

		log.Printf("[%s] order %s cancelled", route, updated.OrderNumber)

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "order cancelled",
			"order":   updated,
		})
	}
}

// cancelOrderFilter matches the order only while its status still permits
// cancellation.
func cancelOrderFilter(orderID primitive.ObjectID) bson.M {
	return bson.M{
		"_id":         orderID,
		"orderStatus": bson.M{"$in": cancellableOrderStatuses()},
	}
}

// requesterMayCancel allows the order owner or any admin.
func requesterMayCancel(c *gin.Context, order models.Order) bool {
	if role, _ := c.Get("role"); role == models.RoleAdmin {
		return true
	}
	subject, ok := c.Get("subjectId")
	if !ok {
		return false
	}
	subjectID, ok := subject.(primitive.ObjectID)
	return ok && subjectID == order.UserID
}

/* =========================
   UPDATE STATUS (ADMIN)
========================= */

func UpdateOrderStatus(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/orders/:id/status"
		defer handlePanic(c, route)

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req updateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid body")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var order models.Order
		err = db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&order)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "order not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		update := bson.M{}

		if req.OrderStatus != nil {
			next := strings.TrimSpace(*req.OrderStatus)
			if !isValidOrderStatus(next) {
				respondWithError(c, http.StatusBadRequest, route, "invalid orderStatus")
				return
			}
			if next != order.OrderStatus {
				if !canTransitionOrderStatus(order.OrderStatus, next) {
					respondWithError(c, http.StatusBadRequest, route,
						"cannot move order from "+order.OrderStatus+" to "+next)
					return
				}
				update["orderStatus"] = next
			}
		}

		if req.PaymentStatus != nil {
			next := strings.TrimSpace(*req.PaymentStatus)
			if !isValidPaymentStatus(next) {
				respondWithError(c, http.StatusBadRequest, route, "invalid paymentStatus")
				return
			}
			update["paymentStatus"] = next
		}

		if req.TrackingNumber != nil {
			update["trackingNumber"] = strings.TrimSpace(*req.TrackingNumber)
		}
		if req.Notes != nil {
			update["notes"] = strings.TrimSpace(*req.Notes)
		}

		if len(update) == 0 {
			respondWithError(c, http.StatusBadRequest, route, "no fields to update")
			return
		}
		update["updatedAt"] = time.Now()

		// A status change is a compare-and-swap on the status that was just
		// validated, so a concurrent transition cannot slip through and a
		// cancel can never restore stock twice.
		filter := bson.M{"_id": orderID}
		if _, ok := update["orderStatus"]; ok {
			filter["orderStatus"] = order.OrderStatus
		}

		var updated models.Order
		err = db.Collection("orders").FindOneAndUpdate(
			ctx,
			filter,
			bson.M{"$set": update},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusConflict, route, "order status changed, retry")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		// Admin cancellation goes through the same stock restoration as a
		// customer cancellation.
		if update["orderStatus"] == models.OrderStatusCancelled {
			restoreStock(ctx, db, updated.Items)
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "order": updated})
	}
}

/* =========================
   LIST / GET
========================= */

func GetAllOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders"

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		filter := bson.M{}

		if status := strings.TrimSpace(c.Query("orderStatus")); status != "" {
			filter["orderStatus"] = status
		}

		if number := strings.TrimSpace(c.Query("orderNumber")); number != "" {
			filter["orderNumber"] = substringMatch(number)
		}

		dateFilter, err := parseDateRange(c.Query("startDate"), c.Query("endDate"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}
		if len(dateFilter) > 0 {
			filter["createdAt"] = dateFilter
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		total, err := db.Collection("orders").CountDocuments(ctx, filter)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		opts := options.Find().
			SetSkip((page - 1) * limit).
			SetLimit(limit).
			SetSort(bson.D{{Key: "createdAt", Value: -1}})

		cursor, err := db.Collection("orders").Find(ctx, filter, opts)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		orders := make([]models.Order, 0)
		if err := cursor.All(ctx, &orders); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"data": orders,
			"pagination": gin.H{
				"page":  page,
				"limit": limit,
				"total": total,
				"pages": pageCount(total, limit),
			},
		})
	}
}

func GetMyOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders/my-orders/:userId"

		userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid userId")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := db.Collection("orders").Find(ctx, bson.M{"userId": userID}, opts)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		orders := make([]models.Order, 0)
		if err := cursor.All(ctx, &orders); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": orders})
	}
}

func GetOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders/:id"

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var order models.Order
		err = db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&order)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "order not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, order)
	}
}
