package handlers

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"jewelme/internal/models"
)

func cancelRouter(db *mongo.Database) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	asAdmin := func(c *gin.Context) { c.Set("role", models.RoleAdmin) }
	r.PUT("/api/orders/:id/cancel", asAdmin, CancelOrder(db))
	r.PUT("/api/orders/:id/status", asAdmin, UpdateOrderStatus(db))
	return r
}

func orderDocument(id primitive.ObjectID, status string) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "orderNumber", Value: "JW-000000011"},
		{Key: "orderStatus", Value: status},
		{Key: "paymentStatus", Value: models.PaymentStatusPending},
		{Key: "userId", Value: primitive.NewObjectID()},
	}
}

// When the guarded cancel write matches nothing the order was cancelled or
// advanced concurrently; the loser gets a conflict and must not touch stock.
func TestCancelOrderConflictDoesNotRestoreStock(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("lost race", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "jewelme.orders", mtest.FirstBatch,
				orderDocument(id, models.OrderStatusProcessing)),
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}),
		)

		r := cancelRouter(mt.DB)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("PUT", "/api/orders/"+id.Hex()+"/cancel", nil))

		if w.Code != 409 {
			mt.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
		}

		for _, evt := range mt.GetAllStartedEvents() {
			if evt.CommandName == "update" {
				mt.Fatal("stock restore was issued for a cancel that matched nothing")
			}
		}
	})
}

func TestUpdateOrderStatusConflictWhenStatusMoved(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("lost race", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "jewelme.orders", mtest.FirstBatch,
				orderDocument(id, models.OrderStatusPending)),
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}),
		)

		r := cancelRouter(mt.DB)
		body := bytes.NewBufferString(`{"orderStatus":"cancelled"}`)
		req := httptest.NewRequest("PUT", "/api/orders/"+id.Hex()+"/status", body)
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != 409 {
			mt.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
		}

		for _, evt := range mt.GetAllStartedEvents() {
			if evt.CommandName == "update" {
				mt.Fatal("stock restore was issued for a status change that matched nothing")
			}
		}
	})
}
