package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

// These tests run the real handlers against a mocked mongo deployment, so the
// count-then-respond decisions are exercised without a server.

func categoryRouter(db *mongo.Database) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/categories", CreateCategory(db))
	r.DELETE("/api/categories/:id", DeleteCategory(db))
	return r
}

func TestDeleteCategoryBlockedWhileReferenced(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("referenced", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "jewelme.products", mtest.FirstBatch,
				bson.D{{Key: "n", Value: 3}}),
		)

		r := categoryRouter(mt.DB)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("DELETE", "/api/categories/"+primitive.NewObjectID().Hex(), nil))

		if w.Code != 400 {
			mt.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
		}

		var body map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			mt.Fatalf("decoding body: %v", err)
		}
		if got, ok := body["productCount"].(float64); !ok || got != 3 {
			mt.Fatalf("expected productCount 3 in body, got %v", body["productCount"])
		}

		// The delete itself must never have been issued.
		for _, evt := range mt.GetAllStartedEvents() {
			if evt.CommandName == "delete" {
				mt.Fatal("delete command was sent despite referencing products")
			}
		}
	})
}

func TestDeleteCategorySucceedsWithoutReferences(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("unreferenced", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "jewelme.products", mtest.FirstBatch),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
		)

		r := categoryRouter(mt.DB)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("DELETE", "/api/categories/"+primitive.NewObjectID().Hex(), nil))

		if w.Code != 200 {
			mt.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestCreateCategoryRejectsDuplicateWithoutWriting(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("duplicate name", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "jewelme.categories", mtest.FirstBatch,
				bson.D{{Key: "n", Value: 1}}),
		)

		r := categoryRouter(mt.DB)
		req := httptest.NewRequest("POST", "/api/categories", bytes.NewBufferString(`{"name":"Rings"}`))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != 400 {
			mt.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
		}

		// The existing category stays untouched: no insert may be attempted.
		for _, evt := range mt.GetAllStartedEvents() {
			if evt.CommandName == "insert" {
				mt.Fatal("insert command was sent despite the duplicate")
			}
		}
	})
}

func TestCreateCategoryMapsDuplicateKeyError(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("index conflict", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "jewelme.categories", mtest.FirstBatch),
			mtest.CreateWriteErrorsResponse(mtest.WriteError{
				Index:   0,
				Code:    11000,
				Message: "E11000 duplicate key error",
			}),
		)

		r := categoryRouter(mt.DB)
		req := httptest.NewRequest("POST", "/api/categories", bytes.NewBufferString(`{"name":"Rings"}`))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != 400 {
			mt.Fatalf("expected 400 on duplicate key, got %d: %s", w.Code, w.Body.String())
		}

		var body map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			mt.Fatalf("decoding body: %v", err)
		}
		if body["error"] != "category name or slug already exists" {
			mt.Fatalf("unexpected error message: %v", body["error"])
		}
	})
}
