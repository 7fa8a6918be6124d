package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestAdminRegisterRejectsDuplicateEmail(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("duplicate email", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "jewelme.admins", mtest.FirstBatch,
				bson.D{{Key: "n", Value: 1}}),
		)

		gin.SetMode(gin.TestMode)
		r := gin.New()
		r.POST("/api/admin/register", AdminRegister(mt.DB))

		body := `{"name":"A","email":"owner@jewelme.in","password":"secret"}`
		req := httptest.NewRequest("POST", "/api/admin/register", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != 400 {
			mt.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
		}

		var resp map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			mt.Fatalf("decoding body: %v", err)
		}
		if resp["error"] != "email already registered" {
			mt.Fatalf("unexpected error message: %v", resp["error"])
		}

		// The existing account stays untouched: no insert may be attempted.
		for _, evt := range mt.GetAllStartedEvents() {
			if evt.CommandName == "insert" {
				mt.Fatal("insert command was sent despite the duplicate email")
			}
		}
	})
}
