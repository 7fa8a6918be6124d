package handlers

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"jewelme/internal/models"
)

const invoiceCounterID = "orders.invoice"

// generateOrderNumber builds the customer-facing order number: "JW-", the
// trailing eight digits of the epoch millisecond clock, and a random 0-999
// suffix. The unique index on orderNumber catches the rare collision.
func generateOrderNumber(now time.Time, random int) string {
	ms := now.UnixMilli() % 100000000
	return fmt.Sprintf("JW-%08d%d", ms, random)
}

func newOrderNumber() string {
	return generateOrderNumber(time.Now(), rand.Intn(1000))
}

// nextInvoiceNumber hands out the next sequential invoice number through a
// single upserted $inc, so concurrent checkouts never see the same value.
func nextInvoiceNumber(ctx context.Context, db *mongo.Database) (int64, error) {
	res := db.Collection("counters").FindOneAndUpdate(
		ctx,
		bson.M{"_id": invoiceCounterID},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().
			SetUpsert(true).
			SetReturnDocument(options.After),
	)

	var counter models.Counter
	if err := res.Decode(&counter); err != nil {
		return 0, err
	}
	return counter.Seq, nil
}
