package models

// Counter backs sequential numbering (currently only order invoices).
// A single findOneAndUpdate with $inc hands out the next value atomically.
type Counter struct {
	ID  string `bson:"_id"`
	Seq int64  `bson:"seq"`
}
