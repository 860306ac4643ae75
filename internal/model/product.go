package model

// Product represents a priced item in the catalogue.
// An empty ID marks a product that has not been stored yet.
type Product struct {
	ID    string  `json:"id,omitempty" bson:"_id,omitempty" db:"id"`
	Name  string  `json:"name" bson:"name" db:"name"`
	Price float64 `json:"price" bson:"price" db:"price"`
}

// ProductEvent is a single tick of the product event stream.
// Events are generated per stream and never persisted.
type ProductEvent struct {
	EventID uint64 `json:"eventId"`
	Message string `json:"message"`
}
