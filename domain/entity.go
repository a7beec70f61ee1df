package domain

import (
	"github.com/google/uuid"
)

// Entity is a sample order record described by field tags. Number fans out to a
// second field declared as a string.
type Entity struct {
	ID       uuid.UUID `field:"order_id"`
	Name     string    `field:"order_name"`
	Number   int       `field:"order_number;order_number_2,type=string"`
	Price    float64   `field:"order_price"`
	Internal string
}
