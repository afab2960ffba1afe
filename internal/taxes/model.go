package taxes

import (
	"time"

	"github.com/google/uuid"
)

// Kind enumerates tax value semantics.
type Kind string

const (
	// KindPercentage taxes scale with the sale price.
	KindPercentage Kind = "percentage"
	// KindFixed taxes charge an absolute amount per unit.
	KindFixed Kind = "fixed"
)

// Tax represents a variable cost rule. Global taxes apply to every product
// of the owner unless a product disables them individually; non-global taxes
// are stored but do not enter the cost rollup (see DESIGN.md).
type Tax struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Type      Kind      `json:"type"`
	Value     float64   `json:"value"`
	IsGlobal  bool      `json:"is_global"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
