package order

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const orderNumberPrefix = "SBR"

// NewOrderNumber builds a short human-legible token from a time component and
// a random component. Collisions are possible in theory; the unique index on
// orders.order_number plus a retry at creation closes the gap.
func NewOrderNumber() string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:5]
	return strings.ToUpper(orderNumberPrefix + "-" + ts + "-" + random)
}
