package public

import (
	handlershared "github.com/youngre511/PeachBlossom-eStore-sub003/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func getCustomerID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUint(c, "customer_id")
}

// optionalCustomerID reads the customer id when the request carries
// one, without failing anonymous requests.
func optionalCustomerID(c *gin.Context) *uint {
	value, exists := c.Get("customer_id")
	if !exists {
		return nil
	}
	if id, ok := value.(uint); ok {
		return &id
	}
	return nil
}
