package public

import (
	"time"

	handlershared "github.com/youngre511/PeachBlossom-eStore-sub003/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func nowPlus(d time.Duration) time.Time {
	return time.Now().Add(d)
}

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

func respondErrorWithData(c *gin.Context, code int, msg string, data interface{}, err error) {
	handlershared.RespondErrorWithData(c, code, msg, data, err)
}
