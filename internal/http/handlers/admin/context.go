package admin

import (
	"github.com/techstore-next/internal/constants"
	handlershared "github.com/techstore-next/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func getOperatorID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUintWithKeys(c, constants.ContextKeyUserID, "error.unauthorized", "error.internal_error")
}
