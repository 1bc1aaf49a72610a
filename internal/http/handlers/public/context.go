package public

import (
	"strconv"
	"strings"

	"github.com/techstore-next/internal/constants"
	"github.com/techstore-next/internal/service"

	"github.com/gin-gonic/gin"
)

// optionalUserID 读取可选登录用户，未登录返回 nil
func optionalUserID(c *gin.Context) *uint {
	value, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return nil
	}
	switch v := value.(type) {
	case uint:
		if v == 0 {
			return nil
		}
		return &v
	case int:
		if v <= 0 {
			return nil
		}
		id := uint(v)
		return &id
	default:
		return nil
	}
}

func cartSessionID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(constants.ContextKeyCartSession))
}

// cartOwner 登录用户优先，否则使用匿名会话
func cartOwner(c *gin.Context) service.CartOwner {
	if userID := optionalUserID(c); userID != nil {
		return service.CartOwner{UserID: userID}
	}
	return service.CartOwner{SessionID: cartSessionID(c)}
}

// viewerKey 浏览去重标识
func viewerKey(c *gin.Context) string {
	if userID := optionalUserID(c); userID != nil {
		return "u" + strconv.FormatUint(uint64(*userID), 10)
	}
	if sessionID := cartSessionID(c); sessionID != "" {
		return "s" + sessionID
	}
	return "ip" + c.ClientIP()
}
