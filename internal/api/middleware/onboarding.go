package middleware

import (
	"deeperweave/internal/api/response"

	"github.com/gin-gonic/gin"
)

// OnboardedFetcher 查询用户是否完成初始引导
type OnboardedFetcher func(userID int64) (bool, error)

// OnboardingRequired 引导检查中间件（必须在 AuthRequired 之后使用）
// 未完成初始引导的用户禁止访问写入类接口
func OnboardingRequired(fetcher OnboardedFetcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetCurrentUserID(c)
		if !ok {
			response.Unauthorized(c, "缺少认证信息")
			c.Abort()
			return
		}

		onboarded, err := fetcher(userID)
		if err != nil {
			response.Unauthorized(c, "用户不存在")
			c.Abort()
			return
		}

		if !onboarded {
			response.Forbidden(c, "请先完成初始引导")
			c.Abort()
			return
		}

		c.Next()
	}
}
