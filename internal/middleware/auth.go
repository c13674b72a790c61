package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"terminal-terrace/library/internal/dto"
	"terminal-terrace/library/internal/model/user"
	"terminal-terrace/library/internal/permission"
	"terminal-terrace/library/internal/token"
	"terminal-terrace/library/packages/response"
)

const (
	ctxUserKey       = "user"
	ctxUserIDKey     = "user_id"
	ctxClaimsKey     = "token_claims"
	ctxTargetUserKey = "target_user"
)

const (
	MsgUnauthenticated = "Unauthenticated."
	MsgAdminsOnly      = "Access denied. Admins only."
	MsgUserNotFound    = "User not found."
)

// Auth 鉴权中间件依赖
type Auth struct {
	tokens *token.Service
	db     *gorm.DB
}

func NewAuth(tokens *token.Service, db *gorm.DB) *Auth {
	return &Auth{tokens: tokens, db: db}
}

// bearerToken 从 Authorization header 中取出令牌
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	scheme, raw, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}

// Required 必需认证; 用户每次从数据库重新加载, 角色变更与删除立即生效
func (a *Auth) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c)
		if !ok {
			unauthenticated(c)
			return
		}

		claims, err := a.tokens.Authenticate(c.Request.Context(), raw)
		if err != nil {
			if !errors.Is(err, token.ErrInvalidToken) && !errors.Is(err, token.ErrExpiredToken) && !errors.Is(err, token.ErrRevokedToken) {
				zap.L().Error("token lookup failed", zap.Error(err))
			}
			unauthenticated(c)
			return
		}

		var u user.User
		if err := a.db.WithContext(c.Request.Context()).First(&u, claims.UserID).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				zap.L().Error("load authenticated user", zap.Uint("user_id", claims.UserID), zap.Error(err))
			}
			unauthenticated(c)
			return
		}

		c.Set(ctxUserKey, &u)
		c.Set(ctxUserIDKey, u.ID)
		c.Set(ctxClaimsKey, claims)
		c.Next()
	}
}

// Require 角色门禁, 当前用户必须拥有 capability
func Require(capability permission.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil {
			unauthenticated(c)
			return
		}
		if !permission.Allows(u.Role, capability) {
			dto.AbortWithError(c, response.NewForbidden(MsgAdminsOnly))
			return
		}
		c.Next()
	}
}

// SelfOr resolves the :id user and lets the request through when it is the
// caller, or when the caller holds capability. A missing user is a 404.
func (a *Auth) SelfOr(capability permission.Capability, forbidden string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := CurrentUser(c)
		if actor == nil {
			unauthenticated(c)
			return
		}

		id, ok := dto.ParseID(c, "id")
		if !ok {
			dto.AbortWithError(c, response.NewNotFound(MsgUserNotFound))
			return
		}

		var target user.User
		if err := a.db.WithContext(c.Request.Context()).First(&target, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				dto.AbortWithError(c, response.NewNotFound(MsgUserNotFound))
				return
			}
			dto.AbortWithError(c, response.NewBusinessError(response.WithError(err)))
			return
		}

		if !permission.CanActFor(actor, target.ID, capability) {
			dto.AbortWithError(c, response.NewForbidden(forbidden))
			return
		}

		c.Set(ctxTargetUserKey, &target)
		c.Next()
	}
}

func unauthenticated(c *gin.Context) {
	dto.AbortWithError(c, response.NewBusinessError(
		response.WithErrorCode(response.Unauthorized),
		response.WithErrorMessage(MsgUnauthenticated),
	))
}

// CurrentUser 当前登录用户, 未认证时为 nil
func CurrentUser(c *gin.Context) *user.User {
	if v, ok := c.Get(ctxUserKey); ok {
		if u, ok := v.(*user.User); ok {
			return u
		}
	}
	return nil
}

// CurrentClaims 本次请求使用的令牌
func CurrentClaims(c *gin.Context) *token.Claims {
	if v, ok := c.Get(ctxClaimsKey); ok {
		if claims, ok := v.(*token.Claims); ok {
			return claims
		}
	}
	return nil
}

// TargetUser 由 SelfOr 解析出的 :id 用户
func TargetUser(c *gin.Context) *user.User {
	if v, ok := c.Get(ctxTargetUserKey); ok {
		if u, ok := v.(*user.User); ok {
			return u
		}
	}
	return nil
}
