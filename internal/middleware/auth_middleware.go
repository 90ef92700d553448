package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"prohealth/internal/config"
	"prohealth/internal/models"
	"prohealth/internal/repositories/interfaces"
	"prohealth/internal/services"
	"prohealth/internal/utils"
	"prohealth/pkg/logger"
)

// SessionClaims are the claims of a Shopify App Bridge session token. The
// dest claim carries the shop URL the token was issued for.
type SessionClaims struct {
	Dest string `json:"dest"`
	jwt.RegisteredClaims
}

// SessionAuth validates the embedded-app session token and loads the install
// record for the shop it names. Tokens are signed with the app's API secret
// and addressed to its API key.
func SessionAuth(cfg *config.ShopifyConfig, shops interfaces.ShopRepository, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" || tokenString == authHeader {
			utils.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "session token required")
			c.Abort()
			return
		}

		token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.APISecret), nil
		}, jwt.WithAudience(cfg.APIKey))
		if err != nil || !token.Valid {
			utils.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid session token")
			c.Abort()
			return
		}

		claims, ok := token.Claims.(*SessionClaims)
		if !ok {
			utils.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid session token claims")
			c.Abort()
			return
		}

		domain := strings.TrimPrefix(claims.Dest, "https://")
		if !utils.IsValidShopDomain(domain) {
			utils.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid shop in session token")
			c.Abort()
			return
		}

		shop, err := shops.GetByDomain(c.Request.Context(), domain)
		if err != nil || !shop.Active {
			log.WithShop(domain).Warn("Session token for uninstalled shop")
			utils.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", utils.ErrShopNotFound)
			c.Abort()
			return
		}

		c.Set("shop", shop)
		c.Set("shop_domain", shop.Domain)
		c.Next()
	}
}

// EditUnlockRequired rejects mutating requests unless the caller presents a
// live edit token. The lock is enforced here, on the server, regardless of
// what the admin UI shows.
func EditUnlockRequired(editLock services.EditLockService) gin.HandlerFunc {
	return func(c *gin.Context) {
		shop, ok := GetShop(c)
		if !ok {
			utils.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", utils.ErrShopNotFound)
			c.Abort()
			return
		}

		if err := editLock.Verify(c.Request.Context(), shop, c.GetHeader("X-Edit-Token")); err != nil {
			utils.ErrorResponse(c, http.StatusForbidden, "EDIT_LOCKED", utils.ErrEditLocked)
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetShop returns the install record attached by SessionAuth.
func GetShop(c *gin.Context) (*models.Shop, bool) {
	value, exists := c.Get("shop")
	if !exists {
		return nil, false
	}
	shop, ok := value.(*models.Shop)
	return shop, ok
}
