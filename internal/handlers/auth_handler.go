package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"prohealth/internal/config"
	"prohealth/internal/middleware"
	"prohealth/internal/services"
	"prohealth/internal/utils"
	"prohealth/pkg/logger"
)

const oauthStateCookie = "oauth_state"

type AuthHandler struct {
	shopService     services.ShopService
	editLockService services.EditLockService
	shopifyConfig   *config.ShopifyConfig
	baseURL         string
	logger          *logger.Logger
}

func NewAuthHandler(shopService services.ShopService, editLockService services.EditLockService, shopifyConfig *config.ShopifyConfig, baseURL string, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		shopService:     shopService,
		editLockService: editLockService,
		shopifyConfig:   shopifyConfig,
		baseURL:         baseURL,
		logger:          log,
	}
}

// Install starts the OAuth flow by redirecting to the shop's authorize page.
func (h *AuthHandler) Install(c *gin.Context) {
	shop := c.Query("shop")
	if !utils.IsValidShopDomain(shop) {
		utils.BadRequestResponse(c, "invalid shop domain")
		return
	}

	state := uuid.NewString()
	c.SetCookie(oauthStateCookie, state, 300, "/", "", true, true)

	authorizeURL := fmt.Sprintf(
		"https://%s/admin/oauth/authorize?client_id=%s&scope=%s&redirect_uri=%s&state=%s",
		shop,
		h.shopifyConfig.APIKey,
		url.QueryEscape(strings.Join(h.shopifyConfig.Scopes, ",")),
		url.QueryEscape(h.baseURL+"/auth/callback"),
		state,
	)
	c.Redirect(http.StatusFound, authorizeURL)
}

// Callback completes the OAuth flow: it checks the state and HMAC, trades
// the code for a token, and registers webhooks.
func (h *AuthHandler) Callback(c *gin.Context) {
	shop := c.Query("shop")
	if !utils.IsValidShopDomain(shop) {
		utils.BadRequestResponse(c, "invalid shop domain")
		return
	}

	state, err := c.Cookie(oauthStateCookie)
	if err != nil || state == "" || state != c.Query("state") {
		utils.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "oauth state mismatch")
		return
	}

	if !verifyOAuthHMAC(c.Request.URL.Query(), h.shopifyConfig.APISecret) {
		h.logger.WithShop(shop).Warn("OAuth callback with bad hmac")
		utils.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid hmac")
		return
	}

	if _, err := h.shopService.CompleteInstall(c.Request.Context(), shop, c.Query("code")); err != nil {
		h.logger.WithShop(shop).WithError(err).Error("OAuth completion failed")
		utils.ErrorResponse(c, http.StatusInternalServerError, "INSTALL_FAILED", "failed to complete installation")
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("https://%s/admin/apps/%s", shop, h.shopifyConfig.APIKey))
}

// verifyOAuthHMAC checks the hex HMAC Shopify appends to OAuth callbacks:
// all query parameters except hmac, sorted, joined with &.
func verifyOAuthHMAC(query url.Values, secret string) bool {
	signature := query.Get("hmac")
	if signature == "" || secret == "" {
		return false
	}

	pairs := make([]string, 0, len(query))
	for key, values := range query {
		if key == "hmac" {
			continue
		}
		for _, value := range values {
			pairs = append(pairs, key+"="+value)
		}
	}
	sort.Strings(pairs)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strings.Join(pairs, "&")))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

// UnlockEdit trades the shared edit secret for a short-lived edit token.
func (h *AuthHandler) UnlockEdit(c *gin.Context) {
	shop, ok := middleware.GetShop(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var request struct {
		Secret string `json:"secret" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	token, expiresAt, err := h.editLockService.Unlock(c.Request.Context(), shop, request.Secret)
	if err != nil {
		serviceError(c, err, "EDIT_UNLOCK_FAILED")
		return
	}

	utils.SuccessResponse(c, "Edit mode unlocked", gin.H{
		"token":      token,
		"expires_at": expiresAt,
	})
}

// LockEdit relocks edit mode immediately.
func (h *AuthHandler) LockEdit(c *gin.Context) {
	shop, ok := middleware.GetShop(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	if err := h.editLockService.Lock(c.Request.Context(), shop); err != nil {
		serviceError(c, err, "EDIT_LOCK_FAILED")
		return
	}

	utils.SuccessResponse(c, "Edit mode locked", nil)
}

// EditStatus reports whether the presented edit token is still live.
func (h *AuthHandler) EditStatus(c *gin.Context) {
	shop, ok := middleware.GetShop(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	err := h.editLockService.Verify(c.Request.Context(), shop, c.GetHeader("X-Edit-Token"))
	utils.SuccessResponse(c, "Edit mode status", gin.H{"unlocked": err == nil})
}
