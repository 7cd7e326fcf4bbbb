package handler

import (
	"net/http" // HTTP status codes and primitives
	"time"

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing
	"go.uber.org/zap"

	"github.com/iliyamo/box-office/internal/config" // app configuration
	"github.com/iliyamo/box-office/internal/utils"  // helper functions (hashing, token issuing)
)

// operatorSubject is the sub claim of every token issued by Login.  The box
// office has a single shared operator account.
const operatorSubject = "operator"

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg    config.Config
	zaplog *zap.Logger
}

func NewAuthHandler(cfg config.Config, zaplog *zap.Logger) *AuthHandler {
	if zaplog == nil {
		zaplog = zap.NewNop()
	}
	return &AuthHandler{Cfg: cfg, zaplog: zaplog}
}

// ----- DTOs -----

type loginReq struct {
	Password string `json:"password"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type authResp struct {
	Role   string    `json:"role"`
	Access tokenPart `json:"access"`
}

// Login: verify the operator password and return an access token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password required"})
	}
	if !utils.VerifyPassword(h.Cfg.OperatorPasswordHash, req.Password) {
		h.zaplog.Info("operator login rejected", zap.String("remote", c.RealIP()))
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, operatorSubject, utils.RoleOperator, h.Cfg.AccessTTLMin)
	if err != nil {
		h.zaplog.Error("issue access token", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}

	return c.JSON(http.StatusOK, authResp{
		Role:   utils.RoleOperator,
		Access: tokenPart{Token: access.Token, Expires: access.Exp},
	})
}
