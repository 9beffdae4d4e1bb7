package handler

import (
	"net/http"

	auth "app/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	registerUC *auth.RegisterUserUsecase
	loginUC    *auth.LoginUsecase
	refreshUC  *auth.RefreshUsecase
	logoutUC   *auth.LogoutUsecase
}

// DIコンストラクタ
func NewAuthHandler(
	registerUC *auth.RegisterUserUsecase,
	loginUC *auth.LoginUsecase,
	refreshUC *auth.RefreshUsecase,
	logoutUC *auth.LogoutUsecase,
) *AuthHandler {
	return &AuthHandler{
		registerUC: registerUC,
		loginUC:    loginUC,
		refreshUC:  refreshUC,
		logoutUC:   logoutUC,
	}
}

func (h *AuthHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/auth/register", h.Register)
	g.POST("/auth/login", h.Login)
	g.POST("/auth/refresh", h.Refresh)
	g.POST("/auth/logout", h.Logout)
	g.GET("/auth/health", h.Health)
}

type registerRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// POST /auth/register
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}

	out, err := h.registerUC.Execute(c.Request().Context(), auth.RegisterUserInput{
		FullName:  req.FullName,
		Email:     req.Email,
		Password:  req.Password,
		Phone:     req.Phone,
		Address:   req.Address,
		UserAgent: c.Request().UserAgent(),
	})
	if err != nil {
		switch err {
		case auth.ErrInvalidFullName, auth.ErrInvalidEmailFormat, auth.ErrPasswordTooShort:
			return writeError(c, http.StatusBadRequest, "validation error")
		case auth.ErrEmailDomainNotAllowed:
			return writeError(c, http.StatusBadRequest, "email domain not allowed")
		case auth.ErrEmailAlreadyExists:
			return writeError(c, http.StatusConflict, "email already exists")
		default:
			return writeError(c, http.StatusInternalServerError, "internal error")
		}
	}

	return c.JSON(http.StatusCreated, out)
}

// POST /auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}

	out, err := h.loginUC.Execute(c.Request().Context(), auth.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		UserAgent: c.Request().UserAgent(),
	})
	if err != nil {
		switch err {
		case auth.ErrInvalidCredentials:
			return writeError(c, http.StatusUnauthorized, "invalid credentials")
		case auth.ErrUserInactive:
			return writeError(c, http.StatusForbidden, "account is inactive")
		default:
			return writeError(c, http.StatusInternalServerError, "internal error")
		}
	}

	return c.JSON(http.StatusOK, out)
}

// POST /auth/refresh
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}

	out, err := h.refreshUC.Execute(c.Request().Context(), auth.RefreshInput{
		RefreshToken: req.RefreshToken,
		UserAgent:    c.Request().UserAgent(),
	})
	if err != nil {
		switch err {
		case auth.ErrInvalidRefreshToken:
			return writeError(c, http.StatusUnauthorized, "invalid refresh token")
		case auth.ErrUserInactive:
			return writeError(c, http.StatusForbidden, "account is inactive")
		default:
			return writeError(c, http.StatusInternalServerError, "internal error")
		}
	}

	return c.JSON(http.StatusOK, out)
}

// POST /auth/logout
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}

	if err := h.logoutUC.Execute(c.Request().Context(), auth.LogoutInput{
		RefreshToken: req.RefreshToken,
	}); err != nil {
		return writeError(c, http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "logged out"})
}

// GET /auth/health
func (h *AuthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
