// Package httpapi serves the operator and merchant HTTP surface: admin
// login and merchant management, merchant product listings, order
// intake from the web-app bridge, and init-payload validation.
package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jianghu-rpg/jianghu-api/internal/auth/initdata"
	"github.com/jianghu-rpg/jianghu-api/internal/errors"
	"github.com/jianghu-rpg/jianghu-api/internal/pkg/clock"
	"github.com/jianghu-rpg/jianghu-api/internal/repositories/merchant"
)

// Config holds the handler's dependencies
type Config struct {
	Merchants     merchant.Repository
	BotToken      string
	JWTSecret     string
	AdminPassword string
	// StaticDir serves the web-app frontend when non-empty
	StaticDir string
	Clock     clock.Clock
	Logger    *zap.Logger
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	vb := errors.NewValidationBuilder()
	if c.Merchants == nil {
		vb.RequiredField("Merchants")
	}
	if c.JWTSecret == "" {
		vb.RequiredField("JWTSecret")
	}
	if c.AdminPassword == "" {
		vb.RequiredField("AdminPassword")
	}
	return vb.Build()
}

// Handler implements the HTTP surface
type Handler struct {
	merchants     merchant.Repository
	botToken      string
	jwtSecret     []byte
	adminPassword string
	staticDir     string
	clock         clock.Clock
	logger        *zap.Logger
}

// New creates a handler with the provided dependencies
func New(cfg *Config) (*Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}
	return &Handler{
		merchants:     cfg.Merchants,
		botToken:      cfg.BotToken,
		jwtSecret:     []byte(cfg.JWTSecret),
		adminPassword: cfg.AdminPassword,
		staticDir:     cfg.StaticDir,
		clock:         clk,
		logger:        logger,
	}, nil
}

// Router builds the gin engine with every route registered
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.POST("/admin/login", h.adminLogin)
	r.POST("/admin/merchants", h.requireRole(roleAdmin), h.createMerchant)
	r.GET("/admin/merchants", h.requireRole(roleAdmin), h.listMerchants)

	r.POST("/merchant/login", h.merchantLogin)

	r.GET("/api/products", h.listProducts)
	r.POST("/api/products", h.requireRole(roleMerchant), h.createProduct)
	r.POST("/api/orders", h.createOrder)
	r.POST("/api/validate_init", h.validateInit)

	if h.staticDir != "" {
		r.NoRoute(gin.WrapH(http.FileServer(http.Dir(h.staticDir))))
	}
	return r
}

func (h *Handler) adminLogin(c *gin.Context) {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, errors.InvalidArgument("password required"))
		return
	}
	if req.Password != h.adminPassword {
		fail(c, errors.Unauthenticated("invalid password"))
		return
	}
	token, err := h.issueToken(roleAdmin, 0)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "token": token})
}

func (h *Handler) createMerchant(c *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Slug     string `json:"slug"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" || req.Slug == "" || req.Password == "" {
		fail(c, errors.InvalidArgument("missing fields"))
		return
	}
	m, err := h.merchants.CreateMerchant(c.Request.Context(), merchant.CreateMerchantInput{
		Name:     req.Name,
		Slug:     req.Slug,
		Password: req.Password,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "id": m.ID})
}

func (h *Handler) listMerchants(c *gin.Context) {
	list, err := h.merchants.ListMerchants(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	// Newest first; passwords never leave the server
	rows := make([]gin.H, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		m := list[i]
		rows = append(rows, gin.H{"id": m.ID, "name": m.Name, "slug": m.Slug, "created_at": m.CreatedAt})
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "merchants": rows})
}

func (h *Handler) merchantLogin(c *gin.Context) {
	var req struct {
		Slug     string `json:"slug"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, errors.InvalidArgument("missing fields"))
		return
	}
	m, err := h.merchants.GetMerchantBySlug(c.Request.Context(), req.Slug)
	if err != nil || m.Password != req.Password {
		fail(c, errors.Unauthenticated("invalid"))
		return
	}
	token, err := h.issueToken(roleMerchant, m.ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":       true,
		"token":    token,
		"merchant": gin.H{"id": m.ID, "name": m.Name},
	})
}

func (h *Handler) listProducts(c *gin.Context) {
	merchantID, err := strconv.ParseInt(c.Query("merchant_id"), 10, 64)
	if err != nil {
		fail(c, errors.InvalidArgument("merchant_id required"))
		return
	}
	products, err := h.merchants.ListProductsByMerchant(c.Request.Context(), merchantID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "products": products})
}

func (h *Handler) createProduct(c *gin.Context) {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Price       int64  `json:"price"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Title == "" {
		fail(c, errors.InvalidArgument("title required"))
		return
	}
	p, err := h.merchants.CreateProduct(c.Request.Context(), merchant.CreateProductInput{
		MerchantID:  merchantIDFrom(c),
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "product": p})
}

func (h *Handler) createOrder(c *gin.Context) {
	var req struct {
		MerchantID   int64 `json:"merchant_id"`
		TelegramUser struct {
			ID        int64  `json:"id"`
			FirstName string `json:"first_name"`
		} `json:"telegram_user"`
		Items []merchant.OrderItem `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.MerchantID == 0 || req.TelegramUser.ID == 0 {
		fail(c, errors.InvalidArgument("missing merchant_id or telegram_user"))
		return
	}
	o, err := h.merchants.CreateOrder(c.Request.Context(), merchant.CreateOrderInput{
		MerchantID: req.MerchantID,
		BuyerID:    req.TelegramUser.ID,
		BuyerName:  req.TelegramUser.FirstName,
		Items:      req.Items,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "id": o.ID})
}

func (h *Handler) validateInit(c *gin.Context) {
	var req struct {
		InitData string `json:"init_data"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, errors.InvalidArgument("init_data required"))
		return
	}
	res, err := initdata.Validate(req.InitData, h.botToken)
	if err != nil {
		fail(c, err)
		return
	}
	if res.Valid {
		c.JSON(http.StatusOK, gin.H{"ok": true, "valid": true, "data": res.Data})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "valid": false, "expected": res.Expected, "provided": res.Provided})
}

// fail renders an error with its mapped HTTP status
func fail(c *gin.Context, err error) {
	c.JSON(errors.GetCode(err).HTTPStatus(), gin.H{"ok": false, "error": errors.GetMessage(err)})
}
