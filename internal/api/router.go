package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"decina-service/internal/config"
	"decina-service/internal/middleware"
	"decina-service/internal/service"
	"decina-service/internal/service/game"
	presetSvc "decina-service/internal/service/preset"
	"decina-service/internal/ws"
	pkgAuth "decina-service/pkg/auth"
	appErr "decina-service/pkg/errors"
	"decina-service/pkg/response"
	"decina-service/pkg/utils/random"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	services *service.Container
}

func RegisterRoutes(r *gin.Engine, services *service.Container) {
	handler := &Handler{services: services}
	wsHandler := ws.NewHandler(services.Game)

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{"message": "pong"})
	})

	v1 := r.Group("/decina/v1")
	{
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/guest", handler.GuestLogin)
			authGroup.POST("/admin", handler.AdminLogin)
		}

		playGroup := v1.Group("/")
		playGroup.Use(middleware.AuthRequired())
		{
			playGroup.POST("/games", handler.CreateGame)
			playGroup.GET("/games/:id", handler.GetGame)
			playGroup.POST("/games/:id/draw", handler.DrawCard)
			playGroup.POST("/games/:id/pair", handler.PairCards)

			playGroup.GET("/presets", handler.ListPresets)

			playGroup.GET("/history", handler.ListHistory)
			playGroup.GET("/history/recent", handler.RecentHistory)
			playGroup.GET("/history/summary", handler.HistorySummary)
		}
	}

	adminGroup := r.Group("/admin")
	{
		protected := adminGroup.Group("/")
		protected.Use(middleware.AdminAuthRequired())
		{
			protected.GET("/presets", handler.AdminListPresets)
			protected.POST("/presets", handler.AdminCreatePreset)
			protected.PUT("/presets/:id", handler.AdminUpdatePreset)
		}
	}

	r.GET("/ws/games/:gameId", wsHandler.HandleGameWS)
}

type guestLoginBody struct {
	Nickname string `json:"nickname"`
}

type adminLoginBody struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type createGameBody struct {
	PresetID  *int64 `json:"presetId"`
	TableSize *int   `json:"tableSize"`
	Seed      int64  `json:"seed"`
}

type pairBody struct {
	Cards []string `json:"cards" binding:"required,len=2"`
}

type presetMutationBody struct {
	Name      string `json:"name" binding:"required"`
	TableSize int    `json:"tableSize" binding:"min=0,max=40"`
	Status    string `json:"status"`
}

func (b presetMutationBody) toParams() presetSvc.MutationParams {
	return presetSvc.MutationParams{
		Name:      b.Name,
		TableSize: b.TableSize,
		Status:    b.Status,
	}
}

func (h *Handler) GuestLogin(c *gin.Context) {
	var body guestLoginBody
	_ = c.ShouldBindJSON(&body)

	guestID := random.GuestID()
	nickname := body.Nickname
	if nickname == "" {
		nickname = "guest-" + random.Numeric(6)
	}

	token, expireAt, err := pkgAuth.GenerateGuestToken(guestID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to issue token")
		return
	}

	response.Success(c, gin.H{
		"token":    token,
		"expireAt": expireAt,
		"guestId":  strconv.FormatInt(guestID, 10),
		"nickname": nickname,
	})
}

func (h *Handler) AdminLogin(c *gin.Context) {
	var body adminLoginBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	adminCfg := config.GlobalConfig.Admin
	if adminCfg.Username == "" || body.Username != adminCfg.Username || body.Password != adminCfg.Password {
		response.Error(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, expireAt, err := pkgAuth.GenerateAdminToken(1)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to issue token")
		return
	}
	response.Success(c, gin.H{"token": token, "expireAt": expireAt})
}

func (h *Handler) CreateGame(c *gin.Context) {
	var body createGameBody
	if err := c.ShouldBindJSON(&body); err != nil && c.Request.ContentLength > 0 {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	guestID, ok := getGuestID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	rt, err := h.services.Game.CreateGame(c.Request.Context(), game.CreateParams{
		OwnerID:   guestID,
		PresetID:  body.PresetID,
		TableSize: body.TableSize,
		Seed:      body.Seed,
	})
	if err != nil {
		h.handleGameError(c, err)
		return
	}

	response.Success(c, rt.View())
}

func (h *Handler) GetGame(c *gin.Context) {
	rt, _, ok := h.loadOwnedRuntime(c)
	if !ok {
		return
	}
	response.Success(c, rt.View())
}

func (h *Handler) DrawCard(c *gin.Context) {
	rt, guestID, ok := h.loadOwnedRuntime(c)
	if !ok {
		return
	}

	view, err := rt.Draw(guestID)
	if err != nil {
		h.handleGameError(c, err)
		return
	}
	response.Success(c, view)
}

func (h *Handler) PairCards(c *gin.Context) {
	rt, guestID, ok := h.loadOwnedRuntime(c)
	if !ok {
		return
	}

	var body pairBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	a, b, err := game.ParsePair(body.Cards[0], body.Cards[1])
	if err != nil {
		h.handleGameError(c, err)
		return
	}

	view, err := rt.Pair(guestID, a, b)
	if err != nil {
		h.handleGameError(c, err)
		return
	}
	response.Success(c, view)
}

func (h *Handler) ListPresets(c *gin.Context) {
	presets, err := h.services.Preset.ListEnabled(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(c, gin.H{"items": presets})
}

func (h *Handler) ListHistory(c *gin.Context) {
	guestID, ok := getGuestID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	page, err := parsePositiveIntQuery(c, "page", 1)
	if err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	size, err := parsePositiveIntQuery(c, "size", 20)
	if err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.services.History.List(c.Request.Context(), guestID, page, size)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(c, gin.H{
		"items": result.Items,
		"total": result.Total,
		"page":  page,
		"size":  size,
	})
}

func (h *Handler) RecentHistory(c *gin.Context) {
	limit, err := parsePositiveIntQuery(c, "limit", 20)
	if err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	entries, err := h.services.History.Recent(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(c, gin.H{"items": entries})
}

func (h *Handler) HistorySummary(c *gin.Context) {
	guestID, ok := getGuestID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "unauthorized")
		return
	}
	summary, err := h.services.History.Summary(c.Request.Context(), guestID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(c, summary)
}

func (h *Handler) AdminListPresets(c *gin.Context) {
	page, err := parsePositiveIntQuery(c, "page", 1)
	if err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	size, err := parsePositiveIntQuery(c, "size", 20)
	if err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.services.Preset.AdminList(c.Request.Context(), page, size)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(c, gin.H{
		"items": result.Items,
		"total": result.Total,
		"page":  page,
		"size":  size,
	})
}

func (h *Handler) AdminCreatePreset(c *gin.Context) {
	var body presetMutationBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	preset, err := h.services.Preset.Create(c.Request.Context(), body.toParams())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(c, gin.H{"id": preset.ID})
}

func (h *Handler) AdminUpdatePreset(c *gin.Context) {
	idStr := c.Param("id")
	presetID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || presetID <= 0 {
		response.Error(c, http.StatusBadRequest, "invalid preset id")
		return
	}

	var body presetMutationBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	preset, err := h.services.Preset.Update(c.Request.Context(), presetID, body.toParams())
	if err != nil {
		if errors.Is(err, appErr.ErrPresetNotFound) {
			response.Error(c, http.StatusNotFound, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(c, preset)
}

func (h *Handler) loadOwnedRuntime(c *gin.Context) (*game.GameRuntime, int64, bool) {
	guestID, ok := getGuestID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "unauthorized")
		return nil, 0, false
	}

	rt, err := h.services.Game.GetRuntime(c.Param("id"))
	if err != nil {
		h.handleGameError(c, err)
		return nil, 0, false
	}
	if rt.OwnerID() != guestID {
		response.Error(c, http.StatusForbidden, appErr.ErrGameAccessDenied.Error())
		return nil, 0, false
	}
	return rt, guestID, true
}

func (h *Handler) handleGameError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, appErr.ErrGameNotFound), errors.Is(err, appErr.ErrPresetNotFound):
		response.Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, appErr.ErrGameAccessDenied):
		response.Error(c, http.StatusForbidden, err.Error())
	case errors.Is(err, appErr.ErrGameEnded),
		errors.Is(err, appErr.ErrDeckExhausted),
		errors.Is(err, appErr.ErrPresetDisabled):
		response.Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, appErr.ErrMalformedCardToken),
		errors.Is(err, appErr.ErrInvalidDealConfig),
		errors.Is(err, appErr.ErrCardNotFound),
		errors.Is(err, appErr.ErrCardNotEligible),
		errors.Is(err, appErr.ErrIdenticalCards),
		errors.Is(err, appErr.ErrRankSumMismatch):
		response.Error(c, http.StatusBadRequest, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, err.Error())
	}
}

func parsePositiveIntQuery(c *gin.Context, key string, defaultVal int) (int, error) {
	val := c.Query(key)
	if val == "" {
		return defaultVal, nil
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return parsed, nil
}

func getGuestID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(middleware.ContextGuestIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
