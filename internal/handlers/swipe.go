package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tidefeed/tidefeed-backend/internal/logger"
	"github.com/tidefeed/tidefeed-backend/internal/requestdata"
	"github.com/tidefeed/tidefeed-backend/internal/services"
)

type SwipeHandler struct {
	log          *logger.Logger
	swipeService services.SwipeService
}

func NewSwipeHandler(log *logger.Logger, swipeService services.SwipeService) *SwipeHandler {
	handlerLog := log.With("handler", "SwipeHandler")
	return &SwipeHandler{log: handlerLog, swipeService: swipeService}
}

type likedArticleResponse struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	URL    string `json:"url"`
	Source string `json:"source"`
}

func (sh *SwipeHandler) RecordSwipe(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token")
		return
	}
	// Pointer fields so an absent "liked": false is distinguishable from a
	// missing field.
	var req struct {
		ArticleID *int64 `json:"articleId"`
		Liked     *bool  `json:"liked"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ArticleID == nil || req.Liked == nil {
		RespondError(c, http.StatusBadRequest, "missing_fields", "articleId and liked are required")
		return
	}
	swipe, err := sh.swipeService.RecordSwipe(c.Request.Context(), rd.UserID, *req.ArticleID, *req.Liked)
	if err != nil {
		sh.log.Error("Failed to record swipe", "user_id", rd.UserID, "article_id", *req.ArticleID, "error", err)
		RespondError(c, http.StatusInternalServerError, "internal", "something went wrong")
		return
	}
	c.JSON(http.StatusCreated, swipe)
}

func (sh *SwipeHandler) ResetSwipes(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token")
		return
	}
	if err := sh.swipeService.ResetSwipes(c.Request.Context(), rd.UserID); err != nil {
		sh.log.Error("Failed to reset swipes", "user_id", rd.UserID, "error", err)
		RespondError(c, http.StatusInternalServerError, "internal", "something went wrong")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "swipe history cleared"})
}

func (sh *SwipeHandler) GetStats(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token")
		return
	}
	stats, err := sh.swipeService.GetStats(c.Request.Context(), rd.UserID)
	if err != nil {
		sh.log.Error("Failed to compute stats", "user_id", rd.UserID, "error", err)
		RespondError(c, http.StatusInternalServerError, "internal", "something went wrong")
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (sh *SwipeHandler) GetLikedArticles(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token")
		return
	}
	articles, err := sh.swipeService.GetLikedArticles(c.Request.Context(), rd.UserID)
	if err != nil {
		sh.log.Error("Failed to load liked articles", "user_id", rd.UserID, "error", err)
		RespondError(c, http.StatusInternalServerError, "internal", "something went wrong")
		return
	}
	out := make([]likedArticleResponse, 0, len(articles))
	for _, a := range articles {
		out = append(out, likedArticleResponse{
			ID:     a.ID,
			Title:  a.Title,
			URL:    a.URL,
			Source: a.Source,
		})
	}
	c.JSON(http.StatusOK, out)
}
