package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tidefeed/tidefeed-backend/internal/logger"
	"github.com/tidefeed/tidefeed-backend/internal/requestdata"
	"github.com/tidefeed/tidefeed-backend/internal/services"
	"github.com/tidefeed/tidefeed-backend/internal/types"
)

type FeedHandler struct {
	log         *logger.Logger
	feedService services.FeedService
}

func NewFeedHandler(log *logger.Logger, feedService services.FeedService) *FeedHandler {
	handlerLog := log.With("handler", "FeedHandler")
	return &FeedHandler{log: handlerLog, feedService: feedService}
}

func (fh *FeedHandler) GetFeed(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token")
		return
	}
	feed, err := fh.feedService.BuildFeed(c.Request.Context(), rd.UserID)
	if err != nil {
		fh.log.Error("Feed assembly failed", "user_id", rd.UserID, "error", err)
		RespondError(c, http.StatusInternalServerError, "internal", "something went wrong")
		return
	}
	if feed == nil {
		feed = []*types.Article{}
	}
	c.JSON(http.StatusOK, feed)
}
