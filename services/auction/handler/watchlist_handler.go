package handler

import (
	"fmt"
	"net/http"

	model "auction-house/internal/models"
	"auction-house/services/auction/helpers"
	"auction-house/utils"

	"github.com/gin-gonic/gin"
)

type WatchlistServiceInterface interface {
	Add(userID, listingID string) error
	Remove(userID, listingID string) error
	List(userID string) ([]model.Listing, error)
}

type WatchlistHandler struct {
	service WatchlistServiceInterface
}

func NewWatchlistHandler(service WatchlistServiceInterface) *WatchlistHandler {
	return &WatchlistHandler{service: service}
}

// WatchListingHandler handles PUT /users/:user_id/watchlist/:listing_id.
// Watching a listing twice is a no-op, so the handler is safe to retry.
func (h *WatchlistHandler) WatchListingHandler(c *gin.Context) {
	userID := c.Param("user_id")
	listingID := c.Param("listing_id")

	if err := h.service.Add(userID, listingID); err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("WatchListingHandler: error watching listing", map[string]any{
			"user_id":    userID,
			"listing_id": listingID,
			"error":      err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, gin.H{"user_id": userID, "listing_id": listingID}, "listing watched successfully")
	helpers.LogSuccess("WatchListingHandler", "listing watched successfully", map[string]any{
		"user_id":    userID,
		"listing_id": listingID,
	})
}

// UnwatchListingHandler handles DELETE /users/:user_id/watchlist/:listing_id
func (h *WatchlistHandler) UnwatchListingHandler(c *gin.Context) {
	userID := c.Param("user_id")
	listingID := c.Param("listing_id")

	if err := h.service.Remove(userID, listingID); err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("UnwatchListingHandler: error unwatching listing", map[string]any{
			"user_id":    userID,
			"listing_id": listingID,
			"error":      err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, gin.H{"user_id": userID, "listing_id": listingID}, "listing unwatched successfully")
	helpers.LogSuccess("UnwatchListingHandler", "listing unwatched successfully", map[string]any{
		"user_id":    userID,
		"listing_id": listingID,
	})
}

// GetWatchlistHandler handles GET /users/:user_id/watchlist
func (h *WatchlistHandler) GetWatchlistHandler(c *gin.Context) {
	userID := c.Param("user_id")

	listings, err := h.service.List(userID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetWatchlistHandler: error retrieving watchlist", map[string]any{"user_id": userID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewListingResponses(listings), "watchlist retrieved successfully")
	helpers.LogSuccess("GetWatchlistHandler", "watchlist retrieved successfully", map[string]any{
		"user_id": userID,
		"count":   len(listings),
	})
}
