package helpers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"auction-house/internal/auctionerrors"
	model "auction-house/internal/models"
	"auction-house/utils"

	"github.com/gin-gonic/gin"
)

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, auctionerrors.ErrListingNotFound):
		return http.StatusNotFound, "listing not found"
	case errors.Is(err, auctionerrors.ErrCategoryNotFound):
		return http.StatusNotFound, "category not found"
	case errors.Is(err, auctionerrors.ErrValidation):
		return http.StatusBadRequest, "invalid request details"
	case errors.Is(err, auctionerrors.ErrBidTooLow):
		return http.StatusConflict, "bid amount too low"
	case errors.Is(err, auctionerrors.ErrAuctionClosed):
		return http.StatusGone, "auction is closed"
	case errors.Is(err, auctionerrors.ErrNotOwner):
		return http.StatusForbidden, "not the listing owner"
	case errors.Is(err, auctionerrors.ErrDefaultCategory):
		return http.StatusConflict, "default category cannot be deleted"
	case errors.Is(err, auctionerrors.ErrNoBids):
		return http.StatusOK, "no bids found for listing"
	case errors.Is(err, auctionerrors.ErrUserNoBids):
		return http.StatusOK, "no listings found for user"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}

// NewListingResponse converts a listing into its transport shape.
func NewListingResponse(l model.Listing) ListingResponse {
	return ListingResponse{
		ListingID:     l.ListingID,
		OwnerID:       l.OwnerID,
		Title:         l.Title,
		Description:   l.Description,
		CategoryID:    l.CategoryID,
		BasePrice:     l.BasePrice,
		Status:        string(l.Status),
		Image:         l.Image,
		Duration:      int(l.Duration),
		DurationLabel: l.Duration.Label(),
		CreatedAt:     l.CreatedAt.UTC().Format(time.RFC3339),
		EndTime:       l.EndTime.UTC().Format(time.RFC3339),
	}
}

// NewListingResponses converts a slice of listings.
func NewListingResponses(listings []model.Listing) []ListingResponse {
	out := make([]ListingResponse, 0, len(listings))
	for _, l := range listings {
		out = append(out, NewListingResponse(l))
	}
	return out
}

// NewBidResponse converts a bid into its transport shape.
func NewBidResponse(b model.Bid) BidResponse {
	return BidResponse{
		BidID:     b.BidID,
		ListingID: b.ListingID,
		BidderID:  b.BidderID,
		Amount:    b.Amount,
		CreatedAt: b.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// NewCommentResponse converts a comment into its transport shape.
func NewCommentResponse(cm model.Comment) CommentResponse {
	return CommentResponse{
		CommentID: cm.CommentID,
		ListingID: cm.ListingID,
		AuthorID:  cm.AuthorID,
		Text:      cm.Text,
		CreatedAt: cm.CreatedAt.UTC().Format(time.RFC3339),
	}
}
