package handler

import (
	"fmt"
	"net/http"

	model "auction-house/internal/models"
	"auction-house/services/auction/helpers"
	"auction-house/utils"

	"github.com/gin-gonic/gin"
)

type CommentServiceInterface interface {
	AddComment(authorID, listingID, text string) (model.Comment, error)
	GetComments(listingID string) ([]model.Comment, error)
}

type CommentHandler struct {
	service CommentServiceInterface
}

func NewCommentHandler(service CommentServiceInterface) *CommentHandler {
	return &CommentHandler{service: service}
}

// AddCommentHandler handles POST /listings/:listing_id/comments
func (h *CommentHandler) AddCommentHandler(c *gin.Context) {
	listingID := c.Param("listing_id")

	var req helpers.AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "AddCommentHandler", err)
		return
	}

	cm, err := h.service.AddComment(req.AuthorID, listingID, req.Text)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("AddCommentHandler: error adding comment", map[string]any{
			"listing_id": listingID,
			"author_id":  req.AuthorID,
			"error":      err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.NewCommentResponse(cm), "comment added successfully")
	helpers.LogSuccess("AddCommentHandler", "comment added successfully", map[string]any{
		"comment_id": cm.CommentID,
		"listing_id": cm.ListingID,
		"author_id":  cm.AuthorID,
	})
}

// GetCommentsHandler handles GET /listings/:listing_id/comments
func (h *CommentHandler) GetCommentsHandler(c *gin.Context) {
	listingID := c.Param("listing_id")

	comments, err := h.service.GetComments(listingID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetCommentsHandler: error retrieving comments", map[string]any{"listing_id": listingID, "error": err.Error()})
		return
	}

	resp := make([]helpers.CommentResponse, 0, len(comments))
	for _, cm := range comments {
		resp = append(resp, helpers.NewCommentResponse(cm))
	}

	utils.JSONResponse(c, http.StatusOK, resp, "comments retrieved successfully")
	helpers.LogSuccess("GetCommentsHandler", "comments retrieved successfully", map[string]any{
		"listing_id": listingID,
		"count":      len(resp),
	})
}
