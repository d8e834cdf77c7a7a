package handler

import (
	"fmt"
	"net/http"

	model "auction-house/internal/models"
	"auction-house/services/auction/helpers"
	"auction-house/utils"

	"github.com/gin-gonic/gin"
)

type ListingServiceInterface interface {
	CreateListing(ownerID, title, description, categoryID string, basePrice int64, duration model.Duration, image string) (model.Listing, error)
	GetListing(listingID string) (model.Listing, error)
	ListListings() ([]model.Listing, error)
	ListListingsByCategory(categoryID string) ([]model.Listing, error)
	DeleteListing(listingID, requesterID string) error
	CreateCategory(name string) (model.Category, error)
	GetCategory(categoryID string) (model.Category, error)
	ListCategories() ([]model.Category, error)
	DeleteCategory(categoryID string) error
	CountActiveListings(categoryID string) (int, error)
}

type ListingHandler struct {
	service ListingServiceInterface
}

func NewListingHandler(service ListingServiceInterface) *ListingHandler {
	return &ListingHandler{service: service}
}

// CreateListingHandler handles POST /listings
func (h *ListingHandler) CreateListingHandler(c *gin.Context) {
	var req helpers.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateListingHandler", err)
		return
	}

	listing, err := h.service.CreateListing(req.OwnerID, req.Title, req.Description, req.CategoryID,
		req.BasePrice, model.Duration(req.Duration), req.Image)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("CreateListingHandler: failed to create listing", map[string]any{
			"handler":  "CreateListingHandler",
			"owner_id": req.OwnerID,
			"title":    req.Title,
			"error":    err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.NewListingResponse(listing), "listing created successfully")
	helpers.LogSuccess("CreateListingHandler", "listing created successfully", map[string]any{
		"listing_id": listing.ListingID,
		"owner_id":   listing.OwnerID,
		"end_time":   listing.EndTime,
	})
}

// GetListingHandler handles GET /listings/:listing_id. Reading a listing
// through here applies the lazy closing check, so the returned status is
// current.
func (h *ListingHandler) GetListingHandler(c *gin.Context) {
	listingID := c.Param("listing_id")
	listing, err := h.service.GetListing(listingID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetListingHandler: error retrieving listing", map[string]any{"listing_id": listingID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewListingResponse(listing), "listing retrieved successfully")
	helpers.LogSuccess("GetListingHandler", "listing retrieved successfully", map[string]any{
		"listing_id": listing.ListingID,
		"status":     listing.Status,
	})
}

// ListListingsHandler handles GET /listings
func (h *ListingHandler) ListListingsHandler(c *gin.Context) {
	listings, err := h.service.ListListings()
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("ListListingsHandler: error listing listings", map[string]any{"error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewListingResponses(listings), "listings retrieved successfully")
	helpers.LogSuccess("ListListingsHandler", "listings retrieved successfully", map[string]any{
		"count": len(listings),
	})
}

// DeleteListingHandler handles DELETE /listings/:listing_id
func (h *ListingHandler) DeleteListingHandler(c *gin.Context) {
	listingID := c.Param("listing_id")

	var req helpers.DeleteListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "DeleteListingHandler", err)
		return
	}

	if err := h.service.DeleteListing(listingID, req.RequesterID); err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("DeleteListingHandler: error deleting listing", map[string]any{
			"listing_id":   listingID,
			"requester_id": req.RequesterID,
			"error":        err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, gin.H{"listing_id": listingID}, "listing deleted successfully")
	helpers.LogSuccess("DeleteListingHandler", "listing deleted successfully", map[string]any{
		"listing_id": listingID,
	})
}

// ListListingsByCategoryHandler handles GET /categories/:category_id/listings
func (h *ListingHandler) ListListingsByCategoryHandler(c *gin.Context) {
	categoryID := c.Param("category_id")

	listings, err := h.service.ListListingsByCategory(categoryID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("ListListingsByCategoryHandler: error listing category listings", map[string]any{"category_id": categoryID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewListingResponses(listings), "listings retrieved successfully")
	helpers.LogSuccess("ListListingsByCategoryHandler", "listings retrieved successfully", map[string]any{
		"category_id": categoryID,
		"count":       len(listings),
	})
}

// CreateCategoryHandler handles POST /categories
func (h *ListingHandler) CreateCategoryHandler(c *gin.Context) {
	var req helpers.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateCategoryHandler", err)
		return
	}

	category, err := h.service.CreateCategory(req.Name)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("CreateCategoryHandler: failed to create category", map[string]any{"name": req.Name, "error": err.Error()})
		return
	}

	resp := helpers.CategoryResponse{
		CategoryID: category.CategoryID,
		Name:       category.Name,
		Slug:       category.Slug,
	}
	utils.JSONResponse(c, http.StatusCreated, resp, "category created successfully")
	helpers.LogSuccess("CreateCategoryHandler", "category created successfully", map[string]any{
		"category_id": category.CategoryID,
		"name":        category.Name,
	})
}

// GetCategoryHandler handles GET /categories/:category_id. The active
// listing count is recomputed for every request.
func (h *ListingHandler) GetCategoryHandler(c *gin.Context) {
	categoryID := c.Param("category_id")

	category, err := h.service.GetCategory(categoryID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetCategoryHandler: error retrieving category", map[string]any{"category_id": categoryID, "error": err.Error()})
		return
	}

	count, err := h.service.CountActiveListings(categoryID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetCategoryHandler: error counting active listings", map[string]any{"category_id": categoryID, "error": err.Error()})
		return
	}

	resp := helpers.CategoryResponse{
		CategoryID:     category.CategoryID,
		Name:           category.Name,
		Slug:           category.Slug,
		ActiveListings: count,
	}
	utils.JSONResponse(c, http.StatusOK, resp, "category retrieved successfully")
	helpers.LogSuccess("GetCategoryHandler", "category retrieved successfully", map[string]any{
		"category_id":     categoryID,
		"active_listings": count,
	})
}

// ListCategoriesHandler handles GET /categories
func (h *ListingHandler) ListCategoriesHandler(c *gin.Context) {
	categories, err := h.service.ListCategories()
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("ListCategoriesHandler: error listing categories", map[string]any{"error": err.Error()})
		return
	}

	resp := make([]helpers.CategoryResponse, 0, len(categories))
	for _, cat := range categories {
		count, err := h.service.CountActiveListings(cat.CategoryID)
		if err != nil {
			status, message := helpers.MapErrorToHTTP(err)
			utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
			utils.Warn("ListCategoriesHandler: error counting active listings", map[string]any{"category_id": cat.CategoryID, "error": err.Error()})
			return
		}
		resp = append(resp, helpers.CategoryResponse{
			CategoryID:     cat.CategoryID,
			Name:           cat.Name,
			Slug:           cat.Slug,
			ActiveListings: count,
		})
	}

	utils.JSONResponse(c, http.StatusOK, resp, "categories retrieved successfully")
	helpers.LogSuccess("ListCategoriesHandler", "categories retrieved successfully", map[string]any{
		"count": len(resp),
	})
}

// DeleteCategoryHandler handles DELETE /categories/:category_id
func (h *ListingHandler) DeleteCategoryHandler(c *gin.Context) {
	categoryID := c.Param("category_id")

	if err := h.service.DeleteCategory(categoryID); err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("DeleteCategoryHandler: error deleting category", map[string]any{"category_id": categoryID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, gin.H{"category_id": categoryID}, "category deleted successfully")
	helpers.LogSuccess("DeleteCategoryHandler", "category deleted successfully", map[string]any{
		"category_id": categoryID,
	})
}
