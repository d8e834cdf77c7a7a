package listing

import (
	"fmt"
	"time"

	"auction-house/internal/auctionerrors"
	"auction-house/internal/models"
	"auction-house/internal/repository"
	"auction-house/utils"

	"github.com/gosimple/slug"
)

// ListingService owns the listing lifecycle: creation-time derivation of
// the expiry, the lazy closing check, deletion with its cascades, and
// category bookkeeping.
type ListingService struct {
	repo repository.AuctionDB
	now  func() time.Time
}

// NewListingService creates a ListingService using the wall clock.
func NewListingService(repo repository.AuctionDB) *ListingService {
	return NewListingServiceWithClock(repo, func() time.Time { return time.Now().UTC() })
}

// NewListingServiceWithClock creates a ListingService with an injected
// clock, used by tests to control expiry.
func NewListingServiceWithClock(repo repository.AuctionDB, now func() time.Time) *ListingService {
	return &ListingService{repo: repo, now: now}
}

// CreateListing validates input and stores a new open listing. The end
// time is derived once from the creation instant and the duration and is
// never recomputed. An empty categoryID files the listing under the
// default category.
func (s *ListingService) CreateListing(ownerID, title, description, categoryID string, basePrice int64, duration models.Duration, image string) (models.Listing, error) {
	if ownerID == "" {
		return models.Listing{}, fmt.Errorf("service: %w - missing owner ID", auctionerrors.ErrValidation)
	}
	if title == "" {
		return models.Listing{}, fmt.Errorf("service: %w - empty title", auctionerrors.ErrValidation)
	}
	if basePrice < 0 {
		return models.Listing{}, fmt.Errorf("service: %w - negative base price %d", auctionerrors.ErrValidation, basePrice)
	}
	if !duration.Valid() {
		return models.Listing{}, fmt.Errorf("service: %w - duration %d days is not one of 3, 7, 14, 28", auctionerrors.ErrValidation, duration)
	}

	if categoryID == "" {
		def, err := s.repo.DefaultCategory()
		if err != nil {
			return models.Listing{}, fmt.Errorf("service: failed to resolve default category: %w", err)
		}
		categoryID = def.CategoryID
	} else if _, err := s.repo.GetCategory(categoryID); err != nil {
		return models.Listing{}, fmt.Errorf("service: %w", err)
	}

	createdAt := s.now()
	listing := models.Listing{
		ListingID:   utils.GenerateID(),
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		CategoryID:  categoryID,
		BasePrice:   basePrice,
		Status:      models.StatusOpen,
		Image:       image,
		Duration:    duration,
		CreatedAt:   createdAt,
		EndTime:     duration.EndTime(createdAt),
	}

	if err := s.repo.AddListing(listing); err != nil {
		return models.Listing{}, fmt.Errorf("service: failed to add listing %s: %w", listing.ListingID, err)
	}
	return listing, nil
}

// IsFinished reports whether the listing's auction is over, applying the
// lazy closing check: if the stored status is open but the end time has
// passed, the flip to closed is persisted as a side effect. The check is
// idempotent; a closed listing stays closed.
func (s *ListingService) IsFinished(listingID string) (bool, error) {
	if listingID == "" {
		return false, fmt.Errorf("service: %w - empty listing ID", auctionerrors.ErrValidation)
	}

	listing, err := s.repo.GetListing(listingID)
	if err != nil {
		return false, fmt.Errorf("service: %w", err)
	}

	if models.ComputeStatus(s.now(), listing.EndTime, listing.Status) == models.StatusOpen {
		return false, nil
	}
	if listing.Status == models.StatusOpen {
		if err := s.repo.CloseListing(listingID); err != nil {
			return false, fmt.Errorf("service: failed to close listing %s: %w", listingID, err)
		}
	}
	return true, nil
}

// GetListing returns a listing with the lazy closing check applied, so
// the status in the result reflects the current instant.
func (s *ListingService) GetListing(listingID string) (models.Listing, error) {
	if listingID == "" {
		return models.Listing{}, fmt.Errorf("service: %w - empty listing ID", auctionerrors.ErrValidation)
	}

	finished, err := s.IsFinished(listingID)
	if err != nil {
		return models.Listing{}, err
	}

	listing, err := s.repo.GetListing(listingID)
	if err != nil {
		return models.Listing{}, fmt.Errorf("service: %w", err)
	}
	if finished {
		listing.Status = models.StatusClosed
	}
	return listing, nil
}

// ListListings returns all listings with their stored status. Expired
// listings that have never been queried for finished-state still show as
// open here; only the per-listing checks apply the flip.
func (s *ListingService) ListListings() ([]models.Listing, error) {
	listings, err := s.repo.ListListings()
	if err != nil {
		return nil, fmt.Errorf("service: failed to list listings: %w", err)
	}
	return listings, nil
}

// ListListingsByCategory returns all listings filed under a category,
// with their stored status.
func (s *ListingService) ListListingsByCategory(categoryID string) ([]models.Listing, error) {
	if categoryID == "" {
		return nil, fmt.Errorf("service: %w - empty category ID", auctionerrors.ErrValidation)
	}
	listings, err := s.repo.ListListingsByCategory(categoryID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list listings for category %s: %w", categoryID, err)
	}
	return listings, nil
}

// DeleteListing removes a listing on behalf of its owner. Bids, comments
// and watchlist entries are removed with it.
func (s *ListingService) DeleteListing(listingID, requesterID string) error {
	if listingID == "" || requesterID == "" {
		return fmt.Errorf("service: %w - missing listingID or requesterID", auctionerrors.ErrValidation)
	}

	listing, err := s.repo.GetListing(listingID)
	if err != nil {
		return fmt.Errorf("service: %w", err)
	}
	if listing.OwnerID != requesterID {
		return fmt.Errorf("service: user %s on listing %s: %w", requesterID, listingID, auctionerrors.ErrNotOwner)
	}

	if err := s.repo.DeleteListing(listingID); err != nil {
		return fmt.Errorf("service: failed to delete listing %s: %w", listingID, err)
	}
	return nil
}

// CreateCategory stores a new category with a slug derived from its name.
func (s *ListingService) CreateCategory(name string) (models.Category, error) {
	if name == "" {
		return models.Category{}, fmt.Errorf("service: %w - empty category name", auctionerrors.ErrValidation)
	}

	category := models.Category{
		CategoryID: utils.GenerateID(),
		Name:       name,
		Slug:       slug.Make(name),
	}
	if err := s.repo.AddCategory(category); err != nil {
		return models.Category{}, fmt.Errorf("service: failed to add category %s: %w", name, err)
	}
	return category, nil
}

// GetCategory returns a category by id.
func (s *ListingService) GetCategory(categoryID string) (models.Category, error) {
	if categoryID == "" {
		return models.Category{}, fmt.Errorf("service: %w - empty category ID", auctionerrors.ErrValidation)
	}
	category, err := s.repo.GetCategory(categoryID)
	if err != nil {
		return models.Category{}, fmt.Errorf("service: %w", err)
	}
	return category, nil
}

// ListCategories returns all categories.
func (s *ListingService) ListCategories() ([]models.Category, error) {
	categories, err := s.repo.ListCategories()
	if err != nil {
		return nil, fmt.Errorf("service: failed to list categories: %w", err)
	}
	return categories, nil
}

// DeleteCategory removes a category; its listings move to the default
// category. The default category itself cannot be deleted.
func (s *ListingService) DeleteCategory(categoryID string) error {
	if categoryID == "" {
		return fmt.Errorf("service: %w - empty category ID", auctionerrors.ErrValidation)
	}
	if err := s.repo.DeleteCategory(categoryID); err != nil {
		return fmt.Errorf("service: failed to delete category %s: %w", categoryID, err)
	}
	return nil
}

// CountActiveListings returns the number of open listings under a
// category, recomputed on every call.
func (s *ListingService) CountActiveListings(categoryID string) (int, error) {
	if categoryID == "" {
		return 0, fmt.Errorf("service: %w - empty category ID", auctionerrors.ErrValidation)
	}
	count, err := s.repo.CountActiveListings(categoryID)
	if err != nil {
		return 0, fmt.Errorf("service: %w", err)
	}
	return count, nil
}
