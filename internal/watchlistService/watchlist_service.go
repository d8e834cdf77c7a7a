package watchlist

import (
	"fmt"

	"auction-house/internal/auctionerrors"
	"auction-house/internal/models"
	"auction-house/internal/repository"
)

// WatchlistService maintains per-user saved-listing sets. Add and Remove
// are idempotent: watching an already watched listing or unwatching an
// absent one is a no-op, not an error.
type WatchlistService struct {
	repo repository.AuctionDB
}

// NewWatchlistService creates a new WatchlistService instance
func NewWatchlistService(repo repository.AuctionDB) *WatchlistService {
	return &WatchlistService{repo: repo}
}

// Add puts a listing on the user's watchlist.
func (s *WatchlistService) Add(userID, listingID string) error {
	if userID == "" || listingID == "" {
		return fmt.Errorf("service: %w - missing userID or listingID", auctionerrors.ErrValidation)
	}
	if err := s.repo.AddToWatchlist(userID, listingID); err != nil {
		return fmt.Errorf("service: failed to watch listing %s for user %s: %w", listingID, userID, err)
	}
	return nil
}

// Remove takes a listing off the user's watchlist.
func (s *WatchlistService) Remove(userID, listingID string) error {
	if userID == "" || listingID == "" {
		return fmt.Errorf("service: %w - missing userID or listingID", auctionerrors.ErrValidation)
	}
	if err := s.repo.RemoveFromWatchlist(userID, listingID); err != nil {
		return fmt.Errorf("service: failed to unwatch listing %s for user %s: %w", listingID, userID, err)
	}
	return nil
}

// List returns the listings the user is watching, in no particular order.
func (s *WatchlistService) List(userID string) ([]models.Listing, error) {
	if userID == "" {
		return nil, fmt.Errorf("service: %w - empty user ID", auctionerrors.ErrValidation)
	}
	listings, err := s.repo.GetWatchlist(userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get watchlist for user %s: %w", userID, err)
	}
	return listings, nil
}
