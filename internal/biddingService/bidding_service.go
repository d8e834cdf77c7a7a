package bidding

import (
	"fmt"
	"time"

	"auction-house/internal/auctionerrors"
	"auction-house/internal/models"
	"auction-house/internal/repository"
	"auction-house/utils"
)

// BiddingService enforces the bidding rules: bids only on open listings,
// and every bid strictly above the current floor (the highest existing
// bid, or the base price when there are none).
type BiddingService struct {
	repo repository.AuctionDB
	now  func() time.Time
}

// NewBiddingService creates a BiddingService using the wall clock.
func NewBiddingService(repo repository.AuctionDB) *BiddingService {
	return NewBiddingServiceWithClock(repo, func() time.Time { return time.Now().UTC() })
}

// NewBiddingServiceWithClock creates a BiddingService with an injected
// clock for tests.
func NewBiddingServiceWithClock(repo repository.AuctionDB, now func() time.Time) *BiddingService {
	return &BiddingService{repo: repo, now: now}
}

// PlaceBid validates input and records a bid. The authoritative
// open/closed and floor checks happen inside the repository's atomic
// RecordBid, so a bid submitted the instant after expiry is rejected with
// ErrAuctionClosed (and the observed expiry persisted), and ties with the
// floor are rejected with ErrBidTooLow.
func (s *BiddingService) PlaceBid(listingID, bidderID string, amount int64) (models.Bid, error) {
	if listingID == "" || bidderID == "" {
		return models.Bid{}, fmt.Errorf("service: %w - missing listingID or bidderID", auctionerrors.ErrValidation)
	}
	if amount <= 0 {
		return models.Bid{}, fmt.Errorf("service: %w - non-positive bid amount %d", auctionerrors.ErrValidation, amount)
	}

	bid := models.Bid{
		BidID:     utils.GenerateID(),
		ListingID: listingID,
		BidderID:  bidderID,
		Amount:    amount,
		CreatedAt: s.now(),
	}

	if err := s.repo.RecordBid(bid); err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to record bid on listing %s by user %s: %w", listingID, bidderID, err)
	}
	return bid, nil
}

// GetBidsForListing returns all bids for a listing.
func (s *BiddingService) GetBidsForListing(listingID string) ([]models.Bid, error) {
	if listingID == "" {
		return nil, fmt.Errorf("service: %w - empty listing ID", auctionerrors.ErrValidation)
	}

	bids, err := s.repo.GetBidsByListing(listingID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get bids for listing %s: %w", listingID, err)
	}
	return bids, nil
}

// GetWinningBid returns the highest bid for a listing.
func (s *BiddingService) GetWinningBid(listingID string) (models.Bid, error) {
	if listingID == "" {
		return models.Bid{}, fmt.Errorf("service: %w - empty listing ID", auctionerrors.ErrValidation)
	}

	winningBid, err := s.repo.GetWinningBid(listingID)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to get winning bid for listing %s: %w", listingID, err)
	}
	return winningBid, nil
}

// GetListingsByUser returns all listings a user has placed bids on.
func (s *BiddingService) GetListingsByUser(userID string) ([]models.Listing, error) {
	if userID == "" {
		return nil, fmt.Errorf("service: %w - empty user ID", auctionerrors.ErrValidation)
	}

	listings, err := s.repo.GetListingsByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get listings for user %s: %w", userID, err)
	}
	return listings, nil
}
