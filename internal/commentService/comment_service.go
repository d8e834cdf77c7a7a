package comment

import (
	"fmt"
	"time"

	"auction-house/internal/auctionerrors"
	"auction-house/internal/models"
	"auction-house/internal/repository"
	"auction-house/utils"
)

// CommentService keeps the append-only discussion thread per listing.
// Comments are immutable; there is no edit or delete operation.
type CommentService struct {
	repo repository.AuctionDB
	now  func() time.Time
}

// NewCommentService creates a CommentService using the wall clock.
func NewCommentService(repo repository.AuctionDB) *CommentService {
	return NewCommentServiceWithClock(repo, func() time.Time { return time.Now().UTC() })
}

// NewCommentServiceWithClock creates a CommentService with an injected
// clock for tests.
func NewCommentServiceWithClock(repo repository.AuctionDB, now func() time.Time) *CommentService {
	return &CommentService{repo: repo, now: now}
}

// AddComment appends a timestamped comment to a listing's thread.
func (s *CommentService) AddComment(authorID, listingID, text string) (models.Comment, error) {
	if authorID == "" || listingID == "" {
		return models.Comment{}, fmt.Errorf("service: %w - missing authorID or listingID", auctionerrors.ErrValidation)
	}
	if text == "" {
		return models.Comment{}, fmt.Errorf("service: %w - empty comment text", auctionerrors.ErrValidation)
	}

	c := models.Comment{
		CommentID: utils.GenerateID(),
		ListingID: listingID,
		AuthorID:  authorID,
		Text:      text,
		CreatedAt: s.now(),
	}
	if err := s.repo.AddComment(c); err != nil {
		return models.Comment{}, fmt.Errorf("service: failed to add comment to listing %s: %w", listingID, err)
	}
	return c, nil
}

// GetComments returns a listing's comments in append order.
func (s *CommentService) GetComments(listingID string) ([]models.Comment, error) {
	if listingID == "" {
		return nil, fmt.Errorf("service: %w - empty listing ID", auctionerrors.ErrValidation)
	}
	comments, err := s.repo.GetCommentsByListing(listingID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get comments for listing %s: %w", listingID, err)
	}
	return comments, nil
}
