package auctionerrors

import "errors"

// Repository-level errors
var (
	ErrListingNotFound  = errors.New("listing not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrNoBids           = errors.New("no bids found for listing")
	ErrUserNoBids       = errors.New("user has not placed any bids")
)

// business logic errors
var (
	ErrValidation      = errors.New("invalid input")
	ErrAuctionClosed   = errors.New("auction closed")
	ErrBidTooLow       = errors.New("bid amount too low")
	ErrNotOwner        = errors.New("requester does not own listing")
	ErrDefaultCategory = errors.New("default category cannot be deleted")
)
