package models

import "time"

// User represents a participant in the auction house. Identity is managed
// by an external account store; this core only carries the stable id and a
// displayable name.
type User struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// Category is a classification tag for listings. The number of active
// listings under a category is never stored here; it is always derived by
// the repository at read time.
type Category struct {
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
}

// Listing represents an auction item. EndTime is derived once at creation
// from CreatedAt plus the duration and is immutable afterwards.
type Listing struct {
	ListingID   string    `json:"listing_id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CategoryID  string    `json:"category_id"`
	BasePrice   int64     `json:"base_price"`
	Status      Status    `json:"status"`
	Image       string    `json:"image"` // opaque reference into external binary storage
	Duration    Duration  `json:"duration"`
	CreatedAt   time.Time `json:"created_at"`
	EndTime     time.Time `json:"end_time"`
}

// Bid represents a user's offer on a listing. Bids are immutable once
// recorded.
type Bid struct {
	BidID     string    `json:"bid_id"`
	ListingID string    `json:"listing_id"`
	BidderID  string    `json:"bidder_id"`
	Amount    int64     `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// Comment is one entry in a listing's append-only discussion thread.
type Comment struct {
	CommentID string    `json:"comment_id"`
	ListingID string    `json:"listing_id"`
	AuthorID  string    `json:"author_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
