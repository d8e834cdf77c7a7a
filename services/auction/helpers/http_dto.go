package helpers

// Request/Response DTOs

type CreateListingRequest struct {
	OwnerID     string `json:"owner_id" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	CategoryID  string `json:"category_id"`
	BasePrice   int64  `json:"base_price" binding:"gte=0"`
	Duration    int    `json:"duration" binding:"required"`
	Image       string `json:"image"`
}

type ListingResponse struct {
	ListingID     string `json:"listing_id"`
	OwnerID       string `json:"owner_id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	CategoryID    string `json:"category_id"`
	BasePrice     int64  `json:"base_price"`
	Status        string `json:"status"`
	Image         string `json:"image"`
	Duration      int    `json:"duration"`
	DurationLabel string `json:"duration_label"`
	CreatedAt     string `json:"created_at"`
	EndTime       string `json:"end_time"`
}

type DeleteListingRequest struct {
	RequesterID string `json:"requester_id" binding:"required"`
}

type PlaceBidRequest struct {
	ListingID string `json:"listing_id" binding:"required"`
	BidderID  string `json:"bidder_id" binding:"required"`
	Amount    int64  `json:"amount" binding:"required,gt=0"`
}

type BidResponse struct {
	BidID     string `json:"bid_id"`
	ListingID string `json:"listing_id"`
	BidderID  string `json:"bidder_id"`
	Amount    int64  `json:"amount"`
	CreatedAt string `json:"created_at"`
}

type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

type CategoryResponse struct {
	CategoryID     string `json:"category_id"`
	Name           string `json:"name"`
	Slug           string `json:"slug"`
	ActiveListings int    `json:"active_listings"`
}

type AddCommentRequest struct {
	AuthorID string `json:"author_id" binding:"required"`
	Text     string `json:"text" binding:"required"`
}

type CommentResponse struct {
	CommentID string `json:"comment_id"`
	ListingID string `json:"listing_id"`
	AuthorID  string `json:"author_id"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
}
