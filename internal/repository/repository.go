package repository

import (
	"fmt"
	"sync"

	"auction-house/internal/auctionerrors"
	model "auction-house/internal/models"
)

// AuctionDB defines the storage surface for the auction system. It is the
// only mutation/query path for listings, bids, categories, comments and
// watchlists; no other code touches these entities directly.
type AuctionDB interface {
	// Listings
	AddListing(listing model.Listing) error
	GetListing(listingID string) (model.Listing, error)
	ListListings() ([]model.Listing, error)
	ListListingsByCategory(categoryID string) ([]model.Listing, error)
	// CloseListing flips a listing to closed. Reapplying to an already
	// closed listing is a no-op; a closed listing never reopens.
	CloseListing(listingID string) error
	// DeleteListing removes a listing and runs the listingCascades rules
	// (bids, comments and watchlist entries go with it).
	DeleteListing(listingID string) error

	// Bids. RecordBid is the one atomic unit in the system: the expiry
	// check, the floor read and the insert happen under a single
	// serialization point per listing, with bid.CreatedAt as the clock
	// instant for the expiry check. A listing found expired here has its
	// status flipped to closed even though the bid is rejected.
	RecordBid(bid model.Bid) error
	GetBidsByListing(listingID string) ([]model.Bid, error)
	GetWinningBid(listingID string) (model.Bid, error)
	GetListingsByUser(userID string) ([]model.Listing, error)

	// Categories
	AddCategory(category model.Category) error
	GetCategory(categoryID string) (model.Category, error)
	ListCategories() ([]model.Category, error)
	DefaultCategory() (model.Category, error)
	// DeleteCategory runs the categoryCascades rules: dependent listings
	// are reassigned to the default category, never deleted. The default
	// category itself cannot be removed.
	DeleteCategory(categoryID string) error
	// CountActiveListings counts listings referencing the category whose
	// stored status is open. The count is recomputed on every call.
	CountActiveListings(categoryID string) (int, error)

	// Comments
	AddComment(comment model.Comment) error
	GetCommentsByListing(listingID string) ([]model.Comment, error)

	// Watchlists. Add and Remove are idempotent set operations.
	AddToWatchlist(userID, listingID string) error
	RemoveFromWatchlist(userID, listingID string) error
	GetWatchlist(userID string) ([]model.Listing, error)
}

// DefaultCategoryName is the name of the system fallback category that
// listings are filed under when created without one or when their
// category is deleted.
const DefaultCategoryName = "Misc"

// MemoryRepo is a concurrency-safe in-memory implementation of AuctionDB
type MemoryRepo struct {
	mu           sync.RWMutex
	listings     map[string]model.Listing
	bids         map[string][]model.Bid        // key: listingID
	comments     map[string][]model.Comment    // key: listingID
	categories   map[string]model.Category     // key: categoryID
	watchlists   map[string]map[string]bool    // key: userID -> set of listingIDs
	userListings map[string][]string           // key: userID -> listingIDs the user has bid on
	defaultCatID string
}

// NewMemoryRepo creates a new in-memory repository with the default
// category already seeded.
func NewMemoryRepo() *MemoryRepo {
	r := &MemoryRepo{
		listings:     make(map[string]model.Listing),
		bids:         make(map[string][]model.Bid),
		comments:     make(map[string][]model.Comment),
		categories:   make(map[string]model.Category),
		watchlists:   make(map[string]map[string]bool),
		userListings: make(map[string][]string),
	}
	def := model.Category{CategoryID: "category-default", Name: DefaultCategoryName, Slug: "misc"}
	r.categories[def.CategoryID] = def
	r.defaultCatID = def.CategoryID
	return r
}

// AddListing stores a new listing. The listing's category must exist.
func (r *MemoryRepo) AddListing(listing model.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.categories[listing.CategoryID]; !ok {
		return fmt.Errorf("add listing %s: category %s: %w", listing.ListingID, listing.CategoryID, auctionerrors.ErrCategoryNotFound)
	}
	r.listings[listing.ListingID] = listing
	return nil
}

// GetListing returns a listing by id.
func (r *MemoryRepo) GetListing(listingID string) (model.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	listing, ok := r.listings[listingID]
	if !ok {
		return model.Listing{}, fmt.Errorf("get listing %s: %w", listingID, auctionerrors.ErrListingNotFound)
	}
	return listing, nil
}

// ListListings returns all listings with their stored status. Listings
// past their end time that nobody has queried for finished-state are
// still reported open here.
func (r *MemoryRepo) ListListings() ([]model.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	listings := make([]model.Listing, 0, len(r.listings))
	for _, l := range r.listings {
		listings = append(listings, l)
	}
	return listings, nil
}

// ListListingsByCategory returns all listings filed under a category.
func (r *MemoryRepo) ListListingsByCategory(categoryID string) ([]model.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.categories[categoryID]; !ok {
		return nil, fmt.Errorf("list listings for category %s: %w", categoryID, auctionerrors.ErrCategoryNotFound)
	}

	var listings []model.Listing
	for _, l := range r.listings {
		if l.CategoryID == categoryID {
			listings = append(listings, l)
		}
	}
	return listings, nil
}

// CloseListing marks a listing closed. Idempotent; never reopens.
func (r *MemoryRepo) CloseListing(listingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	listing, ok := r.listings[listingID]
	if !ok {
		return fmt.Errorf("close listing %s: %w", listingID, auctionerrors.ErrListingNotFound)
	}
	if listing.Status == model.StatusClosed {
		return nil
	}
	listing.Status = model.StatusClosed
	r.listings[listingID] = listing
	return nil
}

// DeleteListing removes a listing and everything that depends on it,
// following the listingCascades rules.
func (r *MemoryRepo) DeleteListing(listingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.listings[listingID]; !ok {
		return fmt.Errorf("delete listing %s: %w", listingID, auctionerrors.ErrListingNotFound)
	}

	for _, rule := range listingCascades {
		switch rule.Child {
		case childBids:
			delete(r.bids, listingID)
			for userID, ids := range r.userListings {
				r.userListings[userID] = removeID(ids, listingID)
			}
		case childComments:
			delete(r.comments, listingID)
		case childWatchlistEntries:
			for _, set := range r.watchlists {
				delete(set, listingID)
			}
		}
	}

	delete(r.listings, listingID)
	return nil
}

// RecordBid validates and appends a bid as one atomic unit. The expiry
// check, the floor read and the insert all happen under the write lock so
// two concurrent bids on the same listing serialize and the second one is
// validated against the first one's amount.
func (r *MemoryRepo) RecordBid(bid model.Bid) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	listing, ok := r.listings[bid.ListingID]
	if !ok {
		return fmt.Errorf("record bid for listing %s: %w", bid.ListingID, auctionerrors.ErrListingNotFound)
	}

	if model.ComputeStatus(bid.CreatedAt, listing.EndTime, listing.Status) == model.StatusClosed {
		// The expiry was observed, so the flip is persisted even though
		// the bid itself is rejected.
		if listing.Status == model.StatusOpen {
			listing.Status = model.StatusClosed
			r.listings[listing.ListingID] = listing
		}
		return fmt.Errorf("record bid for listing %s: %w", bid.ListingID, auctionerrors.ErrAuctionClosed)
	}

	floor := listing.BasePrice
	for _, b := range r.bids[bid.ListingID] {
		if b.Amount > floor {
			floor = b.Amount
		}
	}
	if bid.Amount <= floor {
		return fmt.Errorf("record bid of %d on listing %s: current floor is %d: %w", bid.Amount, bid.ListingID, floor, auctionerrors.ErrBidTooLow)
	}

	r.bids[bid.ListingID] = append(r.bids[bid.ListingID], bid)

	for _, id := range r.userListings[bid.BidderID] {
		if id == bid.ListingID {
			return nil
		}
	}
	r.userListings[bid.BidderID] = append(r.userListings[bid.BidderID], bid.ListingID)

	return nil
}

// GetBidsByListing returns all bids for a listing.
func (r *MemoryRepo) GetBidsByListing(listingID string) ([]model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bids, ok := r.bids[listingID]
	if !ok || len(bids) == 0 {
		return nil, fmt.Errorf("get bids for listing %s: %w", listingID, auctionerrors.ErrNoBids)
	}
	return append([]model.Bid(nil), bids...), nil
}

// GetWinningBid returns the highest bid for a listing. Equal amounts
// cannot occur under the strict floor check; if a data anomaly produces
// them anyway, the most recent bid wins.
func (r *MemoryRepo) GetWinningBid(listingID string) (model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bids, ok := r.bids[listingID]
	if !ok || len(bids) == 0 {
		return model.Bid{}, fmt.Errorf("get winning bid for listing %s: %w", listingID, auctionerrors.ErrNoBids)
	}

	winning := bids[0]
	for _, b := range bids[1:] {
		if b.Amount > winning.Amount || (b.Amount == winning.Amount && b.CreatedAt.After(winning.CreatedAt)) {
			winning = b
		}
	}
	return winning, nil
}

// GetListingsByUser returns all listings a user has bid on.
func (r *MemoryRepo) GetListingsByUser(userID string) ([]model.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	listingIDs, ok := r.userListings[userID]
	if !ok || len(listingIDs) == 0 {
		return nil, fmt.Errorf("get listings for user %s: %w", userID, auctionerrors.ErrUserNoBids)
	}

	listings := make([]model.Listing, 0, len(listingIDs))
	for _, id := range listingIDs {
		if listing, exists := r.listings[id]; exists {
			listings = append(listings, listing)
		}
	}
	return listings, nil
}

// AddCategory stores a new category.
func (r *MemoryRepo) AddCategory(category model.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.categories[category.CategoryID] = category
	return nil
}

// GetCategory returns a category by id.
func (r *MemoryRepo) GetCategory(categoryID string) (model.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	category, ok := r.categories[categoryID]
	if !ok {
		return model.Category{}, fmt.Errorf("get category %s: %w", categoryID, auctionerrors.ErrCategoryNotFound)
	}
	return category, nil
}

// ListCategories returns all categories.
func (r *MemoryRepo) ListCategories() ([]model.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	categories := make([]model.Category, 0, len(r.categories))
	for _, c := range r.categories {
		categories = append(categories, c)
	}
	return categories, nil
}

// DefaultCategory returns the system fallback category.
func (r *MemoryRepo) DefaultCategory() (model.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.categories[r.defaultCatID], nil
}

// DeleteCategory removes a category, reassigning its listings to the
// default category per the categoryCascades rules.
func (r *MemoryRepo) DeleteCategory(categoryID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if categoryID == r.defaultCatID {
		return fmt.Errorf("delete category %s: %w", categoryID, auctionerrors.ErrDefaultCategory)
	}
	if _, ok := r.categories[categoryID]; !ok {
		return fmt.Errorf("delete category %s: %w", categoryID, auctionerrors.ErrCategoryNotFound)
	}

	for _, rule := range categoryCascades {
		if rule.Child == childListings && rule.Action == CascadeReassign {
			for id, l := range r.listings {
				if l.CategoryID == categoryID {
					l.CategoryID = r.defaultCatID
					r.listings[id] = l
				}
			}
		}
	}

	delete(r.categories, categoryID)
	return nil
}

// CountActiveListings recomputes the number of open listings under a
// category. The value is never cached.
func (r *MemoryRepo) CountActiveListings(categoryID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.categories[categoryID]; !ok {
		return 0, fmt.Errorf("count active listings for category %s: %w", categoryID, auctionerrors.ErrCategoryNotFound)
	}

	count := 0
	for _, l := range r.listings {
		if l.CategoryID == categoryID && l.Status == model.StatusOpen {
			count++
		}
	}
	return count, nil
}

// AddComment appends a comment to a listing's thread.
func (r *MemoryRepo) AddComment(comment model.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.listings[comment.ListingID]; !ok {
		return fmt.Errorf("add comment to listing %s: %w", comment.ListingID, auctionerrors.ErrListingNotFound)
	}
	r.comments[comment.ListingID] = append(r.comments[comment.ListingID], comment)
	return nil
}

// GetCommentsByListing returns a listing's comments in append order.
func (r *MemoryRepo) GetCommentsByListing(listingID string) ([]model.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.listings[listingID]; !ok {
		return nil, fmt.Errorf("get comments for listing %s: %w", listingID, auctionerrors.ErrListingNotFound)
	}
	return append([]model.Comment(nil), r.comments[listingID]...), nil
}

// AddToWatchlist puts a listing on a user's watchlist. Adding an already
// watched listing is a no-op.
func (r *MemoryRepo) AddToWatchlist(userID, listingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.listings[listingID]; !ok {
		return fmt.Errorf("watch listing %s: %w", listingID, auctionerrors.ErrListingNotFound)
	}
	if r.watchlists[userID] == nil {
		r.watchlists[userID] = make(map[string]bool)
	}
	r.watchlists[userID][listingID] = true
	return nil
}

// RemoveFromWatchlist takes a listing off a user's watchlist. Removing an
// absent listing is a no-op.
func (r *MemoryRepo) RemoveFromWatchlist(userID, listingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.watchlists[userID], listingID)
	return nil
}

// GetWatchlist returns the listings a user is watching, in no particular
// order.
func (r *MemoryRepo) GetWatchlist(userID string) ([]model.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	listings := make([]model.Listing, 0, len(r.watchlists[userID]))
	for id := range r.watchlists[userID] {
		if listing, ok := r.listings[id]; ok {
			listings = append(listings, listing)
		}
	}
	return listings, nil
}

func removeID(ids []string, target string) []string {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}
