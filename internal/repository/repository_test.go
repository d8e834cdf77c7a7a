package repository

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"auction-house/internal/auctionerrors"
	model "auction-house/internal/models"

	"github.com/stretchr/testify/require"
)

// Helper to create a new open Listing ending in the future
func newListing(listingID, ownerID, categoryID string, basePrice int64) model.Listing {
	createdAt := time.Now().UTC()
	return model.Listing{
		ListingID:   listingID,
		OwnerID:     ownerID,
		Title:       fmt.Sprintf("%s title", listingID),
		Description: fmt.Sprintf("%s description", listingID),
		CategoryID:  categoryID,
		BasePrice:   basePrice,
		Status:      model.StatusOpen,
		Duration:    model.ThreeDays,
		CreatedAt:   createdAt,
		EndTime:     createdAt.AddDate(0, 0, 3),
	}
}

// Helper to create a new Bid
func newBid(bidID, listingID, bidderID string, amount int64, createdAt time.Time) model.Bid {
	return model.Bid{
		BidID:     bidID,
		ListingID: listingID,
		BidderID:  bidderID,
		Amount:    amount,
		CreatedAt: createdAt,
	}
}

func seedListing(t *testing.T, repo *MemoryRepo, listing model.Listing) {
	t.Helper()
	require.NoError(t, repo.AddListing(listing))
}

func defaultCategoryID(t *testing.T, repo *MemoryRepo) string {
	t.Helper()
	def, err := repo.DefaultCategory()
	require.NoError(t, err)
	return def.CategoryID
}

// Test RecordBid floor and closed-auction enforcement
func TestMemoryRepo_RecordBid(t *testing.T) {
	t.Parallel()

	t.Run("first_bid_must_exceed_base_price", func(t *testing.T) {
		t.Parallel()

		repo := NewMemoryRepo()
		seedListing(t, repo, newListing("listing1", "owner1", defaultCategoryID(t, repo), 10))

		// Scenario: base price 10, a bid of 10 ties the floor and is rejected
		err := repo.RecordBid(newBid("bid1", "listing1", "user1", 10, time.Now().UTC()))
		require.ErrorIs(t, err, auctionerrors.ErrBidTooLow)

		// 15 strictly exceeds the floor
		require.NoError(t, repo.RecordBid(newBid("bid2", "listing1", "user1", 15, time.Now().UTC())))
	})

	t.Run("bid_must_exceed_highest_bid", func(t *testing.T) {
		t.Parallel()

		repo := NewMemoryRepo()
		seedListing(t, repo, newListing("listing1", "owner1", defaultCategoryID(t, repo), 10))
		require.NoError(t, repo.RecordBid(newBid("bid1", "listing1", "user1", 50, time.Now().UTC())))

		// Tie with the current highest bid is rejected
		err := repo.RecordBid(newBid("bid2", "listing1", "user2", 50, time.Now().UTC()))
		require.ErrorIs(t, err, auctionerrors.ErrBidTooLow)

		err = repo.RecordBid(newBid("bid3", "listing1", "user2", 40, time.Now().UTC()))
		require.ErrorIs(t, err, auctionerrors.ErrBidTooLow)

		require.NoError(t, repo.RecordBid(newBid("bid4", "listing1", "user2", 51, time.Now().UTC())))
	})

	t.Run("listing_not_found", func(t *testing.T) {
		t.Parallel()

		repo := NewMemoryRepo()
		err := repo.RecordBid(newBid("bid1", "missing", "user1", 100, time.Now().UTC()))
		require.ErrorIs(t, err, auctionerrors.ErrListingNotFound)
	})

	t.Run("expired_listing_rejects_bid_and_persists_close", func(t *testing.T) {
		t.Parallel()

		repo := NewMemoryRepo()
		listing := newListing("listing1", "owner1", defaultCategoryID(t, repo), 10)
		listing.EndTime = time.Now().UTC().Add(-time.Hour)
		seedListing(t, repo, listing)

		err := repo.RecordBid(newBid("bid1", "listing1", "user1", 100, time.Now().UTC()))
		require.ErrorIs(t, err, auctionerrors.ErrAuctionClosed)

		// The observed expiry was persisted even though the bid failed
		stored, err := repo.GetListing("listing1")
		require.NoError(t, err)
		require.Equal(t, model.StatusClosed, stored.Status)
	})

	t.Run("closed_listing_rejects_bid", func(t *testing.T) {
		t.Parallel()

		repo := NewMemoryRepo()
		seedListing(t, repo, newListing("listing1", "owner1", defaultCategoryID(t, repo), 10))
		require.NoError(t, repo.CloseListing("listing1"))

		err := repo.RecordBid(newBid("bid1", "listing1", "user1", 100, time.Now().UTC()))
		require.ErrorIs(t, err, auctionerrors.ErrAuctionClosed)
	})

	// Concurrent bids on one listing must serialize: amounts end up
	// strictly increasing and losers get ErrBidTooLow, never two bids at
	// the same amount.
	t.Run("concurrent_bids_serialize", func(t *testing.T) {
		t.Parallel()

		repo := NewMemoryRepo()
		seedListing(t, repo, newListing("listing1", "owner1", defaultCategoryID(t, repo), 50))

		var wg sync.WaitGroup
		concurrentCount := 50

		// Failures are collected and asserted on the test goroutine
		errs := make(chan error, concurrentCount)

		for i := 0; i < concurrentCount; i++ {
			wg.Add(1)
			i := i
			go func() {
				defer wg.Done()
				b := newBid(fmt.Sprintf("bid-%d", i), "listing1", fmt.Sprintf("user-%d", i), int64(100+i%10), time.Now().UTC())
				if err := repo.RecordBid(b); err != nil {
					errs <- err
				}
			}()
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			require.ErrorIs(t, err, auctionerrors.ErrBidTooLow)
		}

		bids, err := repo.GetBidsByListing("listing1")
		require.NoError(t, err)
		for i := 1; i < len(bids); i++ {
			require.Greater(t, bids[i].Amount, bids[i-1].Amount)
		}
	})
}

// Test GetWinningBid ordering
func TestMemoryRepo_GetWinningBid(t *testing.T) {
	t.Parallel()

	repo := NewMemoryRepo()
	seedListing(t, repo, newListing("listing1", "owner1", defaultCategoryID(t, repo), 10))

	_, err := repo.GetWinningBid("listing1")
	require.ErrorIs(t, err, auctionerrors.ErrNoBids)

	now := time.Now().UTC()
	require.NoError(t, repo.RecordBid(newBid("bid1", "listing1", "user1", 20, now)))
	require.NoError(t, repo.RecordBid(newBid("bid2", "listing1", "user2", 40, now.Add(time.Second))))
	require.NoError(t, repo.RecordBid(newBid("bid3", "listing1", "user3", 60, now.Add(2*time.Second))))

	winning, err := repo.GetWinningBid("listing1")
	require.NoError(t, err)
	require.Equal(t, "bid3", winning.BidID)
	require.Equal(t, int64(60), winning.Amount)
}

// Equal amounts cannot be inserted through RecordBid; if the store ends
// up with them anyway, the most recent bid wins.
func TestMemoryRepo_GetWinningBid_AnomalousTie(t *testing.T) {
	t.Parallel()

	repo := NewMemoryRepo()
	seedListing(t, repo, newListing("listing1", "owner1", defaultCategoryID(t, repo), 10))

	now := time.Now().UTC()
	repo.bids["listing1"] = []model.Bid{
		newBid("bid1", "listing1", "user1", 50, now),
		newBid("bid2", "listing1", "user2", 50, now.Add(time.Second)),
	}

	winning, err := repo.GetWinningBid("listing1")
	require.NoError(t, err)
	require.Equal(t, "bid2", winning.BidID)
}

// Test CloseListing monotonicity
func TestMemoryRepo_CloseListing(t *testing.T) {
	t.Parallel()

	repo := NewMemoryRepo()
	seedListing(t, repo, newListing("listing1", "owner1", defaultCategoryID(t, repo), 10))

	require.NoError(t, repo.CloseListing("listing1"))
	// Idempotent: closing again has no further effect
	require.NoError(t, repo.CloseListing("listing1"))

	stored, err := repo.GetListing("listing1")
	require.NoError(t, err)
	require.Equal(t, model.StatusClosed, stored.Status)

	require.ErrorIs(t, repo.CloseListing("missing"), auctionerrors.ErrListingNotFound)
}

// Test DeleteListing cascades to bids, comments and watchlist entries
func TestMemoryRepo_DeleteListing_Cascades(t *testing.T) {
	t.Parallel()

	repo := NewMemoryRepo()
	seedListing(t, repo, newListing("listing1", "owner1", defaultCategoryID(t, repo), 10))

	now := time.Now().UTC()
	require.NoError(t, repo.RecordBid(newBid("bid1", "listing1", "user1", 20, now)))
	require.NoError(t, repo.AddComment(model.Comment{CommentID: "c1", ListingID: "listing1", AuthorID: "user2", Text: "nice", CreatedAt: now}))
	require.NoError(t, repo.AddToWatchlist("user3", "listing1"))

	require.NoError(t, repo.DeleteListing("listing1"))

	_, err := repo.GetListing("listing1")
	require.ErrorIs(t, err, auctionerrors.ErrListingNotFound)

	_, err = repo.GetBidsByListing("listing1")
	require.ErrorIs(t, err, auctionerrors.ErrNoBids)

	_, err = repo.GetListingsByUser("user1")
	require.ErrorIs(t, err, auctionerrors.ErrUserNoBids)

	watched, err := repo.GetWatchlist("user3")
	require.NoError(t, err)
	require.Empty(t, watched)

	require.ErrorIs(t, repo.DeleteListing("listing1"), auctionerrors.ErrListingNotFound)
}

// Test DeleteCategory reassignment to the default category
func TestMemoryRepo_DeleteCategory_Reassigns(t *testing.T) {
	t.Parallel()

	repo := NewMemoryRepo()
	electronics := model.Category{CategoryID: "category-electronics", Name: "Electronics", Slug: "electronics"}
	require.NoError(t, repo.AddCategory(electronics))

	seedListing(t, repo, newListing("listing1", "owner1", "category-electronics", 10))
	seedListing(t, repo, newListing("listing2", "owner1", "category-electronics", 10))

	require.NoError(t, repo.DeleteCategory("category-electronics"))

	_, err := repo.GetCategory("category-electronics")
	require.ErrorIs(t, err, auctionerrors.ErrCategoryNotFound)

	// Listings survive, now filed under the default category
	def := defaultCategoryID(t, repo)
	for _, id := range []string{"listing1", "listing2"} {
		stored, err := repo.GetListing(id)
		require.NoError(t, err)
		require.Equal(t, def, stored.CategoryID)
	}
}

func TestMemoryRepo_DeleteCategory_DefaultProtected(t *testing.T) {
	t.Parallel()

	repo := NewMemoryRepo()
	err := repo.DeleteCategory(defaultCategoryID(t, repo))
	require.ErrorIs(t, err, auctionerrors.ErrDefaultCategory)

	require.ErrorIs(t, repo.DeleteCategory("missing"), auctionerrors.ErrCategoryNotFound)
}

// Test CountActiveListings counts open listings only
func TestMemoryRepo_CountActiveListings(t *testing.T) {
	t.Parallel()

	repo := NewMemoryRepo()
	electronics := model.Category{CategoryID: "category-electronics", Name: "Electronics", Slug: "electronics"}
	require.NoError(t, repo.AddCategory(electronics))

	// Scenario: 3 open listings and 1 closed -> count is 3
	for i := 1; i <= 3; i++ {
		seedListing(t, repo, newListing(fmt.Sprintf("listing%d", i), "owner1", "category-electronics", 10))
	}
	seedListing(t, repo, newListing("listing4", "owner1", "category-electronics", 10))
	require.NoError(t, repo.CloseListing("listing4"))

	count, err := repo.CountActiveListings("category-electronics")
	require.NoError(t, err)
	require.Equal(t, 3, count)

	// The count is a live query: closing another listing changes it
	require.NoError(t, repo.CloseListing("listing3"))
	count, err = repo.CountActiveListings("category-electronics")
	require.NoError(t, err)
	require.Equal(t, 2, count)

	_, err = repo.CountActiveListings("missing")
	require.ErrorIs(t, err, auctionerrors.ErrCategoryNotFound)
}

// Test watchlist idempotence
func TestMemoryRepo_Watchlist(t *testing.T) {
	t.Parallel()

	repo := NewMemoryRepo()
	seedListing(t, repo, newListing("listing1", "owner1", defaultCategoryID(t, repo), 10))

	// Adding twice leaves a single entry
	require.NoError(t, repo.AddToWatchlist("user1", "listing1"))
	require.NoError(t, repo.AddToWatchlist("user1", "listing1"))

	watched, err := repo.GetWatchlist("user1")
	require.NoError(t, err)
	require.Len(t, watched, 1)

	// A listing may appear in multiple users' watchlists
	require.NoError(t, repo.AddToWatchlist("user2", "listing1"))
	watched, err = repo.GetWatchlist("user2")
	require.NoError(t, err)
	require.Len(t, watched, 1)

	// Removing twice is a no-op the second time
	require.NoError(t, repo.RemoveFromWatchlist("user1", "listing1"))
	require.NoError(t, repo.RemoveFromWatchlist("user1", "listing1"))

	watched, err = repo.GetWatchlist("user1")
	require.NoError(t, err)
	require.Empty(t, watched)

	// Unknown listing
	require.ErrorIs(t, repo.AddToWatchlist("user1", "missing"), auctionerrors.ErrListingNotFound)
}

// Test comments are appended in order
func TestMemoryRepo_Comments(t *testing.T) {
	t.Parallel()

	repo := NewMemoryRepo()
	seedListing(t, repo, newListing("listing1", "owner1", defaultCategoryID(t, repo), 10))

	now := time.Now().UTC()
	for i := 1; i <= 3; i++ {
		require.NoError(t, repo.AddComment(model.Comment{
			CommentID: fmt.Sprintf("c%d", i),
			ListingID: "listing1",
			AuthorID:  "user1",
			Text:      fmt.Sprintf("comment %d", i),
			CreatedAt: now.Add(time.Duration(i) * time.Second),
		}))
	}

	comments, err := repo.GetCommentsByListing("listing1")
	require.NoError(t, err)
	require.Len(t, comments, 3)
	for i, cm := range comments {
		require.Equal(t, fmt.Sprintf("c%d", i+1), cm.CommentID)
	}

	require.ErrorIs(t, repo.AddComment(model.Comment{CommentID: "cx", ListingID: "missing", AuthorID: "u", Text: "t"}), auctionerrors.ErrListingNotFound)
}
