package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"auction-house/internal/auctionerrors"
	model "auction-house/internal/models"
)

// SQLRepo is a MySQL-backed implementation of AuctionDB. The schema it
// expects lives in schema.sql. The DSN must carry parseTime=true so
// DATETIME columns scan into time.Time.
type SQLRepo struct {
	db *sql.DB
}

// NewSQLRepo wraps an open connection pool and makes sure the default
// category row exists.
func NewSQLRepo(db *sql.DB) (*SQLRepo, error) {
	r := &SQLRepo{db: db}

	_, err := db.Exec(
		`INSERT IGNORE INTO categories (category_id, name, slug, is_default) VALUES (?, ?, ?, 1)`,
		"category-default", DefaultCategoryName, "misc",
	)
	if err != nil {
		return nil, fmt.Errorf("seed default category: %w", err)
	}
	return r, nil
}

func (r *SQLRepo) AddListing(listing model.Listing) error {
	var exists bool
	err := r.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM categories WHERE category_id = ?)`, listing.CategoryID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("add listing %s: %w", listing.ListingID, err)
	}
	if !exists {
		return fmt.Errorf("add listing %s: category %s: %w", listing.ListingID, listing.CategoryID, auctionerrors.ErrCategoryNotFound)
	}

	_, err = r.db.Exec(
		`INSERT INTO listings
		   (listing_id, owner_id, title, description, category_id, base_price, status, image, duration, created_at, end_time)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		listing.ListingID, listing.OwnerID, listing.Title, listing.Description, listing.CategoryID,
		listing.BasePrice, string(listing.Status), listing.Image, int(listing.Duration), listing.CreatedAt, listing.EndTime,
	)
	if err != nil {
		return fmt.Errorf("add listing %s: %w", listing.ListingID, err)
	}
	return nil
}

const listingColumns = `listing_id, owner_id, title, description, category_id, base_price, status, image, duration, created_at, end_time`

func scanListing(row interface{ Scan(dest ...any) error }) (model.Listing, error) {
	var l model.Listing
	var status string
	var duration int
	err := row.Scan(&l.ListingID, &l.OwnerID, &l.Title, &l.Description, &l.CategoryID,
		&l.BasePrice, &status, &l.Image, &duration, &l.CreatedAt, &l.EndTime)
	if err != nil {
		return model.Listing{}, err
	}
	l.Status = model.Status(status)
	l.Duration = model.Duration(duration)
	return l, nil
}

func (r *SQLRepo) GetListing(listingID string) (model.Listing, error) {
	row := r.db.QueryRow(`SELECT `+listingColumns+` FROM listings WHERE listing_id = ?`, listingID)
	listing, err := scanListing(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Listing{}, fmt.Errorf("get listing %s: %w", listingID, auctionerrors.ErrListingNotFound)
	}
	if err != nil {
		return model.Listing{}, fmt.Errorf("get listing %s: %w", listingID, err)
	}
	return listing, nil
}

func (r *SQLRepo) queryListings(query string, args ...any) ([]model.Listing, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []model.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

func (r *SQLRepo) ListListings() ([]model.Listing, error) {
	listings, err := r.queryListings(`SELECT ` + listingColumns + ` FROM listings ORDER BY end_time DESC`)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	return listings, nil
}

func (r *SQLRepo) ListListingsByCategory(categoryID string) ([]model.Listing, error) {
	if _, err := r.GetCategory(categoryID); err != nil {
		return nil, fmt.Errorf("list listings for category %s: %w", categoryID, err)
	}
	listings, err := r.queryListings(`SELECT `+listingColumns+` FROM listings WHERE category_id = ? ORDER BY end_time DESC`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list listings for category %s: %w", categoryID, err)
	}
	return listings, nil
}

func (r *SQLRepo) CloseListing(listingID string) error {
	res, err := r.db.Exec(`UPDATE listings SET status = ? WHERE listing_id = ?`, string(model.StatusClosed), listingID)
	if err != nil {
		return fmt.Errorf("close listing %s: %w", listingID, err)
	}
	// RowsAffected is 0 both for a missing row and an already closed one;
	// only the former is an error.
	if n, _ := res.RowsAffected(); n == 0 {
		var exists bool
		if err := r.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM listings WHERE listing_id = ?)`, listingID).Scan(&exists); err != nil {
			return fmt.Errorf("close listing %s: %w", listingID, err)
		}
		if !exists {
			return fmt.Errorf("close listing %s: %w", listingID, auctionerrors.ErrListingNotFound)
		}
	}
	return nil
}

// DeleteListing removes a listing. Bids, comments and watchlist entries
// are declared ON DELETE CASCADE in schema.sql, mirroring listingCascades.
func (r *SQLRepo) DeleteListing(listingID string) error {
	res, err := r.db.Exec(`DELETE FROM listings WHERE listing_id = ?`, listingID)
	if err != nil {
		return fmt.Errorf("delete listing %s: %w", listingID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete listing %s: %w", listingID, auctionerrors.ErrListingNotFound)
	}
	return nil
}

// RecordBid runs the expiry check, the floor read and the insert in one
// serializable transaction with the listing row locked, so concurrent
// bids on the same listing are validated against the committed floor.
func (r *SQLRepo) RecordBid(bid model.Bid) error {
	ctx := context.Background()
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("record bid for listing %s: %w", bid.ListingID, err)
	}
	defer tx.Rollback()

	var listing model.Listing
	var status string
	err = tx.QueryRow(
		`SELECT base_price, status, end_time FROM listings WHERE listing_id = ? FOR UPDATE`,
		bid.ListingID,
	).Scan(&listing.BasePrice, &status, &listing.EndTime)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("record bid for listing %s: %w", bid.ListingID, auctionerrors.ErrListingNotFound)
	}
	if err != nil {
		return fmt.Errorf("record bid for listing %s: %w", bid.ListingID, err)
	}
	listing.Status = model.Status(status)

	if model.ComputeStatus(bid.CreatedAt, listing.EndTime, listing.Status) == model.StatusClosed {
		if listing.Status == model.StatusOpen {
			if _, err := tx.Exec(`UPDATE listings SET status = ? WHERE listing_id = ?`, string(model.StatusClosed), bid.ListingID); err != nil {
				return fmt.Errorf("record bid for listing %s: %w", bid.ListingID, err)
			}
			// The observed expiry is committed even though the bid is
			// rejected.
			if err := tx.Commit(); err != nil {
				return fmt.Errorf("record bid for listing %s: %w", bid.ListingID, err)
			}
		}
		return fmt.Errorf("record bid for listing %s: %w", bid.ListingID, auctionerrors.ErrAuctionClosed)
	}

	floor := listing.BasePrice
	var highest sql.NullInt64
	if err := tx.QueryRow(`SELECT MAX(amount) FROM bids WHERE listing_id = ?`, bid.ListingID).Scan(&highest); err != nil {
		return fmt.Errorf("record bid for listing %s: %w", bid.ListingID, err)
	}
	if highest.Valid && highest.Int64 > floor {
		floor = highest.Int64
	}
	if bid.Amount <= floor {
		return fmt.Errorf("record bid of %d on listing %s: current floor is %d: %w", bid.Amount, bid.ListingID, floor, auctionerrors.ErrBidTooLow)
	}

	_, err = tx.Exec(
		`INSERT INTO bids (bid_id, listing_id, bidder_id, amount, created_at) VALUES (?, ?, ?, ?, ?)`,
		bid.BidID, bid.ListingID, bid.BidderID, bid.Amount, bid.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record bid for listing %s: %w", bid.ListingID, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("record bid for listing %s: %w", bid.ListingID, err)
	}
	return nil
}

func (r *SQLRepo) GetBidsByListing(listingID string) ([]model.Bid, error) {
	rows, err := r.db.Query(
		`SELECT bid_id, listing_id, bidder_id, amount, created_at FROM bids WHERE listing_id = ? ORDER BY created_at`,
		listingID,
	)
	if err != nil {
		return nil, fmt.Errorf("get bids for listing %s: %w", listingID, err)
	}
	defer rows.Close()

	var bids []model.Bid
	for rows.Next() {
		var b model.Bid
		if err := rows.Scan(&b.BidID, &b.ListingID, &b.BidderID, &b.Amount, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("get bids for listing %s: %w", listingID, err)
		}
		bids = append(bids, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get bids for listing %s: %w", listingID, err)
	}
	if len(bids) == 0 {
		return nil, fmt.Errorf("get bids for listing %s: %w", listingID, auctionerrors.ErrNoBids)
	}
	return bids, nil
}

func (r *SQLRepo) GetWinningBid(listingID string) (model.Bid, error) {
	// Most recent timestamp wins on anomalous equal amounts.
	row := r.db.QueryRow(
		`SELECT bid_id, listing_id, bidder_id, amount, created_at
		   FROM bids WHERE listing_id = ?
		  ORDER BY amount DESC, created_at DESC LIMIT 1`,
		listingID,
	)
	var b model.Bid
	err := row.Scan(&b.BidID, &b.ListingID, &b.BidderID, &b.Amount, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Bid{}, fmt.Errorf("get winning bid for listing %s: %w", listingID, auctionerrors.ErrNoBids)
	}
	if err != nil {
		return model.Bid{}, fmt.Errorf("get winning bid for listing %s: %w", listingID, err)
	}
	return b, nil
}

func (r *SQLRepo) GetListingsByUser(userID string) ([]model.Listing, error) {
	listings, err := r.queryListings(
		`SELECT DISTINCT l.listing_id, l.owner_id, l.title, l.description, l.category_id,
		        l.base_price, l.status, l.image, l.duration, l.created_at, l.end_time
		   FROM listings l JOIN bids b ON b.listing_id = l.listing_id
		  WHERE b.bidder_id = ?`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("get listings for user %s: %w", userID, err)
	}
	if len(listings) == 0 {
		return nil, fmt.Errorf("get listings for user %s: %w", userID, auctionerrors.ErrUserNoBids)
	}
	return listings, nil
}

func (r *SQLRepo) AddCategory(category model.Category) error {
	_, err := r.db.Exec(
		`INSERT INTO categories (category_id, name, slug, is_default) VALUES (?, ?, ?, 0)`,
		category.CategoryID, category.Name, category.Slug,
	)
	if err != nil {
		return fmt.Errorf("add category %s: %w", category.CategoryID, err)
	}
	return nil
}

func (r *SQLRepo) GetCategory(categoryID string) (model.Category, error) {
	var c model.Category
	err := r.db.QueryRow(`SELECT category_id, name, slug FROM categories WHERE category_id = ?`, categoryID).
		Scan(&c.CategoryID, &c.Name, &c.Slug)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Category{}, fmt.Errorf("get category %s: %w", categoryID, auctionerrors.ErrCategoryNotFound)
	}
	if err != nil {
		return model.Category{}, fmt.Errorf("get category %s: %w", categoryID, err)
	}
	return c, nil
}

func (r *SQLRepo) ListCategories() ([]model.Category, error) {
	rows, err := r.db.Query(`SELECT category_id, name, slug FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.CategoryID, &c.Name, &c.Slug); err != nil {
			return nil, fmt.Errorf("list categories: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *SQLRepo) DefaultCategory() (model.Category, error) {
	var c model.Category
	err := r.db.QueryRow(`SELECT category_id, name, slug FROM categories WHERE is_default = 1`).
		Scan(&c.CategoryID, &c.Name, &c.Slug)
	if err != nil {
		return model.Category{}, fmt.Errorf("get default category: %w", err)
	}
	return c, nil
}

// DeleteCategory reassigns the category's listings to the default
// category and removes the row, in one transaction (categoryCascades).
func (r *SQLRepo) DeleteCategory(categoryID string) error {
	def, err := r.DefaultCategory()
	if err != nil {
		return fmt.Errorf("delete category %s: %w", categoryID, err)
	}
	if categoryID == def.CategoryID {
		return fmt.Errorf("delete category %s: %w", categoryID, auctionerrors.ErrDefaultCategory)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("delete category %s: %w", categoryID, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE listings SET category_id = ? WHERE category_id = ?`, def.CategoryID, categoryID); err != nil {
		return fmt.Errorf("delete category %s: %w", categoryID, err)
	}
	res, err := tx.Exec(`DELETE FROM categories WHERE category_id = ?`, categoryID)
	if err != nil {
		return fmt.Errorf("delete category %s: %w", categoryID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete category %s: %w", categoryID, auctionerrors.ErrCategoryNotFound)
	}
	return tx.Commit()
}

func (r *SQLRepo) CountActiveListings(categoryID string) (int, error) {
	if _, err := r.GetCategory(categoryID); err != nil {
		return 0, fmt.Errorf("count active listings for category %s: %w", categoryID, err)
	}
	var count int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM listings WHERE category_id = ? AND status = ?`,
		categoryID, string(model.StatusOpen),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count active listings for category %s: %w", categoryID, err)
	}
	return count, nil
}

func (r *SQLRepo) AddComment(comment model.Comment) error {
	_, err := r.db.Exec(
		`INSERT INTO comments (comment_id, listing_id, author_id, text, created_at) VALUES (?, ?, ?, ?, ?)`,
		comment.CommentID, comment.ListingID, comment.AuthorID, comment.Text, comment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("add comment to listing %s: %w", comment.ListingID, err)
	}
	return nil
}

func (r *SQLRepo) GetCommentsByListing(listingID string) ([]model.Comment, error) {
	if _, err := r.GetListing(listingID); err != nil {
		return nil, fmt.Errorf("get comments for listing %s: %w", listingID, err)
	}
	rows, err := r.db.Query(
		`SELECT comment_id, listing_id, author_id, text, created_at FROM comments WHERE listing_id = ? ORDER BY created_at`,
		listingID,
	)
	if err != nil {
		return nil, fmt.Errorf("get comments for listing %s: %w", listingID, err)
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.CommentID, &c.ListingID, &c.AuthorID, &c.Text, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("get comments for listing %s: %w", listingID, err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *SQLRepo) AddToWatchlist(userID, listingID string) error {
	if _, err := r.GetListing(listingID); err != nil {
		return fmt.Errorf("watch listing %s: %w", listingID, err)
	}
	// INSERT IGNORE keeps the operation idempotent.
	_, err := r.db.Exec(
		`INSERT IGNORE INTO watchlist_entries (user_id, listing_id) VALUES (?, ?)`,
		userID, listingID,
	)
	if err != nil {
		return fmt.Errorf("watch listing %s: %w", listingID, err)
	}
	return nil
}

func (r *SQLRepo) RemoveFromWatchlist(userID, listingID string) error {
	_, err := r.db.Exec(`DELETE FROM watchlist_entries WHERE user_id = ? AND listing_id = ?`, userID, listingID)
	if err != nil {
		return fmt.Errorf("unwatch listing %s: %w", listingID, err)
	}
	return nil
}

func (r *SQLRepo) GetWatchlist(userID string) ([]model.Listing, error) {
	listings, err := r.queryListings(
		`SELECT l.listing_id, l.owner_id, l.title, l.description, l.category_id,
		        l.base_price, l.status, l.image, l.duration, l.created_at, l.end_time
		   FROM listings l JOIN watchlist_entries w ON w.listing_id = l.listing_id
		  WHERE w.user_id = ?`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("get watchlist for user %s: %w", userID, err)
	}
	if listings == nil {
		listings = []model.Listing{}
	}
	return listings, nil
}
