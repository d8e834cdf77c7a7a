package repository

// CascadeAction is what happens to dependent rows when their parent
// entity is deleted.
type CascadeAction int

const (
	// CascadeDelete removes the dependent rows with the parent.
	CascadeDelete CascadeAction = iota
	// CascadeReassign repoints the dependent rows at the system default
	// instead of deleting them.
	CascadeReassign
)

// CascadeRule names one child entity and the action applied to it.
type CascadeRule struct {
	Child  string
	Action CascadeAction
}

const (
	childBids             = "bids"
	childComments         = "comments"
	childWatchlistEntries = "watchlist_entries"
	childListings         = "listings"
)

// listingCascades are the rules run when a listing is deleted: its bids,
// comments and watchlist entries go with it.
var listingCascades = []CascadeRule{
	{Child: childBids, Action: CascadeDelete},
	{Child: childComments, Action: CascadeDelete},
	{Child: childWatchlistEntries, Action: CascadeDelete},
}

// categoryCascades are the rules run when a category is deleted: its
// listings are reassigned to the default category, never deleted.
var categoryCascades = []CascadeRule{
	{Child: childListings, Action: CascadeReassign},
}
