package server

import (
	bidding "auction-house/internal/biddingService"
	comment "auction-house/internal/commentService"
	listing "auction-house/internal/listingService"
	watchlist "auction-house/internal/watchlistService"
	handler "auction-house/services/auction/handler"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures all Gin routes for the application
func SetupRouter(
	listingService *listing.ListingService,
	biddingService *bidding.BiddingService,
	watchlistService *watchlist.WatchlistService,
	commentService *comment.CommentService,
) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	listingHandler := handler.NewListingHandler(listingService)
	biddingHandler := handler.NewBiddingHandler(biddingService)
	watchlistHandler := handler.NewWatchlistHandler(watchlistService)
	commentHandler := handler.NewCommentHandler(commentService)

	listings := router.Group("/listings")
	{
		listings.POST("", listingHandler.CreateListingHandler)
		listings.GET("", listingHandler.ListListingsHandler)
		listings.GET("/:listing_id", listingHandler.GetListingHandler)
		listings.DELETE("/:listing_id", listingHandler.DeleteListingHandler)
		listings.GET("/:listing_id/bids", biddingHandler.GetBidsByListingHandler)
		listings.GET("/:listing_id/winning", biddingHandler.GetWinningBidHandler)
		listings.POST("/:listing_id/comments", commentHandler.AddCommentHandler)
		listings.GET("/:listing_id/comments", commentHandler.GetCommentsHandler)
	}

	bids := router.Group("/bids")
	{
		bids.POST("", biddingHandler.RecordBidHandler)
	}

	categories := router.Group("/categories")
	{
		categories.POST("", listingHandler.CreateCategoryHandler)
		categories.GET("", listingHandler.ListCategoriesHandler)
		categories.GET("/:category_id", listingHandler.GetCategoryHandler)
		categories.GET("/:category_id/listings", listingHandler.ListListingsByCategoryHandler)
		categories.DELETE("/:category_id", listingHandler.DeleteCategoryHandler)
	}

	users := router.Group("/users")
	{
		users.GET("/:user_id/listings", biddingHandler.GetListingsByUserHandler)
		users.GET("/:user_id/watchlist", watchlistHandler.GetWatchlistHandler)
		users.PUT("/:user_id/watchlist/:listing_id", watchlistHandler.WatchListingHandler)
		users.DELETE("/:user_id/watchlist/:listing_id", watchlistHandler.UnwatchListingHandler)
	}

	return router
}
