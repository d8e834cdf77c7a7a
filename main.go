package main

import (
	"fmt"
	"os"

	bidding "auction-house/internal/biddingService"
	comment "auction-house/internal/commentService"
	"auction-house/internal/database"
	listing "auction-house/internal/listingService"
	model "auction-house/internal/models"
	"auction-house/internal/repository"
	"auction-house/internal/server"
	watchlist "auction-house/internal/watchlistService"
	"auction-house/utils"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		utils.Warn("No .env file found, relying on system environment variables", nil)
	}

	repo, err := openRepo()
	if err != nil {
		utils.Fatal("Failed to open repository", map[string]any{"error": err.Error()})
	}

	listingSvc := listing.NewListingService(repo)
	biddingSvc := bidding.NewBiddingService(repo)
	watchlistSvc := watchlist.NewWatchlistService(repo)
	commentSvc := comment.NewCommentService(repo)

	router := server.SetupRouter(listingSvc, biddingSvc, watchlistSvc, commentSvc)

	port := getPort()
	fmt.Printf("Starting auction server on %s...\n", port)
	if err := router.Run(port); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}
}

// openRepo picks the MySQL-backed repository when DB_DSN is set and falls
// back to the in-memory one, with some sample categories, otherwise.
func openRepo() (repository.AuctionDB, error) {
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		db, err := database.OpenDB(dsn)
		if err != nil {
			return nil, err
		}
		utils.Info("Using MySQL repository", nil)
		return repository.NewSQLRepo(db)
	}

	utils.Info("DB_DSN not set, using in-memory repository", nil)
	repo := repository.NewMemoryRepo()
	prepopulateCategories(repo)
	return repo, nil
}

// prepopulateCategories adds sample categories to the in-memory repo
func prepopulateCategories(repo *repository.MemoryRepo) {
	categories := []model.Category{
		{CategoryID: "category-electronics", Name: "Electronics", Slug: "electronics"},
		{CategoryID: "category-fashion", Name: "Fashion", Slug: "fashion"},
		{CategoryID: "category-home", Name: "Home", Slug: "home"},
	}

	for _, category := range categories {
		if err := repo.AddCategory(category); err != nil {
			utils.Warn("Failed to prepopulate category", map[string]any{"name": category.Name, "error": err.Error()})
		}
	}
}

// getPort returns the server port from env or defaults to ":8080"
func getPort() string {
	if p := os.Getenv("PORT"); p != "" {
		return fmt.Sprintf(":%s", p)
	}
	return ":8080"
}
