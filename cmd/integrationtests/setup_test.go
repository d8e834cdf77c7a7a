package integrationtests

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	bidding "auction-house/internal/biddingService"
	comment "auction-house/internal/commentService"
	listing "auction-house/internal/listingService"
	model "auction-house/internal/models"
	"auction-house/internal/repository"
	"auction-house/internal/server"
	watchlist "auction-house/internal/watchlistService"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// testClock is an adjustable clock shared by the services under test, so
// expiry behaviour can be exercised without sleeping.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock(start time.Time) *testClock {
	return &testClock{now: start}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// testEnv bundles the router with the repo and clock backing it.
type testEnv struct {
	repo   *repository.MemoryRepo
	clock  *testClock
	router *gin.Engine
}

var testStart = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// SetupTestEnv initializes the router with an in-memory repository and a
// controllable clock for integration testing.
func SetupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := repository.NewMemoryRepo()
	clock := newTestClock(testStart)

	listingService := listing.NewListingServiceWithClock(repo, clock.Now)
	biddingService := bidding.NewBiddingServiceWithClock(repo, clock.Now)
	watchlistService := watchlist.NewWatchlistService(repo)
	commentService := comment.NewCommentServiceWithClock(repo, clock.Now)

	router := server.SetupRouter(listingService, biddingService, watchlistService, commentService)
	return &testEnv{repo: repo, clock: clock, router: router}
}

// SeedListing inserts a listing directly into the repo, with end_time derived
// from the current test clock.
func (env *testEnv) SeedListing(t *testing.T, listingID, ownerID string, basePrice int64, duration model.Duration) model.Listing {
	t.Helper()

	def, err := env.repo.DefaultCategory()
	require.NoError(t, err)

	createdAt := env.clock.Now()
	l := model.Listing{
		ListingID:  listingID,
		OwnerID:    ownerID,
		Title:      "listing " + listingID,
		CategoryID: def.CategoryID,
		BasePrice:  basePrice,
		Status:     model.StatusOpen,
		Duration:   duration,
		CreatedAt:  createdAt,
		EndTime:    duration.EndTime(createdAt),
	}
	require.NoError(t, env.repo.AddListing(l))
	return l
}

// ExecuteRequest executes an HTTP request and returns the response recorder.
func (env *testEnv) ExecuteRequest(t *testing.T, method, url string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

// ExecuteRequestAndParse executes an HTTP request and parses the JSON
// envelope. On 201 the data object is unwrapped for convenience.
func (env *testEnv) ExecuteRequestAndParse(t *testing.T, method, url string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	var err error
	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	case string:
		reqBody = []byte(v)
	default:
		reqBody, err = json.Marshal(v)
		require.NoError(t, err, "failed to marshal body")
	}

	w := env.ExecuteRequest(t, method, url, reqBody)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "failed to unmarshal response")
		if w.Code == 201 {
			resp = resp["data"].(map[string]any)
		}
	}
	return resp, w
}
