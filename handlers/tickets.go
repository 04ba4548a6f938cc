package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"train-fare-sim/models"
	"train-fare-sim/services"
)

// ImportTickets bulk-inserts a JSON array of tickets
func ImportTickets(c *gin.Context) {
	var tickets []models.Ticket
	if err := c.ShouldBindJSON(&tickets); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expected a JSON array of tickets"})
		return
	}

	count, err := store.BulkInsertTickets(c.Request.Context(), tickets)
	if err != nil {
		log.Printf("Error importing tickets: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "imported": count})
		return
	}

	c.JSON(http.StatusOK, gin.H{"imported": count})
}

// GenerateTickets seeds the store with random sample data
func GenerateTickets(c *gin.Context) {
	var req struct {
		Count int `json:"count"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Count <= 0 {
		req.Count = 100000
	}

	tickets := services.GenerateTickets(req.Count)
	count, err := store.BulkInsertTickets(c.Request.Context(), tickets)
	if err != nil {
		log.Printf("Error importing generated tickets: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "imported": count})
		return
	}

	c.JSON(http.StatusOK, gin.H{"imported": count})
}

// SyncTickets pulls a remote JSON fare file into the store
func SyncTickets(c *gin.Context) {
	var req struct {
		URL string `json:"url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	count, err := syncService.SyncFromURL(c.Request.Context(), req.URL)
	if err != nil {
		log.Printf("Error syncing tickets: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "imported": count})
		return
	}

	c.JSON(http.StatusOK, gin.H{"imported": count})
}

// Search runs the smart route search and prices the results: direct tickets
// when any exist, two-leg transfer options otherwise.
func Search(c *gin.Context) {
	var req models.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.DepartureDate != "" {
		day, err := time.Parse("2006-01-02", req.DepartureDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "departureDate must be YYYY-MM-DD"})
			return
		}
		req.DateType = services.ClassifyDate(day, holidays)
	}

	switch req.DateType {
	case services.DateWorkday, services.DateWeekend, services.DateHoliday:
	case "":
		req.DateType = services.DateWorkday
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "dateType must be workday, weekend or holiday"})
		return
	}

	// Lazy, coalesced; a no-op once the map is in.
	if err := kmap.Load(c.Request.Context()); err != nil {
		log.Printf("K map load failed, pricing with defaults: %v", err)
	}

	direct, transfers, err := transferService.SmartSearch(c.Request.Context(), req.FromStation, req.ToStation)
	if err != nil {
		log.Printf("Error searching tickets: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}

	// No direct tickets always yields the transfer shape, even when the
	// transfer search also came up empty.
	if len(direct) == 0 {
		c.JSON(http.StatusOK, models.SearchResponse{
			Type:      "transfer",
			Transfers: transfers,
		})
		return
	}

	merged := services.MergeByDeparture(direct)
	c.JSON(http.StatusOK, models.SearchResponse{
		Type:        "direct",
		Tickets:     ticketService.ApplyDiscounts(direct, req.DateType, req.AdvanceDays),
		Itineraries: ticketService.PriceItineraries(merged, req.DateType, req.AdvanceDays),
	})
}

// GetTickets is the exact route lookup with paging, without pricing
func GetTickets(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from and to are required"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "1000"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	tickets, err := store.SearchTickets(c.Request.Context(), from, to, limit, offset)
	if err != nil {
		log.Printf("Error querying tickets: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	c.JSON(http.StatusOK, tickets)
}

// GetStations returns all stations, deriving them from ticket rows when the
// explicit collection is implausibly small
func GetStations(c *gin.Context) {
	stations, err := store.ListStations(c.Request.Context())
	if err != nil {
		log.Printf("Error getting stations: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve stations"})
		return
	}

	c.JSON(http.StatusOK, stations)
}

// GetStats returns store counters
func GetStats(c *gin.Context) {
	tickets, err := store.CountTickets(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count tickets"})
		return
	}
	purchases, err := store.CountPurchases(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count purchases"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totalTickets":   tickets,
		"totalPurchases": purchases,
		"classifiedK":    kmap.Size(),
	})
}

// ClearTickets empties the ticket and station collections only; purchase and
// survey history survives a data reload
func ClearTickets(c *gin.Context) {
	if err := store.ClearTicketsAndStations(c.Request.Context()); err != nil {
		log.Printf("Error clearing tickets: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear tickets"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
