package handlers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"train-fare-sim/models"
)

// CreatePurchase records one simulated purchase
func CreatePurchase(c *gin.Context) {
	var req models.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	purchase, err := store.SavePurchase(c.Request.Context(), req)
	if err != nil {
		log.Printf("Error saving purchase: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save purchase"})
		return
	}

	c.JSON(http.StatusOK, purchase)
}

// GetPurchases lists purchases, optionally for one participant
func GetPurchases(c *gin.Context) {
	var (
		purchases []models.Purchase
		err       error
	)
	if participant := c.Query("participant"); participant != "" {
		purchases, err = store.PurchasesByParticipant(c.Request.Context(), participant)
	} else {
		purchases, err = store.ListPurchases(c.Request.Context())
	}
	if err != nil {
		log.Printf("Error listing purchases: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list purchases"})
		return
	}

	c.JSON(http.StatusOK, purchases)
}

// DeletePurchase removes one purchase by reference
func DeletePurchase(c *gin.Context) {
	ref := c.Param("ref")

	if err := store.DeletePurchase(c.Request.Context(), ref); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "purchase not found"})
			return
		}
		log.Printf("Error deleting purchase: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete purchase"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ClearPurchases removes all purchase records
func ClearPurchases(c *gin.Context) {
	if err := store.ClearPurchases(c.Request.Context()); err != nil {
		log.Printf("Error clearing purchases: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear purchases"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CreateSurvey records one submitted survey form
func CreateSurvey(c *gin.Context) {
	var survey models.Survey
	if err := c.ShouldBindJSON(&survey); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := store.SaveSurvey(c.Request.Context(), survey)
	if err != nil {
		log.Printf("Error saving survey: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save survey"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id})
}

// GetSurveys lists all submitted surveys
func GetSurveys(c *gin.Context) {
	surveys, err := store.ListSurveys(c.Request.Context())
	if err != nil {
		log.Printf("Error listing surveys: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list surveys"})
		return
	}

	c.JSON(http.StatusOK, surveys)
}
