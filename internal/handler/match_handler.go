package handler

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/medingen/catalog_api/internal/models"
	"github.com/medingen/catalog_api/internal/service"
	"github.com/medingen/catalog_api/internal/utils"
)

// MatchHandler handles the catalog reconciliation HTTP endpoints.
type MatchHandler struct {
	matchService *service.MatchService
}

// NewMatchHandler constructs a MatchHandler.
func NewMatchHandler(matchService *service.MatchService) *MatchHandler {
	return &MatchHandler{matchService: matchService}
}

// FindMatchesRequest is the payload for POST /api/products/find-matches.
// search_term and product_name are aliases; search_term wins when both are set.
type FindMatchesRequest struct {
	SearchTerm  string `json:"search_term"`
	ProductName string `json:"product_name"`
}

// FindMatches handles POST /api/products/find-matches
func (h *MatchHandler) FindMatches(c *gin.Context) {
	var req FindMatchesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	term := req.SearchTerm
	if term == "" {
		term = req.ProductName
	}

	candidates, err := h.matchService.FindCandidates(c.Request.Context(), term)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidInput) {
			utils.Error(c, 400, "INVALID_REQUEST", "Search term required")
			return
		}
		utils.Error(c, 500, "STORE_UNAVAILABLE", "Failed to find matches")
		return
	}

	utils.Success(c, 200, "Matches retrieved", gin.H{
		"matches": candidates,
		"count":   len(candidates),
	})
}

// MatchStockRequest is the payload for POST /api/products/match-stock.
type MatchStockRequest struct {
	Products []models.ExternalItem `json:"products"`
}

// MatchStock handles POST /api/products/match-stock
func (h *MatchHandler) MatchStock(c *gin.Context) {
	var req MatchStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	result, err := h.matchService.MatchBatch(req.Products)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidInput) {
			utils.Error(c, 400, "INVALID_REQUEST", "No products provided")
			return
		}
		utils.Error(c, 500, "STORE_UNAVAILABLE", "Failed to match products")
		return
	}

	message := fmt.Sprintf("Auto-detected %d matches out of %d", result.MatchedCount, result.TotalSubmitted)
	utils.Success(c, 200, message, result)
}

// ApproveMatch handles POST /api/products/approve-match
func (h *MatchHandler) ApproveMatch(c *gin.Context) {
	var req service.ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	result, err := h.matchService.Approve(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
			return
		}
		if errors.Is(err, utils.ErrInvalidInput) {
			utils.Error(c, 400, "INVALID_REQUEST", "brand_name is required to create a new product")
			return
		}
		utils.Error(c, 500, "STORE_UNAVAILABLE", "Failed to approve match")
		return
	}

	code := 200
	message := "Match approved and saved successfully"
	if result.Action == "created" {
		code = 201
		message = "New product created successfully"
	}
	utils.Success(c, code, message, result)
}

// UnmatchRequest is the payload for POST /api/products/unmatch.
type UnmatchRequest struct {
	ProductID int64 `json:"product_id"`
}

// Unmatch handles POST /api/products/unmatch
func (h *MatchHandler) Unmatch(c *gin.Context) {
	var req UnmatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if err := h.matchService.Unmatch(c.Request.Context(), req.ProductID); err != nil {
		if errors.Is(err, utils.ErrInvalidInput) {
			utils.Error(c, 400, "INVALID_REQUEST", "Product ID is required")
			return
		}
		utils.Error(c, 500, "STORE_UNAVAILABLE", "Failed to unmatch product")
		return
	}

	utils.Success(c, 200, "Product unmatched successfully", nil)
}
