package handler

import (
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/medingen/catalog_api/internal/service"
	"github.com/medingen/catalog_api/internal/utils"
)

// ImportHandler handles spreadsheet upload endpoints.
type ImportHandler struct {
	importService *service.ImportService
}

// NewImportHandler constructs an ImportHandler.
func NewImportHandler(importService *service.ImportService) *ImportHandler {
	return &ImportHandler{importService: importService}
}

// UploadExcel handles POST /api/products/upload-excel
func (h *ImportHandler) UploadExcel(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.Error(c, 400, "NO_FILE", "No file provided")
		return
	}

	if fileHeader.Filename == "" {
		utils.Error(c, 400, "NO_FILE", "No file selected")
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".xlsx" && ext != ".xls" {
		utils.Error(c, 400, "INVALID_FILE_TYPE", "Invalid file type. Please upload an Excel file")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to read uploaded file")
		return
	}
	defer f.Close()

	result, err := h.importService.ParseWorkbook(f)
	if err != nil {
		utils.Error(c, 400, "INVALID_FILE", "Failed to parse Excel file")
		return
	}

	utils.Success(c, 200, "File processed successfully", result)
}
