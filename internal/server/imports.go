package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	importdomain "github.com/brandwell/revenuehub/internal/importer/domain"
)

// uploadImport accepts a CSV feed as multipart form data and runs it
// through the import pipeline. dry_run=true previews the feed without
// writing anything.
func (s *Server) uploadImport(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	defer file.Close()

	opts := importdomain.Options{
		DryRun: parseBool(c.Query("dry_run")) || parseBool(c.PostForm("dry_run")),
	}

	sum, err := s.importSvc.ImportCSV(c.Request.Context(), file, opts)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

type warehouseImportRequest struct {
	Method string `json:"method"`
	DryRun bool   `json:"dry_run"`
}

// warehouseImport triggers a warehouse pull. method "all" forces full
// history; anything else pulls incrementally from the latest fact.
func (s *Server) warehouseImport(c *gin.Context) {
	var req warehouseImportRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
	}
	full := strings.EqualFold(req.Method, "all")
	opts := importdomain.Options{DryRun: req.DryRun || parseBool(c.Query("dry_run"))}

	sum, err := s.warehouseSvc.Import(c.Request.Context(), opts, full)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

// warehouseCronImport is the scheduler-facing trigger, guarded by a
// shared token instead of a user session.
func (s *Server) warehouseCronImport(c *gin.Context) {
	token := strings.TrimSpace(c.GetHeader("X-Cron-Token"))
	if s.cfg.CronToken == "" || token != s.cfg.CronToken {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	sum, err := s.warehouseSvc.Import(c.Request.Context(), importdomain.Options{}, false)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
