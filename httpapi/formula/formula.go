// formulaservice exposes the formula codec to editors and admin tooling.
package formulaservice

import (
	"fmt"
	"net/http"

	"github.com/algebra-practice/backend/httpapi"
	"github.com/algebra-practice/backend/internal/formula"
	"github.com/algebra-practice/backend/internal/metrics"
	"github.com/gin-gonic/gin"
)

type FormulaService struct {
	codec *formula.Codec
}

func NewFormulaService(codec *formula.Codec) *FormulaService {
	return &FormulaService{codec: codec}
}

func (s *FormulaService) Register(router gin.IRouter) {
	f := router.Group("/formula")

	f.POST("/sanitize", s.Sanitize)
	f.POST("/decode", s.Decode)
	f.POST("/encode", s.Encode)
}

type SanitizeRequest struct {
	Latex string `json:"latex"`
	// Display is "inline" (default) or "block".
	Display string `json:"display"`
}

type SanitizeResponse struct {
	Formula  string         `json:"formula"`
	Repair   formula.Repair `json:"repair"`
	Warnings []string       `json:"warnings"`
}

// Sanitize cleans a formula typed into the editor and wraps it in delimiters.
// POST /api/formula/sanitize
func (s *FormulaService) Sanitize(c *gin.Context) {
	var req SanitizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Invalid request body.",
			"detail": err.Error(),
		})
		return
	}

	mode, ok := formula.ParseMode(req.Display)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Invalid display mode.",
			"detail": fmt.Sprintf("display must be inline or block, got %q", req.Display),
		})
		return
	}

	sanitized, repair := formula.SanitizeReport(req.Latex, mode)
	metrics.RecordFormulaRepair(repair.Appended, repair.Prepended)

	c.JSON(http.StatusOK, SanitizeResponse{
		Formula:  sanitized,
		Repair:   repair,
		Warnings: repair.Warnings(),
	})
}

type DecodeRequest struct {
	Text string `json:"text"`
}

// Decode turns storage text into display HTML.
// POST /api/formula/decode
func (s *FormulaService) Decode(c *gin.Context) {
	var req DecodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Invalid request body.",
			"detail": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"html": s.codec.Decode(req.Text),
	})
}

type EncodeRequest struct {
	HTML string `json:"html"`
}

// Encode turns display HTML back into storage text.
// POST /api/formula/encode
func (s *FormulaService) Encode(c *gin.Context) {
	var req EncodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Invalid request body.",
			"detail": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"text": s.codec.Encode(req.HTML),
	})
}

var _ httpapi.Service = (*FormulaService)(nil)
