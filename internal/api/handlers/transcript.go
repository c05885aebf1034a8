package handlers

import (
	"io"
	"net/http"

	"MerchantWarriorGateway/internal/external/merchantwarrior"

	"github.com/gin-gonic/gin"
)

const maxTranscriptBytes = 1 << 20

type TranscriptHandler struct{}

func NewTranscriptHandler() *TranscriptHandler {
	return &TranscriptHandler{}
}

// Scrub returns the posted transcript with card data and keys filtered.
func (h *TranscriptHandler) Scrub(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxTranscriptBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	c.String(http.StatusOK, merchantwarrior.Scrub(string(raw)))
}
