package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

func (s *Server) listUnlinkedFacts(c *gin.Context) {
	groups, err := s.factSvc.ListUnlinked(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unlinked": groups})
}

type linkRequest struct {
	ChannelID      snowflake.ID `json:"channel_id"`
	RawChannelCode string       `json:"raw_channel_code"`
	ItemID         snowflake.ID `json:"item_id"`
}

// linkUnlinkedFacts resolves one (channel, raw code) group to an item,
// retroactively linking every matching fact.
func (s *Server) linkUnlinkedFacts(c *gin.Context) {
	var req linkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.RawChannelCode = strings.TrimSpace(req.RawChannelCode)
	if req.ChannelID == 0 || req.ItemID == 0 || req.RawChannelCode == "" {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	linked, err := s.factSvc.Link(c.Request.Context(), req.ChannelID, req.RawChannelCode, req.ItemID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"linked": linked})
}
