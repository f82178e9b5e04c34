// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package api

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the /synth endpoints on rg.
//
// Description:
//
//	rg is typically the /v1 group and should already carry any middleware
//	(tracing, rate limiting).
//
// Endpoints:
//
//	POST /v1/synth/composition - Draw a composition table
//	POST /v1/synth/counts - Draw a count signal table
//	GET  /v1/synth/elements - List element symbols
//	GET  /v1/synth/elements/:name - Classify one symbol
//	GET  /v1/synth/health - Health check
func RegisterRoutes(rg *gin.RouterGroup, h *Handlers) {
	s := rg.Group("/synth")
	{
		s.POST("/composition", h.HandleComposition)
		s.POST("/counts", h.HandleCounts)
		s.GET("/elements", h.HandleListElements)
		s.GET("/elements/:name", h.HandleElement)
		s.GET("/health", h.HandleHealth)
	}
}
