// Copyright (C) 2025 Agento AI (dev@agento.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package assistant

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the assistant API under the given group.
//
// Description:
//
//	Expects the group to be the server root (routes are absolute under
//	/api). The chat endpoint accepts both GET and POST so browser
//	EventSource clients can connect without a preflight.
//
// Example:
//
//	router := gin.New()
//	handlers := assistant.NewHandlers(svc)
//	assistant.RegisterRoutes(router.Group(""), handlers)
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers) {
	api := rg.Group("/api")
	{
		// Streaming chat
		api.GET("/message", handlers.HandleMessage)
		api.POST("/message", handlers.HandleMessage)

		// Web search
		api.POST("/search", handlers.HandleSearch)

		// Drive REST surface
		driveGroup := api.Group("/drive")
		{
			driveGroup.GET("/files", handlers.HandleDriveList)
			driveGroup.GET("/files/:type", handlers.HandleDriveListByType)
			driveGroup.GET("/file/:id", handlers.HandleDriveRead)
			driveGroup.POST("/file", handlers.HandleDriveCreate)
			driveGroup.POST("/excel", handlers.HandleDriveCreateExcel)
		}

		// Voice input/output
		speechGroup := api.Group("/speech")
		{
			speechGroup.POST("/synthesize", handlers.HandleSynthesize)
			speechGroup.POST("/recognize", handlers.HandleRecognize)
		}

		// Health check
		api.GET("/health", handlers.HandleHealth)
	}
}
