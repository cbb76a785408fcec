package main

import (
	"meetspot/core/logger"
	"meetspot/core/server"
)

// @title MeetSpot API
// @version 1.0
// @description API backend for MeetSpot - fair meeting point picker for small groups

// @contact.name API Support
// @contact.email support@meetspot.app

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:7070
// @BasePath /api/v1

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", err)
	}
}
