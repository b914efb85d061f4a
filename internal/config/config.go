package config

import "time"

const (
	// Classification
	ClassifyTimeout  = 15 * time.Second
	ClassifyModel    = "gemini-2.5-flash"
	ClassifyBaseURL  = "https://generativelanguage.googleapis.com/v1beta/openai"
	ClassifyMaxToken = 320

	// Redis channels
	ComplaintEventsChannel = "complaints:events"
	NotificationTopic      = "all_users"

	// Auth
	JWTIssuer = "railcrm-service"
	JWTTTL    = 72 * time.Hour

	// HTTP server
	ServerAddr         = ":8080"
	ServerReadTimeout  = 10 * time.Second
	ServerWriteTimeout = 10 * time.Second
)
