package config

import (
	"time"

	"github.com/biluochun/biluochun/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Auth      Auth
}

// Webserver implement webserver settings.
type Webserver struct {
	DisableRecover      bool    // disable recover middleware
	Domain              string  // cookie domain, empty means host only
	Port                int     // listening port for the webserver
	ShutDownTime        int     // wait time for shutdown
	URL                 string  // base url for the webserver
	FrontendURL         string  // origin of the web frontend, used for CORS and post login redirects
	CookieEncryptionKey string  // base64 key for cookie encryption, empty disables it
	MaxUploadSize       int     // body limit in bytes, 0 keeps the fiber default
	Session             Session // session settings
}
