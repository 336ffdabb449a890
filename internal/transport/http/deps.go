package http

import (
	"github.com/petnfc-api/internal/application/geo"
	"github.com/petnfc-api/internal/application/notification"
	"github.com/petnfc-api/internal/application/otp"
	"github.com/petnfc-api/internal/application/scan"
	"github.com/petnfc-api/internal/application/user"
	"github.com/petnfc-api/internal/infrastructure/realtime"
	"github.com/petnfc-api/internal/transport/http/middleware"
)

// Deps holds the application services the router exposes.
type Deps struct {
	Geo           geo.Service
	Users         user.Service
	OTP           otp.Service
	Notifications notification.Service
	Scans         scan.Service
	Hub           *realtime.Hub
	Tokens        middleware.TokenVerifier
}
