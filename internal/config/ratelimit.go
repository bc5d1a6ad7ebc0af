package config

import "time"

// RateLimitConfig describes one fixed admission window: at most Limit
// requests per Window per caller. Message is the client-visible text
// returned once the window is exhausted; Prefix namespaces counter keys
// so the three windows never collide.
type RateLimitConfig struct {
	Limit   int
	Window  time.Duration
	Message string
	Prefix  string
}

// RateLimits bundles the three independent admission windows: a strict
// one for authentication attempts, a stricter one for booking creation
// and a generous general window for all other traffic.
type RateLimits struct {
	Login   RateLimitConfig
	Booking RateLimitConfig
	General RateLimitConfig
}

// LoadRateLimits reads the three windows from the environment. Defaults
// match the hardened deployment: 5 auth attempts per 15 minutes, 3
// bookings per minute, 100 general requests per 15 minutes.
func LoadRateLimits() RateLimits {
	return RateLimits{
		Login: RateLimitConfig{
			Limit:   envInt("LOGIN_RATE_LIMIT", 5),
			Window:  envDur("LOGIN_RATE_WINDOW", 15*time.Minute),
			Message: "too many login attempts, try again later",
			Prefix:  "rl:login",
		},
		Booking: RateLimitConfig{
			Limit:   envInt("BOOKING_RATE_LIMIT", 3),
			Window:  envDur("BOOKING_RATE_WINDOW", time.Minute),
			Message: "too many bookings, try again later",
			Prefix:  "rl:booking",
		},
		General: RateLimitConfig{
			Limit:   envInt("GENERAL_RATE_LIMIT", 100),
			Window:  envDur("GENERAL_RATE_WINDOW", 15*time.Minute),
			Message: "too many requests",
			Prefix:  "rl:general",
		},
	}
}
