package integration_test

import "github.com/metinatakli/seat-reservation/internal/domain"

const (
	TestJWTSecret = "integration-secret"

	// Fixture ids, see testdata/showtimes_up.sql
	TestShowtimeId      = 1
	OtherShowtimeId     = 2
	TestMovieTitle      = "Test Movie"
	TestSeatsPerShowing = 50
)

var (
	TestUser  = domain.Identity{UserID: 1, Email: "alice@example.com"}
	OtherUser = domain.Identity{UserID: 2, Email: "bob@example.com"}
	TestAdmin = domain.Identity{UserID: 100, Email: "admin@example.com", Role: domain.RoleAdmin}
)
