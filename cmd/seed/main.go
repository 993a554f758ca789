// Command seed migrates the database, creates demo showtimes with the default seat
// layout and prints bearer tokens for local development.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/seat-reservation/internal/auth"
	"github.com/metinatakli/seat-reservation/internal/domain"
	"github.com/metinatakli/seat-reservation/internal/repository"
)

type demoShowtime struct {
	theatre   string
	screen    string
	dayOffset int
	startTime string
}

var demoMovies = []struct {
	movie     domain.Movie
	showtimes []demoShowtime
}{
	{
		movie: domain.Movie{Title: "Dune: Part Two", Description: "Paul Atreides unites with the Fremen.", Duration: 166},
		showtimes: []demoShowtime{
			{theatre: "Grand", screen: "1", dayOffset: 1, startTime: "19:30"},
			{theatre: "Grand", screen: "2", dayOffset: 2, startTime: "21:00"},
		},
	},
	{
		movie: domain.Movie{Title: "Past Lives", Description: "Two childhood friends reunite.", Duration: 106},
		showtimes: []demoShowtime{
			{theatre: "Riverside", screen: "A", dayOffset: 1, startTime: "18:00"},
		},
	},
}

func main() {
	var (
		dsn        string
		migrations string
		jwtSecret  string
	)

	flag.StringVar(&dsn, "db-dsn", "", "PostgreSQL DSN")
	flag.StringVar(&migrations, "migrations", "file://migrations", "Migrations source URL")
	flag.StringVar(&jwtSecret, "jwt-secret", "", "HS256 secret used to sign development tokens")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	err := run(dsn, migrations, jwtSecret, logger)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

func run(dsn, migrations, jwtSecret string, logger *slog.Logger) error {
	err := repository.Migrate(dsn, migrations)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return err
	}
	defer pool.Close()

	store := repository.NewPostgresStore(pool)
	today := time.Now().UTC().Truncate(24 * time.Hour)

	err = store.Atomic(ctx, func(tx domain.Store) error {
		for _, demo := range demoMovies {
			movie := demo.movie
			movie.ReleaseDate = today.AddDate(0, -1, 0)

			err := tx.Movies().Create(ctx, &movie)
			if err != nil {
				return fmt.Errorf("failed to create movie %q: %w", movie.Title, err)
			}

			for _, st := range demo.showtimes {
				showtime := &domain.Showtime{
					MovieID:   movie.ID,
					Theatre:   st.theatre,
					Screen:    st.screen,
					Date:      today.AddDate(0, 0, st.dayOffset),
					StartTime: st.startTime,
				}

				err = tx.Showtimes().CreateWithSeats(ctx, showtime, domain.DefaultSeatLayout)
				if err != nil {
					return fmt.Errorf("failed to create showtime: %w", err)
				}

				logger.Info("created showtime", "id", showtime.ID, "movie", movie.Title, "date", showtime.Date.Format("2006-01-02"))
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	if jwtSecret == "" {
		return nil
	}

	identities := []domain.Identity{
		{UserID: 1, Email: "user1@example.com"},
		{UserID: 2, Email: "user2@example.com"},
		{UserID: 100, Email: "admin@example.com", Role: domain.RoleAdmin},
	}

	for _, identity := range identities {
		token, err := auth.IssueToken([]byte(jwtSecret), identity, 24*time.Hour)
		if err != nil {
			return err
		}

		fmt.Printf("user %d (%s):\t%s\n", identity.UserID, identity.Email, token)
	}

	return nil
}
