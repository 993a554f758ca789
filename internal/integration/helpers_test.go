package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/seat-reservation/internal/auth"
	"github.com/metinatakli/seat-reservation/internal/booking"
	"github.com/metinatakli/seat-reservation/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

var keysToIgnore = map[string]struct{}{
	"timestamp": {},
	"requestId": {},
	"createdAt": {},
	"lockedAt":  {},
	"expiresAt": {},
	"code":      {},
}

func prepareRequest(method, path string, body io.Reader, headers map[string]string) (*http.Request, error) {
	req := httptest.NewRequest(method, path, body)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

func bearer(t testing.TB, identity domain.Identity) map[string]string {
	t.Helper()

	token, err := auth.IssueToken([]byte(TestJWTSecret), identity, time.Hour)
	require.NoError(t, err)

	return map[string]string{"Authorization": "Bearer " + token}
}

func jsonBody(s string) io.Reader {
	return strings.NewReader(s)
}

func compareResponse(t testing.TB, body io.Reader, expectedResponse string) {
	var actual map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&actual))

	cleanMap(actual)

	var expected map[string]any
	require.NoError(t, json.Unmarshal([]byte(expectedResponse), &expected))

	// ignore indeterministic fields while comparing
	opts := cmpopts.IgnoreMapEntries(func(k string, _ any) bool {
		_, ok := keysToIgnore[k]
		return ok
	})

	if diff := cmp.Diff(expected, actual, opts); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func cleanMap(m map[string]any) {
	for k, v := range m {
		if _, ok := keysToIgnore[k]; ok {
			delete(m, k)
			continue
		}

		switch nested := v.(type) {
		case map[string]any:
			cleanMap(nested)
		case []any:
			for _, item := range nested {
				if itemMap, ok := item.(map[string]any); ok {
					cleanMap(itemMap)
				}
			}
		}
	}
}

func executeSQLFile(t testing.TB, db *pgxpool.Pool, path string) {
	t.Helper()

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = db.Exec(context.Background(), string(content))
	require.NoError(t, err, "failed to execute %s", path)
}

func flushAllCache(t testing.TB, client *redis.Client) {
	t.Helper()

	require.NoError(t, client.FlushAll(context.Background()).Err())
}

func setupBaseState(t testing.TB, app *TestApp) {
	t.Helper()

	executeSQLFile(t, app.DB, "testdata/reset.sql")
	flushAllCache(t, app.RedisClient)

	executeSQLFile(t, app.DB, "testdata/movies_up.sql")
	executeSQLFile(t, app.DB, "testdata/showtimes_up.sql")
}

// ageLocks moves the lock time of every locked seat back by d.
func ageLocks(t testing.TB, db *pgxpool.Pool, d time.Duration) {
	t.Helper()

	_, err := db.Exec(context.Background(),
		"UPDATE seats SET locked_at = locked_at - make_interval(secs => $1) WHERE status = 'locked'",
		d.Seconds())
	require.NoError(t, err)
}

func seatStatus(t testing.TB, db *pgxpool.Pool, seatID int) domain.SeatStatus {
	t.Helper()

	var status string
	err := db.QueryRow(context.Background(), "SELECT status FROM seats WHERE id = $1", seatID).Scan(&status)
	require.NoError(t, err)

	return domain.SeatStatus(status)
}

func countRows(t testing.TB, db *pgxpool.Pool, table string) int {
	t.Helper()

	var count int
	err := db.QueryRow(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&count)
	require.NoError(t, err)

	return count
}

func confirmInput(identity domain.Identity, seatIDs ...int) booking.ConfirmInput {
	return booking.ConfirmInput{
		ShowtimeID: TestShowtimeId,
		SeatIDs:    seatIDs,
		UserID:     identity.UserID,
	}
}
