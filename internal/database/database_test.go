package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/Pixel-Sprout/Gatecrasher-GGJ2026/internal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	databaseURL string
	startErr    error
	startOnce   sync.Once
	teardown    func(context.Context) error
)

func mustStartPostgresContainer() (terminate func(context.Context) error, err error) {
	var (
		dbName = "masquerade"
		dbPwd  = "password"
		dbUser = "user"
	)

	// testcontainers panics when it cannot locate a docker host
	defer func() {
		if r := recover(); r != nil {
			terminate, err = nil, fmt.Errorf("docker unavailable: %v", r)
		}
	}()

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:16-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return nil, err
	}

	databaseURL, err = dbContainer.ConnectionString(context.Background(), "sslmode=disable")
	if err != nil {
		return dbContainer.Terminate, err
	}
	return dbContainer.Terminate, nil
}

func TestMain(m *testing.M) {
	code := m.Run()

	if teardown != nil {
		if err := teardown(context.Background()); err != nil {
			log.Printf("could not teardown postgres container: %v", err)
		}
	}
	os.Exit(code)
}

func newService(t *testing.T) Service {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	startOnce.Do(func() {
		teardown, startErr = mustStartPostgresContainer()
	})
	if startErr != nil {
		t.Skipf("postgres container not available: %v", startErr)
	}

	srv, err := New(context.Background(), databaseURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })
	return srv
}

func TestNew(t *testing.T) {
	srv := newService(t)
	require.NotNil(t, srv)
}

func TestHealth(t *testing.T) {
	req := require.New(t)
	srv := newService(t)

	stats := srv.Health()

	req.Equal("up", stats["status"])
	req.NotContains(stats, "error")
	req.Equal("It's healthy", stats["message"])
}

func TestRecordRound_RoundTrip(t *testing.T) {
	req := require.New(t)
	srv := newService(t)
	ctx := context.Background()

	// Given two rounds of the same room
	first := internal.RoundRecord{
		RoomId:     "room-1",
		RoomName:   "Ballroom",
		Round:      1,
		Outcome:    internal.OutcomeGoodWin,
		EvilId:     "x",
		Players:    3,
		Awarded:    map[string]int{"a": 10, "b": 5},
		Scores:     map[string]int{"a": 10, "b": 5, "x": 0},
		FinishedAt: time.Now().Add(-time.Minute).UTC().Truncate(time.Millisecond),
	}
	second := first
	second.Round = 2
	second.Outcome = internal.OutcomeEvilWin
	second.Awarded = map[string]int{"x": 20}
	second.FinishedAt = time.Now().UTC().Truncate(time.Millisecond)

	// When
	req.NoError(srv.RecordRound(ctx, first))
	req.NoError(srv.RecordRound(ctx, second))

	// Then
	rounds, err := srv.RecentRounds(ctx, "room-1", 10)
	req.NoError(err)
	req.Len(rounds, 2)
	req.Equal(2, rounds[0].Round)
	req.Equal(internal.OutcomeEvilWin, rounds[0].Outcome)
	req.Equal(map[string]int{"x": 20}, rounds[0].Awarded)
	req.Equal(first.Scores, rounds[1].Scores)
	req.True(first.FinishedAt.Equal(rounds[1].FinishedAt))

	limited, err := srv.RecentRounds(ctx, "room-1", 1)
	req.NoError(err)
	req.Len(limited, 1)

	none, err := srv.RecentRounds(ctx, "other", 10)
	req.NoError(err)
	req.Empty(none)
}
