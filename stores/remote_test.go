package stores

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlukic/matchday/models"
	"github.com/mlukic/matchday/repositories"
)

// fakeDB is a minimal database/sql driver backing the remote store tests. It
// records every statement, serves canned rows matched by query fragment, and
// can inject a failure into any statement containing failOn.
type fakeDB struct {
	mu        sync.Mutex
	failOn    string
	results   []queryResult
	execs     []execCall
	commits   int
	rollbacks int
}

type execCall struct {
	query string
	args  []driver.Value
}

type queryResult struct {
	fragment string
	cols     []string
	rows     [][]driver.Value
}

func (f *fakeDB) failStatements(fragment string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failOn = fragment
}

func (f *fakeDB) serve(fragment string, cols []string, rows ...[]driver.Value) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, queryResult{fragment: fragment, cols: cols, rows: rows})
}

func (f *fakeDB) execIndex(fragment string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, e := range f.execs {
		if strings.Contains(e.query, fragment) {
			return i
		}
	}
	return -1
}

func (f *fakeDB) execArgs(fragment string) []driver.Value {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.execs {
		if strings.Contains(e.query, fragment) {
			return e.args
		}
	}
	return nil
}

type fakeConnector struct{ db *fakeDB }

func (c *fakeConnector) Connect(context.Context) (driver.Conn, error) {
	return &fakeConn{db: c.db}, nil
}

func (c *fakeConnector) Driver() driver.Driver { return fakeDriver{} }

type fakeDriver struct{}

func (fakeDriver) Open(string) (driver.Conn, error) {
	return nil, errors.New("open through the connector")
}

type fakeConn struct{ db *fakeDB }

func (c *fakeConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepared statements not supported")
}

func (c *fakeConn) Close() error { return nil }

func (c *fakeConn) Begin() (driver.Tx, error) { return &fakeTx{db: c.db}, nil }

func (c *fakeConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()
	if c.db.failOn != "" && strings.Contains(query, c.db.failOn) {
		return nil, fmt.Errorf("injected failure on %q", c.db.failOn)
	}
	vals := make([]driver.Value, len(args))
	for i, a := range args {
		vals[i] = a.Value
	}
	c.db.execs = append(c.db.execs, execCall{query: query, args: vals})
	return driver.RowsAffected(1), nil
}

func (c *fakeConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()
	if c.db.failOn != "" && strings.Contains(query, c.db.failOn) {
		return nil, fmt.Errorf("injected failure on %q", c.db.failOn)
	}
	for _, r := range c.db.results {
		if strings.Contains(query, r.fragment) {
			data := make([][]driver.Value, len(r.rows))
			copy(data, r.rows)
			return &fakeRows{cols: r.cols, data: data}, nil
		}
	}
	return &fakeRows{}, nil
}

type fakeTx struct{ db *fakeDB }

func (t *fakeTx) Commit() error {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	t.db.commits++
	return nil
}

func (t *fakeTx) Rollback() error {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	t.db.rollbacks++
	return nil
}

type fakeRows struct {
	cols []string
	data [][]driver.Value
	i    int
}

func (r *fakeRows) Columns() []string { return r.cols }
func (r *fakeRows) Close() error      { return nil }

func (r *fakeRows) Next(dest []driver.Value) error {
	if r.i >= len(r.data) {
		return io.EOF
	}
	copy(dest, r.data[r.i])
	r.i++
	return nil
}

func newFakeRemoteStore(t *testing.T) (*RemoteStore, *fakeDB) {
	t.Helper()
	fdb := &fakeDB{}
	conn := sql.OpenDB(&fakeConnector{db: fdb})
	t.Cleanup(func() { conn.Close() })

	store := NewRemoteStore(conn,
		repositories.NewPostgresTournamentRepository(),
		repositories.NewPostgresTeamRepository(),
		repositories.NewPostgresPlayerRepository(),
		repositories.NewPostgresMatchRepository(),
		repositories.NewPostgresGoalRepository(),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return store, fdb
}

func fullAggregate() models.Tournament {
	return models.Tournament{
		ID: "t1", Name: "Spring Cup", Date: "2025-06-14", Status: models.StatusActive,
		Teams: []models.Team{{
			ID: "team1", Name: "Reds",
			Players: []models.Player{{ID: "p1", Name: "Ana", Hat: models.HatFirst}},
		}},
		Fixtures: []models.Match{{
			ID:    "m1",
			Team1: models.Team{ID: "team1", Name: "Reds"},
			Team2: models.Team{ID: "team2", Name: "Blues"},
			Goals: []models.Goal{{ID: "g1", PlayerID: "p1", TeamID: "team1", Minute: 12}},
		}},
	}
}

func TestSaveWritesAllCollectionsInOneTransaction(t *testing.T) {
	store, fdb := newFakeRemoteStore(t)

	tour := fullAggregate()
	require.NoError(t, store.Save(context.Background(), &tour))

	fdb.mu.Lock()
	commits, rollbacks := fdb.commits, fdb.rollbacks
	fdb.mu.Unlock()
	assert.Equal(t, 1, commits)
	assert.Zero(t, rollbacks)

	for _, fragment := range []string{
		"INSERT INTO tournaments",
		"INSERT INTO teams",
		"INSERT INTO players",
		"INSERT INTO matches",
		"INSERT INTO goals",
	} {
		assert.GreaterOrEqual(t, fdb.execIndex(fragment), 0, "missing statement %q", fragment)
	}

	goalArgs := fdb.execArgs("INSERT INTO goals")
	require.Len(t, goalArgs, 7)
	assert.Equal(t, "g1", goalArgs[0])
	assert.Equal(t, "m1", goalArgs[1], "goal must be stamped with its match id")
	assert.Equal(t, "t1", goalArgs[2], "goal must be stamped with its tournament back-reference")
}

func TestSaveRollsBackOnMidBatchFailure(t *testing.T) {
	store, fdb := newFakeRemoteStore(t)
	fdb.failStatements("INSERT INTO goals")

	tour := fullAggregate()
	err := store.Save(context.Background(), &tour)
	require.Error(t, err)

	fdb.mu.Lock()
	commits, rollbacks := fdb.commits, fdb.rollbacks
	fdb.mu.Unlock()
	assert.Zero(t, commits, "a mid-batch failure must never commit")
	assert.Equal(t, 1, rollbacks)

	// The earlier writes of the batch did run and were rolled back with it.
	assert.GreaterOrEqual(t, fdb.execIndex("INSERT INTO tournaments"), 0)
	assert.GreaterOrEqual(t, fdb.execIndex("INSERT INTO matches"), 0)
}

func TestDeleteCascadesThroughAllCollections(t *testing.T) {
	store, fdb := newFakeRemoteStore(t)
	fdb.serve("SELECT id FROM matches", []string{"id"},
		[]driver.Value{"m1"}, []driver.Value{"m2"})

	require.NoError(t, store.Delete(context.Background(), "t1"))

	goalDel := fdb.execIndex("DELETE FROM goals WHERE tournament_id = $1 OR match_id = ANY($2)")
	matchDel := fdb.execIndex("DELETE FROM matches")
	playerDel := fdb.execIndex("DELETE FROM players")
	teamDel := fdb.execIndex("DELETE FROM teams")
	tournamentDel := fdb.execIndex("DELETE FROM tournaments")

	require.GreaterOrEqual(t, goalDel, 0, "goals must be deleted via the back-reference OR match-id union")
	require.GreaterOrEqual(t, tournamentDel, 0)
	assert.Less(t, goalDel, matchDel, "goals go before matches, their lookup path")
	assert.Less(t, matchDel, playerDel)
	assert.Less(t, playerDel, teamDel, "players go before teams, their lookup path")
	assert.Less(t, teamDel, tournamentDel)

	args := fdb.execArgs("OR match_id = ANY")
	require.Len(t, args, 2)
	assert.Equal(t, "t1", args[0])
	// The array argument covers pre-back-reference goals found via their
	// match ids.
	rendered := fmt.Sprintf("%v", args[1])
	assert.Contains(t, rendered, "m1")
	assert.Contains(t, rendered, "m2")

	fdb.mu.Lock()
	commits := fdb.commits
	fdb.mu.Unlock()
	assert.Equal(t, 1, commits)
}

func TestDeleteRollsBackWhenCascadeFails(t *testing.T) {
	store, fdb := newFakeRemoteStore(t)
	fdb.serve("SELECT id FROM matches", []string{"id"}, []driver.Value{"m1"})
	fdb.failStatements("DELETE FROM teams")

	err := store.Delete(context.Background(), "t1")
	require.Error(t, err)

	fdb.mu.Lock()
	commits, rollbacks := fdb.commits, fdb.rollbacks
	fdb.mu.Unlock()
	assert.Zero(t, commits)
	assert.Equal(t, 1, rollbacks)
}

func TestListAllRecoversAfterStartupOutage(t *testing.T) {
	store, fdb := newFakeRemoteStore(t)
	fdb.serve("FROM tournaments", []string{"id", "name", "date", "status", "rounds", "team_size", "has_half_time"},
		[]driver.Value{"t1", "Spring Cup", "2025-06-14", "setup", int64(1), int64(5), false})
	fdb.serve("FROM teams", []string{"id", "name", "stats"},
		[]driver.Value{"team1", "Reds", []byte(`{"points":3}`)},
		[]driver.Value{"team2", "Blues", []byte(`{corrupt`)})

	// The database is down at first contact: schema application fails and the
	// store reports the outage instead of latching it.
	fdb.failStatements("CREATE TABLE")
	_, err := store.ListAll(context.Background())
	require.Error(t, err)

	fdb.failStatements("")
	tournaments, err := store.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, tournaments, 1)
	assert.Equal(t, "Spring Cup", tournaments[0].Name)

	require.Len(t, tournaments[0].Teams, 2)
	assert.Equal(t, 3, tournaments[0].Teams[0].Stats.Points)
	assert.Zero(t, tournaments[0].Teams[1].Stats.Points, "corrupt stats read as empty, not as a failure")
}
