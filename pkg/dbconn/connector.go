// Package dbconn turns a DATABASE_URL into a one-off PostgreSQL or MySQL
// connection and reports how the attempt went.
package dbconn

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql" // registers "mysql"
	"github.com/lib/pq"
)

const (
	statusConnected     = "Connected"
	statusNotConfigured = "Not configured"
	statusInvalidURL    = "Invalid DATABASE_URL format"
)

// Connector opens database handles. The zero value uses sql.Open.
type Connector struct {
	// Open replaces sql.Open, mainly so tests can point a scheme at an
	// in-process database.
	Open func(driver, dsn string) (*sql.DB, error)
}

// Connect attempts a connection described by rawURL. It never fails: every
// problem is reported through the returned Outcome's Status.
func (c Connector) Connect(ctx context.Context, rawURL string) Outcome {
	if rawURL == "" {
		return failed(statusNotConfigured)
	}

	t, err := ParseTarget(rawURL)
	if err != nil {
		return failed(statusInvalidURL)
	}

	var driver, dsn string
	var kind Kind
	switch t.Scheme {
	case "postgres", "postgresql":
		driver, dsn, kind = "postgres", t.PostgresDSN(), KindPostgreSQL
	case "mysql":
		driver, dsn, kind = "mysql", t.MySQLDSN(), KindMySQL
	default:
		return failed(fmt.Sprintf("Unsupported database scheme: %s", t.Scheme))
	}

	db, err := c.open(ctx, driver, dsn)
	if kind == KindPostgreSQL && errors.Is(err, pq.ErrSSLNotSupported) && !t.Params.Has("sslmode") {
		// lib/pq has no sslmode=prefer; without an explicit mode try SSL
		// first and fall back to plaintext when the server refuses it.
		db, err = c.open(ctx, driver, t.withParam("sslmode", "disable").PostgresDSN())
	}
	if err != nil {
		return failed("Connection failed: " + err.Error())
	}
	return Outcome{Status: statusConnected, Conn: db, Type: kind}
}

// open returns a handle that has completed at least one round trip.
func (c Connector) open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	open := c.Open
	if open == nil {
		open = sql.Open
	}

	db, err := open(driver, dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
