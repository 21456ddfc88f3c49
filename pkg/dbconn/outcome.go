package dbconn

import "database/sql"

// Kind names the database a connection was made to.
type Kind string

const (
	KindNone       Kind = "none"
	KindPostgreSQL Kind = "PostgreSQL"
	KindMySQL      Kind = "MySQL"
)

// Outcome is the result of a single connection attempt. Conn is non-nil only
// when Status is "Connected".
type Outcome struct {
	Status string
	Conn   *sql.DB
	Type   Kind
}

// Connected reports whether the attempt produced a live handle.
func (o Outcome) Connected() bool {
	return o.Conn != nil
}

// Close releases the handle, if any.
func (o Outcome) Close() error {
	if o.Conn == nil {
		return nil
	}
	return o.Conn.Close()
}

func failed(status string) Outcome {
	return Outcome{Status: status, Type: KindNone}
}
