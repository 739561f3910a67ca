package userstore

// User is a row of the users table. Values returned from read
// operations are snapshots; they are not kept in sync with later
// database changes.
type User struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
	Age  int    `db:"age"`
}
