package context

import (
	"boscoin.io/ballotbox/lib/storage"
)

// Context is what a contract method sees of its call: who sent it and the
// storage handle every read and write goes through. For `Execute` the handle
// is the call's transaction, for `Query` a read-only snapshot.
type Context struct {
	sender string
	db     *storage.LevelDBBackend
}

func NewContext(sender string, db *storage.LevelDBBackend) *Context {
	return &Context{
		sender: sender,
		db:     db,
	}
}

func (c *Context) SenderAddress() string {
	return c.sender
}

func (c *Context) DB() *storage.LevelDBBackend {
	return c.db
}
