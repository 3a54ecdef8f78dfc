package storage

import (
	"encoding/json"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	leveldbIterator "github.com/syndtr/goleveldb/leveldb/iterator"
	leveldbOpt "github.com/syndtr/goleveldb/leveldb/opt"
	leveldbStorage "github.com/syndtr/goleveldb/leveldb/storage"
	leveldbUtil "github.com/syndtr/goleveldb/leveldb/util"

	"boscoin.io/ballotbox/lib/common"
	"boscoin.io/ballotbox/lib/errors"
)

// LevelDBCore is satisfied by `*leveldb.DB`, `*leveldb.Transaction` and
// `*Snapshot`, so one `LevelDBBackend` API serves the store, a running
// transaction and a read-only view.
type LevelDBCore interface {
	Has([]byte, *leveldbOpt.ReadOptions) (bool, error)
	Get([]byte, *leveldbOpt.ReadOptions) ([]byte, error)
	NewIterator(*leveldbUtil.Range, *leveldbOpt.ReadOptions) leveldbIterator.Iterator
	Put([]byte, []byte, *leveldbOpt.WriteOptions) error
}

type LevelDBBackend struct {
	DB *leveldb.DB

	Core LevelDBCore
}

func setLevelDBCoreError(err error) error {
	if err == nil {
		return nil
	}

	if _, ok := err.(*errors.Error); ok {
		return err
	}

	return errors.StorageCoreError.Clone().SetData(
		"error",
		fmt.Sprintf("%s: %s", errors.StorageCoreError.Message, err.Error()),
	)
}

func (st *LevelDBBackend) Init(config *Config) (err error) {
	var db *leveldb.DB

	switch config.Scheme {
	case "file":
		if db, err = leveldb.OpenFile(config.Path, nil); err != nil {
			err = setLevelDBCoreError(err)
			return
		}
	case "memory":
		return st.initWithStorage(leveldbStorage.NewMemStorage())
	default:
		err = errors.StorageCoreError.Clone().SetData("error", fmt.Sprintf("unsupported scheme, '%s'", config.Scheme))
		return
	}

	st.DB = db
	st.Core = db

	return
}

// initWithStorage opens the database over an already prepared levelDB
// storage.
func (st *LevelDBBackend) initWithStorage(sto leveldbStorage.Storage) (err error) {
	var db *leveldb.DB
	if db, err = leveldb.Open(sto, nil); err != nil {
		return setLevelDBCoreError(err)
	}

	st.DB = db
	st.Core = db

	return
}

func (st *LevelDBBackend) Close() error {
	if st.DB == nil {
		return nil
	}
	return st.DB.Close()
}

// OpenTransaction starts the write unit of a single call. levelDB allows
// one open transaction at a time; the next `OpenTransaction` blocks until
// this one is committed or discarded.
func (st *LevelDBBackend) OpenTransaction() (*LevelDBBackend, error) {
	if _, ok := st.Core.(*leveldb.Transaction); ok {
		return nil, setLevelDBCoreError(fmt.Errorf("this is already *leveldb.Transaction"))
	}

	transaction, err := st.DB.OpenTransaction()
	if err != nil {
		err = setLevelDBCoreError(err)
		return nil, err
	}

	return &LevelDBBackend{
		DB:   st.DB,
		Core: transaction,
	}, nil
}

func (st *LevelDBBackend) Discard() error {
	ts, ok := st.Core.(*leveldb.Transaction)
	if !ok {
		return setLevelDBCoreError(fmt.Errorf("this is not *leveldb.Transaction"))
	}

	ts.Discard()
	return nil
}

func (st *LevelDBBackend) Commit() error {
	ts, ok := st.Core.(*leveldb.Transaction)
	if !ok {
		return setLevelDBCoreError(fmt.Errorf("this is not *leveldb.Transaction"))
	}

	return setLevelDBCoreError(ts.Commit())
}

// OpenSnapshot returns a read-only backend over the committed state at this
// moment; writes through it fail with `errors.NotImplemented`.
func (st *LevelDBBackend) OpenSnapshot() (*LevelDBBackend, error) {
	snapshot, err := NewSnapshot(st)
	if err != nil {
		return nil, setLevelDBCoreError(err)
	}

	return &LevelDBBackend{
		DB:   st.DB,
		Core: snapshot,
	}, nil
}

func (st *LevelDBBackend) Release() {
	if s, ok := st.Core.(*Snapshot); ok {
		s.Release()
	}
}

func (st *LevelDBBackend) makeKey(key string) []byte {
	return []byte(key)
}

func (st *LevelDBBackend) Has(k string) (bool, error) {
	ok, err := st.Core.Has(st.makeKey(k), nil)
	if err != nil {
		if err == leveldb.ErrNotFound {
			return false, nil
		}
		return false, setLevelDBCoreError(err)
	}

	return ok, nil
}

func (st *LevelDBBackend) GetRaw(k string) (b []byte, err error) {
	b, err = st.Core.Get(st.makeKey(k), nil)
	if err == leveldb.ErrNotFound {
		return nil, errors.StorageRecordDoesNotExist
	}
	err = setLevelDBCoreError(err)

	return
}

func (st *LevelDBBackend) Get(k string, i interface{}) (err error) {
	var b []byte
	if b, err = st.GetRaw(k); err != nil {
		return
	}

	if err = json.Unmarshal(b, i); err != nil {
		err = setLevelDBCoreError(err)
		return
	}

	return
}

func (st *LevelDBBackend) encode(v interface{}) (encoded []byte, err error) {
	if serializable, ok := v.(common.Serializable); ok {
		encoded, err = serializable.Serialize()
	} else {
		encoded, err = common.EncodeJSONValue(v)
	}
	err = setLevelDBCoreError(err)

	return
}

// New stores a new record; it fails with
// `errors.StorageRecordAlreadyExists` when the key is taken.
func (st *LevelDBBackend) New(k string, v interface{}) (err error) {
	var encoded []byte
	if encoded, err = st.encode(v); err != nil {
		return
	}

	var exists bool
	if exists, err = st.Has(k); exists || err != nil {
		if exists {
			err = errors.StorageRecordAlreadyExists
		}
		return
	}

	err = setLevelDBCoreError(st.Core.Put(st.makeKey(k), encoded, nil))

	return
}

// Set overwrites an existing record; it fails with
// `errors.StorageRecordDoesNotExist` when there is nothing to overwrite.
func (st *LevelDBBackend) Set(k string, v interface{}) (err error) {
	var encoded []byte
	if encoded, err = st.encode(v); err != nil {
		return
	}

	var exists bool
	if exists, err = st.Has(k); !exists || err != nil {
		if !exists && err == nil {
			err = errors.StorageRecordDoesNotExist
		}
		return
	}

	err = setLevelDBCoreError(st.Core.Put(st.makeKey(k), encoded, nil))

	return
}

// GetIterator walks the keys starting with `prefix` in levelDB key order.
// The first func returns the next item and whether it is valid, the second
// releases the iterator early.
func (st *LevelDBBackend) GetIterator(prefix string, option ListOptions) (func() (IterItem, bool), func()) {
	var reverse = false
	var cursor []byte
	var limit uint64 = 0
	if option != nil {
		reverse = option.Reverse()
		cursor = option.Cursor()
		limit = option.Limit()
	}

	var dbRange *leveldbUtil.Range
	if len(prefix) > 0 {
		dbRange = leveldbUtil.BytesPrefix(st.makeKey(prefix))
	}

	iter := st.Core.NewIterator(dbRange, nil)

	var released bool
	release := func() {
		if !released {
			iter.Release()
			released = true
		}
	}

	var started bool
	var n uint64
	return func() (IterItem, bool) {
			if released {
				return IterItem{}, false
			}
			if limit != 0 && n >= limit {
				release()
				return IterItem{}, false
			}

			var ok bool
			if !started {
				started = true
				switch {
				case cursor != nil:
					ok = iter.Seek(cursor)
					if ok && reverse && string(iter.Key()) != string(cursor) {
						ok = iter.Prev()
					} else if !ok && reverse {
						ok = iter.Last()
					}
				case reverse:
					ok = iter.Last()
				default:
					ok = iter.First()
				}
			} else if reverse {
				ok = iter.Prev()
			} else {
				ok = iter.Next()
			}

			if !ok {
				release()
				return IterItem{}, false
			}

			n++
			return IterItem{
				N:     n,
				Key:   append([]byte{}, iter.Key()...),
				Value: append([]byte{}, iter.Value()...),
			}, true
		},
		release
}
