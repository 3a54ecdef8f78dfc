package storage

import (
	"os"
	"sync"

	leveldbStorage "github.com/syndtr/goleveldb/leveldb/storage"
)

func CleanDB(path string) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return
	}

	os.RemoveAll(path)
}

func NewTestMemoryLevelDBBackend() *LevelDBBackend {
	st, err := NewStorage(&Config{Scheme: "memory"})
	if err != nil {
		panic(err)
	}

	return st
}

func NewTestFileLevelDBBackend(path string) *LevelDBBackend {
	st, err := NewStorage(&Config{Scheme: "file", Path: path})
	if err != nil {
		panic(err)
	}

	return st
}

// FaultyMemStorage is a memory levelDB storage which fails to create table
// files while a fault is set; transaction commits fail then.
type FaultyMemStorage struct {
	leveldbStorage.Storage

	mu    sync.RWMutex
	fault error
}

func NewFaultyMemStorage() *FaultyMemStorage {
	return &FaultyMemStorage{Storage: leveldbStorage.NewMemStorage()}
}

func (s *FaultyMemStorage) SetFault(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fault = err
}

func (s *FaultyMemStorage) Create(fd leveldbStorage.FileDesc) (leveldbStorage.Writer, error) {
	s.mu.RLock()
	fault := s.fault
	s.mu.RUnlock()

	if fault != nil && fd.Type == leveldbStorage.TypeTable {
		return nil, fault
	}

	return s.Storage.Create(fd)
}

func NewTestLevelDBBackendWithStorage(sto leveldbStorage.Storage) *LevelDBBackend {
	st := &LevelDBBackend{}
	if err := st.initWithStorage(sto); err != nil {
		panic(err)
	}

	return st
}

// Dump returns every key and raw value in the store.
func Dump(st *LevelDBBackend) map[string][]byte {
	all := map[string][]byte{}
	iterFunc, closeFunc := st.GetIterator("", nil)
	defer closeFunc()
	for {
		item, next := iterFunc()
		if !next {
			break
		}
		all[string(item.Key)] = item.Value
	}

	return all
}
