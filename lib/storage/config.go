package storage

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// Config selects the levelDB backend: `file:///path/to/db` opens (or
// creates) a database on disk, `memory://` keeps everything in memory.
type Config struct {
	Scheme string
	Path   string
}

func (c Config) String() string {
	if c.Scheme == "memory" {
		return "memory://"
	}
	return fmt.Sprintf("%s://%s", c.Scheme, c.Path)
}

func NewConfigFromString(s string) (*Config, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, err
	}

	switch u.Scheme {
	case "memory":
		return &Config{Scheme: "memory"}, nil
	case "file":
		path := u.Path
		if len(u.Host) > 0 {
			path = u.Host + path
		}
		if len(strings.TrimSpace(path)) < 1 {
			return nil, fmt.Errorf("empty file path: '%s'", s)
		}
		if path, err = filepath.Abs(path); err != nil {
			return nil, err
		}
		return &Config{Scheme: "file", Path: path}, nil
	default:
		return nil, fmt.Errorf("unsupported storage type: '%s'", u.Scheme)
	}
}

func NewStorage(config *Config) (*LevelDBBackend, error) {
	st := &LevelDBBackend{}
	if err := st.Init(config); err != nil {
		return nil, err
	}

	return st, nil
}
