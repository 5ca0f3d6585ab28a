package storage

import (
	"fmt"
	"io"

	clamd "github.com/dutchcoders/go-clamd"
)

// Scanner checks an upload stream for malware before it is stored.
type Scanner interface {
	Scan(r io.Reader) (clean bool, err error)
}

// ClamScanner scans streams against a clamd daemon.
type ClamScanner struct {
	c *clamd.Clamd
}

func NewClamScanner(addr string) *ClamScanner {
	return &ClamScanner{c: clamd.NewClamd(addr)}
}

// Ping reports whether the daemon is reachable.
func (s *ClamScanner) Ping() error {
	return s.c.Ping()
}

func (s *ClamScanner) Scan(r io.Reader) (bool, error) {
	abort := make(chan bool)
	defer close(abort)

	results, err := s.c.ScanStream(r, abort)
	if err != nil {
		return false, fmt.Errorf("scan stream: %w", err)
	}
	for res := range results {
		if res.Status != clamd.RES_OK {
			return false, nil
		}
	}
	return true, nil
}
