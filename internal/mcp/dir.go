package mcp

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// DirSource reads payloads from <Dir>/<session>/fetch_<endpoint>.json.
type DirSource struct {
	Dir string
}

// FileName returns the payload file name for an endpoint.
func FileName(endpoint string) string {
	return "fetch_" + endpoint + ".json"
}

func (s DirSource) BankTransactions(ctx context.Context, session string) ([]byte, error) {
	return s.read(ctx, EndpointBank, session)
}

func (s DirSource) MFTransactions(ctx context.Context, session string) ([]byte, error) {
	return s.read(ctx, EndpointMF, session)
}

func (s DirSource) StockTransactions(ctx context.Context, session string) ([]byte, error) {
	return s.read(ctx, EndpointStock, session)
}

// read returns nil, nil when the file does not exist.
func (s DirSource) read(ctx context.Context, endpoint, session string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if session == "" || session != filepath.Base(session) {
		return nil, fmt.Errorf("invalid session %q", session)
	}
	data, err := os.ReadFile(filepath.Join(s.Dir, session, FileName(endpoint)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", endpoint, err)
	}
	return data, nil
}

// Sessions lists the session directories under Dir, sorted.
func (s DirSource) Sessions() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("reading data dir: %w", err)
	}
	var sessions []string
	for _, e := range entries {
		if e.IsDir() {
			sessions = append(sessions, e.Name())
		}
	}
	sort.Strings(sessions)
	return sessions, nil
}
