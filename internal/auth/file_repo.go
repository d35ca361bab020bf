package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// FileRepository reads allowed chat ids from a JSON array.
// Entries may be numbers or strings: [111, "-100222"].
type FileRepository struct {
	path string
}

func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

func (r *FileRepository) LoadAll() ([]string, error) {
	f, err := os.Open(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	var raw []json.RawMessage
	if err := json.NewDecoder(f).Decode(&raw); err != nil {
		if err == io.EOF {
			return []string{}, nil
		}
		return nil, fmt.Errorf("decode %s: %w", r.path, err)
	}
	ids := make([]string, 0, len(raw))
	for _, item := range raw {
		id, err := parseID(item)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", r.path, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseID(item json.RawMessage) (string, error) {
	var n int64
	if err := json.Unmarshal(item, &n); err == nil {
		return strconv.FormatInt(n, 10), nil
	}
	var s string
	if err := json.Unmarshal(item, &s); err != nil {
		return "", fmt.Errorf("invalid chat id %s", string(item))
	}
	return s, nil
}
