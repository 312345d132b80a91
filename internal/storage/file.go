package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cx-tal-miterani/flight-operations-manager/internal/airline"
	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
)

// FileStore keeps the whole snapshot in one file. The encoding follows the
// file name: ".json" or ".cbor", optionally followed by ".zst" for zstd
// compression, e.g. "flights.cbor.zst".
type FileStore struct {
	path       string
	cbor       bool
	compressed bool
}

var cborEnc cbor.EncMode

func init() {
	var err error
	cborEnc, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("storage: CBOR encoder initialization failed: " + err.Error())
	}
}

func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("storage: file path is required")
	}
	name := strings.ToLower(path)
	compressed := strings.HasSuffix(name, ".zst")
	name = strings.TrimSuffix(name, ".zst")
	return &FileStore{
		path:       path,
		cbor:       strings.HasSuffix(name, ".cbor"),
		compressed: compressed,
	}, nil
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) encode(snap Snapshot) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if s.cbor {
		data, err = cborEnc.Marshal(snap)
	} else {
		data, err = json.MarshalIndent(snap, "", "  ")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if !s.compressed {
		return data, nil
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil), nil
}

func (s *FileStore) decode(data []byte) (Snapshot, error) {
	var snap Snapshot
	if s.compressed {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return snap, fmt.Errorf("failed to create zstd decoder: %w", err)
		}
		defer dec.Close()
		data, err = dec.DecodeAll(data, nil)
		if err != nil {
			return snap, fmt.Errorf("failed to decompress snapshot: %w", err)
		}
	}
	var err error
	if s.cbor {
		err = cbor.Unmarshal(data, &snap)
	} else {
		err = json.Unmarshal(data, &snap)
	}
	if err != nil {
		return snap, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snap, nil
}

// SaveAll writes the snapshot to a temporary file and renames it into place.
func (s *FileStore) SaveAll(ctx context.Context, flights []*airline.Flight) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := s.encode(NewSnapshot(flights))
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}
	return nil
}

// LoadAll returns no flights when the file does not exist yet.
func (s *FileStore) LoadAll(ctx context.Context) ([]*airline.Flight, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	snap, err := s.decode(data)
	if err != nil {
		return nil, err
	}
	return snap.Restore()
}

func (s *FileStore) Close() error { return nil }
