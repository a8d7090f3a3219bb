package ingest

import (
	"fmt"
	"io"
	"os"
)

// Load reads the whole file at path into one buffer. The size comes from the
// already-open handle so the file cannot change between stat and open.
// An unopenable, zero-length or short file yields a nil buffer and an error
// wrapping ErrUnreadableInput.
func Load(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableInput, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: stat %s: %v", ErrUnreadableInput, path, err)
	}
	size := info.Size()
	if size <= 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrUnreadableInput, path)
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(f, buf); err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrUnreadableInput, path, err)
	}
	return buf, nil
}
