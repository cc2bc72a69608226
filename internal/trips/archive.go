package trips

import (
	"bytes"
	"compress/bzip2"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/vvka-141/taxiload/pkg/taxiload"
)

// readArchive decompresses the bz2 file at path fully into memory and returns
// the payload together with the xxhash64 digest of the decompressed bytes.
func readArchive(path string) ([]byte, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("%w: open %s: %w", taxiload.ErrDecompression, path, err)
	}
	defer file.Close()

	var payload bytes.Buffer
	digest := xxhash.New()
	if _, err := io.Copy(io.MultiWriter(&payload, digest), bzip2.NewReader(file)); err != nil {
		return nil, "", fmt.Errorf("%w: %s: %w", taxiload.ErrDecompression, path, err)
	}

	return payload.Bytes(), hex.EncodeToString(digest.Sum(nil)), nil
}
