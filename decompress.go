package enrichseq

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"compress/zlib"
	"io"

	"github.com/krolaw/zipstream"
	"github.com/xi2/xz"
)

// Compression identifies the compression wrapping an input stream.
type Compression byte

const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionZip
	CompressionXZ
	CompressionZ
	CompressionBZip2
)

// Magic byte signatures from https://stackoverflow.com/a/19127748/199475
var compressionSigs = map[Compression][]byte{
	CompressionGzip:  {0x1f, 0x8b, 0x08},
	CompressionZip:   {0x50, 0x4b, 0x03, 0x04},
	CompressionXZ:    {0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00},
	CompressionZ:     {0x1f, 0x9d},
	CompressionBZip2: {0x42, 0x5a, 0x68},
}

// MaybeDecompress sniffs the leading bytes of r and, if they match a known
// compression signature, wraps r in the matching decompressor. Expression
// tables and GMT collections are frequently distributed gzip-compressed;
// uncompressed input passes through untouched. Unlike a file-based
// implementation, this works on any reader because the sniffed bytes are
// replayed via a buffered reader rather than a seek.
func MaybeDecompress(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)

	lead, err := br.Peek(6)
	if err != nil && err != io.EOF {
		return nil, err
	}

	switch sniffCompression(lead) {
	case CompressionGzip:
		return gzip.NewReader(br)
	case CompressionZip:
		return zipstream.NewReader(br), nil
	case CompressionBZip2:
		return bzip2.NewReader(br), nil
	case CompressionXZ:
		return xz.NewReader(br, 0)
	case CompressionZ:
		return zlib.NewReader(br)
	}

	return br, nil
}

func sniffCompression(lead []byte) Compression {
	for comp, sig := range compressionSigs {
		if bytes.HasPrefix(lead, sig) {
			return comp
		}
	}

	return CompressionNone
}
