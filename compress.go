package byml

import "io"

// DecompressedReader is implemented by a Yaz0 (or equivalent) decompressor.
// BYML files are occasionally wrapped in Yaz0 compression; this library
// treats that wrapper as an opaque byte-stream transform supplied by the
// caller rather than implementing it, so any Yaz0 decoder satisfying this
// interface can be chained in front of Decode.
type DecompressedReader interface {
	io.Reader
}

// CompressedWriter is the write-side counterpart of DecompressedReader: a
// Yaz0 (or equivalent) compressor that the caller can chain after Encode.
type CompressedWriter interface {
	io.Writer
}

// DecodeCompressed reads all of r, then decodes the result as a BYML
// document. It does not itself decompress anything -- r is expected to be
// the output end of a Yaz0 decompressor, or any other DecompressedReader.
func DecodeCompressed(r DecompressedReader) (*Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// EncodeCompressed encodes doc and writes the raw bytes to w. Compressing
// the output is the caller's responsibility: w is expected to be the input
// end of a Yaz0 compressor, or any other CompressedWriter.
func EncodeCompressed(w CompressedWriter, doc *Node, endian Endian, version uint16, opts ...EncodeOption) error {
	data, err := Encode(doc, endian, version, opts...)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
