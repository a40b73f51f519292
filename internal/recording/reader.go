package recording

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
)

const maxFrameSize = 16 * 1024 * 1024

// Reader iterates the frames of a recording
type Reader struct {
	f    *os.File
	dec  *zstd.Decoder
	sc   *bufio.Scanner
	line int
}

// Open opens the recording at path
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), maxFrameSize)
	return &Reader{f: f, dec: dec, sc: sc}, nil
}

// Next returns the next frame, or io.EOF after the last one
func (r *Reader) Next() (Frame, error) {
	if !r.sc.Scan() {
		if err := r.sc.Err(); err != nil {
			return Frame{}, fmt.Errorf("line %d: %w", r.line+1, err)
		}
		return Frame{}, io.EOF
	}
	r.line++
	var f Frame
	if err := json.Unmarshal(r.sc.Bytes(), &f); err != nil {
		return Frame{}, fmt.Errorf("line %d: %w", r.line, err)
	}
	return f, nil
}

// Close releases the decoder and the file
func (r *Reader) Close() error {
	r.dec.Close()
	return r.f.Close()
}

// ReadAll loads every frame of the recording at path
func ReadAll(path string) ([]Frame, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var frames []Frame
	for {
		f, err := r.Next()
		if err == io.EOF {
			return frames, nil
		}
		if err != nil {
			return frames, err
		}
		frames = append(frames, f)
	}
}
