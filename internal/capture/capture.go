// Package capture reads and writes recorded receiver samples.
//
// A capture is a stream of packed samples, one bit per sample, least
// significant bit first within each byte. A set bit is a high line level.
// Files ending in .zst are zstd compressed. Serial sources stream the same
// format as it is sampled.
package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"go.bug.st/serial"
)

const chunkSize = 4096

// Reader unpacks samples from a capture stream
type Reader struct {
	r       io.Reader
	buf     []byte
	samples uint64
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: r, buf: make([]byte, chunkSize)}
}

// Run calls fn with each sample level until the stream ends, fn returns an
// error or ctx is done. The end of the stream is not an error.
func (r *Reader) Run(ctx context.Context, fn func(level bool) error) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := r.r.Read(r.buf)
		for _, b := range r.buf[:n] {
			for bit := 0; bit < 8; bit++ {
				if ferr := fn(b&(1<<bit) != 0); ferr != nil {
					return ferr
				}
			}
		}
		r.samples += uint64(n) * 8
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("capture: read: %w", err)
		}
	}
}

// Samples returns the number of samples read so far
func (r *Reader) Samples() uint64 { return r.samples }

// Writer packs samples into a capture stream. Close must be called to flush
// the final byte.
type Writer struct {
	w       io.Writer
	buf     []byte
	cur     byte
	n       uint
	last    bool
	samples uint64
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, buf: make([]byte, 0, chunkSize)}
}

// Write appends samples
func (w *Writer) Write(levels ...bool) error {
	for _, level := range levels {
		if level {
			w.cur |= 1 << w.n
		}
		w.last = level
		w.samples++
		if w.n++; w.n == 8 {
			w.buf = append(w.buf, w.cur)
			w.cur, w.n = 0, 0
			if len(w.buf) == cap(w.buf) {
				if err := w.flush(); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (w *Writer) flush() error {
	if len(w.buf) == 0 {
		return nil
	}
	_, err := w.w.Write(w.buf)
	w.buf = w.buf[:0]
	if err != nil {
		return fmt.Errorf("capture: write: %w", err)
	}
	return nil
}

// Samples returns the number of samples written so far
func (w *Writer) Samples() uint64 { return w.samples }

// Close pads the final byte by repeating the last level, flushes buffered
// samples and closes the underlying writer if it is an io.Closer.
func (w *Writer) Close() error {
	for w.n != 0 {
		if err := w.Write(w.last); err != nil {
			return err
		}
	}
	err := w.flush()
	if c, ok := w.w.(io.Closer); ok {
		err = errors.Join(err, c.Close())
	}
	return err
}

func compressed(path string) bool {
	return strings.HasSuffix(path, ".zst")
}

type zstdFile struct {
	*zstd.Decoder
	f *os.File
}

func (z zstdFile) Close() error {
	z.Decoder.Close()
	return z.f.Close()
}

// Open opens a capture file for reading
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("capture: %w", err)
	}
	if !compressed(path) {
		return f, nil
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("capture: zstd: %w", err)
	}
	return zstdFile{Decoder: dec, f: f}, nil
}

type zstdWriter struct {
	*zstd.Encoder
	f *os.File
}

func (z zstdWriter) Close() error {
	return errors.Join(z.Encoder.Close(), z.f.Close())
}

// Create creates a capture file, truncating any existing one
func Create(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("capture: %w", err)
	}
	if !compressed(path) {
		return f, nil
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("capture: zstd: %w", err)
	}
	return zstdWriter{Encoder: enc, f: f}, nil
}

// serialTimeout bounds each read so that cancellation is noticed on an
// idle port
const serialTimeout = 100 * time.Millisecond

// OpenSerial opens a serial port streaming packed samples
func OpenSerial(device string, baudRate int) (io.ReadCloser, error) {
	port, err := serial.Open(device, &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("capture: open serial port %s: %w", device, err)
	}
	if err := port.SetReadTimeout(serialTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("capture: set read timeout: %w", err)
	}
	return port, nil
}
