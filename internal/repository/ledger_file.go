package repository

import (
	"bufio"
	"context"
	"errors"
	"io"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Domenick1991/flightledger/internal/domain"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// BookingStore is the durable ledger: it is always read and written whole.
type BookingStore interface {
	Load(ctx context.Context) ([]domain.Booking, error)
	Save(ctx context.Context, bookings []domain.Booking) error
}

// maxRecordBytes bounds a single ledger line, terminator included.
const maxRecordBytes = 1024 * 1024

type FileBookingRepository struct {
	fs   afero.Fs
	path string
	log  *zap.Logger
}

func NewFileBookingRepository(fsys afero.Fs, path string, log *zap.Logger) *FileBookingRepository {
	if log == nil {
		log = zap.NewNop()
	}
	return &FileBookingRepository{fs: fsys, path: path, log: log.Named("ledger_store")}
}

func (r *FileBookingRepository) Path() string {
	return r.path
}

// Load returns every record that parses, in file order. The leading count
// is never trusted; unparseable lines are skipped.
func (r *FileBookingRepository) Load(ctx context.Context) ([]domain.Booking, error) {
	f, err := r.fs.Open(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []domain.Booking{}, nil
		}
		return nil, &domain.StorageError{Op: "open", Path: r.path, Err: err}
	}
	defer f.Close()

	bookings := make([]domain.Booking, 0)
	br := bufio.NewReaderSize(f, 64*1024)

	for lineNo := 1; ; lineNo++ {
		line, oversized, err := readRecord(br)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &domain.StorageError{Op: "read", Path: r.path, Err: err}
		}
		if oversized {
			r.log.Warn("skipping oversized ledger line", zap.Int("line", lineNo), zap.Int("limit", maxRecordBytes))
			continue
		}
		if lineNo == 1 {
			if _, err := strconv.Atoi(strings.TrimSpace(line)); err != nil {
				r.log.Warn("ledger header is not a count", zap.String("header", line))
			}
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		b, err := decodeBooking(line)
		if err != nil {
			r.log.Warn("skipping malformed ledger record", zap.Int("line", lineNo), zap.Error(err))
			continue
		}
		bookings = append(bookings, b)
	}
	return bookings, nil
}

// readRecord returns the next line without its terminator. A line longer
// than maxRecordBytes is drained up to its newline and reported as oversized
// instead of being buffered. io.EOF is returned only when nothing was read.
func readRecord(br *bufio.Reader) (string, bool, error) {
	var (
		buf       []byte
		n         int
		oversized bool
	)
	for {
		chunk, err := br.ReadSlice('\n')
		n += len(chunk)
		if !oversized {
			if n > maxRecordBytes {
				oversized, buf = true, nil
			} else {
				buf = append(buf, chunk...)
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if errors.Is(err, io.EOF) && n > 0 {
			err = nil
		}
		return strings.TrimRight(string(buf), "\r\n"), oversized, err
	}
}

// Save rewrites the whole ledger. The content goes to a temporary file in
// the same directory which then replaces the ledger in one rename.
func (r *FileBookingRepository) Save(ctx context.Context, bookings []domain.Booking) error {
	dir := filepath.Dir(r.path)
	if err := r.fs.MkdirAll(dir, 0o755); err != nil {
		return &domain.StorageError{Op: "mkdir", Path: dir, Err: err}
	}

	tmp, err := afero.TempFile(r.fs, dir, filepath.Base(r.path)+".tmp-*")
	if err != nil {
		return &domain.StorageError{Op: "create", Path: dir, Err: err}
	}
	tmpName := tmp.Name()

	if err := writeLedger(tmp, bookings); err != nil {
		tmp.Close()
		_ = r.fs.Remove(tmpName)
		return &domain.StorageError{Op: "write", Path: tmpName, Err: err}
	}
	if err := tmp.Close(); err != nil {
		_ = r.fs.Remove(tmpName)
		return &domain.StorageError{Op: "close", Path: tmpName, Err: err}
	}
	if err := r.fs.Rename(tmpName, r.path); err != nil {
		_ = r.fs.Remove(tmpName)
		return &domain.StorageError{Op: "rename", Path: r.path, Err: err}
	}

	r.log.Debug("ledger rewritten", zap.Int("records", len(bookings)))
	return nil
}

func writeLedger(f afero.File, bookings []domain.Booking) error {
	w := bufio.NewWriter(f)
	if _, err := w.WriteString(strconv.Itoa(len(bookings)) + "\n"); err != nil {
		return err
	}
	for _, b := range bookings {
		if _, err := w.WriteString(encodeBooking(b) + "\n"); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Sync()
}

var _ BookingStore = (*FileBookingRepository)(nil)
