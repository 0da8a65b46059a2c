// Package dataset serves the read-only student CSV archive.
package dataset

import (
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"golang.org/x/crypto/blake2b"
)

// ErrNotFound is returned when the CSV file does not exist.
var ErrNotFound = errors.New("dataset file not found")

// DefaultPageSize is the number of rows per archive page.
const DefaultPageSize = 30

// DownloadName is the attachment filename offered to clients.
const DownloadName = "student_data.csv"

// Page is one page of the archive. Number is 1-based.
type Page struct {
	Columns      []string
	Rows         [][]string
	Number       int
	TotalPages   int
	TotalRecords int
}

// HasPrev reports whether a previous page exists.
func (p Page) HasPrev() bool { return p.Number > 1 }

// HasNext reports whether a next page exists.
func (p Page) HasNext() bool { return p.Number < p.TotalPages }

// Window returns the page numbers within radius of the current page.
func (p Page) Window(radius int) []int {
	lo := max(1, p.Number-radius)
	hi := min(p.TotalPages, p.Number+radius)
	var nums []int
	for n := lo; n <= hi; n++ {
		nums = append(nums, n)
	}
	return nums
}

// Archive reads the CSV file on each call, so edits to the file are picked
// up without a restart.
type Archive struct {
	path     string
	pageSize int
}

// New creates an Archive over path. pageSize < 1 means DefaultPageSize.
func New(path string, pageSize int) *Archive {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &Archive{path: path, pageSize: pageSize}
}

// Path returns the CSV file location.
func (a *Archive) Path() string { return a.path }

// Page returns page n, clamped to [1, TotalPages]. An archive with a header
// and no rows has one empty page.
func (a *Archive) Page(n int) (Page, error) {
	columns, rows, err := a.read()
	if err != nil {
		return Page{}, err
	}

	total := len(rows)
	totalPages := max(1, (total+a.pageSize-1)/a.pageSize)
	n = min(max(n, 1), totalPages)

	start := (n - 1) * a.pageSize
	end := min(start+a.pageSize, total)

	return Page{
		Columns:      columns,
		Rows:         rows[start:end],
		Number:       n,
		TotalPages:   totalPages,
		TotalRecords: total,
	}, nil
}

func (a *Archive) read() ([]string, [][]string, error) {
	f, err := a.open()
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", a.path, err)
	}
	if len(records) == 0 {
		return nil, nil, nil
	}
	return records[0], records[1:], nil
}

func (a *Archive) open() (*os.File, error) {
	f, err := os.Open(a.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, a.path)
	}
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	return f, nil
}

// File is an open archive file ready to be served. Callers must Close it.
type File struct {
	*os.File
	ModTime time.Time
	ETag    string
}

// Open opens the CSV file for download and computes its ETag.
func (a *Archive) Open() (*File, error) {
	f, err := a.open()
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat dataset: %w", err)
	}

	etag, err := checksum(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, fmt.Errorf("rewind dataset: %w", err)
	}
	return &File{File: f, ModTime: info.ModTime(), ETag: etag}, nil
}

// checksum returns a quoted strong ETag built from a 128-bit BLAKE2b digest.
func checksum(r io.Reader) (string, error) {
	h, err := blake2b.New(16, nil)
	if err != nil {
		return "", fmt.Errorf("blake2b: %w", err)
	}
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("hash dataset: %w", err)
	}
	return `"` + hex.EncodeToString(h.Sum(nil)) + `"`, nil
}
