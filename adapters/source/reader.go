package source

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"titanicdash/domain/core"
	"titanicdash/domain/dataset"
	"titanicdash/internal"
)

// Config holds settings for the source reader
type Config struct {
	Timeout      time.Duration // per-fetch HTTP timeout
	MaxBodyBytes int64         // refuse larger payloads
	UserAgent    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Timeout:      30 * time.Second,
		MaxBodyBytes: 64 * 1024 * 1024,
		UserAgent:    "titanicdash/1.0",
	}
}

// Reader fetches CSV or XLSX tables over HTTP(S) or from the local filesystem
type Reader struct {
	client *http.Client
	config Config
	logger *internal.Logger
}

// NewReader creates a reader. A nil client gets one with config.Timeout.
func NewReader(client *http.Client, config Config, logger *internal.Logger) *Reader {
	if client == nil {
		client = &http.Client{Timeout: config.Timeout}
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Reader{client: client, config: config, logger: logger.With("SourceReader")}
}

// Fetch downloads and parses the table at sourceURL. Any failure, network
// or format, is a load error; nothing is retried.
func (r *Reader) Fetch(ctx context.Context, sourceURL string) (*dataset.RawTable, error) {
	start := time.Now()

	data, err := r.readBytes(ctx, sourceURL)
	if err != nil {
		return nil, core.NewLoadError(sourceURL, fmt.Errorf("%w: %v", core.ErrFetch, err))
	}
	r.logger.Debug("fetched %s (%d bytes) in %.2fms", sourceURL, len(data), float64(time.Since(start).Nanoseconds())/1e6)

	var headers []string
	var rows [][]string
	if isWorkbook(sourceURL) {
		headers, rows, err = parseWorkbook(data)
	} else {
		headers, rows, err = parseCSV(data)
	}
	if err != nil {
		return nil, core.NewLoadError(sourceURL, err)
	}

	r.logger.Info("parsed %s: %d columns, %d rows", sourceURL, len(headers), len(rows))

	return &dataset.RawTable{
		Source:   sourceURL,
		Checksum: core.NewHash(data),
		Headers:  headers,
		Rows:     rows,
	}, nil
}

func (r *Reader) readBytes(ctx context.Context, sourceURL string) ([]byte, error) {
	u, err := url.Parse(sourceURL)
	if err != nil {
		return nil, fmt.Errorf("invalid source URL: %w", err)
	}

	switch u.Scheme {
	case "http", "https":
		return r.readHTTP(ctx, sourceURL)
	case "file":
		return r.readFile(u.Path)
	case "":
		return r.readFile(sourceURL)
	}
	return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
}

func (r *Reader) readHTTP(ctx context.Context, sourceURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", r.config.UserAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	return r.readLimited(resp.Body)
}

func (r *Reader) readFile(p string) ([]byte, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return r.readLimited(f)
}

func (r *Reader) readLimited(src io.Reader) ([]byte, error) {
	limit := r.config.MaxBodyBytes
	if limit <= 0 {
		return io.ReadAll(src)
	}
	data, err := io.ReadAll(io.LimitReader(src, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("payload exceeds %d bytes", limit)
	}
	return data, nil
}

func isWorkbook(sourceURL string) bool {
	p := sourceURL
	if u, err := url.Parse(sourceURL); err == nil && u.Path != "" {
		p = u.Path
	}
	return strings.EqualFold(path.Ext(p), ".xlsx")
}

// parseCSV requires a header row and the same field count on every row.
func parseCSV(data []byte) ([]string, [][]string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = 0 // first record fixes the width

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, core.ErrMissingHeader
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", core.ErrMalformed, err)
	}
	headers, err := cleanHeaders(header)
	if err != nil {
		return nil, nil, err
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", core.ErrMalformed, err)
		}
		rows = append(rows, record)
	}

	return headers, rows, nil
}

// parseWorkbook reads the first sheet. Short rows are padded since the
// workbook format drops trailing empty cells; long rows are malformed.
func parseWorkbook(data []byte) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", core.ErrMalformed, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, core.ErrMissingHeader
	}

	all, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", core.ErrMalformed, err)
	}
	if len(all) == 0 {
		return nil, nil, core.ErrMissingHeader
	}

	headers, err := cleanHeaders(all[0])
	if err != nil {
		return nil, nil, err
	}

	rows := make([][]string, 0, len(all)-1)
	for i, row := range all[1:] {
		if len(row) > len(headers) {
			return nil, nil, fmt.Errorf("%w: row %d has %d fields, want %d", core.ErrMalformed, i+2, len(row), len(headers))
		}
		padded := make([]string, len(headers))
		copy(padded, row)
		rows = append(rows, padded)
	}

	return headers, rows, nil
}

func cleanHeaders(header []string) ([]string, error) {
	headers := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	empty := true
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h != "" {
			empty = false
		}
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		if seen[h] {
			return nil, fmt.Errorf("%w: duplicate column %q", core.ErrMalformed, h)
		}
		seen[h] = true
		headers[i] = h
	}
	if empty {
		return nil, core.ErrMissingHeader
	}
	return headers, nil
}
