package pipeline

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"ev-dashboard/internal/model"

	"github.com/zeebo/xxh3"
)

// ------------------- Fetch -------------------

// Fetch reads the raw dataset from a local path or an http(s) URL.
func Fetch(ctx context.Context, pathOrURL string, timeout time.Duration) ([]byte, error) {
	if isRemote(pathOrURL) {
		return fetchHTTP(ctx, pathOrURL, timeout)
	}
	data, err := os.ReadFile(pathOrURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	return data, nil
}

func isRemote(s string) bool {
	l := strings.ToLower(s)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

func fetchHTTP(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	log.Printf("🌐 GET CSV: %s", url)
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build CSV request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to GET CSV: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to GET CSV: unexpected status %s", resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV body: %w", err)
	}
	return data, nil
}

// Checksum fingerprints the raw dataset bytes.
func Checksum(data []byte) string {
	return fmt.Sprintf("%016x", xxh3.Hash(data))
}

// ------------------- CSV Parsing -------------------

// ParseCSV turns CSV text into one RawRow per non-empty data line, keyed by the
// header row. Missing trailing cells are absent from the row; extra cells are
// ignored.
func ParseCSV(r io.Reader) ([]model.RawRow, error) {
	csvReader := csv.NewReader(r)
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	headers, err := csvReader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i, h := range headers {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		// Clean header names: trim whitespace and remove stray quotes
		h = strings.ReplaceAll(strings.TrimSpace(h), `"`, "")
		headers[i] = h
	}

	var rows []model.RawRow
	for {
		record, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			log.Printf("⚠ CSV: skipping malformed line %d: %v", perr.Line, perr.Err)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("CSV read error: %w", err)
		}
		if isBlank(record) {
			continue
		}

		row := make(model.RawRow, len(headers))
		for i, h := range headers {
			if i >= len(record) {
				break
			}
			row[h] = record[i]
		}
		rows = append(rows, row)
	}

	log.Printf("📄 CSV ingestion done: %d rows read", len(rows))
	return rows, nil
}

// isBlank reports a line holding a single empty cell.
func isBlank(record []string) bool {
	return len(record) == 1 && record[0] == ""
}
