package jsonstore

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"tradingStrategyBot/internal/domain"
	"tradingStrategyBot/internal/ports"
)

const (
	dateLayout      = "2006-01-02"
	isoLayout       = "2006-01-02T15:04:05"
	filenameLayout  = "20060102"
	generatedLayout = "20060102_150405"
)

// Store implements ports.ArtifactStore as one JSON document per
// reconciled series under a flat data directory. Artifacts are
// immutable once written; reruns of the same parameters create new
// timestamped files.
type Store struct {
	dir    string
	logger ports.Logger
	now    func() time.Time
}

// Config holds configuration for the JSON artifact store.
type Config struct {
	DataDir string
	Logger  ports.Logger
}

// New creates the artifact store, ensuring the data directory exists.
func New(cfg Config) (*Store, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for artifact store")
	}
	dir := cfg.DataDir
	if dir == "" {
		dir = "./data_storage"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %q: %w", dir, err)
	}
	return &Store{dir: dir, logger: cfg.Logger, now: time.Now}, nil
}

// document is the on-disk artifact schema.
type document struct {
	Metadata metadata `json:"metadata"`
	Data     []record `json:"data"`
}

type metadata struct {
	Symbol       string  `json:"symbol"`
	Interval     string  `json:"interval"`
	FromDate     string  `json:"from_date"`
	ToDate       string  `json:"to_date"`
	RecordsCount int     `json:"records_count"`
	GeneratedAt  string  `json:"generated_at"`
	FileSizeMB   float64 `json:"file_size_mb"`
}

type record struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// Save writes a new artifact for the reconciled series. The filename
// embeds a generation timestamp, so identical parameter sets issued at
// different times coexist as separate files. The byte size is measured
// after the first write and stored in the metadata by rewriting the file.
func (s *Store) Save(candles []domain.Candle, symbol string, interval domain.Interval, from, to time.Time) (*ports.ArtifactMeta, error) {
	generatedAt := s.now()
	filename := fmt.Sprintf("%s_%s_%s_to_%s_%s.json",
		strings.ToUpper(symbol),
		interval,
		from.Format(filenameLayout),
		to.Format(filenameLayout),
		generatedAt.Format(generatedLayout),
	)
	path := filepath.Join(s.dir, filename)

	doc := document{
		Metadata: metadata{
			Symbol:       strings.ToUpper(symbol),
			Interval:     interval.String(),
			FromDate:     from.Format(isoLayout),
			ToDate:       to.Format(isoLayout),
			RecordsCount: len(candles),
			GeneratedAt:  generatedAt.Format(isoLayout),
		},
		Data: make([]record, 0, len(candles)),
	}
	for _, c := range candles {
		doc.Data = append(doc.Data, record{
			Date:   c.Timestamp.Format(isoLayout),
			Open:   c.Open,
			High:   c.High,
			Low:    c.Low,
			Close:  c.Close,
			Volume: c.Volume,
		})
	}

	if err := s.writeDocument(path, &doc); err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat artifact %q: %w", path, err)
	}
	doc.Metadata.FileSizeMB = roundMB(info.Size())
	if err := s.writeDocument(path, &doc); err != nil {
		return nil, err
	}

	s.logger.Info(context.Background(), "Saved series artifact", map[string]interface{}{
		"filename": filename,
		"records":  len(candles),
		"sizeMB":   doc.Metadata.FileSizeMB,
	})

	meta := toArtifactMeta(filename, doc.Metadata)
	return &meta, nil
}

// Load retrieves the NEWEST artifact whose metadata matches (symbol,
// interval, from, to). The lookup reads actual metadata rather than
// guessing filenames, so artifacts written under the timestamped
// scheme are found by the existence check that precedes a refetch.
// Returns nil, nil when no matching artifact exists.
func (s *Store) Load(symbol string, interval domain.Interval, from, to time.Time) (*ports.Artifact, error) {
	metas, err := s.List()
	if err != nil {
		return nil, err
	}

	symbol = strings.ToUpper(symbol)
	fromDay := from.Format(dateLayout)
	toDay := to.Format(dateLayout)
	for _, meta := range metas { // newest first
		if meta.Symbol == symbol &&
			meta.Interval == interval &&
			meta.FromDate.Format(dateLayout) == fromDay &&
			meta.ToDate.Format(dateLayout) == toDay {
			return s.LoadFile(meta.Filename)
		}
	}
	return nil, nil
}

// LoadFile retrieves an artifact by its exact filename.
func (s *Store) LoadFile(filename string) (*ports.Artifact, error) {
	doc, err := s.readDocument(filepath.Join(s.dir, filepath.Base(filename)))
	if err != nil {
		return nil, err
	}

	candles := make([]domain.Candle, 0, len(doc.Data))
	for _, r := range doc.Data {
		ts, err := parseISOTime(r.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: bad record timestamp %q in %s", ports.ErrCorruptArtifact, r.Date, filename)
		}
		candles = append(candles, domain.Candle{
			Timestamp: ts,
			Open:      r.Open,
			High:      r.High,
			Low:       r.Low,
			Close:     r.Close,
			Volume:    r.Volume,
		})
	}

	return &ports.Artifact{
		Meta: toArtifactMeta(filepath.Base(filename), doc.Metadata),
		Data: candles,
	}, nil
}

// List returns metadata for every readable artifact, newest first. A
// corrupt file is logged and skipped so it cannot hide the rest.
func (s *Store) List() ([]ports.ArtifactMeta, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory %q: %w", s.dir, err)
	}

	var metas []ports.ArtifactMeta
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		doc, err := s.readDocument(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			s.logger.Warn(context.Background(), "Skipping unreadable artifact", map[string]interface{}{
				"filename": entry.Name(),
				"error":    err.Error(),
			})
			continue
		}
		metas = append(metas, toArtifactMeta(entry.Name(), doc.Metadata))
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].GeneratedAt.After(metas[j].GeneratedAt)
	})
	return metas, nil
}

func (s *Store) writeDocument(path string, doc *document) error {
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode artifact: %w", err)
	}
	if err := os.WriteFile(path, payload, 0644); err != nil {
		return fmt.Errorf("failed to write artifact %q: %w", path, err)
	}
	return nil
}

func (s *Store) readDocument(path string) (*document, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ports.ErrNotFound, filepath.Base(path))
		}
		return nil, fmt.Errorf("%w: %s: %v", ports.ErrCorruptArtifact, filepath.Base(path), err)
	}
	var doc document
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ports.ErrCorruptArtifact, filepath.Base(path), err)
	}
	return &doc, nil
}

func toArtifactMeta(filename string, m metadata) ports.ArtifactMeta {
	fromDate, _ := parseISOTime(m.FromDate)
	toDate, _ := parseISOTime(m.ToDate)
	generatedAt, _ := parseISOTime(m.GeneratedAt)
	return ports.ArtifactMeta{
		Filename:     filename,
		Symbol:       m.Symbol,
		Interval:     domain.Interval(m.Interval),
		FromDate:     fromDate,
		ToDate:       toDate,
		RecordsCount: m.RecordsCount,
		GeneratedAt:  generatedAt,
		FileSizeMB:   m.FileSizeMB,
	}
}

// parseISOTime accepts the layouts seen in artifacts: naive ISO
// datetimes, zoned RFC3339 and bare dates.
func parseISOTime(s string) (time.Time, error) {
	for _, layout := range []string{isoLayout, time.RFC3339, dateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}

func roundMB(sizeBytes int64) float64 {
	return math.Round(float64(sizeBytes)/(1024*1024)*100) / 100
}
