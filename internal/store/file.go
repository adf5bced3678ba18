package store

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/segmentio/encoding/json"

	"github.com/prashantprakashhh/smart-energy-optimizer/internal/collector"
)

// File names read by the dashboard.
const (
	WeatherFile = "weather_data.json"
	PricesFile  = "smard_prices.json"
)

var (
	// ErrNotFound is returned when a data file has not been written yet.
	ErrNotFound = errors.New("data file not found")
)

// FileStore writes collector output as pretty-printed JSON files.
// Each save overwrites the previous file. Concurrent saves into the same
// directory are not coordinated.
type FileStore struct {
	perm os.FileMode
}

// NewFileStore creates a FileStore writing files with mode 0644.
func NewFileStore() *FileStore {
	return &FileStore{perm: 0o644}
}

// SaveWeather writes the snapshot to dir/weather_data.json.
func (s *FileStore) SaveWeather(dir string, snapshot collector.WeatherSnapshot) (string, error) {
	path := filepath.Join(dir, WeatherFile)
	return path, s.writeJSON(path, snapshot)
}

// SavePrices writes the series to dir/smard_prices.json.
func (s *FileStore) SavePrices(dir string, series collector.PriceSeries) (string, error) {
	if series.Data == nil {
		series.Data = []collector.PricePoint{}
	}
	path := filepath.Join(dir, PricesFile)
	return path, s.writeJSON(path, series)
}

// LoadWeather reads dir/weather_data.json.
func (s *FileStore) LoadWeather(dir string) (collector.WeatherSnapshot, error) {
	var snapshot collector.WeatherSnapshot
	err := s.readJSON(filepath.Join(dir, WeatherFile), &snapshot)
	return snapshot, err
}

// LoadPrices reads dir/smard_prices.json.
func (s *FileStore) LoadPrices(dir string) (collector.PriceSeries, error) {
	var series collector.PriceSeries
	err := s.readJSON(filepath.Join(dir, PricesFile), &series)
	return series, err
}

func (s *FileStore) writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return &collector.IOError{Op: "encode", Path: path, Err: err}
	}
	if err := os.WriteFile(path, data, s.perm); err != nil {
		return &collector.IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}

func (s *FileStore) readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return &collector.IOError{Op: "read", Path: path, Err: err}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &collector.IOError{Op: "decode", Path: path, Err: err}
	}
	return nil
}
