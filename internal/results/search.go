package results

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/SagarTeotia1/PHOTO-CONTEXT-V1/internal/domain"
)

// Relevance weights, unchanged since the first version of the scorer.
const (
	wordWeight   = 0.6
	phraseWeight = 0.3
	nameWeight   = 0.1
)

// Index answers search and history queries by re-scanning every JSON file in
// the output directory. There is no persistent index; query cost is linear
// in corpus size.
type Index interface {
	Search(query string, maxResults int) ([]domain.SearchResult, error)
	History() ([]domain.HistoryEntry, error)
	Load(filename string) ([]byte, error)
}

type scanIndex struct {
	dir string
	log *zap.Logger
}

func NewIndex(dir string, log *zap.Logger) Index {
	return &scanIndex{dir: dir, log: log}
}

// Search scores every persisted record against the query and returns matches
// in descending relevance order. Empty and whitespace-only queries match
// nothing.
func (s *scanIndex) Search(query string, maxResults int) ([]domain.SearchResult, error) {
	if maxResults <= 0 {
		maxResults = 5
	}

	queryWords := strings.Fields(strings.ToLower(query))
	if len(queryWords) == 0 {
		return []domain.SearchResult{}, nil
	}

	files, err := s.listJSONFiles()
	if err != nil {
		return nil, err
	}

	var matches []domain.SearchResult
	for _, file := range files {
		records, err := s.readRecords(file)
		if err != nil {
			s.log.Warn("Skipping unreadable result file",
				zap.String("file", file),
				zap.Error(err))
			continue
		}

		for _, rec := range records {
			score := relevance(rec, queryWords)
			if score <= 0 {
				continue
			}
			matches = append(matches, domain.SearchResult{
				ImageName:        rec.ImageName,
				ImagePath:        rec.ImagePath,
				UploadPath:       rec.UploadPath,
				Context:          rec.Context,
				ImageSize:        rec.ImageSize,
				Timestamp:        rec.Timestamp,
				RelevanceScore:   score,
				SourceFile:       filepath.Base(file),
				ProcessingStatus: rec.ProcessingStatus,
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].RelevanceScore > matches[j].RelevanceScore
	})

	if len(matches) > maxResults {
		matches = matches[:maxResults]
	}
	if matches == nil {
		matches = []domain.SearchResult{}
	}

	return matches, nil
}

// History lists every persisted file, newest first.
func (s *scanIndex) History() ([]domain.HistoryEntry, error) {
	files, err := s.listJSONFiles()
	if err != nil {
		return nil, err
	}

	entries := make([]domain.HistoryEntry, 0, len(files))
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			continue
		}

		entry := domain.HistoryEntry{
			Filename: filepath.Base(file),
			Filepath: file,
		}

		var batch domain.BatchRecord
		if err := json.Unmarshal(data, &batch); err != nil {
			continue
		}

		if len(batch.Images) > 0 || batch.BatchTimestamp != "" {
			entry.Timestamp = batch.BatchTimestamp
			entry.ImageName = fmt.Sprintf("%d images", batch.TotalImages)
			entry.Status = batch.ProcessingStatus
		} else {
			var rec domain.ProcessingRecord
			if err := json.Unmarshal(data, &rec); err != nil {
				continue
			}
			entry.Timestamp = rec.Timestamp
			entry.ImageName = rec.ImageName
			entry.Status = rec.ProcessingStatus
		}

		entries = append(entries, entry)
	}

	// ISO8601 timestamps sort lexicographically.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp > entries[j].Timestamp
	})

	return entries, nil
}

// Load returns the raw contents of one persisted file by base name. Path
// separators are rejected so callers cannot escape the output directory.
func (s *scanIndex) Load(filename string) ([]byte, error) {
	if filename != filepath.Base(filename) || !strings.HasSuffix(filename, ".json") {
		return nil, fmt.Errorf("invalid result filename: %s", filename)
	}
	return os.ReadFile(filepath.Join(s.dir, filename))
}

func (s *scanIndex) listJSONFiles() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read output directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		files = append(files, filepath.Join(s.dir, entry.Name()))
	}
	return files, nil
}

// readRecords extracts every image record from one file, whether it holds a
// single record or a whole batch.
func (s *scanIndex) readRecords(path string) ([]domain.ProcessingRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var batch domain.BatchRecord
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, err
	}
	if len(batch.Images) > 0 {
		return batch.Images, nil
	}

	var rec domain.ProcessingRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	if rec.ImageName == "" && rec.Context == "" {
		return nil, nil
	}
	return []domain.ProcessingRecord{rec}, nil
}

// relevance combines word overlap, exact phrase hits and filename matches
// into a score between 0 and 1.
func relevance(rec domain.ProcessingRecord, queryWords []string) float64 {
	contextWords := strings.Fields(strings.ToLower(rec.Context))
	nameLower := strings.ToLower(rec.ImageName)

	contextSet := make(map[string]struct{}, len(contextWords))
	for _, w := range contextWords {
		contextSet[w] = struct{}{}
	}

	matching := 0
	for _, w := range queryWords {
		if _, ok := contextSet[w]; ok {
			matching++
		}
	}
	wordRelevance := float64(matching) / float64(len(queryWords))

	phraseRelevance := 0.0
	if len(queryWords) > 1 {
		for i := 0; i+len(queryWords) <= len(contextWords); i++ {
			if equalSlices(contextWords[i:i+len(queryWords)], queryWords) {
				phraseRelevance = 1.0
				break
			}
		}
	}

	nameRelevance := 0.0
	for _, w := range queryWords {
		if strings.Contains(nameLower, w) {
			nameRelevance = 0.5
			break
		}
	}

	score := wordRelevance*wordWeight + phraseRelevance*phraseWeight + nameRelevance*nameWeight
	if score > 1.0 {
		score = 1.0
	}
	return score
}

func equalSlices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
