package refstore

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/visagelab/visage/internal/npy"
)

type fileStore struct {
	ids        []int64
	embeddings [][]float32
	metadata   []IdentityRecord
	dim        int
}

// Load builds a Store from the two reference files under dir. The embedding
// table's id field indexes positionally into the metadata file's line order;
// that coupling is validated here so a mismatch fails startup instead of
// silently corrupting every ranking.
func Load(dir string) (Store, error) {
	embeddingPath := filepath.Join(dir, EmbeddingFileName)
	raw, err := os.ReadFile(embeddingPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", embeddingPath, err)
	}
	table, err := npy.ReadTable(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", embeddingPath, err)
	}

	metadataPath := filepath.Join(dir, MetadataFileName)
	metadata, err := loadMetadata(metadataPath)
	if err != nil {
		return nil, err
	}

	store := &fileStore{
		ids:        table.Ids,
		embeddings: table.Embeddings,
		metadata:   metadata,
	}
	if len(store.embeddings) > 0 {
		store.dim = len(store.embeddings[0])
	}
	if err := store.validate(); err != nil {
		return nil, err
	}
	return store, nil
}

func loadMetadata(path string) ([]IdentityRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	defer file.Close()

	var records []IdentityRecord
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		var record IdentityRecord
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			return nil, fmt.Errorf("parsing %s line %d: %w", path, line, err)
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return records, nil
}

func (s *fileStore) validate() error {
	if len(s.ids) != len(s.embeddings) {
		return fmt.Errorf("embedding table invalid: %d ids vs %d embeddings", len(s.ids), len(s.embeddings))
	}
	for row, vec := range s.embeddings {
		if len(vec) != s.dim {
			return fmt.Errorf("embedding table invalid: row %d has dim %d, expected %d", row, len(vec), s.dim)
		}
	}
	for row, id := range s.ids {
		if id < 0 {
			return fmt.Errorf("embedding table invalid: row %d has negative id %d", row, id)
		}
		if id >= int64(len(s.metadata)) {
			return fmt.Errorf("reference data misaligned: row %d refers to id %d but metadata has only %d records", row, id, len(s.metadata))
		}
	}
	return nil
}

func (s *fileStore) IdentityAt(row int) int64 {
	return s.ids[row]
}

func (s *fileStore) EmbeddingAt(row int) []float32 {
	return s.embeddings[row]
}

func (s *fileStore) MetadataFor(identityId int64) (IdentityRecord, error) {
	if identityId < 0 || identityId >= int64(len(s.metadata)) {
		return IdentityRecord{}, fmt.Errorf("identity %d out of range [0, %d)", identityId, len(s.metadata))
	}
	return s.metadata[identityId], nil
}

func (s *fileStore) Count() int {
	return len(s.ids)
}

func (s *fileStore) Dim() int {
	return s.dim
}
