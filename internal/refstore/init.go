package refstore

import (
	"sync"

	"github.com/rs/zerolog/log"
)

var (
	store Store
	once  sync.Once
)

// Init loads the reference corpus from dir; missing or corrupt reference
// data keeps the process from becoming ready.
func Init(dir string) {
	once.Do(func() {
		loaded, err := Load(dir)
		if err != nil {
			log.Fatal().Err(err).Msgf("Failed to load reference store from %s", dir)
		}
		store = loaded
		log.Info().Msgf("Reference store loaded: %d embeddings of dim %d, %d identities",
			loaded.Count(), loaded.Dim(), maxMetadataCount(loaded))
	})
}

func maxMetadataCount(s Store) int {
	if fs, ok := s.(*fileStore); ok {
		return len(fs.metadata)
	}
	return 0
}

// Instance returns the reference store. Ensure that Init is called before
// calling this function
func Instance() Store {
	if store == nil {
		log.Panic().Msg("reference store not initialized, call Init first")
	}
	return store
}

// SetInstance sets the store instance, handy for tests with small synthetic tables
func SetInstance(s Store) {
	store = s
	once.Do(func() {}) // Marking the sync once as done
}
