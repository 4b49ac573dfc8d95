package detector

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	adapter *Adapter
	once    sync.Once
)

// Init wires the adapter around the given session, to be called from main.go
func Init(session Session, tileSize int, timeout time.Duration) {
	once.Do(func() {
		if session == nil {
			log.Panic().Msg("detector session cannot be nil")
		}
		if tileSize <= 0 {
			log.Panic().Msgf("invalid model tile size %d", tileSize)
		}
		adapter = NewAdapter(session, tileSize, timeout)
	})
}

// Instance returns the detection adapter. Ensure that Init is called before
// calling this function
func Instance() *Adapter {
	if adapter == nil {
		log.Panic().Msg("detector not initialized, call Init first")
	}
	return adapter
}

// SetInstance sets the adapter instance, handy for handler tests
func SetInstance(a *Adapter) {
	adapter = a
	once.Do(func() {}) // Marking the sync once as done
}
