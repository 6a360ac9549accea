package repository

import (
	"sync"

	"gorm.io/gorm"
)

// Factory hands out repositories that share one connection. Each repository
// is built on first use.
type Factory struct {
	db *gorm.DB

	mu          sync.Mutex
	compression CompressionRepository
}

func NewFactory(db *gorm.DB) *Factory {
	return &Factory{db: db}
}

// DB is the connection behind every repository of this factory
func (f *Factory) DB() *gorm.DB {
	return f.db
}

func (f *Factory) GetCompressionRepository() CompressionRepository {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.compression == nil {
		f.compression = NewCompressionRepository(f.db)
	}
	return f.compression
}

var (
	globalMu      sync.RWMutex
	globalFactory *Factory
)

// InitializeFactory installs the process wide factory. A nil db removes it,
// which is how DB_DRIVER=none runs.
func InitializeFactory(db *gorm.DB) {
	globalMu.Lock()
	defer globalMu.Unlock()
	if db == nil {
		globalFactory = nil
		return
	}
	globalFactory = NewFactory(db)
}

// GetGlobalFactory returns the process wide factory or nil
func GetGlobalFactory() *Factory {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalFactory
}
