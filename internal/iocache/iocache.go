// Package iocache is for caching I/O calls and persisting analysis runs.
package iocache

import (
	"sync"

	"github.com/huangsam/sunspot/internal/contract"
)

// CacheStoreManager manages multiple CacheStore instances.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	source       contract.CacheStore
	analysis     contract.AnalysisStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// NewCacheStoreManager wraps already opened stores. Either may be nil.
func NewCacheStoreManager(source contract.CacheStore, analysis contract.AnalysisStore) *CacheStoreManager {
	return &CacheStoreManager{source: source, analysis: analysis}
}

// GetSourceStore returns the source CacheStore.
func (mgr *CacheStoreManager) GetSourceStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.source
}

// GetAnalysisStore returns the analysis AnalysisStore.
func (mgr *CacheStoreManager) GetAnalysisStore() contract.AnalysisStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.analysis
}
