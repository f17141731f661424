package filetable

import (
	"os"
	"sync"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/bluele/gcache"
)

const defaultCacheSize = 64

var (
	tableCache     gcache.Cache
	tableCacheLock sync.Mutex

	cacheHits    = metrics.GetOrCreateCounter(`objectbase_filetable_cache_total{result="hit"}`)
	cacheMisses  = metrics.GetOrCreateCounter(`objectbase_filetable_cache_total{result="miss"}`)
	loadFailures = metrics.GetOrCreateCounter(`objectbase_filetable_load_failures_total`)
)

// cachedTable is a decoded table file. It is only valid while the file
// still has the recorded modification time and size.
type cachedTable struct {
	generation uint64
	modTime    time.Time
	size       int64
	records    map[string][]byte
}

// SetCacheSize replaces the table cache with an empty one holding up to
// size tables. A size of zero or less disables caching.
func SetCacheSize(size int) {
	tableCacheLock.Lock()
	defer tableCacheLock.Unlock()

	if size <= 0 {
		tableCache = nil
		return
	}
	tableCache = gcache.New(size).LRU().Build()
}

func getCache() gcache.Cache {
	tableCacheLock.Lock()
	defer tableCacheLock.Unlock()

	return tableCache
}

func init() {
	SetCacheSize(defaultCacheSize)
}

func cachedRecords(path string, generation uint64, info os.FileInfo) (map[string][]byte, bool) {
	c := getCache()
	if c == nil {
		return nil, false
	}

	v, err := c.Get(path)
	if err != nil {
		cacheMisses.Inc()
		return nil, false
	}
	ct := v.(*cachedTable)
	if ct.generation != generation || !ct.modTime.Equal(info.ModTime()) || ct.size != info.Size() {
		cacheMisses.Inc()
		return nil, false
	}

	cacheHits.Inc()
	return ct.records, true
}

func cacheRecords(path string, generation uint64, info os.FileInfo, records map[string][]byte) {
	c := getCache()
	if c == nil {
		return
	}

	_ = c.Set(path, &cachedTable{
		generation: generation,
		modTime:    info.ModTime(),
		size:       info.Size(),
		records:    records,
	})
}

func uncacheRecords(path string) {
	if c := getCache(); c != nil {
		c.Remove(path)
	}
}
