package configwatcher

import (
	"path/filepath"
	"sync"
	"time"

	"tachyon_backend/internal/config"
	"tachyon_backend/pkg/logger"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// PolicyStore holds the current practice policy and swaps it atomically when
// the config file changes. Services read through it on every call, so a
// reload takes effect without a restart.
type PolicyStore struct {
	mu  sync.RWMutex
	cfg config.PracticeConfig
}

func NewPolicyStore(cfg config.PracticeConfig) *PolicyStore {
	return &PolicyStore{cfg: cfg}
}

func (s *PolicyStore) Practice() config.PracticeConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

func (s *PolicyStore) Set(cfg config.PracticeConfig) {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
}

// WatchConfig reloads the config file on write events, debounced by one
// second, and pushes the new practice policy into the store. Meant to run as
// a goroutine for the life of the process.
func WatchConfig(configPath string, store *PolicyStore) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Log.Error("creating config watcher", zap.Error(err))
		return
	}
	defer watcher.Close()

	absPath, err := filepath.Abs(configPath)
	if err != nil {
		logger.Log.Error("resolving config path", zap.Error(err))
		return
	}
	if err := watcher.Add(absPath); err != nil {
		logger.Log.Error("watching config file", zap.Error(err))
		return
	}

	timer := time.NewTimer(0)
	<-timer.C

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Write == fsnotify.Write {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(time.Second)
			}
		case <-timer.C:
			newCfg, err := config.LoadConfig(filepath.Dir(configPath))
			if err != nil {
				logger.Log.Error("reloading config", zap.Error(err))
				continue
			}
			store.Set(newCfg.Practice)
			logger.Log.Info("practice policy reloaded",
				zap.Int("max_attempts", newCfg.Practice.MaxAttempts),
				zap.Int("recent_exclude", newCfg.Practice.RecentExcludeCount),
			)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Log.Error("config watcher error", zap.Error(err))
		}
	}
}
