package configwatcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"roadmap_backend/internal/config"
	"roadmap_backend/pkg/logger"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

type ConfigReloader func(cfg *config.Config)

const DefaultDebounce = 1 * time.Second

type Watcher struct {
	file     string
	reloader ConfigReloader
	debounce time.Duration
	fsw      *fsnotify.Watcher
}

// New 监听配置文件所在目录（编辑器保存时常以重命名替换文件）
func New(configFile string, reloader ConfigReloader) (*Watcher, error) {
	absPath, err := filepath.Abs(configFile)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create config watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch config dir: %w", err)
	}

	return &Watcher{
		file:     absPath,
		reloader: reloader,
		debounce: DefaultDebounce,
		fsw:      fsw,
	}, nil
}

// Run 阻塞直到 ctx 结束
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.file {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			// 防抖处理
			timer.Reset(w.debounce)

		case <-timer.C:
			newCfg, err := config.LoadConfig(filepath.Dir(w.file))
			if err != nil {
				logger.Log.Error("Failed to reload config", zap.Error(err))
				continue
			}
			logger.Log.Info("Config reloaded", zap.String("file", w.file))
			w.reloader(newCfg)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Log.Error("Config watcher error", zap.Error(err))
		}
	}
}
