package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/muralis/pkg/adapters/fs"
	"github.com/aretw0/muralis/pkg/adapters/memory"
	"github.com/aretw0/muralis/pkg/adapters/sqlite"
	"github.com/aretw0/muralis/pkg/core"
)

// ErrUnsupported is returned when the store lacks an optional capability.
var ErrUnsupported = errors.New("not supported by this store")

// Init opens the store named by the adapter option.
// The uri argument is adapter-specific: a file path for "fs" and "sqlite",
// ignored for "memory". It returns the store and the resolved location.
func Init(ctx context.Context, uri string, opts ...Option) (core.Store, string, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return initStore(ctx, uri, o)
}

func initStore(ctx context.Context, uri string, o *options) (core.Store, string, error) {
	if o.store != nil {
		return o.store, "", nil
	}

	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}

	useTemp := o.forceTemp || (o.devSafety && IsDevRun())
	path := ResolveStorePath(uri, useTemp)
	if useTemp && o.adapter != "memory" {
		logger.Warn("running in SAFE MODE (Dev/Test)", "original_path", uri, "resolved_path", path)
	}

	switch o.adapter {
	case "fs":
		if path == "" {
			path = fs.DefaultPath
		}
		store := fs.NewStore(fs.Config{
			Path:         path,
			Versioned:    o.versioned,
			Logger:       logger,
			ErrorHandler: o.errorHandler,
		})
		if err := store.Initialize(ctx); err != nil {
			return nil, "", err
		}
		return store, path, nil

	case "sqlite":
		if o.versioned {
			return nil, "", fmt.Errorf("versioning is only supported by the fs adapter")
		}
		if path == "" {
			path = core.StorageKey + ".db"
		}
		store, err := sqlite.Open(sqlite.Config{
			Path:         path,
			HistoryLimit: o.historyLimit,
			Logger:       logger,
		})
		if err != nil {
			return nil, "", err
		}
		return store, path, nil

	case "memory":
		return memory.NewStore(), "", nil

	default:
		return nil, "", fmt.Errorf("unknown adapter: %s", o.adapter)
	}
}
