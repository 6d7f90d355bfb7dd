package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/chedr/vault-cli/internal/extract"
	"github.com/chedr/vault-cli/internal/feedback"
	"github.com/chedr/vault-cli/internal/store"
	"github.com/chedr/vault-cli/internal/tasks"
	"github.com/chedr/vault-cli/internal/vault"
)

// vaultEnv holds the initialized storage, vault, and pipeline needed by
// the subcommands.
type vaultEnv struct {
	Storage   *store.VaultStorage
	Vault     *vault.Store
	Recorder  *feedback.Recorder
	Scheduler *tasks.Scheduler
	Extractor *extract.Extractor
}

// Close cancels pending extraction work and releases the backing store.
func (e *vaultEnv) Close() {
	if e.Scheduler != nil {
		e.Scheduler.Shutdown()
	}
	if e.Storage != nil {
		_ = e.Storage.Close()
	}
}

// initKV opens the configured KV backend.
func initKV(ctx context.Context) (store.KV, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		kv, err := store.NewSQLite(cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		if err := kv.Migrate(ctx); err != nil {
			_ = kv.Close()
			return nil, err
		}
		zap.L().Debug("using sqlite store", zap.String("path", cfg.Store.Path))
		return kv, nil
	case "postgres":
		kv, err := store.NewPostgres(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := kv.Migrate(ctx); err != nil {
			_ = kv.Close()
			return nil, err
		}
		zap.L().Debug("using postgres store")
		return kv, nil
	case "memory":
		return store.NewMemoryKV(0), nil
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// initEnv sets up storage, loads the persisted vault, and builds the
// extraction pipeline. Callers should defer env.Close().
func initEnv(ctx context.Context, mode string) (*vaultEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	kv, err := initKV(ctx)
	if err != nil {
		return nil, err
	}

	storage := store.NewVaultStorage(kv)
	if err := storage.Init(ctx); err != nil {
		_ = storage.Close()
		return nil, eris.Wrap(err, "init storage")
	}

	docs, err := storage.GetDocuments(ctx)
	if err != nil {
		_ = storage.Close()
		return nil, eris.Wrap(err, "load documents")
	}

	v := vault.New(docs...)
	zap.L().Info("vault loaded", zap.Int("documents", v.Len()))

	sched := tasks.NewScheduler()
	extractor := extract.New(v, sched,
		time.Duration(cfg.Extract.DelayMS)*time.Millisecond,
		time.Duration(cfg.Extract.VerifyDelayMS)*time.Millisecond,
	)

	return &vaultEnv{
		Storage:   storage,
		Vault:     v,
		Recorder:  feedback.NewRecorder(),
		Scheduler: sched,
		Extractor: extractor,
	}, nil
}
