package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/orderpulse/report-cli/internal/dataset"
	"github.com/orderpulse/report-cli/internal/fetcher"
	"github.com/orderpulse/report-cli/internal/store"
)

// loadExtract reads one input (local path or ftp:// URL) into a dataset
// using the configured fetch settings.
func loadExtract(ctx context.Context, input, sheet string, skipRows int) (*dataset.Dataset, error) {
	ds, err := fetcher.Load(ctx, input, fetcher.LoadOptions{
		Sheet:      sheet,
		SkipRows:   skipRows,
		FTPTimeout: time.Duration(cfg.Fetch.FTPTimeoutSecs) * time.Second,
		TempDir:    cfg.Fetch.TempDir,
	})
	if err != nil {
		return nil, eris.Wrapf(err, "load extract %s", input)
	}
	return ds, nil
}

// openStore opens the configured run store and runs migrations.
func openStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

// saveRun persists a completed report invocation.
func saveRun(ctx context.Context, kind, source string, params, tables any, coerced int) error {
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return eris.Wrap(err, "marshal run params")
	}
	tablesJSON, err := json.Marshal(tables)
	if err != nil {
		return eris.Wrap(err, "marshal run tables")
	}

	run, err := st.CreateRun(ctx, &store.Run{
		Kind:          kind,
		Source:        source,
		Params:        paramsJSON,
		Tables:        tablesJSON,
		CoercionCount: coerced,
	})
	if err != nil {
		return err
	}

	zap.L().Info("run saved",
		zap.String("id", run.ID),
		zap.String("kind", kind),
		zap.String("source", source),
	)
	return nil
}
