package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/biomax/dashboard/internal/config"
	"github.com/biomax/dashboard/internal/repository/relational"
	extractsvc "github.com/biomax/dashboard/internal/service/extract"
	"github.com/biomax/dashboard/pkg/logger"
)

func main() {
	var (
		envFile = flag.String("env", "", "Path to a .env file (defaults to ./.env when present)")
		bronze  = flag.String("bronze", "", "Bronze layer directory (overrides BRONZE_PATH)")
		dataset = flag.String("dataset", "all", "Dataset to extract: all, financeiro, estoque")
		timeout = flag.Duration("timeout", 5*time.Minute, "Extraction timeout")
	)
	flag.Parse()

	if err := run(*envFile, *bronze, *dataset, *timeout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(envFile, bronze, dataset string, timeout time.Duration) error {
	cfg, err := config.Read(envFile)
	if err != nil {
		return err
	}
	if err := cfg.ValidateDatabase("extracting"); err != nil {
		return err
	}
	if bronze != "" {
		cfg.Scheduler.BronzePath = bronze
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	db, err := relational.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	repo := relational.NewRepository(db, loc, log.Named("repo.sql"))
	defer func() { _ = repo.Close() }()

	job := extractsvc.NewService(repo, repo, cfg.Scheduler.BronzePath, nil, log)

	var results []extractsvc.Result
	switch dataset {
	case "all":
		results, err = job.Run(ctx)
	case extractsvc.DatasetBilling:
		var res extractsvc.Result
		res, err = job.ExtractBilling(ctx)
		results = append(results, res)
	case extractsvc.DatasetStock:
		var res extractsvc.Result
		res, err = job.ExtractStock(ctx)
		results = append(results, res)
	default:
		return fmt.Errorf("unknown dataset %q", dataset)
	}

	for _, res := range results {
		if res.Path != "" {
			log.Info("file saved", zap.String("dataset", res.Dataset), zap.String("path", res.Path), zap.Int("rows", res.Rows))
		}
	}
	return err
}
