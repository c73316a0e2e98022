package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"
	"github.com/google/uuid"
	"go.uber.org/zap"

	csv_out "github.com/JoeShih716/go-mem-payments/internal/app/core/adapter/out/csv"
	"github.com/JoeShih716/go-mem-payments/internal/app/core/adapter/out/jsonl"
	mysql_adapter "github.com/JoeShih716/go-mem-payments/internal/app/core/adapter/out/mysql"
	"github.com/JoeShih716/go-mem-payments/internal/app/core/domain"
	"github.com/JoeShih716/go-mem-payments/internal/app/core/usecase"
	"github.com/JoeShih716/go-mem-payments/internal/config"
	"github.com/JoeShih716/go-mem-payments/pkg/logger"
	"github.com/JoeShih716/go-mem-payments/pkg/mysql"
)

// snapshotLoader 讀回某次執行寫入的結果
type snapshotLoader interface {
	LoadSnapshots(ctx context.Context) ([]domain.Snapshot, error)
}

// showCmd show 子命令的參數
type showCmd struct {
	configPath string
	format     string
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "從 mysql 讀回某次 replay 的結果" }
func (*showCmd) Usage() string {
	return `payments show [-config <file>] [-format csv|json] <run-id>

  讀取 replay -output mysql 寫入 client_funds 的結果，run-id 見 replay 的 log。
`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.configPath, "config", config.DefaultPath, "YAML 設定檔路徑")
	f.StringVar(&c.format, "format", config.OutputCSV, "輸出格式: csv 或 json")
}

func (c *showCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	runID, err := uuid.Parse(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid run id %q: %v\n", f.Arg(0), err)
		return subcommands.ExitUsageError
	}
	writer, err := formatWriter(c.format, os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	cfg, err := readConfig(c.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return subcommands.ExitFailure
	}
	cfg.Output.Driver = config.OutputMySQL
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return subcommands.ExitFailure
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		return subcommands.ExitFailure
	}
	defer log.Sync()

	client, err := mysql.NewClient(ctx, cfg.MySQL, log)
	if err != nil {
		log.Error("failed to connect mysql", zap.Error(err))
		return subcommands.ExitFailure
	}
	defer client.Close()

	if err := show(ctx, mysql_adapter.NewSnapshotStore(client, runID), writer); err != nil {
		log.Error("show failed", zap.String("run_id", runID.String()), zap.Error(err))
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// show 讀回結果並輸出；沒有任何資料列視為 run id 不存在
func show(ctx context.Context, store snapshotLoader, w usecase.SnapshotWriter) error {
	snapshots, err := store.LoadSnapshots(ctx)
	if err != nil {
		return fmt.Errorf("load client_funds: %w", err)
	}
	if len(snapshots) == 0 {
		return errors.New("no results stored for this run")
	}
	return w.WriteSnapshots(ctx, snapshots)
}

// formatWriter 依格式建立 stdout 輸出端
func formatWriter(format string, w io.Writer) (usecase.SnapshotWriter, error) {
	switch format {
	case config.OutputCSV:
		return csv_out.NewWriter(w), nil
	case config.OutputJSON:
		return jsonl.NewWriter(w), nil
	}
	return nil, fmt.Errorf("unknown format %q", format)
}

var _ snapshotLoader = (*mysql_adapter.SnapshotStore)(nil)
