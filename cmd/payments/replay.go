package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"
	"github.com/google/uuid"
	"go.uber.org/zap"

	csv_in "github.com/JoeShih716/go-mem-payments/internal/app/core/adapter/in/csv"
	journal_adapter "github.com/JoeShih716/go-mem-payments/internal/app/core/adapter/out/journal"
	memory_adapter "github.com/JoeShih716/go-mem-payments/internal/app/core/adapter/out/memory"
	mysql_adapter "github.com/JoeShih716/go-mem-payments/internal/app/core/adapter/out/mysql"
	"github.com/JoeShih716/go-mem-payments/internal/app/core/usecase"
	"github.com/JoeShih716/go-mem-payments/internal/config"
	"github.com/JoeShih716/go-mem-payments/pkg/journal"
	"github.com/JoeShih716/go-mem-payments/pkg/logger"
	"github.com/JoeShih716/go-mem-payments/pkg/mysql"
)

// replayCmd replay 子命令的參數
type replayCmd struct {
	configPath  string
	journalPath string
	output      string
}

func (*replayCmd) Name() string     { return "replay" }
func (*replayCmd) Synopsis() string { return "重播交易 CSV，輸出每個客戶的最終餘額" }
func (*replayCmd) Usage() string {
	return `payments replay [-config <file>] [-journal <file>] [-output csv|json|mysql] <transactions.csv>

  依檔案順序處理 deposit、withdrawal、dispute、resolve、chargeback，
  每個客戶輸出一列: client,available,held,total,locked。
  無法套用的資料列會被丟棄；指定 -journal 時以 JSON Lines 記錄。
`
}

func (c *replayCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.configPath, "config", config.DefaultPath, "YAML 設定檔路徑")
	f.StringVar(&c.journalPath, "journal", "", "被丟棄資料列的 JSON Lines 檔 (覆蓋設定檔)")
	f.StringVar(&c.output, "output", "", "結果輸出: csv、json (stdout) 或 mysql (覆蓋設定檔)")
}

func (c *replayCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}

	cfg, err := c.loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return subcommands.ExitFailure
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		return subcommands.ExitFailure
	}
	defer log.Sync()

	file, err := os.Open(f.Arg(0))
	if err != nil {
		log.Error("failed to open input", zap.String("path", f.Arg(0)), zap.Error(err))
		return subcommands.ExitFailure
	}
	defer file.Close()

	if err := run(ctx, cfg, file, os.Stdout, log); err != nil {
		log.Error("replay failed", zap.Error(err))
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// readConfig 預設路徑的設定檔可以不存在，指定路徑則必須存在
func readConfig(path string) (config.Config, error) {
	if path == config.DefaultPath {
		return config.LoadOrDefault(path)
	}
	return config.Load(path)
}

func (c *replayCmd) loadConfig() (config.Config, error) {
	cfg, err := readConfig(c.configPath)
	if err != nil {
		return config.Config{}, err
	}

	if c.journalPath != "" {
		cfg.Journal.Path = c.journalPath
	}
	if c.output != "" {
		cfg.Output.Driver = c.output
	}
	return cfg, cfg.Validate()
}

// run 重播 input 並依設定輸出結果
//
// 參數:
//
//	ctx: 上下文，只影響結果輸出
//	cfg: 已檢查過的設定
//	input: CSV 輸入
//	stdout: csv / json 輸出目的地
//	log: logger
//
// 回傳:
//
//	error: 讀取、journal 或輸出錯誤；資料列本身的錯誤不會回傳
func run(ctx context.Context, cfg config.Config, input io.Reader, stdout io.Writer, log *zap.Logger) error {
	runID := uuid.New()
	log = log.With(zap.String("run_id", runID.String()))

	opts := []usecase.Option{usecase.WithLogger(log)}
	var rejects *journal.Journal
	if cfg.Journal.Path != "" {
		j, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer func() {
			if err := j.Close(); err != nil {
				log.Warn("failed to close journal", zap.Error(err))
			}
		}()
		rejects = j
		opts = append(opts, usecase.WithRejectSink(journal_adapter.NewRejectJournal(j, runID)))
	}

	writer, closeWriter, err := newSnapshotWriter(ctx, cfg, runID, stdout, log)
	if err != nil {
		return err
	}
	defer closeWriter()

	reader := csv_in.NewReader(bufio.NewReader(input))
	engine := usecase.NewEngine(memory_adapter.NewLedger(), opts...)
	engine.Process(reader.Rows())
	if err := reader.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	if skipped := reader.Skipped(); skipped > 0 {
		log.Warn("skipped malformed csv lines", zap.Int("lines", skipped))
	}
	// 輸出結果前先落盤
	if rejects != nil {
		if err := rejects.Sync(); err != nil {
			return fmt.Errorf("sync journal: %w", err)
		}
	}

	return writer.WriteSnapshots(ctx, engine.Snapshots())
}

// newSnapshotWriter 依 output.driver 建立輸出端
func newSnapshotWriter(ctx context.Context, cfg config.Config, runID uuid.UUID, stdout io.Writer, log *zap.Logger) (usecase.SnapshotWriter, func(), error) {
	switch cfg.Output.Driver {
	case config.OutputMySQL:
		client, err := mysql.NewClient(ctx, cfg.MySQL, log)
		if err != nil {
			return nil, nil, err
		}
		store := mysql_adapter.NewSnapshotStore(client, runID)
		if err := store.Migrate(ctx); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("migrate client_funds: %w", err)
		}
		log.Info("writing results to mysql", zap.String("host", cfg.MySQL.Host), zap.String("db", cfg.MySQL.DBName))
		return store, func() { client.Close() }, nil
	default:
		writer, err := formatWriter(cfg.Output.Driver, stdout)
		return writer, func() {}, err
	}
}
