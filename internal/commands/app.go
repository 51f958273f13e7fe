package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/finsight-dev/finsight/internal/aggregate"
	"github.com/finsight-dev/finsight/internal/categorize"
	"github.com/finsight-dev/finsight/internal/config"
	"github.com/finsight-dev/finsight/internal/importer"
	"github.com/finsight-dev/finsight/internal/ledger"
	"github.com/finsight-dev/finsight/internal/logger"
	"github.com/finsight-dev/finsight/internal/mcp"
	"github.com/finsight-dev/finsight/internal/model"
)

// app is the state shared by subcommands once flags are parsed.
type app struct {
	flags struct {
		configPath string
		dataDir    string
		baseURL    string
		session    string
		logLevel   string
	}

	cfg *config.Config
	log zerolog.Logger
	now func() time.Time
}

func newApp() *app {
	return &app{log: zerolog.Nop(), now: time.Now}
}

// load reads the config file, applies flag overrides and sets up logging.
// A missing config file is fine unless --config was given explicitly.
func (a *app) load(cmd *cobra.Command) error {
	path := a.flags.configPath
	cfg, err := config.Load(path)
	baseDir := filepath.Dir(path)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config"):
		cfg = config.Default()
		if err := config.ApplyEnv(cfg); err != nil {
			return err
		}
		baseDir = "."
	default:
		return err
	}

	cfg.Source.DataDir = resolve(baseDir, cfg.Source.DataDir)
	cfg.Categorize.RulesFile = resolve(baseDir, cfg.Categorize.RulesFile)

	if a.flags.dataDir != "" {
		cfg.Source.DataDir = a.flags.dataDir
	}
	if a.flags.baseURL != "" {
		cfg.Source.BaseURL = a.flags.baseURL
	}
	if a.flags.session != "" {
		cfg.Source.SessionID = a.flags.session
	}
	if a.flags.logLevel != "" {
		cfg.Log.Level = a.flags.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.NewWithWriter(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logger.WithRunID(log)
	cmd.SetContext(logger.WithContext(cmd.Context(), a.log))
	return nil
}

// resolve makes a relative path from the config file relative to its directory.
func resolve(baseDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

func (a *app) categorizer() (*categorize.Categorizer, error) {
	if a.cfg.Categorize.RulesFile == "" {
		return categorize.Default(), nil
	}
	return categorize.LoadRules(a.cfg.Categorize.RulesFile)
}

func (a *app) fetch(ctx context.Context) (mcp.Bundle, error) {
	src := a.cfg.Source
	f, err := mcp.New(src.BaseURL, src.DataDir, src.Timeout)
	if err != nil {
		return mcp.Bundle{}, err
	}
	b, err := mcp.FetchAll(ctx, f, src.SessionID)
	if err != nil {
		return mcp.Bundle{}, fmt.Errorf("fetching session %s: %w", src.SessionID, err)
	}
	a.log.Debug().
		Str(logger.FieldSession, src.SessionID).
		Int("bank_bytes", len(b.Bank)).
		Int("mf_bytes", len(b.MF)).
		Int("stock_bytes", len(b.Stock)).
		Msg("fetched payloads")
	return b, nil
}

// bankTransactions returns the categorized bank transactions of the session
// and the categorizer that labeled them.
func (a *app) bankTransactions(ctx context.Context) ([]model.Transaction, *categorize.Categorizer, error) {
	c, err := a.categorizer()
	if err != nil {
		return nil, nil, err
	}
	b, err := a.fetch(ctx)
	if err != nil {
		return nil, nil, err
	}
	res := (&importer.BankParser{Categorizer: c}).Parse(b.Bank)
	a.logParsed(model.SourceBank, res)
	return res.Transactions, c, nil
}

// spendTransactions reads a ledger CSV or a ledger store directory when
// input is set, otherwise the session's bank transactions.
func (a *app) spendTransactions(ctx context.Context, input string) ([]model.Transaction, error) {
	if input == "" {
		txns, _, err := a.bankTransactions(ctx)
		return txns, err
	}
	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}

	var txns []model.Transaction
	if info.IsDir() {
		txns, err = ledger.NewStore(input).ReadAll()
	} else {
		txns, err = readLedgerFile(input)
	}
	if err != nil {
		return nil, err
	}
	a.log.Debug().Str("input", input).Int(logger.FieldCount, len(txns)).Msg("read ledger")
	return txns, nil
}

func readLedgerFile(path string) ([]model.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}
	defer f.Close()
	txns, err := ledger.ReadTransactions(f)
	if err != nil {
		return nil, fmt.Errorf("reading ledger %s: %w", path, err)
	}
	return txns, nil
}

func (a *app) logParsed(src model.Source, res importer.Result) {
	level := zerolog.InfoLevel
	if res.Dropped > 0 {
		level = zerolog.WarnLevel
	}
	a.log.WithLevel(level).
		Str(logger.FieldSource, string(src)).
		Int(logger.FieldCount, len(res.Transactions)).
		Int(logger.FieldDropped, res.Dropped).
		Msg("parsed transactions")
}

func (a *app) today() civil.Date {
	return civil.DateOf(a.now())
}

// periodWindow resolves the as-of date for period and returns its window.
func (a *app) periodWindow(period string, txns []model.Transaction) (aggregate.Window, aggregate.Period, error) {
	p, err := aggregate.ParsePeriod(period)
	if err != nil {
		return aggregate.Window{}, "", err
	}
	ref, err := a.cfg.ReferenceDates()
	if err != nil {
		return aggregate.Window{}, "", err
	}
	w, err := p.Window(ref.Resolve(a.today(), txns, p.Days()))
	if err != nil {
		return aggregate.Window{}, "", err
	}
	a.log.Debug().Str("period", string(p)).Stringer("window", w).Msg("resolved period")
	return w, p, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}
