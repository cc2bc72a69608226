package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/vvka-141/taxiload/internal/config"
	"github.com/vvka-141/taxiload/internal/db"
	"github.com/vvka-141/taxiload/internal/logging"
	"github.com/vvka-141/taxiload/internal/trips"
	"github.com/vvka-141/taxiload/internal/tui"
	"github.com/vvka-141/taxiload/internal/writer"
	"github.com/vvka-141/taxiload/pkg/taxiload"
)

type loadFlagValues struct {
	driver, host, username, database, sslMode, auth string
	port                                            int
	table                                           string
	createTable                                     bool
	awsRegion, googleInstance                       string
	azureTenantID, azureClientID                    string
	connectTimeout, timeout                         time.Duration
	configPath, logFormat                           string
	nonInteractive                                  bool
}

var loadFlags loadFlagValues

func init() {
	bindLoadFlags(rootCmd, &loadFlags)
}

func bindLoadFlags(cmd *cobra.Command, f *loadFlagValues) {
	flags := cmd.Flags()

	flags.StringVar(&f.driver, "driver", "",
		"Database driver: postgres|mysql\n"+
			"Precedence: --driver > $TAXILOAD_DRIVER > taxiload.yaml > postgres")
	flags.StringVarP(&f.host, "host", "h", "",
		"Database server host\n"+
			"Precedence: --host > $TAXILOAD_HOST > $PGHOST/$MYSQL_HOST > taxiload.yaml > localhost")
	flags.IntVarP(&f.port, "port", "p", 0,
		"Database server port (default 5432 for postgres, 3306 for mysql)")
	flags.StringVarP(&f.username, "username", "U", "",
		"Database user (default: $TAXILOAD_USER, $PGUSER or root)")
	flags.StringVarP(&f.database, "database", "d", "",
		"Database name (default: $TAXILOAD_DATABASE, $PGDATABASE or taxi_database)")
	flags.StringVar(&f.sslMode, "sslmode", "",
		"SSL mode: disable|allow|prefer|require|verify-ca|verify-full\n"+
			"(default: prefer for postgres, or $PGSSLMODE)")

	flags.StringVar(&f.table, "table", taxiload.DefaultTable,
		"Destination table, optionally schema-qualified")
	flags.BoolVar(&f.createTable, "create-table", false,
		"Create the destination table if it does not exist")

	flags.StringVar(&f.auth, "auth", "",
		"Authentication method: standard|aws|azure|google (postgres only)")
	flags.StringVar(&f.awsRegion, "aws-region", "",
		"AWS region for RDS IAM authentication (overrides $AWS_REGION)")
	flags.StringVar(&f.googleInstance, "google-instance", "",
		"Cloud SQL instance connection name (project:region:instance)")
	flags.StringVar(&f.azureTenantID, "azure-tenant-id", "",
		"Azure AD tenant/directory ID (overrides $AZURE_TENANT_ID)")
	flags.StringVar(&f.azureClientID, "azure-client-id", "",
		"Azure AD application/client ID (overrides $AZURE_CLIENT_ID)")

	flags.DurationVar(&f.connectTimeout, "connect-timeout", 0,
		"Connection establishment timeout, e.g. 10s (default: driver default)")
	flags.DurationVar(&f.timeout, "timeout", 0,
		"Abort the whole run after this duration, e.g. 5m (default: no limit)")

	flags.StringVar(&f.configPath, "config", "",
		"Path to a taxiload.yaml (default: ./taxiload.yaml when present)")
	flags.StringVar(&f.logFormat, "log-format", "text",
		"Log output format: text|json")
	flags.BoolVar(&f.nonInteractive, "non-interactive", false,
		"Never prompt; also enabled by $TAXILOAD_NON_INTERACTIVE=1 or $CI")
}

// promptFunc shows the interactive prompt. tui.RunPrompt in production.
type promptFunc func(initial tui.PromptValues, target string) (tui.PromptValues, error)

func runLoad(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)

	cfg, err := buildLoadConfig(cmd, &loadFlags, args, verbose)
	if err != nil {
		return err
	}

	interactive := !loadFlags.nonInteractive && tui.IsInteractive()
	passwordPrompted, err := completeInteractively(&cfg, interactive, tui.RunPrompt)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	cfg.Connection.AppName = fmt.Sprintf("%s-%s", taxiload.AppName, runID[:8])

	logger, flush, err := newLogger(loadFlags.logFormat, verbose, runID, os.Stderr)
	if err != nil {
		return err
	}
	defer flush()

	if err := cfg.Validate(); err != nil {
		return err
	}

	logger.Verbose("Run %s", runID)
	logConnectionVerbose(logger, &cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runCtx := ctx
	if cfg.Timeout > 0 {
		var cancelTimeout context.CancelFunc
		runCtx, cancelTimeout = context.WithTimeout(ctx, cfg.Timeout)
		defer cancelTimeout()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(os.Stderr, "\n[INTERRUPT] Received interrupt signal, cancelling load...")
			cancel()
		case <-ctx.Done():
		}
	}()

	w, err := writer.New(&cfg, db.NewConnector, db.OpenMySQL, logger)
	if err != nil {
		return err
	}

	if _, err := runPipeline(runCtx, &cfg, trips.NewLoader(logger), w, logger); err != nil {
		return err
	}

	if passwordPrompted {
		offerSavePgpass(&cfg.Connection, tui.Confirm, logger)
	}
	return nil
}

// buildLoadConfig resolves a LoadConfig from flags, environment, .env and
// taxiload.yaml. The file path and password may still be missing.
func buildLoadConfig(cmd *cobra.Command, f *loadFlagValues, args []string, verbose bool) (taxiload.LoadConfig, error) {
	_ = godotenv.Load()

	fileCfg, err := loadConfigFile(f.configPath)
	if err != nil {
		return taxiload.LoadConfig{}, err
	}

	connFlags := &db.ConnFlags{
		Driver:         f.driver,
		Host:           f.host,
		Port:           f.port,
		Username:       f.username,
		Database:       f.database,
		SSLMode:        f.sslMode,
		Auth:           f.auth,
		ConnectTimeout: f.connectTimeout,
		AWSRegion:      f.awsRegion,
		GoogleInstance: f.googleInstance,
		AzureTenantID:  f.azureTenantID,
		AzureClientID:  f.azureClientID,
	}

	var fileConn *config.ConnectionConfig
	if fileCfg != nil {
		fileConn = &fileCfg.Connection
	}

	conn, err := db.ResolveConnection(connFlags, db.LoadFromEnvironment(), fileConn)
	if err != nil {
		return taxiload.LoadConfig{}, err
	}

	if conn.Password == "" && conn.Driver == taxiload.DriverPostgres && conn.AuthMethod == taxiload.AuthMethodStandard {
		conn.Password = lookupPgpass(conn)
	}

	cfg := taxiload.LoadConfig{
		Table:       f.table,
		CreateTable: f.createTable,
		Connection:  *conn,
		Timeout:     f.timeout,
		Verbose:     verbose,
	}
	if len(args) > 0 {
		cfg.FilePath = args[0]
	}

	if fileCfg != nil {
		if fileCfg.Table != "" && !cmd.Flags().Changed("table") {
			cfg.Table = fileCfg.Table
		}
		if fileCfg.CreateTable && !cmd.Flags().Changed("create-table") {
			cfg.CreateTable = true
		}
		if !cmd.Flags().Changed("timeout") {
			timeout, err := fileCfg.ParseTimeout()
			if err != nil {
				return taxiload.LoadConfig{}, fmt.Errorf("%s: %w: %w", config.ConfigFileName, taxiload.ErrInvalidConfig, err)
			}
			if timeout > 0 {
				cfg.Timeout = timeout
			}
		}
	}

	return cfg, nil
}

// loadConfigFile reads an explicit --config path, or ./taxiload.yaml when it
// exists. A missing default file is not an error.
func loadConfigFile(path string) (*config.LoaderConfig, error) {
	if path != "" {
		cfg, err := config.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("--config %s: %w: %w", path, taxiload.ErrInvalidConfig, err)
		}
		return cfg, nil
	}

	cfg, err := config.Load(".")
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load %s: %w: %w", config.ConfigFileName, taxiload.ErrInvalidConfig, err)
	}
	return cfg, nil
}

// completeInteractively prompts for a missing file path or password. It
// reports whether the password was entered at the prompt. Without a terminal only the file path
// is mandatory; an empty password is left to trust or peer authentication.
func completeInteractively(cfg *taxiload.LoadConfig, interactive bool, prompt promptFunc) (bool, error) {
	needFile := cfg.FilePath == ""
	needPassword := cfg.Connection.Password == "" && cfg.Connection.AuthMethod == taxiload.AuthMethodStandard
	if !needFile && !needPassword {
		return false, nil
	}

	if !interactive {
		if needFile {
			return false, fmt.Errorf("pass the trip file as an argument (no terminal to prompt on): %w", taxiload.ErrMissingInput)
		}
		return false, nil
	}

	conn := &cfg.Connection
	values, err := prompt(tui.PromptValues{
		Host:     conn.Host,
		Username: conn.Username,
		Password: conn.Password,
		Database: conn.Database,
		FilePath: cfg.FilePath,
	}, string(conn.Driver))
	if err != nil {
		return false, err
	}

	conn.Host = values.Host
	conn.Username = values.Username
	conn.Password = values.Password
	conn.Database = values.Database
	cfg.FilePath = values.FilePath
	return needPassword && conn.Password != "", nil
}

// newLogger builds the logger for --log-format. The returned func flushes
// buffered output.
func newLogger(format string, verbose bool, runID string, out io.Writer) (taxiload.Logger, func(), error) {
	switch format {
	case "", "text":
		return logging.NewConsoleLoggerTo(out, verbose).WithRunID(runID), func() {}, nil
	case "json":
		logger := logging.NewZapLoggerTo(out, verbose).WithRunID(runID)
		return logger, func() { _ = logger.Sync() }, nil
	default:
		return nil, nil, fmt.Errorf("--log-format %q: must be text or json: %w", format, taxiload.ErrInvalidConfig)
	}
}

// runPipeline loads the file and writes it. The writer is not invoked when
// loading fails.
func runPipeline(ctx context.Context, cfg *taxiload.LoadConfig, loader taxiload.Loader, w taxiload.Writer, logger taxiload.Logger) (int64, error) {
	started := time.Now()

	table, err := loader.Load(ctx, cfg.FilePath)
	if err != nil {
		logger.Error("Could not load %s; nothing was inserted", cfg.FilePath)
		return 0, fmt.Errorf("load %s: %w", cfg.FilePath, err)
	}
	logger.Info("Loaded %d trips from %s", table.Len(), table.Source)

	rows, err := w.Write(ctx, table, cfg.Table)
	if err != nil {
		logger.Error("Insert into %s was rolled back; no rows were committed", cfg.Table)
		return 0, fmt.Errorf("write %s: %w", cfg.Table, err)
	}

	logger.Info("Inserted %d rows into %s in %s", rows, cfg.Table, time.Since(started).Round(time.Millisecond))
	return rows, nil
}

func logConnectionVerbose(logger taxiload.Logger, cfg *taxiload.LoadConfig) {
	conn := &cfg.Connection
	logger.Verbose("Connection resolved: %s", db.DescribeTarget(conn))
	if conn.SSLMode != "" {
		logger.Verbose("  SSL Mode: %s", conn.SSLMode)
	}
	logger.Verbose("  Auth Method: %s", conn.AuthMethod)
	logger.Verbose("  Table: %s (create: %t)", cfg.Table, cfg.CreateTable)
	if cfg.Timeout > 0 {
		logger.Verbose("  Timeout: %s", cfg.Timeout)
	}
}
