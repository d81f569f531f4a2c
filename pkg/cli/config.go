package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/seefood/pkg/adapter"
	"github.com/m-mizutani/seefood/pkg/model"
	"github.com/m-mizutani/seefood/pkg/repository"
	"github.com/m-mizutani/seefood/pkg/usecase/auth"
	"github.com/m-mizutani/seefood/pkg/usecase/catch"
	"github.com/m-mizutani/seefood/pkg/usecase/history"
	"github.com/m-mizutani/seefood/pkg/utils/logging"
	"github.com/m-mizutani/seefood/pkg/utils/metrics"
	"github.com/urfave/cli/v3"
	"google.golang.org/api/option"
	"gopkg.in/yaml.v3"
)

const (
	storeMemory    = "memory"
	storeFile      = "file"
	storeSQLite    = "sqlite"
	storeFirestore = "firestore"
	storeGCS       = "gcs"

	recognizerSeeFood = "seefood"
	recognizerGemini  = "gemini"
)

// config holds configuration values
type config struct {
	configPath      string
	logLevel        string
	logFormat       string
	metricsTextfile string

	// SeeFood API
	apiURL string

	// Repository
	store       string
	storeDir    string
	sqlitePath  string
	project     string
	database    string
	bucket      string
	prefix      string
	credentials string

	// Recognizer
	recognizer     string
	geminiProject  string
	geminiLocation string
	geminiModel    string

	metrics *metrics.Metrics
	closers []io.Closer
}

// fileConfig is the YAML form of config. Values fill flags that were not
// given on the command line or through environment variables.
type fileConfig struct {
	LogLevel        string `yaml:"log_level"`
	LogFormat       string `yaml:"log_format"`
	MetricsTextfile string `yaml:"metrics_textfile"`
	APIURL          string `yaml:"api_url"`
	Store           string `yaml:"store"`
	StoreDir        string `yaml:"store_dir"`
	SQLitePath      string `yaml:"sqlite_path"`
	Project         string `yaml:"project"`
	Database        string `yaml:"database"`
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix"`
	Credentials     string `yaml:"credentials"`
	Recognizer      string `yaml:"recognizer"`
	GeminiProject   string `yaml:"gemini_project"`
	GeminiLocation  string `yaml:"gemini_location"`
	GeminiModel     string `yaml:"gemini_model"`
}

func defaultStoreDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".seefood"
	}
	return filepath.Join(home, ".seefood")
}

// globalFlags returns common flags used across commands with destination config
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to YAML config file",
			Sources:     cli.EnvVars("SEEFOOD_CONFIG"),
			Destination: &cfg.configPath,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Sources:     cli.EnvVars("SEEFOOD_LOG_LEVEL"),
			Destination: &cfg.logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "Log format (console, json)",
			Value:       string(logging.FormatConsole),
			Sources:     cli.EnvVars("SEEFOOD_LOG_FORMAT"),
			Destination: &cfg.logFormat,
		},
		&cli.StringFlag{
			Name:        "metrics-textfile",
			Usage:       "Write Prometheus metrics to this file on exit",
			Sources:     cli.EnvVars("SEEFOOD_METRICS_TEXTFILE"),
			Destination: &cfg.metricsTextfile,
		},
	}
}

// apiFlags returns flags for the SeeFood API
func apiFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "api-url",
			Usage:       "SeeFood API base URL",
			Value:       adapter.DefaultSeeFoodURL,
			Sources:     cli.EnvVars("SEEFOOD_API_URL"),
			Destination: &cfg.apiURL,
		},
	}
}

// storeFlags returns flags selecting the local store backend
func storeFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "store",
			Usage:       "Store backend (memory, file, sqlite, firestore, gcs)",
			Value:       storeFile,
			Sources:     cli.EnvVars("SEEFOOD_STORE"),
			Destination: &cfg.store,
		},
		&cli.StringFlag{
			Name:        "store-dir",
			Usage:       "Directory of the file store",
			Value:       defaultStoreDir(),
			Sources:     cli.EnvVars("SEEFOOD_STORE_DIR"),
			Destination: &cfg.storeDir,
		},
		&cli.StringFlag{
			Name:        "sqlite-path",
			Usage:       "SQLite database path (default: <store-dir>/seefood.db)",
			Sources:     cli.EnvVars("SEEFOOD_SQLITE_PATH"),
			Destination: &cfg.sqlitePath,
		},
		&cli.StringFlag{
			Name:        "project",
			Aliases:     []string{"p"},
			Usage:       "Google Cloud project ID",
			Sources:     cli.EnvVars("GOOGLE_CLOUD_PROJECT"),
			Destination: &cfg.project,
		},
		&cli.StringFlag{
			Name:        "database",
			Aliases:     []string{"d"},
			Usage:       "Firestore database ID",
			Value:       "(default)",
			Sources:     cli.EnvVars("FIRESTORE_DATABASE_ID"),
			Destination: &cfg.database,
		},
		&cli.StringFlag{
			Name:        "bucket",
			Usage:       "Cloud Storage bucket for the gcs store",
			Sources:     cli.EnvVars("SEEFOOD_BUCKET"),
			Destination: &cfg.bucket,
		},
		&cli.StringFlag{
			Name:        "prefix",
			Usage:       "Object name prefix for the gcs store",
			Value:       "seefood",
			Sources:     cli.EnvVars("SEEFOOD_PREFIX"),
			Destination: &cfg.prefix,
		},
		&cli.StringFlag{
			Name:        "google-credentials",
			Usage:       "Path to Google Cloud credentials JSON",
			Sources:     cli.EnvVars("GOOGLE_APPLICATION_CREDENTIALS"),
			Destination: &cfg.credentials,
		},
	}
}

// geminiFlags returns flags for recognizer selection and Gemini
func geminiFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "recognizer",
			Usage:       "Image recognizer (seefood, gemini)",
			Value:       recognizerSeeFood,
			Sources:     cli.EnvVars("SEEFOOD_RECOGNIZER"),
			Destination: &cfg.recognizer,
		},
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini (default: --project)",
			Sources:     cli.EnvVars("GEMINI_PROJECT_ID"),
			Destination: &cfg.geminiProject,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini",
			Value:       "us-central1",
			Sources:     cli.EnvVars("GEMINI_LOCATION"),
			Destination: &cfg.geminiLocation,
		},
		&cli.StringFlag{
			Name:        "gemini-model",
			Usage:       "Gemini model name",
			Value:       adapter.DefaultGeminiModel,
			Sources:     cli.EnvVars("GEMINI_MODEL"),
			Destination: &cfg.geminiModel,
		},
	}
}

// loadFile applies the YAML config file to flags that were not set
func (cfg *config) loadFile(c *cli.Command) error {
	if cfg.configPath == "" {
		return nil
	}

	data, err := os.ReadFile(cfg.configPath)
	if err != nil {
		return goerr.Wrap(err, "failed to read config file", goerr.V("path", cfg.configPath))
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return goerr.Wrap(err, "failed to parse config file", goerr.V("path", cfg.configPath))
	}

	fields := []struct {
		flag  string
		dst   *string
		value string
	}{
		{"log-level", &cfg.logLevel, fc.LogLevel},
		{"log-format", &cfg.logFormat, fc.LogFormat},
		{"metrics-textfile", &cfg.metricsTextfile, fc.MetricsTextfile},
		{"api-url", &cfg.apiURL, fc.APIURL},
		{"store", &cfg.store, fc.Store},
		{"store-dir", &cfg.storeDir, fc.StoreDir},
		{"sqlite-path", &cfg.sqlitePath, fc.SQLitePath},
		{"project", &cfg.project, fc.Project},
		{"database", &cfg.database, fc.Database},
		{"bucket", &cfg.bucket, fc.Bucket},
		{"prefix", &cfg.prefix, fc.Prefix},
		{"google-credentials", &cfg.credentials, fc.Credentials},
		{"recognizer", &cfg.recognizer, fc.Recognizer},
		{"gemini-project", &cfg.geminiProject, fc.GeminiProject},
		{"gemini-location", &cfg.geminiLocation, fc.GeminiLocation},
		{"gemini-model", &cfg.geminiModel, fc.GeminiModel},
	}
	for _, f := range fields {
		if f.value != "" && !c.IsSet(f.flag) {
			*f.dst = f.value
		}
	}
	return nil
}

func (cfg *config) clientOptions() []option.ClientOption {
	if cfg.credentials == "" {
		return nil
	}
	return []option.ClientOption{option.WithCredentialsFile(cfg.credentials)}
}

// newRepository creates the store selected by --store. Stores holding a
// connection are closed when the command finishes.
func (cfg *config) newRepository(ctx context.Context) (repository.Repository, error) {
	switch cfg.store {
	case storeMemory:
		return repository.NewMemory(), nil

	case storeFile, "":
		repo, err := repository.NewFile(cfg.storeDir)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create file store")
		}
		return repo, nil

	case storeSQLite:
		path := cfg.sqlitePath
		if path == "" {
			path = filepath.Join(cfg.storeDir, "seefood.db")
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, goerr.Wrap(err, "failed to create sqlite directory", goerr.V("path", path))
		}
		repo, err := repository.NewSQLite(path)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create sqlite store")
		}
		cfg.closers = append(cfg.closers, repo)
		return repo, nil

	case storeFirestore:
		if cfg.project == "" {
			return nil, goerr.New("project is required for firestore store")
		}
		repo, err := repository.NewFirestore(ctx, cfg.project, cfg.database, cfg.clientOptions())
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create firestore store")
		}
		cfg.closers = append(cfg.closers, repo)
		return repo, nil

	case storeGCS:
		if cfg.bucket == "" {
			return nil, goerr.New("bucket is required for gcs store")
		}
		repo, err := adapter.NewStorage(ctx, cfg.bucket, cfg.prefix, cfg.clientOptions()...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create gcs store")
		}
		cfg.closers = append(cfg.closers, repo)
		return repo, nil

	default:
		return nil, goerr.New("unknown store", goerr.V("store", cfg.store))
	}
}

// newHistory creates the history cache, loads it and drops expired records
func (cfg *config) newHistory(ctx context.Context, repo repository.Repository) *history.Cache {
	cache := history.New(repo, history.WithMetrics(cfg.metrics))
	cache.Load(ctx)
	cache.CleanupExpired(ctx, timeNow())
	return cache
}

// newSeeFood creates the API client with the saved login restored
func (cfg *config) newSeeFood(ctx context.Context, repo repository.Repository) (*adapter.SeeFood, *auth.UseCase, error) {
	session := &model.Session{}
	client := adapter.NewSeeFood(cfg.apiURL, adapter.WithSession(session))
	authUC := auth.New(client, repo, session)

	if _, err := authUC.Restore(ctx); err != nil {
		return nil, nil, goerr.Wrap(err, "failed to restore login")
	}
	return client, authUC, nil
}

// newRecognizer creates the recognizer selected by --recognizer
func (cfg *config) newRecognizer(ctx context.Context, client *adapter.SeeFood) (catch.Recognizer, error) {
	switch cfg.recognizer {
	case recognizerSeeFood, "":
		return client, nil

	case recognizerGemini:
		project := cfg.geminiProject
		if project == "" {
			project = cfg.project
		}
		if project == "" {
			return nil, goerr.New("gemini-project is required")
		}
		if cfg.geminiLocation == "" {
			return nil, goerr.New("gemini-location is required")
		}
		gemini, err := adapter.NewGemini(ctx, project, cfg.geminiLocation, adapter.WithGenerativeModel(cfg.geminiModel))
		if err != nil {
			return nil, err
		}
		return adapter.NewGeminiRecognizer(gemini)

	default:
		return nil, goerr.New("unknown recognizer", goerr.V("recognizer", cfg.recognizer))
	}
}

func (cfg *config) close(ctx context.Context) {
	for _, c := range cfg.closers {
		if err := c.Close(); err != nil {
			logging.From(ctx).Warn("failed to close store", "error", err)
		}
	}
	cfg.closers = nil
}
