package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"snowloader/internal/auth"
	"snowloader/internal/config"
	"snowloader/internal/logger"
)

const usage = `Usage: snowloader <command> [flags]

Commands:
  auth       show the resolved instance, auth method and credential origins
  transform  map an inventory file to ServiceNow create payloads (dry run)
  load       map an inventory file and create the records in ServiceNow
  smoke      create a single test gateway record
  convert    convert an inventory file between json and yaml
  history    list ledger entries for a run, or the sys_id of one source record
  init       write a config file with the default settings

Credentials are read from flags or the config file (instance, username),
then SERVICENOW_* environment variables, then the 1Password CLI.
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

type command func(ctx context.Context, env *environment, args []string) error

var commands = map[string]command{
	"auth":      runAuth,
	"transform": runTransform,
	"load":      runLoad,
	"smoke":     runSmoke,
	"convert":   runConvert,
	"history":   runHistory,
	"init":      runInit,
}

// environment carries what every command needs
type environment struct {
	stdout io.Writer
	stderr io.Writer
	getenv func(string) string
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		fmt.Fprint(stderr, usage)
		if len(args) == 0 {
			return 2
		}
		return 0
	}

	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", args[0], usage)
		return 2
	}

	env := &environment{stdout: stdout, stderr: stderr, getenv: os.Getenv}
	if err := cmd(ctx, env, args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		if auth.IsConfigError(err) {
			fmt.Fprintln(stderr, "\nSet SERVICENOW_INSTANCE and one of:")
			fmt.Fprintln(stderr, "  SERVICENOW_USERNAME + SERVICENOW_API_KEY")
			fmt.Fprintln(stderr, "  SERVICENOW_OAUTH_TOKEN")
			fmt.Fprintln(stderr, "  SERVICENOW_USERNAME + SERVICENOW_PASSWORD")
			fmt.Fprintln(stderr, "or store them as fields of the 1Password item (default \"ServiceNow\").")
		}
		return 1
	}
	return 0
}

// globalFlags are shared by commands that talk to ServiceNow
type globalFlags struct {
	configPath string
	instance   string
	username   string
	dbPath     string
	opVault    string
	opItem     string
	noSecrets  bool
	logLevel   string
}

func (g *globalFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&g.configPath, "config", "", "config file path (default: search "+config.EnvConfigPath+", ./"+config.ConfigFileName+", XDG)")
	fs.StringVar(&g.instance, "instance", "", "ServiceNow instance, e.g. dev12345.service-now.com")
	fs.StringVar(&g.username, "username", "", "ServiceNow username")
	fs.StringVar(&g.dbPath, "db", "", "load ledger path")
	fs.StringVar(&g.opVault, "op-vault", "", "1Password vault")
	fs.StringVar(&g.opItem, "op-item", "", "1Password item holding ServiceNow credentials")
	fs.BoolVar(&g.noSecrets, "no-secrets", false, "never consult 1Password")
	fs.StringVar(&g.logLevel, "log-level", "", "log level (debug, info, warn, error)")
}

// loadConfig reads the config file and applies flag overrides
func (g *globalFlags) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if g.configPath != "" {
		cfg, _, err = config.LoadFromPath(g.configPath)
	} else {
		cfg, _, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if g.instance != "" {
		cfg.ServiceNow.Instance = g.instance
	}
	if g.username != "" {
		cfg.ServiceNow.Username = g.username
	}
	if g.dbPath != "" {
		cfg.Database.Path = g.dbPath
	}
	if g.opVault != "" {
		cfg.Secrets.Vault = g.opVault
	}
	if g.opItem != "" {
		cfg.Secrets.Item = g.opItem
	}
	if g.noSecrets {
		off := false
		cfg.Secrets.Enabled = &off
	}
	if g.logLevel != "" {
		cfg.Logging.Level = g.logLevel
	}

	if err := logger.Init(cfg.LoggerConfig()); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, nil
}
