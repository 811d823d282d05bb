package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"snowloader/internal/auth"
	"snowloader/internal/codec"
	"snowloader/internal/config"
	"snowloader/internal/credentials"
	"snowloader/internal/domain"
	"snowloader/internal/loader"
	"snowloader/internal/logger"
	"snowloader/internal/repository/sqlite"
	"snowloader/internal/secretstore"
	"snowloader/internal/servicenow"
	"snowloader/internal/transform"
)

// newResolver wires the credential chain for cfg
func newResolver(cfg *config.Config, getenv func(string) string) *credentials.Resolver {
	r := &credentials.Resolver{
		Getenv: getenv,
		Item:   cfg.Secrets.Item,
		Fields: cfg.SecretFields(),
	}
	if cfg.SecretsEnabled() {
		r.Store = secretstore.New(
			secretstore.WithBinary(cfg.Secrets.Binary),
			secretstore.WithVault(cfg.Secrets.Vault),
			secretstore.WithTimeout(cfg.Secrets.Timeout.Duration()),
		)
	}
	return r
}

func newClient(ctx context.Context, cfg *config.Config, env *environment) (*servicenow.Client, error) {
	return servicenow.NewClient(ctx, servicenow.Options{
		Credentials: cfg.ExplicitCredentials(),
		Resolver:    newResolver(cfg, env.getenv),
		Timeout:     cfg.ServiceNow.Timeout.Duration(),
		QueryLimit:  cfg.ServiceNow.QueryLimit,
	})
}

func readInventory(path, format string) (*domain.Inventory, error) {
	var (
		c   codec.Codec
		err error
	)
	if format != "" {
		c, err = codec.ForFormat(format)
	} else {
		c, err = codec.ForPath(path)
	}
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open inventory: %w", err)
	}
	defer f.Close()

	inv, err := c.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return inv, nil
}

func runAuth(ctx context.Context, env *environment, args []string) error {
	fs := flag.NewFlagSet("auth", flag.ContinueOnError)
	fs.SetOutput(env.stderr)
	var g globalFlags
	g.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}

	creds := newResolver(cfg, env.getenv).ResolveAll(ctx, cfg.ExplicitCredentials())
	origins := creds.Origins()
	slots := make([]string, 0, len(origins))
	for slot := range origins {
		slots = append(slots, slot)
	}
	sort.Strings(slots)
	for _, slot := range slots {
		fmt.Fprintf(env.stdout, "%-12s %s\n", slot, origins[slot])
	}

	instance, err := auth.ResolveInstance(creds)
	if err != nil {
		return err
	}
	decision, err := auth.Select(creds)
	if err != nil {
		return err
	}

	fmt.Fprintf(env.stdout, "\ninstance     %s\nauth         %s\n", instance, decision)
	return nil
}

// plannedRecord is one line of transform output
type plannedRecord struct {
	Table    string         `json:"table"`
	SourceID string         `json:"source_id"`
	Payload  map[string]any `json:"payload,omitempty"`
	Error    string         `json:"error,omitempty"`
}

func runTransform(_ context.Context, env *environment, args []string) error {
	fs := flag.NewFlagSet("transform", flag.ContinueOnError)
	fs.SetOutput(env.stderr)
	input := fs.String("input", "", "inventory file (json or yaml)")
	format := fs.String("format", "", "input format (default: from extension)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" {
		return errors.New("transform: -input is required")
	}

	inv, err := readInventory(*input, *format)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(env.stdout)
	invalid := 0
	for _, res := range transform.Inventory(inv) {
		p := plannedRecord{Table: res.Table, SourceID: res.SourceID}
		if res.Err != nil {
			p.Error = res.Err.Error()
			invalid++
		} else {
			p.Payload = domain.CreatePayload(res.Record)
		}
		if err := enc.Encode(p); err != nil {
			return fmt.Errorf("write payload: %w", err)
		}
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d records could not be mapped", invalid, inv.Len())
	}
	return nil
}

func runLoad(ctx context.Context, env *environment, args []string) error {
	fs := flag.NewFlagSet("load", flag.ContinueOnError)
	fs.SetOutput(env.stderr)
	var g globalFlags
	g.register(fs)
	input := fs.String("input", "", "inventory file (json or yaml)")
	format := fs.String("format", "", "input format (default: from extension)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" {
		return errors.New("load: -input is required")
	}

	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}

	inv, err := readInventory(*input, *format)
	if err != nil {
		return err
	}

	client, err := newClient(ctx, cfg, env)
	if err != nil {
		return err
	}

	ledger, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer ledger.Close()

	l := loader.New(client, loader.WithLedger(ledger))
	logger.Info().
		Str("run_id", l.RunID()).
		Str("instance", client.Instance()).
		Int("records", inv.Len()).
		Msg("starting load")

	summary, err := l.LoadInventory(ctx, inv)
	if summary != nil {
		fmt.Fprintf(env.stdout, "run %s: %d created, %d invalid, %d failed\n",
			summary.RunID, summary.Created, summary.Invalid, summary.Failed)
	}
	if err != nil {
		return err
	}
	return summary.Err()
}

func runSmoke(ctx context.Context, env *environment, args []string) error {
	fs := flag.NewFlagSet("smoke", flag.ContinueOnError)
	fs.SetOutput(env.stderr)
	var g globalFlags
	g.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}

	client, err := newClient(ctx, cfg, env)
	if err != nil {
		return err
	}
	fmt.Fprintf(env.stdout, "connected to %s using %s\n", client.Instance(), client.AuthMethod())

	gw := domain.GatewayCI{
		SysID:           "smoke_test_gateway_001",
		Name:            "Smoke Test Gateway",
		IPAddress:       "192.168.1.1",
		Hostname:        "smoke-test-gateway.example.com",
		FirmwareVersion: domain.StringPtr("1.0.0"),
	}

	created, err := loader.New(client).LoadGateway(ctx, gw)
	if err != nil {
		return fmt.Errorf("smoke test failed: %w", err)
	}

	fmt.Fprintf(env.stdout, "created %s sys_id=%v name=%v\n", domain.TableGatewayCI, created["sys_id"], created["name"])
	return nil
}

func runConvert(_ context.Context, env *environment, args []string) error {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(env.stderr)
	input := fs.String("input", "", "inventory file to read")
	output := fs.String("output", "", "file to write (format from extension)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" || *output == "" {
		return errors.New("convert: -input and -output are required")
	}

	inv, err := readInventory(*input, "")
	if err != nil {
		return err
	}
	out, err := codec.ForPath(*output)
	if err != nil {
		return err
	}

	f, err := os.Create(*output)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := out.Export(inv, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Fprintf(env.stdout, "wrote %d records to %s\n", inv.Len(), *output)
	return nil
}

func runHistory(ctx context.Context, env *environment, args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.SetOutput(env.stderr)
	var g globalFlags
	g.register(fs)
	runID := fs.String("run", "", "run ID (default: all runs)")
	source := fs.String("source", "", "TABLE/SOURCE_ID: print the sys_id created for one source record")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var table, sourceID string
	if *source != "" {
		var ok bool
		table, sourceID, ok = strings.Cut(*source, "/")
		if !ok || table == "" || sourceID == "" {
			return fmt.Errorf("history: -source must be TABLE/SOURCE_ID, got %q", *source)
		}
	}

	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}

	ledger, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer ledger.Close()

	if table != "" {
		sysID, err := ledger.LookupSysID(ctx, table, sourceID)
		if err != nil {
			return err
		}
		if sysID == "" {
			fmt.Fprintf(env.stdout, "%s/%s was never created\n", table, sourceID)
			return nil
		}
		fmt.Fprintln(env.stdout, sysID)
		return nil
	}

	entries, err := ledger.ListLoads(ctx, *runID)
	if err != nil {
		return err
	}
	for _, e := range entries {
		line := fmt.Sprintf("%s  %s  %-8s %-24s %-32s %s",
			e.CreatedAt.Format(time.RFC3339), e.RunID, e.Status, e.Table, e.SourceID, e.SysID)
		if e.Error != "" {
			line += "  " + e.Error
		}
		fmt.Fprintln(env.stdout, line)
	}
	return nil
}

func runInit(_ context.Context, env *environment, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	fs.SetOutput(env.stderr)
	path := fs.String("config", "", "where to write the config (default: "+config.DefaultConfigPath()+")")
	instance := fs.String("instance", "", "ServiceNow instance to record")
	username := fs.String("username", "", "ServiceNow username to record")
	dbPath := fs.String("db", "", "load ledger path to record")
	force := fs.Bool("force", false, "replace an existing config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := config.DefaultConfig()
	if *instance != "" {
		cfg.ServiceNow.Instance = *instance
	}
	if *username != "" {
		cfg.ServiceNow.Username = *username
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	target := *path
	if target == "" {
		target = config.DefaultConfigPath()
	}
	if err := config.WriteNew(cfg, target, *force); err != nil {
		if errors.Is(err, config.ErrConfigExists) {
			return fmt.Errorf("%w (use -force to replace it)", err)
		}
		return err
	}

	fmt.Fprintf(env.stdout, "wrote %s\n", target)
	return nil
}
