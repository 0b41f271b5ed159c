package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/greenlake"
	"github.com/kailas-cloud/greenlake/internal/config"
	logpkg "github.com/kailas-cloud/greenlake/internal/logger"
	"github.com/kailas-cloud/greenlake/internal/metrics"
	"github.com/kailas-cloud/greenlake/internal/version"
)

const usage = `usage: glpadm <command> <subcommand> [flags]

commands:
  subscriptions  list | add | remove | autosubscribe | autorenew
  devices        list | attach | detach
  integrations   list | deploy | update | remove | test
  version
`

func main() {
	if len(os.Args) < 2 {
		fatalf(usage)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch os.Args[1] {
	case "subscriptions":
		subscriptionsCmd(ctx, os.Args[2:])
	case "devices":
		devicesCmd(ctx, os.Args[2:])
	case "integrations":
		integrationsCmd(ctx, os.Args[2:])
	case "version":
		fmt.Println(version.String())
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fatalf("unknown command: %s\n%s", os.Args[1], usage)
	}
}

// setup loads configuration and builds the SDK client. The zap logger
// doubles as the dry-run sink.
func setup(region string) (*greenlake.Client, *zap.Logger) {
	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		fatal(err)
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		fatal(err)
	}

	metrics.RegisterAPIMetrics()

	if region == "" {
		region = cfg.Platform.Region
	}

	client, err := greenlake.New(
		greenlake.WithCredentials(cfg.Platform.ClientID, cfg.Platform.ClientSecret),
		greenlake.WithEndpoint(cfg.Platform.Endpoint),
		greenlake.WithTokenURL(cfg.Platform.TokenURL),
		greenlake.WithRegions(cfg.Regions),
		greenlake.WithRegion(region),
		greenlake.WithRetryAttempts(cfg.Retry.Attempts),
		greenlake.WithRetryMaxInterval(time.Duration(cfg.Retry.MaxIntervalSec)*time.Second),
		greenlake.WithPollInterval(time.Duration(cfg.Polling.IntervalSec)*time.Second),
		greenlake.WithMaxBatchKeys(cfg.Limits.MaxBatchKeys),
		greenlake.WithTransportLogger(logger),
	)
	if err != nil {
		fatal(err)
	}
	return client, logger
}

func subscriptionsCmd(ctx context.Context, args []string) {
	if len(args) < 1 {
		fatalf("usage: glpadm subscriptions <list|add|remove|autosubscribe|autorenew> [flags]")
	}

	switch args[0] {
	case "list":
		fs := flag.NewFlagSet("subscriptions list", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		var (
			region    = fs.String("region", "", "default region override")
			subType   = fs.String("type", "", "filter by type: DEVICE or SERVICE")
			valid     = fs.Bool("valid", false, "only subscriptions valid now")
			expired   = fs.Bool("expired", false, "only expired subscriptions")
			available = fs.Bool("available", false, "only subscriptions with free quantity")
		)
		parse(fs, args[1:])

		client, logger := setup(*region)
		defer syncLogger(logger)

		subs, err := client.Subscriptions().List(ctx, greenlake.SubscriptionFilter{
			Type:                  greenlake.SubscriptionType(*subType),
			Valid:                 *valid,
			Expired:               *expired,
			WithAvailableQuantity: *available,
		})
		if err != nil {
			fatal(err)
		}

		w := newTable()
		fmt.Fprintln(w, "KEY\tTYPE\tTIER\tQTY\tAVAILABLE\tENDS\tAUTORENEW")
		for _, s := range subs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\t%v\n",
				s.Key, s.Type, s.Tier, s.Quantity, s.AvailableQuantity,
				s.EndTime.Format(time.RFC3339), s.AutoRenew)
		}
		flush(w)

	case "add":
		fs := flag.NewFlagSet("subscriptions add", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		var (
			region = fs.String("region", "", "default region override")
			keys   = fs.String("keys", "", "comma-separated subscription keys")
			dryRun = fs.Bool("dry-run", false, "describe the call without executing it")
		)
		parse(fs, args[1:])
		if *keys == "" {
			fatalf("missing -keys")
		}

		client, logger := setup(*region)
		defer syncLogger(logger)

		results, err := client.Subscriptions().Add(ctx, splitList(*keys), callOpts(*dryRun)...)
		if err != nil {
			fatal(err)
		}
		printResults(results)

	case "remove":
		fs := flag.NewFlagSet("subscriptions remove", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		var (
			region = fs.String("region", "", "default region override")
			keys   = fs.String("keys", "", "comma-separated subscription keys")
			dryRun = fs.Bool("dry-run", false, "describe the call without executing it")
		)
		parse(fs, args[1:])
		if *keys == "" {
			fatalf("missing -keys")
		}

		client, logger := setup(*region)
		defer syncLogger(logger)

		results, err := client.Subscriptions().Remove(ctx, splitList(*keys), callOpts(*dryRun)...)
		if err != nil {
			fatal(err)
		}
		printResults(results)

	case "autosubscribe":
		fs := flag.NewFlagSet("subscriptions autosubscribe", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		var (
			region   = fs.String("region", "", "default region override")
			devTypes = fs.String("device-types", "", "comma-separated device types (COMPUTE, STORAGE, GATEWAY)")
			disable  = fs.Bool("disable", false, "disable instead of enable")
			dryRun   = fs.Bool("dry-run", false, "describe the call without executing it")
		)
		parse(fs, args[1:])
		if *devTypes == "" {
			fatalf("missing -device-types")
		}

		client, logger := setup(*region)
		defer syncLogger(logger)

		var types []greenlake.DeviceType
		for _, t := range splitList(*devTypes) {
			types = append(types, greenlake.DeviceType(t))
		}

		results, err := client.Subscriptions().SetAutoSubscription(ctx, types, !*disable, callOpts(*dryRun)...)
		if err != nil {
			fatal(err)
		}
		printResults(results)

	case "autorenew":
		fs := flag.NewFlagSet("subscriptions autorenew", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		var (
			region  = fs.String("region", "", "default region override")
			keys    = fs.String("keys", "", "comma-separated subscription keys")
			disable = fs.Bool("disable", false, "disable instead of enable")
			dryRun  = fs.Bool("dry-run", false, "describe the call without executing it")
		)
		parse(fs, args[1:])
		if *keys == "" {
			fatalf("missing -keys")
		}

		client, logger := setup(*region)
		defer syncLogger(logger)

		results, err := client.Subscriptions().SetAutoRenew(ctx, splitList(*keys), !*disable, callOpts(*dryRun)...)
		if err != nil {
			fatal(err)
		}
		printResults(results)

	default:
		fatalf("unknown subscriptions subcommand: %s", args[0])
	}
}

func devicesCmd(ctx context.Context, args []string) {
	if len(args) < 1 {
		fatalf("usage: glpadm devices <list|attach|detach> [flags]")
	}

	switch args[0] {
	case "list":
		fs := flag.NewFlagSet("devices list", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		var (
			region  = fs.String("region", "", "default region override")
			serial  = fs.String("serial", "", "filter by serial number")
			devType = fs.String("type", "", "filter by device type")
		)
		parse(fs, args[1:])

		client, logger := setup(*region)
		defer syncLogger(logger)

		devices, err := client.Devices().List(ctx, greenlake.DeviceFilter{
			Serial: *serial,
			Type:   greenlake.DeviceType(*devType),
		})
		if err != nil {
			fatal(err)
		}

		w := newTable()
		fmt.Fprintln(w, "SERIAL\tPART\tTYPE\tAPPLICATION\tREGION\tSUBSCRIPTION")
		for _, d := range devices {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				d.Serial, d.PartNumber, d.Type, d.Application, d.Region, d.SubscriptionKey)
		}
		flush(w)

	case "attach":
		fs := flag.NewFlagSet("devices attach", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		var (
			region  = fs.String("region", "", "default region override")
			key     = fs.String("key", "", "subscription key to attach")
			serials = fs.String("serials", "", "comma-separated device serial numbers")
			dryRun  = fs.Bool("dry-run", false, "describe the call without executing it")
		)
		parse(fs, args[1:])
		if *key == "" {
			fatalf("missing -key")
		}
		if *serials == "" {
			fatalf("missing -serials")
		}

		client, logger := setup(*region)
		defer syncLogger(logger)

		results, err := client.Devices().AttachSubscription(ctx, *key, splitList(*serials), callOpts(*dryRun)...)
		if err != nil {
			fatal(err)
		}
		printResults(results)

	case "detach":
		fs := flag.NewFlagSet("devices detach", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		var (
			region  = fs.String("region", "", "default region override")
			serials = fs.String("serials", "", "comma-separated device serial numbers")
			dryRun  = fs.Bool("dry-run", false, "describe the call without executing it")
		)
		parse(fs, args[1:])
		if *serials == "" {
			fatalf("missing -serials")
		}

		client, logger := setup(*region)
		defer syncLogger(logger)

		results, err := client.Devices().DetachSubscription(ctx, splitList(*serials), callOpts(*dryRun)...)
		if err != nil {
			fatal(err)
		}
		printResults(results)

	default:
		fatalf("unknown devices subcommand: %s", args[0])
	}
}

func integrationsCmd(ctx context.Context, args []string) {
	if len(args) < 1 {
		fatalf("usage: glpadm integrations <list|deploy|update|remove|test> [flags]")
	}

	switch args[0] {
	case "list":
		fs := flag.NewFlagSet("integrations list", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		var (
			region  = fs.String("region", "", "Compute Ops Management region")
			name    = fs.String("name", "", "filter by name")
			intType = fs.String("type", "", "filter by type: SERVICE_NOW or DSCC")
		)
		parse(fs, args[1:])

		client, logger := setup(*region)
		defer syncLogger(logger)

		svc, err := client.Integrations("")
		if err != nil {
			fatal(err)
		}
		items, err := svc.List(ctx, greenlake.IntegrationFilter{
			Name: *name,
			Type: greenlake.IntegrationType(*intType),
		})
		if err != nil {
			fatal(err)
		}

		w := newTable()
		fmt.Fprintln(w, "NAME\tTYPE\tSTATE\tENDPOINT\tUPDATED")
		for _, ig := range items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				ig.Name, ig.Type, ig.State, ig.Endpoint, ig.UpdatedAt.Format(time.RFC3339))
		}
		flush(w)

	case "deploy", "update":
		verb := args[0]
		fs := flag.NewFlagSet("integrations "+verb, flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		var (
			region   = fs.String("region", "", "Compute Ops Management region")
			name     = fs.String("name", "", "integration name")
			intType  = fs.String("type", "", "integration type: SERVICE_NOW or DSCC")
			endpoint = fs.String("endpoint", "", "external service endpoint URL")
			clientID = fs.String("client-id", "", "external service OAuth client id")
			secret   = fs.String("client-secret", "", "external service OAuth client secret (or GLPADM_EXT_SECRET)")
			dryRun   = fs.Bool("dry-run", false, "describe the call without executing it")
		)
		parse(fs, args[1:])
		if *name == "" {
			fatalf("missing -name")
		}
		if *secret == "" {
			*secret = os.Getenv("GLPADM_EXT_SECRET")
		}

		client, logger := setup(*region)
		defer syncLogger(logger)

		svc, err := client.Integrations("")
		if err != nil {
			fatal(err)
		}

		spec := greenlake.IntegrationSpec{
			Name:         *name,
			Type:         greenlake.IntegrationType(*intType),
			Endpoint:     *endpoint,
			ClientID:     *clientID,
			ClientSecret: *secret,
		}

		var results []greenlake.BulkResult
		if verb == "deploy" {
			results, err = svc.Deploy(ctx, spec, callOpts(*dryRun)...)
		} else {
			results, err = svc.Update(ctx, *name, spec, callOpts(*dryRun)...)
		}
		if err != nil {
			fatal(err)
		}
		printResults(results)

	case "remove":
		fs := flag.NewFlagSet("integrations remove", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		var (
			region = fs.String("region", "", "Compute Ops Management region")
			names  = fs.String("names", "", "comma-separated integration names")
			dryRun = fs.Bool("dry-run", false, "describe the call without executing it")
		)
		parse(fs, args[1:])
		if *names == "" {
			fatalf("missing -names")
		}

		client, logger := setup(*region)
		defer syncLogger(logger)

		svc, err := client.Integrations("")
		if err != nil {
			fatal(err)
		}
		results, err := svc.Remove(ctx, splitList(*names), callOpts(*dryRun)...)
		if err != nil {
			fatal(err)
		}
		printResults(results)

	case "test":
		fs := flag.NewFlagSet("integrations test", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		var (
			region = fs.String("region", "", "Compute Ops Management region")
			name   = fs.String("name", "", "integration name")
			dryRun = fs.Bool("dry-run", false, "describe the call without executing it")
		)
		parse(fs, args[1:])
		if *name == "" {
			fatalf("missing -name")
		}

		client, logger := setup(*region)
		defer syncLogger(logger)

		svc, err := client.Integrations("")
		if err != nil {
			fatal(err)
		}
		results, err := svc.Test(ctx, *name, callOpts(*dryRun)...)
		if err != nil {
			fatal(err)
		}
		printResults(results)

	default:
		fatalf("unknown integrations subcommand: %s", args[0])
	}
}

func callOpts(dryRun bool) []greenlake.CallOption {
	if dryRun {
		return []greenlake.CallOption{greenlake.DryRun()}
	}
	return nil
}

// printResults writes the per-item ledger. Failed items do not change
// the exit code: a precondition violation is a reported outcome, not a
// tool failure.
func printResults(results []greenlake.BulkResult) {
	w := newTable()
	fmt.Fprintln(w, "IDENTIFIER\tOUTCOME\tDETAIL")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.Identifier, r.Outcome, r.Detail)
	}
	flush(w)
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func parse(fs *flag.FlagSet, args []string) {
	if err := fs.Parse(args); err != nil {
		fatal(err)
	}
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

func flush(w *tabwriter.Writer) {
	if err := w.Flush(); err != nil {
		fatal(err)
	}
}

func syncLogger(l *zap.Logger) { _ = l.Sync() }

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "glpadm:", err)
	os.Exit(1)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
