package main

import (
	"clientbook/cmd/clientbook/cmds"
	"clientbook/internal/api"
	"clientbook/internal/backends"
	"clientbook/internal/flow"
	"clientbook/internal/notify"
	"clientbook/internal/ports"
	"clientbook/internal/pub"
	"clientbook/internal/store"
	"clientbook/internal/types"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type app struct {
	slot  ports.SlotStore
	hub   *notify.Hub
	store *store.Store
	loc   *time.Location
}

func main() {
	// Load environment variables
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	err := godotenv.Load(envFile)
	if err != nil {
		log.Info("The .env file not found.")
	}
	setupLogging()

	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		log.Fatalf("clientbook: %v", err)
	}
}

func setupLogging() {
	if os.Getenv("LOG_FORMAT") == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	}
	lvl, err := log.ParseLevel(getenv("LOG_LEVEL", "info"))
	if err != nil {
		log.Warnf("Unknown LOG_LEVEL, using info: %v", err)
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "clientbook",
		Short:         "Insurance client book: records, visit schedule and dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return backends.Close(a.slot)
		},
	}

	var filter, month, out string

	list := &cobra.Command{
		Use:   "list",
		Short: "Print every client as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmds.PrintList(cmd.Context(), a.store, cmd.OutOrStdout(), filter)
		},
	}
	list.Flags().StringVar(&filter, "filter", "", "JMESPath boolean expression, e.g. \"grade == 'A'\"")

	schedule := &cobra.Command{
		Use:   "schedule",
		Short: "Print the visits planned for a month",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmds.PrintSchedule(cmd.Context(), a.store, cmd.OutOrStdout(), month, a.now())
		},
	}
	schedule.Flags().StringVar(&month, "month", "", "YYYY-MM, defaults to the current month")

	analytics := &cobra.Command{
		Use:   "analytics",
		Short: "Print the dashboard as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmds.PrintAnalytics(cmd.Context(), a.store, cmd.OutOrStdout(), a.now())
		},
	}

	importYAML := &cobra.Command{
		Use:   "import <file.yml>",
		Short: "Create clients from a YAML list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := cmds.ImportYAML(cmd.Context(), a.store, args[0])
			if err != nil {
				return err
			}
			log.WithFields(log.Fields{"file": args[0], "count": n}).Info("clients imported")
			return nil
		},
	}

	importLegacy := &cobra.Command{
		Use:   "import-legacy <dump.json>",
		Short: "Create clients from a browser client book dump",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := cmds.ImportLegacy(cmd.Context(), a.store, args[0])
			if err != nil {
				return err
			}
			log.WithFields(log.Fields{"file": args[0], "count": n}).Info("legacy clients imported")
			return nil
		},
	}

	export := &cobra.Command{
		Use:   "export",
		Short: "Write every client as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				return cmds.Export(cmd.Context(), a.store, cmd.OutOrStdout())
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := cmds.Export(cmd.Context(), a.store, f); err != nil {
				_ = f.Close()
				return err
			}
			return f.Close()
		},
	}
	export.Flags().StringVar(&out, "out", "", "output file, defaults to stdout")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}

	root.AddCommand(serve, list, schedule, analytics, importYAML, importLegacy, export)
	return root
}

func (a *app) open(ctx context.Context) error {
	loc, err := time.LoadLocation(getenv("CLIENTBOOK_TZ", "UTC"))
	if err != nil {
		return fmt.Errorf("CLIENTBOOK_TZ: %w", err)
	}
	a.loc = loc

	a.slot, err = backends.SlotBackendFromEnv(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize client slot: %w", err)
	}
	a.hub = notify.NewHub()
	a.store = store.New(a.slot, store.WithNotifier(a.hub))
	return nil
}

func (a *app) now() time.Time {
	return flow.Now().In(a.loc)
}

func (a *app) serve(ctx context.Context) error {
	port, err := strconv.Atoi(getenv("PORT", "8080"))
	if err != nil {
		return fmt.Errorf("PORT: %w", err)
	}

	if arn := os.Getenv("SNS_TOPIC_ARN"); arn != "" {
		snsClient, err := snsClientFromEnv(ctx)
		if err != nil {
			return fmt.Errorf("failed to load AWS config: %w", err)
		}
		defer notify.ForwardTo(a.hub, pub.NewSNS(snsClient), arn)()
		log.WithField("snsArn", arn).Info("forwarding change events")
	}
	a.hub.Subscribe(func(c types.Change) {
		log.WithFields(log.Fields{"op": c.Op, "clientID": c.ID}).Info("client book changed")
	})

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	if fs, ok := backends.FileSlot(a.slot); ok {
		g.Go(func() error {
			return fs.Watch(ctx, a.hub)
		})
	}

	stop, done := api.RunServerInterruptible(port, api.NewHandler(a.store, a.loc))
	g.Go(func() error {
		select {
		case <-ctx.Done():
			close(stop)
			return <-done
		case err := <-done:
			cancel()
			return err
		}
	})
	return g.Wait()
}

// snsClientFromEnv honours SNS_ENDPOINT for local testing against an AWS mock.
func snsClientFromEnv(ctx context.Context) (*sns.Client, error) {
	var snsEndpoint *string
	se := os.Getenv("SNS_ENDPOINT")
	if se != "" {
		snsEndpoint = aws.String(se)
	}

	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}

	return sns.NewFromConfig(awsCfg, func(o *sns.Options) {
		if snsEndpoint != nil {
			o.BaseEndpoint = snsEndpoint
			if o.Region == "" {
				o.Region = "us-east-1"
			}
			o.Credentials = credentials.NewStaticCredentialsProvider("test", "test", "")
		}
	}), nil
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
