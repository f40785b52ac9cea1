package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/N1XSS/controle-siscomex-test/internal/adapter"
	"github.com/N1XSS/controle-siscomex-test/internal/config"
	"github.com/N1XSS/controle-siscomex-test/internal/domain"
	"github.com/N1XSS/controle-siscomex-test/internal/logger"
	"github.com/N1XSS/controle-siscomex-test/internal/notify"
	"github.com/N1XSS/controle-siscomex-test/internal/ratelimit"
	"github.com/N1XSS/controle-siscomex-test/internal/siscomex"
	"github.com/N1XSS/controle-siscomex-test/internal/store"
	syncpkg "github.com/N1XSS/controle-siscomex-test/internal/sync"
)

var (
	configFile string
	envPath    string
	flagLimit  int
	flagWorker int
)

// app holds the wired components of one invocation.
type app struct {
	cfg      *config.SyncerConfig
	clock    adapter.Clock
	db       *gorm.DB
	store    store.Store
	cache    *store.LinkCache
	api      siscomex.DueAPI
	tabx     siscomex.TabxAPI
	fetcher  *syncpkg.Fetcher
	notifier notify.Notifier
}

func main() {
	root := &cobra.Command{
		Use:           "siscomex-sync",
		Short:         "Synchronize Siscomex export declarations into the local store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "Path to configuration file")
	root.PersistentFlags().StringVar(&envPath, "env", "config/", "Path to environment files")

	discover := &cobra.Command{
		Use:   "discover-new",
		Short: "Find invoices without a linked DUE and fetch their declarations",
		RunE:  runDiscover,
	}
	discover.Flags().IntVar(&flagLimit, "limit", 0, "Maximum invoices to probe this run (0 = all)")
	discover.Flags().IntVar(&flagWorker, "workers", 0, "Worker pool size override")

	refresh := &cobra.Command{
		Use:   "refresh-existing",
		Short: "Refresh stored DUEs whose remote revision may have changed",
		RunE:  runRefresh,
	}
	refresh.Flags().IntVar(&flagLimit, "limit", 0, "Maximum DUEs to refresh this run")
	refresh.Flags().IntVar(&flagWorker, "workers", 0, "Worker pool size override")

	full := &cobra.Command{
		Use:   "full",
		Short: "Run discover-new followed by refresh-existing",
		RunE:  runFull,
	}
	full.Flags().IntVar(&flagWorker, "workers", 0, "Worker pool size override")

	refreshOne := &cobra.Command{
		Use:   "refresh-one DUE",
		Short: "Force a full fetch of one DUE",
		Args:  cobra.ExactArgs(1),
		RunE:  runRefreshOne,
	}

	bondedActs := &cobra.Command{
		Use:   "refresh-bonded-acts DUE[,DUE...]",
		Short: "Replace only the drawback suspension acts of the given DUEs",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runBondedActs,
	}
	bondedActs.Flags().IntVar(&flagWorker, "workers", 0, "Worker pool size override")

	loadReference := &cobra.Command{
		Use:   "load-reference",
		Short: "Download the TABX reference tables into the support tables",
		RunE:  runLoadReference,
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Print row counts of the main tables",
		RunE:  runStatus,
	}

	root.AddCommand(discover, refresh, full, refreshOne, bondedActs, loadReference, status)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// setup loads configuration, initializes logging and wires the components.
// needsUpstream gates the credential check so status works without secrets.
func setup(needsUpstream bool) (*app, context.Context, context.CancelFunc, error) {
	cfg, err := config.LoadSyncerConfig(configFile, envPath)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := cfg.ValidateDatabase(); err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %s", domain.ErrConfiguration, err)
	}
	if needsUpstream {
		if err := cfg.ValidateCredentials(); err != nil {
			return nil, nil, nil, fmt.Errorf("%w: %s", domain.ErrConfiguration, err)
		}
	}

	if err := logger.Initialize(logger.Config{
		Debug:     cfg.Debug,
		SentryDSN: cfg.SentryDSN,
		Tags:      map[string]string{"service": "siscomex-sync"},
	}); err != nil {
		return nil, nil, nil, err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	cancel := stop
	if cfg.Sync.RunTimeout > 0 {
		var timeoutCancel context.CancelFunc
		ctx, timeoutCancel = context.WithTimeout(ctx, cfg.Sync.RunTimeout)
		cancel = func() {
			timeoutCancel()
			stop()
		}
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		cancel()
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		cancel()
		return nil, nil, nil, err
	}

	clock := adapter.NewClock()
	dataStore := store.NewStore(db)

	a := &app{
		cfg:      cfg,
		clock:    clock,
		db:       db,
		store:    dataStore,
		notifier: notify.Noop{},
	}
	if cfg.WhatsApp.Enabled {
		a.notifier = notify.NewWhatsApp(cfg.WhatsApp)
	}

	if needsUpstream {
		location, err := time.LoadLocation(cfg.API.Timezone)
		if err != nil {
			cancel()
			return nil, nil, nil, fmt.Errorf("%w: invalid timezone %q", domain.ErrConfiguration, cfg.API.Timezone)
		}

		gate := ratelimit.NewGate(ratelimit.Config{
			SafeLimit: cfg.Rate.EffectiveSafeLimit(),
			Burst:     cfg.Rate.Burst,
			LimitHour: cfg.Rate.LimitHour,
		}, clock)
		auth := siscomex.NewTokenAuthority(cfg.Auth, cfg.API.BaseURL, cfg.API.Timeout, clock)
		client := siscomex.NewClient(gate, auth, cfg.API.Timeout, location, clock)
		a.api = siscomex.NewDueAPI(client, cfg.API.BaseURL)
		a.tabx = siscomex.NewTabxAPI(client, cfg.API.BaseURL)
		a.fetcher = syncpkg.NewFetcher(a.api, dataStore, clock, cfg.Fetch, cfg.Sync.DueTimeout)

		cache, err := store.NewLinkCache(ctx, dataStore, clock, cfg.Sync.LinkFlushSize)
		if err != nil {
			cancel()
			return nil, nil, nil, err
		}
		a.cache = cache
	}

	return a, ctx, cancel, nil
}

func (a *app) workers() int {
	if flagWorker > 0 {
		return flagWorker
	}
	return a.cfg.Sync.Workers
}

func (a *app) discovery() *syncpkg.Discovery {
	maxPerRun := a.cfg.Sync.MaxDiscoveryPerRun
	if flagLimit > 0 {
		maxPerRun = flagLimit
	}
	return syncpkg.NewDiscovery(a.api, a.store, a.cache, a.fetcher, a.clock, syncpkg.DiscoveryConfig{
		Workers:   a.workers(),
		MaxPerRun: maxPerRun,
	})
}

func (a *app) refresh() *syncpkg.Refresh {
	limit := a.cfg.Sync.MaxRefreshPerRun
	if flagLimit > 0 {
		limit = flagLimit
	}
	return syncpkg.NewRefresh(a.api, a.store, a.fetcher, a.clock, syncpkg.RefreshConfig{
		Workers: a.workers(),
		Policy: store.RefreshPolicy{
			Partition:            domain.DefaultSituationPartition(),
			StalenessHours:       a.cfg.Sync.StalenessHours,
			RecentSettlementDays: a.cfg.Sync.RecentSettlementDays,
			Limit:                limit,
		},
	})
}

func (a *app) report(ctx context.Context, summary *syncpkg.Summary) {
	fmt.Println(summary.String())
	if err := a.notifier.SyncCompleted(ctx, summary); err != nil {
		logger.WarnCtx(ctx, "failed to deliver run notification", zap.Error(err))
	}
}

func runDiscover(cmd *cobra.Command, args []string) error {
	a, ctx, cancel, err := setup(true)
	if err != nil {
		return err
	}
	defer cancel()
	defer logger.Flush(2 * time.Second)

	summary, err := a.discovery().Run(ctx)
	a.report(ctx, summary)
	return err
}

func runRefresh(cmd *cobra.Command, args []string) error {
	a, ctx, cancel, err := setup(true)
	if err != nil {
		return err
	}
	defer cancel()
	defer logger.Flush(2 * time.Second)

	summary, err := a.refresh().Run(ctx)
	a.report(ctx, summary)
	return err
}

func runFull(cmd *cobra.Command, args []string) error {
	a, ctx, cancel, err := setup(true)
	if err != nil {
		return err
	}
	defer cancel()
	defer logger.Flush(2 * time.Second)

	summary, err := a.discovery().Run(ctx)
	a.report(ctx, summary)
	if err != nil {
		return err
	}

	summary, err = a.refresh().Run(ctx)
	a.report(ctx, summary)
	return err
}

func runRefreshOne(cmd *cobra.Command, args []string) error {
	a, ctx, cancel, err := setup(true)
	if err != nil {
		return err
	}
	defer cancel()
	defer logger.Flush(2 * time.Second)

	summary, err := a.refresh().RefreshOne(ctx, domain.DueNumber(args[0]))
	a.report(ctx, summary)
	return err
}

func runBondedActs(cmd *cobra.Command, args []string) error {
	a, ctx, cancel, err := setup(true)
	if err != nil {
		return err
	}
	defer cancel()
	defer logger.Flush(2 * time.Second)

	var numbers []domain.DueNumber
	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			if part = strings.TrimSpace(part); part != "" {
				numbers = append(numbers, domain.DueNumber(part))
			}
		}
	}

	summary, err := a.refresh().RefreshBondedActs(ctx, numbers)
	a.report(ctx, summary)
	return err
}

func runLoadReference(cmd *cobra.Command, args []string) error {
	a, ctx, cancel, err := setup(true)
	if err != nil {
		return err
	}
	defer cancel()
	defer logger.Flush(2 * time.Second)

	loader := syncpkg.NewReferenceLoader(a.tabx, a.store, a.clock)
	summary, err := loader.Run(ctx)
	a.report(ctx, summary)
	return err
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, ctx, cancel, err := setup(false)
	if err != nil {
		return err
	}
	defer cancel()
	defer logger.Flush(2 * time.Second)

	counts, err := a.store.Counts(ctx)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%-28s %d\n", name, counts[name])
	}
	return nil
}
