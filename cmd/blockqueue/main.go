package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/btcsuite/btcd/rpcclient"
	grpcZap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	"github.com/hashicorp/go-multierror"
	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/blockqueue/internal/blockqueue"
	"github.com/goodnatureofminers/blockqueue/internal/chain"
	"github.com/goodnatureofminers/blockqueue/internal/consensus/pow"
	"github.com/goodnatureofminers/blockqueue/internal/importer"
	"github.com/goodnatureofminers/blockqueue/internal/metrics"
	"github.com/goodnatureofminers/blockqueue/internal/model"
	observed "github.com/goodnatureofminers/blockqueue/internal/pkg/btcd/rpcclient"
	"github.com/goodnatureofminers/blockqueue/internal/repository/clickhouse"
	"github.com/goodnatureofminers/blockqueue/internal/source/bitcoin"
	"github.com/goodnatureofminers/blockqueue/internal/transport"
)

type config struct {
	Network       model.Network `long:"network" env:"BLOCKQUEUE_NETWORK" description:"bitcoin network" choice:"mainnet" choice:"testnet" choice:"regtest" choice:"signet" choice:"simnet" default:"mainnet"`
	ClickhouseDSN string        `long:"clickhouse-dsn" env:"BLOCKQUEUE_CLICKHOUSE_DSN" description:"ClickHouse DSN" required:"true"`
	RPCURL        string        `long:"rpc-url" env:"BLOCKQUEUE_RPC_URL" description:"Bitcoin RPC URL" default:"http://127.0.0.1:8332"`
	RPCUser       string        `long:"rpc-user" env:"BLOCKQUEUE_RPC_USER" description:"Bitcoin RPC username"`
	RPCPassword   string        `long:"rpc-password" env:"BLOCKQUEUE_RPC_PASSWORD" description:"Bitcoin RPC password"`
	ZMQAddr       string        `long:"zmq-addr" env:"BLOCKQUEUE_ZMQ_ADDR" description:"bitcoind zmqpubhashblock endpoint, e.g. tcp://127.0.0.1:28332"`
	GRPCAddr      string        `long:"grpc-addr" env:"BLOCKQUEUE_GRPC_ADDR" description:"address for the gRPC health server" default:":8000"`
	HTTPAddr      string        `long:"http-addr" env:"BLOCKQUEUE_HTTP_ADDR" description:"address for the status and metrics server" default:":2112"`
	WarmBlocks    uint64        `long:"warm-blocks" env:"BLOCKQUEUE_WARM_BLOCKS" description:"recent stored blocks loaded into the chain cache at startup" default:"2016"`

	Queue struct {
		MaxBytes         uint64 `long:"max-bytes" env:"MAX_BYTES" description:"byte ceiling for staged blocks" default:"52428800"`
		MaxBlocks        int    `long:"max-blocks" env:"MAX_BLOCKS" description:"block ceiling for staged blocks" default:"8192"`
		MaxPending       int    `long:"max-pending" env:"MAX_PENDING" description:"verified blocks allowed to wait for a parent" default:"1024"`
		Eviction         string `long:"eviction" env:"EVICTION" description:"pending eviction policy" choice:"oldest" choice:"deepest" default:"oldest"`
		Workers          int    `long:"workers" env:"WORKERS" description:"verification workers, 0 uses every CPU"`
		MaxReorgDepth    uint64 `long:"max-reorg-depth" env:"MAX_REORG_DEPTH" description:"imports after which bad block entries are pruned, 0 keeps them"`
		StrictInvariants bool   `long:"strict-invariants" env:"STRICT_INVARIANTS" description:"panic on internal invariant violations"`
		StrictTimestamps bool   `long:"strict-timestamps" env:"STRICT_TIMESTAMPS" description:"require block timestamps to increase"`
	} `group:"queue" namespace:"queue" env-namespace:"BLOCKQUEUE_QUEUE"`

	Import struct {
		FlushSize     int           `long:"flush-size" env:"FLUSH_SIZE" description:"rows per insert" default:"64"`
		FlushInterval time.Duration `long:"flush-interval" env:"FLUSH_INTERVAL" description:"maximum wait before a partial insert" default:"1s"`
		MaxRetries    int           `long:"max-retries" env:"MAX_RETRIES" description:"insert attempts before the batch is reported failed" default:"3"`
	} `group:"import" namespace:"import" env-namespace:"BLOCKQUEUE_IMPORT"`

	Source struct {
		PollInterval time.Duration `long:"poll-interval" env:"POLL_INTERVAL" description:"node poll interval" default:"10s"`
		MaxBatch     int           `long:"max-batch" env:"MAX_BATCH" description:"blocks fetched per sync round" default:"128"`
		FetchWorkers int           `long:"fetch-workers" env:"FETCH_WORKERS" description:"parallel block fetches" default:"4"`
	} `group:"source" namespace:"source" env-namespace:"BLOCKQUEUE_SOURCE"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()
	grpcZap.ReplaceGrpcLoggerV2(logger)

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("block queue failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) (err error) {
	logger = logger.With(zap.String("network", string(cfg.Network)))
	params, err := cfg.Network.Params()
	if err != nil {
		return err
	}

	repo, err := clickhouse.NewRepository(cfg.ClickhouseDSN, metrics.NewClickhouseRepository())
	if err != nil {
		return fmt.Errorf("init repository: %w", err)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			err = multierror.Append(err, fmt.Errorf("close repository: %w", closeErr))
		}
	}()

	store, err := chain.NewStore(cfg.Network, repo, chain.Options{}, logger)
	if err != nil {
		return fmt.Errorf("init chain store: %w", err)
	}
	warmed, err := store.Warm(ctx, cfg.WarmBlocks)
	if err != nil {
		return fmt.Errorf("warm chain store: %w", err)
	}
	tipHash, tipHeight := store.Tip()
	logger.Info("chain store ready",
		zap.Int("warmed", warmed),
		zap.Stringer("tip", tipHash),
		zap.Uint64("height", tipHeight))

	var engineOpts []pow.Option
	if cfg.Queue.StrictTimestamps {
		engineOpts = append(engineOpts, pow.WithStrictTimestamps())
	}
	engine, err := pow.New(params, engineOpts...)
	if err != nil {
		return fmt.Errorf("init consensus engine: %w", err)
	}

	queue, err := blockqueue.New(blockqueue.Config{
		MaxBytes:         cfg.Queue.MaxBytes,
		MaxBlocks:        cfg.Queue.MaxBlocks,
		MaxPending:       cfg.Queue.MaxPending,
		Eviction:         blockqueue.EvictionPolicy(cfg.Queue.Eviction),
		Workers:          cfg.Queue.Workers,
		MaxReorgDepth:    cfg.Queue.MaxReorgDepth,
		StrictInvariants: cfg.Queue.StrictInvariants,
	}, engine, store, metrics.NewQueue(cfg.Network), logger.Named("queue"))
	if err != nil {
		return fmt.Errorf("init block queue: %w", err)
	}
	queue.Start()
	defer func() {
		if closeErr := queue.Close(); closeErr != nil {
			err = multierror.Append(err, fmt.Errorf("close block queue: %w", closeErr))
		}
	}()

	importSvc, err := importer.NewService(cfg.Network, queue, store, repo, metrics.NewImporter(cfg.Network), importer.Options{
		FlushSize:     cfg.Import.FlushSize,
		FlushInterval: cfg.Import.FlushInterval,
		MaxRetries:    cfg.Import.MaxRetries,
	}, logger)
	if err != nil {
		return fmt.Errorf("init importer: %w", err)
	}

	rpcClient, err := newRPCClient(cfg.RPCURL, cfg.RPCUser, cfg.RPCPassword)
	if err != nil {
		return fmt.Errorf("init rpc client: %w", err)
	}
	defer func() {
		rpcClient.Shutdown()
		rpcClient.WaitForShutdown()
	}()

	follower, err := bitcoin.NewFollower(
		observed.NewObservedClient(rpcClient, metrics.NewRPCClient(cfg.Network)),
		queue,
		store,
		metrics.NewSource(cfg.Network),
		bitcoin.Options{
			PollInterval: cfg.Source.PollInterval,
			MaxBatch:     cfg.Source.MaxBatch,
			FetchWorkers: cfg.Source.FetchWorkers,
		},
		logger,
	)
	if err != nil {
		return fmt.Errorf("init follower: %w", err)
	}

	health, err := transport.NewHealthReporter(queue, logger)
	if err != nil {
		return fmt.Errorf("init health reporter: %w", err)
	}
	httpHandler, err := newHTTPHandler(queue, logger)
	if err != nil {
		return fmt.Errorf("init http handler: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	signals, err := startBlockSignal(ctx, cfg.ZMQAddr, logger)
	if err != nil {
		return fmt.Errorf("init block signal: %w", err)
	}

	var group multierror.Group
	goCancelOnError(&group, cancel, func() error { return follower.Run(ctx, signals) })
	goCancelOnError(&group, cancel, func() error { return importSvc.Run(ctx) })
	goCancelOnError(&group, cancel, func() error {
		health.Run(ctx, time.Second)
		return nil
	})
	goCancelOnError(&group, cancel, func() error { return serveGRPC(ctx, cfg.GRPCAddr, health, logger) })
	goCancelOnError(&group, cancel, func() error { return serveHTTP(ctx, cfg.HTTPAddr, httpHandler, logger) })

	return group.Wait().ErrorOrNil()
}

// goCancelOnError runs fn in the group and cancels the shared context when fn fails.
func goCancelOnError(group *multierror.Group, cancel context.CancelFunc, fn func() error) {
	group.Go(func() error {
		if err := fn(); err != nil {
			cancel()
			return err
		}
		return nil
	})
}

func newRPCClient(rawURL, user, password string) (*rpcclient.Client, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse rpc url: %w", err)
	}
	if parsed.Scheme != "http" {
		return nil, fmt.Errorf("rpc url scheme %q not supported, use http", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, errors.New("rpc url missing host")
	}

	return rpcclient.New(&rpcclient.ConnConfig{
		Host:         parsed.Host,
		User:         user,
		Pass:         password,
		HTTPPostMode: true,
		DisableTLS:   true,
	}, nil)
}
