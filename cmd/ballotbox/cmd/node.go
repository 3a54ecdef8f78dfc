package cmd

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	logging "github.com/inconshreveable/log15"
	"github.com/mattn/go-isatty"
	"github.com/oklog/run"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/ulule/limiter"
	"golang.org/x/net/http2"

	"boscoin.io/ballotbox/cmd/ballotbox/common"
	ballotboxcommon "boscoin.io/ballotbox/lib/common"
	"boscoin.io/ballotbox/lib/common/keypair"
	"boscoin.io/ballotbox/lib/contract"
	"boscoin.io/ballotbox/lib/event"
	"boscoin.io/ballotbox/lib/metrics"
	"boscoin.io/ballotbox/lib/network"
	"boscoin.io/ballotbox/lib/node"
	"boscoin.io/ballotbox/lib/node/runner"
	"boscoin.io/ballotbox/lib/poll"
	"boscoin.io/ballotbox/lib/storage"
)

const (
	defaultNetwork  string      = "http"
	defaultHost     string      = "0.0.0.0"
	defaultLogLevel logging.Lvl = logging.LvlInfo
)

var defaultPort int = ballotboxcommon.DefaultEndpointPort

var (
	flagAdmin          string = ballotboxcommon.GetENVValue("BALLOTBOX_ADMIN", "")
	flagLogLevel       string = ballotboxcommon.GetENVValue("BALLOTBOX_LOG_LEVEL", defaultLogLevel.String())
	flagLogOutput      string = ballotboxcommon.GetENVValue("BALLOTBOX_LOG_OUTPUT", "")
	flagLogFormat      string = ballotboxcommon.GetENVValue("BALLOTBOX_LOG_FORMAT", "")
	flagHTTPLog        string = ballotboxcommon.GetENVValue("BALLOTBOX_HTTP_LOG", "")
	flagVerbose        bool   = ballotboxcommon.GetENVValue("BALLOTBOX_VERBOSE", "0") == "1"
	flagEndpointString string = ballotboxcommon.GetENVValue(
		"BALLOTBOX_ENDPOINT",
		fmt.Sprintf("%s://%s:%d", defaultNetwork, defaultHost, defaultPort),
	)
	flagStorageConfigString string
	flagTLSCertFile         string = ballotboxcommon.GetENVValue("BALLOTBOX_TLS_CERT", "")
	flagTLSKeyFile          string = ballotboxcommon.GetENVValue("BALLOTBOX_TLS_KEY", "")
	flagRateLimitAPI        common.ListFlags

	flagHTTPCacheAdapter    string = ballotboxcommon.GetENVValue("BALLOTBOX_HTTP_CACHE_ADAPTER", "")
	flagHTTPCachePoolSize   string = ballotboxcommon.GetENVValue("BALLOTBOX_HTTP_CACHE_POOL_SIZE", fmt.Sprintf("%d", ballotboxcommon.HTTPCachePoolSize))
	flagHTTPCacheTTL        string = ballotboxcommon.GetENVValue("BALLOTBOX_HTTP_CACHE_TTL", ballotboxcommon.DefaultHTTPCacheTTL.String())
	flagHTTPCacheRedisAddrs string = ballotboxcommon.GetENVValue("BALLOTBOX_HTTP_CACHE_REDIS_ADDRS", "")

	flagKafkaBrokers string = ballotboxcommon.GetENVValue("BALLOTBOX_KAFKA_BROKERS", "")
	flagKafkaTopic   string = ballotboxcommon.GetENVValue("BALLOTBOX_KAFKA_TOPIC", "ballotbox-events")
)

var (
	nodeCmd *cobra.Command

	admin         string
	nodeEndpoint  *ballotboxcommon.Endpoint
	storageConfig *storage.Config
	conf          ballotboxcommon.Config
	kafkaBrokers  []string
	logLevel      logging.Lvl
	logHandler    logging.Handler
	log           logging.Logger = logging.New("module", "main")
)

func init() {
	var err error

	nodeCmd = &cobra.Command{
		Use:   "node",
		Short: "Run ballotbox node",
		Run: func(c *cobra.Command, args []string) {
			if err := parseFlagsNode(); err != nil {
				common.PrintFlagsError(c, "", err)
			}

			if err := runNode(); err != nil {
				log.Crit("node stopped with error", "error", err)
				os.Exit(1)
			}
		},
	}

	var currentDirectory string
	if currentDirectory, err = os.Getwd(); err != nil {
		common.PrintFlagsError(nodeCmd, "--storage", err)
	}
	if currentDirectory, err = filepath.Abs(currentDirectory); err != nil {
		common.PrintFlagsError(nodeCmd, "--storage", err)
	}
	flagStorageConfigString = ballotboxcommon.GetENVValue("BALLOTBOX_STORAGE", fmt.Sprintf("file://%s/db", currentDirectory))

	nodeCmd.Flags().StringVar(&flagAdmin, "admin", flagAdmin, "address or secret seed of the contract admin; used only at the first start")
	nodeCmd.Flags().StringVar(&flagLogLevel, "log-level", flagLogLevel, "log level, {crit, error, warn, info, debug}")
	nodeCmd.Flags().StringVar(&flagLogOutput, "log-output", flagLogOutput, "set log output file")
	nodeCmd.Flags().StringVar(&flagLogFormat, "log-format", flagLogFormat, "log format, {terminal, json}")
	nodeCmd.Flags().StringVar(&flagHTTPLog, "http-log", flagHTTPLog, "set access log file; '-' is stdout")
	nodeCmd.Flags().BoolVar(&flagVerbose, "verbose", flagVerbose, "verbose")
	nodeCmd.Flags().StringVar(&flagEndpointString, "endpoint", flagEndpointString, "endpoint uri to listen on")
	nodeCmd.Flags().StringVar(&flagStorageConfigString, "storage", flagStorageConfigString, "storage uri")
	nodeCmd.Flags().StringVar(&flagTLSCertFile, "tls-cert", flagTLSCertFile, "tls certificate file")
	nodeCmd.Flags().StringVar(&flagTLSKeyFile, "tls-key", flagTLSKeyFile, "tls key file")
	nodeCmd.Flags().Var(
		&flagRateLimitAPI,
		"rate-limit-api",
		fmt.Sprintf("rate limit for api: [<ip>=]<limit>-<period>, ex) '10-S' '3.3.3.3=1000-M' (default %q)", ballotboxcommon.RateLimitAPI),
	)
	nodeCmd.Flags().StringVar(&flagHTTPCacheAdapter, "http-cache-adapter", flagHTTPCacheAdapter, "http cache adapter: {mem, redis}; empty disables the cache")
	nodeCmd.Flags().StringVar(&flagHTTPCachePoolSize, "http-cache-pool-size", flagHTTPCachePoolSize, "http cache pool size of mem adapter")
	nodeCmd.Flags().StringVar(&flagHTTPCacheTTL, "http-cache-ttl", flagHTTPCacheTTL, "http cache ttl")
	nodeCmd.Flags().StringVar(&flagHTTPCacheRedisAddrs, "http-cache-redis-addrs", flagHTTPCacheRedisAddrs, "redis addresses of redis adapter, ex) 'server0=127.0.0.1:6379,server1=127.0.0.1:6380'")
	nodeCmd.Flags().StringVar(&flagKafkaBrokers, "kafka-brokers", flagKafkaBrokers, "kafka brokers for the events, ex) '127.0.0.1:9092,127.0.0.1:9093'; empty disables the events")
	nodeCmd.Flags().StringVar(&flagKafkaTopic, "kafka-topic", flagKafkaTopic, "kafka topic of the events")

	rootCmd.AddCommand(nodeCmd)
}

func parseFlagRateLimit(l common.ListFlags, defaultRate limiter.Rate) (rule ballotboxcommon.RateLimitRule, err error) {
	if len(l) < 1 {
		rule = ballotboxcommon.NewRateLimitRule(defaultRate)
		return
	}

	byIPAddress := map[string]limiter.Rate{}
	for _, s := range l {
		var ip, r string
		sl := strings.SplitN(s, "=", 2)
		if len(sl) < 2 {
			r = s
		} else {
			ip, r = sl[0], sl[1]
			if len(ip) > 0 && net.ParseIP(ip) == nil {
				err = errors.Errorf("invalid ip address: %q", ip)
				return
			}
		}

		var rate limiter.Rate
		if rate, err = ballotboxcommon.ParseRate(strings.ToUpper(r)); err != nil {
			return
		}

		if len(ip) > 0 {
			byIPAddress[ip] = rate
		} else {
			defaultRate = rate
		}
	}

	rule = ballotboxcommon.NewRateLimitRule(defaultRate)
	rule.ByIPAddress = byIPAddress

	return
}

func parseFlagRedisAddrs(s string) (map[string]string, error) {
	addrs := map[string]string{}
	for i, a := range strings.Split(s, ",") {
		a = strings.TrimSpace(a)
		if len(a) < 1 {
			continue
		}

		name := fmt.Sprintf("server%d", i)
		if sl := strings.SplitN(a, "=", 2); len(sl) == 2 {
			name, a = sl[0], sl[1]
		}
		if _, found := addrs[name]; found {
			return nil, errors.Errorf("duplicated redis server name: %q", name)
		}
		addrs[name] = a
	}

	return addrs, nil
}

func parseFlagsNode() (err error) {
	if len(flagAdmin) > 0 {
		if kp, err := keypair.Parse(flagAdmin); err == nil {
			admin = kp.Address()
		} else {
			return errors.Wrap(err, "--admin")
		}
	}

	if nodeEndpoint, err = ballotboxcommon.ParseEndpoint(flagEndpointString); err != nil {
		return errors.Wrap(err, "--endpoint")
	}
	flagEndpointString = nodeEndpoint.String()

	queries := nodeEndpoint.Query()
	if nodeEndpoint.Scheme == "https" {
		if _, err = os.Stat(flagTLSCertFile); os.IsNotExist(err) {
			return errors.Wrap(err, "--tls-cert")
		}
		if _, err = os.Stat(flagTLSKeyFile); os.IsNotExist(err) {
			return errors.Wrap(err, "--tls-key")
		}
		queries.Set("TLSCertFile", flagTLSCertFile)
		queries.Set("TLSKeyFile", flagTLSKeyFile)
	}
	if len(flagHTTPLog) > 0 {
		queries.Set("HTTPLogOutput", flagHTTPLog)
	}
	if len(admin) > 0 && len(queries.Get("NodeName")) < 1 {
		queries.Set("NodeName", node.MakeAlias(admin))
	}
	nodeEndpoint.RawQuery = queries.Encode()

	if storageConfig, err = storage.NewConfigFromString(flagStorageConfigString); err != nil {
		return errors.Wrap(err, "--storage")
	}

	conf = ballotboxcommon.NewConfig()
	if conf.RateLimitRuleAPI, err = parseFlagRateLimit(flagRateLimitAPI, conf.RateLimitRuleAPI.Default); err != nil {
		return errors.Wrap(err, "--rate-limit-api")
	}

	switch flagHTTPCacheAdapter {
	case "", ballotboxcommon.HTTPCacheMemoryAdapterName:
	case ballotboxcommon.HTTPCacheRedisAdapterName:
		if conf.HTTPCacheRedisAddrs, err = parseFlagRedisAddrs(flagHTTPCacheRedisAddrs); err != nil {
			return errors.Wrap(err, "--http-cache-redis-addrs")
		} else if len(conf.HTTPCacheRedisAddrs) < 1 {
			return errors.New("--http-cache-redis-addrs: must be given for redis adapter")
		}
	default:
		return errors.Errorf("--http-cache-adapter: unknown adapter, %q", flagHTTPCacheAdapter)
	}
	conf.HTTPCacheAdapter = flagHTTPCacheAdapter

	if conf.HTTPCachePoolSize, err = strconv.Atoi(flagHTTPCachePoolSize); err != nil {
		return errors.Wrap(err, "--http-cache-pool-size")
	} else if conf.HTTPCachePoolSize < 1 {
		return errors.New("--http-cache-pool-size: must be greater than 0")
	}
	if conf.HTTPCacheTTL, err = time.ParseDuration(flagHTTPCacheTTL); err != nil {
		return errors.Wrap(err, "--http-cache-ttl")
	}

	kafkaBrokers = nil
	for _, b := range strings.Split(flagKafkaBrokers, ",") {
		if b = strings.TrimSpace(b); len(b) > 0 {
			kafkaBrokers = append(kafkaBrokers, b)
		}
	}
	if len(kafkaBrokers) > 0 && len(flagKafkaTopic) < 1 {
		return errors.New("--kafka-topic: must be given with --kafka-brokers")
	}

	if logLevel, err = logging.LvlFromString(flagLogLevel); err != nil {
		return errors.Wrap(err, "--log-level")
	}

	var formatter logging.Format
	switch flagLogFormat {
	case "terminal":
		formatter = logging.TerminalFormat()
	case "json":
		formatter = ballotboxcommon.JsonFormatEx(false, true)
	case "":
		if isatty.IsTerminal(os.Stdout.Fd()) && len(flagLogOutput) < 1 {
			formatter = logging.TerminalFormat()
		} else {
			formatter = ballotboxcommon.JsonFormatEx(false, true)
		}
	default:
		return errors.Errorf("--log-format: unknown format, %q", flagLogFormat)
	}

	if len(flagLogOutput) < 1 {
		flagLogOutput = "<stdout>"
		logHandler = logging.StreamHandler(os.Stdout, formatter)
	} else if logHandler, err = logging.FileHandler(flagLogOutput, formatter); err != nil {
		return errors.Wrap(err, "--log-output")
	}

	setLogging()

	log.Info("Starting ballotbox")

	log.Debug(
		"parsed flags:",
		"\n\tadmin", admin,
		"\n\tendpoint", flagEndpointString,
		"\n\tstorage", flagStorageConfigString,
		"\n\ttls-cert", flagTLSCertFile,
		"\n\ttls-key", flagTLSKeyFile,
		"\n\tlog-level", flagLogLevel,
		"\n\tlog-output", flagLogOutput,
		"\n\trate-limit-api", conf.RateLimitRuleAPI,
		"\n\thttp-cache-adapter", conf.HTTPCacheAdapter,
		"\n\thttp-cache-ttl", conf.HTTPCacheTTL,
		"\n\tkafka-brokers", kafkaBrokers,
		"\n\tkafka-topic", flagKafkaTopic,
	)

	if flagVerbose {
		http2.VerboseLogs = true
	}

	return nil
}

func setLogging() {
	ballotboxcommon.SetLogging(log, logLevel, logHandler)
	contract.SetLogging(logLevel, logHandler)
	event.SetLogging(logLevel, logHandler)
	network.SetLogging(logLevel, logHandler)
	poll.SetLogging(logLevel, logHandler)
	runner.SetLogging(logLevel, logHandler)
}

func runNode() error {
	st, err := storage.NewStorage(storageConfig)
	if err != nil {
		log.Crit("failed to initialize storage", "error", err)
		return err
	}
	defer st.Close()

	config, err := network.NewHTTPServerConfigFromEndpoint(nodeEndpoint)
	if err != nil {
		log.Crit("failed to create http server config", "error", err)
		return err
	}
	server := network.NewHTTPServer(config)

	var publisher event.Publisher
	if len(kafkaBrokers) > 0 {
		publisher = event.NewKafkaPublisher(kafkaBrokers, flagKafkaTopic)
	}

	metrics.InitPrometheusMetrics()
	metrics.SetVersion()
	poll.WatchMetrics()

	nr, err := runner.NewNodeRunner(conf, server, st, publisher, flagKafkaTopic)
	if err != nil {
		log.Crit("failed to create node runner", "error", err)
		return err
	}

	if len(admin) > 0 {
		if _, err := nr.Instantiate(admin); err != nil {
			log.Crit("failed to instantiate contract", "error", err)
			return err
		}
	} else {
		log.Warn("--admin is not given; the contract stays as it is")
	}

	if err := nr.Ready(); err != nil {
		return err
	}

	var g run.Group
	{
		g.Add(func() error {
			return nr.Start()
		}, func(error) {
			nr.Stop()
		})
	}
	{
		cancel := make(chan struct{})
		g.Add(func() error {
			return common.Interrupt(cancel)
		}, func(error) {
			close(cancel)
		})
	}

	if err := g.Run(); err != nil {
		log.Info("node exited", "reason", err)
	}

	return nil
}
