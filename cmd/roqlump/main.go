package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gitlab.com/edge-engine/roqplay/internal/config"
	"gitlab.com/edge-engine/roqplay/internal/log"
	"gitlab.com/edge-engine/roqplay/internal/sentry"
	"gitlab.com/edge-engine/roqplay/internal/version"
)

const progname = "roqlump"

const usage = `Usage: ` + progname + ` [-version] [-config CONFIG_TOML] SUBCOMMAND ARGS

Subcommands:

list ARCHIVE
	Print the lump directory of a WAD archive.

dump [-size N] [-count N] [-o FILE] ARCHIVE LUMP
	Write a lump to stdout or FILE, reading it in elements of N bytes
	the way a decoder pulls its input. Statistics go to the log.

check [-size N] [-jobs N] ARCHIVE
	Read every lump of the archive through its own cursor and verify
	that each one delivers exactly its directory size.

stream [-chunk N] LUMP [ARCHIVE...]
	Feed a lump through a tick driven player at the configured tick
	interval. Archives default to the ones in the config; later
	archives override earlier ones.
`

var (
	flagConfig  = flag.String("config", "", "Location for the config.toml")
	flagVersion = flag.Bool("version", false, "Print version and exit")
	logger     = log.Default()
)

func main() {
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if *flagVersion {
		fmt.Println(version.GetVersionString(progname))
		os.Exit(0)
	}

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	conf, err := configure()
	if err != nil {
		logger.Fatal(err)
	}

	os.Exit(subCommand(conf, flag.Arg(0), flag.Args()[1:]))
}

func configure() (config.Cfg, error) {
	var conf config.Cfg
	var err error

	if *flagConfig == "" {
		conf, err = config.Load(nil)
	} else {
		conf, err = config.FromFile(*flagConfig)
	}
	if err != nil {
		return conf, fmt.Errorf("error reading config file: %v", err)
	}

	if err := conf.Validate(); err != nil {
		return conf, err
	}

	conf.ConfigureLogger()
	logger = log.Default()

	if err := sentry.ConfigureSentry(version.GetVersion(), conf.Sentry); err != nil {
		logger.WithError(err).Warn("Unable to configure sentry")
	}

	if conf.PrometheusListenAddr != "" {
		logger.WithField("address", conf.PrometheusListenAddr).Info("Starting prometheus listener")

		promMux := http.NewServeMux()
		promMux.Handle("/metrics", promhttp.Handler())

		go func() {
			if err := http.ListenAndServe(conf.PrometheusListenAddr, promMux); err != nil {
				logger.WithError(err).Errorf("Unable to start prometheus listener: %v", conf.PrometheusListenAddr)
			}
		}()
	}

	return conf, nil
}
