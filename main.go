package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ThryLox/hive-mind/config"
	"github.com/ThryLox/hive-mind/logging"
	"github.com/ThryLox/hive-mind/server"
	"github.com/ThryLox/hive-mind/sim"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "hive-mind",
		Short: "Multi-agent behavioral simulation engine",
		Long: `hive-mind steps a population of agents under a pluggable movement
strategy (flocking, pheromone foraging, swarm optimization) and streams
tick snapshots to consumers over websocket or stdout.`,
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newRunCmd(),
		newVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newServeCmd() *cobra.Command {
	var (
		addr     string
		cfgPath  string
		logLevel string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the engine over websocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}

			logger := logging.New(cfg.LogLevel, os.Stderr)
			eng := sim.NewEngine(newRand(), logger)
			go eng.Run()
			defer eng.Close()

			eng.Do(sim.Init{Config: cfg.Sim})
			eng.Do(sim.Play{})

			srv := server.New(eng, logger)
			go srv.Broadcast()

			mux := http.NewServeMux()
			mux.HandleFunc("/ws", srv.HandleWS)

			logger.Info("listening", "addr", cfg.Addr)
			return http.ListenAndServe(cfg.Addr, mux)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().StringVar(&cfgPath, "config", "", "Path to YAML config")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (info, debug, warn, error)")
	return cmd
}

func newRunCmd() *cobra.Command {
	var (
		algorithm string
		agents    int
		ticks     int
		debug     bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Step the engine headless and print JSON snapshots to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := sim.DefaultConfig()
			cfg.Algorithm = sim.Algorithm(algorithm)
			if agents > 0 {
				cfg.AgentCount = agents
			}

			logger := logging.New("warn", os.Stderr)
			eng := sim.NewEngine(newRand(), logger)
			go eng.Run()
			defer eng.Close()

			eng.Do(sim.SetDebug{Enabled: debug})
			eng.Do(sim.Init{Config: cfg})

			enc := json.NewEncoder(os.Stdout)
			emit := func(ev sim.Event) error {
				payload, err := server.EncodeEvent(ev)
				if err != nil {
					return err
				}
				return enc.Encode(payload)
			}

			// Init produces Ready plus the tick-0 snapshot.
			if err := emit(<-eng.Events); err != nil {
				return err
			}
			if err := emit(<-eng.Events); err != nil {
				return err
			}
			for i := 0; i < ticks; i++ {
				eng.Do(sim.Step{})
				if err := emit(<-eng.Events); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&algorithm, "algorithm", "flocking", "Strategy: flocking, foraging, swarm")
	cmd.Flags().IntVar(&agents, "agents", 0, "Agent count (0 = config default)")
	cmd.Flags().IntVar(&ticks, "ticks", 100, "Number of ticks to run")
	cmd.Flags().BoolVar(&debug, "debug", false, "Include per-agent force breakdowns")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}
}

func newRand() *rand.Rand {
	// Unseeded by design: runs are not reproducible across processes.
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
