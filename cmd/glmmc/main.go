// SPDX-License-Identifier: MIT

// Command glmmc compiles a YAML study design into GLMM matrices and prints
// them.
//
//	glmmc -design study.yaml [-env .env] [-log-level debug] [-format json] [-output yaml]
//
// GLMMC_LOG_LEVEL, GLMMC_LOG_FORMAT and GLMMC_OUTPUT, read from the process
// environment or the -env file, supply defaults for the flags of the same
// purpose. An explicitly passed flag always wins.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/glmmc/compiler"
	"github.com/katalvlaran/glmmc/covariance"
	"github.com/katalvlaran/glmmc/design"
)

const (
	envLogLevel  = "GLMMC_LOG_LEVEL"
	envLogFormat = "GLMMC_LOG_FORMAT"
	envOutput    = "GLMMC_OUTPUT"
)

type config struct {
	designPath           string
	envFile              string
	logLevel             string
	logFormat            string
	output               string
	interactionGrandMean bool
}

func main() {
	cfg, err := parseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "glmmc: %v\n", err)
		os.Exit(2)
	}
	log, err := newLogger(cfg, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "glmmc: %v\n", err)
		os.Exit(2)
	}
	if err = run(cfg, log, os.Stdout); err != nil {
		log.WithError(err).Error("compilation failed")
		os.Exit(1)
	}
}

// parseConfig reads flags, loads the optional env file and fills every
// flag the caller did not set from the environment.
func parseConfig(fs *flag.FlagSet, args []string) (config, error) {
	var cfg config
	fs.StringVar(&cfg.designPath, "design", "", "Path to the YAML study design")
	fs.StringVar(&cfg.envFile, "env", "", "Optional .env file with GLMMC_* defaults")
	fs.StringVar(&cfg.logLevel, "log-level", "info", "Log level: debug|info|warn|error")
	fs.StringVar(&cfg.logFormat, "format", "text", "Log format: text|json")
	fs.StringVar(&cfg.output, "output", "text", "Matrix output: text|yaml")
	fs.BoolVar(&cfg.interactionGrandMean, "interaction-grand-mean", false, "Answer INTERACTION hypotheses with the grand-mean contrast")
	if err := fs.Parse(args); err != nil {
		return config{}, err
	}
	if cfg.designPath == "" {
		return config{}, fmt.Errorf("-design is required")
	}

	if cfg.envFile != "" {
		if err := godotenv.Load(cfg.envFile); err != nil {
			return config{}, fmt.Errorf("load env (%s): %w", cfg.envFile, err)
		}
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	fromEnv := func(flagName, key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && !set[flagName] {
			*dst = v
		}
	}
	fromEnv("log-level", envLogLevel, &cfg.logLevel)
	fromEnv("format", envLogFormat, &cfg.logFormat)
	fromEnv("output", envOutput, &cfg.output)

	switch cfg.output {
	case "text", "yaml":
	default:
		return config{}, fmt.Errorf("unknown output %q", cfg.output)
	}

	return cfg, nil
}

func newLogger(cfg config, w io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.logLevel)
	if err != nil {
		return nil, err
	}

	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(level)
	switch cfg.logFormat {
	case "text":
		l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.logFormat)
	}

	return l, nil
}

// matrixDoc is the YAML output shape of one compiled matrix.
type matrixDoc struct {
	Name string      `yaml:"name"`
	Rows int         `yaml:"rows"`
	Cols int         `yaml:"cols"`
	Data [][]float64 `yaml:"data,flow"`
}

func run(cfg config, log *logrus.Logger, w io.Writer) error {
	d, err := design.LoadFile(cfg.designPath)
	if err != nil {
		return err
	}

	set, err := compiler.Compile(d,
		compiler.WithLogger(log.WithField("design", cfg.designPath)),
		compiler.WithInteractionGrandMean(cfg.interactionGrandMean),
	)
	if err != nil {
		return err
	}

	if sigma, ok := set.Sigma(); ok {
		pd, err := covariance.IsPositiveDefinite(sigma.Dense())
		if err != nil {
			return err
		}
		if !pd {
			log.WithField("matrix", sigma.Name()).Warn("error covariance is not positive definite")
		}
	}

	if cfg.output == "yaml" {
		return writeYAML(set, w)
	}
	for _, m := range set.Matrices() {
		if _, err = fmt.Fprintf(w, "%s (%dx%d)\n%s\n", m.Name(), m.Rows(), m.Cols(), m.Dense()); err != nil {
			return err
		}
	}

	return nil
}

func writeYAML(set *compiler.MatrixSet, w io.Writer) error {
	docs := make([]matrixDoc, 0, set.Len())
	for _, m := range set.Matrices() {
		data := m.Data()
		rows := make([][]float64, m.Rows())
		for i := range rows {
			rows[i] = data[i*m.Cols() : (i+1)*m.Cols()]
		}
		docs = append(docs, matrixDoc{Name: m.Name(), Rows: m.Rows(), Cols: m.Cols(), Data: rows})
	}

	enc := yaml.NewEncoder(w)
	defer enc.Close()

	return enc.Encode(docs)
}
