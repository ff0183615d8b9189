package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/berfenger/heatnet/internal/config"
	"github.com/berfenger/heatnet/internal/core/domain"
	"github.com/berfenger/heatnet/internal/core/service"
	"github.com/berfenger/heatnet/internal/esdl"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type networkOutput struct {
	Report    domain.NetworkReport    `json:"report"`
	Incidence *domain.IncidenceReport `json:"incidence,omitempty"`
}

// convert reads asset graph documents, converts each of them and prints the
// JSON reports. The exit code is 1 when any conversion failed.
func main() {
	flags := pflag.NewFlagSet("convert", pflag.ExitOnError)
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: convert [flags] document...\n")
		flags.PrintDefaults()
	}
	flags.String("name", "", "network name, only with a single document")
	flags.String("formulation", "heat", "port formulation (heat|qth)")
	flags.Int("retry-loop-limit", service.DEFAULT_RETRY_LOOP_LIMIT, "maximum number of conversion rounds")
	flags.Float64("estimated-velocity", service.DEFAULT_ESTIMATED_VELOCITY, "estimated flow velocity in m/s used for nominal flows")
	flags.Bool("require-return-pairs", false, "fail on assets without a supply/return counterpart")
	flags.String("log-level", "warn", "log level")
	flags.Bool("indent", true, "indent JSON output")
	flags.Bool("incidence", false, "add the connection by port incidence matrix of each network")
	_ = flags.Parse(os.Args[1:])

	v := viper.New()
	v.SetEnvPrefix("heatnet")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	documents := flags.Args()
	if len(documents) == 0 {
		flags.Usage()
		os.Exit(2)
	}
	if v.GetString("name") != "" && len(documents) > 1 {
		fmt.Fprintln(os.Stderr, "--name needs a single document")
		os.Exit(2)
	}

	networkCfg := config.NetworkConfig{
		RetryLoopLimit:     v.GetInt("retry-loop-limit"),
		Formulation:        v.GetString("formulation"),
		EstimatedVelocity:  v.GetFloat64("estimated-velocity"),
		RequireReturnPairs: v.GetBool("require-return-pairs"),
	}
	formulation, err := networkCfg.FormulationOrDefault()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if networkCfg.RetryLoopLimit < 1 {
		fmt.Fprintln(os.Stderr, "--retry-loop-limit should be >= 1")
		os.Exit(2)
	}

	// logs go to stderr, reports to stdout
	zapCfg := zap.NewDevelopmentConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(config.ParseLogLevel(v.GetString("log-level")))
	logger := zap.Must(zapCfg.Build())
	defer logger.Sync()

	builder := service.NewNetworkBuilder(networkCfg.RetryLoopLimit, formulation, logger)
	builder.RequireReturnPairs = networkCfg.RequireReturnPairs
	srv := service.NewConversionService(builder, service.NewHeatConverter(networkCfg.EstimatedVelocity, logger), nil, logger)
	loader := esdl.NewLoader(logger)

	withIncidence := v.GetBool("incidence")
	reports := make([]any, 0, len(documents))
	failed := false
	for _, path := range documents {
		// empty name keeps the document name
		network, report, err := srv.ConvertFile(loader, v.GetString("name"), path)
		if err != nil {
			failed = true
		}
		if report.Name == "" {
			report.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		if !withIncidence {
			reports = append(reports, report)
			continue
		}
		out := networkOutput{Report: report}
		if network != nil {
			incidence := network.IncidenceReport()
			out.Incidence = &incidence
		}
		reports = append(reports, out)
	}

	encoder := json.NewEncoder(os.Stdout)
	if v.GetBool("indent") {
		encoder.SetIndent("", "  ")
	}
	var out any = reports
	if len(reports) == 1 {
		out = reports[0]
	}
	if err := encoder.Encode(out); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if failed {
		os.Exit(1)
	}
}
