package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/xray7224/p/internal/domain-adapters/gateways"
	"github.com/xray7224/p/internal/domain/interfaces"
	"github.com/xray7224/p/internal/domain/services"
	"github.com/xray7224/p/internal/external-adapters/hcl"
	"github.com/xray7224/p/internal/external-adapters/logging"
	"github.com/xray7224/p/internal/external-adapters/yaml"
)

// commonFlags are shared by every subcommand that works on a project
type commonFlags struct {
	projectDir *string
	logLevel   *string
	logJSON    *bool
}

func addCommonFlags(fs *flag.FlagSet) commonFlags {
	return commonFlags{
		projectDir: fs.String("project-dir", defaultProjectDir(), "Project directory containing the manifest and README (env: PSETUP_PROJECT_DIR)"),
		logLevel:   fs.String("log-level", "", "Log level: debug, info, warn, error (env: LOG_LEVEL)"),
		logJSON:    fs.Bool("log-json", false, "Write logs as JSON instead of console text"),
	}
}

func (c commonFlags) logger(component string) interfaces.Logger {
	return newLogger(*c.logLevel, !*c.logJSON, component)
}

func defaultProjectDir() string {
	if dir := os.Getenv("PSETUP_PROJECT_DIR"); dir != "" {
		return dir
	}
	return "."
}

func newLogger(level string, console bool, component string) *logging.Logger {
	return logging.New(logging.Config{
		Level:     level,
		Component: component,
		Console:   console,
	})
}

// newManifestRepository looks for setup.yml, setup.yaml, then setup.hcl
func newManifestRepository() *yaml.ManifestRepository {
	repo := yaml.NewManifestRepository()
	repo.RegisterFormat("setup.hcl", hcl.NewManifestParser())
	return repo
}

func newDescriptorBuilder(logger interfaces.Logger) *services.DescriptorBuilder {
	return services.NewDescriptorBuilder(newManifestRepository(), gateways.NewReadmeReader(), logger)
}

// buildTime honours SOURCE_DATE_EPOCH so distributions can rebuild bit for bit
func buildTime() (time.Time, error) {
	raw := os.Getenv("SOURCE_DATE_EPOCH")
	if raw == "" {
		return gateways.DefaultBuildTime, nil
	}
	secs, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid SOURCE_DATE_EPOCH %q: %w", raw, err)
	}
	return time.Unix(secs, 0).UTC(), nil
}
