package bserve

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Transport names accepted by BCONDUIT_TRANSPORT.
const (
	TransportNetHTTP  = "nethttp"
	TransportFastHTTP = "fasthttp"
)

// Environment defines the interface that all environment configurations must implement.
// Embed BaseEnvironment in your struct to satisfy this interface.
type Environment interface {
	addr() string
	threads() int
	queueSize() int
	transport() string
	serviceName() string
	logLevel() zapcore.Level
	otelExporter() string
	metricsAddr() string
}

// BaseEnvironment contains the variables every bconduit server reads.
// Embed this in your custom environment struct.
type BaseEnvironment struct {
	Addr         string        `env:"BCONDUIT_ADDR,required"`
	Threads      int           `env:"BCONDUIT_THREADS" envDefault:"8"`
	QueueSize    int           `env:"BCONDUIT_QUEUE_SIZE"`
	Transport    string        `env:"BCONDUIT_TRANSPORT" envDefault:"nethttp"`
	ServiceName  string        `env:"BCONDUIT_SERVICE_NAME" envDefault:"bconduit"`
	LogLevel     zapcore.Level `env:"BCONDUIT_LOG_LEVEL" envDefault:"info"`
	OtelExporter string        `env:"BCONDUIT_OTEL_EXPORTER" envDefault:"none"`
	// MetricsAddr serves /metrics on a separate listener when set.
	MetricsAddr string `env:"BCONDUIT_METRICS_ADDR"`
}

func (e BaseEnvironment) addr() string {
	return e.Addr
}

func (e BaseEnvironment) threads() int {
	return e.Threads
}

// queueSize defaults to the number of threads.
func (e BaseEnvironment) queueSize() int {
	if e.QueueSize <= 0 {
		return e.Threads
	}
	return e.QueueSize
}

func (e BaseEnvironment) transport() string {
	return e.Transport
}

func (e BaseEnvironment) serviceName() string {
	return e.ServiceName
}

func (e BaseEnvironment) logLevel() zapcore.Level {
	return e.LogLevel
}

func (e BaseEnvironment) otelExporter() string {
	return e.OtelExporter
}

func (e BaseEnvironment) metricsAddr() string {
	return e.MetricsAddr
}

var _ Environment = BaseEnvironment{}

// ConfigFileVar names the optional YAML file with base values.
const ConfigFileVar = "BCONDUIT_CONFIG_FILE"

// DotEnvFile is read from the working directory when it exists.
const DotEnvFile = ".env"

// ParseEnv parses the configuration into the given Environment type. Values are layered: the
// .env file, then the YAML file named by BCONDUIT_CONFIG_FILE, then the process environment.
func ParseEnv[E Environment]() func() (E, error) {
	return func() (e E, err error) {
		vals, err := loadSources(DotEnvFile, env.ToMap(os.Environ()))
		if err != nil {
			return e, err
		}

		if err := env.ParseWithOptions(&e, env.Options{Environment: vals}); err != nil {
			return e, errors.Wrap(err, "failed to parse environment")
		}

		if err := validate(e); err != nil {
			return e, err
		}

		return e, nil
	}
}

func loadSources(dotEnvPath string, procEnv map[string]string) (map[string]string, error) {
	var dot, fromFile map[string]string

	if _, err := os.Stat(dotEnvPath); err == nil {
		if dot, err = godotenv.Read(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", dotEnvPath)
		}
	}

	file := procEnv[ConfigFileVar]
	if file == "" {
		file = dot[ConfigFileVar]
	}

	if file != "" {
		var err error
		if fromFile, err = readConfigFile(file); err != nil {
			return nil, err
		}
	}

	return lo.Assign(dot, fromFile, procEnv), nil
}

// readConfigFile reads a flat YAML mapping of variable names to scalar values.
func readConfigFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrapf(err, "failed to decode config file %s", path)
	}

	out := make(map[string]string, len(raw))
	for k, v := range raw {
		switch v.(type) {
		case map[string]any, []any:
			return nil, errors.Newf("config file %s: %s must be a scalar", path, k)
		case nil:
			continue
		}
		out[k] = fmt.Sprint(v)
	}

	return out, nil
}

func validate(e Environment) error {
	if e.threads() < 1 {
		return errors.Newf("BCONDUIT_THREADS must be at least 1, got %d", e.threads())
	}

	switch e.transport() {
	case TransportNetHTTP, TransportFastHTTP:
	default:
		return errors.Newf("unsupported BCONDUIT_TRANSPORT: %q (supported: %s, %s)",
			e.transport(), TransportNetHTTP, TransportFastHTTP)
	}

	switch e.otelExporter() {
	case "none", "stdout":
	default:
		return errors.Newf("unsupported BCONDUIT_OTEL_EXPORTER: %q (supported: none, stdout)", e.otelExporter())
	}

	return nil
}
