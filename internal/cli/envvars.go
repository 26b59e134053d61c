package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
)

// EnvVarName returns the environment variable that corresponds to a flag.
func EnvVarName(prefix, flagName string) string {
	return prefix + strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))
}

// AddEnvVarUsage appends the corresponding environment variable name to each flag's usage.
func AddEnvVarUsage(flags *pflag.FlagSet, prefix string) {
	flags.VisitAll(func(f *pflag.Flag) {
		f.Usage = fmt.Sprintf("%s (%s)", f.Usage, EnvVarName(prefix, f.Name))
	})
}

// ApplyEnvVars sets every flag that was not provided on the command line
// from its environment variable and rejects unsupported variables with the prefix.
func ApplyEnvVars(flags *pflag.FlagSet, prefix string) error {
	supportedEnvVars := map[string]struct{}{}
	var err error

	flags.VisitAll(func(f *pflag.Flag) {
		envVarName := EnvVarName(prefix, f.Name)
		supportedEnvVars[envVarName] = struct{}{}

		if err != nil || f.Changed {
			return
		}

		if envVarValue := os.Getenv(envVarName); envVarValue != "" {
			if e := flags.Set(f.Name, envVarValue); e != nil {
				err = fmt.Errorf("invalid environment variable %s value provided: %w", envVarName, e)
			}
		}
	})

	if err != nil {
		return err
	}

	for _, entry := range os.Environ() {
		if strings.HasPrefix(entry, prefix) {
			kv := strings.SplitN(entry, "=", 2)
			if _, ok := supportedEnvVars[kv[0]]; !ok {
				return fmt.Errorf("unsupported environment variable provided: %s", kv[0])
			}
		}
	}

	return nil
}
