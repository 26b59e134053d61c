package cli

import (
	"github.com/spf13/pflag"

	"github.com/mgoltzsche/vad-dataprep/pkg/config"
)

// ApplyConfigFile replaces cfg with the configuration file's contents, if one was provided,
// while keeping the values of flags that were set explicitly.
func ApplyConfigFile(flags *pflag.FlagSet, configFlag *config.Flag, cfg *config.Configuration) error {
	fileCfg, ok := configFlag.Configuration()
	if !ok {
		return nil
	}

	type setting struct {
		flag   *pflag.Flag
		value  string
		values []string
	}

	var explicit []setting
	flags.Visit(func(f *pflag.Flag) {
		if f.Value == pflag.Value(configFlag) {
			return
		}
		s := setting{flag: f, value: f.Value.String()}
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			s.values = sv.GetSlice()
		}
		explicit = append(explicit, s)
	})

	*cfg = fileCfg

	for _, s := range explicit {
		if sv, ok := s.flag.Value.(pflag.SliceValue); ok {
			if err := sv.Replace(s.values); err != nil {
				return err
			}
			continue
		}
		if err := s.flag.Value.Set(s.value); err != nil {
			return err
		}
	}

	return nil
}
