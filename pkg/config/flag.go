package config

// Flag reads the configuration file when the flag is set.
// The file is validated while parsing the flags but applied by the caller.
type Flag struct {
	File   string
	IsSet  bool
	config Configuration
}

func (f *Flag) Set(path string) error {
	cfg, err := FromFile(path)
	if err != nil {
		return err
	}

	f.File = path
	f.config = cfg
	f.IsSet = true

	return nil
}

func (f *Flag) String() string {
	return f.File
}

func (f *Flag) Type() string {
	return "FILE"
}

// Configuration returns the configuration read from the file, if the flag was set.
func (f *Flag) Configuration() (Configuration, bool) {
	return f.config, f.IsSet
}
