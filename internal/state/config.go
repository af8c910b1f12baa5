package state

import (
	"path/filepath"
	"sync"

	"github.com/hashicorp/hcl"
	"github.com/juju/errors"
	"github.com/temoto/wifinfo/helpers"
	sink_config "github.com/temoto/wifinfo/internal/sink/config"
	"github.com/temoto/wifinfo/log2"
)

const (
	DefaultIntervalSec = 60
	DefaultFramePath   = "/run/teleinfo/frame"
)

type Config struct {
	// includeSeen contains absolute paths to prevent include loops
	includeSeen map[string]struct{}
	// only used for Unmarshal, do not access
	XXX_Include []ConfigSource `hcl:"include"`

	LogDebug          bool `hcl:"log_debug"`
	NetworkTimeoutSec int  `hcl:"network_timeout_sec"`

	Frame struct {
		Path        string `hcl:"path"`
		IntervalSec int    `hcl:"interval_sec"`
	} `hcl:"frame"`

	Metrics struct {
		Listen string `hcl:"listen"`
	} `hcl:"metrics"`

	Sink sink_config.Config `hcl:"sink"`

	_copy_guard sync.Mutex //nolint:unused
}

type ConfigSource struct {
	Name     string `hcl:"name,key"`
	Optional bool   `hcl:"optional"`
}

func (c *Config) read(log *log2.Log, fs FullReader, source ConfigSource, errs *[]error) {
	norm := fs.Normalize(source.Name)
	if _, ok := c.includeSeen[norm]; ok {
		*errs = append(*errs, errors.Errorf("config duplicate source=%s", source.Name))
		return
	}
	log.Debugf("config reading source='%s' path=%s", source.Name, norm)
	c.includeSeen[source.Name] = struct{}{}
	c.includeSeen[norm] = struct{}{}

	bs, err := fs.ReadAll(norm)
	if bs == nil && err == nil {
		if !source.Optional {
			err = errors.NotFoundf("config required name=%s path=%s", source.Name, norm)
			*errs = append(*errs, err)
		}
		return
	}
	if err != nil {
		*errs = append(*errs, errors.Annotatef(err, "config source=%s", source.Name))
		return
	}

	err = hcl.Unmarshal(bs, c)
	if err != nil {
		err = errors.Annotatef(err, "config unmarshal source=%s", source.Name)
		*errs = append(*errs, err)
		return
	}

	var includes []ConfigSource
	includes, c.XXX_Include = c.XXX_Include, nil
	for _, include := range includes {
		includeNorm := fs.Normalize(include.Name)
		if _, ok := c.includeSeen[includeNorm]; ok {
			err = errors.Errorf("config include loop: from=%s include=%s", source.Name, include.Name)
			*errs = append(*errs, err)
			continue
		}
		c.read(log, fs, include, errs)
	}
}

func (c *Config) applyDefaults() {
	if c.Frame.Path == "" {
		c.Frame.Path = DefaultFramePath
	}
	if c.Frame.IntervalSec <= 0 {
		c.Frame.IntervalSec = DefaultIntervalSec
	}
}

func (c *Config) validate() error {
	errs := make([]error, 0, 4)
	ports := map[string]int{
		"sink.json.port":         c.Sink.JSON.Port,
		"sink.jeedom.port":       c.Sink.Jeedom.Port,
		"sink.http_request.port": c.Sink.HTTPRequest.Port,
	}
	for key, port := range ports {
		if port < 0 || port > 65535 {
			errs = append(errs, errors.NotValidf("config %s=%d", key, port))
		}
	}
	if q := c.Sink.MQTT.QOS; q < 0 || q > 2 {
		errs = append(errs, errors.NotValidf("config sink.mqtt.qos=%d", q))
	}
	if c.NetworkTimeoutSec < 0 {
		errs = append(errs, errors.NotValidf("config network_timeout_sec=%d", c.NetworkTimeoutSec))
	}
	return helpers.FoldErrors(errs)
}

func ReadConfig(log *log2.Log, fs FullReader, names ...string) (*Config, error) {
	if len(names) == 0 {
		return nil, errors.NotValidf("code error ReadConfig() without names")
	}

	names = append([]string(nil), names...)
	if osfs, ok := fs.(*OsFullReader); ok {
		dir, name := filepath.Split(names[0])
		osfs.SetBase(dir)
		names[0] = name
	}
	c := &Config{
		includeSeen: make(map[string]struct{}),
	}
	errs := make([]error, 0, 8)
	for _, name := range names {
		c.read(log, fs, ConfigSource{Name: name}, &errs)
	}
	if err := helpers.FoldErrors(errs); err != nil {
		return c, err
	}
	c.applyDefaults()
	return c, c.validate()
}

func MustReadConfig(log *log2.Log, fs FullReader, names ...string) *Config {
	c, err := ReadConfig(log, fs, names...)
	if err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	return c
}
