package publishers

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Sink types accepted in the publishers file.
const (
	TypeSQS    = "sqs"
	TypeSNS    = "sns"
	TypeHTTP   = "http"
	TypePubSub = "pubsub"
)

const (
	httpDefaultMethod         = "POST"
	httpDefaultTimeoutSeconds = 5
)

// PublisherConfig is one sink entry of the publishers file. Exactly the
// block matching Type is read.
type PublisherConfig struct {
	ID      string                 `json:"id" yaml:"id"`
	Type    string                 `json:"type" yaml:"type"`
	Enabled *bool                  `json:"enabled" yaml:"enabled"`
	SQS     *SQSPublisherConfig    `json:"sqs" yaml:"sqs"`
	SNS     *SNSPublisherConfig    `json:"sns" yaml:"sns"`
	HTTP    *HTTPPublisherConfig   `json:"http" yaml:"http"`
	PubSub  *PubSubPublisherConfig `json:"pubsub" yaml:"pubsub"`
}

// SQSPublisherConfig sends run events to a queue.
type SQSPublisherConfig struct {
	QueueURL  string `json:"uri" yaml:"uri"`
	AWSConfig `json:",inline" yaml:",inline"`
}

// SNSPublisherConfig sends run events to a topic.
type SNSPublisherConfig struct {
	TopicARN  string `json:"topic_arn" yaml:"topic_arn"`
	Subject   string `json:"subject" yaml:"subject"`
	AWSConfig `json:",inline" yaml:",inline"`
}

// PubSubPublisherConfig sends run events to a Google Cloud Pub/Sub topic.
// Endpoint points at an emulator when set.
type PubSubPublisherConfig struct {
	ProjectID       string `json:"project_id" yaml:"project_id"`
	Topic           string `json:"topic" yaml:"topic"`
	CredentialsFile string `json:"credentials_file" yaml:"credentials_file"`
	Endpoint        string `json:"endpoint" yaml:"endpoint"`
}

// HTTPPublisherConfig posts run events to a webhook. Header values may
// reference environment variables as ${NAME}.
type HTTPPublisherConfig struct {
	URL            string            `json:"url" yaml:"url"`
	Method         string            `json:"method" yaml:"method"`
	Headers        map[string]string `json:"headers" yaml:"headers"`
	TimeoutSeconds int               `json:"timeout_seconds" yaml:"timeout_seconds"`
}

// EnabledValue reports whether the sink is on; entries are on unless disabled.
func (cfg PublisherConfig) EnabledValue() bool {
	return cfg.Enabled == nil || *cfg.Enabled
}

// ConfigRegistry is the parsed publishers file, in file order. It is
// read-only once loaded.
type ConfigRegistry struct {
	entries []PublisherConfig
	byID    map[string]int
}

// LoadRegistry reads the publishers file at path. The extension selects
// the decoder; anything other than .json is read as YAML.
func LoadRegistry(fsys afero.Fs, path string) (*ConfigRegistry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("publishers file path is empty")
	}
	raw, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read publishers file: %w", err)
	}

	var doc struct {
		Publishers []PublisherConfig `json:"publishers" yaml:"publishers"`
	}
	unmarshal, format := yaml.Unmarshal, "yaml"
	if strings.EqualFold(filepath.Ext(path), ".json") {
		unmarshal, format = json.Unmarshal, "json"
	}
	if err := unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode %s publishers file %s: %w", format, path, err)
	}
	if len(doc.Publishers) == 0 {
		return nil, fmt.Errorf("%s declares no publishers", path)
	}

	reg := &ConfigRegistry{byID: make(map[string]int, len(doc.Publishers))}
	for i, cfg := range doc.Publishers {
		cfg.normalize()
		if err := cfg.validate(); err != nil {
			return nil, fmt.Errorf("publishers[%d]: %w", i, err)
		}
		if _, dup := reg.byID[cfg.ID]; dup {
			return nil, fmt.Errorf("duplicate publisher id %q", cfg.ID)
		}
		reg.byID[cfg.ID] = len(reg.entries)
		reg.entries = append(reg.entries, cfg)
	}
	return reg, nil
}

// ByID returns the entry with the given id, enabled or not.
func (r *ConfigRegistry) ByID(id string) (PublisherConfig, bool) {
	if r == nil {
		return PublisherConfig{}, false
	}
	i, ok := r.byID[strings.TrimSpace(id)]
	if !ok {
		return PublisherConfig{}, false
	}
	return r.entries[i], true
}

// All returns a copy of every entry.
func (r *ConfigRegistry) All() []PublisherConfig {
	if r == nil {
		return nil
	}
	return append([]PublisherConfig(nil), r.entries...)
}

// Enabled returns the entries that should be built.
func (r *ConfigRegistry) Enabled() []PublisherConfig {
	if r == nil {
		return nil
	}
	var out []PublisherConfig
	for _, cfg := range r.entries {
		if cfg.EnabledValue() {
			out = append(out, cfg)
		}
	}
	return out
}

// normalize trims every field, applies http defaults and expands ${ENV}
// references in secrets and headers. Blocks are copied so the decoded
// document is never aliased.
func (cfg *PublisherConfig) normalize() {
	cfg.ID = strings.TrimSpace(cfg.ID)
	cfg.Type = strings.ToLower(strings.TrimSpace(cfg.Type))
	if cfg.Enabled == nil {
		on := true
		cfg.Enabled = &on
	}

	if cfg.SQS != nil {
		c := *cfg.SQS
		c.QueueURL = strings.TrimSpace(c.QueueURL)
		c.AWSConfig = c.AWSConfig.normalized()
		cfg.SQS = &c
	}
	if cfg.SNS != nil {
		c := *cfg.SNS
		c.TopicARN = strings.TrimSpace(c.TopicARN)
		c.Subject = strings.TrimSpace(c.Subject)
		c.AWSConfig = c.AWSConfig.normalized()
		cfg.SNS = &c
	}
	if cfg.PubSub != nil {
		c := *cfg.PubSub
		c.ProjectID = strings.TrimSpace(c.ProjectID)
		c.Topic = strings.TrimSpace(c.Topic)
		c.CredentialsFile = os.ExpandEnv(strings.TrimSpace(c.CredentialsFile))
		c.Endpoint = strings.TrimSpace(c.Endpoint)
		cfg.PubSub = &c
	}
	if cfg.HTTP != nil {
		c := *cfg.HTTP
		c.URL = strings.TrimSpace(c.URL)
		c.Method = strings.ToUpper(strings.TrimSpace(c.Method))
		if c.Method == "" {
			c.Method = httpDefaultMethod
		}
		if c.TimeoutSeconds <= 0 {
			c.TimeoutSeconds = httpDefaultTimeoutSeconds
		}
		c.Headers = expandHeaders(c.Headers)
		cfg.HTTP = &c
	}
}

func (c AWSConfig) normalized() AWSConfig {
	c.Region = strings.TrimSpace(c.Region)
	c.Endpoint = strings.TrimSpace(c.Endpoint)
	c.AccessKeyID = os.ExpandEnv(strings.TrimSpace(c.AccessKeyID))
	c.SecretAccessKey = os.ExpandEnv(strings.TrimSpace(c.SecretAccessKey))
	return c
}

// expandHeaders drops headers whose name or expanded value is blank.
func expandHeaders(in map[string]string) map[string]string {
	var out map[string]string
	for k, v := range in {
		name, value := strings.TrimSpace(k), os.ExpandEnv(strings.TrimSpace(v))
		if name == "" || value == "" {
			continue
		}
		if out == nil {
			out = make(map[string]string, len(in))
		}
		out[name] = value
	}
	return out
}

// validate reports the first missing required field for the entry's type.
func (cfg PublisherConfig) validate() error {
	if cfg.ID == "" {
		return errors.New("id is required")
	}
	missing := func(field string) error {
		return fmt.Errorf("%s is required for publisher %q", field, cfg.ID)
	}

	switch cfg.Type {
	case "":
		return missing("type")
	case TypeSQS:
		switch {
		case cfg.SQS == nil:
			return missing("sqs block")
		case cfg.SQS.QueueURL == "":
			return missing("sqs.uri")
		case cfg.SQS.Region == "":
			return missing("sqs.region")
		}
	case TypeSNS:
		switch {
		case cfg.SNS == nil:
			return missing("sns block")
		case cfg.SNS.TopicARN == "":
			return missing("sns.topic_arn")
		case cfg.SNS.Region == "":
			return missing("sns.region")
		}
	case TypeHTTP:
		switch {
		case cfg.HTTP == nil:
			return missing("http block")
		case cfg.HTTP.URL == "":
			return missing("http.url")
		}
	case TypePubSub:
		switch {
		case cfg.PubSub == nil:
			return missing("pubsub block")
		case cfg.PubSub.ProjectID == "":
			return missing("pubsub.project_id")
		case cfg.PubSub.Topic == "":
			return missing("pubsub.topic")
		}
	default:
		return fmt.Errorf("unsupported type %q for publisher %q", cfg.Type, cfg.ID)
	}
	return nil
}
