package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	defaultPath           = "."
	defaultCountry        = "US"
	defaultFlatRateCents  = 800
	defaultParcelWeightOz = 16
	defaultParcelLengthIn = 10
	defaultParcelWidthIn  = 8
	defaultParcelHeightIn = 2
)

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port     int `json:"port" yaml:"port"`
		Timeouts struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	// Stripe holds the payment provider credentials.
	Stripe struct {
		SecretKey     string `json:"secretKey" yaml:"secretKey"`
		WebhookSecret string `json:"webhookSecret" yaml:"webhookSecret"`
	} `json:"stripe" yaml:"stripe"`

	// Shippo holds the carrier-rate API credentials. An empty token disables
	// rate shopping and label purchase.
	Shippo struct {
		Token   string `json:"token" yaml:"token"`
		BaseURL string `json:"baseUrl" yaml:"baseUrl"`
	} `json:"shippo" yaml:"shippo"`

	// ShipFrom is the warehouse origin address used on every shipment.
	ShipFrom ShipFrom `json:"shipFrom" yaml:"shipFrom"`

	// Parcel is the default package used for rate quotes and labels.
	Parcel Parcel `json:"parcel" yaml:"parcel"`

	Admin struct {
		Key string `json:"key" yaml:"key"`
	} `json:"admin" yaml:"admin"`

	// Telegram configures the operator notification bot. ChatIDs is a
	// comma-separated recipient list.
	Telegram struct {
		BotToken string `json:"botToken" yaml:"botToken"`
		ChatIDs  string `json:"chatIds" yaml:"chatIds"`
		BaseURL  string `json:"baseUrl" yaml:"baseUrl"`
	} `json:"telegram" yaml:"telegram"`

	Storefront struct {
		// Origin is the public URL of the React frontend, used for Checkout
		// success/cancel redirects.
		Origin string `json:"origin" yaml:"origin"`
		// ServerOrigin is the public URL of this API, used in operator alerts.
		ServerOrigin string `json:"serverOrigin" yaml:"serverOrigin"`
	} `json:"storefront" yaml:"storefront"`

	Shipping struct {
		// FlatRateCents is charged when no carrier quote is available.
		FlatRateCents int64 `json:"flatRateCents" yaml:"flatRateCents"`
	} `json:"shipping" yaml:"shipping"`

	Data struct {
		Dir string `json:"dir" yaml:"dir"`
	} `json:"data" yaml:"data"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// ShipFrom mirrors the carrier API address shape for the warehouse origin.
type ShipFrom struct {
	Name    string `json:"name" yaml:"name"`
	Street1 string `json:"street1" yaml:"street1"`
	Street2 string `json:"street2" yaml:"street2"`
	City    string `json:"city" yaml:"city"`
	State   string `json:"state" yaml:"state"`
	Zip     string `json:"zip" yaml:"zip"`
	Country string `json:"country" yaml:"country"`
	Phone   string `json:"phone" yaml:"phone"`
	Email   string `json:"email" yaml:"email"`
}

// Complete reports whether the origin address is specified well enough to
// purchase a label.
func (s ShipFrom) Complete() bool {
	return s.Name != "" && s.Street1 != "" && s.City != "" && s.State != "" && s.Zip != ""
}

// Parcel is the default parcel in inches and ounces.
type Parcel struct {
	WeightOz float64 `json:"weightOz" yaml:"weightOz"`
	LengthIn float64 `json:"lengthIn" yaml:"lengthIn"`
	WidthIn  float64 `json:"widthIn" yaml:"widthIn"`
	HeightIn float64 `json:"heightIn" yaml:"heightIn"`
}

// Recipients parses the comma-separated Telegram chat id list, dropping blanks.
func (c *Config) Recipients() []string {
	parts := strings.Split(c.Telegram.ChatIDs, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}

	return out
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Build list of paths to search for config file
	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			abs := filepath.Join(pwd, path)
			searchPaths = append(searchPaths, abs)
		}
	}

	// Try to find and load the config file
	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	// Load YAML config file
	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// Load environment variables
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// Convert ENV_VAR_NAME to path and align each segment with existing YAML keys.
			// Example: STRIPE_WEBHOOKSECRET -> stripe.webhookSecret (not stripe.webhooksecret)
			key := canonicalizeEnvKey(k, existingConfigMap)

			return key, v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	// Unmarshal into the config struct (case-insensitive to match env vars)
	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				// Case-insensitive matching for env var overrides
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	applyDefaults(cfg)

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.ShipFrom.Country == "" {
		cfg.ShipFrom.Country = defaultCountry
	}

	if cfg.Parcel.WeightOz <= 0 {
		cfg.Parcel.WeightOz = defaultParcelWeightOz
	}

	if cfg.Parcel.LengthIn <= 0 {
		cfg.Parcel.LengthIn = defaultParcelLengthIn
	}

	if cfg.Parcel.WidthIn <= 0 {
		cfg.Parcel.WidthIn = defaultParcelWidthIn
	}

	if cfg.Parcel.HeightIn <= 0 {
		cfg.Parcel.HeightIn = defaultParcelHeightIn
	}

	if cfg.Shipping.FlatRateCents <= 0 {
		cfg.Shipping.FlatRateCents = defaultFlatRateCents
	}

	if cfg.Data.Dir == "" {
		cfg.Data.Dir = "data"
	}
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}
