package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/biomax/dashboard/internal/domain/models"
	"github.com/biomax/dashboard/internal/presentation"
)

// Settings are the dashboard presentation knobs kept in dashboard.yml.
type Settings struct {
	TopN                int     `mapstructure:"topN"`
	DailyWindowDays     int     `mapstructure:"dailyWindowDays"`
	HorizontalThreshold int     `mapstructure:"horizontalThreshold"`
	DefaultPeriod       string  `mapstructure:"defaultPeriod"`
	CurrencyMarker      string  `mapstructure:"currencyMarker"`
	DonutHole           float64 `mapstructure:"donutHole"`
	Colors              Colors  `mapstructure:"colors"`
	Titles              Titles  `mapstructure:"titles"`
}

// Colors of the inbound/outbound series.
type Colors struct {
	Inbound  string `mapstructure:"inbound"`
	Outbound string `mapstructure:"outbound"`
}

// Titles of charts and tables.
type Titles struct {
	ProductRanking  string `mapstructure:"productRanking"`
	SupplierRanking string `mapstructure:"supplierRanking"`
	DailyMovements  string `mapstructure:"dailyMovements"`
	ProductShare    string `mapstructure:"productShare"`
	CustomerRanking string `mapstructure:"customerRanking"`
	BillingByDay    string `mapstructure:"billingByDay"`
	MovementTable   string `mapstructure:"movementTable"`
	InvoiceTable    string `mapstructure:"invoiceTable"`
}

// DefaultSettings match the layout of the original dashboard.
func DefaultSettings() Settings {
	d := presentation.DefaultOptions()
	return Settings{
		TopN:                d.TopN,
		DailyWindowDays:     d.DailyWindowDays,
		HorizontalThreshold: d.HorizontalThreshold,
		DefaultPeriod:       string(models.PeriodLastWeek),
		CurrencyMarker:      d.CurrencyMarker,
		DonutHole:           d.DonutHole,
		Colors: Colors{
			Inbound:  d.InboundColor,
			Outbound: d.OutboundColor,
		},
		Titles: Titles(d.Titles),
	}
}

// Period is the window applied when a request names none.
func (s Settings) Period() models.PeriodToken {
	p := models.ParsePeriod(s.DefaultPeriod)
	if p == models.PeriodUnknown {
		return models.PeriodLastWeek
	}
	return p
}

// PresentationOptions converts the settings for the presentation layer.
func (s Settings) PresentationOptions() presentation.Options {
	return presentation.Options{
		TopN:                s.TopN,
		DailyWindowDays:     s.DailyWindowDays,
		HorizontalThreshold: s.HorizontalThreshold,
		InboundColor:        s.Colors.Inbound,
		OutboundColor:       s.Colors.Outbound,
		CurrencyMarker:      s.CurrencyMarker,
		DonutHole:           s.DonutHole,
		Titles:              presentation.Titles(s.Titles),
	}.WithDefaults()
}

func validateSettings(s Settings) error {
	if s.DailyWindowDays < 0 {
		return errors.New("dashboard.dailyWindowDays cannot be negative")
	}
	if s.HorizontalThreshold < 0 {
		return errors.New("dashboard.horizontalThreshold cannot be negative")
	}
	if s.DonutHole < 0 || s.DonutHole >= 1 {
		return errors.New("dashboard.donutHole must be in [0, 1)")
	}
	if s.DefaultPeriod != "" && models.ParsePeriod(s.DefaultPeriod) == models.PeriodUnknown {
		return fmt.Errorf("dashboard.defaultPeriod %q is not a known period", s.DefaultPeriod)
	}
	return nil
}

// SettingsHolder serves the current Settings and swaps them when the file
// changes on disk.
type SettingsHolder struct {
	current atomic.Value // holds Settings
}

// NewStaticSettings holds fixed settings; used when no file is watched.
func NewStaticSettings(s Settings) *SettingsHolder {
	h := &SettingsHolder{}
	h.current.Store(s)
	return h
}

// NewSettingsHolder reads dashboard.yml from path, or from ./ and
// /etc/biomax when path is empty. Missing files fall back to defaults; a
// file that exists is watched and reloaded on change.
func NewSettingsHolder(path string, logger *zap.Logger) (*SettingsHolder, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("dashboard")
		v.SetConfigType("yml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/biomax")
	}

	v.SetEnvPrefix("BIOMAX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setSettingsDefaults(v)

	found := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read dashboard settings: %w", err)
		}
		found = false
		logger.Info("dashboard settings file not found, using defaults")
	}

	var s Settings
	if err := v.UnmarshalKey("dashboard", &s); err != nil {
		return nil, fmt.Errorf("decode dashboard settings: %w", err)
	}
	if err := validateSettings(s); err != nil {
		return nil, err
	}

	holder := NewStaticSettings(s)
	if !found {
		return holder, nil
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		var updated Settings
		if err := v.UnmarshalKey("dashboard", &updated); err != nil {
			logger.Error("dashboard settings reload failed", zap.Error(err))
			return
		}
		if err := validateSettings(updated); err != nil {
			logger.Warn("invalid dashboard settings ignored", zap.Error(err))
			return
		}
		holder.current.Store(updated)
		logger.Info("dashboard settings reloaded", zap.String("file", e.Name))
	})
	v.WatchConfig()

	return holder, nil
}

func setSettingsDefaults(v *viper.Viper) {
	d := DefaultSettings()
	v.SetDefault("dashboard.topN", d.TopN)
	v.SetDefault("dashboard.dailyWindowDays", d.DailyWindowDays)
	v.SetDefault("dashboard.horizontalThreshold", d.HorizontalThreshold)
	v.SetDefault("dashboard.defaultPeriod", d.DefaultPeriod)
	v.SetDefault("dashboard.currencyMarker", d.CurrencyMarker)
	v.SetDefault("dashboard.donutHole", d.DonutHole)
	v.SetDefault("dashboard.colors.inbound", d.Colors.Inbound)
	v.SetDefault("dashboard.colors.outbound", d.Colors.Outbound)
	v.SetDefault("dashboard.titles.productRanking", d.Titles.ProductRanking)
	v.SetDefault("dashboard.titles.supplierRanking", d.Titles.SupplierRanking)
	v.SetDefault("dashboard.titles.dailyMovements", d.Titles.DailyMovements)
	v.SetDefault("dashboard.titles.productShare", d.Titles.ProductShare)
	v.SetDefault("dashboard.titles.customerRanking", d.Titles.CustomerRanking)
	v.SetDefault("dashboard.titles.billingByDay", d.Titles.BillingByDay)
	v.SetDefault("dashboard.titles.movementTable", d.Titles.MovementTable)
	v.SetDefault("dashboard.titles.invoiceTable", d.Titles.InvoiceTable)
}

// Get returns the current settings.
func (h *SettingsHolder) Get() Settings {
	return h.current.Load().(Settings)
}
