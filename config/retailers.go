package config

import (
	"fmt"
	"os"
	"regexp"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"pricewatch/models"
)

// rawRetailer is the YAML shape of one retailer entry. Unknown fields are
// rejected at load time so typos fail fast instead of silently disabling
// thresholds deep inside a run.
type rawRetailer struct {
	Name         string   `yaml:"name"`
	URL          string   `yaml:"url"`
	DesiredPrice *float64 `yaml:"desired_price"`
	MustMatch    string   `yaml:"must_match"`
	Render       bool     `yaml:"render"`
}

type retailersFile struct {
	Retailers []rawRetailer `yaml:"retailers"`
}

// LoadRetailers reads and validates the retailer list. Order in the file
// is the order retailers are checked and events are reported.
func LoadRetailers(path string) ([]models.Retailer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open retailers file: %v", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var doc retailersFile
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse retailers file: %v", err)
	}
	if len(doc.Retailers) == 0 {
		return nil, fmt.Errorf("retailers file %s has no retailers", path)
	}

	seen := make(map[string]bool, len(doc.Retailers))
	retailers := make([]models.Retailer, 0, len(doc.Retailers))
	for i, raw := range doc.Retailers {
		r, err := buildRetailer(raw)
		if err != nil {
			return nil, fmt.Errorf("retailer %d: %v", i+1, err)
		}
		if seen[r.Name] {
			return nil, fmt.Errorf("duplicate retailer name %q", r.Name)
		}
		seen[r.Name] = true
		retailers = append(retailers, r)
	}
	return retailers, nil
}

func buildRetailer(raw rawRetailer) (models.Retailer, error) {
	if raw.Name == "" {
		return models.Retailer{}, fmt.Errorf("name is required")
	}
	if raw.URL == "" {
		return models.Retailer{}, fmt.Errorf("url is required for %q", raw.Name)
	}

	r := models.Retailer{
		Name:      raw.Name,
		URL:       raw.URL,
		MustMatch: raw.MustMatch,
		Render:    raw.Render,
	}

	if raw.DesiredPrice != nil {
		p := decimal.NewFromFloat(*raw.DesiredPrice).Round(2)
		if !p.IsPositive() {
			return models.Retailer{}, fmt.Errorf("desired_price for %q must be positive", raw.Name)
		}
		r.DesiredPrice = decimal.NewNullDecimal(p)
	}

	if raw.MustMatch != "" {
		if _, err := regexp.Compile("(?i)" + raw.MustMatch); err != nil {
			return models.Retailer{}, fmt.Errorf("must_match for %q does not compile: %v", raw.Name, err)
		}
	}

	return r, nil
}
