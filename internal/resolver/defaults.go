package resolver

import (
	_ "embed"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type cityDefault struct {
	Match       []string `yaml:"match"`
	PostalCodes []string `yaml:"postal_codes"`
}

type defaultsTable struct {
	Cities  []cityDefault `yaml:"cities"`
	Default []string      `yaml:"default"`
}

var cityDefaults = mustLoadDefaults()

func mustLoadDefaults() defaultsTable {
	var table defaultsTable
	if err := yaml.Unmarshal(defaultsYAML, &table); err != nil {
		panic("invalid embedded defaults table: " + err.Error())
	}
	if len(table.Default) == 0 {
		panic("embedded defaults table has no default set")
	}
	return table
}

// defaultPostalCodes is the terminal resolver rule. It matches known city
// names by substring against the lower-cased input and falls back to the
// generic multi-city set, so it can never return an empty result.
func defaultPostalCodes(locationText string) []string {
	lowered := strings.ToLower(locationText)
	for _, city := range cityDefaults.Cities {
		for _, needle := range city.Match {
			if strings.Contains(lowered, needle) {
				return append([]string(nil), city.PostalCodes...)
			}
		}
	}
	return append([]string(nil), cityDefaults.Default...)
}
