// Package cliconfig loads MapperScript CLI inputs - template registries and
// record snapshots - through Viper, so the same code accepts YAML, JSON or
// TOML files based on extension alone.
package cliconfig

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/tuliprox/mapperscript/internal/mapperscript"
)

// templateFileEntry mirrors one entry of a template registry file:
//
//	us_intro:
//	  single: "US: TNT "
//	quality_aliases:
//	  multi: ["HD", "FHD"]
type templateFileEntry struct {
	Single string   `mapstructure:"single"`
	Multi  []string `mapstructure:"multi"`
}

// LoadTemplateRegistry reads path (any format Viper recognizes by
// extension) into a *mapperscript.TemplateRegistry. An empty path yields an
// empty, always-miss registry.
func LoadTemplateRegistry(path string) (*mapperscript.TemplateRegistry, error) {
	if path == "" {
		return mapperscript.NewTemplateRegistry(nil), nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("loading template registry %s: %w", path, err)
	}

	var raw map[string]templateFileEntry
	if err := v.Unmarshal(&raw); err != nil {
		return nil, fmt.Errorf("decoding template registry %s: %w", path, err)
	}

	entries := make([]mapperscript.TemplateEntry, 0, len(raw))
	for name, entry := range raw {
		if len(entry.Multi) > 0 {
			entries = append(entries, mapperscript.TemplateEntry{
				Name:  name,
				Value: mapperscript.TemplateValue{IsMulti: true, Multi: entry.Multi},
			})
			continue
		}
		entries = append(entries, mapperscript.TemplateEntry{
			Name:  name,
			Value: mapperscript.TemplateValue{Single: entry.Single},
		})
	}
	return mapperscript.NewTemplateRegistry(entries), nil
}

// LoadRecord reads path into a flat field map suitable for
// mapperscript.NewRecordAccessor.
func LoadRecord(path string) (map[string]string, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("loading record %s: %w", path, err)
	}

	var raw map[string]string
	if err := v.Unmarshal(&raw); err != nil {
		return nil, fmt.Errorf("decoding record %s: %w", path, err)
	}
	return raw, nil
}
