package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type FeedSource struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

type feedSourcesFile struct {
	Feeds []FeedSource `yaml:"feeds"`
}

// LoadFeedSources reads the YAML feed list used when an ingest request
// names no URL. A missing path yields an empty list, not an error.
func LoadFeedSources(path string) ([]FeedSource, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read feed sources: %w", err)
	}

	var f feedSourcesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse feed sources: %w", err)
	}

	sources := make([]FeedSource, 0, len(f.Feeds))
	for _, s := range f.Feeds {
		if s.URL == "" {
			continue
		}
		sources = append(sources, s)
	}
	return sources, nil
}
