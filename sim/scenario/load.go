package scenario

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	baseConfigFile = "base_config.yaml"
	scenariosDir   = "scenarios"
)

// Load reads the base configuration from configDir and, if scenarioName is
// non-empty, deep-merges scenarios/<name>.yaml over it (scenario wins per
// key; unspecified keys fall back to base). The merge operates on the raw
// YAML trees so a scenario can override a single nested value without
// restating its section.
func Load(configDir, scenarioName string) (*Document, error) {
	basePath := filepath.Join(configDir, baseConfigFile)
	base, err := readTree(basePath)
	if err != nil {
		return nil, err
	}
	logrus.Infof("loaded base configuration from %s", basePath)

	if scenarioName != "" {
		scenarioPath := filepath.Join(configDir, scenariosDir, scenarioName+".yaml")
		overlay, err := readTree(scenarioPath)
		if err != nil {
			return nil, err
		}
		deepMerge(base, overlay)
		logrus.Infof("applied scenario overrides from %s", scenarioPath)
	}

	merged, err := yaml.Marshal(base)
	if err != nil {
		return nil, fmt.Errorf("re-encoding merged configuration: %w", err)
	}
	var doc Document
	if err := yaml.Unmarshal(merged, &doc); err != nil {
		return nil, fmt.Errorf("decoding merged configuration: %w", err)
	}
	return &doc, nil
}

// ListScenarios returns the scenario names available under configDir,
// sorted. A missing scenarios directory is an empty list, not an error.
func ListScenarios(configDir string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(configDir, scenariosDir))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names, nil
}

func readTree(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	tree := make(map[string]any)
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return tree, nil
}

// deepMerge recursively overlays src onto dst. Only string-keyed nested maps
// merge key-by-key; any other value replaces the base value wholesale. That
// covers lists and maps with non-string YAML keys: the integer-keyed month
// maps under seasonal_factors decode as map[any]any, so a scenario that
// overrides one month replaces that flow's entire month map.
func deepMerge(dst, src map[string]any) {
	for key, val := range src {
		if srcMap, ok := val.(map[string]any); ok {
			if dstMap, ok := dst[key].(map[string]any); ok {
				deepMerge(dstMap, srcMap)
				continue
			}
		}
		dst[key] = val
	}
}
