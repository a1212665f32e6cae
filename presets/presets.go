// Package presets ships the named processor configurations used by the
// cache-warmup experiments, from an ideal zero-overhead CPU to L2/L3 cache
// hierarchies with long warmup curves.
//
// No preset combines the warmup curve with Pfair scheduling; the Pfair
// quantum model leaves time-varying execution rates ill-defined.
package presets

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/ragibson/real-time-simulator/processor"
)

//go:embed presets.yaml
var presetsYAML []byte

type presetEntry struct {
	ScheduleCost    int64   `yaml:"schedule_cost"`
	DispatchCost    int64   `yaml:"dispatch_cost"`
	PreemptionCost  int64   `yaml:"preemption_cost"`
	CacheWarmupTime *int64  `yaml:"cache_warmup_time"`
	WarmCacheRate   float64 `yaml:"warm_cache_rate"`
}

type presetFile struct {
	Presets map[string]presetEntry `yaml:"presets"`
}

var (
	loadOnce sync.Once
	loaded   map[string]processor.Params
	loadErr  error
)

func load() (map[string]processor.Params, error) {
	loadOnce.Do(func() {
		var file presetFile
		if err := yaml.Unmarshal(presetsYAML, &file); err != nil {
			loadErr = fmt.Errorf("parsing embedded presets: %w", err)
			return
		}
		loaded = make(map[string]processor.Params, len(file.Presets))
		for name, entry := range file.Presets {
			params := processor.Params{
				ScheduleCost:   entry.ScheduleCost,
				DispatchCost:   entry.DispatchCost,
				PreemptionCost: entry.PreemptionCost,
				WarmCacheRate:  entry.WarmCacheRate,
			}
			if entry.CacheWarmupTime != nil {
				params.CacheWarmupTime = *entry.CacheWarmupTime
			}
			loaded[name] = params
		}
	})
	return loaded, loadErr
}

// Load resolves a preset name to processor parameters.
func Load(name string) (processor.Params, error) {
	presets, err := load()
	if err != nil {
		return processor.Params{}, err
	}
	params, ok := presets[name]
	if !ok {
		return processor.Params{}, fmt.Errorf("unknown processor preset %q", name)
	}
	return params, nil
}

// Names lists the available preset names in sorted order.
func Names() ([]string, error) {
	presets, err := load()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
