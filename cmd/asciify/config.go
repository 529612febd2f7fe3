package main

import (
	"os"
	"path/filepath"
	"strings"
)

// findUserConfig returns the value of --config if present in args.
func findUserConfig(args []string) string {
	for i, a := range args {
		if v, ok := strings.CutPrefix(a, "--config="); ok {
			return v
		}
		if a == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

// configCandidatePaths lists configuration files by format. An explicit
// file is routed by its extension and replaces the defaults; otherwise the
// user configuration directory is searched.
func configCandidatePaths(userCfg string) (jsonPaths, yamlPaths, tomlPaths []string) {
	if userCfg != "" {
		switch strings.ToLower(filepath.Ext(userCfg)) {
		case ".yaml", ".yml":
			return nil, []string{userCfg}, nil
		case ".toml":
			return nil, nil, []string{userCfg}
		default:
			return []string{userCfg}, nil, nil
		}
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, nil, nil
	}
	base := filepath.Join(dir, "asciify", "config")
	return []string{base + ".json"},
		[]string{base + ".yaml", base + ".yml"},
		[]string{base + ".toml"}
}
