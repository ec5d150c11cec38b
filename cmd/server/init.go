package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize testforge with default configuration and directory structure",
	Long: `Creates the default configuration file (config.yaml) and data directory.

This command will:
  - Create config.yaml with default settings
  - Create data/ directory for the suite archive

If config.yaml already exists, it will not be overwritten unless --force is used.`,
	RunE: runInit,
}

var (
	initForce bool
	initPath  string
)

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite existing config file")
	initCmd.Flags().StringVarP(&initPath, "path", "p", ".", "Path where to initialize (default: current directory)")
}

func runInit(cmd *cobra.Command, args []string) error {
	absPath, err := filepath.Abs(initPath)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	configFile := filepath.Join(absPath, "config.yaml")
	dataDir := filepath.Join(absPath, "data")

	// Check if config already exists
	if _, err := os.Stat(configFile); err == nil && !initForce {
		return fmt.Errorf("config.yaml already exists. Use --force to overwrite")
	}

	if err := os.MkdirAll(filepath.Join(dataDir, "suites"), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	fmt.Printf("Created directory: %s\n", dataDir)

	// Create default config
	config := map[string]interface{}{
		"server": map[string]interface{}{
			"port": 8080,
			"host": "0.0.0.0",
		},
		"generator": map[string]interface{}{
			"apiKey":          "",
			"url":             "",
			"temperature":     0.2,
			"maxOutputTokens": 8192,
			"timeout":         "120s",
			"testTimeout":     "30s",
		},
		"storage": map[string]interface{}{
			"type": "file",
			"path": "./data",
		},
		"tracing": map[string]interface{}{
			"maxTraces": 1000,
		},
		"logging": map[string]interface{}{
			"level":  "info",
			"format": "json",
		},
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to generate config: %w", err)
	}

	header := `# TestForge Configuration
# The provider credential may also be supplied via GEMINI_API_KEY.

`
	if err := os.WriteFile(configFile, []byte(header+string(data)), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	fmt.Printf("Created config file: %s\n", configFile)

	fmt.Println()
	fmt.Println("Initialization complete! You can now start the server with:")
	fmt.Println()
	fmt.Printf("  cd %s\n", absPath)
	fmt.Println("  testforge serve")
	fmt.Println()

	return nil
}
