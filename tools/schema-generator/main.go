package main

import (
	"os"
	"path/filepath"

	"github.com/grovetools/cellconsole/config"
	"github.com/grovetools/cellconsole/logging"
)

func main() {
	logger := logging.NewLogger("schema-generator")

	schemaBytes, err := config.GenerateSchema()
	if err != nil {
		logger.Fatalf("Error generating schema: %v", err)
	}

	outputDir := "schema"
	if len(os.Args) > 1 {
		outputDir = os.Args[1]
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		logger.Fatalf("Error creating schema directory: %v", err)
	}

	outputPath := filepath.Join(outputDir, "cellconsole.schema.json")
	if err := os.WriteFile(outputPath, append(schemaBytes, '\n'), 0644); err != nil {
		logger.Fatalf("Error writing schema file: %v", err)
	}

	logger.WithField("path", outputPath).Info("Generated configuration schema")
}
