package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/nikolayk812/storefront/internal/domain"
)

type catalogSeed struct {
	Categories []domain.Category `json:"categories"`
	Products   []domain.Product  `json:"products"`
}

// loadSeed reads the catalog seed file. An empty path yields an empty catalog.
func loadSeed(path string) (catalogSeed, error) {
	if path == "" {
		return catalogSeed{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return catalogSeed{}, fmt.Errorf("os.ReadFile: %w", err)
	}

	var seed catalogSeed
	if err := json.Unmarshal(data, &seed); err != nil {
		return catalogSeed{}, fmt.Errorf("json.Unmarshal[%s]: %w", path, err)
	}

	return seed, nil
}
