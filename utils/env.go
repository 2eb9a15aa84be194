package utils

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv loads environment variables from a .env file. Variables already
// present in the process environment are left untouched.
func LoadEnv(filename string) error {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		// .env file doesn't exist, which is okay
		return nil
	}

	if err := godotenv.Load(filename); err != nil {
		return fmt.Errorf("error loading %s file: %w", filename, err)
	}

	log.Printf("Loaded environment variables from %s", filename)
	return nil
}

// LoadEnvWithFallback loads every .env file found in the standard locations,
// earlier files taking precedence.
func LoadEnvWithFallback() error {
	return loadEnvFiles([]string{
		".env",        // Current directory
		".env.local",  // Local override
		"config/.env", // Config directory
	})
}

// loadEnvFiles loads each existing file and keeps going past failures. The
// returned error joins every file that exists but could not be loaded.
func loadEnvFiles(locations []string) error {
	var errs []error
	for _, location := range locations {
		if err := LoadEnv(location); err != nil {
			log.Printf("Could not load %s: %v", location, err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
