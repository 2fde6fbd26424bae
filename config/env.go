package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
)

const DefaultEnvFile = ".env"

// LoadEnv loads secrets and endpoints from dotenv files into the process
// environment. Variables already set in the environment win. Without
// arguments the default .env is loaded if it exists; explicitly named files
// must exist.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		err := godotenv.Load(DefaultEnvFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("couldn't load %s: %w", DefaultEnvFile, err)
		}
		return nil
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("couldn't load env files %v: %w", files, err)
	}
	return nil
}
