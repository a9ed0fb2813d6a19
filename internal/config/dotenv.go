// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// DotEnvFile is the dotenv file read from the working directory.
const DotEnvFile = ".env"

// LoadDotEnv reads KEY=VALUE pairs from .env (or the given files) into the
// process environment. Variables already set in the environment win. A missing
// file is not an error; a malformed one is reported on stderr and skipped.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{DotEnvFile}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			os.Stderr.WriteString("Warning: could not parse " + f + ": " + err.Error() + "\n")
		}
	}
}
