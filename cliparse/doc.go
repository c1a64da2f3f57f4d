// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

The cobra entry point binds the same flags onto its own flag set and calls
Resolve once cobra has parsed them:

	cliparse.BindFlags(cmd.PersistentFlags(), &cfg)
	cfg, err = cliparse.Resolve(cfg)

# Config Fields

  - Port: Server listen port (default: 5000)
  - DatabaseURL: PostgreSQL URL or SQLite DSN (required)
  - DatabaseType: postgres or sqlite (inferred from the URL when empty)
  - SecretKey: Session cookie signing key (required)
  - HashIterations: PBKDF2 iterations for new hashes (default: 600000)
  - LogLevel: slog level name (default: info)
  - EnvFile: dotenv file read before the environment (default: .env)

# CLI Flags

	-p, --port            Server port
	-d, --database-url    Database URL
	-t, --database-type   Database type
	--secret-key          Session signing key
	--hash-iterations     PBKDF2 iterations
	--log-level           Log level
	--env-file            Dotenv file

# Environment Variables

Flags fall back to environment variables:

	PORT                     → -p
	DATABASE_URL             → -d
	DATABASE_TYPE            → -t
	SECRET_KEY               → --secret-key
	PASSWORD_HASH_ITERATIONS → --hash-iterations
	LOG_LEVEL                → --log-level

CLI flags take precedence over environment variables, and variables already
present in the environment take precedence over the dotenv file. A missing
dotenv file is not an error.

# Validation

Resolve returns an error if required values are missing or malformed:

  - DATABASE_URL must be provided
  - SECRET_KEY must be provided
  - DATABASE_TYPE must be postgres or sqlite
*/
package cliparse
