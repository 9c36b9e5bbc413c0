// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# CLI Flags

	-p               Server port
	-t               Database type (sqlite, postgres)
	-d               Database URL or SQLite path
	-base-url        Public base URL for vote links
	-admin-salt      Admin key salt
	-webhook         Slack webhook URL
	-summarizer-url  Summary generation endpoint
	-env-file        Dotenv file (default .env)

# Environment Variables

Flags fall back to environment variables, which may be set in the dotenv
file. Values already in the environment win over the file.

	PORT, DATABASE_TYPE, DATABASE_URL, DATA_DIR, PUBLIC_BASE_URL,
	ADMIN_KEY_SALT, SLACK_WEBHOOK_URL, SUMMARIZER_URL, SUMMARIZER_PROMPT
*/
package cliparse
