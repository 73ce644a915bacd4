// Package migrations embeds the instrument table DDL for each dialect.
package migrations

import "embed"

// PostgresFS holds goose migrations.
//
//go:embed postgres/*.sql
var PostgresFS embed.FS

// OracleFS holds SQL*Plus style scripts split on "/".
//
//go:embed oracle/*.sql
var OracleFS embed.FS
