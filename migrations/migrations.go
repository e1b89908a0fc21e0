package migrations

import "embed"

// FS embeds the SQL migration files in this directory. The
// golang-migrate library reads them through the iofs driver.
//
//go:embed *.sql
var FS embed.FS

const Version = 1
