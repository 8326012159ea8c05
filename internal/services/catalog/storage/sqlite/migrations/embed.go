package migrations

import "embed"

//go:embed catalog/*.sql
var CatalogFS embed.FS
