// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migrations embeds the SQL schema so the API binary can migrate
// without the source tree.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
