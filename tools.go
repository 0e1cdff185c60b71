//go:build tools

package tools

import (
	_ "github.com/nikolaydubina/go-cover-treemap"
)
