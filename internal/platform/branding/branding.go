// Package branding centralizes user-facing product naming.
package branding

// AppName is the product name shown to users and MCP clients.
const AppName = "Puzzlebox"
