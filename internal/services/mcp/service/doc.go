// Package service wires MCP protocol transport to catalog domain handlers.
//
// It is the transport adapter layer: the package knows how to run MCP over
// stdio or HTTP and delegates business meaning to domain handlers in the MCP
// package.
package service
