package service

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	catalog "github.com/puzzlebox-games/puzzlebox/internal/services/catalog/domain"
	"github.com/puzzlebox-games/puzzlebox/internal/services/mcp/domain"
)

// registerCatalogTools binds catalog tools to the shared catalog service.
func registerCatalogTools(server *mcp.Server, svc *catalog.Service) {
	mcp.AddTool(server, domain.PuzzleGetTool(), domain.PuzzleGetHandler(svc))
	mcp.AddTool(server, domain.PuzzleListTool(), domain.PuzzleListHandler(svc))
	mcp.AddTool(server, domain.DailyPuzzleTool(), domain.DailyPuzzleHandler(svc))
	mcp.AddTool(server, domain.PuzzleImportTool(), domain.PuzzleImportHandler(svc))
}

// registerEngineTools binds engine tools that carry no storage dependency.
func registerEngineTools(server *mcp.Server) {
	mcp.AddTool(server, domain.ProbeTool(), domain.ProbeHandler())
}

// registerCatalogResources binds readable catalog resources.
func registerCatalogResources(server *mcp.Server, svc *catalog.Service) {
	server.AddResource(domain.DailyBoardResource(), domain.DailyBoardResourceHandler(svc))
	server.AddResourceTemplate(domain.CatalogResourceTemplate(), domain.CatalogResourceHandler(svc))
}
