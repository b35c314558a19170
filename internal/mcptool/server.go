package mcptool

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ppiankov/gonogo/internal/pipeline"
)

const instructions = `gonogo scores funding proposals against a fixed rubric and returns a
GO / PROCEED WITH CAUTION / NO-GO decision with a short narrative.
Call "rubric" first to see the sections and their maximum scores, then
"assess_proposal" with one total per section.`

// NewServer creates the MCP server with every tool registered
func NewServer(p *pipeline.Pipeline, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"gonogo",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	assessTool := NewAssessTool(p)
	s.AddTool(assessTool.Definition(), assessTool.Handle)

	rubricTool := NewRubricTool(p)
	s.AddTool(rubricTool.Definition(), rubricTool.Handle)

	return s
}

// Serve runs the server on stdin/stdout until the client disconnects
func Serve(p *pipeline.Pipeline, version string) error {
	return server.ServeStdio(NewServer(p, version))
}
