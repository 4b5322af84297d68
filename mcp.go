package scout

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/scout/kit"
)

// RegisterMCP registers all scout tools on an MCP server.
func (svc *Service) RegisterMCP(srv *mcp.Server) {
	svc.registerHarvest(srv)
	svc.registerExtract(srv)
	svc.registerExtractDay(srv)
	svc.registerPapers(srv)
	svc.registerSearch(srv)
	svc.registerFigures(srv)
	svc.registerRuns(srv)
	svc.registerStats(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// registerTool wires an endpoint through the shared middleware chain before
// handing it to the MCP adapter.
func (svc *Service) registerTool(srv *mcp.Server, tool *mcp.Tool, endpoint kit.Endpoint, decode func(*mcp.CallToolRequest) (*kit.MCPDecodeResult, error)) {
	wrap := kit.Chain(kit.Recovery(svc.logger), kit.Logging(svc.logger))
	kit.RegisterMCPTool(srv, tool, wrap(endpoint), decode)
}

func parseDay(day string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: day %q (want YYYY-MM-DD)", ErrInvalidInput, day)
	}
	return t, nil
}

// --- Harvest ---

func (svc *Service) registerHarvest(srv *mcp.Server) {
	type req struct {
		Day string `json:"day"`
	}

	tool := &mcp.Tool{
		Name:        "scout_harvest",
		Description: "Harvest arXiv paper metadata submitted on one day into the ledger and database",
		InputSchema: inputSchema(map[string]any{
			"day": map[string]any{"type": "string", "description": "Submission day, YYYY-MM-DD (GMT)"},
		}, []string{"day"}),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		p := r.(*req)
		day, err := parseDay(p.Day)
		if err != nil {
			return nil, err
		}
		return svc.HarvestDay(ctx, day)
	}

	decode := func(r *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var p req
		if err := json.Unmarshal(r.Params.Arguments, &p); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &p}, nil
	}

	svc.registerTool(srv, tool, endpoint, decode)
}

// --- Extraction ---

func (svc *Service) registerExtract(srv *mcp.Server) {
	type req struct {
		ArxivID   string `json:"arxiv_id"`
		Published string `json:"published"`
		Title     string `json:"title"`
	}

	tool := &mcp.Tool{
		Name:        "scout_extract",
		Description: "Download a paper's LaTeX source and extract its figures",
		InputSchema: inputSchema(map[string]any{
			"arxiv_id":  map[string]any{"type": "string", "description": "arXiv identifier, e.g. 2401.12345"},
			"published": map[string]any{"type": "string", "description": "Published day YYYY-MM-DD; taken from the database when omitted"},
			"title":     map[string]any{"type": "string", "description": "Paper title for the digest"},
		}, []string{"arxiv_id"}),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		p := r.(*req)
		if p.Published == "" {
			return svc.ExtractPaper(ctx, p.ArxivID)
		}
		return svc.Extract(ctx, p.ArxivID, p.Published, p.Title)
	}

	decode := func(r *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var p req
		if err := json.Unmarshal(r.Params.Arguments, &p); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &p}, nil
	}

	svc.registerTool(srv, tool, endpoint, decode)
}

func (svc *Service) registerExtractDay(srv *mcp.Server) {
	type req struct {
		Day string `json:"day"`
	}

	tool := &mcp.Tool{
		Name:        "scout_extract_day",
		Description: "Run figure extraction for every paper harvested on one day",
		InputSchema: inputSchema(map[string]any{
			"day": map[string]any{"type": "string", "description": "Published day, YYYY-MM-DD"},
		}, []string{"day"}),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		p := r.(*req)
		day, err := parseDay(p.Day)
		if err != nil {
			return nil, err
		}
		return svc.ExtractDay(ctx, day)
	}

	decode := func(r *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var p req
		if err := json.Unmarshal(r.Params.Arguments, &p); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &p}, nil
	}

	svc.registerTool(srv, tool, endpoint, decode)
}

// --- Reads ---

func (svc *Service) registerPapers(srv *mcp.Server) {
	type req struct {
		Day   string `json:"day"`
		Limit int    `json:"limit"`
	}

	tool := &mcp.Tool{
		Name:        "scout_papers",
		Description: "List harvested papers, optionally restricted to one published day",
		InputSchema: inputSchema(map[string]any{
			"day":   map[string]any{"type": "string", "description": "Published day YYYY-MM-DD; all days when omitted"},
			"limit": map[string]any{"type": "integer", "description": "Maximum rows returned"},
		}, nil),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		p := r.(*req)
		if p.Day != "" {
			return svc.PapersByDay(ctx, p.Day)
		}
		return svc.Papers(ctx, p.Limit)
	}

	decode := func(r *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var p req
		if err := json.Unmarshal(r.Params.Arguments, &p); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &p}, nil
	}

	svc.registerTool(srv, tool, endpoint, decode)
}

func (svc *Service) registerSearch(srv *mcp.Server) {
	type req struct {
		Query string `json:"query"`
		Limit int    `json:"limit"`
	}

	tool := &mcp.Tool{
		Name:        "scout_search",
		Description: "Full-text search over harvested paper titles and abstracts",
		InputSchema: inputSchema(map[string]any{
			"query": map[string]any{"type": "string", "description": "FTS5 query string"},
			"limit": map[string]any{"type": "integer", "description": "Maximum hits returned"},
		}, []string{"query"}),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		p := r.(*req)
		return svc.Search(ctx, p.Query, p.Limit)
	}

	decode := func(r *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var p req
		if err := json.Unmarshal(r.Params.Arguments, &p); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &p}, nil
	}

	svc.registerTool(srv, tool, endpoint, decode)
}

func (svc *Service) registerFigures(srv *mcp.Server) {
	type req struct {
		ArxivID string `json:"arxiv_id"`
	}

	tool := &mcp.Tool{
		Name:        "scout_figures",
		Description: "List the figures saved for one paper",
		InputSchema: inputSchema(map[string]any{
			"arxiv_id": map[string]any{"type": "string", "description": "arXiv identifier"},
		}, []string{"arxiv_id"}),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		p := r.(*req)
		return svc.Figures(ctx, p.ArxivID)
	}

	decode := func(r *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var p req
		if err := json.Unmarshal(r.Params.Arguments, &p); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &p}, nil
	}

	svc.registerTool(srv, tool, endpoint, decode)
}

func (svc *Service) registerRuns(srv *mcp.Server) {
	type req struct {
		RunID string `json:"run_id"`
		Limit int    `json:"limit"`
	}

	tool := &mcp.Tool{
		Name:        "scout_runs",
		Description: "List extraction runs, or fetch one run with its figures",
		InputSchema: inputSchema(map[string]any{
			"run_id": map[string]any{"type": "string", "description": "Run ID; lists recent runs when omitted"},
			"limit":  map[string]any{"type": "integer", "description": "Maximum rows returned"},
		}, nil),
	}

	type runDetail struct {
		Run     *Run      `json:"run"`
		Figures []*Figure `json:"figures"`
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		p := r.(*req)
		if p.RunID == "" {
			return svc.Runs(ctx, p.Limit)
		}
		run, err := svc.Run(ctx, p.RunID)
		if err != nil {
			return nil, err
		}
		figs, err := svc.RunFigures(ctx, p.RunID)
		if err != nil {
			return nil, err
		}
		return &runDetail{Run: run, Figures: figs}, nil
	}

	decode := func(r *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var p req
		if err := json.Unmarshal(r.Params.Arguments, &p); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &p}, nil
	}

	svc.registerTool(srv, tool, endpoint, decode)
}

func (svc *Service) registerStats(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "scout_stats",
		Description: "Counts of harvested papers, extraction runs and saved figures",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	endpoint := func(ctx context.Context, _ any) (any, error) {
		return svc.Stats(ctx)
	}

	decode := func(r *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: struct{}{}}, nil
	}

	svc.registerTool(srv, tool, endpoint, decode)
}
