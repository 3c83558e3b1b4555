package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/google/uuid"

	"github.com/nailbrother/muzei/internal/analysis"
	"github.com/nailbrother/muzei/internal/imagedec"
	"github.com/nailbrother/muzei/internal/region"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "region_open", "region_decode").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "region_open":
		return s.handleRegionOpen(args)
	case "region_dimensions":
		return s.handleRegionDimensions(args)
	case "region_decode":
		return s.handleRegionDecode(args)
	case "region_stats":
		return s.handleRegionStats(args)
	case "region_close":
		return s.handleRegionClose(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// loader looks up an open loader by id.
func (s *Server) loader(id string) (*region.Loader, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.loaders[id]
	if !ok {
		return nil, fmt.Errorf("unknown loader id: %s", id)
	}
	return l, nil
}

// === Loader Lifecycle Handlers ===

type regionOpenArgs struct {
	Path     string `json:"path"`
	Rotation int    `json:"rotation"`
}

// RegionOpenResult describes a freshly opened loader.
type RegionOpenResult struct {
	ID       string `json:"id"`       // Opaque loader id
	Width    int    `json:"width"`    // Logical width in pixels
	Height   int    `json:"height"`   // Logical height in pixels
	Rotation int    `json:"rotation"` // Clockwise rotation in degrees
}

func (s *Server) handleRegionOpen(args json.RawMessage) (interface{}, error) {
	var a regionOpenArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	f, err := os.Open(a.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	l, err := imagedec.OpenLoader(f, region.Rotation(a.Rotation))
	if err != nil {
		f.Close()
		return nil, err
	}

	id := uuid.NewString()
	s.mu.Lock()
	s.loaders[id] = l
	s.mu.Unlock()

	return &RegionOpenResult{
		ID:       id,
		Width:    l.Width(),
		Height:   l.Height(),
		Rotation: a.Rotation,
	}, nil
}

type regionIDArgs struct {
	ID string `json:"id"`
}

// RegionDimensionsResult contains the logical dimensions of a loader.
type RegionDimensionsResult struct {
	Width    int `json:"width"`    // Logical width in pixels
	Height   int `json:"height"`   // Logical height in pixels
	Rotation int `json:"rotation"` // Clockwise rotation in degrees
}

func (s *Server) handleRegionDimensions(args json.RawMessage) (interface{}, error) {
	var a regionIDArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	l, err := s.loader(a.ID)
	if err != nil {
		return nil, err
	}
	return &RegionDimensionsResult{
		Width:    l.Width(),
		Height:   l.Height(),
		Rotation: int(l.Rotation()),
	}, nil
}

// RegionCloseResult acknowledges a region_close call.
type RegionCloseResult struct {
	Closed bool `json:"closed"`
}

func (s *Server) handleRegionClose(args json.RawMessage) (interface{}, error) {
	var a regionIDArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	s.mu.Lock()
	l, ok := s.loaders[a.ID]
	delete(s.loaders, a.ID)
	s.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("unknown loader id: %s", a.ID)
	}
	l.Destroy()
	return &RegionCloseResult{Closed: true}, nil
}

// === Region Operation Handlers ===

type regionDecodeArgs struct {
	ID         string `json:"id"`
	X1         int    `json:"x1"`
	Y1         int    `json:"y1"`
	X2         int    `json:"x2"`
	Y2         int    `json:"y2"`
	SampleSize int    `json:"sample_size"`
}

// RegionDecodeResult contains the decoded region data.
type RegionDecodeResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

func (s *Server) handleRegionDecode(args json.RawMessage) (interface{}, error) {
	var a regionDecodeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	l, err := s.loader(a.ID)
	if err != nil {
		return nil, err
	}

	bm, err := l.DecodeRegion(image.Rect(a.X1, a.Y1, a.X2, a.Y2), region.DecodeOptions{
		SampleSize: a.SampleSize,
	})
	if err != nil {
		return nil, err
	}
	defer bm.Release()

	var buf bytes.Buffer
	if err := png.Encode(&buf, bm.Image()); err != nil {
		return nil, fmt.Errorf("failed to encode region: %w", err)
	}
	return &RegionDecodeResult{
		Width:       bm.Width(),
		Height:      bm.Height(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

type regionStatsArgs struct {
	ID    string `json:"id"`
	X1    int    `json:"x1"`
	Y1    int    `json:"y1"`
	X2    int    `json:"x2"`
	Y2    int    `json:"y2"`
	Count int    `json:"count"`
}

// RegionStatsResult summarizes the colors of a logical region.
type RegionStatsResult struct {
	Width    int                       `json:"width"`
	Height   int                       `json:"height"`
	Average  analysis.ColorResult      `json:"average"`
	Dominant []analysis.ColorFrequency `json:"dominant"`
}

func (s *Server) handleRegionStats(args json.RawMessage) (interface{}, error) {
	var a regionStatsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Count <= 0 {
		a.Count = 5
	}
	l, err := s.loader(a.ID)
	if err != nil {
		return nil, err
	}

	bm, err := l.DecodeRegion(image.Rect(a.X1, a.Y1, a.X2, a.Y2), region.DecodeOptions{})
	if err != nil {
		return nil, err
	}
	defer bm.Release()
	return &RegionStatsResult{
		Width:    bm.Width(),
		Height:   bm.Height(),
		Average:  analysis.Average(bm.Image()),
		Dominant: analysis.Dominant(bm.Image(), a.Count),
	}, nil
}
