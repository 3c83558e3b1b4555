package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "region_open",
			Description: "Open an image file as a rotated region loader. Returns a loader id for subsequent region operations. Rotation is applied clockwise to the logical view.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"rotation": map[string]interface{}{
						"type":        "integer",
						"enum":        []int{0, 90, 180, 270},
						"description": "Clockwise rotation of the logical view in degrees. Default 0",
						"default":     0,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "region_dimensions",
			Description: "Get the logical (post-rotation) width and height of an open loader.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id": map[string]interface{}{
						"type":        "string",
						"description": "Loader id returned by region_open",
					},
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "region_decode",
			Description: "Decode a rectangular region of the logical view and return it as base64-encoded PNG. Coordinates are logical (post-rotation).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id": map[string]interface{}{
						"type":        "string",
						"description": "Loader id returned by region_open",
					},
					"x1": map[string]interface{}{
						"type":        "integer",
						"description": "Left edge X coordinate (0-based)",
					},
					"y1": map[string]interface{}{
						"type":        "integer",
						"description": "Top edge Y coordinate (0-based)",
					},
					"x2": map[string]interface{}{
						"type":        "integer",
						"description": "Right edge X coordinate (exclusive)",
					},
					"y2": map[string]interface{}{
						"type":        "integer",
						"description": "Bottom edge Y coordinate (exclusive)",
					},
					"sample_size": map[string]interface{}{
						"type":        "integer",
						"description": "Optional downscale factor (>= 1). Default 1",
						"default":     1,
					},
				},
				"required": []string{"id", "x1", "y1", "x2", "y2"},
			},
		},
		{
			Name:        "region_stats",
			Description: "Compute the average and dominant colors of a logical region. Useful for picking accent colors before displaying a region.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id": map[string]interface{}{
						"type":        "string",
						"description": "Loader id returned by region_open",
					},
					"x1": map[string]interface{}{
						"type":        "integer",
						"description": "Left edge X coordinate (0-based)",
					},
					"y1": map[string]interface{}{
						"type":        "integer",
						"description": "Top edge Y coordinate (0-based)",
					},
					"x2": map[string]interface{}{
						"type":        "integer",
						"description": "Right edge X coordinate (exclusive)",
					},
					"y2": map[string]interface{}{
						"type":        "integer",
						"description": "Bottom edge Y coordinate (exclusive)",
					},
					"count": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of dominant colors to return. Default 5",
						"default":     5,
					},
				},
				"required": []string{"id", "x1", "y1", "x2", "y2"},
			},
		},
		{
			Name:        "region_close",
			Description: "Destroy a loader and release its decoder and byte source. The id becomes invalid.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id": map[string]interface{}{
						"type":        "string",
						"description": "Loader id returned by region_open",
					},
				},
				"required": []string{"id"},
			},
		},
	}
}
