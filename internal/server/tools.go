package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// pipelineProperty describes the inline pipeline argument shared by the
// augment_* tools.
func pipelineProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": `Pipeline object: {"seed": <optional uint>, "augmentors": [{"class": "<Name>", "config": {...}}, ...]}. Use augment_list to see classes and their config fields.`,
		"properties": map[string]interface{}{
			"seed": map[string]interface{}{
				"type":        "integer",
				"description": "Fixes the random generators for this call so the result is reproducible",
			},
			"augmentors": map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"type": "object"},
			},
		},
		"required": []string{"augmentors"},
	}
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and the array shape augmentors will see.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Registry
		{
			Name:        "augment_list",
			Description: "List the registered augmentor classes with their config fields, types and defaults.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},

		// Pipelines
		{
			Name:        "augment_describe",
			Description: "Build a pipeline and return its canonical serialized form. Use this to validate a pipeline before applying it.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"pipeline": pipelineProperty(),
				},
				"required": []string{"pipeline"},
			},
		},
		{
			Name:        "augment_apply",
			Description: "Apply a pipeline to an image and return the result as base64-encoded PNG. Points given in pixel coordinates are mapped through the same augmentation.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":     pathProperty(),
					"pipeline": pipelineProperty(),
					"points": map[string]interface{}{
						"type":        "array",
						"description": "Points to map through the augmentation",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"x": map[string]interface{}{"type": "number"},
								"y": map[string]interface{}{"type": "number"},
							},
							"required": []string{"x", "y"},
						},
					},
					"gray": map[string]interface{}{
						"type":        "boolean",
						"description": "Load the image as a single-channel array",
						"default":     false,
					},
					"draw_points": map[string]interface{}{
						"type":        "boolean",
						"description": "Mark the mapped points on the returned image",
						"default":     false,
					},
					"point_color": map[string]interface{}{
						"type":        "string",
						"description": "Marker color as hex (e.g., '#FF0000')",
						"default":     "#FF0000",
					},
				},
				"required": []string{"path", "pipeline"},
			},
		},
		{
			Name:        "augment_replay",
			Description: "Sample one augmentation for an image and replay the same parameters on a paired mask. Returns both as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"mask_path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the mask, loaded as a single-channel array",
					},
					"pipeline": pipelineProperty(),
				},
				"required": []string{"path", "mask_path", "pipeline"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
