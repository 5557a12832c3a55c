// Package server implements an MCP (Model Context Protocol) server that
// exposes image augmentation pipelines as tools.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - image_load: Load an image and report its metadata and array shape
//   - augment_list: Registered augmentor classes with their config fields
//   - augment_describe: Build a pipeline and return its serialized form
//   - augment_apply: Run a pipeline on an image, mapping points through it
//   - augment_replay: Run a pipeline on an image and replay it on a mask
//
// Pipelines are passed inline in the same layout as JSON pipeline files:
//
//	{
//	  "seed": 7,
//	  "augmentors": [
//	    {"class_name": "Flip", "config": {"horiz": true, "prob": 0.5}},
//	    {"class_name": "RandomCrop", "config": {"crop_shape": [224, 224]}}
//	  ]
//	}
//
// A seed applies to the call that carries it and is released when the call
// returns.
//
// # Image Caching
//
// Decoded images are cached by path for the lifetime of the process, so
// sampling many augmentations of one file reads it from disk once.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// A line that is not JSON is answered with -32700 and a null id.
//
// # Usage
//
//	srv := server.New(server.WithLogger(logger), server.WithVersion(version))
//	if err := srv.Serve(os.Stdin, os.Stdout); err != nil {
//	    logger.Fatal(err)
//	}
package server
