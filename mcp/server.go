// Package mcp implements a Model Context Protocol (MCP) server that exposes
// the SmartDocsHub catalogs, editing sessions and document generation as
// tools and resources for AI assistants.
//
// The server communicates via JSON-RPC 2.0 over stdio and implements the
// MCP specification (2024-11-05) for tools and resources.
//
// # Usage with Claude Desktop
//
// Add to your claude_desktop_config.json:
//
//	{
//	  "mcpServers": {
//	    "smartdocs": {
//	      "command": "smartdocs-mcp"
//	    }
//	  }
//	}
package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	ServerName      = "smartdocs-mcp"
	ServerVersion   = "1.0.0"
	ProtocolVersion = "2024-11-05"
)

// Server is an MCP server that handles JSON-RPC 2.0 messages over stdio.
type Server struct {
	tools     map[string]Tool
	resources map[string]Resource
	input     io.Reader
	output    io.Writer
	log       *zap.Logger
	mu        sync.Mutex
}

// Tool defines an MCP tool that can be called by the client.
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
	Handler     ToolHandler            `json:"-"`
}

// ToolHandler executes a tool with the given arguments. ctx is cancelled
// when the server stops.
type ToolHandler func(ctx context.Context, args map[string]interface{}) (ToolResult, error)

// ToolResult is the result returned by a tool execution.
type ToolResult struct {
	Content []ContentBlock `json:"content"`
	IsError bool           `json:"isError,omitempty"`
}

// ContentBlock is a piece of content in a tool result.
type ContentBlock struct {
	Type     string `json:"type"` // "text" or "resource"
	Text     string `json:"text,omitempty"`
	MIMEType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"` // base64 for binary
}

// Resource defines an MCP resource.
type Resource struct {
	URI         string          `json:"uri"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	MIMEType    string          `json:"mimeType,omitempty"`
	Handler     ResourceHandler `json:"-"`
}

// ResourceHandler reads a resource and returns its content.
type ResourceHandler func(uri string) ([]ResourceContent, error)

// ResourceContent is the content of a read resource.
type ResourceContent struct {
	URI      string `json:"uri"`
	MIMEType string `json:"mimeType,omitempty"`
	Text     string `json:"text,omitempty"`
	Blob     string `json:"blob,omitempty"` // base64
}

// JSON-RPC types
type jsonrpcRequest struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Method  string           `json:"method"`
	Params  json.RawMessage  `json:"params,omitempty"`
}

type jsonrpcResponse struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id"`
	Result  interface{}      `json:"result,omitempty"`
	Error   *jsonrpcError    `json:"error,omitempty"`
}

type jsonrpcError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets the logger. It must not write to the protocol stream.
func WithLogger(l *zap.Logger) ServerOption {
	return func(s *Server) {
		s.log = l
	}
}

// NewServer creates a new MCP server reading from stdin and writing to stdout.
func NewServer(opts ...ServerOption) *Server {
	return NewServerWithIO(os.Stdin, os.Stdout, opts...)
}

// NewServerWithIO creates a new MCP server with custom I/O for testing.
func NewServerWithIO(in io.Reader, out io.Writer, opts ...ServerOption) *Server {
	s := &Server{
		tools:     make(map[string]Tool),
		resources: make(map[string]Resource),
		input:     in,
		output:    out,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.Named("mcp")
	return s
}

// AddTool registers a tool with the server.
func (s *Server) AddTool(t Tool) {
	s.tools[t.Name] = t
}

// AddResource registers a resource with the server.
func (s *Server) AddResource(r Resource) {
	s.resources[r.URI] = r
}

// Run processes messages until EOF or until ctx is cancelled. Reading
// happens on its own goroutine so cancellation is noticed while the input
// is idle; that goroutine exits with the next line or the end of input.
func (s *Server) Run(ctx context.Context) error {
	lines := make(chan []byte)
	readErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(s.input)
		// MCP uses newline-delimited JSON; uploads arrive base64 encoded.
		scanner.Buffer(make([]byte, 0, 1024*1024), 64*1024*1024)
		for scanner.Scan() {
			line := append([]byte(nil), scanner.Bytes()...)
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-readErr:
			return err
		case line := <-lines:
			if len(line) == 0 {
				continue
			}
			var req jsonrpcRequest
			if err := json.Unmarshal(line, &req); err != nil {
				s.sendError(nil, -32700, "Parse error", err.Error())
				continue
			}
			s.handleRequest(ctx, req)
		}
	}
}

func (s *Server) handleRequest(ctx context.Context, req jsonrpcRequest) {
	switch req.Method {
	case "initialize":
		s.handleInitialize(req)
	case "initialized", "notifications/initialized":
		// Notification, no response needed
	case "ping":
		s.sendResult(req.ID, map[string]interface{}{})
	case "tools/list":
		s.handleToolsList(req)
	case "tools/call":
		s.handleToolsCall(ctx, req)
	case "resources/list":
		s.handleResourcesList(req)
	case "resources/read":
		s.handleResourcesRead(req)
	default:
		s.sendError(req.ID, -32601, "Method not found", req.Method)
	}
}

func (s *Server) handleInitialize(req jsonrpcRequest) {
	result := map[string]interface{}{
		"protocolVersion": ProtocolVersion,
		"capabilities": map[string]interface{}{
			"tools":     map[string]interface{}{},
			"resources": map[string]interface{}{},
		},
		"serverInfo": map[string]interface{}{
			"name":    ServerName,
			"version": ServerVersion,
		},
	}
	s.sendResult(req.ID, result)
}

func (s *Server) handleToolsList(req jsonrpcRequest) {
	names := make([]string, 0, len(s.tools))
	for name := range s.tools {
		names = append(names, name)
	}
	sort.Strings(names)

	tools := make([]map[string]interface{}, 0, len(names))
	for _, name := range names {
		t := s.tools[name]
		tools = append(tools, map[string]interface{}{
			"name":        t.Name,
			"description": t.Description,
			"inputSchema": t.InputSchema,
		})
	}
	s.sendResult(req.ID, map[string]interface{}{"tools": tools})
}

func (s *Server) handleToolsCall(ctx context.Context, req jsonrpcRequest) {
	var params struct {
		Name      string                 `json:"name"`
		Arguments map[string]interface{} `json:"arguments"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		s.sendError(req.ID, -32602, "Invalid params", err.Error())
		return
	}

	tool, ok := s.tools[params.Name]
	if !ok {
		s.sendError(req.ID, -32602, "Unknown tool", params.Name)
		return
	}
	if params.Arguments == nil {
		params.Arguments = map[string]interface{}{}
	}

	start := time.Now()
	result, err := tool.Handler(ctx, params.Arguments)
	if err != nil {
		s.log.Warn("tool failed", zap.String("tool", params.Name), zap.Error(err))
		s.sendResult(req.ID, ToolResult{
			Content: []ContentBlock{{Type: "text", Text: fmt.Sprintf("Error: %v", err)}},
			IsError: true,
		})
		return
	}
	s.log.Info("tool called", zap.String("tool", params.Name), zap.Duration("took", time.Since(start)))

	s.sendResult(req.ID, result)
}

func (s *Server) handleResourcesList(req jsonrpcRequest) {
	uris := make([]string, 0, len(s.resources))
	for uri := range s.resources {
		uris = append(uris, uri)
	}
	sort.Strings(uris)

	resources := make([]map[string]interface{}, 0, len(uris))
	for _, uri := range uris {
		r := s.resources[uri]
		res := map[string]interface{}{
			"uri":  r.URI,
			"name": r.Name,
		}
		if r.Description != "" {
			res["description"] = r.Description
		}
		if r.MIMEType != "" {
			res["mimeType"] = r.MIMEType
		}
		resources = append(resources, res)
	}
	s.sendResult(req.ID, map[string]interface{}{"resources": resources})
}

func (s *Server) handleResourcesRead(req jsonrpcRequest) {
	var params struct {
		URI string `json:"uri"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		s.sendError(req.ID, -32602, "Invalid params", err.Error())
		return
	}

	resource, ok := s.resources[params.URI]
	if !ok {
		s.sendError(req.ID, -32602, "Unknown resource", params.URI)
		return
	}

	contents, err := resource.Handler(params.URI)
	if err != nil {
		s.log.Warn("resource failed", zap.String("uri", params.URI), zap.Error(err))
		s.sendError(req.ID, -32603, "Resource error", err.Error())
		return
	}

	s.sendResult(req.ID, map[string]interface{}{"contents": contents})
}

func (s *Server) sendResult(id *json.RawMessage, result interface{}) {
	s.send(jsonrpcResponse{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	})
}

func (s *Server) sendError(id *json.RawMessage, code int, message string, data interface{}) {
	s.send(jsonrpcResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &jsonrpcError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	})
}

func (s *Server) send(resp jsonrpcResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(resp)
	if err != nil {
		s.log.Error("encoding response", zap.Error(err))
		return
	}
	data = append(data, '\n')
	if _, err := s.output.Write(data); err != nil {
		s.log.Error("writing response", zap.Error(err))
	}
}
