// Package mcp exposes the daemon's scratchpad controls as MCP tools over
// stdio. The server is a thin layer on the IPC client; the daemon must be
// running for the tools to work.
package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/scratchpad/internal/ipc"
	"github.com/1broseidon/scratchpad/internal/scratchpad"
)

const (
	ServerName    = "scratchpad"
	ServerVersion = "0.1.0"
)

// Server is the MCP server for scratchpad control.
type Server struct {
	mcpServer *mcpsdk.Server
	client    *ipc.Client
}

// NewServer creates an MCP server talking to the local daemon socket.
func NewServer() *Server {
	s := &Server{
		client: ipc.NewClient(),
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "toggle_scratchpad",
		Description: "Toggle a named scratchpad window. Launches its command on first use, then alternates between showing the window above the current layout and hiding it. Returns the scratchpad's state after the toggle.",
	}, s.handleToggle)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_scratchpads",
		Description: "List all configured scratchpads with their command, hotkey, lifecycle state (empty/pending/hidden/visible) and window ID if one is tracked.",
	}, s.handleList)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Report daemon status: uptime, number of configured scratchpads and how many are currently visible.",
	}, s.handleGetStatus)
}

func (s *Server) handleToggle(_ context.Context, _ *mcpsdk.CallToolRequest, args ToggleScratchpadInput) (*mcpsdk.CallToolResult, ToggleScratchpadOutput, error) {
	if args.Name == "" {
		return nil, ToggleScratchpadOutput{}, fmt.Errorf("name is required")
	}

	if err := s.client.Toggle(args.Name); err != nil {
		return nil, ToggleScratchpadOutput{}, err
	}

	out := ToggleScratchpadOutput{Name: args.Name, State: string(scratchpad.StatePending)}
	if status, err := s.client.GetStatus(); err == nil {
		for _, sp := range status.Scratchpads {
			if sp.Name == args.Name {
				out.State = sp.State
				break
			}
		}
	}

	return nil, out, nil
}

func (s *Server) handleList(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListScratchpadsInput) (*mcpsdk.CallToolResult, ListScratchpadsOutput, error) {
	status, err := s.client.GetStatus()
	if err != nil {
		return nil, ListScratchpadsOutput{}, err
	}

	out := ListScratchpadsOutput{Scratchpads: make([]ScratchpadSummary, 0, len(status.Scratchpads))}
	for _, sp := range status.Scratchpads {
		out.Scratchpads = append(out.Scratchpads, ScratchpadSummary{
			Name:     sp.Name,
			Command:  sp.Command,
			Hotkey:   sp.Hotkey,
			State:    sp.State,
			WindowID: sp.WindowID,
		})
	}

	return nil, out, nil
}

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStatusInput) (*mcpsdk.CallToolResult, GetStatusOutput, error) {
	status, err := s.client.GetStatus()
	if err != nil {
		return nil, GetStatusOutput{
			DaemonRunning: false,
			Message:       fmt.Sprintf("daemon not reachable: %v", err),
		}, nil
	}

	visible := 0
	for _, sp := range status.Scratchpads {
		if sp.State == string(scratchpad.StateVisible) {
			visible++
		}
	}

	return nil, GetStatusOutput{
		DaemonRunning: status.DaemonRunning,
		UptimeSeconds: status.UptimeSeconds,
		Scratchpads:   len(status.Scratchpads),
		Visible:       visible,
	}, nil
}
