// Command gridflux is the CLI client for the control loop's IPC surface
// (§6.3): it opens the Unix-domain socket, sends one ASCII request line,
// and prints the decoded response.
//
// Grounded on the teacher's cmd/aios-desktop/main.go cobra wiring,
// adapted from an HTTP API client shape to a raw socket client since
// GridFlux's transport is the Unix socket defined in internal/ipc, not
// HTTP.
package main

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gridflux/gridflux/internal/ipc"
)

func main() {
	root := &cobra.Command{
		Use:   "gridflux",
		Short: "CLI client for the gridflux-server control loop",
	}

	root.AddCommand(
		queryCmd(),
		moveCmd(),
		lockCmd(),
		unlockCmd(),
		ruleCmd(),
		toggleBordersCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func queryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "query {windows|workspaces|count|apps} [WS_ID]",
		Short:     "Query tracked windows, workspaces, or counts",
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: []string{"windows", "workspaces", "count", "apps"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return sendAndPrint(append([]string{"query"}, args...)...)
		},
	}
	return cmd
}

func moveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move HANDLE WS_ID",
		Short: "Move a window to a workspace",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return sendAndPrint(append([]string{"move"}, args...)...)
		},
	}
}

func lockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lock WS_ID",
		Short: "Lock a workspace against automatic placement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return sendAndPrint(append([]string{"lock"}, args...)...)
		},
	}
}

func unlockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unlock WS_ID",
		Short: "Unlock a workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return sendAndPrint(append([]string{"unlock"}, args...)...)
		},
	}
}

func toggleBordersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle-borders",
		Short: "Toggle window border decoration on or off",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return sendAndPrint("toggle-borders")
		},
	}
}

func ruleCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "rule", Short: "Manage class-to-workspace assignment rules"}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add CLASS WS_ID",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return sendAndPrint(append([]string{"rule", "add"}, args...)...)
			},
		},
		&cobra.Command{
			Use:   "remove CLASS",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return sendAndPrint(append([]string{"rule", "remove"}, args...)...)
			},
		},
	)
	return cmd
}

// sendAndPrint sends one request line, prints the decoded response, and
// returns a non-nil error (causing exit 1) on a non-success status.
func sendAndPrint(fields ...string) error {
	resp, err := send(strings.Join(fields, " "))
	if err != nil {
		return err
	}

	isQueryWindows := len(fields) >= 2 && fields[0] == "query" && fields[1] == "windows"
	isQueryWorkspaces := len(fields) >= 2 && fields[0] == "query" && fields[1] == "workspaces"

	switch {
	case resp.Status != ipc.StatusSuccess:
		fmt.Fprintln(os.Stderr, resp.Message)
		return fmt.Errorf("request failed")
	case isQueryWindows:
		return printWindowFrame([]byte(resp.Message))
	case isQueryWorkspaces:
		return printWorkspaceFrame([]byte(resp.Message))
	default:
		fmt.Println(resp.Message)
		return nil
	}
}

// send dials the IPC socket, writes one request line, and decodes the
// fixed-size response record (§6.2).
func send(request string) (ipc.Response, error) {
	conn, err := net.DialTimeout("unix", ipc.SocketPath(), 2*time.Second)
	if err != nil {
		return ipc.Response{}, fmt.Errorf("connect to gridflux-server: %w", err)
	}
	defer conn.Close()

	_ = conn.SetDeadline(time.Now().Add(5 * time.Second))
	if _, err := conn.Write([]byte(request)); err != nil {
		return ipc.Response{}, fmt.Errorf("send request: %w", err)
	}

	buf := make([]byte, ipc.ResponseSize)
	if _, err := readFull(conn, buf); err != nil {
		return ipc.Response{}, fmt.Errorf("read response: %w", err)
	}
	return ipc.DecodeResponse(buf)
}

func readFull(conn net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := conn.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func printWindowFrame(payload []byte) error {
	r := bytes.NewReader(payload)
	var count, capacity uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return err
	}
	if err := binary.Read(r, binary.LittleEndian, &capacity); err != nil {
		return err
	}
	fmt.Printf("%d windows tracked (capacity %d)\n", count, capacity)

	for i := uint32(0); i < count; i++ {
		var rec ipc.WindowRecord
		if err := binary.Read(r, binary.LittleEndian, &rec); err != nil {
			return err
		}
		fmt.Printf("0x%x  workspace=%d  geom=%d,%d %dx%d  maximized=%v  minimized=%v  dock_hidden=%v\n",
			rec.ID, rec.Workspace, rec.X, rec.Y, rec.W, rec.H, rec.IsMaximized != 0, rec.IsMinimized != 0, rec.DockHidden != 0)
	}
	return nil
}

func printWorkspaceFrame(payload []byte) error {
	r := bytes.NewReader(payload)
	var count, capacity uint32
	var active int32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return err
	}
	if err := binary.Read(r, binary.LittleEndian, &capacity); err != nil {
		return err
	}
	if err := binary.Read(r, binary.LittleEndian, &active); err != nil {
		return err
	}
	fmt.Printf("%d workspaces materialized (active=%d)\n", count, active)

	for i := uint32(0); i < count; i++ {
		var rec ipc.WorkspaceRecord
		if err := binary.Read(r, binary.LittleEndian, &rec); err != nil {
			return err
		}
		fmt.Printf("workspace %d: %d/%d windows  locked=%v  maximized=%v\n",
			rec.ID, rec.WindowCount, rec.MaxWindows, rec.IsLocked != 0, rec.HasMaximized != 0)
	}
	return nil
}
