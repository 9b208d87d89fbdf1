package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/barline/barline/pkg/errors"
	"github.com/barline/barline/pkg/ipc"
)

// send delivers one request to the daemon and prints the raw response line.
// Clients get the protocol's JSON verbatim; pretty-printing is left to the
// presentation layer.
func send(cmd *cobra.Command, socket *string, req ipc.Request) error {
	raw, err := ipc.NewClient(*socket).DoRaw(req)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), raw)
	return nil
}

// parseProps converts "key=value" arguments into a property map.
func parseProps(args []string) (map[string]string, error) {
	props := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "expected key=value, got %q", arg)
		}
		props[key] = value
	}
	return props, nil
}

// newAddCmd creates the add command.
func newAddCmd(socket *string) *cobra.Command {
	var (
		nodeType string
		parent   string
		position int32
		display  uint32
	)

	cmd := &cobra.Command{
		Use:   "add <name> [key=value ...]",
		Short: "Add a node to the bar",
		Long:  `Add creates a new node. The node type defaults to item; rows, columns, and boxes may hold children. Any property accepted by set can be supplied inline as key=value.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			props, err := parseProps(args[1:])
			if err != nil {
				return err
			}

			req := ipc.Request{
				Command:    ipc.CommandAdd,
				Name:       args[0],
				NodeType:   nodeType,
				Parent:     parent,
				Properties: props,
			}
			if cmd.Flags().Changed("position") {
				req.Position = &position
			}
			if cmd.Flags().Changed("display") {
				req.Display = &display
			}
			return send(cmd, socket, req)
		},
	}

	cmd.Flags().StringVarP(&nodeType, "type", "t", "", "node type: item, row, column, or box (default item)")
	cmd.Flags().StringVarP(&parent, "parent", "p", "", "name of the parent container")
	cmd.Flags().Int32Var(&position, "position", 0, "sort position among siblings")
	cmd.Flags().Uint32VarP(&display, "display", "d", 0, "pin the node to this display id")

	return cmd
}

// newSetCmd creates the set command.
func newSetCmd(socket *string) *cobra.Command {
	return &cobra.Command{
		Use:   "set <name> <key=value ...>",
		Short: "Update node properties",
		Long:  `Set applies a partial update. Shorthand keys (padding, margin, and their _horizontal/_vertical variants) expand to the edge keys; a specific edge key in the same call wins. An empty value clears clearable fields. "display=" un-pins the node back to the main display.`,
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			props, err := parseProps(args[1:])
			if err != nil {
				return err
			}
			return send(cmd, socket, ipc.Request{
				Command:    ipc.CommandSet,
				Name:       args[0],
				Properties: props,
			})
		},
	}
}

// newRemoveCmd creates the remove command.
func newRemoveCmd(socket *string) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a node",
		Long:  `Remove deletes a node. Removing a container also removes its entire descendant subtree.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return send(cmd, socket, ipc.Request{Command: ipc.CommandRemove, Name: args[0]})
		},
	}
}

// newQueryCmd creates the query command.
func newQueryCmd(socket *string) *cobra.Command {
	var display uint32

	cmd := &cobra.Command{
		Use:   "query [name]",
		Short: "Query nodes",
		Long:  `Query returns nodes as JSON: a single node by name, one display's nodes with --display, or everything.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := ipc.Request{Command: ipc.CommandQuery}
			if len(args) == 1 {
				req.Name = args[0]
			}
			if cmd.Flags().Changed("display") {
				req.Display = &display
			}
			return send(cmd, socket, req)
		},
	}

	cmd.Flags().Uint32VarP(&display, "display", "d", 0, "filter by display id")

	return cmd
}

// newDisplaysCmd creates the displays command.
func newDisplaysCmd(socket *string) *cobra.Command {
	return &cobra.Command{
		Use:   "displays",
		Short: "List known displays",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return send(cmd, socket, ipc.Request{Command: ipc.CommandDisplays})
		},
	}
}
