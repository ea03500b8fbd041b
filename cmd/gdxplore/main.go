// gdxplore is a workbench for extension classes: it loads the demo
// library into an in-process engine host and lets you list classes,
// inspect their methods, and call them from the command line or from
// an interactive terminal UI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wirebound/gdext"
	"github.com/wirebound/gdext/classdb"
	"github.com/wirebound/gdext/variant"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "gdxplore",
		Short:         "explore and call extension classes against a fake engine host",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if verbose {
				if log, err := zap.NewDevelopment(); err == nil {
					gdext.SetLogger(log)
				}
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log registration and dispatch")

	root.AddCommand(newListCmd(), newDescribeCmd(), newCallCmd(), newTUICmd())
	return root
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list registered classes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := newExplorer()
			if err != nil {
				return err
			}
			for _, name := range e.ext.Registry().Classes() {
				c, _ := e.ext.Registry().Class(name)
				fmt.Fprintf(cmd.OutOrStdout(), "%s (extends %s, %d methods)\n",
					c.Name(), c.Parent(), len(c.Methods()))
			}
			return nil
		},
	}
}

func newDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe <class>",
		Short: "show a class's methods and signatures",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newExplorer()
			if err != nil {
				return err
			}
			c, ok := e.ext.Registry().Class(args[0])
			if !ok {
				return fmt.Errorf("unknown class %q", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s extends %s\n", c.Name(), c.Parent())
			for _, name := range c.Methods() {
				m, _ := c.Method(name)
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", signature(m))
			}
			return nil
		},
	}
}

func newCallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "call <class> <method> [args...]",
		Short: "construct an instance and call a method",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newExplorer()
			if err != nil {
				return err
			}
			c, ok := e.ext.Registry().Class(args[0])
			if !ok {
				return fmt.Errorf("unknown class %q", args[0])
			}
			m, ok := c.Method(args[1])
			if !ok {
				return fmt.Errorf("class %s has no method %q", args[0], args[1])
			}

			vals, err := parseArgs(m, args[2:])
			if err != nil {
				return err
			}
			out, err := e.call(args[0], args[1], vals)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out.String())
			return nil
		},
	}
}

func newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "browse and call classes interactively",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return fmt.Errorf("tui needs a terminal, use list/describe/call instead")
			}
			e, err := newExplorer()
			if err != nil {
				return err
			}
			return runInteractive(e)
		},
	}
}

// parseArgs converts positional tokens into the declared kinds of m.
// Trailing parameters with defaults may be omitted; varargs take any
// surplus as strings.
func parseArgs(m *classdb.Method, tokens []string) ([]variant.Value, error) {
	decl := m.Args
	required := len(decl) - len(m.Default)
	if len(tokens) < required {
		return nil, fmt.Errorf("%s needs at least %d argument(s), got %d", m.Name, required, len(tokens))
	}
	if len(tokens) > len(decl) && !m.Vararg() {
		return nil, fmt.Errorf("%s takes at most %d argument(s), got %d", m.Name, len(decl), len(tokens))
	}

	vals := make([]variant.Value, 0, len(tokens))
	for i, tok := range tokens {
		if i < len(decl) {
			v, err := parseValue(decl[i].Kind, tok)
			if err != nil {
				return nil, fmt.Errorf("argument %q: %w", decl[i].Name, err)
			}
			vals = append(vals, v)
			continue
		}
		vals = append(vals, variant.NewString(tok))
	}
	return vals, nil
}
