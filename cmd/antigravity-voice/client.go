package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"antigravity-voice/internal/bridge"
	"antigravity-voice/internal/commands"
)

const dialTimeout = 5 * time.Second

// withClient connects to the running instance and calls fn. Interrupt
// cancels the pending call but not keystrokes already sent.
func withClient(fn func(ctx context.Context, c *bridge.Client) error) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	c, err := bridge.DialSession(dialCtx)
	cancel()
	if err != nil {
		return err
	}
	defer c.Close()

	return fn(ctx, c)
}

// textArg returns args[0], or stdin when no argument is given.
func textArg(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

func newCopyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "copy [TEXT]",
		Short: "Put TEXT (or stdin) on the clipboard",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			text, err := textArg(args)
			if err != nil {
				return err
			}
			return withClient(func(ctx context.Context, c *bridge.Client) error {
				return c.Call(ctx, commands.CopyToClipboard, bridge.TextArgs{Text: &text}, nil)
			})
		},
	}
}

func newClipboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clipboard",
		Short: "Print the clipboard text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(func(ctx context.Context, c *bridge.Client) error {
				var text string
				if err := c.Call(ctx, commands.GetClipboardText, nil, &text); err != nil {
					return err
				}
				_, err := io.WriteString(cmd.OutOrStdout(), text)
				return err
			})
		},
	}
}

func newPasteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "paste",
		Short: "Send the paste shortcut to the focused window",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return withClient(func(ctx context.Context, c *bridge.Client) error {
				return c.Call(ctx, commands.SimulatePaste, nil, nil)
			})
		},
	}
}

func newCopyPasteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "copy-paste [TEXT]",
		Short: "Copy TEXT (or stdin) and paste it into the focused window",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			text, err := textArg(args)
			if err != nil {
				return err
			}
			return withClient(func(ctx context.Context, c *bridge.Client) error {
				return c.Call(ctx, commands.CopyAndPaste, bridge.TextArgs{Text: &text}, nil)
			})
		},
	}
}

func newTypeCmd() *cobra.Command {
	var delayMs int64
	cmd := &cobra.Command{
		Use:   "type [TEXT]",
		Short: "Type TEXT (or stdin) character by character",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := textArg(args)
			if err != nil {
				return err
			}
			targs := bridge.TypeTextArgs{Text: &text}
			if cmd.Flags().Changed("delay-ms") {
				targs.DelayMs = &delayMs
			}
			return withClient(func(ctx context.Context, c *bridge.Client) error {
				return c.Call(ctx, commands.TypeText, targs, nil)
			})
		},
	}
	cmd.Flags().Int64Var(&delayMs, "delay-ms", 10, "pause after each character in milliseconds")
	return cmd
}

func newEventsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "Print shell events (start-dictation) until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(func(ctx context.Context, c *bridge.Client) error {
				out := cmd.OutOrStdout()
				for {
					select {
					case <-ctx.Done():
						return nil
					case ev, ok := <-c.Events():
						if !ok {
							return bridge.ErrClosed
						}
						fmt.Fprintln(out, ev.Name)
					}
				}
			})
		},
	}
}
