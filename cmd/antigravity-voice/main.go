// Antigravity Voice - оболочка голосового ввода в системном трее.
//
// Держит иконку в трее, слушает Ctrl+Super+Space и открывает UI слою
// локальный мост для работы с буфером обмена и вводом с клавиатуры.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"antigravity-voice/internal/app"
	"antigravity-voice/internal/config"
	"antigravity-voice/internal/dialog"
	"antigravity-voice/internal/hotkey"
	"antigravity-voice/internal/i18n"
)

// Version устанавливается при сборке через -ldflags "-X main.Version=x.y.z".
var Version = "dev"

func main() {
	root := newRootCmd()
	root.AddCommand(
		newCopyCmd(),
		newClipboardCmd(),
		newPasteCmd(),
		newCopyPasteCmd(),
		newTypeCmd(),
		newEventsCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "antigravity-voice",
		Short: "Tray shell for voice dictation",
		Long: `antigravity-voice runs in the system tray, listens for Ctrl+Super+Space and
exposes clipboard and keyboard commands to the UI layer over a local
WebSocket bridge.

Without a subcommand the tray application starts. The copy, clipboard,
paste, copy-paste and type subcommands talk to the running instance.

Config file: $XDG_CONFIG_HOME/antigravity-voice/config.toml (or --config).
Every key can be set via ANTIGRAVITY_<SECTION>_<KEY> env vars.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PreRunE:      func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:         func(_ *cobra.Command, _ []string) error { return runApp(v) },
	}

	f := cmd.Flags()
	f.String("bridge-addr", "", "bridge listen address (default 127.0.0.1:47631)")
	f.String("language", "", "UI language: es|en")
	addConfigFlag(cmd)
	addLoggingFlags(cmd)

	return cmd
}

func runApp(v *viper.Viper) error {
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	setupLogging(cfg)
	slog.Info("starting", "version", Version)

	// Запускаем в главном потоке (требование для macOS и некоторых GUI)
	var runErr error
	hotkey.RunOnMainThread(func() {
		runErr = run(cfg)
	})
	if runErr != nil {
		slog.Error("startup failed", "err", runErr)
		dialog.ShowError(i18n.T("app_name"), setupMessage(runErr))
	}
	return runErr
}

// setupMessage формирует текст диалога для ошибки запуска.
func setupMessage(err error) string {
	title := i18n.T("error_setup")
	var se *app.SetupError
	if errors.As(err, &se) && se.Stage == app.StageHotkey {
		title = i18n.T("error_hotkey")
	}
	return title + ":\n" + err.Error()
}

func run(cfg *config.Config) error {
	application, err := app.New(cfg)
	if err != nil {
		return err
	}
	return application.Run()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("antigravity-voice %s\n", Version)
		},
	}
}
