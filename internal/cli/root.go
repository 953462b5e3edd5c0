package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/cycletrack/internal/config"
	"github.com/terraincognita07/cycletrack/internal/i18n"
)

type rootOptions struct {
	configPath string
	language   string
}

// NewRootCommand builds the cycletrack command tree.
func NewRootCommand() *cobra.Command {
	options := &rootOptions{}

	root := &cobra.Command{
		Use:   "cycletrack",
		Short: "Menstrual cycle tracker with phase calendar and reminders",
		Long: `cycletrack records period start dates, derives the cycle phases of the
latest entry and serves them as a month calendar over HTTP, as an iCalendar
feed and through scheduled Telegram reminders.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&options.configPath, "config", "", "path to a YAML config file (defaults to $"+config.ConfigPathEnv+")")
	root.PersistentFlags().StringVar(&options.language, "lang", "", "output language (en or ru), overrides the configured default")

	root.AddCommand(
		newServeCommand(options),
		newPhasesCommand(options),
		newCalendarCommand(options),
		newHistoryCommand(options),
		newTokenCommand(options),
		newSecretCommand(),
	)
	return root
}

func Execute() error {
	return NewRootCommand().Execute()
}

func (options *rootOptions) loadConfig() (config.Config, error) {
	return config.Load(options.configPath)
}

// localizer returns the i18n manager and the language output should use.
func (options *rootOptions) localizer(cfg config.Config) (*i18n.Manager, string, error) {
	defaultLanguage := cfg.DefaultLanguage
	if strings.TrimSpace(options.language) != "" {
		defaultLanguage = options.language
	}

	manager, err := i18n.NewManager(defaultLanguage)
	if err != nil {
		return nil, "", err
	}
	return manager, manager.DefaultLanguage(), nil
}
