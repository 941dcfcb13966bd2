// Command query выполняет один SQL-шаблон и печатает результат как JSON.
//
//	query activities home
//	query users show --param handle=andrewbrown
//	query users profile --param handle=andrewbrown --object
//	query --list
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"activity_srv/db"
	"activity_srv/internal/config"
	"activity_srv/internal/database"
	"activity_srv/internal/storage"
	"activity_srv/internal/templates"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	params  []string
	object  bool
	list    bool
	timeout time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "query <module> <name>",
		Short:         "Run a SQL template and print its rows as JSON",
		SilenceUsage:  true,
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.list {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd, opts, args)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.params, "param", "p", nil, "template parameter as key=value (repeatable)")
	cmd.Flags().BoolVar(&opts.object, "object", false, "decode a single JSON object instead of an array")
	cmd.Flags().BoolVar(&opts.list, "list", false, "list available templates for the configured dialect")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "overall timeout")
	return cmd
}

func run(ctx context.Context, cmd *cobra.Command, opts *options, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logrus.New()
	logger.SetOutput(cmd.ErrOrStderr())
	if level, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
		logger.SetLevel(level)
	}

	st, err := storage.NewStorageFromConfig(cfg, db.Templates(), logger)
	if err != nil {
		return err
	}
	dialect, err := database.DialectByName(cfg.Dialect())
	if err != nil {
		return err
	}
	loader := templates.NewLoader(st, dialect.Name(), logger)

	if opts.list {
		refs, err := loader.Available(ctx)
		if err != nil {
			return err
		}
		for _, ref := range refs {
			fmt.Fprintln(cmd.OutOrStdout(), ref.String())
		}
		return nil
	}

	params, err := parseParams(opts.params)
	if err != nil {
		return err
	}

	sql, err := loader.Template(ctx, args[0], args[1])
	if err != nil {
		return err
	}

	pool, _, err := database.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	executor := database.NewExecutor(pool, dialect, logger)

	var result any
	if opts.object {
		result, err = executor.QueryObjectJSON(ctx, sql, params)
	} else {
		result, err = executor.QueryArrayJSON(ctx, sql, params)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// parseParams разбирает значения вида key=value
func parseParams(raw []string) (map[string]any, error) {
	params := make(map[string]any, len(raw))
	for _, kv := range raw {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q, expected key=value", kv)
		}
		params[key] = value
	}
	return params, nil
}
