package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"liftdesk/internal/collection"
	"liftdesk/internal/config"
	"liftdesk/internal/domain"
	"liftdesk/internal/logic"
	"liftdesk/internal/ui/views"
)

type listOptions struct {
	Search  string
	Filters []string
	JSON    bool
}

func newListCmd(a *app) *cobra.Command {
	var opts listOptions

	cmd := &cobra.Command{
		Use:   "list <screen> [--search text] [--filter field=value ...] [--json]",
		Short: "Fetch a collection and print the filtered, sorted rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			screen, err := a.screen(args[0])
			if err != nil {
				return err
			}
			ctrl, err := a.load(cmd.Context(), screen)
			if err != nil {
				return err
			}

			ctrl.SetSearch(opts.Search)
			for _, expr := range opts.Filters {
				field, value, err := parseFilter(screen, expr)
				if err != nil {
					return err
				}
				ctrl.SetFilter(field, value)
			}

			items := ctrl.Visible()
			if opts.JSON {
				return writeJSON(cmd.OutOrStdout(), items)
			}
			return writeTable(cmd.OutOrStdout(), screen, items)
		},
	}

	cmd.Flags().StringVarP(&opts.Search, "search", "s", "", "free-text search over the screen's search fields")
	cmd.Flags().StringArrayVarP(&opts.Filters, "filter", "f", nil, "categorical filter as field=value (repeatable)")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "print rows as JSON")
	return cmd
}

func newSuggestCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <screen> <prefix>",
		Short: "Print the autocomplete suggestions for a prefix",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			screen, err := a.screen(args[0])
			if err != nil {
				return err
			}
			ctrl, err := a.load(cmd.Context(), screen)
			if err != nil {
				return err
			}
			suggestions := ctrl.Suggestions(args[1])
			sort.Strings(suggestions)
			for _, s := range suggestions {
				fmt.Fprintln(cmd.OutOrStdout(), s)
			}
			return nil
		},
	}
}

func newScreensCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "screens",
		Short: "List the configured screens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("NAME", "ENDPOINT", "FILTERS", "WRITABLE")
			for _, s := range a.cfg.Screens {
				writable := "no"
				if s.Writable {
					writable = "yes"
				}
				t.Row(s.Name, s.Endpoint, strings.Join(s.FilterFields(), ", "), writable)
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}
}

// load fetches one screen's collection with the stored session token
func (a *app) load(ctx context.Context, screen config.Screen) (*collection.Controller, error) {
	token := a.auth.Token()
	if token == "" {
		return nil, errors.New("not logged in, run `liftdesk login` first")
	}
	ctrl := collection.New(screen, a.client, logic.NewMemoryItemStore(), a.bus, a.log)
	if err := ctrl.Load(ctx, token); err != nil {
		return nil, errors.Wrapf(err, "load %s", screen.Name)
	}
	return ctrl, nil
}

// parseFilter splits field=value and checks it against the screen's filters
func parseFilter(screen config.Screen, expr string) (string, string, error) {
	field, value, ok := strings.Cut(expr, "=")
	field, value = strings.TrimSpace(field), strings.TrimSpace(value)
	if !ok || field == "" {
		return "", "", errors.Errorf("filter %q: want field=value", expr)
	}
	f, known := screen.Filter(field)
	if !known {
		return "", "", errors.Errorf("screen %s cannot filter on %q (filters: %s)", screen.Name, field, strings.Join(screen.FilterFields(), ", "))
	}
	for _, allowed := range f.Values {
		if strings.EqualFold(allowed, value) {
			return field, allowed, nil
		}
	}
	if len(f.Values) > 0 {
		return "", "", errors.Errorf("filter %s: %q is not one of %s", field, value, strings.Join(f.Values, ", "))
	}
	return field, value, nil
}

func writeJSON(w io.Writer, items []domain.Item) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}

func writeTable(w io.Writer, screen config.Screen, items []domain.Item) error {
	headers := append([]string{"#"}, screen.Columns...)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...)
	for _, item := range items {
		row := []string{item.ID(screen.IDField)}
		for _, col := range screen.Columns {
			if col == screen.AmountField {
				row = append(row, views.FormatAmount(item[col], screen.Currency))
				continue
			}
			row = append(row, item.String(col))
		}
		t.Row(row...)
	}
	_, err := fmt.Fprintf(w, "%s\n%d %s\n", t.Render(), len(items), screen.Name)
	return err
}
