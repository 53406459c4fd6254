package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"blockpress/internal/models"
	"blockpress/internal/resolver"
	"blockpress/internal/store"
)

var (
	listType     string
	listPostType string
	listArea     string
	listWithDB   bool

	hierCustom bool
	hierPrefix string
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Inspect theme and plugin templates",
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the merged templates as JSON",
	Long: `List the templates of the active theme and the plugin registry as JSON.

With --db, stored customizations are merged in as well.

Examples:
  blockpress templates list
  blockpress templates list --type wp_template_part --area header
  blockpress templates list --post-type product --db`,
	RunE: runTemplatesList,
}

var templatesLocateCmd = &cobra.Command{
	Use:   "locate <candidate>...",
	Short: "Find the plugin template for candidate template files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := loadSources(cfg.ThemeDir, cfg.PluginsDir)
		if err != nil {
			return err
		}
		res := resolver.New(src.registry, src.theme, noCustomizations{}, nil)
		t := res.Locate(args)
		if t == nil {
			return fmt.Errorf("no plugin template matches %v", args)
		}
		return writeJSON(cmd.OutOrStdout(), t)
	},
}

var templatesHierarchyCmd = &cobra.Command{
	Use:   "hierarchy <slug>",
	Short: "Print the fallback candidates for a template slug",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := loadSources(cfg.ThemeDir, cfg.PluginsDir)
		if err != nil {
			return err
		}
		for _, slug := range src.theme.Hierarchy(args[0], hierCustom, hierPrefix) {
			fmt.Fprintln(cmd.OutOrStdout(), slug)
		}
		return nil
	},
}

func init() {
	templatesListCmd.Flags().StringVarP(&listType, "type", "t", string(models.TemplateTypeTemplate), "template type (wp_template or wp_template_part)")
	templatesListCmd.Flags().StringVar(&listPostType, "post-type", "", "only templates for this post type")
	templatesListCmd.Flags().StringVar(&listArea, "area", "", "only template parts in this area")
	templatesListCmd.Flags().BoolVar(&listWithDB, "db", false, "merge stored customizations")

	templatesHierarchyCmd.Flags().BoolVar(&hierCustom, "custom", false, "treat the slug as a custom template")
	templatesHierarchyCmd.Flags().StringVar(&hierPrefix, "prefix", "", "template prefix of the slug")

	templatesCmd.AddCommand(templatesListCmd, templatesLocateCmd, templatesHierarchyCmd)
}

func runTemplatesList(cmd *cobra.Command, _ []string) error {
	typ := models.TemplateType(listType)
	if !typ.Valid() {
		return fmt.Errorf("unknown template type %q", listType)
	}

	src, err := loadSources(cfg.ThemeDir, cfg.PluginsDir)
	if err != nil {
		return err
	}

	q := models.TemplateQuery{PostType: listPostType, Area: listArea}
	if !listWithDB {
		res := resolver.New(src.registry, src.theme, noCustomizations{}, nil)
		return listTemplates(cmd.Context(), cmd.OutOrStdout(), res, q, typ)
	}

	return withDB(cmd.Context(), func(_ context.Context, db *sql.DB) error {
		res := resolver.New(src.registry, src.theme, store.NewTemplateStore(db), nil)
		return listTemplates(cmd.Context(), cmd.OutOrStdout(), res, q, typ)
	})
}

func listTemplates(ctx context.Context, w io.Writer, res *resolver.Resolver, q models.TemplateQuery, typ models.TemplateType) error {
	templates, err := res.List(ctx, q, typ)
	if err != nil {
		return err
	}
	return writeJSON(w, templates)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// noCustomizations is the customization source of offline commands.
type noCustomizations struct{}

func (noCustomizations) FindBySlug(context.Context, models.TemplateType, string, string) (*models.Template, error) {
	return nil, nil
}

func (noCustomizations) Query(context.Context, models.TemplateType, string, models.TemplateQuery) ([]*models.Template, error) {
	return nil, nil
}
