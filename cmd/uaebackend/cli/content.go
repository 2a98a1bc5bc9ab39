package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kharelpawan/uaebackend/internal/model"
	"github.com/kharelpawan/uaebackend/internal/store"
)

func newContentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Export or import site content",
		Long:  "Dump services, pages, and highlights to a YAML file, or load them back in. Useful for seeding environments and taking content backups.",
	}

	cmd.AddCommand(newContentExportCmd())
	cmd.AddCommand(newContentImportCmd())

	return cmd
}

// contentFile is the YAML document shared by export and import. IDs and
// timestamps are deliberately left out so a dump can be replayed anywhere.
type contentFile struct {
	Services   []contentService   `yaml:"services"`
	Pages      []contentPage      `yaml:"pages"`
	Highlights []contentHighlight `yaml:"highlights"`
}

type contentService struct {
	TitleEN       string `yaml:"title_en"`
	TitleAR       string `yaml:"title_ar"`
	DescriptionEN string `yaml:"description_en,omitempty"`
	DescriptionAR string `yaml:"description_ar,omitempty"`
	Icon          string `yaml:"icon,omitempty"`
	IsActive      bool   `yaml:"is_active"`
	SortOrder     int    `yaml:"sort_order"`
}

type contentPage struct {
	Slug      string `yaml:"slug"`
	TitleEN   string `yaml:"title_en"`
	TitleAR   string `yaml:"title_ar"`
	ContentEN string `yaml:"content_en,omitempty"`
	ContentAR string `yaml:"content_ar,omitempty"`
}

type contentHighlight struct {
	TextEN    string `yaml:"text_en"`
	TextAR    string `yaml:"text_ar"`
	Icon      string `yaml:"icon,omitempty"`
	IsActive  bool   `yaml:"is_active"`
	SortOrder int    `yaml:"sort_order"`
}

// ---------- content export ----------

func newContentExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export services, pages, and highlights as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runContentExport(output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")

	return cmd
}

func runContentExport(output string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()

	services, err := st.ListServices(ctx, false)
	if err != nil {
		return fmt.Errorf("list services: %w", err)
	}
	pages, err := st.ListPages(ctx)
	if err != nil {
		return fmt.Errorf("list pages: %w", err)
	}
	highlights, err := st.ListHighlights(ctx, false)
	if err != nil {
		return fmt.Errorf("list highlights: %w", err)
	}

	doc := contentFile{}
	for _, s := range services {
		doc.Services = append(doc.Services, contentService{
			TitleEN:       s.TitleEN,
			TitleAR:       s.TitleAR,
			DescriptionEN: s.DescriptionEN,
			DescriptionAR: s.DescriptionAR,
			Icon:          s.Icon,
			IsActive:      s.IsActive,
			SortOrder:     s.SortOrder,
		})
	}
	for _, p := range pages {
		doc.Pages = append(doc.Pages, contentPage{
			Slug:      p.Slug,
			TitleEN:   p.TitleEN,
			TitleAR:   p.TitleAR,
			ContentEN: p.ContentEN,
			ContentAR: p.ContentAR,
		})
	}
	for _, h := range highlights {
		doc.Highlights = append(doc.Highlights, contentHighlight{
			TextEN:    h.TextEN,
			TextAR:    h.TextAR,
			Icon:      h.Icon,
			IsActive:  h.IsActive,
			SortOrder: h.SortOrder,
		})
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal content: %w", err)
	}

	if output == "" {
		fmt.Print(string(out))
		return nil
	}
	if err := os.WriteFile(output, out, 0644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	fmt.Printf("Exported %d services, %d pages, %d highlights to %s\n",
		len(doc.Services), len(doc.Pages), len(doc.Highlights), output)
	return nil
}

// ---------- content import ----------

func newContentImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import services, pages, and highlights from a YAML dump",
		Long: `Import content from a file produced by 'uaebackend content export'.
Services and highlights are appended as new rows. Pages are matched by slug
and updated in place; unknown slugs are skipped, since the page set is fixed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runContentImport(args[0])
		},
	}

	return cmd
}

func runContentImport(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	var doc contentFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	var created, updated, skipped int

	for _, s := range doc.Services {
		svc := model.Service{
			TitleEN:       s.TitleEN,
			TitleAR:       s.TitleAR,
			DescriptionEN: s.DescriptionEN,
			DescriptionAR: s.DescriptionAR,
			Icon:          s.Icon,
			IsActive:      s.IsActive,
			SortOrder:     s.SortOrder,
		}
		if err := st.CreateService(ctx, &svc); err != nil {
			return fmt.Errorf("import service %q: %w", s.TitleEN, err)
		}
		created++
	}

	for _, h := range doc.Highlights {
		hl := model.Highlight{
			TextEN:    h.TextEN,
			TextAR:    h.TextAR,
			Icon:      h.Icon,
			IsActive:  h.IsActive,
			SortOrder: h.SortOrder,
		}
		if err := st.CreateHighlight(ctx, &hl); err != nil {
			return fmt.Errorf("import highlight %q: %w", h.TextEN, err)
		}
		created++
	}

	for _, p := range doc.Pages {
		page, err := st.GetPageBySlug(ctx, p.Slug)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				fmt.Printf("  skipping unknown page slug %q\n", p.Slug)
				skipped++
				continue
			}
			return fmt.Errorf("look up page %q: %w", p.Slug, err)
		}
		page.TitleEN = p.TitleEN
		page.TitleAR = p.TitleAR
		page.ContentEN = p.ContentEN
		page.ContentAR = p.ContentAR
		if err := st.UpdatePage(ctx, page); err != nil {
			return fmt.Errorf("import page %q: %w", p.Slug, err)
		}
		updated++
	}

	fmt.Printf("Imported: %d created, %d pages updated, %d skipped\n", created, updated, skipped)
	return nil
}
