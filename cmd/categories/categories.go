package categories

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/izorzok/crawler/cmd/bootstrap"
	"github.com/izorzok/crawler/parse/izorzok"
	"github.com/izorzok/crawler/recipe"
	"github.com/izorzok/crawler/spider"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var CategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "list the recipe categories of the site.",
	Long:  "collect the name and url of the recipe categories from the recipe index page.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(cmd)
	},
}

var (
	jsonPath string
	csvPath  string
	baseURL  string
)

func init() {
	CategoriesCmd.Flags().StringVar(&jsonPath, "json", "", "JSON output file")
	CategoriesCmd.Flags().StringVar(&csvPath, "csv", "", "CSV output file")
	CategoriesCmd.Flags().StringVar(&baseURL, "base-url", izorzok.BaseURL, "site root")
}

func Run(cmd *cobra.Command) error {
	env, err := bootstrap.Init(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	body, err := env.Fetch(cmd.Context(), spider.RuleCategories, izorzok.CategoriesURL(baseURL))
	if err != nil {
		return fmt.Errorf("download category index: %w", err)
	}
	cats, err := izorzok.ExtractCategories(baseURL, body)
	if err != nil {
		return err
	}

	if err := WriteJSON(cmd.OutOrStdout(), cats); err != nil {
		return err
	}
	if jsonPath != "" {
		if err := writeFile(jsonPath, cats, WriteJSON); err != nil {
			return err
		}
	}
	if csvPath != "" {
		if err := writeFile(csvPath, cats, WriteCSV); err != nil {
			return err
		}
	}

	if len(cats) != recipe.ExpectedCategoryCount {
		env.Logger.Warn("unexpected category count",
			zap.Int("count", len(cats)),
			zap.Int("expected", recipe.ExpectedCategoryCount))
	}
	return nil
}

func writeFile(path string, cats []recipe.CategoryLink, write func(io.Writer, []recipe.CategoryLink) error) error {
	f, err := bootstrap.Create(path)
	if err != nil {
		return err
	}
	if err := write(f, cats); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func WriteJSON(w io.Writer, cats []recipe.CategoryLink) error {
	if cats == nil {
		cats = []recipe.CategoryLink{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(cats)
}

func WriteCSV(w io.Writer, cats []recipe.CategoryLink) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"name", "url"}); err != nil {
		return err
	}
	for _, c := range cats {
		if err := cw.Write([]string{c.Name, c.URL}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

