package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/research-matcher/internal/researchapi"
)

var professorsCmd = &cobra.Command{
	Use:   "professors",
	Short: "Search professors",
	Run: func(cmd *cobra.Command, _ []string) {
		runProfessors(cmd)
	},
}

func init() {
	rootCmd.AddCommand(professorsCmd)

	professorsCmd.Flags().StringP("query", "q", "", "free text search")
	professorsCmd.Flags().StringSliceP("tags", "t", nil, "research area tags")
	professorsCmd.Flags().String("department", "", "department name")
	professorsCmd.Flags().Bool("accepting", false, "only professors accepting students")
}

func runProfessors(cmd *cobra.Command) {
	env := setup()

	query := researchapi.ProfessorQuery{}
	query.Query, _ = cmd.Flags().GetString("query")
	query.Tags, _ = cmd.Flags().GetStringSlice("tags")
	query.Department, _ = cmd.Flags().GetString("department")
	if cmd.Flags().Changed("accepting") {
		accepting, _ := cmd.Flags().GetBool("accepting")
		query.AcceptingStudents = &accepting
	}

	professors, err := env.client.SearchProfessors(context.Background(), query)
	if err != nil {
		env.logger.Fatal("searching professors", zap.Error(err))
	}

	env.logger.Info("found professors", zap.Int("count", len(professors)))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tDEPARTMENT\tINSTITUTION\tACCEPTING\tRESEARCH AREAS")
	for _, p := range professors {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\t%s\n",
			p.ID, p.Name, p.Department, p.Institution, p.AcceptingStudents, strings.Join(p.ResearchAreas, ", "))
	}
	if err := w.Flush(); err != nil {
		env.logger.Fatal("printing professors", zap.Error(err))
	}
}
