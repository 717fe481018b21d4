package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func (c *CLI) newProjectCommand() *cobra.Command {
	var src spaceSource
	cmd := &cobra.Command{
		Use:   "project <text>...",
		Short: "Project text into a space and print its vector",
		Args:  cobra.MinimumNArgs(1),
		Example: `  semspace project "gold silver truck" --space space.txt
  semspace project "gold silver truck" --name news`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := src.load()
			if err != nil {
				return err
			}
			v, err := s.Project(strings.Join(args, " "))
			if err != nil {
				return err
			}
			return writeJSON(stdout, v)
		},
	}
	src.addFlags(cmd)
	return cmd
}

func (c *CLI) newSimilarCommand() *cobra.Command {
	var (
		src  spaceSource
		n    int
		text bool
	)
	cmd := &cobra.Command{
		Use:   "similar <term>",
		Short: "List the terms closest to a term or text",
		Args:  cobra.MinimumNArgs(1),
		Example: `  semspace similar gold --space space.txt -n 5
  semspace similar --text "silver delivery" --name news`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := src.load()
			if err != nil {
				return err
			}
			query := strings.Join(args, " ")
			if text {
				ns, err := s.SimilarText(query, n)
				if err != nil {
					return err
				}
				return writeJSON(stdout, ns)
			}
			ns, err := s.Similar(query, n)
			if err != nil {
				return err
			}
			return writeJSON(stdout, ns)
		},
	}
	src.addFlags(cmd)
	cmd.Flags().IntVarP(&n, "top", "n", 10, "Number of neighbors")
	cmd.Flags().BoolVar(&text, "text", false, "Treat the arguments as text to project")
	return cmd
}

func (c *CLI) newVectorCommand() *cobra.Command {
	var (
		src spaceSource
		doc int
	)
	cmd := &cobra.Command{
		Use:   "vector [term]",
		Short: "Print the vector of a term or of a build document",
		Args:  cobra.MaximumNArgs(1),
		Example: `  semspace vector gold --space space.txt
  semspace vector --doc 0 --space space.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := src.load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("doc") {
				v, err := s.DocumentVector(doc)
				if err != nil {
					return err
				}
				id, _ := s.DocumentID(doc)
				return writeJSON(stdout, map[string]any{"id": id, "vector": v})
			}
			if len(args) == 0 {
				return cmd.Help()
			}
			v, err := s.VectorFor(args[0])
			if err != nil {
				return err
			}
			return writeJSON(stdout, v)
		},
	}
	src.addFlags(cmd)
	cmd.Flags().IntVar(&doc, "doc", 0, "Print the vector of this document index")
	return cmd
}

func (c *CLI) newInfoCommand() *cobra.Command {
	var src spaceSource
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Print the dimensions of a space",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := src.load()
			if err != nil {
				return err
			}
			return writeJSON(stdout, s.Info())
		},
	}
	src.addFlags(cmd)
	return cmd
}
