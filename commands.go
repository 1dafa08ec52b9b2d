package main

import (
	"strconv"
	"strings"

	"github.com/alppdcjr12/wrap-notes-sub000/internal/cli"
	apperrors "github.com/alppdcjr12/wrap-notes-sub000/internal/errors"
	"github.com/alppdcjr12/wrap-notes-sub000/internal/models"
	"github.com/spf13/cobra"
)

func (a *app) initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the library and seed the default templates",
		Args:  cobra.NoArgs,
		RunE: a.run(func(c *cli.CLI, args []string) error {
			return c.Init()
		}),
	}
}

func (a *app) kindsCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "kinds",
		Short: "List blank kinds and their abbreviations",
		Args:  cobra.NoArgs,
		RunE: a.run(func(c *cli.CLI, args []string) error {
			return c.Kinds(format)
		}),
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: json")
	return cmd
}

func (a *app) templateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "template",
		Aliases: []string{"templates", "t"},
		Short:   "Manage note templates",
	}

	var listFormat, query string
	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List templates",
		Args:    cobra.NoArgs,
		RunE: a.run(func(c *cli.CLI, args []string) error {
			return c.ListTemplates(query, listFormat)
		}),
	}
	list.Flags().StringVarP(&listFormat, "format", "f", "", "output format: json, ids or table")
	list.Flags().StringVarP(&query, "search", "s", "", "fuzzy search on id and name")

	var showFormat string
	var preview bool
	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a template and its blanks",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(c *cli.CLI, args []string) error {
			if preview {
				return c.PreviewTemplate(args[0])
			}
			return c.ShowTemplate(args[0], showFormat)
		}),
	}
	show.Flags().StringVarP(&showFormat, "format", "f", "", "output format: json")
	show.Flags().BoolVarP(&preview, "preview", "p", false, "render with every blank unfilled")

	var in cli.TemplateInput
	create := &cobra.Command{
		Use:   "create <id>",
		Short: "Create a custom template",
		Long: `Create a custom template. Content is given with --content; markers in it
become blanks, for example:

  wrap-notes template create school --name "School visit" \
    --content "Met (---c---) at (---l---). (---p1b@2@---) was (---mo---)."`,
		Args: cobra.ExactArgs(1),
		RunE: a.run(func(c *cli.CLI, args []string) error {
			in.ID = args[0]
			return c.CreateTemplate(in)
		}),
	}
	create.Flags().StringVar(&in.Name, "name", "", "display name")
	create.Flags().StringVar(&in.Category, "category", "", "category")
	create.Flags().StringVar(&in.Description, "description", "", "description")
	create.Flags().StringVar(&in.Content, "content", "", "template text with markers")
	_ = create.MarkFlagRequired("name")

	clone := &cobra.Command{
		Use:   "clone <id> [new-id]",
		Short: "Copy a template as a custom template",
		Args:  cobra.RangeArgs(1, 2),
		RunE: a.run(func(c *cli.CLI, args []string) error {
			newID := ""
			if len(args) > 1 {
				newID = args[1]
			}
			return c.CloneTemplate(args[0], newID)
		}),
	}

	normalize := &cobra.Command{
		Use:   "normalize <id>",
		Short: `Rewrite sentence gaps to a single ". "`,
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(c *cli.CLI, args []string) error {
			return c.NormalizeTemplate(args[0])
		}),
	}

	appendCmd := &cobra.Command{
		Use:   "append <id> <text>...",
		Short: "Add text, possibly with markers, to the end of a template",
		Args:  cobra.MinimumNArgs(2),
		RunE: a.run(func(c *cli.CLI, args []string) error {
			return c.AppendTemplate(args[0], strings.Join(args[1:], " "))
		}),
	}

	del := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a template",
		Args:    cobra.ExactArgs(1),
		RunE: a.run(func(c *cli.CLI, args []string) error {
			return c.DeleteTemplate(args[0])
		}),
	}

	cmd.AddCommand(list, show, create, clone, normalize, appendCmd, del)
	return cmd
}

func (a *app) noteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "note",
		Aliases: []string{"notes", "n"},
		Short:   "Start, fill, edit and export notes",
	}

	var client string
	newCmd := &cobra.Command{
		Use:   "new <template>",
		Short: "Start a note from a template",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(c *cli.CLI, args []string) error {
			_, err := c.NewNote(args[0], client)
			return err
		}),
	}
	newCmd.Flags().StringVarP(&client, "client", "c", "", "client id; fills client blanks and pronouns")

	var listFormat string
	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List notes",
		Args:    cobra.NoArgs,
		RunE: a.run(func(c *cli.CLI, args []string) error {
			return c.ListNotes(listFormat)
		}),
	}
	list.Flags().StringVarP(&listFormat, "format", "f", "", "output format: json or ids")

	var showOpts cli.ShowOptions
	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Render a note",
		Long: `Render a note wrapped at the configured width, one sentence per line.

--focus-blank n highlights blank n. --focus-section n labels every content section
and highlights section n; the two cannot be combined.`,
		Args: cobra.ExactArgs(1),
		RunE: a.run(func(c *cli.CLI, args []string) error {
			return c.ShowNote(args[0], showOpts)
		}),
	}
	show.Flags().IntVar(&showOpts.FocusBlank, "focus-blank", 0, "highlight blank n")
	show.Flags().IntVar(&showOpts.FocusSection, "focus-section", 0, "label sections and highlight section n")
	show.Flags().StringVarP(&showOpts.Format, "format", "f", "plain", "output format: plain, styled, json or markdown")
	show.Flags().BoolVarP(&showOpts.Gutter, "gutter", "g", false, "number sentences in a gutter")

	var blanksFormat string
	blanks := &cobra.Command{
		Use:   "blanks <id>",
		Short: "List a note's blanks and their values",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(c *cli.CLI, args []string) error {
			return c.ListBlanks(args[0], blanksFormat)
		}),
	}
	blanks.Flags().StringVarP(&blanksFormat, "format", "f", "", "output format: json")

	var fillOpts cli.FillOptions
	fill := &cobra.Command{
		Use:   "fill <id> [ordinal]",
		Short: "Fill one blank or every open blank",
		Long: `Fill blanks with values given as --value flags, or by answering prompts when
no values are given. A value is ordinal=text or kind=text:

  wrap-notes note fill 3f2a --value l="the family home" --value 9="went well"`,
		Args: cobra.RangeArgs(1, 2),
		RunE: a.run(func(c *cli.CLI, args []string) error {
			opts := fillOpts
			if len(args) > 1 {
				n, err := parseOrdinal(args[1])
				if err != nil {
					return err
				}
				opts.Ordinal = n
			}
			return c.FillNote(args[0], opts)
		}),
	}
	fill.Flags().StringArrayVar(&fillOpts.Values, "value", nil, "ordinal=text or kind=text (repeatable)")
	fill.Flags().BoolVar(&fillOpts.Strict, "strict", false, "reject values outside a kind's vocabulary")

	clearCmd := &cobra.Command{
		Use:   "clear <id> <ordinal>",
		Short: "Forget a blank's value",
		Args:  cobra.ExactArgs(2),
		RunE: a.run(func(c *cli.CLI, args []string) error {
			n, err := parseOrdinal(args[1])
			if err != nil {
				return err
			}
			return c.ClearBlank(args[0], n)
		}),
	}

	var at int
	insert := &cobra.Command{
		Use:   "insert <id> <kind>",
		Short: "Insert a blank, at the end or at a byte offset",
		Args:  cobra.ExactArgs(2),
		RunE: a.run(func(c *cli.CLI, args []string) error {
			return c.InsertBlank(args[0], args[1], at)
		}),
	}
	insert.Flags().IntVar(&at, "at", -1, "byte offset to insert at; the end when negative")

	appendCmd := &cobra.Command{
		Use:   "append <id> <text>...",
		Short: "Add text, possibly with markers, to the end of a note",
		Args:  cobra.MinimumNArgs(2),
		RunE: a.run(func(c *cli.CLI, args []string) error {
			return c.AppendNote(args[0], strings.Join(args[1:], " "))
		}),
	}

	truncate := &cobra.Command{
		Use:   "truncate <id> <offset>",
		Short: "Cut a note's text at a byte offset, dropping later blanks",
		Args:  cobra.ExactArgs(2),
		RunE: a.run(func(c *cli.CLI, args []string) error {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return apperrors.ValidationError("offset must be a number")
			}
			return c.TruncateNote(args[0], n)
		}),
	}

	bind := &cobra.Command{
		Use:   "bind <id> <ordinal> <target>",
		Short: "Point a pronoun back-reference at an earlier blank",
		Args:  cobra.ExactArgs(3),
		RunE: a.run(func(c *cli.CLI, args []string) error {
			n, err := parseOrdinal(args[1])
			if err != nil {
				return err
			}
			target, err := parseOrdinal(args[2])
			if err != nil {
				return err
			}
			return c.BindBlank(args[0], n, target)
		}),
	}

	export := &cobra.Command{
		Use:   "export <id>",
		Short: "Print a note as wrapped plain text",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(c *cli.CLI, args []string) error {
			return c.ExportNote(args[0])
		}),
	}

	copyCmd := &cobra.Command{
		Use:   "copy <id>",
		Short: "Copy a note's plain text to the clipboard",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(c *cli.CLI, args []string) error {
			return c.CopyNote(args[0])
		}),
	}

	del := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a note",
		Args:    cobra.ExactArgs(1),
		RunE: a.run(func(c *cli.CLI, args []string) error {
			return c.DeleteNote(args[0])
		}),
	}

	cmd.AddCommand(newCmd, list, show, blanks, fill, clearCmd, insert, appendCmd, truncate, bind, export, copyCmd, del)
	return cmd
}

func (a *app) personCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "person",
		Aliases: []string{"people", "p"},
		Short:   "Manage the people directory",
	}

	var person models.Person
	var pronouns, goals string
	add := &cobra.Command{
		Use:   "add <id> <name>",
		Short: "Add or replace a person",
		Long: `Add or replace a person. --pronouns takes the four forms separated by
slashes, for example she/her/her/hers.`,
		Args: cobra.ExactArgs(2),
		RunE: a.run(func(c *cli.CLI, args []string) error {
			p := person
			p.ID, p.Name = args[0], args[1]
			if pronouns != "" {
				forms := strings.Split(pronouns, "/")
				if len(forms) != 4 {
					return apperrors.ValidationError("pronouns must be four forms, like she/her/her/hers")
				}
				p.Pronouns = models.Pronouns{Subject: forms[0], Object: forms[1], Possessive: forms[2], PossessivePronoun: forms[3]}
			}
			for _, g := range strings.Split(goals, ";") {
				if g = strings.TrimSpace(g); g != "" {
					p.Goals = append(p.Goals, g)
				}
			}
			return c.AddPerson(p)
		}),
	}
	add.Flags().StringVarP(&person.Role, "role", "r", "client", "user, client, collateral or guardian")
	add.Flags().StringVar(&pronouns, "pronouns", "", "subject/object/possessive/possessive-pronoun")
	add.Flags().StringVar(&goals, "goals", "", "client goals separated by ';'")

	var role, format string
	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List people",
		Args:    cobra.NoArgs,
		RunE: a.run(func(c *cli.CLI, args []string) error {
			return c.ListPeople(role, format)
		}),
	}
	list.Flags().StringVarP(&role, "role", "r", "", "only this role")
	list.Flags().StringVarP(&format, "format", "f", "", "output format: json or ids")

	cmd.AddCommand(add, list)
	return cmd
}

func (a *app) sessionCmd() *cobra.Command {
	var template, client string
	cmd := &cobra.Command{
		Use:   "session [note-id]",
		Short: "Fill a note interactively",
		Long: `Open the full-screen fill session on a note. With --template a new note is
started first.`,
		Args: cobra.MaximumNArgs(1),
		RunE: a.run(func(c *cli.CLI, args []string) error {
			switch {
			case template != "":
				note, err := c.NewNote(template, client)
				if err != nil {
					return err
				}
				return c.Session(note.ID)
			case len(args) == 1:
				return c.Session(args[0])
			}
			return apperrors.InvalidCommandError("session", "give a note id or --template")
		}),
	}
	cmd.Flags().StringVarP(&template, "template", "t", "", "start a new note from this template")
	cmd.Flags().StringVarP(&client, "client", "c", "", "client id for the new note")
	return cmd
}

func parseOrdinal(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, apperrors.NewAppError(apperrors.ErrCodeInvalidOrdinal, "ordinal must be a positive number").
			WithContext("value", s)
	}
	return n, nil
}
