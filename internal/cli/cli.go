// Package cli holds the handlers behind the wrap-notes commands. main.go owns flag
// parsing through cobra; each handler here takes already-parsed values, validates them
// against a named schema and writes its output to the CLI's writer.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alppdcjr12/wrap-notes-sub000/internal/blank"
	"github.com/alppdcjr12/wrap-notes-sub000/internal/clipboard"
	apperrors "github.com/alppdcjr12/wrap-notes-sub000/internal/errors"
	"github.com/alppdcjr12/wrap-notes-sub000/internal/models"
	"github.com/alppdcjr12/wrap-notes-sub000/internal/service"
	"github.com/alppdcjr12/wrap-notes-sub000/internal/ui"
	"github.com/alppdcjr12/wrap-notes-sub000/internal/validation"
	"go.uber.org/zap"
)

// CLI provides headless command-line interface functionality
type CLI struct {
	service   *service.Service
	validator *validation.Validator
	copier    *clipboard.Copier
	painter   *ui.Painter
	out       io.Writer
	in        io.Reader
	theme     string
	logger    *zap.Logger
}

// Options configures a CLI. Zero fields fall back to the process's stdio, the platform
// clipboard and a no-op logger.
type Options struct {
	Out    io.Writer
	In     io.Reader
	Theme  string
	Copier *clipboard.Copier
	Logger *zap.Logger
}

// NewCLI creates a new CLI instance
func NewCLI(svc *service.Service, opts Options) *CLI {
	c := &CLI{
		service:   svc,
		validator: validation.NewValidator(),
		copier:    opts.Copier,
		painter:   ui.NewPainter(),
		out:       opts.Out,
		in:        opts.In,
		theme:     opts.Theme,
		logger:    opts.Logger,
	}
	if c.out == nil {
		c.out = os.Stdout
	}
	if c.in == nil {
		c.in = os.Stdin
	}
	if c.copier == nil {
		c.copier = clipboard.New()
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.theme == "" {
		c.theme = "auto"
	}
	return c
}

// Init creates the library layout and seeds the default templates
func (c *CLI) Init() error {
	if err := c.service.InitLibrary(); err != nil {
		return fmt.Errorf("failed to initialize library: %w", err)
	}
	fmt.Fprintf(c.out, "Initialized library at %s\n", c.service.BaseDir())
	return nil
}

// Kinds lists every blank kind with its abbreviation and prompt
func (c *CLI) Kinds(format string) error {
	kinds := blankKinds()
	switch format {
	case "json":
		return c.encodeJSON(kinds)
	default:
		fmt.Fprintf(c.out, "%-8s %-24s %s\n", "Abbrev", "Kind", "Prompt")
		fmt.Fprintln(c.out, strings.Repeat("-", 80))
		for _, k := range kinds {
			fmt.Fprintf(c.out, "%-8s %-24s %s\n", k.Abbreviation, k.Label, k.Prompt)
		}
	}
	return nil
}

// AddPerson records a person in the directory
func (c *CLI) AddPerson(person models.Person) error {
	if err := c.service.AddPerson(person); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Saved %s (%s)\n", person.Name, person.ID)
	return nil
}

// ListPeople lists the directory, optionally only one role
func (c *CLI) ListPeople(role, format string) error {
	people, err := c.service.People()
	if err != nil {
		return fmt.Errorf("failed to load people: %w", err)
	}
	if role != "" {
		people = people.WithRole(role)
	}

	switch format {
	case "json":
		return c.encodeJSON(people)
	case "ids":
		for _, p := range people {
			fmt.Fprintln(c.out, p.ID)
		}
	default:
		fmt.Fprintf(c.out, "%-20s %-30s %-12s %s\n", "ID", "Name", "Role", "Pronouns")
		fmt.Fprintln(c.out, strings.Repeat("-", 80))
		for _, p := range people {
			fmt.Fprintf(c.out, "%-20s %-30s %-12s %s/%s\n",
				p.ID, truncate(p.Name, 30), p.Role, p.Pronouns.Form(blank.PronounSubject), p.Pronouns.Form(blank.PronounObject))
		}
	}
	return nil
}

// validate runs data through a named schema and returns the converted values
func (c *CLI) validate(schema string, data map[string]interface{}) (map[string]interface{}, error) {
	result := c.validator.Validate(schema, data)
	if appErr := result.ToAppError(); appErr != nil {
		return nil, appErr
	}
	return result.GetValidatedData(), nil
}

func (c *CLI) encodeJSON(v interface{}) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}

// HandleError formats err for the terminal and logs it
func HandleError(err error, verbose bool, logger *zap.Logger) error {
	return apperrors.NewCLIErrorHandler(verbose, logger).HandleError(err)
}
