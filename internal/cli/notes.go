package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alppdcjr12/wrap-notes-sub000/internal/blank"
	apperrors "github.com/alppdcjr12/wrap-notes-sub000/internal/errors"
	"github.com/alppdcjr12/wrap-notes-sub000/internal/models"
	"github.com/alppdcjr12/wrap-notes-sub000/internal/render"
	"github.com/alppdcjr12/wrap-notes-sub000/internal/ui"
	"github.com/alppdcjr12/wrap-notes-sub000/internal/vocab"
	"go.uber.org/zap"
)

// ShowOptions carries the flags of note show
type ShowOptions struct {
	FocusBlank   int
	FocusSection int
	// Format is plain, styled, json or markdown; empty means plain.
	Format string
	Gutter bool
}

// FillOptions carries the flags of note fill
type FillOptions struct {
	// Ordinal fills one blank; zero fills every open blank in order.
	Ordinal int
	// Values are ordinal=text or kind=text pairs. Without any, values are asked for
	// on the CLI's input.
	Values []string
	Strict bool
}

// NewNote starts a note from a template and prints its ID
func (c *CLI) NewNote(templateID, clientID string) (*models.Note, error) {
	data := map[string]interface{}{"template": templateID}
	if clientID != "" {
		data["client"] = clientID
	}
	if _, err := c.validate("new_note", data); err != nil {
		return nil, err
	}

	note, err := c.service.StartNote(templateID, clientID)
	if err != nil {
		return nil, err
	}
	filled, total := note.Progress()
	fmt.Fprintf(c.out, "Started note %s (%d/%d blanks filled)\n", note.ID, filled, total)
	return note, nil
}

// ListNotes lists notes with their progress
func (c *CLI) ListNotes(format string) error {
	notes, err := c.service.ListNotes()
	if err != nil {
		return fmt.Errorf("failed to list notes: %w", err)
	}

	switch format {
	case "json":
		return c.encodeJSON(notes)
	case "ids":
		for _, n := range notes {
			fmt.Fprintln(c.out, n.ID)
		}
	default:
		fmt.Fprintf(c.out, "%-38s %-20s %-8s %s\n", "ID", "Template", "Filled", "Updated")
		fmt.Fprintln(c.out, strings.Repeat("-", 80))
		for _, n := range notes {
			fmt.Fprintf(c.out, "%-38s %-20s %-8s %s\n",
				n.ID, truncate(n.TemplateID, 20), fmt.Sprintf("%d/%d", n.Filled, n.Total), n.UpdatedAt.Format("2006-01-02 15:04"))
		}
	}
	return nil
}

// ShowNote renders a note with an optional focus
func (c *CLI) ShowNote(id string, opts ShowOptions) error {
	if opts.Format == "" {
		opts.Format = "plain"
	}
	if _, err := c.validate("show_note", map[string]interface{}{
		"id":            id,
		"focus_blank":   opts.FocusBlank,
		"focus_section": opts.FocusSection,
		"format":        opts.Format,
	}); err != nil {
		return err
	}

	note, err := c.service.GetNote(id)
	if err != nil {
		return err
	}
	focus := render.Focus{Blank: opts.FocusBlank, Section: opts.FocusSection}
	lines, err := c.service.Layout(note, focus)
	if err != nil {
		return err
	}

	switch opts.Format {
	case "json":
		return c.encodeJSON(struct {
			ID    string               `json:"id"`
			Focus render.Focus         `json:"focus"`
			Lines []render.DisplayLine `json:"lines"`
		}{note.ID, focus, lines})
	case "markdown":
		out, err := ui.RenderMarkdown(ui.NoteMarkdown(note.Title(), lines), c.service.Engine().Width, c.theme)
		if err != nil {
			return err
		}
		fmt.Fprint(c.out, out)
	case "styled":
		p := *c.painter
		p.Gutter = opts.Gutter
		fmt.Fprintln(c.out, p.Paint(lines))
	default:
		p := ui.Painter{Gutter: opts.Gutter, UpperHighlight: true, Plain: true}
		fmt.Fprintln(c.out, p.Paint(lines))
	}
	return nil
}

// ListBlanks prints every blank of a note with its value or prompt
func (c *CLI) ListBlanks(id, format string) error {
	note, err := c.service.GetNote(id)
	if err != nil {
		return err
	}
	blanks, err := note.OrderedBlanks()
	if err != nil {
		return err
	}

	switch format {
	case "json":
		return c.encodeJSON(blanks)
	default:
		for _, b := range blanks {
			status := "[ ]"
			text := b.Blank.Prompt(false)
			if b.Filled {
				status = "[x]"
				text = b.Display
			}
			fmt.Fprintf(c.out, "%s %2d. %-12s %s\n", status, b.Ordinal, b.Blank.Marker(), text)
		}
	}
	return nil
}

// FillNote fills one blank or all open blanks and saves the note. Blanks filled before
// an error are kept.
func (c *CLI) FillNote(id string, opts FillOptions) error {
	data, err := c.validate("edit_note", map[string]interface{}{
		"id":      id,
		"ordinal": opts.Ordinal,
		"values":  opts.Values,
		"strict":  opts.Strict,
	})
	if err != nil {
		return err
	}
	strict, _ := data["strict"].(bool)
	provider, err := c.provider(stringItems(data["values"]), strict)
	if err != nil {
		return err
	}

	note, err := c.service.GetNote(id)
	if err != nil {
		return err
	}

	var filled int
	var fillErr error
	if opts.Ordinal > 0 {
		var v models.BlankValue
		v, fillErr = c.service.FillBlank(note, opts.Ordinal, provider)
		if fillErr == nil {
			filled = 1
			fmt.Fprintf(c.out, "#%d = %s\n", opts.Ordinal, v.Display)
		}
	} else {
		filled, fillErr = c.service.FillAll(note, provider)
	}

	if filled > 0 {
		if err := c.service.SaveNote(note); err != nil {
			return err
		}
	}
	c.logger.Debug("note filled", zap.String("id", id), zap.Int("filled", filled))
	if fillErr != nil {
		return fillErr
	}

	done, total := note.Progress()
	fmt.Fprintf(c.out, "Filled %d blanks (%d/%d)\n", filled, done, total)
	return nil
}

// provider picks static values when any were given and the console otherwise
func (c *CLI) provider(values []string, strict bool) (vocab.Provider, error) {
	if len(values) == 0 {
		return vocab.NewConsoleProvider(c.in, c.out), nil
	}
	p := vocab.StaticProvider{
		ByOrdinal: make(map[int]string),
		ByKind:    make(map[blank.Kind]string),
		Strict:    strict,
	}
	for _, pair := range values {
		key, value, _ := strings.Cut(pair, "=")
		if n, err := strconv.Atoi(key); err == nil {
			p.ByOrdinal[n] = value
			continue
		}
		kind, ok := blank.KindFromAbbreviation(key)
		if !ok {
			return nil, apperrors.ValidationError(fmt.Sprintf("unknown blank kind %q", key))
		}
		p.ByKind[kind] = value
	}
	return p, nil
}

func stringItems(value interface{}) []string {
	items, _ := value.([]interface{})
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, fmt.Sprintf("%v", item))
	}
	return out
}

// ClearBlank forgets a blank's value and the values of back-references to it
func (c *CLI) ClearBlank(id string, ordinal int) error {
	if _, err := c.validate("edit_note", map[string]interface{}{"id": id, "ordinal": ordinal}); err != nil {
		return err
	}
	_, err := c.service.EditNote(id, func(n *models.Note) error {
		if _, err := n.BlankAt(ordinal); err != nil {
			return err
		}
		n.Clear(ordinal)
		return nil
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Cleared blank #%d\n", ordinal)
	return nil
}

// InsertBlank adds a blank given by its abbreviation. A negative index appends it.
func (c *CLI) InsertBlank(id, abbrev string, index int) error {
	data := map[string]interface{}{"id": id, "kind": abbrev}
	if index >= 0 {
		data["index"] = index
	}
	if _, err := c.validate("edit_note", data); err != nil {
		return err
	}
	b, err := blank.ParseAbbreviation(abbrev)
	if err != nil {
		return err
	}

	var ordinal int
	_, err = c.service.EditNote(id, func(n *models.Note) error {
		var err error
		ordinal, err = c.service.InsertBlank(n, b, index)
		return err
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Inserted %s as blank #%d\n", b.Marker(), ordinal)
	return nil
}

// AppendNote adds prose, possibly with markers, to the end of a note
func (c *CLI) AppendNote(id, text string) error {
	note, err := c.service.EditNote(id, func(n *models.Note) error {
		if err := blank.CheckMarkers(text); err != nil {
			return err
		}
		n.AppendText(text)
		return nil
	})
	if err != nil {
		return err
	}
	filled, total := note.Progress()
	fmt.Fprintf(c.out, "Appended to %s (%d/%d blanks filled)\n", note.ID, filled, total)
	return nil
}

// TruncateNote cuts a note's content at a byte index
func (c *CLI) TruncateNote(id string, index int) error {
	if _, err := c.validate("edit_note", map[string]interface{}{"id": id, "index": index}); err != nil {
		return err
	}
	note, err := c.service.EditNote(id, func(n *models.Note) error {
		n.Truncate(index)
		return nil
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Truncated %s to %d bytes\n", note.ID, len(note.Content))
	return nil
}

// BindBlank points a back-reference at an earlier blank and resolves it when the
// target is already filled
func (c *CLI) BindBlank(id string, ordinal, target int) error {
	if _, err := c.validate("edit_note", map[string]interface{}{"id": id, "ordinal": ordinal}); err != nil {
		return err
	}
	note, err := c.service.EditNote(id, func(n *models.Note) error {
		return n.BindBackReference(ordinal, target)
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Bound blank #%d to #%d\n", ordinal, target)

	v, err := c.service.FillBlank(note, ordinal, nil)
	if err != nil {
		c.logger.Debug("back-reference left open", zap.Int("ordinal", ordinal), zap.Error(err))
		fmt.Fprintf(c.out, "Fill blank #%d to resolve it\n", target)
		return nil
	}
	if err := c.service.SaveNote(note); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "#%d = %s\n", ordinal, v.Display)
	return nil
}

// ExportNote prints the note as wrapped plain text
func (c *CLI) ExportNote(id string) error {
	note, err := c.service.GetNote(id)
	if err != nil {
		return err
	}
	text, err := c.service.Export(note)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, text)
	return nil
}

// CopyNote copies the plain text of a note to the clipboard
func (c *CLI) CopyNote(id string) error {
	note, err := c.service.GetNote(id)
	if err != nil {
		return err
	}
	text, err := c.service.Export(note)
	if err != nil {
		return err
	}
	if !note.IsComplete() {
		filled, total := note.Progress()
		fmt.Fprintf(c.out, "Warning: only %d of %d blanks are filled\n", filled, total)
	}

	statusMsg, err := c.copier.CopyWithFallback(text)
	if err != nil {
		fmt.Fprintf(c.out, "Warning: %v\n", err)
		fmt.Fprintf(c.out, "%s\n", text)
		return nil
	}
	fmt.Fprintf(c.out, "%s\n", statusMsg)
	return nil
}

// DeleteNote deletes a note
func (c *CLI) DeleteNote(id string) error {
	if err := c.service.DeleteNote(id); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Deleted note %s\n", id)
	return nil
}

// Session runs the interactive fill session on a note, saving it on exit when it
// was changed
func (c *CLI) Session(id string) error {
	note, err := c.service.GetNote(id)
	if err != nil {
		return err
	}
	s, err := ui.RunSession(c.service, note, c.logger)
	if err != nil {
		return err
	}
	if s.Dirty() {
		if err := c.service.SaveNote(s.Note()); err != nil {
			return err
		}
	}
	filled, total := s.Note().Progress()
	fmt.Fprintf(c.out, "%s: %d/%d blanks filled\n", note.ID, filled, total)
	return nil
}
