package cli

import (
	"fmt"
	"strings"

	"github.com/alppdcjr12/wrap-notes-sub000/internal/blank"
	"github.com/alppdcjr12/wrap-notes-sub000/internal/models"
	"github.com/alppdcjr12/wrap-notes-sub000/internal/render"
)

type kindInfo struct {
	Abbreviation string `json:"abbreviation"`
	Label        string `json:"label"`
	Prompt       string `json:"prompt"`
	Resolution   string `json:"resolution"`
}

func blankKinds() []kindInfo {
	kinds := blank.Kinds()
	out := make([]kindInfo, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, kindInfo{
			Abbreviation: k.Abbreviation(),
			Label:        k.Label(),
			Prompt:       blank.New(k).Prompt(false),
			Resolution:   resolutionName(k.Resolution()),
		})
	}
	return out
}

func resolutionName(r blank.Resolution) string {
	switch r {
	case blank.ResolvePerson:
		return "person"
	case blank.ResolveDerived:
		return "derived"
	case blank.ResolveFreeText:
		return "free text"
	default:
		return "vocabulary"
	}
}

type templateJSON struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Category    string        `json:"category,omitempty"`
	Description string        `json:"description,omitempty"`
	Custom      bool          `json:"custom"`
	Content     string        `json:"content,omitempty"`
	Blanks      []blank.Blank `json:"blanks,omitempty"`
}

// TemplateInput carries the flags of template create
type TemplateInput struct {
	ID          string
	Name        string
	Category    string
	Description string
	Content     string
}

// ListTemplates lists templates, narrowed by a fuzzy query when one is given
func (c *CLI) ListTemplates(query, format string) error {
	var (
		templates []*models.Template
		err       error
	)
	if query != "" {
		templates, err = c.service.SearchTemplates(query)
	} else {
		templates, err = c.service.ListTemplates()
	}
	if err != nil {
		return fmt.Errorf("failed to list templates: %w", err)
	}

	switch format {
	case "json":
		out := make([]templateJSON, 0, len(templates))
		for _, t := range templates {
			out = append(out, templateJSON{ID: t.ID, Name: t.Title(), Category: t.Category, Description: t.Description, Custom: t.Custom})
		}
		return c.encodeJSON(out)
	case "ids":
		for _, t := range templates {
			fmt.Fprintln(c.out, t.ID)
		}
	case "table":
		fmt.Fprintf(c.out, "%-20s %-30s %-15s %s\n", "ID", "Name", "Category", "Updated")
		fmt.Fprintln(c.out, strings.Repeat("-", 80))
		for _, t := range templates {
			fmt.Fprintf(c.out, "%-20s %-30s %-15s %s\n",
				t.ID, truncate(t.Title(), 30), t.Category, t.UpdatedAt.Format("2006-01-02"))
		}
	default:
		for _, t := range templates {
			fmt.Fprintf(c.out, "%s - %s\n", t.ID, t.Title())
			if t.Description != "" {
				fmt.Fprintf(c.out, "  %s\n", t.Description)
			}
			fmt.Fprintln(c.out)
		}
	}
	return nil
}

// ShowTemplate prints a template's metadata, blanks and content
func (c *CLI) ShowTemplate(id, format string) error {
	t, err := c.service.GetTemplate(id)
	if err != nil {
		return err
	}
	blanks, err := t.OrderedBlanks()
	if err != nil {
		return err
	}

	switch format {
	case "json":
		return c.encodeJSON(templateJSON{
			ID:          t.ID,
			Name:        t.Title(),
			Category:    t.Category,
			Description: t.Description,
			Custom:      t.Custom,
			Content:     t.Content,
			Blanks:      blanks,
		})
	default:
		fmt.Fprintf(c.out, "ID: %s\n", t.ID)
		fmt.Fprintf(c.out, "Name: %s\n", t.Title())
		if t.Category != "" {
			fmt.Fprintf(c.out, "Category: %s\n", t.Category)
		}
		if t.Description != "" {
			fmt.Fprintf(c.out, "Description: %s\n", t.Description)
		}
		fmt.Fprintf(c.out, "Created: %s\n", t.CreatedAt.Format("2006-01-02 15:04"))
		fmt.Fprintf(c.out, "Updated: %s\n", t.UpdatedAt.Format("2006-01-02 15:04"))

		if len(blanks) > 0 {
			fmt.Fprintln(c.out, "\nBlanks:")
			for i, b := range blanks {
				fmt.Fprintf(c.out, "  %2d. %-12s %s\n", i+1, b.Marker(), b.Prompt(false))
			}
		}

		fmt.Fprintf(c.out, "\nContent:\n%s\n", t.Content)
	}
	return nil
}

// PreviewTemplate renders a template with every blank unfilled
func (c *CLI) PreviewTemplate(id string) error {
	t, err := c.service.GetTemplate(id)
	if err != nil {
		return err
	}
	lines, err := c.service.Engine().Layout(render.Input{Content: t.Content})
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, c.painter.Paint(lines))
	return nil
}

// CreateTemplate creates a custom template
func (c *CLI) CreateTemplate(in TemplateInput) error {
	data := map[string]interface{}{
		"id":      in.ID,
		"name":    in.Name,
		"content": in.Content,
	}
	if in.Category != "" {
		data["category"] = in.Category
	}
	if _, err := c.validate("create_template", data); err != nil {
		return err
	}

	t := &models.Template{
		ID:          in.ID,
		Name:        in.Name,
		Category:    in.Category,
		Description: in.Description,
		Custom:      true,
		Content:     in.Content,
	}
	if err := c.service.CreateTemplate(t); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Created template %s\n", t.ID)
	return nil
}

// CloneTemplate copies a template under a new ID
func (c *CLI) CloneTemplate(id, newID string) error {
	data := map[string]interface{}{"id": id}
	if newID != "" {
		data["new_id"] = newID
	}
	if _, err := c.validate("clone_template", data); err != nil {
		return err
	}

	clone, err := c.service.CloneTemplate(id, newID)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Cloned %s to %s\n", id, clone.ID)
	return nil
}

// NormalizeTemplate rewrites a template's sentence spacing
func (c *CLI) NormalizeTemplate(id string) error {
	changed, err := c.service.NormalizeTemplate(id)
	if err != nil {
		return err
	}
	if changed {
		fmt.Fprintf(c.out, "Normalized spacing in %s\n", id)
	} else {
		fmt.Fprintf(c.out, "%s is already normalized\n", id)
	}
	return nil
}

// AppendTemplate adds prose, possibly with markers, to the end of a template
func (c *CLI) AppendTemplate(id, text string) error {
	t, err := c.service.AppendToTemplate(id, text)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s now has %d blanks\n", t.ID, blank.Count(t.Content))
	return nil
}

// DeleteTemplate deletes a template
func (c *CLI) DeleteTemplate(id string) error {
	if err := c.service.DeleteTemplate(id); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Deleted template %s\n", id)
	return nil
}
