package vocab

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	apperrors "github.com/alppdcjr12/wrap-notes-sub000/internal/errors"
)

// ConsoleProvider asks for values on a line-oriented terminal.
type ConsoleProvider struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsoleProvider creates a new ConsoleProvider instance
func NewConsoleProvider(in io.Reader, out io.Writer) *ConsoleProvider {
	return &ConsoleProvider{in: bufio.NewReader(in), out: out}
}

// Resolve shows a numbered menu of the request's options. Typing a number picks one,
// 0 switches to free text, and anything else narrows the menu by fuzzy search. Kinds
// without options go straight to confirmed free text.
func (p *ConsoleProvider) Resolve(req Request) (Choice, error) {
	prompt := fmt.Sprintf("Blank #%d, %s", req.Ordinal, req.Blank.Prompt(false))
	if req.Blank.Kind.IsCustom() || len(req.Options) == 0 {
		text, err := ConfirmFreeText(p.in, p.out, prompt)
		if err != nil {
			return Choice{}, err
		}
		return Choice{Display: text}, nil
	}

	options := req.Options
	for {
		fmt.Fprintf(p.out, "%s\n", prompt)
		for i, o := range options {
			fmt.Fprintf(p.out, "  %d) %s\n", i+1, optionLabel(options, o))
		}
		fmt.Fprintf(p.out, "  0) other\n")
		fmt.Fprintf(p.out, "Choose a number or type to search: ")

		line, err := readLine(p.in)
		if err != nil {
			return Choice{}, err
		}

		if n, convErr := strconv.Atoi(line); convErr == nil {
			switch {
			case n == 0:
				text, err := ConfirmFreeText(p.in, p.out, prompt)
				if err != nil {
					return Choice{}, err
				}
				return Choice{Display: text}, nil
			case n >= 1 && n <= len(options):
				return ChoiceFor(options[n-1]), nil
			}
			fmt.Fprintf(p.out, "No option %d.\n", n)
			continue
		}

		if line == "" {
			options = req.Options
			continue
		}
		switch matches := Match(options, line); len(matches) {
		case 0:
		case 1:
			return ChoiceFor(matches[0]), nil
		default:
			fmt.Fprintf(p.out, "%q matches more than one option.\n", line)
			options = matches
			continue
		}
		matches := Search(req.Options, line)
		switch len(matches) {
		case 0:
			fmt.Fprintf(p.out, "Nothing matches %q.\n", line)
			options = req.Options
		case 1:
			return ChoiceFor(matches[0]), nil
		default:
			options = matches
		}
	}
}

// ConfirmFreeText reads a line of text and asks for confirmation. Answers other than
// y, yes, n or no (any case) repeat the question; n or no starts over.
func ConfirmFreeText(r *bufio.Reader, w io.Writer, prompt string) (string, error) {
	for {
		fmt.Fprintf(w, "%s: ", prompt)
		text, err := readLine(r)
		if err != nil {
			return "", err
		}
		if text == "" {
			continue
		}

	confirm:
		for {
			fmt.Fprintf(w, "Confirm %q? (Y/N): ", text)
			answer, err := readLine(r)
			if err != nil {
				return "", err
			}
			switch strings.ToLower(answer) {
			case "y", "yes":
				return text, nil
			case "n", "no":
				break confirm
			default:
				fmt.Fprintln(w, "Please answer Y or N.")
			}
		}
	}
}

// readLine returns the next trimmed line. A final line without a newline still counts;
// running out of input is a cancellation.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimSpace(line), nil
		}
		if err == io.EOF {
			return "", apperrors.NewAppError(apperrors.ErrCodeCancelled, "input ended before a value was chosen")
		}
		return "", apperrors.Wrap(err, apperrors.ErrCodeCommandFailed, "failed to read input")
	}
	return strings.TrimSpace(line), nil
}

// optionLabel adds the entity id to displays shared by several options.
func optionLabel(options []Option, o Option) string {
	for _, other := range options {
		if other != o && strings.EqualFold(other.Display, o.Display) && o.EntityID != "" {
			return fmt.Sprintf("%s (%s)", o.Display, o.EntityID)
		}
	}
	return o.Display
}
