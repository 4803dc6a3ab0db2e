// Package cli implements the interactive resource-creation prompt spec.md
// §1 places outside the store kernel's scope ("the interactive
// resource-creation prompt"). It is supplemented here atop Storelike and
// Mapping only, grounded on original_source/cli/src/new.rs.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/atomicdata-dev/atomic-go/core"
)

// Prompter reads one line of free-form answer per call; New's only I/O
// dependency, so tests can drive it without a real terminal.
type Prompter interface {
	Prompt(message string) (string, bool)
}

// stdinPrompter reads from a bufio.Reader wrapping os.Stdin (or any
// io.Reader supplied by the caller), mirroring promptly's prompt_opt
// semantics: an empty line means "no answer".
type stdinPrompter struct {
	r *bufio.Reader
	w io.Writer
}

// NewStdinPrompter builds a Prompter over r, echoing prompts to w.
func NewStdinPrompter(r io.Reader, w io.Writer) Prompter {
	return &stdinPrompter{r: bufio.NewReader(r), w: w}
}

func (p *stdinPrompter) Prompt(message string) (string, bool) {
	fmt.Fprintf(p.w, "%s: ", message)
	line, err := p.r.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", false
	}
	return line, true
}

// New walks the user through creating an instance of classInput (a URL or
// mapping shortname) via a series of prompts, adds the result to store,
// and records the bookmark in mapping (it does not write mapping to disk).
// It returns the created resource's subject and, if the user supplied one,
// its new bookmark shortname.
func New(store core.Storelike, mapping *core.Mapping, classInput string, p Prompter, clock core.Clock) (subject string, shortname string, err error) {
	classURL := mapping.TryMappingOrURL(classInput)
	class, err := store.GetClass(classURL)
	if err != nil {
		return "", "", fmt.Errorf("resolve class %s: %w", classInput, err)
	}
	fmt.Printf("Enter a new %s: %s\n", class.Shortname, class.Description)
	return promptInstance(store, mapping, &class, "", p, clock)
}

func promptInstance(store core.Storelike, mapping *core.Mapping, class *core.Class, preferredShortname string, p Prompter, clock core.Clock) (string, string, error) {
	subject := fmt.Sprintf("_:%d", clock.NowMS())
	if preferredShortname != "" {
		subject = fmt.Sprintf("_:%d-%s", clock.NowMS(), preferredShortname)
	}

	resource := core.NewResource(subject)
	resource.SetPropval(core.PropIsA, core.NewResourceArrayValue([]string{class.Subject}))

	for _, propURL := range class.Requires {
		property, err := store.GetProperty(propURL)
		if err != nil {
			return "", "", fmt.Errorf("resolve required property %s: %w", propURL, err)
		}
		if property.Subject == core.PropShortname && preferredShortname != "" {
			if err := resource.SetPropvalString(property.Subject, preferredShortname, store); err != nil {
				return "", "", err
			}
			fmt.Printf("Shortname set to %s\n", preferredShortname)
			continue
		}
		fmt.Printf("%s: %s\n", property.Shortname, property.Description)
		for {
			input, answered, err := promptField(store, mapping, &property, false, p)
			if err != nil {
				return "", "", err
			}
			if answered {
				if err := resource.SetPropvalString(property.Subject, input, store); err != nil {
					return "", "", err
				}
				break
			}
			fmt.Println("Required field, please enter a value.")
		}
	}

	for _, propURL := range class.Recommends {
		property, err := store.GetProperty(propURL)
		if err != nil {
			continue
		}
		fmt.Printf("%s: %s\n", property.Shortname, property.Description)
		input, answered, err := promptField(store, mapping, &property, true, p)
		if err != nil {
			return "", "", err
		}
		if answered {
			if err := resource.SetPropvalString(property.Subject, input, store); err != nil {
				return "", "", err
			}
		}
	}

	fmt.Printf("%s created with URL: %s\n", class.Shortname, subject)

	bookmark, err := promptBookmark(mapping, subject, p)
	if err != nil {
		return "", "", err
	}

	if err := store.AddResource(resource); err != nil {
		return "", "", err
	}
	return subject, bookmark, nil
}

// promptField issues the message appropriate for property's datatype.
// Slug and date answers are checked here: an invalid slug is asked again
// for a required field, while an invalid date, or an invalid slug for an
// optional field, is returned as no answer. Answers for other datatypes
// are returned unchecked.
func promptField(store core.Storelike, mapping *core.Mapping, property *core.Property, optional bool, p Prompter) (string, bool, error) {
	suffix := " (required)"
	if optional {
		suffix = " (optional)"
	}

	switch property.DataType.URL() {
	case core.DatatypeString, core.DatatypeMarkdown:
		answer, ok := p.Prompt("string" + suffix)
		return answer, ok, nil

	case core.DatatypeSlug:
		for {
			answer, ok := p.Prompt("slug" + suffix)
			if !ok {
				return "", false, nil
			}
			if _, err := core.ParseValue(answer, core.DatatypeTagSlug); err == nil {
				return answer, true, nil
			}
			fmt.Println("Only letters, numbers and dashes - no spaces or special characters.")
			if optional {
				return "", false, nil
			}
		}

	case core.DatatypeInteger:
		answer, ok := p.Prompt("integer" + suffix)
		return answer, ok, nil

	case core.DatatypeDate:
		for {
			answer, ok := p.Prompt("date YYYY-MM-DD" + suffix)
			if !ok {
				return "", false, nil
			}
			if _, err := core.ParseValue(answer, core.DatatypeTagDate); err == nil {
				return answer, true, nil
			}
			fmt.Println("Not a valid date.")
			return "", false, nil
		}

	case core.DatatypeAtomicURL:
		if property.ClassType != "" {
			class, err := store.GetClass(property.ClassType)
			if err == nil {
				fmt.Printf("Enter the URL or shortname of a %s\n", class.Description)
			}
		}
		answer, ok := p.Prompt("URL" + suffix)
		if !ok {
			return "", false, nil
		}
		return mapping.TryMappingOrURL(answer), true, nil

	case core.DatatypeResourceArray:
		answer, ok := p.Prompt("resource array - Add the URLs or Shortnames, separated by spaces" + suffix)
		if !ok {
			return "", false, nil
		}
		items := strings.Fields(answer)
		urls := make([]string, 0, len(items))
		for _, item := range items {
			urls = append(urls, mapping.TryMappingOrURL(item))
		}
		return core.NewResourceArrayValue(urls).String(), true, nil

	default:
		answer, ok := p.Prompt(property.DataType.URL() + suffix)
		return answer, ok, nil
	}
}

// promptBookmark offers to save subject under a user-chosen shortname in
// mapping, re-prompting until the shortname is free and slug-valid (or the
// user declines by leaving the prompt blank).
func promptBookmark(mapping *core.Mapping, subject string, p Prompter) (string, error) {
	for {
		answer, ok := p.Prompt("Local Bookmark (optional)")
		if !ok {
			return "", nil
		}
		if existing, ok := mapping.Get(answer); ok {
			fmt.Printf("You're already using that shortname for %s, try something else\n", existing)
			continue
		}
		if err := mapping.Set(answer, subject); err != nil {
			fmt.Println("Not a valid bookmark, only use letters, numbers, and '-'")
			continue
		}
		return answer, nil
	}
}
