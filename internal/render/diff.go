package render

import (
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/vedsharma/soar/internal/model"
)

// Diff renders before and after in the same format and compares them line by
// line at equal indexes. A differing line counts as a subtraction when the
// old line is longer and as an addition otherwise. Shifted lines are not
// realigned.
func Diff(format string, before, after any) (model.View, error) {
	a, err := diffRendering(format, before)
	if err != nil {
		return model.View{}, err
	}
	b, err := diffRendering(format, after)
	if err != nil {
		return model.View{}, err
	}

	return compare(a, b), nil
}

func diffRendering(format string, payload any) (string, error) {
	if format == JSON {
		return indentJSON(payload)
	}
	return Render(payload, format)
}

func compare(a, b string) model.View {
	old := strings.Split(a, "\n")
	cur := strings.Split(b, "\n")

	n := len(old)
	if len(cur) > n {
		n = len(cur)
	}

	var view model.View
	out := make([]string, 0, n)

	for i := 0; i < n; i++ {
		before, after := lineAt(old, i), lineAt(cur, i)

		if before == after {
			out = append(out, "  "+before)
			continue
		}

		if utf8.RuneCountInString(before) > utf8.RuneCountInString(after) {
			out = append(out, "- "+after)
			view.Subtractions++
		} else {
			out = append(out, "+ "+after)
			view.Additions++
		}
		view.TotalChanges++
	}

	view.Output = strings.Join(out, "\n")
	return view
}

func lineAt(lines []string, i int) string {
	if i < len(lines) {
		return lines[i]
	}
	return ""
}

// Highlight colours lines starting with + green and lines starting with -
// red. Other lines pass through. Nothing is coloured when enabled is false.
func Highlight(s string, enabled bool) string {
	if !enabled {
		return s
	}

	add := color.New(color.FgGreen)
	remove := color.New(color.FgRed)
	add.EnableColor()
	remove.EnableColor()

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+"):
			lines[i] = add.Sprint(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = remove.Sprint(line)
		}
	}

	return strings.Join(lines, "\n")
}
