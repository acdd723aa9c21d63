package af

import (
	"fmt"
	"io"
)

// FileFormat selects a textual framework representation.
type FileFormat string

const (
	FormatAPX FileFormat = "apx"
	FormatTGF FileFormat = "tgf"
)

// WriteFramework serializes the framework in the given format. With
// annotated set, optional elements carry their markers (opt() wrappers
// in the explicit format, trailing "?" in the terse one).
func WriteFramework(w io.Writer, format FileFormat, args []Argument, atts []Attack, annotated bool) error {
	switch format {
	case FormatAPX:
		return WriteAPX(w, args, atts, annotated)
	case FormatTGF:
		return WriteTGF(w, args, atts, annotated)
	default:
		return fmt.Errorf("unknown file format %q", format)
	}
}

// WriteAPX serializes the framework in the explicit format.
func WriteAPX(w io.Writer, args []Argument, atts []Attack, annotated bool) error {
	for _, arg := range args {
		if _, err := fmt.Fprintf(w, "arg(%s).\n", arg.ID); err != nil {
			return err
		}
	}
	for _, att := range atts {
		if _, err := fmt.Fprintf(w, "att(%s,%s).\n", att.From, att.To); err != nil {
			return err
		}
	}
	if !annotated {
		return nil
	}
	for _, arg := range args {
		if arg.Optional {
			if _, err := fmt.Fprintf(w, "opt(arg(%s)).\n", arg.ID); err != nil {
				return err
			}
		}
	}
	for _, att := range atts {
		if att.Optional {
			if _, err := fmt.Fprintf(w, "opt(att(%s,%s)).\n", att.From, att.To); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteTGF serializes the framework in the terse format.
func WriteTGF(w io.Writer, args []Argument, atts []Attack, annotated bool) error {
	for _, arg := range args {
		if _, err := fmt.Fprintf(w, "%s%s\n", arg.ID, optMarker(annotated && arg.Optional)); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, "#\n"); err != nil {
		return err
	}
	for _, att := range atts {
		if _, err := fmt.Fprintf(w, "%s %s%s\n", att.From, att.To, optMarker(annotated && att.Optional)); err != nil {
			return err
		}
	}
	return nil
}

func optMarker(optional bool) string {
	if optional {
		return "?"
	}
	return ""
}
