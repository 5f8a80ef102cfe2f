package internal

import (
	"fmt"
	"io"
	"strings"
)

func Logf(w io.Writer, prefix string, spec *SourceSpec, format string, a ...any) {
	parts := []string{}
	if prefix != "" {
		parts = append(parts, prefix)
	}
	if spec != nil {
		parts = append(parts, fmt.Sprintf("Feed %s:", spec))
	}
	parts = append(parts, fmt.Sprintf(format, a...))
	fmt.Fprintln(w, strings.Join(parts, " "))
}
