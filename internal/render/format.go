package render

import (
	"fmt"
	"sort"
	"strings"
)

type Format struct {
	Name     string
	Ext      string
	Animated bool
	Vector   bool
}

// Formats lists the output formats of headless rendering.
var Formats = map[string]Format{
	"png": {Name: "png", Ext: ".png"},
	"gif": {Name: "gif", Ext: ".gif", Animated: true},
	"svg": {Name: "svg", Ext: ".svg", Vector: true},
}

func ParseFormat(name string) (Format, error) {
	f, ok := Formats[strings.ToLower(strings.TrimPrefix(name, "."))]
	if !ok {
		return Format{}, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
	return f, nil
}

func FormatNames() []string {
	names := make([]string, 0, len(Formats))
	for n := range Formats {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
