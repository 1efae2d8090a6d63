// Package deployflags renders a manifest's deploy-config block as command
// line flags for the deploy collaborator.
package deployflags

import (
	"fmt"
	"strings"

	"github.com/mattn/go-shellwords"
	"github.com/productbrew/fnbundle/pkg/errors"
	"github.com/productbrew/fnbundle/pkg/manifest"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// Render formats fields in declaration order. A true value renders as a bare
// --key, anything else as --key='value'.
func Render(fields []manifest.ConfigField) string {
	flags := make([]string, 0, len(fields))
	for _, f := range fields {
		if f.Value.Type == gjson.True {
			flags = append(flags, "--"+f.Key)
			continue
		}
		flags = append(flags, fmt.Sprintf("--%s='%s'", f.Key, strings.ReplaceAll(value(f.Value), "'", `'\''`)))
	}
	return strings.Join(flags, " ")
}

// Args returns the rendered flags split into argv with quotes removed
func Args(fields []manifest.ConfigField) ([]string, error) {
	rendered := Render(fields)
	if rendered == "" {
		return nil, nil
	}
	args, err := shellwords.Parse(rendered)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrManifestParse, "failed to split deploy flags").
			WithDetail("flags", rendered)
	}
	return args, nil
}

func value(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return v.Str
	case gjson.False:
		return "false"
	case gjson.Null:
		return "null"
	case gjson.JSON:
		return string(pretty.Ugly([]byte(v.Raw)))
	default:
		return v.Raw
	}
}
