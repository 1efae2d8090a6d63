package entry

import (
	"bytes"
	"embed"
	"encoding/json"
	"path"
	"strings"
	"text/template"

	"github.com/productbrew/fnbundle/pkg/config"
	"github.com/productbrew/fnbundle/pkg/errors"
	"github.com/productbrew/fnbundle/pkg/types"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

const templateName = "entry.js.tmpl"

var templates = template.Must(template.New("entry").
	Funcs(template.FuncMap{"quote": quote}).
	ParseFS(templatesFS, "templates/*.tmpl"))

// Generator renders entry files
type Generator struct {
	aliasModule        string
	implementationPath string
}

type alias struct {
	Name   string
	Target string
}

type entryData struct {
	AliasModule    string
	Aliases        []alias
	Implementation string
}

// New creates a generator from the entry configuration
func New(cfg config.Entry) *Generator {
	return &Generator{
		aliasModule:        cfg.AliasModule,
		implementationPath: cfg.ImplementationPath,
	}
}

// Generate renders an entry file with the default configuration
func Generate(functionName string, refs []types.PackageRef) (string, error) {
	return New(config.Default().Entry).Generate(functionName, refs)
}

// Generate renders the entry file for functionName registering one alias per
// reference, in reference order.
func (g *Generator) Generate(functionName string, refs []types.PackageRef) (string, error) {
	if len(refs) == 0 {
		return "", errors.New(errors.ErrInvalidInput, "entry file needs at least one package reference").
			WithDetail("function", functionName)
	}
	if err := checkValue("function name", functionName); err != nil {
		return "", err
	}
	if strings.ContainsAny(functionName, `/\`) || strings.Contains(functionName, "..") {
		return "", errors.Newf(errors.ErrInvalidInput, "invalid function name %q", functionName)
	}
	if err := checkValue("alias module", g.aliasModule); err != nil {
		return "", err
	}

	data := entryData{
		AliasModule:    g.aliasModule,
		Aliases:        make([]alias, 0, len(refs)),
		Implementation: config.Expand(g.implementationPath, functionName),
	}
	seen := make(map[string]bool, len(refs))
	for _, ref := range refs {
		if err := checkValue("package name", ref.Name); err != nil {
			return "", err
		}
		if seen[ref.Name] {
			return "", errors.Newf(errors.ErrInvalidInput, "package %q referenced twice", ref.Name)
		}
		seen[ref.Name] = true
		if err := checkTarget(ref.AliasTarget); err != nil {
			return "", err
		}
		data.Aliases = append(data.Aliases, alias{Name: ref.Name, Target: ref.AliasTarget})
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to render entry file")
	}
	return buf.String(), nil
}

func checkValue(what, value string) error {
	if value == "" {
		return errors.Newf(errors.ErrInvalidInput, "%s cannot be empty", what)
	}
	if strings.ContainsRune(value, 0) {
		return errors.Newf(errors.ErrInvalidInput, "%s contains null bytes", what)
	}
	return nil
}

// checkTarget accepts relative, slash-separated paths that stay below the
// entry file's directory
func checkTarget(target string) error {
	if err := checkValue("alias target", target); err != nil {
		return err
	}
	if path.IsAbs(target) || strings.Contains(target, `\`) {
		return errors.Newf(errors.ErrInvalidInput, "alias target %q must be a relative slash-separated path", target)
	}
	for _, part := range strings.Split(target, "/") {
		if part == ".." {
			return errors.Newf(errors.ErrInvalidInput, "alias target %q escapes the build output", target)
		}
	}
	return nil
}

// quote renders s as a double-quoted JavaScript string literal
func quote(s string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return "", err
	}
	// U+2028 and U+2029 are escaped by the encoder, so the literal is valid JS
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
