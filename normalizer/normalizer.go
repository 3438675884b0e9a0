package normalizer

import (
	"fmt"
	"strings"

	"github.com/erraggy/oassync/ir"
	"github.com/erraggy/oassync/oaserrors"
	"go.yaml.in/yaml/v4"
)

// Result is the output of a successful normalization.
type Result struct {
	// Document is the normalized document.
	Document *ir.Document
	// Format is the detected or hinted source format ("json" or "yaml").
	Format string
	// Version is the declared source version ("2.0", "3.0.3", ...).
	Version string
}

// Normalize decodes data and canonicalizes it into an ir.Document.
//
// Syntax errors, a missing or unsupported version and (in ModeStrict) any
// structural violation are reported as *oaserrors.ParseError.
func Normalize(data []byte, opts ...Option) (*Result, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, &oaserrors.ConfigError{Option: "normalizer", Message: "invalid options", Cause: err}
	}

	format := cfg.hint
	if format == "" {
		format = sniffFormat(data)
	}
	root, err := decode(data, format, cfg.source)
	if err != nil {
		return nil, err
	}

	version, legacy, err := detectVersion(root, cfg.source)
	if err != nil {
		return nil, err
	}

	b := newBuilder(cfg, root, legacy, strings.HasPrefix(version, "3.1"))
	doc := b.build()
	doc.SourceVersion = version
	doc.ContentHash = ir.HashContent(data)

	b.violations = dedupeViolations(b.violations)
	if len(b.violations) > 0 {
		if cfg.mode == ModeStrict {
			return nil, oaserrors.NewStructureError(cfg.source, b.violations)
		}
		doc.Warnings = b.violations
	}

	cfg.logger.Debug("normalized document",
		"source", cfg.source,
		"version", version,
		"format", format,
		"endpoints", doc.Endpoints.Len(),
		"schemas", doc.Schemas.Len(),
		"warnings", len(doc.Warnings))

	return &Result{Document: doc, Format: format, Version: version}, nil
}

// detectVersion reads the version discriminator. legacy is true for 2.0 documents.
func detectVersion(root *yaml.Node, source string) (version string, legacy bool, err error) {
	if n := mapGet(root, "openapi"); n != nil {
		v := scalar(n)
		if strings.HasPrefix(v, "3.0") || strings.HasPrefix(v, "3.1") {
			return v, false, nil
		}
		return "", false, &oaserrors.ParseError{
			Source:  source,
			Reason:  oaserrors.ParseVersion,
			Pointer: "/openapi",
			Line:    n.Line,
			Column:  n.Column,
			Message: fmt.Sprintf("unsupported OpenAPI version %q", v),
		}
	}
	if n := mapGet(root, "swagger"); n != nil {
		v := scalar(n)
		if strings.HasPrefix(v, "2.") {
			return v, true, nil
		}
		return "", false, &oaserrors.ParseError{
			Source:  source,
			Reason:  oaserrors.ParseVersion,
			Pointer: "/swagger",
			Line:    n.Line,
			Column:  n.Column,
			Message: fmt.Sprintf("unsupported Swagger version %q", v),
		}
	}
	return "", false, &oaserrors.ParseError{
		Source:  source,
		Reason:  oaserrors.ParseVersion,
		Pointer: "/",
		Line:    root.Line,
		Column:  root.Column,
		Message: "missing 'openapi' or 'swagger' field",
	}
}

// refUse records where a named schema reference appeared.
type refUse struct {
	name    string
	pointer string
	line    int
	column  int
}

// builder carries the state of one normalization.
type builder struct {
	cfg    *config
	root   *yaml.Node
	legacy bool
	oas31  bool

	// schemaPrefix is "#/definitions/" or "#/components/schemas/".
	schemaPrefix string

	doc          *ir.Document
	violations   []oaserrors.Violation
	schemaUses   []refUse
	operationIDs map[string]string
}

func newBuilder(cfg *config, root *yaml.Node, legacy, oas31 bool) *builder {
	b := &builder{
		cfg:          cfg,
		root:         root,
		legacy:       legacy,
		oas31:        oas31,
		schemaPrefix: "#/components/schemas/",
		operationIDs: make(map[string]string),
		doc: &ir.Document{
			Endpoints:       ir.NewOrderedMap[*ir.Endpoint](),
			Schemas:         ir.NewOrderedMap[*ir.Schema](),
			SecuritySchemes: ir.NewOrderedMap[*ir.SecurityScheme](),
		},
	}
	if legacy {
		b.schemaPrefix = "#/definitions/"
	}
	return b
}

func (b *builder) violate(n *yaml.Node, ptr, format string, args ...any) {
	line, col := 0, 0
	if n != nil {
		line, col = n.Line, n.Column
	}
	b.violateAt(ptr, line, col, format, args...)
}

func (b *builder) violateAt(ptr string, line, col int, format string, args ...any) {
	b.violations = append(b.violations, oaserrors.Violation{
		Pointer: ptr,
		Message: fmt.Sprintf(format, args...),
		Line:    line,
		Column:  col,
	})
}

func (b *builder) build() *ir.Document {
	b.info()
	if b.legacy {
		b.legacyServers()
		b.schemas(mapGet(b.root, "definitions"), "/definitions")
		b.legacySecuritySchemes()
	} else {
		b.servers()
		components := mapGet(b.root, "components")
		b.schemas(mapGet(components, "schemas"), "/components/schemas")
		b.securitySchemes(mapGet(components, "securitySchemes"), "/components/securitySchemes")
	}
	b.paths()
	b.tags()
	b.checkSchemaRefs()
	return b.doc
}

func (b *builder) info() {
	info := mapGet(b.root, "info")
	if info == nil {
		b.violate(b.root, "/info", "missing required field 'info'")
		return
	}
	if !isMapping(info) {
		b.violate(info, "/info", "info must be an object")
		return
	}
	b.doc.Info = ir.Info{
		Title:       scalar(mapGet(info, "title")),
		Version:     scalar(mapGet(info, "version")),
		Description: scalar(mapGet(info, "description")),
	}
	if !mapHas(info, "title") {
		b.violate(info, "/info/title", "missing required field 'title'")
	}
	if !mapHas(info, "version") {
		b.violate(info, "/info/version", "missing required field 'version'")
	}
}

func (b *builder) servers() {
	seqEach(mapGet(b.root, "servers"), func(_ int, n *yaml.Node) {
		url := scalar(mapGet(n, "url"))
		if url == "" {
			return
		}
		b.doc.Servers = append(b.doc.Servers, ir.Server{URL: url, Description: scalar(mapGet(n, "description"))})
	})
}

func (b *builder) securitySchemes(section *yaml.Node, ptr string) {
	mapEach(section, func(name string, n *yaml.Node) {
		if ref := mapGet(n, "$ref"); ref != nil {
			n, _ = b.resolveRef(ref, child(child(ptr, name), "$ref"))
			if n == nil {
				return
			}
		}
		b.doc.SecuritySchemes.Set(name, &ir.SecurityScheme{
			Type:         scalar(mapGet(n, "type")),
			Description:  scalar(mapGet(n, "description")),
			Name:         scalar(mapGet(n, "name")),
			In:           scalar(mapGet(n, "in")),
			Scheme:       scalar(mapGet(n, "scheme")),
			BearerFormat: scalar(mapGet(n, "bearerFormat")),
		})
	})
}

// tags lists declared tags, then any tag first seen on an operation.
func (b *builder) tags() {
	seen := make(map[string]bool)
	seqEach(mapGet(b.root, "tags"), func(_ int, n *yaml.Node) {
		name := scalar(mapGet(n, "name"))
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		b.doc.Tags = append(b.doc.Tags, ir.Tag{Name: name, Description: scalar(mapGet(n, "description"))})
	})
	for _, ep := range b.doc.Endpoints.All() {
		for _, t := range ep.Tags {
			if !seen[t] {
				seen[t] = true
				b.doc.Tags = append(b.doc.Tags, ir.Tag{Name: t})
			}
		}
	}
}

// resolveRef follows a local "$ref" (possibly chained) to the referenced node
// and returns it with its JSON pointer. Unresolvable references are reported
// at ptr and return a nil node.
func (b *builder) resolveRef(ref *yaml.Node, ptr string) (*yaml.Node, string) {
	for hops := 0; hops < 16; hops++ {
		target := scalar(ref)
		if !strings.HasPrefix(target, "#/") {
			b.violate(ref, ptr, "external reference %q is not supported", target)
			return nil, ""
		}
		n := lookupPointer(b.root, target[1:])
		if n == nil {
			b.violate(ref, ptr, "unresolved reference %q", target)
			return nil, ""
		}
		next := mapGet(n, "$ref")
		if next == nil {
			return n, target[1:]
		}
		ref = next
		ptr = target[1:] + "/$ref"
	}
	b.violate(ref, ptr, "reference chain is too long")
	return nil, ""
}

// dedupeViolations drops repeats of the same message at the same pointer.
// Shared components are converted once per use, so their problems would
// otherwise be reported several times.
func dedupeViolations(in []oaserrors.Violation) []oaserrors.Violation {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, v := range in {
		key := v.Pointer + "\x00" + v.Message
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}
